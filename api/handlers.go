package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/satchelworks/satchel/pkg/session"
	"github.com/satchelworks/satchel/pkg/store"
)

// AddCollectionRequest is the body of POST /v1/collections.
type AddCollectionRequest struct {
	Name string `json:"name"`
}

// AddDocumentRequest is the body of POST /v1/documents.
type AddDocumentRequest struct {
	Collection string         `json:"collection"`
	URI        string         `json:"uri"`
	Title      string         `json:"title"`
	Body       string         `json:"body"`
	Summary    string         `json:"summary"`
	Metadata   map[string]any `json:"metadata"`
	ChunkID    int            `json:"chunk_id"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleListCollections handles GET /v1/collections.
func (s *Server) handleListCollections(c *fiber.Ctx) error {
	names, err := s.service.ListCollections(c.Context())
	if err != nil {
		return s.errorJSON(c, err)
	}

	if names == nil {
		names = []string{}
	}

	return c.JSON(map[string]any{
		"count":       len(names),
		"collections": names,
	})
}

// handleAddCollection handles POST /v1/collections.
func (s *Server) handleAddCollection(c *fiber.Ctx) error {
	var req AddCollectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "name is required"})
	}

	if err := s.service.AddCollection(c.Context(), req.Name); err != nil {
		return s.errorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(map[string]string{"name": req.Name})
}

// handleRemoveCollection handles DELETE /v1/collections/:name.
func (s *Server) handleRemoveCollection(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "name parameter required"})
	}

	if err := s.service.RemoveCollection(c.Context(), name); err != nil {
		return s.errorJSON(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// handleAddDocument handles POST /v1/documents.
func (s *Server) handleAddDocument(c *fiber.Ctx) error {
	var req AddDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.Collection == "" || req.URI == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "collection and uri are required"})
	}

	doc := store.Document{
		URI:      req.URI,
		Title:    req.Title,
		Body:     req.Body,
		Summary:  req.Summary,
		Metadata: req.Metadata,
		ChunkID:  req.ChunkID,
	}

	if err := s.service.AddDocument(c.Context(), req.Collection, doc); err != nil {
		return s.errorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(map[string]string{
		"collection": req.Collection,
		"uri":        req.URI,
	})
}

// handleGetDocument handles GET /v1/documents?collection=&uri=.
func (s *Server) handleGetDocument(c *fiber.Ctx) error {
	collection := c.Query("collection")
	uri := c.Query("uri")
	if collection == "" || uri == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "collection and uri query parameters required"})
	}

	doc, err := s.service.GetDocument(c.Context(), collection, uri)
	if err != nil {
		return s.errorJSON(c, err)
	}
	if doc == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "document not found"})
	}

	return c.JSON(doc)
}

// handleRemoveDocument handles DELETE /v1/documents?collection=&uri=.
func (s *Server) handleRemoveDocument(c *fiber.Ctx) error {
	collection := c.Query("collection")
	uri := c.Query("uri")
	if collection == "" || uri == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "collection and uri query parameters required"})
	}

	if err := s.service.RemoveDocument(c.Context(), collection, uri); err != nil {
		return s.errorJSON(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// errorJSON maps service errors to HTTP statuses. Integrity violations and
// session conflicts are 409 (the latter retryable by replaying the
// request), missing collections are 404, everything else is 500.
func (s *Server) errorJSON(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, store.ErrCollectionExists),
		errors.Is(err, store.ErrDuplicateURI),
		errors.Is(err, session.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, store.ErrCollectionNotFound):
		status = fiber.StatusNotFound
	}

	if status == fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
}
