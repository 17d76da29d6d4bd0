package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/satchelworks/satchel/pkg/store"
)

// SearchOutput is the response body of GET /v1/search.
type SearchOutput struct {
	Collection string           `json:"collection"`
	Query      string           `json:"query"`
	Results    []store.Document `json:"results"`
	Count      int              `json:"count"`
}

// handleSearch handles GET /v1/search requests.
// Query parameters:
//   - collection (required): the collection to search
//   - query (required): the search query text
//   - limit (optional): maximum number of results
//   - min_score (optional): score floor
func (s *Server) handleSearch(c *fiber.Ctx) error {
	collection := c.Query("collection")
	if collection == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "collection parameter is required",
		})
	}

	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "query parameter is required",
		})
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "limit must be a positive integer",
			})
		}
		limit = parsed
	}

	minScore := -1.0
	if minScoreStr := c.Query("min_score"); minScoreStr != "" {
		parsed, err := strconv.ParseFloat(minScoreStr, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "min_score must be a number",
			})
		}
		minScore = parsed
	}

	results, err := s.service.Search(c.Context(), collection, query, limit, minScore)
	if err != nil {
		return s.errorJSON(c, err)
	}

	if results == nil {
		results = []store.Document{}
	}

	return c.JSON(SearchOutput{
		Collection: collection,
		Query:      query,
		Results:    results,
		Count:      len(results),
	})
}
