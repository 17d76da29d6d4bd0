package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/satchelworks/satchel/pkg/store"
)

var (
	addDocumentToolName    = "add_document"
	addDocumentDescription = "Add a document to a collection. The document body, summary, and metadata are embedded for semantic search. The URI must be unique within the collection."

	removeDocumentToolName    = "remove_document"
	removeDocumentDescription = "Remove a document from a collection by URI. Succeeds even if the document does not exist."

	getDocumentToolName    = "get_document"
	getDocumentDescription = "Fetch a single document from a collection by URI."
)

// AddDocumentInput represents the input arguments for the add_document tool.
type AddDocumentInput struct {
	Collection string         `json:"collection" jsonschema:"the collection to add the document to"`
	URI        string         `json:"uri" jsonschema:"unique identifier for the document within the collection"`
	Title      string         `json:"title,omitempty" jsonschema:"the document title"`
	Body       string         `json:"body" jsonschema:"the full document text"`
	Summary    string         `json:"summary,omitempty" jsonschema:"a short summary of the document"`
	Metadata   map[string]any `json:"metadata,omitempty" jsonschema:"arbitrary key/value metadata for the document"`
	ChunkID    int            `json:"chunk_id,omitempty" jsonschema:"chunk index when the document is split into multiple parts"`
}

// AddDocumentOutput represents the output of the add_document tool.
type AddDocumentOutput struct {
	Collection string `json:"collection"`
	URI        string `json:"uri"`
	Message    string `json:"message"`
}

// RemoveDocumentInput represents the input arguments for the remove_document tool.
type RemoveDocumentInput struct {
	Collection string `json:"collection" jsonschema:"the collection to remove the document from"`
	URI        string `json:"uri" jsonschema:"the URI of the document to remove"`
}

// RemoveDocumentOutput represents the output of the remove_document tool.
type RemoveDocumentOutput struct {
	Collection string `json:"collection"`
	URI        string `json:"uri"`
	Message    string `json:"message"`
}

// GetDocumentInput represents the input arguments for the get_document tool.
type GetDocumentInput struct {
	Collection string `json:"collection" jsonschema:"the collection to fetch the document from"`
	URI        string `json:"uri" jsonschema:"the URI of the document to fetch"`
}

// GetDocumentOutput represents the output of the get_document tool.
type GetDocumentOutput struct {
	Collection string          `json:"collection"`
	Found      bool            `json:"found"`
	Document   *store.Document `json:"document,omitempty"`
}

// handleAddDocument processes an add_document request.
func (s *Server) handleAddDocument(ctx context.Context, req *mcp.CallToolRequest, input AddDocumentInput) (*mcp.CallToolResult, AddDocumentOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP add_document request",
		zap.String("collection", input.Collection),
		zap.String("uri", input.URI),
	)

	if input.Collection == "" {
		return errorResult("Collection is required"), AddDocumentOutput{}, nil
	}
	if input.URI == "" {
		return errorResult("Document URI is required"), AddDocumentOutput{}, nil
	}

	doc := store.Document{
		URI:      input.URI,
		Title:    input.Title,
		Body:     input.Body,
		Summary:  input.Summary,
		Metadata: input.Metadata,
		ChunkID:  input.ChunkID,
	}

	if err := s.config.Service.AddDocument(ctx, input.Collection, doc); err != nil {
		logger.Error("failed to add document", zap.Error(err))
		return errorResult(fmt.Sprintf("Failed to add document: %v", err)), AddDocumentOutput{}, nil
	}

	output := AddDocumentOutput{
		Collection: input.Collection,
		URI:        input.URI,
		Message:    fmt.Sprintf("Document %q added to collection %q", input.URI, input.Collection),
	}

	return jsonResult(logger, output)
}

// handleRemoveDocument processes a remove_document request.
func (s *Server) handleRemoveDocument(ctx context.Context, req *mcp.CallToolRequest, input RemoveDocumentInput) (*mcp.CallToolResult, RemoveDocumentOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP remove_document request",
		zap.String("collection", input.Collection),
		zap.String("uri", input.URI),
	)

	if input.Collection == "" {
		return errorResult("Collection is required"), RemoveDocumentOutput{}, nil
	}
	if input.URI == "" {
		return errorResult("Document URI is required"), RemoveDocumentOutput{}, nil
	}

	if err := s.config.Service.RemoveDocument(ctx, input.Collection, input.URI); err != nil {
		logger.Error("failed to remove document", zap.Error(err))
		return errorResult(fmt.Sprintf("Failed to remove document: %v", err)), RemoveDocumentOutput{}, nil
	}

	output := RemoveDocumentOutput{
		Collection: input.Collection,
		URI:        input.URI,
		Message:    fmt.Sprintf("Document %q removed from collection %q", input.URI, input.Collection),
	}

	return jsonResult(logger, output)
}

// handleGetDocument processes a get_document request.
func (s *Server) handleGetDocument(ctx context.Context, req *mcp.CallToolRequest, input GetDocumentInput) (*mcp.CallToolResult, GetDocumentOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP get_document request",
		zap.String("collection", input.Collection),
		zap.String("uri", input.URI),
	)

	if input.Collection == "" {
		return errorResult("Collection is required"), GetDocumentOutput{}, nil
	}
	if input.URI == "" {
		return errorResult("Document URI is required"), GetDocumentOutput{}, nil
	}

	doc, err := s.config.Service.GetDocument(ctx, input.Collection, input.URI)
	if err != nil {
		logger.Error("failed to get document", zap.Error(err))
		return errorResult(fmt.Sprintf("Failed to get document: %v", err)), GetDocumentOutput{}, nil
	}

	output := GetDocumentOutput{
		Collection: input.Collection,
		Found:      doc != nil,
		Document:   doc,
	}

	return jsonResult(logger, output)
}
