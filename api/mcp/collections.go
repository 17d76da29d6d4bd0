package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

var (
	addCollectionToolName    = "add_collection"
	addCollectionDescription = "Create a new document collection in the shared store. Collection names are sanitized, so 'My Docs' and 'my-docs' may refer to the same collection."

	removeCollectionToolName    = "remove_collection"
	removeCollectionDescription = "Delete a collection and all of its documents from the shared store."

	listCollectionsToolName    = "list_collections"
	listCollectionsDescription = "List the names of all document collections in the shared store."
)

// AddCollectionInput represents the input arguments for the add_collection tool.
type AddCollectionInput struct {
	Name string `json:"name" jsonschema:"the name of the collection to create"`
}

// AddCollectionOutput represents the output of the add_collection tool.
type AddCollectionOutput struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// RemoveCollectionInput represents the input arguments for the remove_collection tool.
type RemoveCollectionInput struct {
	Name string `json:"name" jsonschema:"the name of the collection to delete"`
}

// RemoveCollectionOutput represents the output of the remove_collection tool.
type RemoveCollectionOutput struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ListCollectionsInput represents the input arguments for the list_collections tool.
type ListCollectionsInput struct{}

// ListCollectionsOutput represents the output of the list_collections tool.
type ListCollectionsOutput struct {
	Collections []string `json:"collections"`
	Count       int      `json:"count"`
}

// handleAddCollection processes an add_collection request.
func (s *Server) handleAddCollection(ctx context.Context, req *mcp.CallToolRequest, input AddCollectionInput) (*mcp.CallToolResult, AddCollectionOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP add_collection request",
		zap.String("name", input.Name),
	)

	if input.Name == "" {
		return errorResult("Collection name is required"), AddCollectionOutput{}, nil
	}

	if err := s.config.Service.AddCollection(ctx, input.Name); err != nil {
		logger.Error("failed to add collection", zap.Error(err))
		return errorResult(fmt.Sprintf("Failed to add collection: %v", err)), AddCollectionOutput{}, nil
	}

	output := AddCollectionOutput{
		Name:    input.Name,
		Message: fmt.Sprintf("Collection %q created", input.Name),
	}

	return jsonResult(logger, output)
}

// handleRemoveCollection processes a remove_collection request.
func (s *Server) handleRemoveCollection(ctx context.Context, req *mcp.CallToolRequest, input RemoveCollectionInput) (*mcp.CallToolResult, RemoveCollectionOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP remove_collection request",
		zap.String("name", input.Name),
	)

	if input.Name == "" {
		return errorResult("Collection name is required"), RemoveCollectionOutput{}, nil
	}

	if err := s.config.Service.RemoveCollection(ctx, input.Name); err != nil {
		logger.Error("failed to remove collection", zap.Error(err))
		return errorResult(fmt.Sprintf("Failed to remove collection: %v", err)), RemoveCollectionOutput{}, nil
	}

	output := RemoveCollectionOutput{
		Name:    input.Name,
		Message: fmt.Sprintf("Collection %q removed", input.Name),
	}

	return jsonResult(logger, output)
}

// handleListCollections processes a list_collections request.
func (s *Server) handleListCollections(ctx context.Context, req *mcp.CallToolRequest, input ListCollectionsInput) (*mcp.CallToolResult, ListCollectionsOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP list_collections request")

	names, err := s.config.Service.ListCollections(ctx)
	if err != nil {
		logger.Error("failed to list collections", zap.Error(err))
		return errorResult(fmt.Sprintf("Failed to list collections: %v", err)), ListCollectionsOutput{}, nil
	}

	if names == nil {
		names = []string{}
	}

	output := ListCollectionsOutput{
		Collections: names,
		Count:       len(names),
	}

	return jsonResult(logger, output)
}

// jsonResult serializes the structured output as JSON for the text field.
// Per MCP spec: tools returning structured content should also return
// serialized JSON in a TextContent block for backwards compatibility.
func jsonResult[T any](logger *zap.Logger, output T) (*mcp.CallToolResult, T, error) {
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal tool output", zap.Error(err))
		var zero T
		return errorResult(fmt.Sprintf("Failed to serialize result: %v", err)), zero, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
