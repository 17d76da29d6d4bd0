package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/satchelworks/satchel/pkg/store"
)

var (
	searchToolName    = "find_relevant_documents"
	searchDescription = "Search a collection for documents semantically relevant to the query text. Relevance is scored across the document body, summary, and metadata; results are returned most relevant first."
)

// SearchInput represents the input arguments for the find_relevant_documents tool.
type SearchInput struct {
	Collection string  `json:"collection" jsonschema:"the collection to search"`
	Query      string  `json:"query" jsonschema:"the search query text to find relevant documents"`
	Limit      int     `json:"limit,omitempty" jsonschema:"maximum number of results to return (default: 10)"`
	MinScore   float64 `json:"min_score,omitempty" jsonschema:"minimum relevance score for a result to be included (default: 0.01)"`
}

// SearchOutput represents the output of the find_relevant_documents tool.
type SearchOutput struct {
	Collection string           `json:"collection"`
	Query      string           `json:"query"`
	Results    []store.Document `json:"results"`
	Count      int              `json:"count"`
}

// handleSearch processes a find_relevant_documents request.
func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP find_relevant_documents request",
		zap.String("collection", input.Collection),
		zap.String("query", input.Query),
		zap.Int("limit", input.Limit),
		zap.Float64("minScore", input.MinScore),
	)

	if input.Collection == "" {
		return errorResult("Collection is required"), SearchOutput{}, nil
	}
	if input.Query == "" {
		return errorResult("Query is required"), SearchOutput{}, nil
	}

	minScore := input.MinScore
	if minScore == 0 {
		// fall through to the service default floor; an explicit zero floor
		// is indistinguishable from unset in JSON
		minScore = -1
	}

	results, err := s.config.Service.Search(ctx, input.Collection, input.Query, input.Limit, minScore)
	if err != nil {
		logger.Error("failed to search collection", zap.Error(err))
		return errorResult(fmt.Sprintf("Failed to search collection: %v", err)), SearchOutput{}, nil
	}

	if results == nil {
		results = []store.Document{}
	}

	output := SearchOutput{
		Collection: input.Collection,
		Query:      input.Query,
		Results:    results,
		Count:      len(results),
	}

	return jsonResult(logger, output)
}
