// Package mcp provides an MCP (Model Context Protocol) server over the
// shared document store.
package mcp

import (
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/satchelworks/satchel/pkg/satchel"
	"github.com/satchelworks/satchel/pkg/utils"
)

type Config struct {
	// Service is the document store service backing every tool
	Service *satchel.Service

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured zap logger
	Logger *zap.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the document store tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "satchel",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if c.Noop {
		// return the empty MCP server with no tools configured
		// if the noop flag is set (i.e., MCP capabilities are disabled)
		s.mcpServer = mcpServer
		return s, nil
	}

	if c.Service == nil {
		return nil, errors.New("service is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        addCollectionToolName,
		Description: addCollectionDescription,
	}, s.handleAddCollection)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        removeCollectionToolName,
		Description: removeCollectionDescription,
	}, s.handleRemoveCollection)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        listCollectionsToolName,
		Description: listCollectionsDescription,
	}, s.handleListCollections)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        addDocumentToolName,
		Description: addDocumentDescription,
	}, s.handleAddDocument)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        removeDocumentToolName,
		Description: removeDocumentDescription,
	}, s.handleRemoveDocument)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        getDocumentToolName,
		Description: getDocumentDescription,
	}, s.handleGetDocument)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        searchToolName,
		Description: searchDescription,
	}, s.handleSearch)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// errorResult builds a failed tool call carrying the error text.
func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
