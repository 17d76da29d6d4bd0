package api

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/satchelworks/satchel/api/mcp"
	"github.com/satchelworks/satchel/pkg/satchel"
)

// Server is the API server for managing and querying the document store.
type Server struct {
	config  Config
	service *satchel.Service
	logger  *zap.Logger
	app     *fiber.App
}

// NewServer creates a new API server. The service is injected so it can be
// shared with the MCP server; mcpServer may be nil to disable the /mcp
// mount.
func NewServer(config Config, service *satchel.Service, mcpServer *mcp.Server, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:  config,
		service: service,
		logger:  logger,
		app:     app,
	}

	app.Get("/ping", s.handlePing)

	app.Get("/v1/search", s.handleSearch)

	app.Get("/v1/collections", s.handleListCollections)
	app.Post("/v1/collections", s.handleAddCollection)
	app.Delete("/v1/collections/:name", s.handleRemoveCollection)

	app.Get("/v1/documents", s.handleGetDocument)
	app.Post("/v1/documents", s.handleAddDocument)
	app.Delete("/v1/documents", s.handleRemoveDocument)

	if mcpServer != nil {
		app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
