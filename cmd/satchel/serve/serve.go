// Package servecmder provides the serve command for running the API and MCP servers.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satchelworks/satchel/api"
	"github.com/satchelworks/satchel/api/mcp"
	"github.com/satchelworks/satchel/pkg/config"
	"github.com/satchelworks/satchel/pkg/logger"
	"github.com/satchelworks/satchel/pkg/satchel"
)

type ServeCommander struct {
	listen    string
	noMCP     bool
	configDir string
	debug     bool
	logger    *zap.Logger
}

const serveLongDesc string = `Run the Satchel servers.

Starts the HTTP API server with the MCP endpoint mounted at /mcp. Both
surfaces share one service, so every request synchronizes against the
remote store in S3.

Configuration is read from config.toml in the .satchel/ directory and from
SATCHEL_* environment variables. CLI flags take precedence over both.

Examples:
  satchel serve
  satchel serve --listen :9090
  satchel serve --no-mcp`

const serveShortDesc string = "Run the API and MCP servers"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			if !cmd.Flags().Changed("listen") {
				cmder.listen = ""
			}
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", ":8080", "Address for the API server to listen on")
	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Disable the MCP endpoint")

	return cmd
}

func (c *ServeCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.ConfigFromViper(v)

	if c.listen != "" {
		cfg.API.Listen = c.listen
	}

	service, err := satchel.Build(cfg, c.logger)
	if err != nil {
		return fmt.Errorf("building service: %w", err)
	}
	defer service.Close()

	mcpServer, err := mcp.NewServer(mcp.Config{
		Service: service,
		Noop:    c.noMCP,
		Logger:  c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	var mounted *mcp.Server
	if !c.noMCP {
		mounted = mcpServer
	}

	apiServer := api.NewServer(api.Config{
		ListenAddr: cfg.API.Listen,
	}, service, mounted, c.logger)

	c.logger.Info("starting satchel server",
		zap.String("listen", cfg.API.Listen),
		zap.String("remote_key", cfg.Storage.RemoteKey),
		zap.String("bucket", cfg.S3.Bucket),
		zap.Bool("mcp", !c.noMCP),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return apiServer.Shutdown()
	}
}
