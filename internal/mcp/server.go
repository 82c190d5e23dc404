// Package mcp exposes category suggestions, feedback and reports as MCP tools.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Veraticus/spendora/internal/api"
)

// Server is an MCP server backed by the categorization engine.
type Server struct {
	mcp         *mcp.Server
	categorizer api.Categorizer
	exporter    api.TrainingExporter
	kpis        api.KPIReporter
	logger      *slog.Logger
}

// Config configures the MCP server.
type Config struct {
	Logger *slog.Logger

	// Name is the implementation name (default: "spendora")
	Name string

	// Version is the server version (default: "dev")
	Version string
}

// NewServer creates an MCP server with all tools registered.
func NewServer(categorizer api.Categorizer, exporter api.TrainingExporter, kpis api.KPIReporter, cfg Config) (*Server, error) {
	if categorizer == nil || exporter == nil || kpis == nil {
		return nil, fmt.Errorf("mcp server requires categorizer, exporter and kpi reporter")
	}
	if cfg.Name == "" {
		cfg.Name = "spendora"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		categorizer: categorizer,
		exporter:    exporter,
		kpis:        kpis,
		logger:      cfg.Logger,
	}

	s.registerSuggestionTools()
	s.registerReportTools()

	return s, nil
}

// Run serves MCP over stdio until ctx is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport")
	if err := s.mcp.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}
