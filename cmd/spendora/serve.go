package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/spendora/internal/api"
	"github.com/Veraticus/spendora/internal/mcp"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve category suggestions, feedback, insights, training data and KPIs
over HTTP. Prometheus metrics are exposed on /metrics.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default from server.address)")
	_ = viper.BindPFlag("server.address", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := newApp(ctx, appOptions{registry: reg, publish: true})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.close(); closeErr != nil {
			slog.Warn("Failed to close resources", "error", closeErr)
		}
	}()

	server := api.NewServer(a.engine, a.exporter, a.kpis, api.Config{
		Gatherer: reg,
		Logger:   slog.Default(),
		Address:  a.settings.ServerAddress,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Received interrupt signal, shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run an MCP tool server on stdio",
		Long: `Expose suggest_category, record_feedback, spending_insights,
export_training_data and ai_kpis as MCP tools over stdin/stdout.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, appOptions{publish: true})
			if err != nil {
				return err
			}
			defer func() { _ = a.close() }()

			server, err := mcp.NewServer(a.engine, a.exporter, a.kpis, mcp.Config{
				Logger:  slog.Default(),
				Version: version,
			})
			if err != nil {
				return err
			}

			return server.Run(ctx)
		},
	}
}
