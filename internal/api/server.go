// Package api provides the HTTP API for category suggestions.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Veraticus/spendora/internal/model"
)

// Server provides HTTP endpoints for spendora.
type Server struct {
	echo        *echo.Echo
	categorizer Categorizer
	exporter    TrainingExporter
	kpis        KPIReporter
	logger      *slog.Logger
	address     string
}

// Config holds HTTP server configuration.
type Config struct {
	// Gatherer backs /metrics. Defaults to the global registry.
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
	Address  string
}

// NewServer creates a new HTTP server.
func NewServer(categorizer Categorizer, exporter TrainingExporter, kpis KPIReporter, cfg Config) *Server {
	if cfg.Address == "" {
		cfg.Address = ":8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:        e,
		categorizer: categorizer,
		exporter:    exporter,
		kpis:        kpis,
		logger:      cfg.Logger,
		address:     cfg.Address,
	}

	e.HTTPErrorHandler = s.errorHandler

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger)

	s.registerRoutes(cfg.Gatherer)

	return s
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		s.logger.Info("http request",
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"status", c.Response().Status,
			"duration", time.Since(start),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID))

		return nil
	}
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes(gatherer prometheus.Gatherer) {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	ai := s.echo.Group("/api/ai")
	ai.POST("/suggest-category", s.handleSuggest)
	ai.POST("/feedback", s.handleFeedback)
	ai.GET("/insights", s.handleInsights)
	ai.GET("/training-data", s.handleTrainingData)

	analytics := s.echo.Group("/api/analytics")
	analytics.GET("/ai/kpis", s.handleKPIs)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleSuggest(c echo.Context) error {
	var req model.SuggestRequest
	if err := c.Bind(&req); err != nil {
		return malformed(err)
	}

	suggestion, err := s.categorizer.ResolveCategory(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(suggestion))
}

func (s *Server) handleFeedback(c echo.Context) error {
	var req model.FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return malformed(err)
	}

	result, err := s.categorizer.RecordFeedback(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(result))
}

func (s *Server) handleInsights(c echo.Context) error {
	return c.JSON(http.StatusOK, ok(s.categorizer.Insights(c.Request().Context())))
}

func (s *Server) handleTrainingData(c echo.Context) error {
	data, err := s.exporter.Export(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(data))
}

func (s *Server) handleKPIs(c echo.Context) error {
	report, err := s.kpis.Compute(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(report))
}

// Start starts the HTTP server. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting http server", "addr", s.address)
	return s.echo.Start(s.address)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
