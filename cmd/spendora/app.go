package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Veraticus/spendora/internal/analytics"
	"github.com/Veraticus/spendora/internal/config"
	"github.com/Veraticus/spendora/internal/engine"
	"github.com/Veraticus/spendora/internal/events"
	"github.com/Veraticus/spendora/internal/llm"
	"github.com/Veraticus/spendora/internal/service"
	"github.com/Veraticus/spendora/internal/storage"
	"github.com/Veraticus/spendora/internal/telemetry"
	"github.com/Veraticus/spendora/internal/training"
)

// app bundles the wired components shared by every command.
type app struct {
	store      service.Storage
	classifier *llm.Classifier
	publisher  *events.Publisher
	engine     *engine.Engine
	exporter   *training.Exporter
	kpis       *analytics.Aggregator
	settings   config.Settings
}

type appOptions struct {
	// registry receives engine metrics; nil uses a private registry.
	registry prometheus.Registerer
	// publish enables the feedback event publisher when configured.
	publish bool
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, settings.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	a := &app{store: store, settings: settings}

	a.classifier, err = llm.NewClassifier(settings.LLM, settings.Vocabulary, slog.Default())
	if err != nil {
		_ = a.close()
		return nil, err
	}
	if !a.classifier.Available() {
		slog.Info("No LLM provider configured; unmatched descriptions fall back to Uncategorized")
	}

	if opts.registry == nil {
		opts.registry = prometheus.NewRegistry()
	}

	engineCfg := engine.DefaultConfig()
	engineCfg.Vocabulary = settings.Vocabulary
	engineCfg.ClassifyTimeout = settings.ClassifyTimeout
	engineCfg.Recorder = telemetry.NewMetrics(opts.registry)
	engineCfg.Logger = slog.Default()

	if opts.publish && settings.Events.URL != "" {
		a.publisher, err = events.NewPublisher(settings.Events, slog.Default())
		if err != nil {
			_ = a.close()
			return nil, fmt.Errorf("failed to start feedback publisher: %w", err)
		}
		engineCfg.Publisher = a.publisher
	}

	a.engine = engine.NewWithConfig(store, a.classifier, engineCfg)
	a.exporter = training.NewExporter(store, settings.Vocabulary)
	a.kpis = analytics.NewAggregator(store)

	return a, nil
}

func (a *app) close() error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.classifier != nil {
		errs = append(errs, a.classifier.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}
