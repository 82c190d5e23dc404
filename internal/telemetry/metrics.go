// Package telemetry exposes Prometheus metrics for categorization decisions.
package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Veraticus/spendora/internal/model"
)

// Metrics holds Prometheus metrics for the decision engine.
//
// Metrics:
//   - spendora_suggestions_total{source} - resolved suggestions
//   - spendora_classifier_calls_total{outcome} - classifier calls by outcome
//   - spendora_classifier_duration_seconds{outcome} - classifier latency
//   - spendora_feedback_total{overridden} - recorded feedback
type Metrics struct {
	SuggestionsTotal   *prometheus.CounterVec
	ClassifierCalls    *prometheus.CounterVec
	ClassifierDuration *prometheus.HistogramVec
	FeedbackTotal      *prometheus.CounterVec
}

// NewMetrics creates and registers the metrics with reg.
// Pass a fresh registry in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SuggestionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendora_suggestions_total",
				Help: "Total number of category suggestions resolved",
			},
			[]string{"source"},
		),
		ClassifierCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendora_classifier_calls_total",
				Help: "Total number of external classifier calls",
			},
			[]string{"outcome"},
		),
		ClassifierDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spendora_classifier_duration_seconds",
				Help:    "Duration of external classifier calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"outcome"},
		),
		FeedbackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendora_feedback_total",
				Help: "Total number of feedback submissions",
			},
			[]string{"overridden"},
		),
	}
}

// SuggestionResolved counts a resolved suggestion.
func (m *Metrics) SuggestionResolved(source model.Source) {
	m.SuggestionsTotal.WithLabelValues(string(source)).Inc()
}

// ClassifierCalled records one classifier call.
func (m *Metrics) ClassifierCalled(outcome string, elapsed time.Duration) {
	m.ClassifierCalls.WithLabelValues(outcome).Inc()
	m.ClassifierDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// FeedbackRecorded counts one feedback submission.
func (m *Metrics) FeedbackRecorded(overridden bool) {
	m.FeedbackTotal.WithLabelValues(strconv.FormatBool(overridden)).Inc()
}
