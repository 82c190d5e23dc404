package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendora/internal/model"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.SuggestionResolved(model.SourceMemory)
	m.SuggestionResolved(model.SourceMemory)
	m.SuggestionResolved(model.SourceGPT)
	m.ClassifierCalled("ok", 120*time.Millisecond)
	m.ClassifierCalled("failed", 2*time.Second)
	m.FeedbackRecorded(true)
	m.FeedbackRecorded(false)
	m.FeedbackRecorded(false)

	assert.InDelta(t, 2, testutil.ToFloat64(m.SuggestionsTotal.WithLabelValues("MEMORY")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SuggestionsTotal.WithLabelValues("GPT")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ClassifierCalls.WithLabelValues("failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.FeedbackTotal.WithLabelValues("true")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.FeedbackTotal.WithLabelValues("false")), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "spendora_classifier_duration_seconds")
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}
