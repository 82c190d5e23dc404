package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/spendora/internal/common"
	"github.com/Veraticus/spendora/internal/llm"
)

func TestInsights(t *testing.T) {
	tests := []struct {
		name       string
		classifier Classifier
		expected   []string
	}{
		{
			name:       "lines from classifier",
			classifier: &mockClassifier{insights: llm.InsightsResult{Outcome: llm.OutcomeOK, Lines: []string{"Cook at home", "Cancel a subscription"}}},
			expected:   []string{"Cook at home", "Cancel a subscription"},
		},
		{
			name:       "empty success uses placeholder",
			classifier: &mockClassifier{insights: llm.InsightsResult{Outcome: llm.OutcomeOK}},
			expected:   []string{llm.NoInsightsLine},
		},
		{
			name:       "failure",
			classifier: &mockClassifier{insights: llm.InsightsResult{Outcome: llm.OutcomeFailed, Err: common.ErrClassifierUnavailable}},
			expected:   unavailableInsights,
		},
		{
			name:       "unavailable",
			classifier: &mockClassifier{insights: llm.InsightsResult{Outcome: llm.OutcomeUnavailable}},
			expected:   []string{llm.NoInsightsLine},
		},
		{
			name:     "no classifier",
			expected: []string{llm.NoInsightsLine},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(brokenStore{}, tt.classifier)
			got := e.Insights(context.Background())
			assert.Equal(t, tt.expected, got.Lines)
			assert.NotEmpty(t, got.Lines)
			assert.LessOrEqual(t, len(got.Lines), 3)
		})
	}
}
