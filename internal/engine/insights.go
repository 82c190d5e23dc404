package engine

import (
	"context"

	"github.com/Veraticus/spendora/internal/llm"
	"github.com/Veraticus/spendora/internal/model"
)

// unavailableInsights is shown when the classifier call fails.
var unavailableInsights = []string{
	"AI insights are temporarily unavailable.",
	"You can still record entries and use category suggestions.",
	"Try again in a moment.",
}

// Insights returns between one and three short spending insights. It never
// fails: with no classifier configured it returns a single placeholder line.
func (e *Engine) Insights(ctx context.Context) model.Insights {
	if e.classifier == nil {
		return model.Insights{Lines: []string{llm.NoInsightsLine}}
	}

	ctx, cancel := context.WithTimeout(ctx, e.classifyTimeout)
	defer cancel()

	result := e.classifier.Insights(ctx)
	switch result.Outcome {
	case llm.OutcomeOK:
		if len(result.Lines) == 0 {
			return model.Insights{Lines: []string{llm.NoInsightsLine}}
		}
		return model.Insights{Lines: result.Lines}
	case llm.OutcomeUnavailable:
		return model.Insights{Lines: []string{llm.NoInsightsLine}}
	default:
		e.logger.Warn("Insights request failed", "error", result.Err)
		return model.Insights{Lines: append([]string(nil), unavailableInsights...)}
	}
}
