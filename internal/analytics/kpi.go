// Package analytics computes quality metrics over the suggestion log.
package analytics

import (
	"context"
	"fmt"

	"github.com/Veraticus/spendora/internal/model"
	"github.com/Veraticus/spendora/internal/service"
)

// Aggregator builds the KPI report from store aggregates.
type Aggregator struct {
	source service.KPISource
}

// NewAggregator creates an aggregator over source.
func NewAggregator(source service.KPISource) *Aggregator {
	return &Aggregator{source: source}
}

// Compute reads the current counters and derives every rate. Each query
// runs on its own, so a report taken during heavy writes can be slightly
// inconsistent across sections.
func (a *Aggregator) Compute(ctx context.Context) (model.AIKpiReport, error) {
	counts, err := a.source.CountSuggestions(ctx)
	if err != nil {
		return model.AIKpiReport{}, fmt.Errorf("failed to count suggestions: %w", err)
	}

	bySource, err := a.source.CountBySource(ctx)
	if err != nil {
		return model.AIKpiReport{}, fmt.Errorf("failed to count by source: %w", err)
	}

	byCategory, err := a.source.CategoryPrecision(ctx)
	if err != nil {
		return model.AIKpiReport{}, fmt.Errorf("failed to compute category precision: %w", err)
	}

	report := model.AIKpiReport{
		Total:             counts.Total,
		Feedback:          counts.Feedback,
		AcceptanceRate:    Ratio(counts.Accepted, counts.Feedback),
		OverrideRate:      Ratio(counts.Overridden, counts.Feedback),
		GPTFallbackRate:   Ratio(counts.GPT, counts.Total),
		SourceBreakdown:   make([]model.SourceKPI, 0, len(bySource)),
		CategoryPrecision: make([]model.CategoryPrecision, 0, len(byCategory)),
	}

	for _, s := range bySource {
		report.SourceBreakdown = append(report.SourceBreakdown, model.SourceKPI{
			Source: string(s.Source),
			Count:  s.Count,
			Share:  Ratio(s.Count, counts.Total),
		})
	}

	for _, c := range byCategory {
		report.CategoryPrecision = append(report.CategoryPrecision, model.CategoryPrecision{
			Category:  c.Category,
			Validated: c.Validated,
			Accepted:  c.Accepted,
			Precision: Ratio(c.Accepted, c.Validated),
		})
	}

	return report, nil
}

// Ratio divides n by d, treating a zero denominator as a zero rate.
func Ratio(n, d int64) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
