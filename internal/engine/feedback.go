package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/spendora/internal/common"
	"github.com/Veraticus/spendora/internal/model"
)

// RecordFeedback marks a suggestion as validated with a human-confirmed
// category. Resubmitting overwrites the previous feedback.
func (e *Engine) RecordFeedback(ctx context.Context, req model.FeedbackRequest) (model.FeedbackResult, error) {
	if req.SuggestionID == nil {
		return model.FeedbackResult{}, common.InvalidInput("suggestionId is required")
	}
	final := strings.TrimSpace(req.FinalCategory)
	if final == "" {
		return model.FeedbackResult{}, common.InvalidInput("finalCategory is required")
	}

	id := *req.SuggestionID
	record, err := e.store.GetSuggestion(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return model.FeedbackResult{}, common.NotFound(fmt.Sprintf("suggestion %d not found", id))
	}
	if err != nil {
		return model.FeedbackResult{}, fmt.Errorf("failed to load suggestion: %w", err)
	}

	if req.UserID != nil {
		record.UserID = *req.UserID
	}
	record.Validated = true
	record.FinalCategory = final
	record.Overridden = !strings.EqualFold(final, strings.TrimSpace(record.SuggestedCategory))

	err = e.store.UpdateSuggestion(ctx, record)
	if errors.Is(err, common.ErrNotFound) {
		return model.FeedbackResult{}, common.NotFound(fmt.Sprintf("suggestion %d not found", id))
	}
	if err != nil {
		return model.FeedbackResult{}, fmt.Errorf("failed to save feedback: %w", err)
	}

	e.recorder.FeedbackRecorded(record.Overridden)
	e.logger.Info("Recorded feedback",
		"suggestion_id", id,
		"final_category", final,
		"overridden", record.Overridden)

	e.publish(ctx, record)

	return model.FeedbackResult{
		SuggestionID:  id,
		FinalCategory: final,
		Overridden:    record.Overridden,
	}, nil
}

// publish announces feedback. Delivery failures are logged and dropped;
// the suggestion log stays the source of truth.
func (e *Engine) publish(ctx context.Context, record *model.SuggestionRecord) {
	if e.publisher == nil {
		return
	}

	event := model.FeedbackEvent{
		SuggestionID:      record.ID,
		UserID:            record.UserID,
		InputText:         record.InputText,
		SuggestedCategory: record.SuggestedCategory,
		FinalCategory:     record.FinalCategory,
		Source:            record.Source,
		Overridden:        record.Overridden,
		RecordedAt:        e.now().UTC(),
	}
	if err := e.publisher.PublishFeedback(ctx, event); err != nil {
		e.logger.Warn("Failed to publish feedback event",
			"suggestion_id", record.ID,
			"error", err)
	}
}
