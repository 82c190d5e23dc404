package api

import (
	"context"
	"time"

	"github.com/Veraticus/spendora/internal/model"
)

// Categorizer resolves categories, records feedback and produces insights.
type Categorizer interface {
	ResolveCategory(ctx context.Context, req model.SuggestRequest) (model.Suggestion, error)
	RecordFeedback(ctx context.Context, req model.FeedbackRequest) (model.FeedbackResult, error)
	Insights(ctx context.Context) model.Insights
}

// TrainingExporter renders validated suggestions as fine-tuning lines.
type TrainingExporter interface {
	Export(ctx context.Context) (model.TrainingData, error)
}

// KPIReporter computes the suggestion quality report.
type KPIReporter interface {
	Compute(ctx context.Context) (model.AIKpiReport, error)
}

// Response is the envelope for successful responses.
type Response struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Message   string    `json:"message"`
	Success   bool      `json:"success"`
}

// ErrorResponse is the envelope for failed responses.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
	Details   []string  `json:"details"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Error codes.
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeNotFound      = "NOT_FOUND"
	CodeInternalError = "INTERNAL_ERROR"
)

func ok(data any) Response {
	return Response{
		Success:   true,
		Data:      data,
		Message:   "OK",
		Timestamp: time.Now().UTC(),
	}
}
