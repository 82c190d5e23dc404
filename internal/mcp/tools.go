package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Veraticus/spendora/internal/model"
)

type suggestCategoryInput struct {
	Description string `json:"description" jsonschema:"Free-text transaction description"`
	UserID      *int64 `json:"user_id,omitempty" jsonschema:"User whose personal history is consulted first"`
}

type recordFeedbackInput struct {
	SuggestionID  int64  `json:"suggestion_id" jsonschema:"ID returned by suggest_category"`
	FinalCategory string `json:"final_category" jsonschema:"Category the user settled on"`
	UserID        *int64 `json:"user_id,omitempty" jsonschema:"User submitting the feedback"`
}

type emptyInput struct{}

func (s *Server) registerSuggestionTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "suggest_category",
		Description: "Suggest a spending category for a transaction description. Uses remembered corrections first, then the language model, then a fallback.",
	}, s.suggestCategory)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "record_feedback",
		Description: "Confirm or correct a previous suggestion. Corrections are remembered for future suggestions.",
	}, s.recordFeedback)
}

func (s *Server) registerReportTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "spending_insights",
		Description: "Return up to three short spending insights.",
	}, s.insights)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "export_training_data",
		Description: "Export validated suggestions as JSONL chat examples for fine-tuning.",
	}, s.exportTrainingData)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "ai_kpis",
		Description: "Report suggestion acceptance, override and fallback rates with per-category precision.",
	}, s.aiKPIs)
}

func (s *Server) suggestCategory(
	ctx context.Context, _ *mcp.CallToolRequest, args suggestCategoryInput,
) (*mcp.CallToolResult, model.Suggestion, error) {
	suggestion, err := s.categorizer.ResolveCategory(ctx, model.SuggestRequest{
		Description: args.Description,
		UserID:      args.UserID,
	})
	if err != nil {
		return nil, model.Suggestion{}, fmt.Errorf("suggest category: %w", err)
	}

	return textResult(fmt.Sprintf("%s (source %s, confidence %.2f, suggestion %d)",
		suggestion.Category, suggestion.Source, suggestion.Confidence, suggestion.SuggestionID)), suggestion, nil
}

func (s *Server) recordFeedback(
	ctx context.Context, _ *mcp.CallToolRequest, args recordFeedbackInput,
) (*mcp.CallToolResult, model.FeedbackResult, error) {
	id := args.SuggestionID
	result, err := s.categorizer.RecordFeedback(ctx, model.FeedbackRequest{
		SuggestionID:  &id,
		UserID:        args.UserID,
		FinalCategory: args.FinalCategory,
	})
	if err != nil {
		return nil, model.FeedbackResult{}, fmt.Errorf("record feedback: %w", err)
	}

	verb := "accepted"
	if result.Overridden {
		verb = "overridden"
	}
	s.logger.Debug("feedback recorded via mcp", "suggestion_id", result.SuggestionID, "overridden", result.Overridden)

	return textResult(fmt.Sprintf("Suggestion %d %s as %s", result.SuggestionID, verb, result.FinalCategory)), result, nil
}

func (s *Server) insights(
	ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput,
) (*mcp.CallToolResult, model.Insights, error) {
	insights := s.categorizer.Insights(ctx)
	return textResult(strings.Join(insights.Lines, "\n")), insights, nil
}

func (s *Server) exportTrainingData(
	ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput,
) (*mcp.CallToolResult, model.TrainingData, error) {
	data, err := s.exporter.Export(ctx)
	if err != nil {
		return nil, model.TrainingData{}, fmt.Errorf("export training data: %w", err)
	}
	return textResult(fmt.Sprintf("Exported %d %s lines: %s", data.Count, data.Format, data.Note)), data, nil
}

func (s *Server) aiKPIs(
	ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput,
) (*mcp.CallToolResult, model.AIKpiReport, error) {
	report, err := s.kpis.Compute(ctx)
	if err != nil {
		return nil, model.AIKpiReport{}, fmt.Errorf("compute kpis: %w", err)
	}
	return textResult(fmt.Sprintf("%d suggestions, %d with feedback, acceptance %.2f, override %.2f, fallback %.2f",
		report.Total, report.Feedback, report.AcceptanceRate, report.OverrideRate, report.GPTFallbackRate)), report, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
