// Package training turns validated suggestions into chat-style fine-tuning records.
package training

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/spendora/internal/llm"
	"github.com/Veraticus/spendora/internal/model"
	"github.com/Veraticus/spendora/internal/service"
)

// Format is the only export format.
const Format = "jsonl"

// Notes attached to an export.
const (
	NoteEmpty = "No validated feedback yet. Submit AI feedback first to build training data."
	NoteReady = "Use these lines as a JSONL file for model fine-tuning."
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type metadata struct {
	CreatedAt    string `json:"createdAt"`
	SuggestionID int64  `json:"suggestionId"`
	UserID       int64  `json:"userId"`
}

type record struct {
	Messages []message `json:"messages"`
	Metadata metadata  `json:"metadata"`
}

// Exporter projects validated suggestions into fine-tuning lines.
type Exporter struct {
	source       service.TrainingSource
	systemPrompt string
}

// NewExporter creates an exporter whose system message matches the live
// classifier prompt for vocab.
func NewExporter(source service.TrainingSource, vocab model.Vocabulary) *Exporter {
	return &Exporter{
		source:       source,
		systemPrompt: llm.CategorizationPrompt(vocab),
	}
}

// Export reads every validated suggestion, oldest first, and renders one JSON
// document per suggestion. An empty store yields a note, not an error.
func (e *Exporter) Export(ctx context.Context) (model.TrainingData, error) {
	records, err := e.source.ListValidatedSuggestions(ctx)
	if err != nil {
		return model.TrainingData{}, fmt.Errorf("failed to load validated suggestions: %w", err)
	}

	lines := make([]string, 0, len(records))
	for i := range records {
		line, err := e.line(&records[i])
		if err != nil {
			return model.TrainingData{}, fmt.Errorf("failed to encode suggestion %d: %w", records[i].ID, err)
		}
		lines = append(lines, line)
	}

	note := NoteReady
	if len(lines) == 0 {
		note = NoteEmpty
	}

	return model.TrainingData{
		Format: Format,
		Count:  len(lines),
		Note:   note,
		Lines:  lines,
	}, nil
}

func (e *Exporter) line(r *model.SuggestionRecord) (string, error) {
	category := r.EffectiveCategory()
	if category == "" {
		category = model.Uncategorized
	}

	createdAt := ""
	if !r.CreatedAt.IsZero() {
		createdAt = r.CreatedAt.UTC().Format(time.RFC3339Nano)
	}

	doc := record{
		Messages: []message{
			{Role: "system", Content: e.systemPrompt},
			{Role: "user", Content: llm.TransactionNote(r.InputText)},
			{Role: "assistant", Content: category},
		},
		Metadata: metadata{
			SuggestionID: r.ID,
			UserID:       r.UserID,
			CreatedAt:    createdAt,
		},
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// WriteJSONL writes each line followed by a newline.
func WriteJSONL(w io.Writer, data model.TrainingData) error {
	for _, line := range data.Lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return fmt.Errorf("failed to write training line: %w", err)
		}
	}
	return nil
}
