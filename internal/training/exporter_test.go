package training

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/Veraticus/spendora/internal/llm"
	"github.com/Veraticus/spendora/internal/model"
)

type staticSource struct {
	err     error
	records []model.SuggestionRecord
}

func (s staticSource) ListValidatedSuggestions(context.Context) ([]model.SuggestionRecord, error) {
	return s.records, s.err
}

func TestExport_Empty(t *testing.T) {
	exporter := NewExporter(staticSource{}, model.DefaultVocabulary())

	data, err := exporter.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jsonl", data.Format)
	assert.Equal(t, 0, data.Count)
	assert.Equal(t, NoteEmpty, data.Note)
	assert.NotNil(t, data.Lines)
	assert.Empty(t, data.Lines)
}

func TestExport(t *testing.T) {
	created := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	source := staticSource{records: []model.SuggestionRecord{
		{
			ID:                11,
			UserID:            7,
			InputText:         "Pizza \"large\"\twith\\extra\ncheese\r",
			SuggestedCategory: "Food",
			FinalCategory:     "Food",
			Validated:         true,
			CreatedAt:         created,
		},
		{
			ID:                12,
			InputText:         "Netflix",
			SuggestedCategory: "Shopping",
			FinalCategory:     "Entertainment",
			Validated:         true,
			Overridden:        true,
		},
		{
			ID:        13,
			InputText: "???",
			Validated: true,
		},
	}}
	exporter := NewExporter(source, model.DefaultVocabulary())

	data, err := exporter.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, data.Count)
	assert.Equal(t, NoteReady, data.Note)
	require.Len(t, data.Lines, 3)

	for _, line := range data.Lines {
		require.True(t, gjson.Valid(line), line)
		assert.NotContains(t, line, "\n")

		roles := gjson.Get(line, "messages.#.role").Array()
		require.Len(t, roles, 3)
		assert.Equal(t, "system", roles[0].String())
		assert.Equal(t, "user", roles[1].String())
		assert.Equal(t, "assistant", roles[2].String())
		assert.Equal(t, llm.CategorizationPrompt(model.DefaultVocabulary()), gjson.Get(line, "messages.0.content").String())
	}

	first := data.Lines[0]
	assert.Equal(t, "Transaction note: Pizza \"large\"\twith\\extra\ncheese", gjson.Get(first, "messages.1.content").String())
	assert.Equal(t, "Food", gjson.Get(first, "messages.2.content").String())
	assert.Equal(t, int64(11), gjson.Get(first, "metadata.suggestionId").Int())
	assert.Equal(t, int64(7), gjson.Get(first, "metadata.userId").Int())
	assert.Equal(t, "2026-02-03T04:05:06Z", gjson.Get(first, "metadata.createdAt").String())
	assert.Contains(t, first, `\"large\"`)
	assert.Contains(t, first, `\t`)
	assert.Contains(t, first, `\\extra`)

	assert.Equal(t, "Entertainment", gjson.Get(data.Lines[1], "messages.2.content").String())
	assert.Equal(t, "", gjson.Get(data.Lines[1], "metadata.createdAt").String())
	assert.True(t, gjson.Get(data.Lines[1], "metadata.createdAt").Exists())

	assert.Equal(t, model.Uncategorized, gjson.Get(data.Lines[2], "messages.2.content").String())
}

func TestExport_SourceError(t *testing.T) {
	exporter := NewExporter(staticSource{err: errors.New("disk I/O error")}, model.DefaultVocabulary())

	_, err := exporter.Export(context.Background())
	assert.Error(t, err)
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, model.TrainingData{Lines: []string{`{"a":1}`, `{"b":2}`}}))
	assert.Equal(t, "{\"a\":1}\n{\"b\":2}\n", buf.String())
	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 2)
}
