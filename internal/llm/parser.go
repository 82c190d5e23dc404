package llm

import (
	"regexp"
	"strings"

	"github.com/Veraticus/spendora/internal/model"
)

// NoInsightsLine is returned when a model produced nothing usable.
const NoInsightsLine = "No insights available yet."

// maxInsightLines caps how many insight lines are kept.
const maxInsightLines = 3

var (
	categoryPrefix = regexp.MustCompile(`(?i)^category\s*[:\-]\s*`)
	bulletPrefix   = regexp.MustCompile(`^[-*•]\s*`)
)

// CategoryMatcher maps free-text model output onto a vocabulary.
type CategoryMatcher struct {
	vocab model.Vocabulary
	words []*regexp.Regexp
}

// NewCategoryMatcher compiles whole-word patterns for every vocabulary entry.
func NewCategoryMatcher(vocab model.Vocabulary) *CategoryMatcher {
	words := make([]*regexp.Regexp, len(vocab))
	for i, category := range vocab {
		words[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(category) + `\b`)
	}
	return &CategoryMatcher{vocab: vocab, words: words}
}

// Match returns the vocabulary category named by raw. Only the first line is
// considered, after dashes and a leading "category:" label are removed. An
// exact case-insensitive match wins; otherwise the first vocabulary entry, in
// declaration order, that appears as a whole word is used. Anything else is
// Uncategorized.
func (m *CategoryMatcher) Match(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.Uncategorized
	}

	first := raw
	if i := strings.IndexAny(raw, "\r\n"); i >= 0 {
		first = raw[:i]
	}
	first = strings.TrimSpace(strings.ReplaceAll(first, "-", ""))
	compact := strings.TrimSpace(categoryPrefix.ReplaceAllString(first, ""))

	if category, ok := m.vocab.Canonical(compact); ok {
		return category
	}

	for i, word := range m.words {
		if word.MatchString(compact) {
			return m.vocab[i]
		}
	}

	return model.Uncategorized
}

// ParseInsights keeps up to three non-blank lines of raw, with bullet
// markers removed. It never returns an empty slice.
func ParseInsights(raw string) []string {
	lines := make([]string, 0, maxInsightLines)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxInsightLines {
			break
		}
	}

	if len(lines) == 0 {
		return []string{NoInsightsLine}
	}
	return lines
}
