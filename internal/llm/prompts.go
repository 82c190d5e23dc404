package llm

import (
	"strings"

	"github.com/Veraticus/spendora/internal/model"
)

// Prompts for the insights call.
const (
	InsightsSystemPrompt = "You are a personal finance analyst."
	InsightsUserPrompt   = "Provide exactly 3 short actionable spending insights.\nKeep the response under 60 words.\n"
)

// CategorizationPrompt builds the system prompt that constrains a model to
// answer with a single vocabulary category. The training export reuses it so
// fine-tuning data matches what the live classifier sees.
func CategorizationPrompt(vocab model.Vocabulary) string {
	var b strings.Builder
	b.WriteString("You are a personal-finance categorization assistant.\n")
	b.WriteString("Return exactly one category from this list:\n")
	b.WriteString(vocab.String())
	b.WriteString(".\n")
	if vocab.Contains("Food") {
		b.WriteString("Classify restaurant dishes, groceries, and beverages as Food.\n")
	}
	if vocab.Contains("Entertainment") {
		b.WriteString("Classify movies, cinema, streaming subscriptions, and OTT platforms as Entertainment.\n")
	}
	b.WriteString("Do not add explanations.\n")
	return b.String()
}

// TransactionNote formats a description as the user turn of a categorization prompt.
func TransactionNote(description string) string {
	return "Transaction note: " + strings.TrimSpace(description)
}
