// Package llm adapts external language models into a single-shot category
// classifier with a fixed vocabulary. It supports OpenAI, Anthropic and
// Gemini backends, rate limiting, and normalization of free-text responses.
//
// A Classifier with no backend configured is a normal state: every call
// reports OutcomeUnavailable instead of failing.
package llm
