// Package storage provides the data persistence layer for suggestion records.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/spendora/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidSuggestion = errors.New("invalid suggestion")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSuggestion checks the fields every stored record must carry.
func validateSuggestion(record *model.SuggestionRecord) error {
	if record == nil {
		return fmt.Errorf("%w: suggestion", ErrNilParameter)
	}
	if strings.TrimSpace(record.InputText) == "" {
		return fmt.Errorf("%w: missing input text", ErrInvalidSuggestion)
	}
	if strings.TrimSpace(record.SuggestedCategory) == "" {
		return fmt.Errorf("%w: missing suggested category", ErrInvalidSuggestion)
	}
	if !record.Source.Valid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidSuggestion, record.Source)
	}
	if record.Confidence <= 0 || record.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be in (0, 1]", ErrInvalidSuggestion)
	}
	if record.Validated != (strings.TrimSpace(record.FinalCategory) != "") {
		return fmt.Errorf("%w: final category must be set exactly when validated", ErrInvalidSuggestion)
	}
	return nil
}
