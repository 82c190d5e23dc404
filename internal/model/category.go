package model

import (
	"errors"
	"fmt"
	"strings"
)

// Uncategorized is the category used when nothing better can be determined.
const Uncategorized = "Uncategorized"

// ErrEmptyVocabulary is returned when a vocabulary has no usable entries.
var ErrEmptyVocabulary = errors.New("category vocabulary is empty")

// Vocabulary is the closed, ordered set of categories a suggestion may resolve to.
// Declaration order matters: it breaks ties when matching verbose classifier output.
type Vocabulary []string

// DefaultVocabulary returns the built-in category set.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		"Transport",
		"Food",
		"Entertainment",
		"Shopping",
		"Bills",
		"Health",
		"Other",
		Uncategorized,
	}
}

// NewVocabulary builds a vocabulary from configured names. Blank and
// case-insensitive duplicate entries are dropped, and Uncategorized is
// appended when missing.
func NewVocabulary(names []string) (Vocabulary, error) {
	seen := make(map[string]bool, len(names))
	vocab := make(Vocabulary, 0, len(names)+1)

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		vocab = append(vocab, name)
	}

	if len(vocab) == 0 {
		return nil, ErrEmptyVocabulary
	}

	if !seen[strings.ToLower(Uncategorized)] {
		vocab = append(vocab, Uncategorized)
	}

	return vocab, nil
}

// Canonical returns the vocabulary spelling of name, matched case-insensitively.
func (v Vocabulary) Canonical(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, category := range v {
		if strings.EqualFold(category, name) {
			return category, true
		}
	}
	return "", false
}

// Contains reports whether name is a vocabulary member, ignoring case.
func (v Vocabulary) Contains(name string) bool {
	_, ok := v.Canonical(name)
	return ok
}

// String renders the vocabulary as a comma separated list.
func (v Vocabulary) String() string {
	return strings.Join(v, ", ")
}

// Validate checks that the vocabulary is usable by the decision engine.
func (v Vocabulary) Validate() error {
	if len(v) == 0 {
		return ErrEmptyVocabulary
	}
	if !v.Contains(Uncategorized) {
		return fmt.Errorf("category vocabulary must contain %q", Uncategorized)
	}
	return nil
}
