// Package normalize canonicalizes transaction descriptions into memory lookup keys.
//
// Keys written to storage and keys used for lookups must come from the same
// version of Key; changing the rules orphans every stored key.
package normalize

import "strings"

// Key lower-cases text, strips every character outside [a-z0-9] from each
// whitespace-separated token, drops tokens left empty and joins the rest
// with single spaces.
func Key(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return ""
	}

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.Map(keepAlnum, field)
		if token != "" {
			tokens = append(tokens, token)
		}
	}

	return strings.Join(tokens, " ")
}

func keepAlnum(r rune) rune {
	if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
		return r
	}
	return -1
}
