// File: backend/internal/discovery/tokens.go
package discovery

import "strings"

// BrandTokens derives the matchable name fragments for an operator: the full
// display name, each word of 3+ characters, and (for multi-word names) the
// initial-letter acronym when it is at least 2 characters. Duplicates are
// removed, first occurrence wins.
func BrandTokens(operatorName string) []string {
	var tokens []string
	seen := make(map[string]struct{})
	add := func(t string) {
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}

	add(operatorName)

	words := strings.Fields(strings.ToLower(operatorName))
	var kept []string
	for _, w := range words {
		if len(w) > 2 {
			kept = append(kept, w)
			add(w)
		}
	}

	if len(kept) > 1 {
		var b strings.Builder
		for _, w := range kept {
			b.WriteByte(w[0])
		}
		if acronym := b.String(); len(acronym) >= 2 {
			add(acronym)
		}
	}

	return tokens
}
