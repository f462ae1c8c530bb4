// File: backend/internal/discovery/guess.go
package discovery

import "strings"

var guessSuffixes = []string{"space", "spaces", "coworking", "office", "offices", "work", "workspace"}

// Longest first, so "spaces" does not leave a dangling "s" behind.
var strippableWords = []string{"coworking", "offices", "spaces", "office", "space"}

// GuessVariations normalizes operatorName to a lowercase alphanumeric token
// and expands it into the fixed variation set: the bare name, the name with
// industry words stripped, and the name with each industry suffix appended.
// Variations shorter than 3 characters are discarded.
func GuessVariations(operatorName string) []string {
	cleanName := cleanNameToken(operatorName)

	stripped := cleanName
	for _, w := range strippableWords {
		stripped = strings.ReplaceAll(stripped, w, "")
	}

	raw := []string{cleanName, stripped}
	for _, suffix := range guessSuffixes {
		raw = append(raw, cleanName+suffix)
	}

	var variations []string
	seen := make(map[string]struct{})
	for _, v := range raw {
		if len(v) < 3 {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		variations = append(variations, v)
	}
	return variations
}

// GenerateGuesses crosses the name variations with the configured TLD list.
// Every guess starts at the low guess-strategy base confidence; only guesses
// that later prove live are kept as candidates.
func GenerateGuesses(operatorName string, tlds []string) []Candidate {
	variations := GuessVariations(operatorName)
	candidates := make([]Candidate, 0, len(variations)*len(tlds))
	for _, variation := range variations {
		for _, tld := range tlds {
			domain := variation + tld
			candidates = append(candidates, Candidate{
				Domain:     domain,
				URL:        "https://" + domain,
				Source:     SourceGuess,
				Confidence: guessBaseConfidence,
			})
		}
	}
	return candidates
}

func cleanNameToken(operatorName string) string {
	lower := strings.ToLower(operatorName)
	var b strings.Builder
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
