// File: backend/internal/discovery/models.go
package discovery

// Candidate source values, recorded as provenance on each candidate.
const (
	SourceGoogle   = "google"
	SourceBing     = "bing"
	SourceGuess    = "domain_guess"
	SourceManual   = "manual"
	SourceReferral = "referral"
)

// Candidate is a domain hypothesized to belong to an operator.
type Candidate struct {
	Domain      string  `json:"domain"`
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	Confidence  float64 `json:"confidence"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	BrandMatch  bool    `json:"brandMatch,omitempty"`
}

// Base confidence per strategy. Search results are considerably more likely
// to be the operator's real site than blind name guesses.
const (
	searchBaseConfidence = 0.7
	guessBaseConfidence  = 0.3
)
