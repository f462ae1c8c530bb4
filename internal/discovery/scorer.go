// File: backend/internal/discovery/scorer.go
package discovery

import (
	"sort"
	"strings"
)

// scoreWeights is the declarative adjustment table applied on top of each
// candidate's strategy base confidence.
type scoreWeights struct {
	DomainTokenMatch float64
	TitleTokenMatch  float64
	KeywordMatch     float64
	LowTrustPenalty  float64
}

var defaultScoreWeights = scoreWeights{
	DomainTokenMatch: 0.3,
	TitleTokenMatch:  0.2,
	KeywordMatch:     0.1,
	LowTrustPenalty:  -0.3,
}

var relevantKeywords = []string{"coworking", "workspace", "office", "flexible", "shared", "space"}

var lowTrustMarkers = []string{"wordpress", "blogspot", "wix"}

// ScoreCandidates adjusts each candidate's confidence using brand-token and
// keyword heuristics, clamps to [0,1], and returns the list sorted by
// confidence descending. Equal scores keep their original order.
func ScoreCandidates(candidates []Candidate, operatorName string) []Candidate {
	brandTokens := BrandTokens(operatorName)
	weights := defaultScoreWeights

	for i := range candidates {
		c := &candidates[i]
		score := c.Confidence

		domainLower := strings.ToLower(c.Domain)
		titleLower := strings.ToLower(c.Title)

		for _, token := range brandTokens {
			tokenLower := strings.ToLower(token)
			if strings.Contains(domainLower, tokenLower) {
				score += weights.DomainTokenMatch
				c.BrandMatch = true
			}
			if titleLower != "" && strings.Contains(titleLower, tokenLower) {
				score += weights.TitleTokenMatch
				c.BrandMatch = true
			}
		}

		for _, keyword := range relevantKeywords {
			if strings.Contains(domainLower, keyword) || (titleLower != "" && strings.Contains(titleLower, keyword)) {
				score += weights.KeywordMatch
			}
		}

		for _, marker := range lowTrustMarkers {
			if strings.Contains(domainLower, marker) {
				score += weights.LowTrustPenalty
				break
			}
		}

		c.Confidence = clamp01(score)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	return candidates
}

// DeduplicateCandidates collapses candidates sharing a lowercase domain,
// keeping the higher-confidence entry. Surviving candidates keep the order
// in which their domain first appeared.
func DeduplicateCandidates(candidates []Candidate) []Candidate {
	best := make(map[string]Candidate)
	var order []string
	for _, c := range candidates {
		key := strings.ToLower(c.Domain)
		existing, ok := best[key]
		if !ok {
			order = append(order, key)
			best[key] = c
			continue
		}
		if c.Confidence > existing.Confidence {
			best[key] = c
		}
	}

	result := make([]Candidate, 0, len(order))
	for _, key := range order {
		result = append(result, best[key])
	}
	return result
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
