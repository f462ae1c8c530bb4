// File: backend/internal/discovery/scorer_test.go
package discovery

import (
	"math"
	"reflect"
	"testing"
)

func TestScoreCandidatesWorkedExample(t *testing.T) {
	// domain matches "acme"+"coworking" (+0.6), title matches both (+0.4),
	// keywords "coworking"+"flexible"+... push well past the cap.
	candidates := []Candidate{{
		Domain:     "acmecoworking.com",
		URL:        "https://acmecoworking.com",
		Source:     SourceGoogle,
		Confidence: 0.7,
		Title:      "Acme Coworking | Flexible Offices",
	}}

	scored := ScoreCandidates(candidates, "Acme Coworking")
	if scored[0].Confidence != 1.0 {
		t.Errorf("Confidence = %v, want clamped 1.0", scored[0].Confidence)
	}
	if !scored[0].BrandMatch {
		t.Error("BrandMatch = false, want true")
	}
}

func TestScoreCandidatesLowTrustPenalty(t *testing.T) {
	candidates := []Candidate{{
		Domain:     "randomsite.wordpress.com",
		Confidence: 0.3,
		Source:     SourceGuess,
	}}
	scored := ScoreCandidates(candidates, "Unrelated Name")
	// keyword and token misses leave base 0.3, penalty -0.3 lands on 0.
	if math.Abs(scored[0].Confidence) > 1e-9 {
		t.Errorf("Confidence = %v, want 0", scored[0].Confidence)
	}
}

func TestScoreCandidatesClampHoldsAtZero(t *testing.T) {
	candidates := []Candidate{{Domain: "wixwordpressblogspot.com", Confidence: 0.0}}
	scored := ScoreCandidates(candidates, "Zzz Qqq")
	if scored[0].Confidence < 0 || scored[0].Confidence > 1 {
		t.Errorf("Confidence = %v, want within [0,1]", scored[0].Confidence)
	}
}

func TestScoreCandidatesStableSort(t *testing.T) {
	candidates := []Candidate{
		{Domain: "first.net", Confidence: 0.5},
		{Domain: "second.net", Confidence: 0.5},
		{Domain: "third.net", Confidence: 0.5},
	}
	scored := ScoreCandidates(candidates, "Zzz Qqq")
	gotOrder := []string{scored[0].Domain, scored[1].Domain, scored[2].Domain}
	if !reflect.DeepEqual(gotOrder, []string{"first.net", "second.net", "third.net"}) {
		t.Errorf("equal-confidence order = %v, want original order", gotOrder)
	}
}

func TestDeduplicateCandidates(t *testing.T) {
	candidates := []Candidate{
		{Domain: "acme.com", Confidence: 0.3, Source: SourceGuess},
		{Domain: "other.com", Confidence: 0.7, Source: SourceGoogle},
		{Domain: "ACME.com", Confidence: 0.7, Source: SourceBing},
	}
	deduped := DeduplicateCandidates(candidates)
	if len(deduped) != 2 {
		t.Fatalf("len = %d, want 2", len(deduped))
	}
	if deduped[0].Domain != "ACME.com" || deduped[0].Confidence != 0.7 {
		t.Errorf("survivor = %+v, want the higher-confidence acme entry", deduped[0])
	}
	if deduped[1].Domain != "other.com" {
		t.Errorf("second survivor = %+v", deduped[1])
	}

	// Idempotence: deduplicating the output changes nothing.
	again := DeduplicateCandidates(deduped)
	if !reflect.DeepEqual(again, deduped) {
		t.Errorf("DeduplicateCandidates not idempotent: %v vs %v", again, deduped)
	}
}
