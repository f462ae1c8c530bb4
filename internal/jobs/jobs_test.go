// File: backend/internal/jobs/jobs_test.go
package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flexofficehq/domainscout/backend/internal/discovery"
	"github.com/flexofficehq/domainscout/backend/internal/memorystore"
	"github.com/flexofficehq/domainscout/backend/internal/operators"
	"github.com/flexofficehq/domainscout/backend/internal/verifier"
)

type stubDiscoverer struct {
	candidates []discovery.Candidate
	err        error
}

func (s *stubDiscoverer) Discover(ctx context.Context, operatorName string) ([]discovery.Candidate, error) {
	return s.candidates, s.err
}

type stubVerifier struct {
	result *verifier.Result
	err    error
}

func (s *stubVerifier) Verify(ctx context.Context, domain string, brandTokens []string) (*verifier.Result, error) {
	return s.result, s.err
}

func TestDiscoveryProcessStoresCandidates(t *testing.T) {
	store := memorystore.NewInMemoryOperatorStore()
	svc := NewDiscoveryService(&stubDiscoverer{candidates: []discovery.Candidate{
		{Domain: "acmecoworking.com", URL: "https://acmecoworking.com", Source: discovery.SourceGoogle, Confidence: 1.0, Title: "Acme Coworking"},
		{Domain: "acme.com", URL: "https://acme.com", Source: discovery.SourceGuess, Confidence: 0.9},
	}}, store)

	stored, err := svc.Process(context.Background(), DiscoveryJob{OperatorID: "op-1", OperatorName: "Acme Coworking"})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored %d candidates, want 2", len(stored))
	}

	list, _ := store.ListCandidates("op-1")
	if len(list) != 2 {
		t.Fatalf("ListCandidates len = %d, want 2", len(list))
	}
	if list[0].Domain != "acmecoworking.com" {
		t.Errorf("top candidate = %s, want acmecoworking.com", list[0].Domain)
	}
}

func TestDiscoveryProcessIdempotent(t *testing.T) {
	store := memorystore.NewInMemoryOperatorStore()
	svc := NewDiscoveryService(&stubDiscoverer{candidates: []discovery.Candidate{
		{Domain: "acme.com", URL: "https://acme.com", Source: discovery.SourceGoogle, Confidence: 0.8},
	}}, store)
	job := DiscoveryJob{OperatorID: "op-1", OperatorName: "Acme"}

	if _, err := svc.Process(context.Background(), job); err != nil {
		t.Fatalf("first Process() error = %v", err)
	}
	if _, err := svc.Process(context.Background(), job); err != nil {
		t.Fatalf("second Process() error = %v", err)
	}
	list, _ := store.ListCandidates("op-1")
	if len(list) != 1 {
		t.Errorf("reprocessing duplicated candidates: len = %d, want 1", len(list))
	}
}

func TestDiscoveryProcessValidation(t *testing.T) {
	svc := NewDiscoveryService(&stubDiscoverer{}, memorystore.NewInMemoryOperatorStore())
	if _, err := svc.Process(context.Background(), DiscoveryJob{OperatorName: "Acme"}); err == nil {
		t.Error("Process() without operator_id expected error")
	}
	if _, err := svc.Process(context.Background(), DiscoveryJob{OperatorID: "op-1"}); err == nil {
		t.Error("Process() without operator_name expected error")
	}
}

func TestDiscoveryProcessPropagatesFailure(t *testing.T) {
	svc := NewDiscoveryService(&stubDiscoverer{err: errors.New("search blocked")}, memorystore.NewInMemoryOperatorStore())
	if _, err := svc.Process(context.Background(), DiscoveryJob{OperatorID: "op-1", OperatorName: "Acme"}); err == nil {
		t.Error("Process() expected generator failure to propagate")
	}
}

func TestVerificationProcessVerifiedPath(t *testing.T) {
	store := memorystore.NewInMemoryOperatorStore()
	store.UpsertCandidate("op-1", operators.CandidateUpsert{Domain: "acmecoworking.com", URL: "https://acmecoworking.com", Source: "google", Confidence: 1.0})

	svc := NewVerificationService(&stubVerifier{result: &verifier.Result{
		Verified:     true,
		Confidence:   0.85,
		CanonicalURL: "https://www.acmecoworking.com",
	}}, store)
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return fixed })

	result, err := svc.Process(context.Background(), VerificationJob{
		OperatorID: "op-1", Domain: "acmecoworking.com", BrandTokens: []string{"acme"},
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !result.Verified {
		t.Error("result.Verified = false")
	}

	candidate, _ := store.GetCandidate("op-1", "acmecoworking.com")
	if candidate.VerifiedAt == nil || !candidate.VerifiedAt.Equal(fixed) {
		t.Errorf("VerifiedAt = %v, want %v", candidate.VerifiedAt, fixed)
	}

	sites, _ := store.ListWebsites("op-1")
	if len(sites) != 1 {
		t.Fatalf("ListWebsites len = %d, want 1", len(sites))
	}
	// Website domain comes from the canonical URL with www stripped.
	if sites[0].Domain != "acmecoworking.com" || sites[0].CanonicalURL != "https://www.acmecoworking.com" {
		t.Errorf("website = %+v", sites[0])
	}
}

func TestVerificationProcessRejectedPath(t *testing.T) {
	store := memorystore.NewInMemoryOperatorStore()
	store.UpsertCandidate("op-1", operators.CandidateUpsert{Domain: "parked.com", Confidence: 0.4})

	svc := NewVerificationService(&stubVerifier{result: &verifier.Result{
		Verified:        false,
		Confidence:      0,
		RejectionReason: `Parked or placeholder domain: contains "coming soon"`,
	}}, store)

	if _, err := svc.Process(context.Background(), VerificationJob{
		OperatorID: "op-1", Domain: "parked.com", BrandTokens: []string{"acme"},
	}); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	candidate, _ := store.GetCandidate("op-1", "parked.com")
	if candidate.RejectedAt == nil {
		t.Fatal("RejectedAt not stamped")
	}
	if candidate.RejectionReason != `Parked or placeholder domain: contains "coming soon"` {
		t.Errorf("RejectionReason = %q", candidate.RejectionReason)
	}

	sites, _ := store.ListWebsites("op-1")
	if len(sites) != 0 {
		t.Errorf("rejected domain produced %d website records", len(sites))
	}
}

func TestVerificationProcessMissingCandidate(t *testing.T) {
	svc := NewVerificationService(&stubVerifier{result: &verifier.Result{Verified: true, CanonicalURL: "https://ghost.com"}}, memorystore.NewInMemoryOperatorStore())
	_, err := svc.Process(context.Background(), VerificationJob{OperatorID: "op-1", Domain: "ghost.com", BrandTokens: []string{"x"}})
	if !errors.Is(err, operators.ErrNotFound) {
		t.Errorf("error = %v, want wrapped ErrNotFound", err)
	}
}

func TestVerificationProcessValidation(t *testing.T) {
	svc := NewVerificationService(&stubVerifier{}, memorystore.NewInMemoryOperatorStore())
	cases := []VerificationJob{
		{Domain: "acme.com", BrandTokens: []string{"acme"}},
		{OperatorID: "op-1", BrandTokens: []string{"acme"}},
		{OperatorID: "op-1", Domain: "acme.com"},
	}
	for i, job := range cases {
		if _, err := svc.Process(context.Background(), job); err == nil {
			t.Errorf("case %d: Process() expected validation error", i)
		}
	}
}
