// File: backend/internal/jobs/verification.go
package jobs

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/flexofficehq/domainscout/backend/internal/operators"
	"github.com/flexofficehq/domainscout/backend/internal/urlutil"
	"github.com/flexofficehq/domainscout/backend/internal/verifier"
)

// VerificationJob is the payload for verifying one candidate domain.
type VerificationJob struct {
	OperatorID  string   `json:"operator_id"`
	Domain      string   `json:"domain"`
	BrandTokens []string `json:"brand_tokens"`
}

// DomainVerifier decides whether a domain represents the operator.
type DomainVerifier interface {
	Verify(ctx context.Context, domain string, brandTokens []string) (*verifier.Result, error)
}

// VerificationService runs verification jobs: verify the domain, stamp the
// candidate verified or rejected, and record a website for accepted domains.
type VerificationService struct {
	verifier DomainVerifier
	store    operators.Store
	now      func() time.Time
}

func NewVerificationService(domainVerifier DomainVerifier, store operators.Store) *VerificationService {
	return &VerificationService{
		verifier: domainVerifier,
		store:    store,
		now:      time.Now,
	}
}

// SetClock overrides the time source, for tests asserting timestamps.
func (s *VerificationService) SetClock(now func() time.Time) { s.now = now }

// Process validates the job, verifies the domain and persists the outcome.
// The verification result is returned alongside any persistence error.
func (s *VerificationService) Process(ctx context.Context, job VerificationJob) (*verifier.Result, error) {
	if err := validateVerificationJob(job); err != nil {
		return nil, err
	}
	log.Printf("INFO: VerificationService: verifying domain %s for operator %s", job.Domain, job.OperatorID)

	result, err := s.verifier.Verify(ctx, job.Domain, job.BrandTokens)
	if err != nil {
		return nil, fmt.Errorf("verification of %s for operator %s failed: %w", job.Domain, job.OperatorID, err)
	}

	now := s.now().UTC()
	if result.Verified {
		if err := s.store.MarkCandidateVerified(job.OperatorID, job.Domain, now); err != nil {
			return result, fmt.Errorf("failed to mark candidate %s verified: %w", job.Domain, err)
		}
		if result.CanonicalURL != "" {
			websiteDomain := job.Domain
			if extracted, extractErr := urlutil.ExtractDomain(result.CanonicalURL); extractErr == nil {
				websiteDomain = extracted
			}
			if _, err := s.store.UpsertWebsite(job.OperatorID, websiteDomain, result.CanonicalURL, now); err != nil {
				return result, fmt.Errorf("failed to record website %s: %w", websiteDomain, err)
			}
		}
	} else {
		if err := s.store.MarkCandidateRejected(job.OperatorID, job.Domain, now, result.RejectionReason); err != nil {
			return result, fmt.Errorf("failed to mark candidate %s rejected: %w", job.Domain, err)
		}
	}

	log.Printf("INFO: VerificationService: domain %s for operator %s verified=%v confidence=%.2f", job.Domain, job.OperatorID, result.Verified, result.Confidence)
	return result, nil
}

func validateVerificationJob(job VerificationJob) error {
	if strings.TrimSpace(job.OperatorID) == "" {
		return fmt.Errorf("verification job: operator_id is required")
	}
	if strings.TrimSpace(job.Domain) == "" {
		return fmt.Errorf("verification job: domain is required")
	}
	if len(job.BrandTokens) == 0 {
		return fmt.Errorf("verification job: brand_tokens is required")
	}
	return nil
}
