// File: backend/internal/jobs/discovery.go
package jobs

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/flexofficehq/domainscout/backend/internal/discovery"
	"github.com/flexofficehq/domainscout/backend/internal/operators"
)

// DiscoveryJob is the payload for a domain discovery run.
type DiscoveryJob struct {
	OperatorID   string `json:"operator_id"`
	OperatorName string `json:"operator_name"`
}

// CandidateDiscoverer produces scored candidates for an operator name.
type CandidateDiscoverer interface {
	Discover(ctx context.Context, operatorName string) ([]discovery.Candidate, error)
}

// DiscoveryService runs discovery jobs end-to-end: generate candidates, then
// persist each one via upsert so retried jobs stay idempotent.
type DiscoveryService struct {
	generator CandidateDiscoverer
	store     operators.Store
}

func NewDiscoveryService(generator CandidateDiscoverer, store operators.Store) *DiscoveryService {
	return &DiscoveryService{generator: generator, store: store}
}

// Process validates the job, discovers candidates and stores them. It
// returns the stored candidates; any failure is surfaced to the caller so
// queue-level retry policy can apply.
func (s *DiscoveryService) Process(ctx context.Context, job DiscoveryJob) ([]*operators.StoredCandidate, error) {
	if err := validateDiscoveryJob(job); err != nil {
		return nil, err
	}
	log.Printf("INFO: DiscoveryService: starting discovery for operator %s (%s)", job.OperatorID, job.OperatorName)

	candidates, err := s.generator.Discover(ctx, job.OperatorName)
	if err != nil {
		return nil, fmt.Errorf("discovery for operator %s failed: %w", job.OperatorID, err)
	}

	stored := make([]*operators.StoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		record, err := s.store.UpsertCandidate(job.OperatorID, operators.CandidateUpsert{
			Domain:     candidate.Domain,
			URL:        candidate.URL,
			Source:     candidate.Source,
			Confidence: candidate.Confidence,
			Title:      candidate.Title,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to store candidate %s for operator %s: %w", candidate.Domain, job.OperatorID, err)
		}
		stored = append(stored, record)
	}

	log.Printf("INFO: DiscoveryService: stored %d candidates for operator %s", len(stored), job.OperatorID)
	return stored, nil
}

func validateDiscoveryJob(job DiscoveryJob) error {
	if strings.TrimSpace(job.OperatorID) == "" {
		return fmt.Errorf("discovery job: operator_id is required")
	}
	if strings.TrimSpace(job.OperatorName) == "" {
		return fmt.Errorf("discovery job: operator_name is required")
	}
	return nil
}
