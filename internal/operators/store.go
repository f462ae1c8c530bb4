// File: backend/internal/operators/store.go
package operators

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a candidate or website does not exist.
var ErrNotFound = errors.New("operators: record not found")

// Store defines persistence for candidates and verified websites. All
// implementations must treat (operatorID, lowercase domain) as the identity
// key and upsert rather than duplicate, so retried jobs stay idempotent.
type Store interface {
	// UpsertCandidate inserts or updates a candidate, refreshing confidence,
	// url, source and title on conflict.
	UpsertCandidate(operatorID string, upsert CandidateUpsert) (*StoredCandidate, error)

	// GetCandidate fetches one candidate or ErrNotFound.
	GetCandidate(operatorID, domain string) (*StoredCandidate, error)

	// ListCandidates returns an operator's candidates sorted by confidence
	// descending.
	ListCandidates(operatorID string) ([]*StoredCandidate, error)

	// MarkCandidateVerified stamps verified_at and clears any prior rejection.
	MarkCandidateVerified(operatorID, domain string, at time.Time) error

	// MarkCandidateRejected stamps rejected_at with the rejection reason.
	MarkCandidateRejected(operatorID, domain string, at time.Time, reason string) error

	// UpsertWebsite records a verified website, setting first_seen_at on
	// insert and refreshing last_seen_at and canonical_url on update.
	UpsertWebsite(operatorID, domain, canonicalURL string, seenAt time.Time) (*Website, error)

	// ListWebsites returns an operator's website records.
	ListWebsites(operatorID string) ([]*Website, error)
}
