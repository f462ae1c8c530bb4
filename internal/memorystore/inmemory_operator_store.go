// File: backend/internal/memorystore/inmemory_operator_store.go
package memorystore

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flexofficehq/domainscout/backend/internal/operators"
)

// InMemoryOperatorStore provides an in-memory implementation of the
// operators.Store interface.
type InMemoryOperatorStore struct {
	mu         sync.RWMutex
	candidates map[string]map[string]*operators.StoredCandidate // operatorID -> lowercase domain
	websites   map[string]map[string]*operators.Website
}

var _ operators.Store = (*InMemoryOperatorStore)(nil)

// NewInMemoryOperatorStore creates a new instance of InMemoryOperatorStore.
func NewInMemoryOperatorStore() *InMemoryOperatorStore {
	return &InMemoryOperatorStore{
		candidates: make(map[string]map[string]*operators.StoredCandidate),
		websites:   make(map[string]map[string]*operators.Website),
	}
}

func (s *InMemoryOperatorStore) UpsertCandidate(operatorID string, upsert operators.CandidateUpsert) (*operators.StoredCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(upsert.Domain)
	now := time.Now().UTC()

	if s.candidates[operatorID] == nil {
		s.candidates[operatorID] = make(map[string]*operators.StoredCandidate)
	}

	if existing, ok := s.candidates[operatorID][key]; ok {
		existing.Confidence = upsert.Confidence
		existing.URL = upsert.URL
		existing.Source = upsert.Source
		if upsert.Title != "" {
			existing.Title = upsert.Title
		}
		existing.UpdatedAt = now
		return copyCandidate(existing), nil
	}

	created := &operators.StoredCandidate{
		ID:         uuid.NewString(),
		OperatorID: operatorID,
		Domain:     upsert.Domain,
		URL:        upsert.URL,
		Source:     upsert.Source,
		Confidence: upsert.Confidence,
		Title:      upsert.Title,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.candidates[operatorID][key] = created
	return copyCandidate(created), nil
}

func (s *InMemoryOperatorStore) GetCandidate(operatorID, domain string) (*operators.StoredCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidate, ok := s.candidates[operatorID][strings.ToLower(domain)]
	if !ok {
		return nil, operators.ErrNotFound
	}
	return copyCandidate(candidate), nil
}

func (s *InMemoryOperatorStore) ListCandidates(operatorID string) ([]*operators.StoredCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*operators.StoredCandidate, 0, len(s.candidates[operatorID]))
	for _, candidate := range s.candidates[operatorID] {
		result = append(result, copyCandidate(candidate))
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Confidence != result[j].Confidence {
			return result[i].Confidence > result[j].Confidence
		}
		return result[i].Domain < result[j].Domain
	})
	return result, nil
}

func (s *InMemoryOperatorStore) MarkCandidateVerified(operatorID, domain string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate, ok := s.candidates[operatorID][strings.ToLower(domain)]
	if !ok {
		return operators.ErrNotFound
	}
	stamped := at
	candidate.VerifiedAt = &stamped
	candidate.RejectedAt = nil
	candidate.RejectionReason = ""
	candidate.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryOperatorStore) MarkCandidateRejected(operatorID, domain string, at time.Time, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate, ok := s.candidates[operatorID][strings.ToLower(domain)]
	if !ok {
		return operators.ErrNotFound
	}
	stamped := at
	candidate.RejectedAt = &stamped
	candidate.RejectionReason = reason
	candidate.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryOperatorStore) UpsertWebsite(operatorID, domain, canonicalURL string, seenAt time.Time) (*operators.Website, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(domain)
	if s.websites[operatorID] == nil {
		s.websites[operatorID] = make(map[string]*operators.Website)
	}

	if existing, ok := s.websites[operatorID][key]; ok {
		existing.CanonicalURL = canonicalURL
		existing.LastSeenAt = seenAt
		existing.IsActive = true
		return copyWebsite(existing), nil
	}

	created := &operators.Website{
		ID:           uuid.NewString(),
		OperatorID:   operatorID,
		Domain:       domain,
		CanonicalURL: canonicalURL,
		FirstSeenAt:  seenAt,
		LastSeenAt:   seenAt,
		IsActive:     true,
	}
	s.websites[operatorID][key] = created
	return copyWebsite(created), nil
}

func (s *InMemoryOperatorStore) ListWebsites(operatorID string) ([]*operators.Website, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*operators.Website, 0, len(s.websites[operatorID]))
	for _, site := range s.websites[operatorID] {
		result = append(result, copyWebsite(site))
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Domain < result[j].Domain
	})
	return result, nil
}

func copyCandidate(c *operators.StoredCandidate) *operators.StoredCandidate {
	out := *c
	if c.VerifiedAt != nil {
		v := *c.VerifiedAt
		out.VerifiedAt = &v
	}
	if c.RejectedAt != nil {
		r := *c.RejectedAt
		out.RejectedAt = &r
	}
	return &out
}

func copyWebsite(w *operators.Website) *operators.Website {
	out := *w
	return &out
}
