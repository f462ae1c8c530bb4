// File: backend/internal/operators/models.go
package operators

import "time"

// StoredCandidate is a persisted domain candidate for an operator. Identity
// is (OperatorID, lowercase Domain); re-discovery upserts rather than
// duplicates.
type StoredCandidate struct {
	ID              string     `json:"id"`
	OperatorID      string     `json:"operatorId"`
	Domain          string     `json:"domain"`
	URL             string     `json:"url"`
	Source          string     `json:"source"`
	Confidence      float64    `json:"confidence"`
	Title           string     `json:"title,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	VerifiedAt      *time.Time `json:"verifiedAt,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
}

// Website is a verified operator website record.
type Website struct {
	ID           string    `json:"id"`
	OperatorID   string    `json:"operatorId"`
	Domain       string    `json:"domain"`
	CanonicalURL string    `json:"canonicalUrl"`
	FirstSeenAt  time.Time `json:"firstSeenAt"`
	LastSeenAt   time.Time `json:"lastSeenAt"`
	IsActive     bool      `json:"isActive"`
}

// CandidateUpsert carries the mutable fields written on candidate upsert.
type CandidateUpsert struct {
	Domain     string
	URL        string
	Source     string
	Confidence float64
	Title      string
}
