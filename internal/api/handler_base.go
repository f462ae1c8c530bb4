// File: backend/internal/api/handler_base.go
package api

import (
	"context"

	"github.com/flexofficehq/domainscout/backend/internal/config"
	"github.com/flexofficehq/domainscout/backend/internal/jobs"
	"github.com/flexofficehq/domainscout/backend/internal/operators"
	"github.com/flexofficehq/domainscout/backend/internal/verifier"
)

// DiscoveryRunner runs a discovery job to completion.
type DiscoveryRunner interface {
	Process(ctx context.Context, job jobs.DiscoveryJob) ([]*operators.StoredCandidate, error)
}

// VerificationRunner runs a verification job to completion.
type VerificationRunner interface {
	Process(ctx context.Context, job jobs.VerificationJob) (*verifier.Result, error)
}

// APIHandler holds shared dependencies for API handlers.
type APIHandler struct {
	Config       *config.AppConfig
	Discovery    DiscoveryRunner
	Verification VerificationRunner
	Store        operators.Store
}

// NewAPIHandler creates a new APIHandler with dependencies.
func NewAPIHandler(cfg *config.AppConfig, discoverySvc DiscoveryRunner, verificationSvc VerificationRunner, store operators.Store) *APIHandler {
	return &APIHandler{
		Config:       cfg,
		Discovery:    discoverySvc,
		Verification: verificationSvc,
		Store:        store,
	}
}
