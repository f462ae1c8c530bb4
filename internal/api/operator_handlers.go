// File: backend/internal/api/operator_handlers.go
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/flexofficehq/domainscout/backend/internal/discovery"
	"github.com/flexofficehq/domainscout/backend/internal/jobs"
	"github.com/flexofficehq/domainscout/backend/internal/operators"
	"github.com/gorilla/mux"
)

// DiscoverRequest is the payload for POST /api/v1/discover.
type DiscoverRequest struct {
	OperatorID   string `json:"operator_id"`
	OperatorName string `json:"operator_name"`
}

// VerifyRequest is the payload for POST /api/v1/verify. BrandTokens may be
// omitted when OperatorName is given; tokens are then derived from the name.
type VerifyRequest struct {
	OperatorID   string   `json:"operator_id"`
	Domain       string   `json:"domain"`
	OperatorName string   `json:"operator_name,omitempty"`
	BrandTokens  []string `json:"brand_tokens,omitempty"`
}

// DiscoverHandler runs domain discovery for an operator and returns the
// stored candidates sorted by confidence.
func (h *APIHandler) DiscoverHandler(w http.ResponseWriter, r *http.Request) {
	var req DiscoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.OperatorID) == "" || strings.TrimSpace(req.OperatorName) == "" {
		respondWithError(w, http.StatusBadRequest, "operator_id and operator_name are required")
		return
	}

	candidates, err := h.Discovery.Process(r.Context(), jobs.DiscoveryJob{
		OperatorID:   req.OperatorID,
		OperatorName: req.OperatorName,
	})
	if err != nil {
		log.Printf("ERROR: DiscoverHandler: discovery for operator %s failed: %v", req.OperatorID, err)
		respondWithError(w, http.StatusInternalServerError, "Discovery failed: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"operator_id": req.OperatorID,
		"count":       len(candidates),
		"candidates":  candidates,
	})
}

// VerifyHandler verifies a single candidate domain for an operator and
// returns the verification result.
func (h *APIHandler) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.OperatorID) == "" || strings.TrimSpace(req.Domain) == "" {
		respondWithError(w, http.StatusBadRequest, "operator_id and domain are required")
		return
	}
	brandTokens := req.BrandTokens
	if len(brandTokens) == 0 {
		if strings.TrimSpace(req.OperatorName) == "" {
			respondWithError(w, http.StatusBadRequest, "brand_tokens or operator_name is required")
			return
		}
		brandTokens = discovery.BrandTokens(req.OperatorName)
	}

	result, err := h.Verification.Process(r.Context(), jobs.VerificationJob{
		OperatorID:  req.OperatorID,
		Domain:      req.Domain,
		BrandTokens: brandTokens,
	})
	if err != nil {
		if errors.Is(err, operators.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "No candidate found for domain "+req.Domain)
			return
		}
		log.Printf("ERROR: VerifyHandler: verification of %s for operator %s failed: %v", req.Domain, req.OperatorID, err)
		respondWithError(w, http.StatusInternalServerError, "Verification failed: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// ListCandidatesHandler returns all stored candidates for an operator.
func (h *APIHandler) ListCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	operatorID := mux.Vars(r)["operatorId"]
	candidates, err := h.Store.ListCandidates(operatorID)
	if err != nil {
		log.Printf("ERROR: ListCandidatesHandler: listing candidates for operator %s failed: %v", operatorID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list candidates")
		return
	}
	if candidates == nil {
		candidates = []*operators.StoredCandidate{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"operator_id": operatorID,
		"count":       len(candidates),
		"candidates":  candidates,
	})
}

// ListWebsitesHandler returns all verified websites for an operator.
func (h *APIHandler) ListWebsitesHandler(w http.ResponseWriter, r *http.Request) {
	operatorID := mux.Vars(r)["operatorId"]
	websites, err := h.Store.ListWebsites(operatorID)
	if err != nil {
		log.Printf("ERROR: ListWebsitesHandler: listing websites for operator %s failed: %v", operatorID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list websites")
		return
	}
	if websites == nil {
		websites = []*operators.Website{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"operator_id": operatorID,
		"count":       len(websites),
		"websites":    websites,
	})
}
