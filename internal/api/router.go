// File: backend/internal/api/router.go
package api

import (
	"net/http"

	"github.com/flexofficehq/domainscout/backend/internal/config"
	"github.com/flexofficehq/domainscout/backend/internal/operators"
	"github.com/gorilla/mux"
)

func NewRouter(cfg *config.AppConfig, discoverySvc DiscoveryRunner, verificationSvc VerificationRunner, store operators.Store) *mux.Router {
	router := mux.NewRouter()
	apiHandler := NewAPIHandler(cfg, discoverySvc, verificationSvc, store)

	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	router.HandleFunc("/ping", apiHandler.PingHandler).Methods(http.MethodGet, http.MethodOptions)

	apiV1 := router.PathPrefix("/api/v1").Subrouter()
	apiV1.Use(APIKeyAuthMiddleware(cfg.Server.APIKey))

	// Discovery & Verification
	apiV1.HandleFunc("/discover", apiHandler.DiscoverHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/verify", apiHandler.VerifyHandler).Methods(http.MethodPost, http.MethodOptions)

	// Operator records
	apiV1.HandleFunc("/operators/{operatorId}/candidates", apiHandler.ListCandidatesHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/operators/{operatorId}/websites", apiHandler.ListWebsitesHandler).Methods(http.MethodGet, http.MethodOptions)

	return router
}
