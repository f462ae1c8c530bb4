// File: backend/cmd/apiserver/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flexofficehq/domainscout/backend/internal/api"
	"github.com/flexofficehq/domainscout/backend/internal/config"
	"github.com/flexofficehq/domainscout/backend/internal/discovery"
	"github.com/flexofficehq/domainscout/backend/internal/fetcher"
	"github.com/flexofficehq/domainscout/backend/internal/jobs"
	"github.com/flexofficehq/domainscout/backend/internal/memorystore"
	"github.com/flexofficehq/domainscout/backend/internal/renderer"
	"github.com/flexofficehq/domainscout/backend/internal/robots"
	"github.com/flexofficehq/domainscout/backend/internal/verifier"
)

const (
	configFilePath  = "config.json"
	shutdownTimeout = 15 * time.Second
)

func main() {
	appConfig, err := config.Load(configFilePath)
	if err != nil {
		log.Printf("Main: Notice during config.Load: %v. Application will proceed with available/defaulted config.", err)
	}
	if appConfig == nil {
		log.Fatalf("CRITICAL: Configuration could not be loaded by config.Load, and no defaults were returned. Exiting.")
	}

	if appConfig.Server.APIKey == config.DefaultSystemAPIKeyPlaceholder {
		log.Println("!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!")
		log.Println("!!! WARNING: API Key is the default system placeholder. THIS IS INSECURE.       !!!")
		log.Println("!!! Please set a unique 'server.apiKey' in 'config.json' or use                 !!!")
		log.Println("!!! the 'DOMAINSCOUT_API_KEY' environment variable for production deployments.  !!!")
		log.Println("!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!")
	}

	// --- Fetch layer ---
	robotsGuard := robots.NewGuard(appConfig.Robots)

	var renderEngine fetcher.RenderEngine
	var renderSvc *renderer.Renderer
	if appConfig.Renderer.Enabled {
		log.Printf("Main: Rendering engine enabled (max %d browser contexts).", appConfig.Renderer.MaxBrowserContexts)
		renderSvc = renderer.NewRenderer(appConfig.Renderer)
		renderEngine = renderSvc
	} else {
		log.Printf("Main: Rendering engine disabled; lightweight fetches only.")
	}
	pageFetcher := fetcher.NewFetcher(appConfig.Fetcher, robotsGuard, renderEngine)

	// --- Discovery & verification ---
	searchEngine := discovery.NewSearchEngine()
	resolver := discovery.NewResolver(appConfig.Discovery.Resolvers, appConfig.Discovery.ProbeTimeout)
	generator := discovery.NewGenerator(appConfig.Discovery, searchEngine, pageFetcher, resolver)
	domainVerifier := verifier.NewVerifier(pageFetcher, appConfig.Verifier)

	// --- Persistence & job services ---
	store := memorystore.NewInMemoryOperatorStore()
	discoverySvc := jobs.NewDiscoveryService(generator, store)
	verificationSvc := jobs.NewVerificationService(domainVerifier, store)

	// --- Router and HTTP server ---
	router := api.NewRouter(appConfig, discoverySvc, verificationSvc, store)
	serverAddr := ":" + appConfig.Server.Port
	httpServer := &http.Server{
		Handler:      router,
		Addr:         serverAddr,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting DomainScout API server on http://localhost%s", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server ListenAndServe failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Main: Shutdown signal received, draining connections...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("ERROR: Main: HTTP server shutdown: %v", err)
	}
	if renderSvc != nil {
		renderSvc.Shutdown()
	}
	log.Println("Main: Shutdown complete.")
}
