// File: backend/internal/verifier/verifier.go
package verifier

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/flexofficehq/domainscout/backend/internal/config"
	"github.com/flexofficehq/domainscout/backend/internal/fetcher"
)

// PageFetcher retrieves a candidate page through the dual-engine fetch layer.
type PageFetcher interface {
	Fetch(ctx context.Context, urlStr string, opts fetcher.Options) (*fetcher.Result, error)
}

// Verifier fetches a candidate domain and decides whether the live site
// genuinely represents the operator's flexible-office business.
type Verifier struct {
	fetcher PageFetcher
	cfg     config.VerifierConfig
	weights signalWeights
}

func NewVerifier(pageFetcher PageFetcher, cfg config.VerifierConfig) *Verifier {
	return &Verifier{
		fetcher: pageFetcher,
		cfg:     cfg,
		weights: defaultSignalWeights,
	}
}

// Verify fetches domain, runs the rejection pre-checks, extracts signals and
// computes the weighted confidence score. An unreachable domain yields a
// rejection result, not an error; errors are reserved for malformed input.
func (v *Verifier) Verify(ctx context.Context, domain string, brandTokens []string) (*Result, error) {
	if strings.TrimSpace(domain) == "" {
		return nil, fmt.Errorf("verify: domain is empty")
	}

	fetchResult, err := v.fetcher.Fetch(ctx, domain, fetcher.Options{})
	if err != nil {
		log.Printf("WARN: Verifier: domain %s unreachable: %v", domain, err)
		return &Result{
			Verified:        false,
			Confidence:      0,
			Reasons:         []string{},
			RejectionReason: fmt.Sprintf("Domain unreachable: %v", err),
		}, nil
	}

	if rejection := v.checkRejectionReasons(fetchResult); rejection != "" {
		log.Printf("INFO: Verifier: domain %s rejected: %s", domain, rejection)
		return &Result{
			Verified:        false,
			Confidence:      0,
			Reasons:         []string{},
			RejectionReason: rejection,
		}, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(fetchResult.Body))
	if err != nil {
		return nil, fmt.Errorf("verify: failed to parse page for %s: %w", domain, err)
	}
	page := parsePage(doc)

	brand := extractBrandMatches(page, brandTokens, domain)
	business := extractBusinessSignals(page)
	office := extractOfficeSpaceSignals(page)

	confidence := v.weights.score(brand, business, office)
	verified := confidence >= v.cfg.MinConfidence

	result := &Result{
		Verified:           verified,
		Confidence:         confidence,
		Reasons:            buildReasons(brand, business, office),
		CanonicalURL:       fetchResult.FinalURL,
		BrandMatches:       brand,
		BusinessSignals:    business,
		OfficeSpaceSignals: office,
	}
	log.Printf("INFO: Verifier: domain %s verified=%v confidence=%.2f (engine %s)", domain, verified, confidence, fetchResult.Engine)
	return result, nil
}

// checkRejectionReasons runs the ordered pre-checks: parked markers, then
// unrelated-platform redirects, then HTTP errors, then thin content. The
// first hit wins.
func (v *Verifier) checkRejectionReasons(fetchResult *fetcher.Result) string {
	content := strings.ToLower(string(fetchResult.Body))
	finalURL := strings.ToLower(fetchResult.FinalURL)

	for _, marker := range v.cfg.ParkedMarkers {
		if strings.Contains(content, strings.ToLower(marker)) {
			return fmt.Sprintf("Parked or placeholder domain: contains %q", marker)
		}
	}

	for _, platform := range v.cfg.UnrelatedPlatforms {
		if strings.Contains(finalURL, strings.ToLower(platform)) {
			return fmt.Sprintf("Redirects to unrelated platform: %s", platform)
		}
	}

	if fetchResult.StatusCode >= 400 {
		return fmt.Sprintf("HTTP error: %d", fetchResult.StatusCode)
	}

	if len(content) < v.cfg.MinContentLength {
		return "Insufficient content (likely placeholder or error page)"
	}

	return ""
}
