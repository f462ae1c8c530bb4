// File: backend/internal/verifier/verifier_test.go
package verifier

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/flexofficehq/domainscout/backend/internal/config"
	"github.com/flexofficehq/domainscout/backend/internal/fetcher"
)

type stubFetcher struct {
	result *fetcher.Result
	err    error
}

func (s *stubFetcher) Fetch(ctx context.Context, urlStr string, opts fetcher.Options) (*fetcher.Result, error) {
	return s.result, s.err
}

func testVerifierConfig() config.VerifierConfig {
	return config.VerifierConfig{
		MinConfidence:    0.6,
		MinContentLength: 1000,
		ParkedMarkers: []string{
			"this domain is for sale", "domain parking", "buy this domain",
			"parked domain", "coming soon", "under construction",
			"godaddy.com", "domain.com", "sedo.com",
		},
		UnrelatedPlatforms: []string{
			"facebook.com", "twitter.com", "linkedin.com", "instagram.com",
			"youtube.com", "google.com", "wordpress.com", "blogspot.com",
			"wix.com", "squarespace.com",
		},
	}
}

// operatorPage is a realistic landing page for "Acme Coworking" that fires
// every signal group. Padding pushes it past the thin-content threshold.
var operatorPage = `<html>
<head>
  <title>Acme Coworking | Flexible Offices in London</title>
  <meta name="description" content="Acme Coworking offers flexible workspace and private offices.">
</head>
<body>
  <h1>Acme Coworking</h1>
  <p>Welcome to Acme Coworking, the home of flexible workspace. Our coworking
  floors, meeting rooms and private offices are open Monday to Friday, 8:00 am
  to 7:00 pm.</p>
  <p>Visit us at 42 Example Street, London. Hot desk memberships start at
  £199 per month.</p>
  <a href="/locations">Our Locations</a>
  <a href="/pricing">Pricing</a>
  <a href="/contact">Contact Us</a>
  <a href="/about">About</a>
  <p>` + strings.Repeat("Acme Coworking provides shared office space. ", 30) + `</p>
</body>
</html>`

var acmeTokens = []string{"Acme Coworking", "acme", "coworking", "ac"}

func okFetch(body, finalURL string, status int) *fetcher.Result {
	return &fetcher.Result{
		RequestedURL: finalURL,
		FinalURL:     finalURL,
		StatusCode:   status,
		Body:         []byte(body),
		Engine:       fetcher.EngineLightweight,
	}
}

func TestVerifySuccessfulOperatorSite(t *testing.T) {
	v := NewVerifier(&stubFetcher{result: okFetch(operatorPage, "https://acmecoworking.com", 200)}, testVerifierConfig())

	result, err := v.Verify(context.Background(), "acmecoworking.com", acmeTokens)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !result.Verified {
		t.Errorf("Verified = false, confidence = %v, reasons = %v", result.Confidence, result.Reasons)
	}
	if result.Confidence < 0.6 || result.Confidence > 1.0 {
		t.Errorf("Confidence = %v, want in [0.6, 1.0]", result.Confidence)
	}
	if result.CanonicalURL != "https://acmecoworking.com" {
		t.Errorf("CanonicalURL = %q", result.CanonicalURL)
	}
	if !result.BrandMatches.TitleMatch || !result.BrandMatches.ContentMatch || !result.BrandMatches.MetaMatch || !result.BrandMatches.DomainMatch {
		t.Errorf("BrandMatches = %+v, want all true", result.BrandMatches)
	}
	if !result.BusinessSignals.HasContactInfo || !result.BusinessSignals.HasLocationInfo || !result.BusinessSignals.HasBusinessHours || !result.BusinessSignals.HasAboutSection {
		t.Errorf("BusinessSignals = %+v, want all true", result.BusinessSignals)
	}
	if !result.OfficeSpaceSignals.MentionsCoworking || !result.OfficeSpaceSignals.HasPricing {
		t.Errorf("OfficeSpaceSignals = %+v", result.OfficeSpaceSignals)
	}
	if len(result.Reasons) == 0 || result.Reasons[0] != "Brand name appears in page title" {
		t.Errorf("Reasons = %v, want brand reasons first", result.Reasons)
	}
}

func TestVerifyUnreachableDomain(t *testing.T) {
	v := NewVerifier(&stubFetcher{err: errors.New("both engines failed")}, testVerifierConfig())

	result, err := v.Verify(context.Background(), "nosuchsite.invalid", acmeTokens)
	if err != nil {
		t.Fatalf("Verify() error = %v, want rejection result", err)
	}
	if result.Verified {
		t.Error("Verified = true for unreachable domain")
	}
	if result.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", result.Confidence)
	}
	if !strings.HasPrefix(result.RejectionReason, "Domain unreachable: ") {
		t.Errorf("RejectionReason = %q", result.RejectionReason)
	}
	var zeroBrand BrandMatches
	if result.BrandMatches != zeroBrand {
		t.Errorf("BrandMatches = %+v, want zero value", result.BrandMatches)
	}
}

func TestVerifyRejectionPrecedence(t *testing.T) {
	// Page has a parked marker AND the final URL is an unrelated platform;
	// the parked check runs first and wins.
	page := "<html><body>this domain is for sale</body></html>"
	v := NewVerifier(&stubFetcher{result: okFetch(page, "https://www.facebook.com/acme", 200)}, testVerifierConfig())

	result, err := v.Verify(context.Background(), "acme.com", acmeTokens)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	want := `Parked or placeholder domain: contains "this domain is for sale"`
	if result.RejectionReason != want {
		t.Errorf("RejectionReason = %q, want %q", result.RejectionReason, want)
	}
	if result.Verified || result.Confidence != 0 {
		t.Errorf("Verified/Confidence = %v/%v, want false/0", result.Verified, result.Confidence)
	}
}

func TestVerifyUnrelatedPlatformRedirect(t *testing.T) {
	page := "<html><body>" + strings.Repeat("social profile content ", 60) + "</body></html>"
	v := NewVerifier(&stubFetcher{result: okFetch(page, "https://www.facebook.com/acme", 200)}, testVerifierConfig())

	result, _ := v.Verify(context.Background(), "acme.com", acmeTokens)
	if result.RejectionReason != "Redirects to unrelated platform: facebook.com" {
		t.Errorf("RejectionReason = %q", result.RejectionReason)
	}
}

func TestVerifyHTTPError(t *testing.T) {
	page := "<html><body>" + strings.Repeat("error page filler ", 80) + "</body></html>"
	v := NewVerifier(&stubFetcher{result: okFetch(page, "https://acme.com", 404)}, testVerifierConfig())

	result, _ := v.Verify(context.Background(), "acme.com", acmeTokens)
	if result.RejectionReason != "HTTP error: 404" {
		t.Errorf("RejectionReason = %q", result.RejectionReason)
	}
}

func TestVerifyThinContent(t *testing.T) {
	// 500 characters of HTTP 200 content is still a rejection.
	page := strings.Repeat("x", 500)
	v := NewVerifier(&stubFetcher{result: okFetch(page, "https://acme.com", 200)}, testVerifierConfig())

	result, _ := v.Verify(context.Background(), "acme.com", acmeTokens)
	if result.RejectionReason != "Insufficient content (likely placeholder or error page)" {
		t.Errorf("RejectionReason = %q", result.RejectionReason)
	}
	if result.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", result.Confidence)
	}
}

func TestVerifyLowSignalSiteNotVerified(t *testing.T) {
	// A reachable page with enough bytes but no brand or industry signals.
	page := "<html><head><title>Welcome</title></head><body>" +
		strings.Repeat("generic filler text without interesting words ", 40) +
		"</body></html>"
	v := NewVerifier(&stubFetcher{result: okFetch(page, "https://unrelated.example", 200)}, testVerifierConfig())

	result, err := v.Verify(context.Background(), "unrelated.example", acmeTokens)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if result.Verified {
		t.Errorf("Verified = true with confidence %v, want false below threshold", result.Confidence)
	}
	if result.RejectionReason != "" {
		t.Errorf("RejectionReason = %q, want none (threshold miss, not pre-check)", result.RejectionReason)
	}
	if result.Verified != (result.Confidence >= 0.6) {
		t.Error("verified flag disagrees with threshold")
	}
}

func TestVerifyEmptyDomain(t *testing.T) {
	v := NewVerifier(&stubFetcher{}, testVerifierConfig())
	if _, err := v.Verify(context.Background(), "  ", acmeTokens); err == nil {
		t.Error("Verify() expected error for empty domain")
	}
}

func TestSignalWeightGroupTotals(t *testing.T) {
	w := defaultSignalWeights
	brandTotal := w.TitleMatch + w.ContentMatch + w.MetaMatch + w.DomainMatch
	businessTotal := w.ContactInfo + w.LocationInfo + w.BusinessHours + w.AboutSection
	officeTotal := w.Coworking + w.OfficeSpace + w.Flexible + w.LocationPages + w.Pricing

	if math.Abs(brandTotal-0.40) > 1e-9 {
		t.Errorf("brand weights sum = %v, want 0.40", brandTotal)
	}
	if math.Abs(businessTotal-0.30) > 1e-9 {
		t.Errorf("business weights sum = %v, want 0.30", businessTotal)
	}
	if math.Abs(officeTotal-0.30) > 1e-9 {
		t.Errorf("office weights sum = %v, want 0.30", officeTotal)
	}
}

func TestScoreClamped(t *testing.T) {
	all := defaultSignalWeights.score(
		BrandMatches{true, true, true, true},
		BusinessSignals{true, true, true, true},
		OfficeSpaceSignals{true, true, true, true, true},
	)
	if all < 0 || all > 1 {
		t.Errorf("score = %v, want within [0,1]", all)
	}
	none := defaultSignalWeights.score(BrandMatches{}, BusinessSignals{}, OfficeSpaceSignals{})
	if none != 0 {
		t.Errorf("score with no signals = %v, want 0", none)
	}
}
