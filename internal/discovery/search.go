// File: backend/internal/discovery/search.go
package discovery

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/flexofficehq/domainscout/backend/internal/urlutil"
)

const (
	searchRequestTimeout = 10 * time.Second
	maxResultsPerQuery   = 10
	searchUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Hostname substrings that are never an operator's own website.
var skipHostnames = []string{
	"facebook.com", "twitter.com", "linkedin.com", "instagram.com",
	"youtube.com", "tiktok.com", "pinterest.com", "reddit.com",
	"google.com", "bing.com", "yahoo.com", "duckduckgo.com",
	"wikipedia.org", "wiki.", "github.com", "gitlab.com",
}

// SearchEngine scrapes organic result links from public search engines.
type SearchEngine struct {
	httpClient *http.Client
}

func NewSearchEngine() *SearchEngine {
	return &SearchEngine{
		httpClient: &http.Client{Timeout: searchRequestTimeout},
	}
}

// SearchGoogle runs one query against Google and extracts candidate domains
// from the redirect-wrapped result links.
func (s *SearchEngine) SearchGoogle(ctx context.Context, query string) ([]Candidate, error) {
	searchURL := fmt.Sprintf("https://www.google.com/search?q=%s&num=10", url.QueryEscape(query))
	body, err := s.get(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("google search for '%s' failed: %w", query, err)
	}
	defer body.Close()

	candidates, err := ParseGoogleResults(body)
	if err != nil {
		return nil, fmt.Errorf("google result parse for '%s' failed: %w", query, err)
	}
	log.Printf("INFO: Discovery: google search '%s' yielded %d candidates", query, len(candidates))
	return candidates, nil
}

// SearchBing runs one query against Bing.
func (s *SearchEngine) SearchBing(ctx context.Context, query string) ([]Candidate, error) {
	searchURL := fmt.Sprintf("https://www.bing.com/search?q=%s&count=10", url.QueryEscape(query))
	body, err := s.get(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("bing search for '%s' failed: %w", query, err)
	}
	defer body.Close()

	candidates, err := ParseBingResults(body)
	if err != nil {
		return nil, fmt.Errorf("bing result parse for '%s' failed: %w", query, err)
	}
	log.Printf("INFO: Discovery: bing search '%s' yielded %d candidates", query, len(candidates))
	return candidates, nil
}

func (s *SearchEngine) get(ctx context.Context, searchURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", searchUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("search engine returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// ParseGoogleResults extracts result candidates from a Google results page.
// Organic result anchors carry hrefs of the form "/url?q=<target>&...".
func ParseGoogleResults(r io.Reader) ([]Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.HasPrefix(href, "/url?q=") {
			return
		}
		params, err := url.ParseQuery(href[len("/url?"):])
		if err != nil {
			return
		}
		actualURL := params.Get("q")
		if actualURL == "" || !IsScrapableResultURL(actualURL) {
			return
		}
		domain, err := urlutil.ExtractDomain(actualURL)
		if err != nil {
			return
		}
		candidates = append(candidates, Candidate{
			Domain:     domain,
			URL:        actualURL,
			Source:     SourceGoogle,
			Confidence: searchBaseConfidence,
			Title:      strings.TrimSpace(sel.Text()),
		})
	})

	if len(candidates) > maxResultsPerQuery {
		candidates = candidates[:maxResultsPerQuery]
	}
	return candidates, nil
}

// ParseBingResults extracts result candidates from a Bing results page.
func ParseBingResults(r io.Reader) ([]Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	doc.Find(".b_algo h2 a, .b_title a").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || !IsScrapableResultURL(href) {
			return
		}
		domain, err := urlutil.ExtractDomain(href)
		if err != nil {
			return
		}
		candidates = append(candidates, Candidate{
			Domain:     domain,
			URL:        href,
			Source:     SourceBing,
			Confidence: searchBaseConfidence,
			Title:      strings.TrimSpace(sel.Text()),
		})
	})

	if len(candidates) > maxResultsPerQuery {
		candidates = candidates[:maxResultsPerQuery]
	}
	return candidates, nil
}

// IsScrapableResultURL reports whether a result link plausibly points at a
// business's own site rather than a social network, search engine or wiki.
func IsScrapableResultURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return false
	}
	hostname := strings.ToLower(u.Hostname())
	for _, skip := range skipHostnames {
		if strings.Contains(hostname, skip) {
			return false
		}
	}
	return true
}
