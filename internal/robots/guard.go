// File: backend/internal/robots/guard.go
package robots

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"

	"github.com/flexofficehq/domainscout/backend/internal/config"
	"github.com/flexofficehq/domainscout/backend/internal/urlutil"
)

// Decision records the outcome of a robots.txt check for one URL.
type Decision struct {
	Allowed    bool          `json:"allowed"`
	Reason     string        `json:"reason,omitempty"`
	CrawlDelay time.Duration `json:"crawlDelay,omitempty"`
	Sitemaps   []string      `json:"sitemaps,omitempty"`
	FromCache  bool          `json:"fromCache"`
}

type cacheEntry struct {
	group     *robotstxt.Group
	sitemaps  []string
	fetchedAt time.Time
	// failOpen is set when robots.txt could not be retrieved; everything is
	// allowed for the entry's lifetime.
	failOpen bool
}

// Guard fetches and caches robots.txt per registrable domain and answers
// allow/deny questions for individual URLs. Retrieval failures fail open:
// a site whose robots.txt cannot be read is treated as fully crawlable.
type Guard struct {
	httpClient *http.Client
	userAgent  string
	cacheTTL   time.Duration
	now        func() time.Time

	mu    sync.RWMutex
	cache map[string]*cacheEntry
}

// NewGuard creates a Guard from config. A zero CacheTTL keeps entries for the
// process lifetime.
func NewGuard(cfg config.RobotsConfig) *Guard {
	return &Guard{
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
		userAgent:  cfg.UserAgent,
		cacheTTL:   cfg.CacheTTL,
		now:        time.Now,
		cache:      make(map[string]*cacheEntry),
	}
}

// SetClock overrides the time source, for tests exercising cache expiry.
func (g *Guard) SetClock(now func() time.Time) { g.now = now }

// Check reports whether targetURL may be fetched under the site's robots.txt.
func (g *Guard) Check(ctx context.Context, targetURL string) (Decision, error) {
	u, err := url.Parse(targetURL)
	if err != nil || u.Host == "" {
		return Decision{}, fmt.Errorf("robots check: invalid url '%s': %w", targetURL, err)
	}

	key := urlutil.RegistrableDomain(u.Host)
	entry, fromCache := g.lookup(key)
	if !fromCache {
		entry = g.fetchAndStore(ctx, u, key)
	}

	if entry.failOpen {
		return Decision{Allowed: true, Reason: "robots.txt unavailable, failing open", FromCache: fromCache}, nil
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if entry.group.Test(path) {
		return Decision{
			Allowed:    true,
			CrawlDelay: entry.group.CrawlDelay,
			Sitemaps:   entry.sitemaps,
			FromCache:  fromCache,
		}, nil
	}
	return Decision{
		Allowed:    false,
		Reason:     fmt.Sprintf("disallowed by robots.txt for user-agent '%s'", g.userAgent),
		CrawlDelay: entry.group.CrawlDelay,
		Sitemaps:   entry.sitemaps,
		FromCache:  fromCache,
	}, nil
}

func (g *Guard) lookup(key string) (*cacheEntry, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	entry, ok := g.cache[key]
	if !ok {
		return nil, false
	}
	if g.cacheTTL > 0 && g.now().Sub(entry.fetchedAt) > g.cacheTTL {
		return nil, false
	}
	return entry, true
}

func (g *Guard) fetchAndStore(ctx context.Context, u *url.URL, key string) *cacheEntry {
	entry := &cacheEntry{fetchedAt: g.now()}

	robotsURL := urlutil.HostURL(u) + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		log.Printf("WARN: Robots: failed to build request for %s: %v. Failing open.", robotsURL, err)
		entry.failOpen = true
		return g.store(key, entry)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Printf("WARN: Robots: fetch failed for %s: %v. Failing open.", robotsURL, err)
		entry.failOpen = true
		return g.store(key, entry)
	}
	defer resp.Body.Close()

	// Only a 200 robots.txt is honored; any other status fails open.
	if resp.StatusCode != http.StatusOK {
		log.Printf("INFO: Robots: robots.txt for %s returned status %d. Failing open.", key, resp.StatusCode)
		entry.failOpen = true
		return g.store(key, entry)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		log.Printf("WARN: Robots: body read failed for %s: %v. Failing open.", robotsURL, err)
		entry.failOpen = true
		return g.store(key, entry)
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		log.Printf("WARN: Robots: parse failed for %s: %v. Failing open.", robotsURL, err)
		entry.failOpen = true
		return g.store(key, entry)
	}

	entry.group = data.FindGroup(g.userAgent)
	entry.sitemaps = data.Sitemaps
	log.Printf("INFO: Robots: cached robots.txt for %s (status %d)", key, resp.StatusCode)
	return g.store(key, entry)
}

func (g *Guard) store(key string, entry *cacheEntry) *cacheEntry {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cache[key] = entry
	return entry
}
