// File: backend/internal/fetcher/fetcher.go
package fetcher

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/flexofficehq/domainscout/backend/internal/config"
	"github.com/flexofficehq/domainscout/backend/internal/renderer"
	"github.com/flexofficehq/domainscout/backend/internal/robots"
	"github.com/flexofficehq/domainscout/backend/internal/urlutil"
)

// RobotsChecker answers whether a URL may be fetched.
type RobotsChecker interface {
	Check(ctx context.Context, targetURL string) (robots.Decision, error)
}

// RenderEngine retrieves a page through a headless browser.
type RenderEngine interface {
	Render(ctx context.Context, targetURL, waitSelector string) (*renderer.Result, error)
}

// Fetcher retrieves page content with a lightweight HTTP client first and a
// rendering engine as fallback. All fetches honor robots.txt and a per-site
// politeness delay.
type Fetcher struct {
	cfg        config.FetcherConfig
	httpClient *http.Client
	guard      RobotsChecker
	renderer   RenderEngine

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewFetcher creates a Fetcher. The render engine may be nil, in which case
// fallback is disabled and lightweight failures are terminal.
func NewFetcher(cfg config.FetcherConfig, guard RobotsChecker, renderEngine RenderEngine) *Fetcher {
	f := &Fetcher{
		cfg:      cfg,
		guard:    guard,
		renderer: renderEngine,
		limiters: make(map[string]*rate.Limiter),
	}
	f.httpClient = &http.Client{
		Timeout: cfg.RequestTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	return f
}

// Fetch retrieves urlStr, normalizing it first, checking robots.txt, waiting
// out the per-site delay, and walking the engine fallback chain.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string, opts Options) (*Result, error) {
	normalized, err := urlutil.Normalize(urlStr)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	if !opts.SkipRobots && f.guard != nil {
		decision, robotsErr := f.guard.Check(ctx, normalized)
		if robotsErr != nil {
			return nil, fmt.Errorf("fetch: robots check failed for %s: %w", normalized, robotsErr)
		}
		if !decision.Allowed {
			return nil, fmt.Errorf("fetch %s: %w", normalized, ErrRobotsDisallowed)
		}
	}

	state := stateNotTried
	if opts.ForceRendered {
		state = stateLightweightFailed
	}

	var result *Result
	var lightweightErr, renderErr error

	for {
		switch state {
		case stateNotTried:
			// The politeness delay applies to lightweight requests only.
			if err := f.waitTurn(ctx, normalized); err != nil {
				return nil, fmt.Errorf("fetch: politeness wait aborted for %s: %w", normalized, err)
			}
			result, lightweightErr = f.fetchLightweight(ctx, normalized)
			state = nextAfterLightweight(result, lightweightErr)
			if state == stateLightweightFailed {
				if lightweightErr == nil {
					lightweightErr = fmt.Errorf("lightweight fetch of %s returned status %d", normalized, result.StatusCode)
				}
				log.Printf("WARN: Fetcher: lightweight fetch failed for %s: %v", normalized, lightweightErr)
				if ctx.Err() != nil {
					return nil, fmt.Errorf("fetch: context cancelled for %s: %w", normalized, ctx.Err())
				}
			}

		case stateLightweightFailed:
			if f.renderer == nil {
				state = stateFailed
				continue
			}
			state = stateRenderedAttempted

		case stateRenderedAttempted:
			result, renderErr = f.fetchRendered(ctx, normalized, opts.WaitSelector)
			if renderErr == nil {
				state = stateSucceeded
			} else {
				state = stateFailed
			}

		case stateSucceeded:
			return result, nil

		case stateFailed:
			if lightweightErr != nil && renderErr != nil {
				return nil, fmt.Errorf("fetch: both engines failed for %s: lightweight: %v; rendered: %w", normalized, lightweightErr, renderErr)
			}
			if renderErr != nil {
				return nil, fmt.Errorf("fetch: rendering failed for %s: %w", normalized, renderErr)
			}
			if lightweightErr != nil {
				return nil, fmt.Errorf("fetch: %w", lightweightErr)
			}
			return nil, fmt.Errorf("fetch: no engine available for %s", normalized)
		}
	}
}

// nextAfterLightweight decides the transition after a lightweight attempt:
// a transport error or a bot-wall status hands off to the rendering engine,
// anything else is terminal.
func nextAfterLightweight(result *Result, err error) attemptState {
	if err != nil || shouldFallbackOnStatus(result.StatusCode) {
		return stateLightweightFailed
	}
	return stateSucceeded
}

// Head issues a bare HEAD request, trying HTTP first and falling back to
// HTTPS. It is used for cheap liveness probes and bypasses the fallback
// chain. A probeTimeout of zero uses the configured request timeout.
func (f *Fetcher) Head(ctx context.Context, domain string, probeTimeout time.Duration) (statusCode int, err error) {
	client := f.httpClient
	if probeTimeout > 0 {
		client = &http.Client{Timeout: probeTimeout, CheckRedirect: f.httpClient.CheckRedirect}
	}

	urlsToTry := []string{"http://" + domain, "https://" + domain}
	var lastErr error
	for _, attemptURL := range urlsToTry {
		req, errNewReq := http.NewRequestWithContext(ctx, http.MethodHead, attemptURL, nil)
		if errNewReq != nil {
			lastErr = fmt.Errorf("failed to create HEAD request for %s: %w", attemptURL, errNewReq)
			continue
		}
		req.Header.Set("User-Agent", f.pickUserAgent())

		resp, doErr := client.Do(req)
		if doErr != nil {
			lastErr = fmt.Errorf("HEAD request to %s failed: %w", attemptURL, doErr)
			if ctx.Err() != nil {
				return 0, fmt.Errorf("context cancelled during HEAD probe of %s: %w", domain, ctx.Err())
			}
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return resp.StatusCode, nil
	}
	return 0, lastErr
}

func (f *Fetcher) fetchLightweight(ctx context.Context, urlStr string) (*Result, error) {
	start := time.Now().UTC()

	var urlsToTry []string
	if strings.HasPrefix(urlStr, "https://") {
		urlsToTry = []string{urlStr, strings.Replace(urlStr, "https://", "http://", 1)}
	} else {
		urlsToTry = []string{strings.Replace(urlStr, "http://", "https://", 1), urlStr}
	}

	userAgent := f.pickUserAgent()

	var resp *http.Response
	var reqError error
	for _, attemptURL := range urlsToTry {
		log.Printf("INFO: Fetcher: attempting URL: %s (UA: %s)", attemptURL, userAgent)
		req, errNewReq := http.NewRequestWithContext(ctx, http.MethodGet, attemptURL, nil)
		if errNewReq != nil {
			reqError = fmt.Errorf("failed to create request for %s: %w", attemptURL, errNewReq)
			continue
		}
		req.Header.Set("User-Agent", userAgent)
		for key, value := range f.cfg.DefaultHeaders {
			req.Header.Set(key, value)
		}

		currentResp, doErr := f.httpClient.Do(req)
		if doErr != nil {
			reqError = fmt.Errorf("request to %s failed: %w", attemptURL, doErr)
			if ctx.Err() != nil {
				return nil, fmt.Errorf("context cancelled during request to %s: %w", attemptURL, ctx.Err())
			}
			continue
		}
		resp = currentResp
		reqError = nil
		break
	}

	if reqError != nil {
		return nil, reqError
	}
	if resp == nil {
		return nil, fmt.Errorf("no response received after trying: %s", strings.Join(urlsToTry, ", "))
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	body, err := readAndProcessBody(resp, f.cfg.MaxBodyBytes)
	if err != nil {
		return nil, err
	}

	finalURL := normalizeFinalURL(resp.Request.URL.String())
	completed := time.Now().UTC()
	hashBytes := sha256.Sum256(body)
	result := &Result{
		RequestedURL: urlStr,
		FinalURL:     finalURL,
		StatusCode:   resp.StatusCode,
		Headers:      resp.Header.Clone(),
		Body:         body,
		ContentHash:  hex.EncodeToString(hashBytes[:]),
		Engine:       EngineLightweight,
		StartedAt:    start,
		CompletedAt:  completed,
		Duration:     completed.Sub(start),
	}
	log.Printf("INFO: Fetcher: fetched %s (status %d, %d bytes, final URL %s)", urlStr, result.StatusCode, len(body), finalURL)
	return result, nil
}

func (f *Fetcher) fetchRendered(ctx context.Context, urlStr, waitSelector string) (*Result, error) {
	start := time.Now().UTC()
	rendered, err := f.renderer.Render(ctx, urlStr, waitSelector)
	if err != nil {
		return nil, err
	}

	body := []byte(rendered.HTML)
	statusCode := rendered.StatusCode
	if statusCode == 0 && len(body) > 0 {
		statusCode = http.StatusOK
	}
	completed := time.Now().UTC()
	hashBytes := sha256.Sum256(body)
	return &Result{
		RequestedURL: urlStr,
		FinalURL:     normalizeFinalURL(rendered.FinalURL),
		StatusCode:   statusCode,
		Headers:      rendered.Headers,
		Body:         body,
		ContentHash:  hex.EncodeToString(hashBytes[:]),
		Engine:       EngineRendered,
		StartedAt:    start,
		CompletedAt:  completed,
		Duration:     completed.Sub(start),
	}, nil
}

// normalizeFinalURL applies the standard URL normalization to a
// post-redirect URL. Browsers report bare hosts as "https://host/"; the
// canonical form carries no trailing slash, fragment or default port.
func normalizeFinalURL(rawURL string) string {
	normalized, err := urlutil.Normalize(rawURL)
	if err != nil {
		return rawURL
	}
	return normalized
}

// waitTurn enforces the fixed request delay before every lightweight fetch,
// including the first contact with a site. Limiters are keyed by registrable
// domain so subdomains share a limiter.
func (f *Fetcher) waitTurn(ctx context.Context, normalizedURL string) error {
	if f.cfg.RequestDelay <= 0 {
		return nil
	}
	domain, err := urlutil.ExtractDomain(normalizedURL)
	if err != nil {
		return err
	}
	key := urlutil.RegistrableDomain(domain)

	f.mu.Lock()
	limiter, ok := f.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(f.cfg.RequestDelay), 1)
		// Drain the initial burst token; the first request must wait too.
		limiter.ReserveN(time.Now(), 1)
		f.limiters[key] = limiter
	}
	f.mu.Unlock()

	return limiter.Wait(ctx)
}

func (f *Fetcher) pickUserAgent() string {
	if len(f.cfg.UserAgents) == 0 {
		return "DomainScout/1.0"
	}
	return f.cfg.UserAgents[rand.Intn(len(f.cfg.UserAgents))]
}

// shouldFallbackOnStatus reports whether a lightweight response with this
// status is worth retrying through the rendering engine. Bot walls and
// transient upstream failures are; ordinary 4xx/5xx are not.
func shouldFallbackOnStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusForbidden, http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	}
	return false
}

// readAndProcessBody decompresses, size-limits and UTF-8-normalizes a
// response body.
func readAndProcessBody(resp *http.Response, maxBodyBytes int64) ([]byte, error) {
	finalURL := resp.Request.URL.String()

	decompressedReader := io.Reader(resp.Body)
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gzReader, errGzip := gzip.NewReader(resp.Body)
		if errGzip != nil {
			return nil, fmt.Errorf("gzip reader error for %s: %w", finalURL, errGzip)
		}
		defer gzReader.Close()
		decompressedReader = gzReader
	case "deflate":
		zlibReader, errZlib := zlib.NewReader(resp.Body)
		if errZlib != nil {
			return nil, fmt.Errorf("deflate reader error for %s: %w", finalURL, errZlib)
		}
		defer zlibReader.Close()
		decompressedReader = zlibReader
	}

	if maxBodyBytes <= 0 {
		maxBodyBytes = 10 * 1024 * 1024
	}
	rawBodyBytes, readErr := io.ReadAll(io.LimitReader(decompressedReader, maxBodyBytes))
	if readErr != nil && readErr != io.EOF {
		return nil, fmt.Errorf("error reading response body from %s: %w", finalURL, readErr)
	}

	contentType := resp.Header.Get("Content-Type")
	utf8Reader, errConv := charset.NewReader(bytes.NewReader(rawBodyBytes), contentType)
	if errConv != nil {
		log.Printf("WARN: Fetcher: could not get UTF-8 reader for %s (ContentType: '%s'): %v. Using raw bytes.", finalURL, contentType, errConv)
		return rawBodyBytes, nil
	}
	utf8Bytes, errReadUTF8 := io.ReadAll(utf8Reader)
	if errReadUTF8 != nil {
		log.Printf("WARN: Fetcher: error reading as UTF-8 from %s: %v. Using raw bytes.", finalURL, errReadUTF8)
		return rawBodyBytes, nil
	}
	return utf8Bytes, nil
}
