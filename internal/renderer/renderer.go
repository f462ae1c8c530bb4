// File: backend/internal/renderer/renderer.go
package renderer

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/flexofficehq/domainscout/backend/internal/config"
	"github.com/flexofficehq/domainscout/backend/internal/urlutil"
)

// Result is the outcome of rendering one page in a headless browser.
type Result struct {
	HTML       string
	FinalURL   string
	StatusCode int
	Headers    http.Header
	Duration   time.Duration
}

// Renderer drives headless Chrome through a browser pool to retrieve pages
// that require JavaScript execution.
type Renderer struct {
	pool              *BrowserPool
	navigationTimeout time.Duration
	selectorWait      time.Duration
}

func NewRenderer(cfg config.RendererConfig) *Renderer {
	return &Renderer{
		pool:              NewBrowserPool(cfg),
		navigationTimeout: cfg.NavigationTimeout,
		selectorWait:      cfg.SelectorWait,
	}
}

// Render navigates to targetURL in the browser context pooled for its
// domain, waits for the network to settle (and optionally for waitSelector
// to appear), then captures the final DOM. The main document's HTTP status
// and headers are recorded when observable.
func (r *Renderer) Render(ctx context.Context, targetURL, waitSelector string) (*Result, error) {
	start := time.Now()

	instance, err := r.pool.acquire(ctx, poolKey(targetURL))
	if err != nil {
		return nil, fmt.Errorf("renderer: failed to acquire browser: %w", err)
	}
	defer r.pool.release(instance)

	tabCtx, tabCancel := chromedp.NewContext(instance.ctx)
	defer tabCancel()
	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, r.navigationTimeout)
	defer timeoutCancel()
	go func() {
		select {
		case <-ctx.Done():
			tabCancel()
		case <-tabCtx.Done():
		}
	}()

	statusCode := 0
	var docHeaders http.Header
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if resp, ok := ev.(*network.EventResponseReceived); ok {
			if statusCode == 0 && resp.Type == network.ResourceTypeDocument {
				statusCode = int(resp.Response.Status)
				docHeaders = documentHeaders(resp.Response.Headers)
			}
		}
	})

	actions := []chromedp.Action{
		network.Enable(),
		chromedp.Navigate(targetURL),
		waitNetworkSettled(r.selectorWait),
	}
	if waitSelector != "" {
		actions = append(actions, waitSelectorBestEffort(waitSelector, r.selectorWait))
	}
	var html, finalURL string
	actions = append(actions,
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html),
	)

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return nil, fmt.Errorf("renderer: navigation failed for '%s': %w", targetURL, err)
	}

	result := &Result{
		HTML:       html,
		FinalURL:   finalURL,
		StatusCode: statusCode,
		Headers:    docHeaders,
		Duration:   time.Since(start),
	}
	log.Printf("INFO: Renderer: rendered %s (status %d, %d bytes, %s)", targetURL, statusCode, len(html), result.Duration.Round(time.Millisecond))
	return result, nil
}

// Shutdown releases the browser pool.
func (r *Renderer) Shutdown() { r.pool.Shutdown() }

// poolKey maps a URL to the registrable domain its browser context is
// pooled under. Unparseable URLs fall back to the raw string.
func poolKey(targetURL string) string {
	domain, err := urlutil.ExtractDomain(targetURL)
	if err != nil {
		return targetURL
	}
	return urlutil.RegistrableDomain(domain)
}

// documentHeaders converts CDP response headers to http.Header form.
func documentHeaders(raw network.Headers) http.Header {
	if len(raw) == 0 {
		return nil
	}
	headers := make(http.Header, len(raw))
	for name, value := range raw {
		if s, ok := value.(string); ok {
			headers.Set(name, s)
		}
	}
	return headers
}

// waitNetworkSettled waits for the body element and then for resource
// activity to go quiet, bounded by timeout.
func waitNetworkSettled(timeout time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := chromedp.WaitReady("body").Do(timeoutCtx); err != nil {
			return err
		}

		err := chromedp.Poll(`
			new Promise(resolve => {
				let lastCount = performance.getEntriesByType('resource').length;
				let stableTime = 0;
				const check = () => {
					const currentCount = performance.getEntriesByType('resource').length;
					if (currentCount === lastCount) {
						stableTime += 100;
						if (stableTime >= 500) {
							resolve(true);
							return;
						}
					} else {
						stableTime = 0;
						lastCount = currentCount;
					}
					setTimeout(check, 100);
				};
				setTimeout(check, 100);
			})
		`, nil, chromedp.WithPollingTimeout(timeout)).Do(timeoutCtx)
		if err != nil && strings.Contains(err.Error(), "deadline") {
			// Busy pages never settle; proceed with whatever loaded.
			return nil
		}
		return err
	})
}

// waitSelectorBestEffort waits up to timeout for sel to become visible. A
// missing selector is not fatal; the page is captured as-is.
func waitSelectorBestEffort(sel string, timeout time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := chromedp.WaitVisible(sel, chromedp.ByQuery).Do(timeoutCtx); err != nil {
			log.Printf("WARN: Renderer: selector '%s' not found before timeout: %v", sel, err)
		}
		return nil
	})
}
