// File: backend/internal/renderer/pool.go
package renderer

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/flexofficehq/domainscout/backend/internal/config"
)

// BrowserPool manages headless browser contexts keyed by registrable domain.
// Renders against the same domain reuse one context (session state, cookies);
// each render opens a fresh tab inside it. The pool size bounds how many
// idle contexts are retained.
type BrowserPool struct {
	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
	contexts    map[string]*browserInstance
	maxSize     int
	closed      bool

	// startBrowser launches the context's browser process. Tests stub it.
	startBrowser func(ctx context.Context) error
}

type browserInstance struct {
	domain     string
	ctx        context.Context
	cancel     context.CancelFunc
	lastUsed   time.Time
	activeTabs int
}

// NewBrowserPool builds the pool's shared Chrome allocator. Browser contexts
// are started lazily, on the first render for their domain.
func NewBrowserPool(cfg config.RendererConfig) *BrowserPool {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("no-first-run", true),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	maxSize := cfg.MaxBrowserContexts
	if maxSize <= 0 {
		maxSize = 1
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &BrowserPool{
		allocCtx:     allocCtx,
		allocCancel:  allocCancel,
		contexts:     make(map[string]*browserInstance),
		maxSize:      maxSize,
		startBrowser: func(ctx context.Context) error { return chromedp.Run(ctx) },
	}
}

// acquire returns the browser context pooled for domain, creating it on
// first use. A full pool evicts its least recently used idle context.
func (p *BrowserPool) acquire(ctx context.Context, domain string) (*browserInstance, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, errors.New("browser pool is shut down")
	}
	if instance, ok := p.contexts[domain]; ok {
		instance.activeTabs++
		instance.lastUsed = time.Now()
		p.mu.Unlock()
		return instance, nil
	}
	if len(p.contexts) >= p.maxSize {
		p.evictIdleLocked()
	}

	browserCtx, browserCancel := chromedp.NewContext(p.allocCtx)
	instance := &browserInstance{
		domain:     domain,
		ctx:        browserCtx,
		cancel:     browserCancel,
		lastUsed:   time.Now(),
		activeTabs: 1,
	}
	p.contexts[domain] = instance
	p.mu.Unlock()

	if err := p.startBrowser(browserCtx); err != nil {
		browserCancel()
		p.mu.Lock()
		delete(p.contexts, domain)
		p.mu.Unlock()
		return nil, err
	}
	return instance, nil
}

// evictIdleLocked drops the least recently used context with no open tabs.
// When every context is busy the pool grows past maxSize rather than block.
func (p *BrowserPool) evictIdleLocked() {
	var victim *browserInstance
	for _, instance := range p.contexts {
		if instance.activeTabs > 0 {
			continue
		}
		if victim == nil || instance.lastUsed.Before(victim.lastUsed) {
			victim = instance
		}
	}
	if victim == nil {
		log.Printf("WARN: Renderer: all %d pooled browsers busy, growing past pool size", len(p.contexts))
		return
	}
	victim.cancel()
	delete(p.contexts, victim.domain)
	log.Printf("INFO: Renderer: evicted idle browser context for %s", victim.domain)
}

func (p *BrowserPool) release(instance *browserInstance) {
	if instance == nil {
		return
	}
	p.mu.Lock()
	if instance.activeTabs > 0 {
		instance.activeTabs--
	}
	instance.lastUsed = time.Now()
	p.mu.Unlock()
}

// Shutdown tears down all browser contexts and the shared allocator.
func (p *BrowserPool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true

	for domain, instance := range p.contexts {
		instance.cancel()
		delete(p.contexts, domain)
	}
	p.allocCancel()
	log.Println("INFO: Renderer: browser pool shut down")
}
