// File: backend/internal/renderer/pool_test.go
package renderer

import (
	"context"
	"testing"
	"time"

	"github.com/flexofficehq/domainscout/backend/internal/config"
)

func newTestPool(t *testing.T, maxSize int) *BrowserPool {
	t.Helper()
	pool := NewBrowserPool(config.RendererConfig{MaxBrowserContexts: maxSize})
	pool.startBrowser = func(ctx context.Context) error { return nil }
	t.Cleanup(pool.Shutdown)
	return pool
}

func TestAcquireReusesContextPerDomain(t *testing.T) {
	pool := newTestPool(t, 2)
	ctx := context.Background()

	first, err := pool.acquire(ctx, "acme.com")
	if err != nil {
		t.Fatalf("acquire() error = %v", err)
	}
	pool.release(first)

	second, err := pool.acquire(ctx, "acme.com")
	if err != nil {
		t.Fatalf("second acquire() error = %v", err)
	}
	pool.release(second)

	if first != second {
		t.Error("same domain got a fresh browser context instead of the pooled one")
	}
	if len(pool.contexts) != 1 {
		t.Errorf("pool holds %d contexts, want 1", len(pool.contexts))
	}
}

func TestAcquireSeparatesDomains(t *testing.T) {
	pool := newTestPool(t, 2)
	ctx := context.Background()

	acme, err := pool.acquire(ctx, "acme.com")
	if err != nil {
		t.Fatalf("acquire(acme.com) error = %v", err)
	}
	hub, err := pool.acquire(ctx, "workhub.io")
	if err != nil {
		t.Fatalf("acquire(workhub.io) error = %v", err)
	}
	if acme == hub {
		t.Error("distinct domains shared one browser context")
	}
	pool.release(acme)
	pool.release(hub)
}

func TestFullPoolEvictsLeastRecentlyUsedIdle(t *testing.T) {
	pool := newTestPool(t, 2)
	ctx := context.Background()

	acme, _ := pool.acquire(ctx, "acme.com")
	hub, _ := pool.acquire(ctx, "workhub.io")
	pool.release(acme)
	time.Sleep(time.Millisecond)
	pool.release(hub)

	if _, err := pool.acquire(ctx, "thirddomain.com"); err != nil {
		t.Fatalf("acquire(thirddomain.com) error = %v", err)
	}

	if _, ok := pool.contexts["acme.com"]; ok {
		t.Error("oldest idle context was not evicted")
	}
	if _, ok := pool.contexts["workhub.io"]; !ok {
		t.Error("recently used context was evicted")
	}
	if _, ok := pool.contexts["thirddomain.com"]; !ok {
		t.Error("new domain's context missing from pool")
	}
}

func TestFullPoolDoesNotEvictBusyContexts(t *testing.T) {
	pool := newTestPool(t, 1)
	ctx := context.Background()

	busy, _ := pool.acquire(ctx, "acme.com")
	if _, err := pool.acquire(ctx, "workhub.io"); err != nil {
		t.Fatalf("acquire with busy pool error = %v", err)
	}

	if _, ok := pool.contexts["acme.com"]; !ok {
		t.Error("busy context was evicted")
	}
	if len(pool.contexts) != 2 {
		t.Errorf("pool holds %d contexts, want overflow to 2", len(pool.contexts))
	}
	pool.release(busy)
}

func TestAcquireAfterShutdown(t *testing.T) {
	pool := NewBrowserPool(config.RendererConfig{MaxBrowserContexts: 1})
	pool.startBrowser = func(ctx context.Context) error { return nil }
	pool.Shutdown()

	if _, err := pool.acquire(context.Background(), "acme.com"); err == nil {
		t.Error("acquire() after Shutdown() expected error")
	}
}

func TestPoolKey(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.acme.co.uk/contact", "acme.co.uk"},
		{"https://blog.workhub.io", "workhub.io"},
		{"http://acme.com/", "acme.com"},
	}
	for _, tc := range cases {
		if got := poolKey(tc.url); got != tc.want {
			t.Errorf("poolKey(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
