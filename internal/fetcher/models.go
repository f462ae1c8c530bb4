// File: backend/internal/fetcher/models.go
package fetcher

import (
	"errors"
	"net/http"
	"time"
)

// Engine identifies which retrieval path produced a result.
type Engine string

const (
	EngineLightweight Engine = "lightweight"
	EngineRendered    Engine = "rendered"
)

// attemptState tracks progress through the dual-engine fallback chain.
type attemptState int

const (
	stateNotTried attemptState = iota
	stateLightweightFailed
	stateRenderedAttempted
	stateSucceeded
	stateFailed
)

// ErrRobotsDisallowed is returned when a site's robots.txt forbids the URL.
var ErrRobotsDisallowed = errors.New("fetch blocked by robots.txt")

// Result is the outcome of fetching one URL. FinalURL is normalized the same
// way requested URLs are.
type Result struct {
	RequestedURL string        `json:"requestedUrl"`
	FinalURL     string        `json:"finalUrl"`
	StatusCode   int           `json:"statusCode"`
	Headers      http.Header   `json:"headers,omitempty"`
	Body         []byte        `json:"-"`
	ContentHash  string        `json:"contentHash,omitempty"`
	Engine       Engine        `json:"engine"`
	StartedAt    time.Time     `json:"startedAt"`
	CompletedAt  time.Time     `json:"completedAt"`
	Duration     time.Duration `json:"duration"`
}

// Options tune a single fetch.
type Options struct {
	// ForceRendered skips the lightweight engine entirely.
	ForceRendered bool
	// WaitSelector is passed to the rendering engine when it runs.
	WaitSelector string
	// SkipRobots bypasses the politeness guard (used for HEAD liveness probes
	// against candidate apex domains).
	SkipRobots bool
}
