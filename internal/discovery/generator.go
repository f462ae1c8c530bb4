// File: backend/internal/discovery/generator.go
package discovery

import (
	"context"
	"log"
	"time"

	"github.com/flexofficehq/domainscout/backend/internal/config"
)

// Searcher runs one query against a public search engine.
type Searcher interface {
	SearchGoogle(ctx context.Context, query string) ([]Candidate, error)
	SearchBing(ctx context.Context, query string) ([]Candidate, error)
}

// LivenessProber issues a cheap HEAD probe against a bare domain.
type LivenessProber interface {
	Head(ctx context.Context, domain string, probeTimeout time.Duration) (int, error)
}

// DomainScreener pre-screens a domain via DNS before the HTTP probe.
type DomainScreener interface {
	Resolves(ctx context.Context, domain string) (resolves bool, definitive bool)
}

// Generator produces scored, deduplicated domain candidates for an operator
// name by running the search and guess strategies and unioning their output.
type Generator struct {
	cfg      config.DiscoveryConfig
	searcher Searcher
	prober   LivenessProber
	screener DomainScreener
}

func NewGenerator(cfg config.DiscoveryConfig, searcher Searcher, prober LivenessProber, screener DomainScreener) *Generator {
	return &Generator{cfg: cfg, searcher: searcher, prober: prober, screener: screener}
}

// Discover runs both strategies sequentially, deduplicates by domain, scores
// the result and returns it sorted by confidence descending. Per-query and
// per-engine failures are logged and skipped; only a cancelled context aborts
// the whole run.
func (g *Generator) Discover(ctx context.Context, operatorName string) ([]Candidate, error) {
	var candidates []Candidate

	searched, err := g.runSearchStrategy(ctx, operatorName)
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, searched...)

	guessed, err := g.runGuessStrategy(ctx, operatorName)
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, guessed...)

	deduped := DeduplicateCandidates(candidates)
	scored := ScoreCandidates(deduped, operatorName)
	log.Printf("INFO: Discovery: operator '%s' produced %d candidates (%d before dedup)", operatorName, len(scored), len(candidates))
	return scored, nil
}

func (g *Generator) runSearchStrategy(ctx context.Context, operatorName string) ([]Candidate, error) {
	var candidates []Candidate
	queries := SearchQueries(operatorName)
	for i, query := range queries {
		if i > 0 {
			if err := sleepCtx(ctx, g.cfg.SearchDelay); err != nil {
				return nil, err
			}
		}

		if googleResults, err := g.searcher.SearchGoogle(ctx, query); err != nil {
			log.Printf("WARN: Discovery: %v", err)
		} else {
			candidates = append(candidates, googleResults...)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if bingResults, err := g.searcher.SearchBing(ctx, query); err != nil {
			log.Printf("WARN: Discovery: %v", err)
		} else {
			candidates = append(candidates, bingResults...)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return candidates, nil
}

func (g *Generator) runGuessStrategy(ctx context.Context, operatorName string) ([]Candidate, error) {
	guesses := GenerateGuesses(operatorName, g.cfg.TLDs)

	var live []Candidate
	for i, guess := range guesses {
		if i > 0 {
			if err := sleepCtx(ctx, g.cfg.ProbeDelay); err != nil {
				return nil, err
			}
		}

		if g.screener != nil {
			if resolves, definitive := g.screener.Resolves(ctx, guess.Domain); definitive && !resolves {
				continue
			}
		}

		status, err := g.prober.Head(ctx, guess.Domain, g.cfg.ProbeTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if status < 500 {
			live = append(live, guess)
		}
	}
	log.Printf("INFO: Discovery: guess strategy for '%s': %d of %d guesses live", operatorName, len(live), len(guesses))
	return live, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
