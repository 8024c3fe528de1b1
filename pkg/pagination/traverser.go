package pagination

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/package-version-ids/pkg/logging"
	"github.com/Sternrassler/package-version-ids/pkg/registry"
)

// ErrNoMatcher is returned by Collect when no matcher is given.
var ErrNoMatcher = errors.New("version matcher is required")

// Strategy selects how versions cursors are followed.
type Strategy string

const (
	// StrategyDrain follows versions cursors until every package on a packages
	// page reports no further versions.
	StrategyDrain Strategy = "drain"

	// StrategySinglePass follows only the versions cursors of the first page of
	// each packages page and never rechains them. Versions beyond the second
	// versions page of a package are not visited.
	StrategySinglePass Strategy = "single-pass"
)

// ParseStrategy converts a configuration value into a Strategy. Empty selects StrategyDrain.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyDrain:
		return StrategyDrain, nil
	case StrategySinglePass:
		return StrategySinglePass, nil
	default:
		return "", fmt.Errorf("unknown traversal strategy %q (want drain or single-pass)", s)
	}
}

// Config holds traverser configuration.
type Config struct {
	// Strategy selects how versions cursors are followed.
	Strategy Strategy

	// ProgressInterval logs progress every N fetches (0 disables progress logging).
	ProgressInterval int
}

// DefaultConfig returns the default traverser configuration.
func DefaultConfig() Config {
	return Config{
		Strategy:         StrategyDrain,
		ProgressInterval: 50,
	}
}

// Querier fetches one page of packages, each carrying one page of versions.
// registry.Start begins a level from its first page.
type Querier interface {
	Query(ctx context.Context, outer, inner registry.Cursor) (*registry.Page, error)
}

// QuerierFunc adapts a function to the Querier interface.
type QuerierFunc func(ctx context.Context, outer, inner registry.Cursor) (*registry.Page, error)

// Query calls f.
func (f QuerierFunc) Query(ctx context.Context, outer, inner registry.Cursor) (*registry.Page, error) {
	return f(ctx, outer, inner)
}

// Traverser walks both pagination levels of the registry.
type Traverser struct {
	querier Querier
	config  Config
	logger  zerolog.Logger
}

// NewTraverser creates a new traverser.
func NewTraverser(querier Querier, config Config) *Traverser {
	if config.Strategy == "" {
		config.Strategy = StrategyDrain
	}
	if config.ProgressInterval < 0 {
		config.ProgressInterval = 0
	}

	return &Traverser{
		querier: querier,
		config:  config,
		logger:  logging.NewLogger("traverser"),
	}
}

const (
	levelOuter = "packages"
	levelInner = "versions"
)

// traversal is the state of a single Collect call. It is owned by one goroutine.
type traversal struct {
	*Traverser
	match   func(string) bool
	results *ResultSet
	fetches int
}

// Collect returns the ids of all versions whose version string satisfies match,
// de-duplicated, in the order they were first seen.
//
// The first query error aborts the traversal and is returned unchanged; no
// partial result is returned.
func (t *Traverser) Collect(ctx context.Context, match func(version string) bool) ([]string, error) {
	if match == nil {
		return nil, ErrNoMatcher
	}

	start := time.Now()
	run := &traversal{
		Traverser: t,
		match:     match,
		results:   NewResultSet(),
	}

	t.logger.Info().
		Str("strategy", string(t.config.Strategy)).
		Msg("Starting versions traversal")

	consumed := map[registry.Cursor]bool{}
	frontier := []registry.Cursor{registry.Start}
	for len(frontier) > 0 {
		pending := frontier
		frontier = nil

		for _, oc := range pending {
			if consumed[oc] {
				continue
			}
			consumed[oc] = true

			page, err := run.fetch(ctx, levelOuter, oc, registry.Start)
			if err != nil {
				return nil, err
			}

			next := registry.OuterCursors(page)
			if t.config.Strategy == StrategySinglePass {
				frontier = next
			} else {
				frontier = append(frontier, next...)
			}

			run.results.Add(registry.MatchingIDs(page, match)...)

			if err := run.drainVersions(ctx, oc, registry.InnerCursors(page)); err != nil {
				return nil, err
			}
		}
	}

	ids := run.results.IDs()
	duration := time.Since(start)

	traversalDuration.Observe(duration.Seconds())
	traversalMatches.Set(float64(len(ids)))

	t.logger.Info().
		Int("fetches", run.fetches).
		Int("matches", len(ids)).
		Dur("duration", duration).
		Msg("Versions traversal complete")

	return ids, nil
}

// drainVersions fetches the versions pages of the packages page at oc. Inner
// cursors are only valid together with the outer cursor they were issued under.
func (r *traversal) drainVersions(ctx context.Context, oc registry.Cursor, queue []registry.Cursor) error {
	rechain := r.config.Strategy == StrategyDrain
	consumed := map[registry.Cursor]bool{registry.Start: true}

	for len(queue) > 0 {
		ic := queue[0]
		queue = queue[1:]
		if consumed[ic] {
			continue
		}
		consumed[ic] = true

		page, err := r.fetch(ctx, levelInner, oc, ic)
		if err != nil {
			return err
		}

		// The packages page is already known from (oc, Start); its outer
		// cursors are not re-derived here.
		r.results.Add(registry.MatchingIDs(page, r.match)...)

		if rechain {
			queue = append(queue, registry.InnerCursors(page)...)
		}
	}
	return nil
}

func (r *traversal) fetch(ctx context.Context, level string, outer, inner registry.Cursor) (*registry.Page, error) {
	if err := ctx.Err(); err != nil {
		r.logger.Warn().
			Err(err).
			Int("fetches", r.fetches).
			Msg("Versions traversal cancelled")
		return nil, err
	}

	page, err := r.querier.Query(ctx, outer, inner)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("level", level).
			Str("outer_cursor", string(outer)).
			Str("inner_cursor", string(inner)).
			Int("fetches", r.fetches).
			Msg("Versions traversal aborted")
		return nil, err
	}

	r.fetches++
	traversalFetchesTotal.WithLabelValues(level).Inc()

	if r.config.ProgressInterval > 0 && r.fetches%r.config.ProgressInterval == 0 {
		r.logger.Info().
			Int("fetches", r.fetches).
			Int("matches", r.results.Len()).
			Msg("Traversal progress")
	}

	return page, nil
}
