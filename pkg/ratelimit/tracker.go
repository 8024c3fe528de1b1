package ratelimit

import (
	"sync"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for quota tracking.
var (
	quotaRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pkgids_ratelimit_remaining",
		Help: "GitHub API points remaining in the current rate limit window",
	})

	quotaLimit = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pkgids_ratelimit_limit",
		Help: "GitHub API points available per rate limit window",
	})

	quotaWarningsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pkgids_ratelimit_warnings_total",
		Help: "Total responses that reported a low or critical remaining quota",
	}, []string{"severity"}) // "low", "critical"
)

// Tracker records the quota of successive responses. Record is called by the
// query loop, one response at a time; State may be read from another
// goroutine through Client.RateLimit while a traversal runs.
type Tracker struct {
	logger zerolog.Logger
	now    func() time.Time

	mu    sync.Mutex
	state State
	known bool
}

// NewTracker creates a new quota tracker.
func NewTracker(logger zerolog.Logger) *Tracker {
	return &Tracker{
		logger: logger,
		now:    time.Now,
	}
}

// Record updates the tracked quota from a response's rate. Responses without
// rate limit headers leave the state unchanged.
func (t *Tracker) Record(rate github.Rate) {
	state, ok := StateFromRate(rate, t.now())
	if !ok {
		return
	}

	t.mu.Lock()
	t.state, t.known = state, true
	t.mu.Unlock()

	quotaRemaining.Set(float64(state.Remaining))
	quotaLimit.Set(float64(state.Limit))

	switch {
	case state.IsCritical():
		quotaWarningsTotal.WithLabelValues("critical").Inc()
		t.logger.Error().
			Int("remaining", state.Remaining).
			Time("reset_at", state.ResetAt).
			Msg("GitHub API quota nearly exhausted")
	case state.IsLow():
		quotaWarningsTotal.WithLabelValues("low").Inc()
		t.logger.Warn().
			Int("remaining", state.Remaining).
			Time("reset_at", state.ResetAt).
			Msg("GitHub API quota running low")
	default:
		t.logger.Debug().
			Int("remaining", state.Remaining).
			Int("limit", state.Limit).
			Msg("GitHub API quota updated")
	}
}

// State returns the last recorded quota. It reports false until a response
// carrying rate limit headers has been recorded.
func (t *Tracker) State() (State, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, t.known
}
