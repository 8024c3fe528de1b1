// Package ratelimit tracks the GitHub API quota reported with every response
// (the X-RateLimit-* headers). It observes only: queries are never delayed or
// blocked, a rejected query fails the run like any other error.
package ratelimit

import (
	"time"

	"github.com/google/go-github/v57/github"
)

// Thresholds for quota warnings.
const (
	// ThresholdCritical marks the quota as nearly exhausted.
	ThresholdCritical = 10

	// ThresholdWarning marks the quota as running low.
	ThresholdWarning = 100
)

// State is the quota reported by the last response.
type State struct {
	// Limit is the number of points available per window (X-RateLimit-Limit).
	Limit int `json:"limit"`

	// Remaining is the number of points left in the window (X-RateLimit-Remaining).
	Remaining int `json:"remaining"`

	// ResetAt is when the window resets (X-RateLimit-Reset).
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when this state was recorded.
	LastUpdate time.Time `json:"last_update"`
}

// StateFromRate converts the rate parsed by go-github. It reports false when
// the response carried no rate limit headers.
func StateFromRate(rate github.Rate, now time.Time) (State, bool) {
	if rate.Limit == 0 {
		return State{}, false
	}
	return State{
		Limit:      rate.Limit,
		Remaining:  rate.Remaining,
		ResetAt:    rate.Reset.Time,
		LastUpdate: now,
	}, true
}

// Used returns the points consumed in the current window.
func (s State) Used() int {
	return s.Limit - s.Remaining
}

// IsCritical returns true if the quota is nearly exhausted.
func (s State) IsCritical() bool {
	return s.Remaining < ThresholdCritical
}

// IsLow returns true if the quota is below the warning threshold but not critical.
func (s State) IsLow() bool {
	return s.Remaining < ThresholdWarning && !s.IsCritical()
}

// TimeUntilReset returns the duration until the quota resets.
// Returns 0 if the reset time has already passed.
func (s State) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}
