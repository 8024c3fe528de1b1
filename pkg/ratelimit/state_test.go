package ratelimit

import (
	"testing"
	"time"

	"github.com/google/go-github/v57/github"
)

func TestStateFromRate(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	reset := now.Add(30 * time.Minute)

	state, ok := StateFromRate(github.Rate{
		Limit:     5000,
		Remaining: 4990,
		Reset:     github.Timestamp{Time: reset},
	}, now)
	if !ok {
		t.Fatal("expected state from populated rate")
	}

	if state.Limit != 5000 {
		t.Errorf("Limit = %d, want 5000", state.Limit)
	}
	if state.Remaining != 4990 {
		t.Errorf("Remaining = %d, want 4990", state.Remaining)
	}
	if state.Used() != 10 {
		t.Errorf("Used() = %d, want 10", state.Used())
	}
	if !state.ResetAt.Equal(reset) {
		t.Errorf("ResetAt = %v, want %v", state.ResetAt, reset)
	}
	if !state.LastUpdate.Equal(now) {
		t.Errorf("LastUpdate = %v, want %v", state.LastUpdate, now)
	}
}

func TestStateFromRate_NoHeaders(t *testing.T) {
	if _, ok := StateFromRate(github.Rate{}, time.Now()); ok {
		t.Error("expected no state from empty rate")
	}
}

func TestState_Thresholds(t *testing.T) {
	tests := []struct {
		name         string
		remaining    int
		wantCritical bool
		wantLow      bool
	}{
		{name: "healthy", remaining: 4000},
		{name: "at warning threshold", remaining: ThresholdWarning},
		{name: "just below warning threshold", remaining: ThresholdWarning - 1, wantLow: true},
		{name: "at critical threshold", remaining: ThresholdCritical, wantLow: true},
		{name: "just below critical threshold", remaining: ThresholdCritical - 1, wantCritical: true},
		{name: "exhausted", remaining: 0, wantCritical: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := State{Limit: 5000, Remaining: tt.remaining}

			if got := state.IsCritical(); got != tt.wantCritical {
				t.Errorf("IsCritical() = %v, want %v", got, tt.wantCritical)
			}
			if got := state.IsLow(); got != tt.wantLow {
				t.Errorf("IsLow() = %v, want %v", got, tt.wantLow)
			}
		})
	}
}

func TestState_TimeUntilReset(t *testing.T) {
	tests := []struct {
		name     string
		resetAt  time.Time
		expected time.Duration
		delta    time.Duration
	}{
		{
			name:     "reset in future",
			resetAt:  time.Now().Add(30 * time.Second),
			expected: 30 * time.Second,
			delta:    1 * time.Second,
		},
		{
			name:     "reset in past",
			resetAt:  time.Now().Add(-10 * time.Second),
			expected: 0,
			delta:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := State{ResetAt: tt.resetAt}.TimeUntilReset()

			diff := result - tt.expected
			if diff < 0 {
				diff = -diff
			}
			if diff > tt.delta {
				t.Errorf("TimeUntilReset() = %v, want %v (±%v)", result, tt.expected, tt.delta)
			}
		})
	}
}
