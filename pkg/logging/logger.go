// Package logging configures the zerolog logger shared by the resolver's
// components.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel is a configured minimum level.
type LogLevel string

const (
	// LevelDebug logs per-query detail and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs traversal milestones and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs recoverable problems and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs run failures only.
	LevelError LogLevel = "error"
)

var levels = map[LogLevel]zerolog.Level{
	LevelDebug: zerolog.DebugLevel,
	LevelInfo:  zerolog.InfoLevel,
	LevelWarn:  zerolog.WarnLevel,
	LevelError: zerolog.ErrorLevel,
}

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level written.
	Level LogLevel

	// Pretty writes uncolored console lines instead of JSON.
	Pretty bool

	// Output receives the log stream. Nil means os.Stderr, which keeps
	// stdout free for workflow commands.
	Output io.Writer
}

// DefaultConfig returns JSON logging at info level to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
	}
}

// Setup installs the global logger that NewLogger derives from and returns it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(toZerolog(cfg.Level))

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		// Runner logs do not render ANSI colors reliably.
		out = zerolog.ConsoleWriter{Out: out, NoColor: true}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return log.Logger
}

// ParseLevel validates a configured level name. "warning" is accepted as warn.
func ParseLevel(s string) (LogLevel, error) {
	level := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	if level == "warning" {
		level = LevelWarn
	}
	if _, ok := levels[level]; !ok {
		return "", fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
	}
	return level, nil
}

// LevelFromEnv returns LevelDebug when the runner has step debugging enabled
// (RUNNER_DEBUG=1), otherwise fallback.
func LevelFromEnv(getenv func(string) string, fallback LogLevel) LogLevel {
	if getenv("RUNNER_DEBUG") == "1" {
		return LevelDebug
	}
	return fallback
}

// toZerolog maps a level, falling back to info for unknown names.
func toZerolog(level LogLevel) zerolog.Level {
	if l, ok := levels[LogLevel(strings.ToLower(string(level)))]; ok {
		return l
	}
	return zerolog.InfoLevel
}

// NewLogger derives a logger tagged with component from the global logger.
// Call it after Setup; loggers created earlier keep the previous output.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// ForRepository derives a component logger that also carries the queried
// repository.
func ForRepository(component, owner, repository string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Str("owner", owner).
		Str("repository", repository).
		Logger()
}

// Log Level Guidelines:
//
// Debug: per-query detail
//   - Cursor pairs sent upstream
//   - Package counts and continuation flags per page
//   - Quota after each response
//
// Info: one line per traversal milestone
//   - Traversal start and completion with fetch and match counts
//   - Progress every Config.ProgressInterval fetches
//
// Warn: failed queries (the run fails right after), low quota, failed metric pushes
//
// Error: the run failed, quota nearly exhausted
//
// Context Fields:
//   - component: registry-client, traverser, action
//   - owner / repository: queried repository
//   - outer_cursor / inner_cursor: cursor pair of a query
//   - status: HTTP status code
//   - error_class: client, server, rate_limit, network, graphql, shape
//   - fetches, matches, duration: traversal totals
//   - remaining, limit, reset_at: API quota
