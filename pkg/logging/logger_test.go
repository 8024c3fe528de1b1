package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	return entry
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("Level = %q, want %q", cfg.Level, LevelInfo)
	}
	if cfg.Pretty {
		t.Error("Pretty should default to false")
	}
	if cfg.Output == nil {
		t.Error("Output should default to stderr")
	}
}

func TestSetup_JSONWithTimestamp(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Output: buf})

	logger := NewLogger("traverser")
	logger.Info().Int("fetches", 3).Msg("Versions traversal complete")

	entry := decodeLine(t, buf)
	if entry["component"] != "traverser" {
		t.Errorf("component = %v, want traverser", entry["component"])
	}
	if entry["fetches"] != float64(3) {
		t.Errorf("fetches = %v, want 3", entry["fetches"])
	}
	if entry["message"] != "Versions traversal complete" {
		t.Errorf("message = %v", entry["message"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected a timestamp field")
	}
}

func TestSetup_LevelFiltering(t *testing.T) {
	tests := []struct {
		level   LogLevel
		written []string
		dropped []string
	}{
		{level: LevelDebug, written: []string{"per-query", "milestone", "low quota", "run failed"}},
		{level: LevelInfo, written: []string{"milestone", "low quota", "run failed"}, dropped: []string{"per-query"}},
		{level: LevelWarn, written: []string{"low quota", "run failed"}, dropped: []string{"per-query", "milestone"}},
		{level: LevelError, written: []string{"run failed"}, dropped: []string{"per-query", "milestone", "low quota"}},
		{level: "bogus", written: []string{"milestone"}, dropped: []string{"per-query"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			buf := &bytes.Buffer{}
			Setup(Config{Level: tt.level, Output: buf})

			logger := NewLogger("test")
			logger.Debug().Msg("per-query")
			logger.Info().Msg("milestone")
			logger.Warn().Msg("low quota")
			logger.Error().Msg("run failed")

			output := buf.String()
			for _, msg := range tt.written {
				if !strings.Contains(output, msg) {
					t.Errorf("expected %q at level %s, got %q", msg, tt.level, output)
				}
			}
			for _, msg := range tt.dropped {
				if strings.Contains(output, msg) {
					t.Errorf("expected %q to be filtered at level %s", msg, tt.level)
				}
			}
		})
	}

	Setup(DefaultConfig())
}

func TestSetup_PrettyWithoutColor(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := Setup(Config{Level: LevelInfo, Pretty: true, Output: buf})

	logger.Info().Str("outer_cursor", "C2").Msg("pretty message")

	output := buf.String()
	if !strings.Contains(output, "pretty message") || !strings.Contains(output, "outer_cursor=C2") {
		t.Errorf("unexpected console output %q", output)
	}
	if strings.Contains(output, "\x1b[") {
		t.Errorf("expected no ANSI escapes, got %q", output)
	}
}

func TestSetup_NilOutputDefaultsToStderr(t *testing.T) {
	logger := Setup(Config{Level: LevelError})
	logger.Debug().Msg("dropped")
	Setup(DefaultConfig())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{input: "debug", want: LevelDebug},
		{input: " INFO ", want: LevelInfo},
		{input: "warning", want: LevelWarn},
		{input: "error", want: LevelError},
		{input: "trace", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseLevel(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLevel(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToZerolog(t *testing.T) {
	if got := toZerolog("WARN"); got != zerolog.WarnLevel {
		t.Errorf("toZerolog(WARN) = %v, want warn", got)
	}
	if got := toZerolog("unknown"); got != zerolog.InfoLevel {
		t.Errorf("toZerolog(unknown) = %v, want info", got)
	}
}

func TestLevelFromEnv(t *testing.T) {
	env := map[string]string{}
	getenv := func(k string) string { return env[k] }

	if got := LevelFromEnv(getenv, LevelWarn); got != LevelWarn {
		t.Errorf("LevelFromEnv() = %q, want %q", got, LevelWarn)
	}

	env["RUNNER_DEBUG"] = "1"
	if got := LevelFromEnv(getenv, LevelWarn); got != LevelDebug {
		t.Errorf("LevelFromEnv() with RUNNER_DEBUG = %q, want %q", got, LevelDebug)
	}
}

func TestForRepository(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Output: buf})

	logger := ForRepository("registry-client", "octo-org", "octo-repo")
	logger.Info().Msg("query")

	entry := decodeLine(t, buf)
	if entry["component"] != "registry-client" || entry["owner"] != "octo-org" || entry["repository"] != "octo-repo" {
		t.Errorf("unexpected fields %v", entry)
	}

	Setup(DefaultConfig())
}
