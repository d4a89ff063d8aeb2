package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestMakeDefaults(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := Make(buf)

	if got := logger.Level(); got != DefaultLevel {
		t.Errorf("Expected level %s, got %s", DefaultLevel, got)
	}

	if got := logger.Format(); got != DefaultFormat {
		t.Errorf("Expected format %s, got %s", DefaultFormat, got)
	}

	logger.Info("hello")

	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("Expected output to contain message, got %q", buf.String())
	}
}

func TestZeroLoggerDiscards(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.Info("dropped")
	logger.Error("dropped")
}

func TestLevelFiltering(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := Make(buf, WithLevel(LevelWarn))

	logger.Debug("quiet")
	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("Expected messages below warn to be dropped, got %q", out)
	}

	if !strings.Contains(out, "loud") {
		t.Errorf("Expected warn message in output, got %q", out)
	}
}

func TestTraceLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := Make(buf, WithLevel(LevelTrace))

	logger.Trace("fine grained")

	out := buf.String()
	if !strings.Contains(out, "TRACE") {
		t.Errorf("Expected level TRACE in output, got %q", out)
	}

	if strings.Contains(out, "DEBUG-4") {
		t.Errorf("Expected slog rendition to be rewritten, got %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := Make(buf, WithFormat(FormatJSON))

	logger.Info("structured", slog.Int("n", 42))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("Failed to decode output: %v", err)
	}

	if rec["msg"] != "structured" {
		t.Errorf("Expected msg field, got %v", rec)
	}

	if rec["n"] != float64(42) {
		t.Errorf("Expected n=42, got %v", rec["n"])
	}
}

func TestWrapOverrides(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := Make(buf, WithLevel(LevelError))

	wrapped := logger.Wrap(WithLevel(LevelDebug))
	if got := wrapped.Level(); got != LevelDebug {
		t.Errorf("Expected wrapped level debug, got %s", got)
	}

	// The original is unchanged.
	if got := logger.Level(); got != LevelError {
		t.Errorf("Expected original level error, got %s", got)
	}
}

func TestWithAttrs(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := Make(buf).With(slog.String("component", "engine"))

	logger.Info("attached")

	if !strings.Contains(buf.String(), "component=engine") {
		t.Errorf("Expected attribute in output, got %q", buf.String())
	}
}

func TestTimeLayoutNone(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := Make(buf, WithTimeLayout("none"))

	logger.Info("timeless")

	if strings.Contains(buf.String(), "time=") {
		t.Errorf("Expected no timestamp, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if got := ParseFormat("JSON"); got != FormatJSON {
		t.Errorf("Expected json, got %s", got)
	}

	if got := ParseFormat("anything else"); got != FormatText {
		t.Errorf("Expected text fallback, got %s", got)
	}
}

func TestLevelStrings(t *testing.T) {
	want := []string{"trace", "debug", "info", "warn", "error"}

	var got []string
	for s := range Levels() {
		got = append(got, s)
	}

	if len(got) != len(want) {
		t.Fatalf("Expected %d levels, got %v", len(want), got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Level %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	if got := makeFormatTimeFunc("RFC3339")(ts); got != "2024-03-01T12:30:00Z" {
		t.Errorf("Expected RFC3339 rendition, got %q", got)
	}

	if got := makeFormatTimeFunc("2006/01/02")(ts); got != "2024/03/01" {
		t.Errorf("Expected custom layout rendition, got %q", got)
	}

	if got := makeFormatTimeFunc("  ")(ts); got != "" {
		t.Errorf("Expected empty layout to disable timestamps, got %q", got)
	}
}

func TestPrettyTextHandler(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := Make(buf, WithPretty(true), WithLevel(LevelDebug))

	logger.Debug("colored", slog.Bool("ok", true))

	out := buf.String()
	if !strings.Contains(out, "colored") || !strings.Contains(out, "\033[") {
		t.Errorf("Expected colorized output, got %q", out)
	}
}

func TestPrettyJSONHandler(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := Make(buf, WithPretty(true), WithFormat(FormatJSON))

	logger.Info("multiline")

	out := buf.String()
	if !strings.HasPrefix(out, "{\n") || !strings.Contains(out, "multiline") {
		t.Errorf("Expected multiline JSON-style output, got %q", out)
	}
}
