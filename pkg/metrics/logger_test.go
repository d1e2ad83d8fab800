package metrics

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

var fixedClock = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelSilent, "SILENT"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		if tt.level.String() != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, tt.level.String())
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{" INFO ", LevelInfo},
		{"warning", LevelWarn},
		{"ERROR", LevelError},
		{"off", LevelSilent},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("JSON") != FormatJSON || ParseFormat("text") != FormatText || ParseFormat("") != FormatText {
		t.Error("ParseFormat mismatch")
	}
}

func TestLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithOutput(&buf), WithClock(fixedClock), WithName("negotiate"))

	logger.Info("suite selected", Fields{"suite": "TLS13_AES_128_GCM_SHA256", "policy": "server"})

	want := "03:04:05.000 INFO  [negotiate] suite selected policy=server suite=TLS13_AES_128_GCM_SHA256\n"
	if buf.String() != want {
		t.Errorf("got  %q\nwant %q", buf.String(), want)
	}
}

func TestLoggerTextQuotesSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithOutput(&buf))

	logger.Warn("failed", Fields{"error": errors.New("no shared cipher suite")})

	if !strings.Contains(buf.String(), `error="no shared cipher suite"`) {
		t.Errorf("value with spaces should be quoted: %s", buf.String())
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithOutput(&buf), WithFormat(FormatJSON), WithClock(fixedClock))

	logger.Named("engine").Error("negotiation failed", Fields{
		"error":   errors.New("boom"),
		"offered": 3,
	})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	checks := map[string]any{
		"level":   "ERROR",
		"msg":     "negotiation failed",
		"logger":  "engine",
		"error":   "boom",
		"offered": float64(3),
		"time":    "2026-01-02T03:04:05Z",
	}
	for k, want := range checks {
		if entry[k] != want {
			t.Errorf("%s = %v, want %v", k, entry[k], want)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithOutput(&buf), WithLevel(LevelWarn))

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown")

	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Errorf("expected 2 lines, got %d: %s", got, buf.String())
	}
	if strings.Contains(buf.String(), "hidden") {
		t.Error("filtered entries were written")
	}
}

func TestLoggerSilent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithOutput(&buf), WithLevel(LevelSilent))
	logger.Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("silent logger wrote %q", buf.String())
	}
	if NullLogger().Enabled(LevelError) {
		t.Error("NullLogger should be disabled at every level")
	}
}

func TestLoggerWithAndNamed(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(WithOutput(&buf), WithFields(Fields{"service": "suitekit"}))

	child := base.Named("negotiate").Named("suite").With(Fields{"negotiation_id": "abc"})
	child.Info("msg", Fields{"service": "override"})

	out := buf.String()
	for _, want := range []string{"[negotiate.suite]", "negotiation_id=abc", "service=override"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}

	buf.Reset()
	base.Info("parent")
	if strings.Contains(buf.String(), "negotiation_id") {
		t.Error("With must not leak fields into the parent")
	}
}

func TestLoggerColor(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(WithOutput(&buf), WithColor(true)).Error("red")
	if !strings.Contains(buf.String(), colorRed) || !strings.Contains(buf.String(), colorReset) {
		t.Errorf("expected ANSI color codes: %q", buf.String())
	}
}

func TestGlobalLogger(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	var buf bytes.Buffer
	SetLogger(TestLogger(&buf))
	GetLogger().Debug("via global")

	if !strings.Contains(buf.String(), "via global") {
		t.Error("global logger not replaced")
	}
}
