package internal

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

func TestLoggerWithTagsComponent(t *testing.T) {
	buf := captureLog(t)
	NewLogger(LogLevelInfo).With("Planner").Info("using template %s", "market-research")

	if got := strings.TrimSpace(buf.String()); got != "[INFO] [Planner] using template market-research" {
		t.Errorf("unexpected log line %q", got)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	buf := captureLog(t)
	l := NewLogger(LogLevelWarn)
	l.Info("hidden")
	l.Debug("hidden")
	l.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("lines below level were written: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[WARN] shown") {
		t.Errorf("warn line missing: %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"ERROR": LogLevelError,
		"debug": LogLevelDebug,
		"TRACE": LogLevelTrace,
		"":      LogLevelInfo,
		"LOUD":  LogLevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("a  b\n c", 10); got != "a b c" {
		t.Errorf("Preview collapsed whitespace wrong: %q", got)
	}
	if got := Preview("abcdefghij", 4); got != "abcd..." {
		t.Errorf("Preview truncation wrong: %q", got)
	}
}
