package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{" warn ", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %d; want %d", tt.in, got, tt.want)
		}
	}
}

func TestLoggerThreshold(t *testing.T) {
	var out, errOut bytes.Buffer
	l := newLogger(LevelWarn, &out, &errOut)

	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("shown %d", 1)
	l.Error("always %s", "shown")

	if strings.Contains(out.String(), "hidden") {
		t.Errorf("messages below threshold were written: %q", out.String())
	}
	if !strings.Contains(out.String(), "shown 1") {
		t.Errorf("warn message missing: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "always shown") {
		t.Errorf("error message missing from stderr writer: %q", errOut.String())
	}
}
