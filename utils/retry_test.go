package utils

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	var out bytes.Buffer
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: newLogger(LevelInfo, &out, &out)}

	calls := 0
	err := r.Do("flaky", func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
	if !bytes.Contains(out.Bytes(), []byte("attempt 2/3")) {
		t.Errorf("expected a warning for attempt 2, got %q", out.String())
	}
}

func TestRetryWrapsLastError(t *testing.T) {
	sentinel := errors.New("boom")
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond}

	err := r.Do("always fails", func() error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
}

func TestRetryZeroAttemptsStillRunsOnce(t *testing.T) {
	r := &RetryConfig{}
	calls := 0
	_ = r.Do("once", func() error { calls++; return nil })
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}
