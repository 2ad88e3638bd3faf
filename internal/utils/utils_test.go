package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "non-positive limit", input: "describe your last project", limit: 0, expect: ""},
		{name: "fits", input: "I led a team", limit: 20, expect: "I led a team"},
		{name: "truncated", input: "I migrated billing to Go", limit: 11, expect: "I migrated ..."},
		{name: "trimmed before counting", input: "  hello  ", limit: 5, expect: "hello"},
		{name: "counts runes", input: "специалист", limit: 4, expect: "спец..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestWaitForUsesSleep(t *testing.T) {
	original := sleep
	defer func() { sleep = original }()

	var slept time.Duration
	sleep = func(d time.Duration) (<-chan time.Time, func() bool) {
		slept = d
		fired := make(chan time.Time, 1)
		fired <- time.Now()
		return fired, func() bool { return false }
	}

	if err := WaitFor(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slept != 2*time.Second {
		t.Fatalf("expected to sleep 2s, slept %s", slept)
	}
}

func TestWaitForStopsTimerOnCancel(t *testing.T) {
	original := sleep
	defer func() { sleep = original }()

	stopped := 0
	sleep = func(time.Duration) (<-chan time.Time, func() bool) {
		return make(chan time.Time), func() bool {
			stopped++
			return true
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if stopped != 1 {
		t.Fatalf("expected the timer to be stopped once, got %d", stopped)
	}
}

func TestWaitForRealTimer(t *testing.T) {
	if err := WaitFor(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitForZeroDuration(t *testing.T) {
	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
