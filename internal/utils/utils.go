package utils

import (
	"context"
	"strings"
	"time"
)

// sleep starts a timer for d. It returns the channel that fires when d
// elapses and a stop function that releases the timer.
var sleep = func(d time.Duration) (<-chan time.Time, func() bool) {
	t := time.NewTimer(d)
	return t.C, t.Stop
}

// WaitFor blocks for d or until ctx is done. Non-positive durations return at once.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	elapsed, stop := sleep(d)

	select {
	case <-ctx.Done():
		stop()
		return ctx.Err()
	case <-elapsed:
		return nil
	}
}

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
