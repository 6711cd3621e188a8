package sync

import (
	"testing"
	"time"
)

func TestNextRetryDelayGrows(t *testing.T) {
	// Jitter is 25%, so compare against the widened bounds of each step
	expectedBase := []time.Duration{
		30 * time.Second,
		60 * time.Second,
		120 * time.Second,
		240 * time.Second,
	}

	for attempt, base := range expectedBase {
		min := time.Duration(float64(base) * 0.70)
		max := time.Duration(float64(base) * 1.30)
		got := nextRetryDelay(attempt)
		if got < min || got > max {
			t.Errorf("nextRetryDelay(%d) = %v, expected within [%v, %v]", attempt, got, min, max)
		}
	}
}

func TestNextRetryDelayIsCapped(t *testing.T) {
	cap := time.Duration(float64(defaultMaxInterval) * 1.30)
	for attempt := 10; attempt < 14; attempt++ {
		if got := nextRetryDelay(attempt); got > cap {
			t.Errorf("nextRetryDelay(%d) = %v, expected at most %v", attempt, got, cap)
		}
	}
}
