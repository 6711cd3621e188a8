package sync

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retry policy defaults for transient failures
const (
	DefaultMaxRetries      = 3
	defaultInitialInterval = 30 * time.Second
	defaultMaxInterval     = 15 * time.Minute
)

// nextRetryDelay returns the jittered exponential delay before retry number
// retryCount (0-based)
func nextRetryDelay(retryCount int) time.Duration {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = defaultInitialInterval
	bo.MaxInterval = defaultMaxInterval
	bo.RandomizationFactor = 0.25
	bo.Multiplier = 2
	bo.MaxElapsedTime = 0 // attempt count is bounded by the caller, not time

	var d time.Duration
	for i := 0; i <= retryCount; i++ {
		d = bo.NextBackOff()
	}
	return d
}
