package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"chansync/internal/adapters"
)

func TestClassifyAdapterError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedKind  FailureKind
		expectedRetry bool
	}{
		{
			name:          "deadline is an unknown-outcome transient",
			err:           context.DeadlineExceeded,
			expectedKind:  FailureTransient,
			expectedRetry: true,
		},
		{
			name:          "cancellation is an unknown-outcome transient",
			err:           context.Canceled,
			expectedKind:  FailureTransient,
			expectedRetry: true,
		},
		{
			name:          "rate limit retries",
			err:           adapters.NewError(adapters.ErrorClassRateLimited, "429 from channel", nil),
			expectedKind:  FailureTransient,
			expectedRetry: true,
		},
		{
			name:          "channel rejection is permanent",
			err:           adapters.NewError(adapters.ErrorClassValidationRejected, "listing rejected", nil),
			expectedKind:  FailurePermanent,
			expectedRetry: false,
		},
		{
			name:          "expired auth is permanent",
			err:           adapters.NewError(adapters.ErrorClassAuthExpired, "token revoked", nil),
			expectedKind:  FailurePermanent,
			expectedRetry: false,
		},
		{
			name:          "missing listing is permanent",
			err:           adapters.NewError(adapters.ErrorClassNotFound, "listing gone", nil),
			expectedKind:  FailurePermanent,
			expectedRetry: false,
		},
		{
			name:          "plain network error retries",
			err:           errors.New("connection reset by peer"),
			expectedKind:  FailureTransient,
			expectedRetry: true,
		},
		{
			name:          "wrapped adapter error keeps its class",
			err:           fmt.Errorf("push failed: %w", adapters.NewError(adapters.ErrorClassAuthExpired, "token revoked", nil)),
			expectedKind:  FailurePermanent,
			expectedRetry: false,
		},
	}

	for _, test := range tests {
		got := classifyAdapterError(test.err)
		if got.Kind != test.expectedKind {
			t.Errorf("%s: Kind = %s, expected %s", test.name, got.Kind, test.expectedKind)
		}
		if got.Retryable != test.expectedRetry {
			t.Errorf("%s: Retryable = %v, expected %v", test.name, got.Retryable, test.expectedRetry)
		}
		if !errors.Is(got, test.err) {
			t.Errorf("%s: classified error should wrap the original", test.name)
		}
	}
}
