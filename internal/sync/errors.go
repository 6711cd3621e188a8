package sync

import (
	"context"
	"errors"
	"fmt"

	"chansync/internal/adapters"
	"chansync/pkg/models"
)

// FailureKind is the engine-level error taxonomy
type FailureKind string

const (
	FailureValidation    FailureKind = "validation"    // missing/insufficient fields, never retried
	FailureTransient     FailureKind = "transient"     // network/timeout/rate-limit, retried with backoff
	FailurePermanent     FailureKind = "permanent"     // auth revoked, listing rejected, needs reconfiguration
	FailureConflict      FailureKind = "conflict"      // bidirectional version clash, queued for resolution
	FailureConfiguration FailureKind = "configuration" // missing requirement/rule set, operator setup gap
)

// SyncError wraps any failure crossing the orchestrator boundary with its
// taxonomy kind and retryability
type SyncError struct {
	Kind      FailureKind
	Class     adapters.ErrorClass
	Retryable bool
	Err       error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s failure: %v", e.Kind, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// newValidationError builds the non-retryable failure for an invalid product
func newValidationError(result models.ChannelValidationResult) *SyncError {
	return &SyncError{
		Kind:      FailureValidation,
		Class:     adapters.ErrorClassValidationRejected,
		Retryable: false,
		Err:       fmt.Errorf("product not fit to publish on %s: %d error(s), missing %v", result.ChannelCode, len(result.Errors), result.MissingFields),
	}
}

// newConfigurationError flags an operator setup gap
func newConfigurationError(err error) *SyncError {
	return &SyncError{Kind: FailureConfiguration, Class: adapters.ErrorClassUnknown, Retryable: false, Err: err}
}

// classifyAdapterError maps an adapter failure onto the taxonomy. Timeouts
// and cancellations are unknown-outcome transients: the call is never assumed
// successful.
func classifyAdapterError(err error) *SyncError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &SyncError{Kind: FailureTransient, Class: adapters.ErrorClassUnknown, Retryable: true, Err: err}
	}
	var aerr *adapters.Error
	if errors.As(err, &aerr) {
		switch aerr.Class {
		case adapters.ErrorClassRateLimited:
			return &SyncError{Kind: FailureTransient, Class: aerr.Class, Retryable: true, Err: err}
		case adapters.ErrorClassValidationRejected, adapters.ErrorClassAuthExpired:
			return &SyncError{Kind: FailurePermanent, Class: aerr.Class, Retryable: false, Err: err}
		case adapters.ErrorClassNotFound:
			return &SyncError{Kind: FailurePermanent, Class: aerr.Class, Retryable: false, Err: err}
		}
	}
	return &SyncError{Kind: FailureTransient, Class: adapters.ErrorClassUnknown, Retryable: true, Err: err}
}
