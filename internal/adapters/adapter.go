package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"chansync/pkg/models"

	"github.com/shopspring/decimal"
)

// ErrorClass is the machine-readable failure category reported by an adapter
type ErrorClass string

const (
	ErrorClassRateLimited       ErrorClass = "rate_limited"
	ErrorClassValidationRejected ErrorClass = "validation_rejected"
	ErrorClassAuthExpired       ErrorClass = "auth_expired"
	ErrorClassNotFound          ErrorClass = "not_found"
	ErrorClassUnknown           ErrorClass = "unknown"
)

// Error is a classified adapter failure
type Error struct {
	Class   ErrorClass
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("adapter %s: %s: %v", e.Class, e.Message, e.Cause)
	}
	return fmt.Sprintf("adapter %s: %s", e.Class, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a classified adapter error
func NewError(class ErrorClass, message string, cause error) *Error {
	return &Error{Class: class, Message: message, Cause: cause}
}

// Result is the outcome of a successful push or delete call
type Result struct {
	ExternalID         string              `json:"external_id"`
	ExternalAttributes models.AttributeBag `json:"external_attributes,omitempty"`
	RemoteVersion      int64               `json:"remote_version"`
	RemoteUpdatedAt    time.Time           `json:"remote_updated_at"`
	RemoteStatus       models.RemoteStatusDetail `json:"remote_status"`
	Raw                json.RawMessage     `json:"raw,omitempty"`
}

// RemoteSnapshot is the channel-side listing state returned by a pull
type RemoteSnapshot struct {
	ExternalID      string                    `json:"external_id"`
	Price           decimal.Decimal           `json:"price"`
	Stock           int                       `json:"stock"`
	RemoteStatus    models.RemoteStatusDetail `json:"remote_status"`
	RemoteVersion   int64                     `json:"remote_version"`
	RemoteUpdatedAt time.Time                 `json:"remote_updated_at"`
	Deleted         bool                      `json:"deleted"`
	Suppressed      bool                      `json:"suppressed"`
	Raw             json.RawMessage           `json:"raw,omitempty"`
}

// Adapter is the uniform per-marketplace contract. Implementations translate
// these calls into the marketplace's actual API and live outside this core;
// they must honor ctx cancellation and classify every failure as an *Error.
type Adapter interface {
	// Push creates or updates the channel listing from the product snapshot.
	Push(ctx context.Context, mapping *models.Mapping, product *models.ProductSnapshot) (*Result, error)
	// Pull fetches the current remote listing state.
	Pull(ctx context.Context, mapping *models.Mapping) (*RemoteSnapshot, error)
	// Delete removes or deactivates the channel listing.
	Delete(ctx context.Context, mapping *models.Mapping) (*Result, error)
}
