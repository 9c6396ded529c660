package interfaces

import (
	"context"
	"errors"
	"time"

	"mobilepay_ledger/internal/domain/entities"
)

var (
	ErrIntentNotFound = errors.New("payment intent not found")
	// ErrIntentExpired marks an intent that outlived its TTL without resolving.
	ErrIntentExpired = errors.New("payment intent expired")
	// ErrInvalidTransition is returned when a conditional write finds the
	// intent in a state the requested transition cannot start from.
	ErrInvalidTransition = errors.New("invalid intent state transition")
	// ErrAmountAlreadyBound is returned by Bind when a different amount is already set.
	ErrAmountAlreadyBound = errors.New("intent amount already bound")
	// ErrInitiationInProgress is returned by ClaimInitiation while another
	// caller holds an unexpired initiation lease.
	ErrInitiationInProgress = errors.New("payment prompt already being sent")
)

// IIntentRepository is the single authority for payment intent transitions.
//
// Lookups return a zero PaymentIntent (empty ID) and a nil error when the
// record does not exist, including after TTL reclamation.
//
// TryApply must be one atomic conditional write (applied == false and
// status == pending). It never reads then writes.
//
// ClaimInitiation takes the initiation lease on a created intent with one
// conditional write; Bind clears it. ReleaseInitiation drops the caller's own
// lease after a failed push and is a no-op once the lease changed hands.
type IIntentRepository interface {
	Create(ctx context.Context, intent entities.PaymentIntent) (entities.PaymentIntent, error)
	GetByID(ctx context.Context, id string) (entities.PaymentIntent, error)
	GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (entities.PaymentIntent, error)
	ClaimInitiation(ctx context.Context, id string, until, now time.Time) (entities.PaymentIntent, error)
	ReleaseInitiation(ctx context.Context, id string, until time.Time) error
	Bind(ctx context.Context, id string, binding entities.IntentBinding) (entities.PaymentIntent, error)
	TryApply(ctx context.Context, id string, attempt entities.ApplyAttempt) (entities.ApplyResult, error)
	EnrichReceipt(ctx context.Context, id string, attempt entities.ApplyAttempt) (entities.PaymentIntent, error)
	MarkFailed(ctx context.Context, id string, resultCode, resultDesc string) (entities.PaymentIntent, error)
}
