package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Purpose tags what a payment intent pays for.
//
// The set is closed: every switch over Purpose must handle all four variants
// and fail loudly (ErrUnknownPurpose) on anything else.
type Purpose string

const (
	PurposeContribution     Purpose = "contribution"
	PurposePurchase         Purpose = "purchase"
	PurposeWithdrawalPayout Purpose = "withdrawal_payout"
	PurposeWithdrawalRefund Purpose = "withdrawal_refund"
)

var ErrUnknownPurpose = errors.New("unknown intent purpose")

func ParsePurpose(s string) (Purpose, error) {
	switch p := Purpose(s); p {
	case PurposeContribution, PurposePurchase, PurposeWithdrawalPayout, PurposeWithdrawalRefund:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPurpose, s)
	}
}

// IntentStatus is the lifecycle state of a payment intent.
//
//	created --bind--> pending --tryApply--> completed
//	                  pending --reject----> failed
//
// completed and failed are terminal. While a push is in flight a created
// intent carries an initiation lease (InitiatingUntil) so only one caller
// can send a prompt for it.
type IntentStatus string

const (
	IntentStatusCreated   IntentStatus = "created"
	IntentStatusPending   IntentStatus = "pending"
	IntentStatusCompleted IntentStatus = "completed"
	IntentStatusFailed    IntentStatus = "failed"
)

var ErrUnknownIntentStatus = errors.New("unknown intent status")

func ParseIntentStatus(s string) (IntentStatus, error) {
	switch st := IntentStatus(s); st {
	case IntentStatusCreated, IntentStatusPending, IntentStatusCompleted, IntentStatusFailed:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownIntentStatus, s)
	}
}

func (s IntentStatus) IsTerminal() bool {
	switch s {
	case IntentStatusCompleted, IntentStatusFailed:
		return true
	case IntentStatusCreated, IntentStatusPending:
		return false
	default:
		return false
	}
}

// ConfirmationMethod records which reconciliation path confirmed the payment.
type ConfirmationMethod string

const (
	ConfirmationCallback    ConfirmationMethod = "callback"
	ConfirmationFallback    ConfirmationMethod = "fallback"
	ConfirmationManualCheck ConfirmationMethod = "manual_check"
)

var ErrUnknownConfirmationMethod = errors.New("unknown confirmation method")

func ParseConfirmationMethod(s string) (ConfirmationMethod, error) {
	switch m := ConfirmationMethod(s); m {
	case ConfirmationCallback, ConfirmationFallback, ConfirmationManualCheck:
		return m, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownConfirmationMethod, s)
	}
}

// PaymentIntent is one attempted money movement over the push-payment rail.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (checkout_request_id-index): checkout_request_id
//   - TTL attribute: expires_at (epoch seconds), removed once the intent completes
//
// Amount is nil until bound and never changes afterwards. Applied is the
// idempotency guard: Applied implies Status == completed.
type PaymentIntent struct {
	ID         string          `json:"id"`
	Purpose    Purpose         `json:"purpose"`
	SubjectRef string          `json:"subject_ref,omitempty"`
	Snapshot   json.RawMessage `json:"snapshot,omitempty"`
	UserID     string          `json:"user_id"`
	Amount     *int64          `json:"amount,omitempty"`
	Currency   string          `json:"currency"`
	Route      string          `json:"route"`
	Phone      string          `json:"phone,omitempty"`
	Status     IntentStatus    `json:"status"`

	MerchantRequestID string `json:"merchant_request_id,omitempty"`
	CheckoutRequestID string `json:"checkout_request_id,omitempty"`

	Receipt            string             `json:"receipt,omitempty"`
	ResultCode         string             `json:"result_code,omitempty"`
	ResultDesc         string             `json:"result_desc,omitempty"`
	ConfirmationMethod ConfirmationMethod `json:"confirmation_method,omitempty"`
	Applied            bool               `json:"applied"`
	AppliedAt          *time.Time         `json:"applied_at,omitempty"`
	CallbackAt         *time.Time         `json:"callback_at,omitempty"`
	InitiatingUntil    *time.Time         `json:"initiating_until,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether an unresolved intent outlived its TTL.
// Terminal intents never expire in this sense.
func (i PaymentIntent) Expired(now time.Time) bool {
	if i.Status.IsTerminal() || i.ExpiresAt.IsZero() {
		return false
	}
	return now.After(i.ExpiresAt)
}

// InitiationHeld reports whether another caller's push is still in flight.
func (i PaymentIntent) InitiationHeld(now time.Time) bool {
	return i.InitiatingUntil != nil && now.Before(*i.InitiatingUntil)
}

func (i PaymentIntent) AmountValue() int64 {
	if i.Amount == nil {
		return 0
	}
	return *i.Amount
}

// CartSnapshot decodes the priced line items captured at checkout.
func (i PaymentIntent) CartSnapshot() (CartSnapshot, error) {
	var s CartSnapshot
	if len(i.Snapshot) == 0 {
		return s, errors.New("intent has no cart snapshot")
	}
	if err := json.Unmarshal(i.Snapshot, &s); err != nil {
		return s, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return s, nil
}

// ApplyResult is returned by the store's apply-once guard. Won is true only
// for the single caller whose conditional write flipped Applied.
type ApplyResult struct {
	Intent PaymentIntent
	Won    bool
}

// IntentBinding carries what push initiation fixes on an intent.
type IntentBinding struct {
	Amount            int64
	Phone             string
	MerchantRequestID string
	CheckoutRequestID string
	At                time.Time
}

// ApplyAttempt is one confirmation path's claim that the payment succeeded.
// Receipt is only ever supplied by the callback path.
type ApplyAttempt struct {
	Receipt    string
	Method     ConfirmationMethod
	ResultCode string
	ResultDesc string
	At         time.Time
}
