package interfaces

import (
	"context"
	"time"
)

type LedgerEventType string

const (
	LedgerEventIntentApplied      LedgerEventType = "intent.applied"
	LedgerEventIntentFailed       LedgerEventType = "intent.failed"
	LedgerEventApplyFailed        LedgerEventType = "intent.apply_failed"
	LedgerEventWithdrawalApproved LedgerEventType = "withdrawal.approved"
)

type LedgerEvent struct {
	Type       LedgerEventType `json:"type"`
	IntentID   string          `json:"intent_id,omitempty"`
	Purpose    string          `json:"purpose,omitempty"`
	SubjectRef string          `json:"subject_ref,omitempty"`
	UserID     string          `json:"user_id"`
	Amount     int64           `json:"amount"`
	Method     string          `json:"method,omitempty"`
	Receipt    string          `json:"receipt,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ILedgerEventPublisher announces ledger effects to downstream consumers.
type ILedgerEventPublisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
}

// ICallbackArchive keeps raw gateway callback bodies for audit.
type ICallbackArchive interface {
	Store(ctx context.Context, key string, raw []byte) error
}

// IReconcileScheduler starts the fallback poll for a freshly pushed intent.
type IReconcileScheduler interface {
	Schedule(ctx context.Context, intentID string) error
}
