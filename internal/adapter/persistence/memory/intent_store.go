package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// IntentStore keeps payment intents in process memory. Every transition runs
// under one lock, which gives it the same compare-and-set semantics as the
// DynamoDB conditional writes.
type IntentStore struct {
	mu         sync.Mutex
	byID       map[string]entities.PaymentIntent
	byCheckout map[string]string
	now        func() time.Time
}

var _ interfaces.IIntentRepository = (*IntentStore)(nil)

func NewIntentStore() *IntentStore {
	return &IntentStore{
		byID:       make(map[string]entities.PaymentIntent),
		byCheckout: make(map[string]string),
		now:        time.Now,
	}
}

func (s *IntentStore) Create(_ context.Context, intent entities.PaymentIntent) (entities.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[intent.ID]; exists {
		return entities.PaymentIntent{}, fmt.Errorf("intent %s already exists", intent.ID)
	}
	s.byID[intent.ID] = clone(intent)
	if intent.CheckoutRequestID != "" {
		s.byCheckout[intent.CheckoutRequestID] = intent.ID
	}
	return intent, nil
}

func (s *IntentStore) GetByID(_ context.Context, id string) (entities.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.byID[id]), nil
}

func (s *IntentStore) GetByCheckoutRequestID(_ context.Context, checkoutRequestID string) (entities.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byCheckout[checkoutRequestID]
	if !ok {
		return entities.PaymentIntent{}, nil
	}
	return clone(s.byID[id]), nil
}

func (s *IntentStore) ClaimInitiation(_ context.Context, id string, until, now time.Time) (entities.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[id]
	if !ok {
		return entities.PaymentIntent{}, interfaces.ErrIntentNotFound
	}
	switch {
	case cur.Status != entities.IntentStatusCreated:
		return clone(cur), interfaces.ErrInvalidTransition
	case cur.Expired(now):
		return clone(cur), interfaces.ErrIntentExpired
	case cur.InitiationHeld(now):
		return clone(cur), interfaces.ErrInitiationInProgress
	}

	lease := until
	cur.InitiatingUntil = &lease
	cur.UpdatedAt = now
	s.byID[id] = cur
	return clone(cur), nil
}

func (s *IntentStore) ReleaseInitiation(_ context.Context, id string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[id]
	if !ok || cur.Status != entities.IntentStatusCreated || cur.InitiatingUntil == nil || !cur.InitiatingUntil.Equal(until) {
		return nil
	}
	cur.InitiatingUntil = nil
	s.byID[id] = cur
	return nil
}

func (s *IntentStore) Bind(_ context.Context, id string, b entities.IntentBinding) (entities.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[id]
	if !ok {
		return entities.PaymentIntent{}, interfaces.ErrIntentNotFound
	}
	switch {
	case cur.Amount != nil && *cur.Amount != b.Amount:
		return clone(cur), interfaces.ErrAmountAlreadyBound
	case cur.Status != entities.IntentStatusCreated:
		return clone(cur), interfaces.ErrInvalidTransition
	case cur.Expired(b.At):
		return clone(cur), interfaces.ErrIntentExpired
	}

	amount := b.Amount
	cur.Amount = &amount
	cur.Phone = b.Phone
	cur.MerchantRequestID = b.MerchantRequestID
	cur.CheckoutRequestID = b.CheckoutRequestID
	cur.InitiatingUntil = nil
	cur.Status = entities.IntentStatusPending
	cur.UpdatedAt = b.At
	s.byID[id] = cur
	s.byCheckout[b.CheckoutRequestID] = id
	return clone(cur), nil
}

func (s *IntentStore) TryApply(_ context.Context, id string, a entities.ApplyAttempt) (entities.ApplyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[id]
	if !ok {
		return entities.ApplyResult{}, interfaces.ErrIntentNotFound
	}
	if cur.Applied || cur.Status != entities.IntentStatusPending {
		return entities.ApplyResult{Intent: clone(cur), Won: false}, nil
	}

	at := a.At
	cur.Applied = true
	cur.Status = entities.IntentStatusCompleted
	cur.ConfirmationMethod = a.Method
	cur.AppliedAt = &at
	cur.UpdatedAt = at
	cur.ExpiresAt = time.Time{}
	if a.Receipt != "" {
		cur.Receipt = a.Receipt
	}
	if a.Method == entities.ConfirmationCallback {
		cur.CallbackAt = &at
	}
	if a.ResultCode != "" {
		cur.ResultCode = a.ResultCode
	}
	if a.ResultDesc != "" {
		cur.ResultDesc = a.ResultDesc
	}
	s.byID[id] = cur
	return entities.ApplyResult{Intent: clone(cur), Won: true}, nil
}

func (s *IntentStore) EnrichReceipt(_ context.Context, id string, a entities.ApplyAttempt) (entities.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[id]
	if !ok {
		return entities.PaymentIntent{}, interfaces.ErrIntentNotFound
	}
	if !cur.Applied {
		return clone(cur), interfaces.ErrInvalidTransition
	}
	if cur.Receipt != "" {
		return clone(cur), nil
	}

	at := a.At
	cur.Receipt = a.Receipt
	cur.CallbackAt = &at
	cur.ResultCode = a.ResultCode
	cur.ResultDesc = a.ResultDesc
	cur.UpdatedAt = at
	s.byID[id] = cur
	return clone(cur), nil
}

func (s *IntentStore) MarkFailed(_ context.Context, id string, resultCode, resultDesc string) (entities.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[id]
	if !ok {
		return entities.PaymentIntent{}, interfaces.ErrIntentNotFound
	}
	if cur.Applied || cur.Status != entities.IntentStatusPending {
		return clone(cur), interfaces.ErrInvalidTransition
	}

	cur.Status = entities.IntentStatusFailed
	cur.ResultCode = resultCode
	cur.ResultDesc = resultDesc
	cur.UpdatedAt = s.now()
	s.byID[id] = cur
	return clone(cur), nil
}

// StartReaper removes unresolved intents past their expiry, standing in for
// the DynamoDB TTL sweeper.
func (s *IntentStore) StartReaper(ctx context.Context, every time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Reap(); n > 0 {
					logger.Info("reaped expired intents", zap.Int("count", n))
				}
			}
		}
	}()
}

// Reap deletes expired unresolved intents and returns how many were removed.
func (s *IntentStore) Reap() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, in := range s.byID {
		if !in.Expired(now) {
			continue
		}
		delete(s.byID, id)
		if in.CheckoutRequestID != "" {
			delete(s.byCheckout, in.CheckoutRequestID)
		}
		removed++
	}
	return removed
}

func clone(in entities.PaymentIntent) entities.PaymentIntent {
	out := in
	if in.Amount != nil {
		v := *in.Amount
		out.Amount = &v
	}
	if in.AppliedAt != nil {
		v := *in.AppliedAt
		out.AppliedAt = &v
	}
	if in.CallbackAt != nil {
		v := *in.CallbackAt
		out.CallbackAt = &v
	}
	if in.InitiatingUntil != nil {
		v := *in.InitiatingUntil
		out.InitiatingUntil = &v
	}
	if in.Snapshot != nil {
		out.Snapshot = append([]byte(nil), in.Snapshot...)
	}
	return out
}
