package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase/interfaces"
)

func seedPending(t *testing.T, s *IntentStore, id string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()
	if _, err := s.Create(ctx, entities.PaymentIntent{
		ID:        id,
		Purpose:   entities.PurposeContribution,
		UserID:    "user-1",
		Status:    entities.IntentStatusCreated,
		ExpiresAt: expiresAt,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Bind(ctx, id, entities.IntentBinding{
		Amount:            1000,
		Phone:             "254712345678",
		CheckoutRequestID: "ws_CO_" + id,
		At:                time.Now(),
	}); err != nil {
		t.Fatalf("bind: %v", err)
	}
}

func TestIntentStore_TryApplyExactlyOnce(t *testing.T) {
	s := NewIntentStore()
	seedPending(t, s, "int-1", time.Now().Add(time.Hour))

	methods := []entities.ConfirmationMethod{
		entities.ConfirmationCallback,
		entities.ConfirmationFallback,
		entities.ConfirmationManualCheck,
	}

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := s.TryApply(context.Background(), "int-1", entities.ApplyAttempt{
				Method: methods[i%len(methods)],
				At:     time.Now(),
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if res.Won {
				wins.Add(1)
			}
			if !res.Intent.Applied || res.Intent.Status != entities.IntentStatusCompleted {
				t.Errorf("every caller must observe the applied intent, got %+v", res.Intent)
			}
		}(i)
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins.Load())
	}
}

func TestIntentStore_Bind(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a second bind", func(t *testing.T) {
		s := NewIntentStore()
		seedPending(t, s, "int-1", time.Now().Add(time.Hour))

		_, err := s.Bind(ctx, "int-1", entities.IntentBinding{Amount: 1000, At: time.Now()})
		if !errors.Is(err, interfaces.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("rejects a different pre-bound amount", func(t *testing.T) {
		s := NewIntentStore()
		amount := int64(700)
		if _, err := s.Create(ctx, entities.PaymentIntent{ID: "int-2", Status: entities.IntentStatusCreated, Amount: &amount}); err != nil {
			t.Fatalf("create: %v", err)
		}
		_, err := s.Bind(ctx, "int-2", entities.IntentBinding{Amount: 500, At: time.Now()})
		if !errors.Is(err, interfaces.ErrAmountAlreadyBound) {
			t.Fatalf("expected ErrAmountAlreadyBound, got %v", err)
		}
	})

	t.Run("rejects an expired intent", func(t *testing.T) {
		s := NewIntentStore()
		if _, err := s.Create(ctx, entities.PaymentIntent{ID: "int-3", Status: entities.IntentStatusCreated, ExpiresAt: time.Now().Add(-time.Minute)}); err != nil {
			t.Fatalf("create: %v", err)
		}
		_, err := s.Bind(ctx, "int-3", entities.IntentBinding{Amount: 500, At: time.Now()})
		if !errors.Is(err, interfaces.ErrIntentExpired) {
			t.Fatalf("expected ErrIntentExpired, got %v", err)
		}
	})
}

func TestIntentStore_ClaimInitiation(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("one concurrent claimer wins", func(t *testing.T) {
		s := NewIntentStore()
		if _, err := s.Create(ctx, entities.PaymentIntent{ID: "int-1", Status: entities.IntentStatusCreated, ExpiresAt: now.Add(time.Hour)}); err != nil {
			t.Fatalf("create: %v", err)
		}

		var wins, held int32
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.ClaimInitiation(ctx, "int-1", now.Add(time.Minute), now)
				switch {
				case err == nil:
					atomic.AddInt32(&wins, 1)
				case errors.Is(err, interfaces.ErrInitiationInProgress):
					atomic.AddInt32(&held, 1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()
		if wins != 1 || held != 15 {
			t.Fatalf("expected one winner, got wins=%d held=%d", wins, held)
		}
	})

	t.Run("lapsed or released lease can be retaken", func(t *testing.T) {
		s := NewIntentStore()
		if _, err := s.Create(ctx, entities.PaymentIntent{ID: "int-2", Status: entities.IntentStatusCreated, ExpiresAt: now.Add(time.Hour)}); err != nil {
			t.Fatalf("create: %v", err)
		}
		first := now.Add(time.Minute)
		if _, err := s.ClaimInitiation(ctx, "int-2", first, now); err != nil {
			t.Fatalf("claim: %v", err)
		}
		if _, err := s.ClaimInitiation(ctx, "int-2", first.Add(time.Minute), first.Add(time.Second)); err != nil {
			t.Fatalf("claim after lapse: %v", err)
		}
		// the first holder no longer owns the lease
		if err := s.ReleaseInitiation(ctx, "int-2", first); err != nil {
			t.Fatalf("stale release: %v", err)
		}
		if _, err := s.ClaimInitiation(ctx, "int-2", first.Add(2*time.Minute), first.Add(2*time.Second)); !errors.Is(err, interfaces.ErrInitiationInProgress) {
			t.Fatalf("stale release dropped the live lease: %v", err)
		}
	})

	t.Run("bound intent cannot be claimed", func(t *testing.T) {
		s := NewIntentStore()
		if _, err := s.Create(ctx, entities.PaymentIntent{ID: "int-3", Status: entities.IntentStatusCreated, ExpiresAt: now.Add(time.Hour)}); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := s.ClaimInitiation(ctx, "int-3", now.Add(time.Minute), now); err != nil {
			t.Fatalf("claim: %v", err)
		}
		if _, err := s.Bind(ctx, "int-3", entities.IntentBinding{Amount: 1000, CheckoutRequestID: "ws_CO_3", At: now}); err != nil {
			t.Fatalf("bind: %v", err)
		}
		got, err := s.ClaimInitiation(ctx, "int-3", now.Add(2*time.Minute), now.Add(2*time.Minute))
		if !errors.Is(err, interfaces.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
		if got.InitiatingUntil != nil {
			t.Fatalf("bind must clear the lease, got %v", got.InitiatingUntil)
		}
	})
}

func TestIntentStore_MarkFailedOnlyFromPending(t *testing.T) {
	ctx := context.Background()
	s := NewIntentStore()
	seedPending(t, s, "int-1", time.Now().Add(time.Hour))

	if _, err := s.TryApply(ctx, "int-1", entities.ApplyAttempt{Method: entities.ConfirmationFallback, At: time.Now()}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	got, err := s.MarkFailed(ctx, "int-1", "1032", "cancelled")
	if !errors.Is(err, interfaces.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if got.Status != entities.IntentStatusCompleted {
		t.Fatalf("terminal state must not change, got %s", got.Status)
	}
}

func TestIntentStore_EnrichReceiptKeepsWinningMethod(t *testing.T) {
	ctx := context.Background()
	s := NewIntentStore()
	seedPending(t, s, "int-1", time.Now().Add(time.Hour))

	if _, err := s.TryApply(ctx, "int-1", entities.ApplyAttempt{Method: entities.ConfirmationFallback, At: time.Now()}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	got, err := s.EnrichReceipt(ctx, "int-1", entities.ApplyAttempt{Receipt: "RCP1", Method: entities.ConfirmationCallback, At: time.Now()})
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if got.Receipt != "RCP1" || got.ConfirmationMethod != entities.ConfirmationFallback || got.CallbackAt == nil {
		t.Fatalf("unexpected intent %+v", got)
	}
}

func TestIntentStore_Reap(t *testing.T) {
	ctx := context.Background()
	s := NewIntentStore()
	seedPending(t, s, "stale", time.Now().Add(50*time.Millisecond))
	seedPending(t, s, "done", time.Now().Add(50*time.Millisecond))
	if _, err := s.TryApply(ctx, "done", entities.ApplyAttempt{Method: entities.ConfirmationCallback, At: time.Now()}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(time.Minute) }
	if n := s.Reap(); n != 1 {
		t.Fatalf("expected one reaped intent, got %d", n)
	}

	stale, _ := s.GetByID(ctx, "stale")
	if stale.ID != "" {
		t.Fatal("expired intent should be gone")
	}
	byCheckout, _ := s.GetByCheckoutRequestID(ctx, "ws_CO_stale")
	if byCheckout.ID != "" {
		t.Fatal("expired intent should be gone from the correlation index")
	}
	done, _ := s.GetByID(ctx, "done")
	if done.ID != "done" {
		t.Fatal("completed intent must survive")
	}
}
