package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase/interfaces"
	mock_interfaces "mobilepay_ledger/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func paidQuery(checkoutID string) interfaces.QueryResult {
	return interfaces.QueryResult{
		Outcome:           interfaces.QueryOutcomePaid,
		ResultCode:        "0",
		ResultDesc:        "The service request is processed successfully.",
		CheckoutRequestID: checkoutID,
	}
}

func TestReconciler_ExactlyOnceAcrossPaths(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newLedgerFixture(t)
	intent := f.pendingContribution(t, "int-race", 1000)

	gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
	gateway.EXPECT().QueryStatus(gomock.Any(), testRoute, intent.CheckoutRequestID).
		Return(paidQuery(intent.CheckoutRequestID), nil).AnyTimes()
	publisher := mock_interfaces.NewMockILedgerEventPublisher(ctrl)
	var applied int
	var mu sync.Mutex
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, ev interfaces.LedgerEvent) error {
			if ev.Type == interfaces.LedgerEventIntentApplied {
				mu.Lock()
				applied++
				mu.Unlock()
			}
			return nil
		}).AnyTimes()

	uc := NewReconcilerUseCase(f.intents, gateway, f.applier, publisher, nil, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			if err := uc.HandleCallback(context.Background(), successCallback(intent, "SGH7XK2P1Q")); err != nil {
				t.Errorf("callback: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := uc.PollOnce(context.Background(), intent.ID); err != nil {
				t.Errorf("poll: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := uc.Recheck(context.Background(), intent.ID, "user-1"); err != nil {
				t.Errorf("recheck: %v", err)
			}
		}()
	}
	wg.Wait()

	pod := f.pod(t)
	if pod.CurrentBalance != 1000 || len(pod.Contributions) != 1 {
		t.Fatalf("expected one contribution of 1000, got balance=%d records=%d", pod.CurrentBalance, len(pod.Contributions))
	}
	if applied != 1 {
		t.Fatalf("expected one applied event, got %d", applied)
	}
	got := f.intent(t, intent.ID)
	if !got.Applied || got.Status != entities.IntentStatusCompleted {
		t.Fatalf("intent not completed: %+v", got)
	}
	if got.Receipt != "SGH7XK2P1Q" {
		t.Fatalf("expected receipt recorded by the webhook, got %q", got.Receipt)
	}
	if pod.Contributions[0].ID != ContributionID(intent.ID) {
		t.Fatalf("contribution id not derived from intent: %s", pod.Contributions[0].ID)
	}
}

func TestReconciler_HandleCallback(t *testing.T) {
	t.Run("webhook replay does not double apply", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newLedgerFixture(t)
		intent := f.pendingContribution(t, "int-replay", 1000)

		publisher := mock_interfaces.NewMockILedgerEventPublisher(ctrl)
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, ev interfaces.LedgerEvent) error {
				if ev.Type != interfaces.LedgerEventIntentApplied || ev.Amount != 1000 || ev.Method != "callback" {
					t.Errorf("unexpected event %+v", ev)
				}
				return nil
			}).Times(1)
		archive := mock_interfaces.NewMockICallbackArchive(ctrl)
		archive.EXPECT().Store(gomock.Any(), gomock.Any(), []byte(`{"Body":{}}`)).Return(nil).Times(2)

		uc := NewReconcilerUseCase(f.intents, nil, f.applier, publisher, archive, zap.NewNop())
		cb := successCallback(intent, "SGH7XK2P1Q")
		cb.Raw = []byte(`{"Body":{}}`)

		for i := 0; i < 2; i++ {
			if err := uc.HandleCallback(context.Background(), cb); err != nil {
				t.Fatalf("callback %d: %v", i, err)
			}
		}

		pod := f.pod(t)
		if pod.CurrentBalance != 1000 || len(pod.Contributions) != 1 || pod.ContributionCount != 1 {
			t.Fatalf("replay double applied: balance=%d records=%d", pod.CurrentBalance, len(pod.Contributions))
		}
		if m := pod.Members["user-1"]; m.Available != 1000 {
			t.Fatalf("expected member available 1000, got %d", m.Available)
		}
	})

	t.Run("webhook after fallback only enriches the receipt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newLedgerFixture(t)
		intent := f.pendingContribution(t, "int-late", 1000)

		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		gateway.EXPECT().QueryStatus(gomock.Any(), testRoute, intent.CheckoutRequestID).
			Return(paidQuery(intent.CheckoutRequestID), nil).Times(1)
		uc := NewReconcilerUseCase(f.intents, gateway, f.applier, nil, nil, zap.NewNop())

		out, err := uc.PollOnce(context.Background(), intent.ID)
		if err != nil || out != PollApplied {
			t.Fatalf("expected applied, got %s %v", out, err)
		}
		if err := uc.HandleCallback(context.Background(), successCallback(intent, "SGH7XK2P1Q")); err != nil {
			t.Fatalf("callback: %v", err)
		}

		got := f.intent(t, intent.ID)
		if got.ConfirmationMethod != entities.ConfirmationFallback {
			t.Fatalf("expected fallback to stay the winner, got %s", got.ConfirmationMethod)
		}
		if got.Receipt != "SGH7XK2P1Q" || got.CallbackAt == nil {
			t.Fatalf("expected receipt enrichment, got %+v", got)
		}
		if pod := f.pod(t); pod.CurrentBalance != 1000 || len(pod.Contributions) != 1 {
			t.Fatalf("ledger ran twice: balance=%d", pod.CurrentBalance)
		}
	})

	t.Run("failure result marks the intent failed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newLedgerFixture(t)
		intent := f.pendingContribution(t, "int-cancel", 1000)

		publisher := mock_interfaces.NewMockILedgerEventPublisher(ctrl)
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, ev interfaces.LedgerEvent) error {
				if ev.Type != interfaces.LedgerEventIntentFailed {
					t.Errorf("expected failed event, got %s", ev.Type)
				}
				return nil
			}).Times(1)
		uc := NewReconcilerUseCase(f.intents, nil, f.applier, publisher, nil, zap.NewNop())

		cb := CallbackResult{CheckoutRequestID: intent.CheckoutRequestID, ResultCode: 1032, ResultDesc: "Request cancelled by user"}
		if err := uc.HandleCallback(context.Background(), cb); err != nil {
			t.Fatalf("callback: %v", err)
		}
		// a replayed failure is a no-op
		if err := uc.HandleCallback(context.Background(), cb); err != nil {
			t.Fatalf("replayed callback: %v", err)
		}
		// so is a late success
		if err := uc.HandleCallback(context.Background(), successCallback(intent, "LATE")); err != nil {
			t.Fatalf("late success: %v", err)
		}

		got := f.intent(t, intent.ID)
		if got.Status != entities.IntentStatusFailed || got.Applied || got.ResultCode != "1032" {
			t.Fatalf("expected failed intent, got %+v", got)
		}
		if pod := f.pod(t); pod.CurrentBalance != 0 {
			t.Fatalf("failed intent touched the ledger: %d", pod.CurrentBalance)
		}
	})

	t.Run("failure after apply is ignored", func(t *testing.T) {
		f := newLedgerFixture(t)
		intent := f.pendingContribution(t, "int-x", 1000)
		uc := NewReconcilerUseCase(f.intents, nil, f.applier, nil, nil, zap.NewNop())

		if err := uc.HandleCallback(context.Background(), successCallback(intent, "R1")); err != nil {
			t.Fatalf("callback: %v", err)
		}
		if err := uc.HandleCallback(context.Background(), CallbackResult{CheckoutRequestID: intent.CheckoutRequestID, ResultCode: 1}); err != nil {
			t.Fatalf("failure callback: %v", err)
		}
		if got := f.intent(t, intent.ID); got.Status != entities.IntentStatusCompleted {
			t.Fatalf("terminal state reversed: %s", got.Status)
		}
	})

	t.Run("unreadable result code leaves the intent pending", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newLedgerFixture(t)
		intent := f.pendingContribution(t, "int-garbled", 1000)

		archive := mock_interfaces.NewMockICallbackArchive(ctrl)
		archive.EXPECT().Store(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)
		uc := NewReconcilerUseCase(f.intents, nil, f.applier, nil, archive, zap.NewNop())

		cb := CallbackResult{
			CheckoutRequestID: intent.CheckoutRequestID,
			ResultDesc:        "garbled",
			CodeUnreadable:    true,
			Raw:               []byte(`{"Body":{"stkCallback":{}}}`),
		}
		if err := uc.HandleCallback(context.Background(), cb); !errors.Is(err, ErrUnreadableResult) {
			t.Fatalf("expected ErrUnreadableResult, got %v", err)
		}
		if got := f.intent(t, intent.ID); got.Status != entities.IntentStatusPending || got.Applied {
			t.Fatalf("expected pending intent, got %+v", got)
		}

		// the real answer still settles it
		if err := uc.HandleCallback(context.Background(), successCallback(intent, "SGH7XK2P1Q")); err != nil {
			t.Fatalf("success callback: %v", err)
		}
		if got := f.intent(t, intent.ID); got.Status != entities.IntentStatusCompleted {
			t.Fatalf("expected completed intent, got %s", got.Status)
		}
	})

	t.Run("unknown correlation id", func(t *testing.T) {
		f := newLedgerFixture(t)
		uc := NewReconcilerUseCase(f.intents, nil, f.applier, nil, nil, zap.NewNop())
		err := uc.HandleCallback(context.Background(), CallbackResult{CheckoutRequestID: "ws_CO_nope"})
		if !errors.Is(err, interfaces.ErrIntentNotFound) {
			t.Fatalf("expected ErrIntentNotFound, got %v", err)
		}
	})

	t.Run("missing correlation id", func(t *testing.T) {
		f := newLedgerFixture(t)
		uc := NewReconcilerUseCase(f.intents, nil, f.applier, nil, nil, zap.NewNop())
		if err := uc.HandleCallback(context.Background(), CallbackResult{}); !errors.Is(err, ErrMissingCorrelation) {
			t.Fatalf("expected ErrMissingCorrelation, got %v", err)
		}
	})
}

func TestReconciler_PurchaseFulfillment(t *testing.T) {
	t.Run("two units of P1 sell it out", func(t *testing.T) {
		f := newLedgerFixture(t)
		intent := f.pendingPurchase(t, "int-buy", entities.LineItem{ProductID: "P1", Name: "Kiondo basket", UnitPrice: 500, Quantity: 2})
		uc := NewReconcilerUseCase(f.intents, nil, f.applier, nil, nil, zap.NewNop())

		if err := uc.HandleCallback(context.Background(), successCallback(intent, "SGH1")); err != nil {
			t.Fatalf("callback: %v", err)
		}

		order, err := f.market.GetOrder(context.Background(), OrderID(intent.ID))
		if err != nil {
			t.Fatalf("get order: %v", err)
		}
		if order.ID == "" || len(order.Items) != 1 || order.Items[0].Subtotal != 1000 || order.Total != 1000 {
			t.Fatalf("unexpected order %+v", order)
		}
		p, _ := f.market.GetProduct(context.Background(), "P1")
		if p.Quantity != 0 || p.Status != entities.ProductStatusSold {
			t.Fatalf("expected P1 sold out, got qty=%d status=%s", p.Quantity, p.Status)
		}
	})

	t.Run("stock gone after checkout surfaces an apply failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newLedgerFixture(t)
		intent := f.pendingPurchase(t, "int-short", entities.LineItem{ProductID: "P1", UnitPrice: 500, Quantity: 2})
		if _, err := f.market.FulfillOrder(context.Background(), entities.Order{
			ID:    "other-order",
			Items: []entities.LineItem{{ProductID: "P1", Quantity: 1}},
		}); err != nil {
			t.Fatalf("competing order: %v", err)
		}

		publisher := mock_interfaces.NewMockILedgerEventPublisher(ctrl)
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, ev interfaces.LedgerEvent) error {
				if ev.Type != interfaces.LedgerEventApplyFailed {
					t.Errorf("expected apply_failed event, got %s", ev.Type)
				}
				return nil
			}).Times(1)
		uc := NewReconcilerUseCase(f.intents, nil, f.applier, publisher, nil, zap.NewNop())

		err := uc.HandleCallback(context.Background(), successCallback(intent, "SGH2"))
		if !errors.Is(err, ErrLedgerApplyFailed) {
			t.Fatalf("expected ErrLedgerApplyFailed, got %v", err)
		}
		if got := f.intent(t, intent.ID); !got.Applied {
			t.Fatalf("apply guard must stay taken")
		}
		p, _ := f.market.GetProduct(context.Background(), "P1")
		if p.Quantity != 1 {
			t.Fatalf("partial fulfillment: qty=%d", p.Quantity)
		}
	})
}

func TestReconciler_PollOnce(t *testing.T) {
	cases := []struct {
		name   string
		result interfaces.QueryResult
		err    error
		want   PollOutcome
	}{
		{name: "throttled", err: interfaces.ErrGatewayThrottled, want: PollThrottled},
		{name: "not yet paid", result: interfaces.QueryResult{Outcome: interfaces.QueryOutcomeNotYetPaid}, want: PollNotYetPaid},
		{name: "query reports failure", result: interfaces.QueryResult{Outcome: interfaces.QueryOutcomeFailed, ResultCode: "1032"}, want: PollFailed},
		{name: "transient", err: interfaces.ErrGatewayTransient, want: PollTransient},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			f := newLedgerFixture(t)
			intent := f.pendingContribution(t, "int-poll", 1000)

			gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
			gateway.EXPECT().QueryStatus(gomock.Any(), testRoute, intent.CheckoutRequestID).Return(tc.result, tc.err).Times(1)
			uc := NewReconcilerUseCase(f.intents, gateway, f.applier, nil, nil, zap.NewNop())

			got, err := uc.PollOnce(context.Background(), intent.ID)
			if got != tc.want {
				t.Fatalf("expected %s, got %s (%v)", tc.want, got, err)
			}
			if tc.want == PollTransient && err == nil {
				t.Fatalf("expected transient error to surface")
			}

			stored := f.intent(t, intent.ID)
			if stored.Status != entities.IntentStatusPending || stored.Applied {
				t.Fatalf("poll must leave the intent pending, got %s", stored.Status)
			}
		})
	}

	t.Run("resolved intents skip the gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newLedgerFixture(t)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewReconcilerUseCase(f.intents, gateway, f.applier, nil, nil, zap.NewNop())

		got, err := uc.PollOnce(context.Background(), "missing")
		if err != nil || got != PollResolved {
			t.Fatalf("expected resolved for missing intent, got %s %v", got, err)
		}
	})
}

func TestReconciler_Recheck(t *testing.T) {
	t.Run("completed intent makes no gateway call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newLedgerFixture(t)
		intent := f.pendingContribution(t, "int-done", 1000)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewReconcilerUseCase(f.intents, gateway, f.applier, nil, nil, zap.NewNop())

		if err := uc.HandleCallback(context.Background(), successCallback(intent, "SGH9")); err != nil {
			t.Fatalf("callback: %v", err)
		}

		res, err := uc.Recheck(context.Background(), intent.ID, "user-1")
		if err != nil {
			t.Fatalf("recheck: %v", err)
		}
		if !res.Cached || res.Intent.Receipt != "SGH9" || res.Intent.ConfirmationMethod != entities.ConfirmationCallback {
			t.Fatalf("expected cached terminal result, got %+v", res)
		}
	})

	t.Run("throttle is try again shortly", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newLedgerFixture(t)
		intent := f.pendingContribution(t, "int-thr", 1000)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		gateway.EXPECT().QueryStatus(gomock.Any(), testRoute, intent.CheckoutRequestID).
			Return(interfaces.QueryResult{}, interfaces.ErrGatewayThrottled).Times(1)
		uc := NewReconcilerUseCase(f.intents, gateway, f.applier, nil, nil, zap.NewNop())

		res, err := uc.Recheck(context.Background(), intent.ID, "user-1")
		if err != nil || !res.Throttled {
			t.Fatalf("expected throttled result without error, got %+v %v", res, err)
		}
		if f.intent(t, intent.ID).Status != entities.IntentStatusPending {
			t.Fatalf("throttle changed intent state")
		}
	})

	t.Run("paid applies with manual method", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newLedgerFixture(t)
		intent := f.pendingContribution(t, "int-man", 750)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		gateway.EXPECT().QueryStatus(gomock.Any(), testRoute, intent.CheckoutRequestID).
			Return(paidQuery(intent.CheckoutRequestID), nil).Times(1)
		uc := NewReconcilerUseCase(f.intents, gateway, f.applier, nil, nil, zap.NewNop())

		res, err := uc.Recheck(context.Background(), intent.ID, "user-1")
		if err != nil {
			t.Fatalf("recheck: %v", err)
		}
		if res.Outcome != interfaces.QueryOutcomePaid || res.Intent.ConfirmationMethod != entities.ConfirmationManualCheck {
			t.Fatalf("unexpected result %+v", res)
		}
		if res.Intent.Receipt != "" {
			t.Fatalf("manual check must not invent a receipt")
		}
		if pod := f.pod(t); pod.CurrentBalance != 750 {
			t.Fatalf("expected balance 750, got %d", pod.CurrentBalance)
		}
	})

	t.Run("ownership and lookup errors", func(t *testing.T) {
		f := newLedgerFixture(t)
		intent := f.pendingContribution(t, "int-own", 100)
		uc := NewReconcilerUseCase(f.intents, nil, f.applier, nil, nil, zap.NewNop())

		if _, err := uc.Recheck(context.Background(), intent.ID, "user-2"); !errors.Is(err, ErrIntentNotOwned) {
			t.Fatalf("expected ErrIntentNotOwned, got %v", err)
		}
		if _, err := uc.Recheck(context.Background(), "nope", "user-1"); !errors.Is(err, interfaces.ErrIntentNotFound) {
			t.Fatalf("expected ErrIntentNotFound, got %v", err)
		}
		if _, err := uc.Recheck(context.Background(), "", "user-1"); !errors.Is(err, ErrMissingIntentID) {
			t.Fatalf("expected ErrMissingIntentID, got %v", err)
		}
	})

	t.Run("expired intent", func(t *testing.T) {
		f := newLedgerFixture(t)
		intent := f.pendingContribution(t, "int-old", 100)
		uc := NewReconcilerUseCase(f.intents, nil, f.applier, nil, nil, zap.NewNop())
		uc.now = func() time.Time { return intent.ExpiresAt.Add(time.Minute) }

		if _, err := uc.Recheck(context.Background(), intent.ID, "user-1"); !errors.Is(err, interfaces.ErrIntentExpired) {
			t.Fatalf("expected ErrIntentExpired, got %v", err)
		}
	})
}
