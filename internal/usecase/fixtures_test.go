package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"mobilepay_ledger/internal/adapter/persistence/memory"
	"mobilepay_ledger/internal/domain/entities"

	"go.uber.org/zap"
)

const testRoute = "174379"

type ledgerFixture struct {
	intents *memory.IntentStore
	pods    *memory.PodStore
	market  *memory.MarketplaceStore
	applier *LedgerApplier
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	f := &ledgerFixture{
		intents: memory.NewIntentStore(),
		pods:    memory.NewPodStore(),
		market:  memory.NewMarketplaceStore(),
	}
	f.applier = NewLedgerApplier(
		NewContributionApplier(f.pods, zap.NewNop()),
		NewOrderFulfillmentApplier(f.market, zap.NewNop()),
	)

	_, err := f.pods.Create(context.Background(), entities.SavingsPod{
		ID:       "pod-g",
		Name:     "Chama G",
		Status:   entities.PodStatusActive,
		Currency: "KES",
		Members: map[string]entities.PodMember{
			"user-1": {UserID: "user-1", Status: entities.MemberStatusActive},
			"user-2": {UserID: "user-2", Status: entities.MemberStatusActive},
		},
	})
	if err != nil {
		t.Fatalf("seed pod: %v", err)
	}
	_, err = f.market.CreateProduct(context.Background(), entities.Product{
		ID:       "P1",
		SellerID: "seller-1",
		Name:     "Kiondo basket",
		Price:    500,
		Currency: "KES",
		Quantity: 2,
		Status:   entities.ProductStatusActive,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return f
}

func (f *ledgerFixture) pendingContribution(t *testing.T, id string, amount int64) entities.PaymentIntent {
	t.Helper()
	return f.pending(t, entities.PaymentIntent{
		ID:         id,
		Purpose:    entities.PurposeContribution,
		SubjectRef: "pod-g",
		UserID:     "user-1",
	}, amount)
}

func (f *ledgerFixture) pendingPurchase(t *testing.T, id string, items ...entities.LineItem) entities.PaymentIntent {
	t.Helper()
	snap := entities.CartSnapshot{Currency: "KES", CapturedAt: time.Now().UTC()}
	for _, li := range items {
		li.Subtotal = li.UnitPrice * li.Quantity
		snap.Total += li.Subtotal
		snap.Items = append(snap.Items, li)
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	total := snap.Total
	return f.pending(t, entities.PaymentIntent{
		ID:       id,
		Purpose:  entities.PurposePurchase,
		Snapshot: raw,
		UserID:   "user-1",
		Amount:   &total,
	}, total)
}

func (f *ledgerFixture) pending(t *testing.T, in entities.PaymentIntent, amount int64) entities.PaymentIntent {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	in.Currency = "KES"
	in.Route = testRoute
	in.Status = entities.IntentStatusCreated
	in.CreatedAt = now
	in.ExpiresAt = now.Add(time.Hour)
	if _, err := f.intents.Create(ctx, in); err != nil {
		t.Fatalf("create intent: %v", err)
	}
	bound, err := f.intents.Bind(ctx, in.ID, entities.IntentBinding{
		Amount:            amount,
		Phone:             "254712345678",
		MerchantRequestID: "mr-" + in.ID,
		CheckoutRequestID: "ws_CO_" + in.ID,
		At:                now,
	})
	if err != nil {
		t.Fatalf("bind intent: %v", err)
	}
	return bound
}

func (f *ledgerFixture) intent(t *testing.T, id string) entities.PaymentIntent {
	t.Helper()
	in, err := f.intents.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get intent: %v", err)
	}
	return in
}

func (f *ledgerFixture) pod(t *testing.T) entities.SavingsPod {
	t.Helper()
	p, err := f.pods.GetByID(context.Background(), "pod-g")
	if err != nil {
		t.Fatalf("get pod: %v", err)
	}
	return p
}

func successCallback(intent entities.PaymentIntent, receipt string) CallbackResult {
	return CallbackResult{
		MerchantRequestID: intent.MerchantRequestID,
		CheckoutRequestID: intent.CheckoutRequestID,
		ResultCode:        0,
		ResultDesc:        "The service request is processed successfully.",
		Receipt:           receipt,
		Amount:            intent.AmountValue(),
		Phone:             intent.Phone,
	}
}
