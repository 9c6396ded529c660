package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNoLedgerEffect is returned for purposes whose money movement is not
	// confirmed through a payment intent.
	ErrNoLedgerEffect = errors.New("purpose has no ledger effect on confirmation")
	ErrEmptyOrder     = errors.New("order has no line items")
)

var ledgerNamespace = uuid.MustParse("6f1c6f2e-1d7b-4b8e-9b7e-3a4a2f0d9c11")

// ContributionID and OrderID derive record ids from the intent id, so a
// retried write targets the same record.
func ContributionID(intentID string) string {
	return uuid.NewSHA1(ledgerNamespace, []byte("contribution:"+intentID)).String()
}

func OrderID(intentID string) string {
	return uuid.NewSHA1(ledgerNamespace, []byte("order:"+intentID)).String()
}

// ILedgerApplier runs the business effect of a confirmed intent. Callers must
// hold the apply-once guard; appliers are not idempotent on their own.
type ILedgerApplier interface {
	Apply(ctx context.Context, intent entities.PaymentIntent) error
}

type ContributionInput struct {
	PodID         string
	UserID        string
	Amount        int64
	Method        entities.ConfirmationMethod
	CorrelationID string
	IntentID      string
}

type ContributionApplier struct {
	pods   interfaces.IPodRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewContributionApplier(pods interfaces.IPodRepository, logger *zap.Logger) *ContributionApplier {
	return &ContributionApplier{pods: pods, logger: logger, now: time.Now}
}

func (a *ContributionApplier) Apply(ctx context.Context, in ContributionInput) (entities.SavingsPod, error) {
	if err := validateAmount(in.Amount); err != nil {
		return entities.SavingsPod{}, err
	}

	c := entities.Contribution{
		ID:            ContributionID(in.IntentID),
		IntentID:      in.IntentID,
		UserID:        in.UserID,
		Amount:        in.Amount,
		Method:        in.Method,
		CorrelationID: in.CorrelationID,
		Status:        entities.ContributionStatusCompleted,
		CreatedAt:     a.now().UTC(),
	}
	pod, err := a.pods.ApplyContribution(ctx, in.PodID, c)
	if err != nil {
		return entities.SavingsPod{}, fmt.Errorf("apply contribution to pod %s: %w", in.PodID, err)
	}

	a.logger.Info("contribution applied",
		zap.String("pod_id", in.PodID),
		zap.String("intent_id", in.IntentID),
		zap.Int64("amount", in.Amount),
		zap.String("method", string(in.Method)),
		zap.Int64("pod_balance", pod.CurrentBalance))
	return pod, nil
}

type FulfillmentInput struct {
	IntentID      string
	BuyerID       string
	Items         []entities.LineItem
	Currency      string
	CorrelationID string
}

type OrderFulfillmentApplier struct {
	market interfaces.IMarketplaceRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewOrderFulfillmentApplier(market interfaces.IMarketplaceRepository, logger *zap.Logger) *OrderFulfillmentApplier {
	return &OrderFulfillmentApplier{market: market, logger: logger, now: time.Now}
}

// Apply writes the order and every stock decrement as one unit.
func (a *OrderFulfillmentApplier) Apply(ctx context.Context, in FulfillmentInput) (entities.Order, error) {
	if len(in.Items) == 0 {
		return entities.Order{}, ErrEmptyOrder
	}

	var total int64
	items := make([]entities.LineItem, 0, len(in.Items))
	for _, li := range in.Items {
		li.Subtotal = li.UnitPrice * li.Quantity
		total += li.Subtotal
		items = append(items, li)
	}

	order, err := a.market.FulfillOrder(ctx, entities.Order{
		ID:            OrderID(in.IntentID),
		IntentID:      in.IntentID,
		BuyerID:       in.BuyerID,
		Items:         items,
		Total:         total,
		Currency:      in.Currency,
		CorrelationID: in.CorrelationID,
		Status:        entities.OrderStatusPaid,
		CreatedAt:     a.now().UTC(),
	})
	if err != nil {
		return entities.Order{}, fmt.Errorf("fulfill order for intent %s: %w", in.IntentID, err)
	}

	a.logger.Info("order fulfilled",
		zap.String("order_id", order.ID),
		zap.String("intent_id", in.IntentID),
		zap.Int("items", len(order.Items)),
		zap.Int64("total", order.Total))
	return order, nil
}

// LedgerApplier dispatches a confirmed intent to the applier for its purpose.
type LedgerApplier struct {
	contributions *ContributionApplier
	orders        *OrderFulfillmentApplier
}

var _ ILedgerApplier = (*LedgerApplier)(nil)

func NewLedgerApplier(contributions *ContributionApplier, orders *OrderFulfillmentApplier) *LedgerApplier {
	return &LedgerApplier{contributions: contributions, orders: orders}
}

func (a *LedgerApplier) Apply(ctx context.Context, intent entities.PaymentIntent) error {
	switch intent.Purpose {
	case entities.PurposeContribution:
		_, err := a.contributions.Apply(ctx, ContributionInput{
			PodID:         intent.SubjectRef,
			UserID:        intent.UserID,
			Amount:        intent.AmountValue(),
			Method:        intent.ConfirmationMethod,
			CorrelationID: intent.CheckoutRequestID,
			IntentID:      intent.ID,
		})
		return err
	case entities.PurposePurchase:
		snap, err := intent.CartSnapshot()
		if err != nil {
			return err
		}
		_, err = a.orders.Apply(ctx, FulfillmentInput{
			IntentID:      intent.ID,
			BuyerID:       intent.UserID,
			Items:         snap.Items,
			Currency:      snap.Currency,
			CorrelationID: intent.CheckoutRequestID,
		})
		return err
	case entities.PurposeWithdrawalPayout, entities.PurposeWithdrawalRefund:
		return fmt.Errorf("%w: %s", ErrNoLedgerEffect, intent.Purpose)
	default:
		return fmt.Errorf("%w: %q", entities.ErrUnknownPurpose, intent.Purpose)
	}
}
