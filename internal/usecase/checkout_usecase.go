package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart        = errors.New("cart has no items")
	ErrInvalidQuantity  = errors.New("quantity must be a positive whole number")
	ErrMissingPod       = errors.New("pod id is required")
	ErrAmountRequired   = errors.New("amount is required for this intent")
	ErrCurrencyMismatch = errors.New("cart mixes currencies")
)

type CartItem struct {
	ProductID string
	Quantity  int64
}

// CheckoutSession is what the hosted checkout page needs to take over.
// Amount is nil for contributions; the payer chooses it at initiation.
type CheckoutSession struct {
	IntentID    string
	RedirectURL string
	Amount      *int64
	Currency    string
	ExpiresAt   time.Time
}

type CheckoutConfig struct {
	Route           string
	CallbackURL     string
	CheckoutBaseURL string
	Currency        string
	IntentTTL       time.Duration
	// InitiationLease bounds how long one caller may hold a created intent
	// while its push is in flight. It should exceed the gateway round trip.
	InitiationLease time.Duration
}

const defaultInitiationLease = time.Minute

// ICheckoutUseCase builds payment intents and starts their push prompts.
type ICheckoutUseCase interface {
	CreatePurchaseCheckout(ctx context.Context, userID string, items []CartItem) (CheckoutSession, error)
	CreateContributionCheckout(ctx context.Context, userID, podID string) (CheckoutSession, error)
	Initiate(ctx context.Context, intentID, userID string, amount *int64, phone string) (entities.PaymentIntent, error)
	Status(ctx context.Context, intentID, userID string) (entities.PaymentIntent, error)
}

type CheckoutUseCase struct {
	intents   interfaces.IIntentRepository
	pods      interfaces.IPodRepository
	market    interfaces.IMarketplaceRepository
	gateway   interfaces.IPaymentGateway
	scheduler interfaces.IReconcileScheduler
	cfg       CheckoutConfig
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

var _ ICheckoutUseCase = (*CheckoutUseCase)(nil)

func NewCheckoutUseCase(
	intents interfaces.IIntentRepository,
	pods interfaces.IPodRepository,
	market interfaces.IMarketplaceRepository,
	gateway interfaces.IPaymentGateway,
	scheduler interfaces.IReconcileScheduler,
	cfg CheckoutConfig,
	logger *zap.Logger,
) *CheckoutUseCase {
	if cfg.InitiationLease <= 0 {
		cfg.InitiationLease = defaultInitiationLease
	}
	return &CheckoutUseCase{
		intents:   intents,
		pods:      pods,
		market:    market,
		gateway:   gateway,
		scheduler: scheduler,
		cfg:       cfg,
		logger:    logger.With(zap.String("component", "checkout")),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// CreatePurchaseCheckout prices the cart against current stock and freezes it
// into the intent, so the amount is bound from the start.
func (u *CheckoutUseCase) CreatePurchaseCheckout(ctx context.Context, userID string, items []CartItem) (CheckoutSession, error) {
	if strings.TrimSpace(userID) == "" {
		return CheckoutSession{}, ErrMissingUser
	}
	if len(items) == 0 {
		return CheckoutSession{}, ErrEmptyCart
	}

	// Repeated rows for one product are merged so the stock check sees the full quantity.
	order := make([]string, 0, len(items))
	wanted := make(map[string]int64, len(items))
	for _, it := range items {
		id := strings.TrimSpace(it.ProductID)
		if id == "" {
			return CheckoutSession{}, interfaces.ErrProductNotFound
		}
		if it.Quantity <= 0 {
			return CheckoutSession{}, ErrInvalidQuantity
		}
		if _, seen := wanted[id]; !seen {
			order = append(order, id)
		}
		wanted[id] += it.Quantity
	}

	now := u.now().UTC()
	snap := entities.CartSnapshot{Currency: u.cfg.Currency, CapturedAt: now}
	for _, id := range order {
		p, err := u.market.GetProduct(ctx, id)
		if err != nil {
			return CheckoutSession{}, err
		}
		qty := wanted[id]
		switch {
		case p.ID == "":
			return CheckoutSession{}, fmt.Errorf("%w: %s", interfaces.ErrProductNotFound, id)
		case p.Status != entities.ProductStatusActive:
			return CheckoutSession{}, fmt.Errorf("%w: %s", interfaces.ErrProductInactive, id)
		case p.Quantity < qty:
			return CheckoutSession{}, fmt.Errorf("%w: %s has %d, want %d", interfaces.ErrInsufficientStock, id, p.Quantity, qty)
		case p.Currency != "" && p.Currency != snap.Currency:
			return CheckoutSession{}, fmt.Errorf("%w: %s is priced in %s", ErrCurrencyMismatch, id, p.Currency)
		}

		li := entities.LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  qty,
			Subtotal:  p.Price * qty,
		}
		snap.Items = append(snap.Items, li)
		snap.Total += li.Subtotal
	}
	if err := validateAmount(snap.Total); err != nil {
		return CheckoutSession{}, err
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("encode cart snapshot: %w", err)
	}
	total := snap.Total
	return u.createIntent(ctx, entities.PaymentIntent{
		Purpose:  entities.PurposePurchase,
		Snapshot: raw,
		UserID:   userID,
		Amount:   &total,
	}, now)
}

// CreateContributionCheckout leaves the amount unbound; the member picks it on
// the hosted page.
func (u *CheckoutUseCase) CreateContributionCheckout(ctx context.Context, userID, podID string) (CheckoutSession, error) {
	if strings.TrimSpace(userID) == "" {
		return CheckoutSession{}, ErrMissingUser
	}
	podID = strings.TrimSpace(podID)
	if podID == "" {
		return CheckoutSession{}, ErrMissingPod
	}

	pod, err := u.pods.GetByID(ctx, podID)
	if err != nil {
		return CheckoutSession{}, err
	}
	switch {
	case pod.ID == "":
		return CheckoutSession{}, interfaces.ErrPodNotFound
	case !pod.IsActive():
		return CheckoutSession{}, interfaces.ErrPodInactive
	case !pod.IsActiveMember(userID):
		return CheckoutSession{}, interfaces.ErrNotPodMember
	}

	return u.createIntent(ctx, entities.PaymentIntent{
		Purpose:    entities.PurposeContribution,
		SubjectRef: pod.ID,
		UserID:     userID,
	}, u.now().UTC())
}

func (u *CheckoutUseCase) createIntent(ctx context.Context, in entities.PaymentIntent, now time.Time) (CheckoutSession, error) {
	in.ID = u.newID()
	in.Currency = u.cfg.Currency
	in.Route = u.cfg.Route
	in.Status = entities.IntentStatusCreated
	in.CreatedAt = now
	in.UpdatedAt = now
	in.ExpiresAt = now.Add(u.cfg.IntentTTL)

	created, err := u.intents.Create(ctx, in)
	if err != nil {
		return CheckoutSession{}, err
	}
	u.logger.Info("checkout session created",
		zap.String("intent_id", created.ID),
		zap.String("purpose", string(created.Purpose)),
		zap.Int64("amount", created.AmountValue()))

	return CheckoutSession{
		IntentID:    created.ID,
		RedirectURL: strings.TrimRight(u.cfg.CheckoutBaseURL, "/") + "/" + created.ID,
		Amount:      created.Amount,
		Currency:    created.Currency,
		ExpiresAt:   created.ExpiresAt,
	}, nil
}

// Initiate claims the intent's initiation lease, sends the push prompt and then
// binds amount and phone. The lease keeps concurrent initiates from sending a
// second prompt whose correlation id would never be stored. A failed push
// releases the lease and leaves the intent created and retryable.
func (u *CheckoutUseCase) Initiate(ctx context.Context, intentID, userID string, amount *int64, phone string) (entities.PaymentIntent, error) {
	msisdn, err := NormalizePhone(phone)
	if err != nil {
		return entities.PaymentIntent{}, err
	}
	intent, err := u.loadOwned(ctx, intentID, userID)
	if err != nil {
		return entities.PaymentIntent{}, err
	}
	log := u.logger.With(zap.String("intent_id", intent.ID), zap.String("purpose", string(intent.Purpose)))

	if intent.Status != entities.IntentStatusCreated {
		log.Info("initiate rejected", zap.String("status", string(intent.Status)))
		return intent, interfaces.ErrInvalidTransition
	}

	var value int64
	switch {
	case intent.Amount != nil && amount != nil && *amount != *intent.Amount:
		return intent, interfaces.ErrAmountAlreadyBound
	case intent.Amount != nil:
		value = *intent.Amount
	case amount != nil:
		value = *amount
	default:
		return intent, ErrAmountRequired
	}
	if err := validateAmount(value); err != nil {
		return intent, err
	}

	claimedAt := u.now().UTC()
	leaseUntil := claimedAt.Add(u.cfg.InitiationLease)
	if claimed, err := u.intents.ClaimInitiation(ctx, intent.ID, leaseUntil, claimedAt); err != nil {
		log.Info("initiate rejected", zap.Error(err))
		return claimed, err
	}

	push, err := u.gateway.RequestPush(ctx, interfaces.PushRequest{
		Amount:      value,
		Phone:       msisdn,
		Route:       intent.Route,
		Reference:   pushReference(intent),
		Description: pushDescription(intent.Purpose),
		CallbackURL: u.cfg.CallbackURL,
	})
	if err != nil {
		log.Warn("push request failed", zap.Error(err))
		if rerr := u.intents.ReleaseInitiation(ctx, intent.ID, leaseUntil); rerr != nil {
			log.Warn("initiation lease release failed, it will lapse", zap.Error(rerr))
		}
		return intent, err
	}
	log = log.With(zap.String("correlation_id", push.CheckoutRequestID))

	bound, err := u.intents.Bind(ctx, intent.ID, entities.IntentBinding{
		Amount:            value,
		Phone:             msisdn,
		MerchantRequestID: push.MerchantRequestID,
		CheckoutRequestID: push.CheckoutRequestID,
		At:                u.now().UTC(),
	})
	if err != nil {
		// The prompt is already on the payer's phone but the lease lapsed
		// before the bind.
		log.Error("bind after push failed", zap.Error(err))
		return bound, err
	}
	log.Info("push initiated", zap.Int64("amount", value))

	if u.scheduler != nil {
		if err := u.scheduler.Schedule(ctx, bound.ID); err != nil {
			log.Error("fallback schedule failed", zap.Error(err))
		}
	}
	return bound, nil
}

// Status reports the stored state. An unresolved intent past its TTL reads as
// expired even before the store reclaims it.
func (u *CheckoutUseCase) Status(ctx context.Context, intentID, userID string) (entities.PaymentIntent, error) {
	return u.loadOwned(ctx, intentID, userID)
}

func (u *CheckoutUseCase) loadOwned(ctx context.Context, intentID, userID string) (entities.PaymentIntent, error) {
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return entities.PaymentIntent{}, ErrMissingIntentID
	}
	intent, err := u.intents.GetByID(ctx, intentID)
	if err != nil {
		return entities.PaymentIntent{}, err
	}
	switch {
	case intent.ID == "":
		return entities.PaymentIntent{}, interfaces.ErrIntentNotFound
	case userID != "" && intent.UserID != userID:
		return entities.PaymentIntent{}, ErrIntentNotOwned
	case intent.Expired(u.now()):
		return entities.PaymentIntent{}, interfaces.ErrIntentExpired
	}
	return intent, nil
}

func pushReference(in entities.PaymentIntent) string {
	ref := strings.ReplaceAll(in.ID, "-", "")
	if len(ref) > 12 {
		ref = ref[:12]
	}
	return strings.ToUpper(ref)
}

func pushDescription(p entities.Purpose) string {
	switch p {
	case entities.PurposeContribution:
		return "Pod contribution"
	case entities.PurposePurchase:
		return "Marketplace order"
	case entities.PurposeWithdrawalPayout, entities.PurposeWithdrawalRefund:
		return "Pod withdrawal"
	default:
		return "Payment"
	}
}
