package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase/interfaces"

	"go.uber.org/zap"
)

var (
	ErrIntentNotOwned     = errors.New("intent belongs to another user")
	ErrIntentNotInitiated = errors.New("intent has no payment prompt yet")
	ErrLedgerApplyFailed  = errors.New("ledger effect failed after confirmation")
	ErrMissingCorrelation = errors.New("callback has no checkout request id")
	ErrUnreadableResult   = errors.New("callback result code is missing or unreadable")
)

// CallbackResult is the gateway's asynchronous verdict on one push.
type CallbackResult struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Receipt           string
	Amount            int64
	Phone             string
	Raw               []byte
	// CodeUnreadable is set when the envelope carried no usable ResultCode.
	// Such a callback is neither a success nor a rejection.
	CodeUnreadable bool
}

func (c CallbackResult) Succeeded() bool {
	return !c.CodeUnreadable && c.ResultCode == 0
}

// RecheckResult is what a user-triggered recheck reports back. Throttled means
// "try again shortly", not a failure.
type RecheckResult struct {
	Intent     entities.PaymentIntent
	Outcome    interfaces.QueryOutcome
	ResultDesc string
	Throttled  bool
	Cached     bool
}

type PollOutcome string

const (
	PollApplied    PollOutcome = "applied"
	PollResolved   PollOutcome = "already_resolved"
	PollNotYetPaid PollOutcome = "not_yet_paid"
	PollThrottled  PollOutcome = "throttled"
	PollFailed     PollOutcome = "failed"
	PollTransient  PollOutcome = "transient"
)

// IReconcilerUseCase is the confirmation race: the webhook, the fallback poll
// and the manual recheck all settle an intent through the store's apply-once
// guard, so the ledger effect runs at most once whichever path wins.
type IReconcilerUseCase interface {
	HandleCallback(ctx context.Context, cb CallbackResult) error
	Recheck(ctx context.Context, intentID, userID string) (RecheckResult, error)
	PollOnce(ctx context.Context, intentID string) (PollOutcome, error)
}

type ReconcilerUseCase struct {
	intents   interfaces.IIntentRepository
	gateway   interfaces.IPaymentGateway
	applier   ILedgerApplier
	publisher interfaces.ILedgerEventPublisher
	archive   interfaces.ICallbackArchive
	logger    *zap.Logger
	now       func() time.Time
}

var _ IReconcilerUseCase = (*ReconcilerUseCase)(nil)

func NewReconcilerUseCase(
	intents interfaces.IIntentRepository,
	gateway interfaces.IPaymentGateway,
	applier ILedgerApplier,
	publisher interfaces.ILedgerEventPublisher,
	archive interfaces.ICallbackArchive,
	logger *zap.Logger,
) *ReconcilerUseCase {
	return &ReconcilerUseCase{
		intents:   intents,
		gateway:   gateway,
		applier:   applier,
		publisher: publisher,
		archive:   archive,
		logger:    logger.With(zap.String("component", "reconciler")),
		now:       time.Now,
	}
}

func (u *ReconcilerUseCase) HandleCallback(ctx context.Context, cb CallbackResult) error {
	u.archiveCallback(ctx, cb)

	if cb.CheckoutRequestID == "" {
		return ErrMissingCorrelation
	}
	log := u.logger.With(
		zap.String("correlation_id", cb.CheckoutRequestID),
		zap.Int("result_code", cb.ResultCode))
	if cb.CodeUnreadable {
		log.Warn("callback without a readable result code, leaving intent to the fallback poll",
			zap.String("result_desc", cb.ResultDesc))
		return ErrUnreadableResult
	}

	intent, err := u.intents.GetByCheckoutRequestID(ctx, cb.CheckoutRequestID)
	if err != nil {
		return err
	}
	if intent.ID == "" {
		log.Warn("callback for unknown or reclaimed intent")
		return interfaces.ErrIntentNotFound
	}
	log = log.With(zap.String("intent_id", intent.ID))

	attempt := entities.ApplyAttempt{
		Receipt:    cb.Receipt,
		Method:     entities.ConfirmationCallback,
		ResultCode: strconv.Itoa(cb.ResultCode),
		ResultDesc: cb.ResultDesc,
		At:         u.now().UTC(),
	}

	if !cb.Succeeded() {
		return u.rejectFromCallback(ctx, intent, attempt, log)
	}

	if intent.Applied {
		return u.enrich(ctx, intent.ID, attempt, log)
	}
	if cb.Amount > 0 && intent.Amount != nil && cb.Amount != *intent.Amount {
		log.Warn("callback amount differs from bound amount",
			zap.Int64("callback_amount", cb.Amount),
			zap.Int64("intent_amount", *intent.Amount))
	}

	stored, won, err := u.confirm(ctx, intent.ID, attempt, log)
	if err != nil {
		return err
	}
	switch {
	case won:
		return nil
	case stored.Applied:
		return u.enrich(ctx, intent.ID, attempt, log)
	default:
		log.Warn("success callback for an unapplicable intent ignored", zap.String("status", string(stored.Status)))
		return nil
	}
}

// rejectFromCallback is the only place an intent is marked failed: a parsed
// non-zero webhook result is the gateway's definitive answer.
func (u *ReconcilerUseCase) rejectFromCallback(ctx context.Context, intent entities.PaymentIntent, a entities.ApplyAttempt, log *zap.Logger) error {
	if intent.Applied {
		log.Warn("failure callback for an applied intent ignored")
		return nil
	}
	failed, err := u.intents.MarkFailed(ctx, intent.ID, a.ResultCode, a.ResultDesc)
	if errors.Is(err, interfaces.ErrInvalidTransition) {
		log.Info("failure callback after intent settled", zap.String("status", string(failed.Status)))
		return nil
	}
	if err != nil {
		return err
	}
	log.Info("intent failed", zap.String("result_desc", a.ResultDesc))
	publishEvent(ctx, u.publisher, u.logger, intentEvent(interfaces.LedgerEventIntentFailed, failed, a.ResultDesc, a.At))
	return nil
}

func (u *ReconcilerUseCase) enrich(ctx context.Context, intentID string, a entities.ApplyAttempt, log *zap.Logger) error {
	if a.Receipt == "" {
		return nil
	}
	if _, err := u.intents.EnrichReceipt(ctx, intentID, a); err != nil {
		return fmt.Errorf("record receipt: %w", err)
	}
	log.Info("receipt recorded on applied intent", zap.String("receipt", a.Receipt))
	return nil
}

func (u *ReconcilerUseCase) Recheck(ctx context.Context, intentID, userID string) (RecheckResult, error) {
	intent, err := u.loadOwned(ctx, intentID, userID)
	if err != nil {
		return RecheckResult{}, err
	}
	log := u.logger.With(zap.String("intent_id", intent.ID), zap.String("method", string(entities.ConfirmationManualCheck)))

	if intent.Status.IsTerminal() {
		return RecheckResult{Intent: intent, Cached: true, ResultDesc: intent.ResultDesc}, nil
	}
	if intent.Expired(u.now()) {
		return RecheckResult{}, interfaces.ErrIntentExpired
	}
	if intent.Status != entities.IntentStatusPending || intent.CheckoutRequestID == "" {
		return RecheckResult{}, ErrIntentNotInitiated
	}

	q, err := u.gateway.QueryStatus(ctx, intent.Route, intent.CheckoutRequestID)
	if errors.Is(err, interfaces.ErrGatewayThrottled) {
		log.Info("manual recheck throttled")
		return RecheckResult{Intent: intent, Throttled: true}, nil
	}
	if err != nil {
		log.Warn("manual recheck query failed", zap.Error(err))
		return RecheckResult{}, err
	}

	res := RecheckResult{Intent: intent, Outcome: q.Outcome, ResultDesc: q.ResultDesc}
	if q.Outcome != interfaces.QueryOutcomePaid {
		return res, nil
	}

	applied, _, err := u.confirm(ctx, intent.ID, entities.ApplyAttempt{
		Method:     entities.ConfirmationManualCheck,
		ResultCode: q.ResultCode,
		ResultDesc: q.ResultDesc,
		At:         u.now().UTC(),
	}, log)
	if err != nil && !errors.Is(err, ErrLedgerApplyFailed) {
		return RecheckResult{}, err
	}
	res.Intent = applied
	return res, err
}

// PollOnce is one fallback attempt. A not-yet-paid or failed query result
// never fails the intent; only the webhook does that.
func (u *ReconcilerUseCase) PollOnce(ctx context.Context, intentID string) (PollOutcome, error) {
	log := u.logger.With(zap.String("intent_id", intentID), zap.String("method", string(entities.ConfirmationFallback)))

	intent, err := u.intents.GetByID(ctx, intentID)
	if err != nil {
		return PollTransient, err
	}
	if intent.ID == "" || intent.Status.IsTerminal() || intent.Expired(u.now()) || intent.CheckoutRequestID == "" {
		return PollResolved, nil
	}

	q, err := u.gateway.QueryStatus(ctx, intent.Route, intent.CheckoutRequestID)
	switch {
	case errors.Is(err, interfaces.ErrGatewayThrottled):
		log.Warn("fallback poll throttled, halting")
		return PollThrottled, nil
	case err != nil:
		log.Warn("fallback poll query failed", zap.Error(err))
		return PollTransient, err
	}

	switch q.Outcome {
	case interfaces.QueryOutcomeNotYetPaid:
		return PollNotYetPaid, nil
	case interfaces.QueryOutcomeFailed:
		log.Info("fallback poll saw a failed payment, leaving it to the webhook", zap.String("result_code", q.ResultCode))
		return PollFailed, nil
	case interfaces.QueryOutcomePaid:
		_, won, err := u.confirm(ctx, intent.ID, entities.ApplyAttempt{
			Method:     entities.ConfirmationFallback,
			ResultCode: q.ResultCode,
			ResultDesc: q.ResultDesc,
			At:         u.now().UTC(),
		}, log)
		if !won {
			return PollResolved, err
		}
		return PollApplied, err
	default:
		return PollTransient, fmt.Errorf("unexpected query outcome %q", q.Outcome)
	}
}

// confirm runs the apply-once guard and, for the single winner, the ledger
// effect. Losers get the stored intent back untouched.
func (u *ReconcilerUseCase) confirm(ctx context.Context, intentID string, a entities.ApplyAttempt, log *zap.Logger) (entities.PaymentIntent, bool, error) {
	res, err := u.intents.TryApply(ctx, intentID, a)
	if err != nil {
		return entities.PaymentIntent{}, false, err
	}
	if !res.Won {
		log.Info("intent already applied",
			zap.String("winner", string(res.Intent.ConfirmationMethod)),
			zap.String("status", string(res.Intent.Status)))
		return res.Intent, false, nil
	}

	if err := u.applier.Apply(ctx, res.Intent); err != nil {
		log.Error("ledger effect failed after apply guard was taken",
			zap.String("purpose", string(res.Intent.Purpose)),
			zap.Error(err))
		publishEvent(ctx, u.publisher, u.logger, intentEvent(interfaces.LedgerEventApplyFailed, res.Intent, err.Error(), a.At))
		return res.Intent, true, fmt.Errorf("%w: intent %s: %v", ErrLedgerApplyFailed, intentID, err)
	}

	log.Info("intent applied",
		zap.String("purpose", string(res.Intent.Purpose)),
		zap.Int64("amount", res.Intent.AmountValue()))
	publishEvent(ctx, u.publisher, u.logger, intentEvent(interfaces.LedgerEventIntentApplied, res.Intent, "", a.At))
	return res.Intent, true, nil
}

func (u *ReconcilerUseCase) loadOwned(ctx context.Context, intentID, userID string) (entities.PaymentIntent, error) {
	if intentID == "" {
		return entities.PaymentIntent{}, ErrMissingIntentID
	}
	intent, err := u.intents.GetByID(ctx, intentID)
	if err != nil {
		return entities.PaymentIntent{}, err
	}
	if intent.ID == "" {
		return entities.PaymentIntent{}, interfaces.ErrIntentNotFound
	}
	if userID != "" && intent.UserID != userID {
		return entities.PaymentIntent{}, ErrIntentNotOwned
	}
	return intent, nil
}

func (u *ReconcilerUseCase) archiveCallback(ctx context.Context, cb CallbackResult) {
	if u.archive == nil || len(cb.Raw) == 0 {
		return
	}
	now := u.now().UTC()
	ref := cb.CheckoutRequestID
	if ref == "" {
		ref = "unknown"
	}
	key := fmt.Sprintf("callbacks/%s/%s-%d.json", now.Format("2006/01/02"), ref, now.UnixNano())
	if err := u.archive.Store(ctx, key, cb.Raw); err != nil {
		u.logger.Warn("callback archive failed", zap.String("key", key), zap.Error(err))
	}
}
