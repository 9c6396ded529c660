package usecase

import (
	"context"
	"time"

	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// publishEvent is best effort: a broker outage never undoes a ledger write.
func publishEvent(ctx context.Context, pub interfaces.ILedgerEventPublisher, logger *zap.Logger, ev interfaces.LedgerEvent) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, ev); err != nil {
		logger.Warn("ledger event publish failed",
			zap.String("type", string(ev.Type)),
			zap.String("intent_id", ev.IntentID),
			zap.Error(err))
	}
}

func intentEvent(t interfaces.LedgerEventType, in entities.PaymentIntent, reason string, at time.Time) interfaces.LedgerEvent {
	return interfaces.LedgerEvent{
		Type:       t,
		IntentID:   in.ID,
		Purpose:    string(in.Purpose),
		SubjectRef: in.SubjectRef,
		UserID:     in.UserID,
		Amount:     in.AmountValue(),
		Method:     string(in.ConfirmationMethod),
		Receipt:    in.Receipt,
		Reason:     reason,
		OccurredAt: at.UTC(),
	}
}
