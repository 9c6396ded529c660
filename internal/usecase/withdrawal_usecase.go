package usecase

import (
	"context"
	"strings"
	"time"

	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MemberBalance struct {
	PodID            string
	UserID           string
	Available        int64
	TotalContributed int64
	TotalWithdrawn   int64
	PodBalance       int64
	Currency         string
}

type WithdrawalReceipt struct {
	Withdrawal entities.Withdrawal
	Balance    MemberBalance
}

// IWithdrawalUseCase moves money out of a pod. Both balance checks and both
// decrements happen in one conditional write in the repository.
type IWithdrawalUseCase interface {
	RequestWithdrawal(ctx context.Context, podID, userID string, amount int64) (WithdrawalReceipt, error)
	GetMemberBalance(ctx context.Context, podID, userID string) (MemberBalance, error)
}

type WithdrawalUseCase struct {
	pods      interfaces.IPodRepository
	publisher interfaces.ILedgerEventPublisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

var _ IWithdrawalUseCase = (*WithdrawalUseCase)(nil)

func NewWithdrawalUseCase(pods interfaces.IPodRepository, publisher interfaces.ILedgerEventPublisher, logger *zap.Logger) *WithdrawalUseCase {
	return &WithdrawalUseCase{
		pods:      pods,
		publisher: publisher,
		logger:    logger.With(zap.String("component", "withdrawals")),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (u *WithdrawalUseCase) RequestWithdrawal(ctx context.Context, podID, userID string, amount int64) (WithdrawalReceipt, error) {
	podID = strings.TrimSpace(podID)
	switch {
	case strings.TrimSpace(userID) == "":
		return WithdrawalReceipt{}, ErrMissingUser
	case podID == "":
		return WithdrawalReceipt{}, ErrMissingPod
	}
	if err := validateAmount(amount); err != nil {
		return WithdrawalReceipt{}, err
	}

	w := entities.Withdrawal{
		ID:        u.newID(),
		UserID:    userID,
		Amount:    amount,
		Status:    entities.WithdrawalStatusApproved,
		CreatedAt: u.now().UTC(),
	}
	log := u.logger.With(zap.String("pod_id", podID), zap.String("user_id", userID), zap.Int64("amount", amount))

	pod, err := u.pods.ApplyWithdrawal(ctx, podID, w)
	if err != nil {
		log.Info("withdrawal rejected", zap.Error(err))
		return WithdrawalReceipt{}, err
	}
	log.Info("withdrawal approved",
		zap.String("withdrawal_id", w.ID),
		zap.Int64("pod_balance", pod.CurrentBalance))

	publishEvent(ctx, u.publisher, u.logger, interfaces.LedgerEvent{
		Type:       interfaces.LedgerEventWithdrawalApproved,
		Purpose:    string(entities.PurposeWithdrawalPayout),
		SubjectRef: podID,
		UserID:     userID,
		Amount:     amount,
		Reason:     w.ID,
		OccurredAt: w.CreatedAt,
	})

	return WithdrawalReceipt{Withdrawal: w, Balance: memberBalance(pod, userID)}, nil
}

func (u *WithdrawalUseCase) GetMemberBalance(ctx context.Context, podID, userID string) (MemberBalance, error) {
	podID = strings.TrimSpace(podID)
	if podID == "" {
		return MemberBalance{}, ErrMissingPod
	}
	if strings.TrimSpace(userID) == "" {
		return MemberBalance{}, ErrMissingUser
	}

	pod, err := u.pods.GetByID(ctx, podID)
	if err != nil {
		return MemberBalance{}, err
	}
	if pod.ID == "" {
		return MemberBalance{}, interfaces.ErrPodNotFound
	}
	if _, ok := pod.Members[userID]; !ok {
		return MemberBalance{}, interfaces.ErrNotPodMember
	}
	return memberBalance(pod, userID), nil
}

func memberBalance(pod entities.SavingsPod, userID string) MemberBalance {
	m := pod.Members[userID]
	return MemberBalance{
		PodID:            pod.ID,
		UserID:           userID,
		Available:        m.Available,
		TotalContributed: m.TotalContributed,
		TotalWithdrawn:   m.TotalWithdrawn,
		PodBalance:       pod.CurrentBalance,
		Currency:         pod.Currency,
	}
}
