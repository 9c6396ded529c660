package interfaces

import (
	"context"
	"errors"
	"mobilepay_ledger/internal/domain/entities"
)

var (
	ErrPodNotFound               = errors.New("savings pod not found")
	ErrPodInactive               = errors.New("savings pod is not active")
	ErrNotPodMember              = errors.New("user is not an active pod member")
	ErrInsufficientMemberBalance = errors.New("withdrawal exceeds member balance")
	ErrInsufficientPodBalance    = errors.New("withdrawal exceeds pod balance")
)

// IPodRepository persists savings pods. Balance mutations are single
// conditional updates scoped to one pod.
type IPodRepository interface {
	Create(ctx context.Context, pod entities.SavingsPod) (entities.SavingsPod, error)
	GetByID(ctx context.Context, id string) (entities.SavingsPod, error)
	ApplyContribution(ctx context.Context, podID string, c entities.Contribution) (entities.SavingsPod, error)
	ApplyWithdrawal(ctx context.Context, podID string, w entities.Withdrawal) (entities.SavingsPod, error)
}
