package memory

import (
	"context"
	"fmt"
	"sync"

	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase/interfaces"
)

// PodStore keeps savings pods in memory; each pod mutation is one locked section.
type PodStore struct {
	mu   sync.Mutex
	pods map[string]entities.SavingsPod
}

var _ interfaces.IPodRepository = (*PodStore)(nil)

func NewPodStore() *PodStore {
	return &PodStore{pods: make(map[string]entities.SavingsPod)}
}

func (s *PodStore) Create(_ context.Context, pod entities.SavingsPod) (entities.SavingsPod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pods[pod.ID]; exists {
		return entities.SavingsPod{}, fmt.Errorf("pod %s already exists", pod.ID)
	}
	s.pods[pod.ID] = clonePod(pod)
	return pod, nil
}

func (s *PodStore) GetByID(_ context.Context, id string) (entities.SavingsPod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pods[id]
	if !ok {
		return entities.SavingsPod{}, nil
	}
	return clonePod(p), nil
}

func (s *PodStore) ApplyContribution(_ context.Context, podID string, c entities.Contribution) (entities.SavingsPod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pods[podID]
	switch {
	case !ok:
		return entities.SavingsPod{}, interfaces.ErrPodNotFound
	case !p.IsActive():
		return entities.SavingsPod{}, interfaces.ErrPodInactive
	case !p.IsActiveMember(c.UserID):
		return entities.SavingsPod{}, interfaces.ErrNotPodMember
	}

	p = clonePod(p)
	m := p.Members[c.UserID]
	m.TotalContributed += c.Amount
	m.Available += c.Amount
	p.Members[c.UserID] = m
	p.CurrentBalance += c.Amount
	p.TotalContributed += c.Amount
	p.ContributionCount++
	p.Contributions = append(p.Contributions, c)
	p.UpdatedAt = c.CreatedAt
	s.pods[podID] = p
	return clonePod(p), nil
}

func (s *PodStore) ApplyWithdrawal(_ context.Context, podID string, w entities.Withdrawal) (entities.SavingsPod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pods[podID]
	switch {
	case !ok:
		return entities.SavingsPod{}, interfaces.ErrPodNotFound
	case !p.IsActive():
		return entities.SavingsPod{}, interfaces.ErrPodInactive
	case !p.IsActiveMember(w.UserID):
		return entities.SavingsPod{}, interfaces.ErrNotPodMember
	case p.MemberAvailable(w.UserID) < w.Amount:
		return entities.SavingsPod{}, interfaces.ErrInsufficientMemberBalance
	case p.CurrentBalance < w.Amount:
		return entities.SavingsPod{}, interfaces.ErrInsufficientPodBalance
	}

	p = clonePod(p)
	m := p.Members[w.UserID]
	m.TotalWithdrawn += w.Amount
	m.Available -= w.Amount
	p.Members[w.UserID] = m
	p.CurrentBalance -= w.Amount
	p.Withdrawals = append(p.Withdrawals, w)
	p.UpdatedAt = w.CreatedAt
	s.pods[podID] = p
	return clonePod(p), nil
}

func clonePod(in entities.SavingsPod) entities.SavingsPod {
	out := in
	out.Members = make(map[string]entities.PodMember, len(in.Members))
	for k, v := range in.Members {
		out.Members[k] = v
	}
	out.Contributions = append([]entities.Contribution(nil), in.Contributions...)
	out.Withdrawals = append([]entities.Withdrawal(nil), in.Withdrawals...)
	return out
}
