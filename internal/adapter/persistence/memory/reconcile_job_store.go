package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase/interfaces"
)

type ReconcileJobStore struct {
	mu   sync.Mutex
	jobs map[string]entities.ReconcileJob
	now  func() time.Time
}

var _ interfaces.IReconcileJobRepository = (*ReconcileJobStore)(nil)

func NewReconcileJobStore() *ReconcileJobStore {
	return &ReconcileJobStore{jobs: make(map[string]entities.ReconcileJob), now: time.Now}
}

func (s *ReconcileJobStore) Schedule(_ context.Context, job entities.ReconcileJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.IntentID]; exists {
		return nil
	}
	s.jobs[job.IntentID] = job
	return nil
}

func (s *ReconcileJobStore) Get(_ context.Context, intentID string) (entities.ReconcileJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[intentID], nil
}

func (s *ReconcileJobStore) ListDue(_ context.Context, now time.Time, limit int) ([]entities.ReconcileJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	due := make([]entities.ReconcileJob, 0)
	for _, j := range s.jobs {
		if j.Due(now) {
			due = append(due, j)
		}
	}
	sort.Slice(due, func(a, b int) bool { return due[a].NextRunAt.Before(due[b].NextRunAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *ReconcileJobStore) Claim(_ context.Context, intentID string, now, leaseUntil time.Time) (entities.ReconcileJob, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[intentID]
	if !ok || !j.Due(now) {
		return entities.ReconcileJob{}, false, nil
	}
	j.LeaseUntil = leaseUntil
	j.UpdatedAt = now
	s.jobs[intentID] = j
	return j, true, nil
}

func (s *ReconcileJobStore) Reschedule(_ context.Context, intentID string, nextRunAt time.Time, attemptsLeft int, lastResult string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[intentID]
	if !ok || j.State != entities.JobStateScheduled {
		return nil
	}
	j.NextRunAt = nextRunAt
	j.AttemptsLeft = attemptsLeft
	j.LastResult = lastResult
	j.LeaseUntil = time.Time{}
	j.UpdatedAt = s.now()
	s.jobs[intentID] = j
	return nil
}

func (s *ReconcileJobStore) Finish(_ context.Context, intentID string, state entities.JobState, lastResult string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[intentID]
	if !ok {
		return nil
	}
	j.State = state
	j.LastResult = lastResult
	j.LeaseUntil = time.Time{}
	j.UpdatedAt = s.now()
	s.jobs[intentID] = j
	return nil
}
