package interfaces

import (
	"context"
	"mobilepay_ledger/internal/domain/entities"
	"time"
)

// IReconcileJobRepository stores the durable fallback-poll schedule.
type IReconcileJobRepository interface {
	// Schedule inserts the job unless one already exists for the intent.
	Schedule(ctx context.Context, job entities.ReconcileJob) error
	Get(ctx context.Context, intentID string) (entities.ReconcileJob, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]entities.ReconcileJob, error)
	// Claim takes the lease when the job is scheduled, due and unleased.
	Claim(ctx context.Context, intentID string, now, leaseUntil time.Time) (entities.ReconcileJob, bool, error)
	Reschedule(ctx context.Context, intentID string, nextRunAt time.Time, attemptsLeft int, lastResult string) error
	Finish(ctx context.Context, intentID string, state entities.JobState, lastResult string) error
}
