package entities

import "time"

type JobState string

const (
	JobStateScheduled JobState = "scheduled"
	JobStateHalted    JobState = "halted"
	JobStateDone      JobState = "done"
)

// ReconcileJob is the durable fallback-poll schedule of one intent.
//
// Storage model (DynamoDB):
//   - PK: intent_id
//   - GSI (state-next_run_at-index): state, next_run_at
//
// A runner must hold the lease (LeaseUntil in the future, written by a
// conditional update) before querying the gateway for the job.
type ReconcileJob struct {
	IntentID     string        `json:"intent_id"`
	State        JobState      `json:"state"`
	NextRunAt    time.Time     `json:"next_run_at"`
	AttemptsLeft int           `json:"attempts_left"`
	Interval     time.Duration `json:"interval"`
	LastResult   string        `json:"last_result,omitempty"`
	LeaseUntil   time.Time     `json:"lease_until"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (j ReconcileJob) Due(now time.Time) bool {
	return j.State == JobStateScheduled && !j.NextRunAt.After(now) && !j.LeaseUntil.After(now)
}
