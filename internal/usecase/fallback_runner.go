package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// IntentPoller is the one-shot status check a fallback job runs.
type IntentPoller interface {
	PollOnce(ctx context.Context, intentID string) (PollOutcome, error)
}

type FallbackConfig struct {
	GraceDelay    time.Duration
	Interval      time.Duration
	MaxAttempts   int
	SweepInterval time.Duration
	LeaseDuration time.Duration
	BatchSize     int
}

// FallbackRunner drives the persisted poll schedule. Jobs live in the store,
// so a restarted process picks up where the previous one stopped, and the
// lease keeps two runners off the same job.
type FallbackRunner struct {
	jobs   interfaces.IReconcileJobRepository
	poller IntentPoller
	cfg    FallbackConfig
	logger *zap.Logger
	now    func() time.Time

	stopOnce sync.Once
	done     chan struct{}
}

var _ interfaces.IReconcileScheduler = (*FallbackRunner)(nil)

func NewFallbackRunner(jobs interfaces.IReconcileJobRepository, poller IntentPoller, cfg FallbackConfig, logger *zap.Logger) *FallbackRunner {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.LeaseDuration <= 0 {
		cfg.LeaseDuration = cfg.Interval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 25
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Second
	}
	return &FallbackRunner{
		jobs:   jobs,
		poller: poller,
		cfg:    cfg,
		logger: logger.With(zap.String("component", "fallback_runner")),
		now:    time.Now,
		done:   make(chan struct{}),
	}
}

// SetPoller closes the construction cycle between the runner (the checkout
// scheduler) and the reconciler (its poller).
func (r *FallbackRunner) SetPoller(p IntentPoller) {
	r.poller = p
}

// Schedule creates the job once per intent; the first run waits out the
// grace delay so the webhook gets a chance to arrive.
func (r *FallbackRunner) Schedule(ctx context.Context, intentID string) error {
	now := r.now().UTC()
	err := r.jobs.Schedule(ctx, entities.ReconcileJob{
		IntentID:     intentID,
		State:        entities.JobStateScheduled,
		NextRunAt:    now.Add(r.cfg.GraceDelay),
		AttemptsLeft: r.cfg.MaxAttempts,
		Interval:     r.cfg.Interval,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("schedule fallback for %s: %w", intentID, err)
	}
	return nil
}

// Start sweeps on a ticker until ctx is cancelled or Stop is called.
func (r *FallbackRunner) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.cfg.SweepInterval)
		defer ticker.Stop()
		r.logger.Info("fallback runner started", zap.Duration("sweep_interval", r.cfg.SweepInterval))
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.done:
				return
			case <-ticker.C:
				if _, err := r.Sweep(ctx); err != nil {
					r.logger.Error("fallback sweep failed", zap.Error(err))
				}
			}
		}
	}()
}

func (r *FallbackRunner) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

// Sweep runs every due job once and returns how many it claimed.
func (r *FallbackRunner) Sweep(ctx context.Context) (int, error) {
	now := r.now().UTC()
	due, err := r.jobs.ListDue(ctx, now, r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	ran := 0
	for _, j := range due {
		if ctx.Err() != nil {
			return ran, ctx.Err()
		}
		job, ok, err := r.jobs.Claim(ctx, j.IntentID, now, now.Add(r.cfg.LeaseDuration))
		if err != nil {
			r.logger.Warn("claim failed", zap.String("intent_id", j.IntentID), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		ran++
		r.runJob(ctx, job)
	}
	return ran, nil
}

func (r *FallbackRunner) runJob(ctx context.Context, job entities.ReconcileJob) {
	log := r.logger.With(
		zap.String("intent_id", job.IntentID),
		zap.Int("attempt", r.cfg.MaxAttempts-job.AttemptsLeft+1))

	outcome, err := r.poller.PollOnce(ctx, job.IntentID)
	result := string(outcome)
	if err != nil {
		result = fmt.Sprintf("%s: %v", outcome, err)
	}

	var ferr error
	switch outcome {
	case PollThrottled:
		log.Warn("fallback halted on throttle")
		ferr = r.jobs.Finish(ctx, job.IntentID, entities.JobStateHalted, result)
	case PollApplied, PollResolved, PollFailed:
		log.Info("fallback job finished", zap.String("outcome", result))
		ferr = r.jobs.Finish(ctx, job.IntentID, entities.JobStateDone, result)
	case PollNotYetPaid, PollTransient:
		left := job.AttemptsLeft - 1
		if left <= 0 {
			log.Info("fallback attempts exhausted", zap.String("outcome", result))
			ferr = r.jobs.Finish(ctx, job.IntentID, entities.JobStateDone, "exhausted: "+result)
			break
		}
		interval := job.Interval
		if interval <= 0 {
			interval = r.cfg.Interval
		}
		ferr = r.jobs.Reschedule(ctx, job.IntentID, r.now().UTC().Add(interval), left, result)
	default:
		log.Error("unexpected poll outcome", zap.String("outcome", result))
		ferr = r.jobs.Finish(ctx, job.IntentID, entities.JobStateHalted, result)
	}
	if ferr != nil {
		log.Error("fallback job state write failed", zap.Error(ferr))
	}
}
