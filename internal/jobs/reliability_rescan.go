package jobs

import (
	"context"
	"fmt"
	"time"

	"labourhub/internal/service"
	"labourhub/pkg/lock"
	"labourhub/pkg/logger"
)

// ReliabilityRescanLockKey redis key guarding the rescan across instances
const ReliabilityRescanLockKey = "labourhub:jobs:reliability-rescan"

type rescanner interface {
	Rescan(ctx context.Context) (*service.RescanResult, error)
}

// ReliabilityRescanJob recomputes stored reliability scores and worker counts
type ReliabilityRescanJob struct {
	interval time.Duration
	scorer   rescanner
	lock     lock.Locker

	last *service.RescanResult
}

// NewReliabilityRescanJob creates the rescan job; lock may be nil
func NewReliabilityRescanJob(interval time.Duration, scorer rescanner, l lock.Locker) *ReliabilityRescanJob {
	return &ReliabilityRescanJob{interval: interval, scorer: scorer, lock: l}
}

func (j *ReliabilityRescanJob) Name() string { return "reliability-rescan" }

func (j *ReliabilityRescanJob) Interval() time.Duration { return j.interval }

func (j *ReliabilityRescanJob) AlignToInterval() bool { return j.interval >= time.Hour }

// LastResult summary of the most recent completed run on this instance
func (j *ReliabilityRescanJob) LastResult() *service.RescanResult { return j.last }

func (j *ReliabilityRescanJob) Run(ctx context.Context) error {
	if j.scorer == nil {
		return fmt.Errorf("reliability scorer not configured")
	}

	if j.lock != nil {
		acquired, err := j.lock.TryLock(ctx)
		if err != nil || !acquired {
			logger.DebugCtx(ctx, "another instance is running the reliability rescan, skipping this cycle")
			return nil
		}
		defer j.lock.Unlock(ctx)
	}

	start := time.Now()
	result, err := j.scorer.Rescan(ctx)
	if err != nil {
		return fmt.Errorf("reliability rescan failed: %w", err)
	}
	j.last = result
	logger.InfoCtx(ctx, "reliability rescan done in %v: coordinators=%d workers=%d scores_changed=%d worker_counts_fixed=%d",
		time.Since(start), result.Coordinators, result.Workers, result.ScoresChanged, result.WorkerCountsFixed)
	return nil
}
