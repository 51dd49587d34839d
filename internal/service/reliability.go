package service

import (
	"context"
	"fmt"
	"math"

	"labourhub/internal/model"
	"labourhub/pkg/interfaces"
	"labourhub/pkg/logger"
)

// ReliabilityScore is round(100 * successes / commitments) clamped to [0,100].
// With no resolved commitment the default score applies.
func ReliabilityScore(successes, commitments int) int {
	if commitments <= 0 {
		return model.DefaultReliabilityScore
	}
	if successes < 0 {
		successes = 0
	}
	score := int(math.Round(100 * float64(successes) / float64(commitments)))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ReliabilityScorer applies outcome counters and recomputes scores inline
type ReliabilityScorer struct {
	store interfaces.Store
}

// NewReliabilityScorer creates a new reliability scorer
func NewReliabilityScorer(store interfaces.Store) *ReliabilityScorer {
	return &ReliabilityScorer{store: store}
}

func (s *ReliabilityScorer) applyCoordinator(ctx context.Context, id string, d model.OutcomeDelta) error {
	c, err := s.store.Coordinators().ApplyOutcome(ctx, id, d)
	if err != nil {
		return fmt.Errorf("failed to apply coordinator outcome: %w", err)
	}
	score := ReliabilityScore(c.SuccessfulCompletions, c.TotalRequestsHandled)
	if score == c.ReliabilityScore {
		return nil
	}
	logger.DebugCtx(ctx, "coordinator %s reliability %d -> %d", id, c.ReliabilityScore, score)
	return s.store.Coordinators().SetReliability(ctx, id, score)
}

func (s *ReliabilityScorer) applyWorker(ctx context.Context, id string, d model.OutcomeDelta) error {
	w, err := s.store.Workers().ApplyOutcome(ctx, id, d)
	if err != nil {
		return fmt.Errorf("failed to apply worker outcome: %w", err)
	}
	score := ReliabilityScore(w.CompletedAssignments, w.TotalAssignments)
	if score == w.ReliabilityScore {
		return nil
	}
	logger.DebugCtx(ctx, "worker %s reliability %d -> %d", id, w.ReliabilityScore, score)
	return s.store.Workers().SetReliability(ctx, id, score)
}

// RequestCompleted credits the coordinator and every worker whose slot completed
func (s *ReliabilityScorer) RequestCompleted(ctx context.Context, req *model.LabourRequest) error {
	if err := s.applyCoordinator(ctx, req.CoordinatorID, model.OutcomeDelta{Handled: 1, Successful: 1}); err != nil {
		return err
	}
	for _, slot := range req.Slots {
		if slot.Status != model.SlotStatusCompleted {
			continue
		}
		if err := s.applyWorker(ctx, slot.WorkerID, model.OutcomeDelta{Handled: 1, Completed: 1}); err != nil {
			return err
		}
	}
	return nil
}

// RequestFailed records a failed commitment for the coordinator
func (s *ReliabilityScorer) RequestFailed(ctx context.Context, req *model.LabourRequest) error {
	return s.applyCoordinator(ctx, req.CoordinatorID, model.OutcomeDelta{Handled: 1, Failed: 1})
}

// RequestCancelled charges the coordinator only when it withdrew after accepting.
// A farmer cancellation changes no counter.
func (s *ReliabilityScorer) RequestCancelled(ctx context.Context, req *model.LabourRequest, by model.ActorType, prior model.RequestStatus) error {
	if by != model.ActorCoordinator || prior == model.RequestStatusPending {
		return nil
	}
	return s.applyCoordinator(ctx, req.CoordinatorID, model.OutcomeDelta{Handled: 1, Failed: 1})
}

// Replacement credits the coordinator for providing a substitute
func (s *ReliabilityScorer) Replacement(ctx context.Context, coordinatorID string) error {
	return s.applyCoordinator(ctx, coordinatorID, model.OutcomeDelta{Replacement: 1})
}

// WorkerDropped records a broken commitment (cancellation or no-show) for a worker
func (s *ReliabilityScorer) WorkerDropped(ctx context.Context, workerID string) error {
	return s.applyWorker(ctx, workerID, model.OutcomeDelta{Handled: 1, Cancelled: 1})
}

// RescanResult summary of one full recomputation
type RescanResult struct {
	Coordinators      int
	Workers           int
	ScoresChanged     int
	WorkerCountsFixed int
}

// Rescan recomputes every score from the stored counters and repairs worker counts.
// Errors on one entity are logged and do not stop the scan.
func (s *ReliabilityScorer) Rescan(ctx context.Context) (*RescanResult, error) {
	result := &RescanResult{}

	coordinators, err := s.store.Coordinators().ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list coordinators: %w", err)
	}
	for _, c := range coordinators {
		result.Coordinators++
		count, err := s.store.Coordinators().RecountWorkers(ctx, c.ID)
		if err != nil {
			logger.WarnCtx(ctx, "rescan: failed to recount workers for coordinator %s: %v", c.ID, err)
			continue
		}
		if count != c.WorkerCount {
			result.WorkerCountsFixed++
		}
		score := ReliabilityScore(c.SuccessfulCompletions, c.TotalRequestsHandled)
		if score != c.ReliabilityScore {
			if err := s.store.Coordinators().SetReliability(ctx, c.ID, score); err != nil {
				logger.WarnCtx(ctx, "rescan: failed to update coordinator %s score: %v", c.ID, err)
				continue
			}
			result.ScoresChanged++
		}
	}

	workers, err := s.store.Workers().ListAll(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list workers: %w", err)
	}
	for _, w := range workers {
		result.Workers++
		score := ReliabilityScore(w.CompletedAssignments, w.TotalAssignments)
		if score == w.ReliabilityScore {
			continue
		}
		if err := s.store.Workers().SetReliability(ctx, w.ID, score); err != nil {
			logger.WarnCtx(ctx, "rescan: failed to update worker %s score: %v", w.ID, err)
			continue
		}
		result.ScoresChanged++
	}
	return result, nil
}
