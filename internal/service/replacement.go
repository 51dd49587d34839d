package service

import (
	"context"
	"fmt"
	"time"

	"labourhub/internal/model"
	"labourhub/pkg/config"
	"labourhub/pkg/interfaces"

	"github.com/google/uuid"
)

// ReplacementEngine proposes and executes worker substitutions
type ReplacementEngine struct {
	store          interfaces.Store
	availability   *AvailabilityResolver
	logs           *LabourLogService
	scorer         *ReliabilityScorer
	maxSuggestions int
	now            func() time.Time
}

// NewReplacementEngine creates a new replacement engine
func NewReplacementEngine(store interfaces.Store, availability *AvailabilityResolver, logs *LabourLogService, scorer *ReliabilityScorer) *ReplacementEngine {
	return &ReplacementEngine{
		store:          store,
		availability:   availability,
		logs:           logs,
		scorer:         scorer,
		maxSuggestions: config.DefaultMaxSuggestions,
		now:            time.Now,
	}
}

// SetMaxSuggestions caps each suggestion list
func (e *ReplacementEngine) SetMaxSuggestions(n int) {
	if n > 0 {
		e.maxSuggestions = n
	}
}

func requireReplaceable(req *model.LabourRequest) error {
	if req.Status != model.RequestStatusAssigned && req.Status != model.RequestStatusInProgress {
		return model.NewInvalidTransitionError("replacements are only possible while assigned or in progress, request is %s", req.Status)
	}
	return nil
}

// Suggest returns standby candidates first, then other available workers with the
// request's skill, each ranked by reliability. Workers already active on the request
// and the cancelled worker are excluded.
func (e *ReplacementEngine) Suggest(ctx context.Context, req *model.LabourRequest, cancelledWorkerID string, actor model.Actor) (*model.Suggestions, error) {
	if err := requireReplaceable(req); err != nil {
		return nil, err
	}
	if cancelledWorkerID != "" && req.LatestSlotFor(cancelledWorkerID) == nil {
		return nil, model.NewSlotNotFoundError("worker %s has no slot on request %s", cancelledWorkerID, req.ID)
	}

	excluded := func(id string) bool {
		return id == cancelledWorkerID || req.ActiveSlotFor(id) != nil
	}

	pool, err := e.store.Workers().ListByCoordinator(ctx, req.CoordinatorID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	ids := make([]string, 0, len(pool))
	for _, w := range pool {
		ids = append(ids, w.ID)
	}
	booked, err := e.store.Requests().BookedWorkers(ctx, req.WorkDate, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}

	standby := make([]*model.Worker, 0)
	standbySet := make(map[string]bool)
	for _, w := range pool {
		if !isStandbyFor(req, w) || excluded(w.ID) || !w.Availability.On(req.WorkDate.Weekday()) {
			continue
		}
		if _, taken := booked[w.ID]; taken {
			continue
		}
		standby = append(standby, w)
		standbySet[w.ID] = true
	}

	eligible, err := e.availability.FindAvailable(ctx, req.CoordinatorID, req.WorkDate, req.WorkType)
	if err != nil {
		return nil, err
	}
	available := make([]*model.Worker, 0, len(eligible))
	for _, w := range eligible {
		if !standbySet[w.ID] && !excluded(w.ID) {
			available = append(available, w)
		}
	}

	sortByReliability(standby)
	sortByReliability(available)
	out := &model.Suggestions{
		Standby:   truncateWorkers(standby, e.maxSuggestions),
		Available: truncateWorkers(available, e.maxSuggestions),
	}

	err = e.logs.Record(ctx, req, model.EventReplacementSuggested, actor, model.EventData{
		WorkerID:    cancelledWorkerID,
		WorkerCount: model.IntPtr(len(out.Standby) + len(out.Available)),
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Replace marks the cancelled worker's slot replaced and appends an assigned slot for
// the new worker. An active slot is cancelled and replaced in one step; a slot that was
// already cancelled or marked no-show is replaced only if the headcount has room.
// It must run inside the transaction holding req; the caller persists req afterwards.
func (e *ReplacementEngine) Replace(ctx context.Context, req *model.LabourRequest, cancelledWorkerID, newWorkerID, reason string, actor model.Actor) error {
	if err := requireReplaceable(req); err != nil {
		return err
	}
	if cancelledWorkerID == "" || newWorkerID == "" {
		return model.NewValidationError("cancelled_worker_id and new_worker_id are required")
	}
	if cancelledWorkerID == newWorkerID {
		return model.NewValidationError("replacement must be a different worker")
	}

	idx := -1
	for i := len(req.Slots) - 1; i >= 0; i-- {
		if req.Slots[i].WorkerID == cancelledWorkerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.NewSlotNotFoundError("worker %s has no slot on request %s", cancelledWorkerID, req.ID)
	}
	old := req.Slots[idx]
	wasActive := old.Status.IsPending()
	switch {
	case wasActive:
	case (old.Status == model.SlotStatusCancelled || old.Status == model.SlotStatusNoShow) && old.ReplacedBy == "":
		if req.ActiveCount() >= req.WorkersNeeded {
			return model.NewValidationError("request already has its full headcount of %d", req.WorkersNeeded)
		}
	default:
		return model.NewSlotNotFoundError("slot of worker %s is %s and cannot be replaced", cancelledWorkerID, old.Status)
	}

	if req.ActiveSlotFor(newWorkerID) != nil {
		return model.NewValidationError("worker %s is already assigned to this request", newWorkerID)
	}
	nw, err := e.store.Workers().Get(ctx, newWorkerID)
	if err != nil {
		return fmt.Errorf("failed to get worker %s: %w", newWorkerID, err)
	}
	if nw == nil {
		return model.NewNotFoundError("worker %s not found", newWorkerID)
	}
	if nw.CoordinatorID != req.CoordinatorID {
		return model.NewValidationError("worker %s does not belong to coordinator %s", newWorkerID, req.CoordinatorID)
	}
	if !nw.IsActive {
		return model.NewWorkerConflictError("worker %s is no longer active", newWorkerID)
	}
	if !nw.HasSkill(req.WorkType) && !isStandbyFor(req, nw) {
		return model.NewValidationError("worker %s does not have skill %s", newWorkerID, req.WorkType)
	}
	if err := e.availability.CheckBookable(ctx, req, nw); err != nil {
		return err
	}

	now := e.now()
	replaced := old
	replaced.Status = model.SlotStatusReplaced
	replaced.ReplacedBy = newWorkerID
	replaced.ReplacedAt = &now
	if wasActive {
		replaced.CancelledAt = &now
		replaced.CancellationReason = reason
	}
	// release the old booking before the new one is written
	if err := e.store.Requests().UpdateSlot(ctx, &replaced, old.Status); err != nil {
		return err
	}
	req.Slots[idx] = replaced

	slot := model.Slot{
		ID:         uuid.New().String(),
		RequestID:  req.ID,
		WorkerID:   newWorkerID,
		Seq:        req.NextSeq(),
		Status:     model.SlotStatusAssigned,
		AssignedAt: now,
	}
	if err := e.store.Requests().InsertSlot(ctx, &slot, req.WorkDate); err != nil {
		return err
	}
	req.Slots = append(req.Slots, slot)
	req.StandbyWorkerIDs = removeID(req.StandbyWorkerIDs, newWorkerID)

	if wasActive {
		err := e.logs.Record(ctx, req, model.EventWorkerCancelled, actor, model.EventData{
			WorkerID: cancelledWorkerID,
			Reason:   reason,
		})
		if err != nil {
			return err
		}
		if err := e.scorer.WorkerDropped(ctx, cancelledWorkerID); err != nil {
			return err
		}
	}
	err = e.logs.Record(ctx, req, model.EventReplacementMade, actor, model.EventData{
		WorkerID:         newWorkerID,
		PreviousWorkerID: cancelledWorkerID,
		Reason:           reason,
	})
	if err != nil {
		return err
	}
	return e.scorer.Replacement(ctx, req.CoordinatorID)
}

func truncateWorkers(ws []*model.Worker, n int) []*model.Worker {
	if n > 0 && len(ws) > n {
		return ws[:n]
	}
	return ws
}
