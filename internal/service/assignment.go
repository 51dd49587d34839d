package service

import (
	"context"
	"fmt"
	"time"

	"labourhub/internal/model"
	"labourhub/pkg/interfaces"

	"github.com/google/uuid"
)

// AssignmentManager binds workers to a request
type AssignmentManager struct {
	store        interfaces.Store
	availability *AvailabilityResolver
	logs         *LabourLogService
	now          func() time.Time
}

// NewAssignmentManager creates a new assignment manager
func NewAssignmentManager(store interfaces.Store, availability *AvailabilityResolver, logs *LabourLogService) *AssignmentManager {
	return &AssignmentManager{store: store, availability: availability, logs: logs, now: time.Now}
}

// Assign creates one assigned slot per worker and records standby workers.
// It must run inside the transaction holding req; the caller persists req afterwards.
func (m *AssignmentManager) Assign(ctx context.Context, req *model.LabourRequest, workerIDs, standbyIDs []string, actor model.Actor) error {
	if req.Status != model.RequestStatusAccepted && req.Status != model.RequestStatusAssigned {
		return model.NewInvalidTransitionError("cannot assign workers to a %s request", req.Status)
	}
	if len(workerIDs) == 0 && len(standbyIDs) == 0 {
		return model.NewValidationError("worker_ids or standby_worker_ids is required")
	}
	if err := checkDistinct(workerIDs); err != nil {
		return err
	}
	if active := req.ActiveCount(); active+len(workerIDs) > req.WorkersNeeded {
		return model.NewValidationError("request needs %d workers, %d already assigned, cannot add %d",
			req.WorkersNeeded, active, len(workerIDs))
	}

	workers := make([]*model.Worker, 0, len(workerIDs))
	for _, id := range workerIDs {
		if req.ActiveSlotFor(id) != nil {
			return model.NewValidationError("worker %s is already assigned to this request", id)
		}
		w, err := m.poolWorker(ctx, req, id)
		if err != nil {
			return err
		}
		if !w.HasSkill(req.WorkType) {
			return model.NewValidationError("worker %s does not have skill %s", id, req.WorkType)
		}
		if err := m.availability.CheckBookable(ctx, req, w); err != nil {
			return err
		}
		workers = append(workers, w)
	}

	standby, err := m.mergeStandby(ctx, req, standbyIDs, workerIDs)
	if err != nil {
		return err
	}

	for _, w := range workers {
		slot := model.Slot{
			ID:         uuid.New().String(),
			RequestID:  req.ID,
			WorkerID:   w.ID,
			Seq:        req.NextSeq(),
			Status:     model.SlotStatusAssigned,
			AssignedAt: m.now(),
		}
		// the unique booking write is the final guard against a concurrent assign
		if err := m.store.Requests().InsertSlot(ctx, &slot, req.WorkDate); err != nil {
			return err
		}
		req.Slots = append(req.Slots, slot)

		if err := m.logs.Record(ctx, req, model.EventWorkerAssigned, actor, model.EventData{WorkerID: w.ID}); err != nil {
			return err
		}
	}
	req.StandbyWorkerIDs = removeIDs(standby, workerIDs)

	if req.Status == model.RequestStatusAccepted && req.ActiveCount() >= req.WorkersNeeded {
		req.Status = model.RequestStatusAssigned
	}
	return nil
}

// poolWorker loads a worker that must be active and owned by the request's coordinator
func (m *AssignmentManager) poolWorker(ctx context.Context, req *model.LabourRequest, id string) (*model.Worker, error) {
	w, err := m.store.Workers().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get worker %s: %w", id, err)
	}
	if w == nil {
		return nil, model.NewNotFoundError("worker %s not found", id)
	}
	if w.CoordinatorID != req.CoordinatorID {
		return nil, model.NewValidationError("worker %s does not belong to coordinator %s", id, req.CoordinatorID)
	}
	if !w.IsActive {
		return nil, model.NewValidationError("worker %s is inactive", id)
	}
	return w, nil
}

// mergeStandby validates new standby ids and returns the combined list
func (m *AssignmentManager) mergeStandby(ctx context.Context, req *model.LabourRequest, standbyIDs, workerIDs []string) ([]string, error) {
	merged := append([]string(nil), req.StandbyWorkerIDs...)
	for _, id := range standbyIDs {
		if containsID(merged, id) || containsID(workerIDs, id) || req.ActiveSlotFor(id) != nil {
			continue
		}
		if _, err := m.poolWorker(ctx, req, id); err != nil {
			return nil, err
		}
		merged = append(merged, id)
	}
	return merged, nil
}

func isStandbyFor(req *model.LabourRequest, w *model.Worker) bool {
	return w.IsStandby || containsID(req.StandbyWorkerIDs, w.ID)
}

func checkDistinct(ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			return model.NewValidationError("worker id must not be empty")
		}
		if seen[id] {
			return model.NewValidationError("worker %s listed twice", id)
		}
		seen[id] = true
	}
	return nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	return removeIDs(ids, []string{id})
}

func removeIDs(ids, drop []string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if !containsID(drop, v) {
			out = append(out, v)
		}
	}
	return out
}
