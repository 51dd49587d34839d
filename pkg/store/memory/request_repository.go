package memory

import (
	"context"
	"sort"
	"time"

	"labourhub/internal/model"
)

type requestRepo struct{ s *Store }

func (r *requestRepo) Create(ctx context.Context, req *model.LabourRequest) error {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.st.requests[req.ID]; ok {
		return model.NewConflictError("request %s already exists", req.ID)
	}
	stored := req.Clone()
	stored.Slots = nil
	r.s.st.requests[req.ID] = stored
	return nil
}

func (r *requestRepo) Get(ctx context.Context, id string) (*model.LabourRequest, error) {
	defer r.s.acquire(ctx)()
	return r.s.st.requests[id].Clone(), nil
}

// GetForUpdate needs no extra locking: the transaction already holds the store mutex
func (r *requestRepo) GetForUpdate(ctx context.Context, id string) (*model.LabourRequest, error) {
	return r.Get(ctx, id)
}

func (r *requestRepo) List(ctx context.Context, f model.RequestFilter) ([]*model.LabourRequest, error) {
	defer r.s.acquire(ctx)()
	out := make([]*model.LabourRequest, 0)
	for _, req := range r.s.st.requests {
		if f.FarmerID != "" && req.FarmerID != f.FarmerID {
			continue
		}
		if f.CoordinatorID != "" && req.CoordinatorID != f.CoordinatorID {
			continue
		}
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		if f.CreatedAfter != nil && req.CreatedAt.Before(*f.CreatedAfter) {
			continue
		}
		out = append(out, req.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *requestRepo) Update(ctx context.Context, req *model.LabourRequest) error {
	defer r.s.acquire(ctx)()
	stored, ok := r.s.st.requests[req.ID]
	if !ok {
		return model.NewNotFoundError("request %s not found", req.ID)
	}
	if stored.Version != req.Version {
		return model.NewConflictError("request %s was modified concurrently", req.ID)
	}
	updated := req.Clone()
	updated.Slots = stored.Slots
	updated.Version++
	updated.UpdatedAt = r.s.now()
	r.s.st.requests[req.ID] = updated

	req.Version = updated.Version
	req.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r *requestRepo) InsertSlot(ctx context.Context, slot *model.Slot, day time.Time) error {
	defer r.s.acquire(ctx)()
	stored, ok := r.s.st.requests[slot.RequestID]
	if !ok {
		return model.NewNotFoundError("request %s not found", slot.RequestID)
	}
	key := bookingKey{workerID: slot.WorkerID, day: model.DayKey(day)}
	if slot.Status.HoldsBooking() {
		if other, booked := r.s.st.bookings[key]; booked {
			return model.NewWorkerConflictError("worker %s is already booked on %s (request %s)", slot.WorkerID, key.day, other)
		}
		r.s.st.bookings[key] = slot.RequestID
	}
	stored.Slots = append(stored.Slots, *slot)
	return nil
}

func (r *requestRepo) UpdateSlot(ctx context.Context, slot *model.Slot, from model.SlotStatus) error {
	defer r.s.acquire(ctx)()
	stored, ok := r.s.st.requests[slot.RequestID]
	if !ok {
		return model.NewNotFoundError("request %s not found", slot.RequestID)
	}
	for i := range stored.Slots {
		if stored.Slots[i].ID != slot.ID {
			continue
		}
		if stored.Slots[i].Status != from {
			return model.NewConflictError("slot %s is %s, expected %s", slot.ID, stored.Slots[i].Status, from)
		}
		if from.HoldsBooking() && !slot.Status.HoldsBooking() {
			key := bookingKey{workerID: slot.WorkerID, day: model.DayKey(stored.WorkDate)}
			if r.s.st.bookings[key] == stored.ID {
				delete(r.s.st.bookings, key)
			}
		}
		stored.Slots[i] = *slot
		return nil
	}
	return model.NewSlotNotFoundError("slot %s not found", slot.ID)
}

func (r *requestRepo) BookedWorkers(ctx context.Context, day time.Time, workerIDs []string) (map[string]string, error) {
	defer r.s.acquire(ctx)()
	out := make(map[string]string)
	dk := model.DayKey(day)
	for _, id := range workerIDs {
		if reqID, ok := r.s.st.bookings[bookingKey{workerID: id, day: dk}]; ok {
			out[id] = reqID
		}
	}
	return out, nil
}

func (r *requestRepo) ListByWorker(ctx context.Context, workerID string) ([]*model.LabourRequest, error) {
	defer r.s.acquire(ctx)()
	out := make([]*model.LabourRequest, 0)
	for _, req := range r.s.st.requests {
		if req.ActiveSlotFor(workerID) != nil {
			out = append(out, req.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].WorkDate.Equal(out[j].WorkDate) {
			return out[i].WorkDate.Before(out[j].WorkDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *requestRepo) CountOpen(ctx context.Context, coordinatorIDs []string) (map[string]int, error) {
	defer r.s.acquire(ctx)()
	wanted := make(map[string]bool, len(coordinatorIDs))
	for _, id := range coordinatorIDs {
		wanted[id] = true
	}
	out := make(map[string]int, len(coordinatorIDs))
	for _, req := range r.s.st.requests {
		if wanted[req.CoordinatorID] && req.Status.IsOpen() {
			out[req.CoordinatorID]++
		}
	}
	return out, nil
}

// logRepo

type logRepo struct{ s *Store }

func (r *logRepo) Record(ctx context.Context, entry *model.LabourLog) error {
	defer r.s.acquire(ctx)()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.s.now()
	}
	// entries are immutable once stored
	stored := *entry
	r.s.st.logs = append(r.s.st.logs, &stored)
	return nil
}

func (r *logRepo) filter(match func(*model.LabourLog) bool, limit int) []*model.LabourLog {
	out := make([]*model.LabourLog, 0)
	for _, l := range r.s.st.logs {
		if match(l) {
			c := *l
			out = append(out, &c)
		}
	}
	// stable keeps insertion order for equal timestamps
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

func (r *logRepo) ListByRequest(ctx context.Context, requestID string) ([]*model.LabourLog, error) {
	defer r.s.acquire(ctx)()
	return r.filter(func(l *model.LabourLog) bool { return l.RequestID == requestID }, 0), nil
}

func (r *logRepo) ListByCoordinator(ctx context.Context, coordinatorID string, limit int) ([]*model.LabourLog, error) {
	defer r.s.acquire(ctx)()
	return r.filter(func(l *model.LabourLog) bool { return l.CoordinatorID == coordinatorID }, limit), nil
}

func (r *logRepo) ListByEventType(ctx context.Context, eventType model.EventType, limit int) ([]*model.LabourLog, error) {
	defer r.s.acquire(ctx)()
	return r.filter(func(l *model.LabourLog) bool { return l.EventType == eventType }, limit), nil
}
