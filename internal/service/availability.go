package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"labourhub/internal/model"
	"labourhub/pkg/interfaces"
)

// AvailabilityResolver computes which workers can be booked on a date
type AvailabilityResolver struct {
	store interfaces.Store
}

// NewAvailabilityResolver creates a new availability resolver
func NewAvailabilityResolver(store interfaces.Store) *AvailabilityResolver {
	return &AvailabilityResolver{store: store}
}

// FindAvailable returns the coordinator's active workers who work on day's weekday,
// have workType (any skill when empty) and hold no booking that day.
// Bookings are read from the live slot set through ctx, so inside a transaction
// the answer reflects uncommitted writes of that transaction.
func (a *AvailabilityResolver) FindAvailable(ctx context.Context, coordinatorID string, day time.Time, workType model.WorkType) ([]*model.Worker, error) {
	c, err := a.store.Coordinators().Get(ctx, coordinatorID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, model.NewNotFoundError("coordinator %s not found", coordinatorID)
	}

	pool, err := a.store.Workers().ListByCoordinator(ctx, coordinatorID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}

	candidates := make([]*model.Worker, 0, len(pool))
	for _, w := range pool {
		if w.Availability.On(day.Weekday()) && w.HasSkill(workType) {
			candidates = append(candidates, w)
		}
	}
	booked, err := a.booked(ctx, day, candidates)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Worker, 0, len(candidates))
	for _, w := range candidates {
		if _, taken := booked[w.ID]; !taken {
			out = append(out, w)
		}
	}
	sortByReliability(out)
	return out, nil
}

func (a *AvailabilityResolver) booked(ctx context.Context, day time.Time, workers []*model.Worker) (map[string]string, error) {
	ids := make([]string, 0, len(workers))
	for _, w := range workers {
		ids = append(ids, w.ID)
	}
	booked, err := a.store.Requests().BookedWorkers(ctx, day, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}
	return booked, nil
}

// CheckBookable re-validates one worker for a request at commit time
func (a *AvailabilityResolver) CheckBookable(ctx context.Context, req *model.LabourRequest, w *model.Worker) error {
	if !w.Availability.On(req.WorkDate.Weekday()) {
		return model.NewWorkerConflictError("worker %s does not work on %s", w.ID, req.WorkDate.Weekday())
	}
	booked, err := a.booked(ctx, req.WorkDate, []*model.Worker{w})
	if err != nil {
		return err
	}
	if other, ok := booked[w.ID]; ok {
		return model.NewWorkerConflictError("worker %s is already booked on %s (request %s)", w.ID, model.DayKey(req.WorkDate), other)
	}
	return nil
}

// sortByReliability orders by score descending, then registration, then id
func sortByReliability(ws []*model.Worker) {
	sort.SliceStable(ws, func(i, j int) bool {
		if ws[i].ReliabilityScore != ws[j].ReliabilityScore {
			return ws[i].ReliabilityScore > ws[j].ReliabilityScore
		}
		if !ws[i].CreatedAt.Equal(ws[j].CreatedAt) {
			return ws[i].CreatedAt.Before(ws[j].CreatedAt)
		}
		return ws[i].ID < ws[j].ID
	})
}
