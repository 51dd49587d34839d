package service

import (
	"context"
	"fmt"
	"time"

	"labourhub/internal/model"
	"labourhub/pkg/logger"
)

// Demo identities used by Seed
const (
	DemoFarmerID      = "demo-farmer"
	DemoLandID        = "demo-land-1"
	DemoCoordinatorID = "demo-coordinator" // user id of the demo coordinator
)

var demoWorkerNames = []string{"Demo Worker", "Ravi Kumar", "Muthu", "Selvam", "Ganesh", "Prakash", "Dinesh", "Rajesh"}

// SeedResult ids created by Seed
type SeedResult struct {
	CoordinatorID string   `json:"coordinator_id"`
	WorkerIDs     []string `json:"worker_ids"`
	RequestIDs    []string `json:"request_ids"`
	Existing      bool     `json:"existing"`
}

// Resettable is implemented by stores that can drop all data
type Resettable interface {
	Reset()
}

// Seed loads a demo coordinator with eight workers (the last two on standby) and
// three requests in pending, accepted and assigned state. Every write goes through
// the engine so the usual invariants and log entries apply. Seeding twice is a no-op.
func Seed(ctx context.Context, e *Engine, now time.Time) (*SeedResult, error) {
	existing, err := e.Store.Coordinators().GetByUserID(ctx, DemoCoordinatorID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logger.InfoCtx(ctx, "demo data already present, coordinator %s", existing.ID)
		return &SeedResult{CoordinatorID: existing.ID, Existing: true}, nil
	}

	c, err := e.Coordinators.Register(ctx, &model.RegisterCoordinatorInput{
		UserID:   DemoCoordinatorID,
		Name:     "Demo Coordinator",
		Phone:    "9999000002",
		Location: model.Location{District: "Coimbatore", Area: "Pollachi"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed coordinator: %w", err)
	}
	result := &SeedResult{CoordinatorID: c.ID}

	everyDay := map[string]bool{"sunday": true}
	for i, name := range demoWorkerNames {
		w, err := e.Workers.Add(ctx, c.ID, &model.AddWorkerInput{
			Name:  name,
			Phone: fmt.Sprintf("99990001%02d", i),
			Skills: []model.SkillInput{
				{Type: string(model.WorkTypeHarvesting), ExperienceYears: 2 + i%4},
				{Type: string(model.WorkTypeSowing), ExperienceYears: 1 + i%3},
				{Type: string(model.WorkTypeWeeding), ExperienceYears: 1 + i%2},
				{Type: string(model.WorkTypeGeneral)},
			},
			Availability: everyDay,
			IsStandby:    i >= 6,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed worker %s: %w", name, err)
		}
		result.WorkerIDs = append(result.WorkerIDs, w.ID)
	}

	coordinator := model.Actor{Type: model.ActorCoordinator, ID: c.ID}
	day := func(offset int) string {
		return model.DayKey(now.AddDate(0, 0, offset))
	}
	specs := []struct {
		in     model.CreateRequestInput
		status model.RequestStatus
	}{
		{model.CreateRequestInput{WorkType: "harvesting", WorkersNeeded: 3, WorkDate: day(7), StartTime: "07:00", DurationHours: 8,
			Description: "Need workers for paddy harvesting"}, model.RequestStatusPending},
		{model.CreateRequestInput{WorkType: "sowing", WorkersNeeded: 2, WorkDate: day(3), StartTime: "06:00", DurationHours: 6,
			Description: "Seed sowing work needed"}, model.RequestStatusAccepted},
		{model.CreateRequestInput{WorkType: "weeding", WorkersNeeded: 4, WorkDate: day(1), StartTime: "07:00", DurationHours: 6,
			Description: "Weeding required in rice field"}, model.RequestStatusAssigned},
	}
	for _, spec := range specs {
		in := spec.in
		in.FarmerID = DemoFarmerID
		in.LandID = DemoLandID
		in.Location = c.Location
		req, err := e.Requests.Create(ctx, &in)
		if err != nil {
			return nil, fmt.Errorf("failed to seed request: %w", err)
		}
		result.RequestIDs = append(result.RequestIDs, req.ID)
		if spec.status == model.RequestStatusPending {
			continue
		}
		if req.CoordinatorID != c.ID {
			// another coordinator in the district took it
			continue
		}
		if _, err := e.Requests.Accept(ctx, req.ID, coordinator); err != nil {
			return nil, fmt.Errorf("failed to accept seeded request: %w", err)
		}
		if spec.status != model.RequestStatusAssigned {
			continue
		}
		workers := result.WorkerIDs[:in.WorkersNeeded]
		if _, err := e.Requests.AssignWorkers(ctx, req.ID, &model.AssignInput{
			WorkerIDs:        workers,
			StandbyWorkerIDs: result.WorkerIDs[6:],
		}, coordinator); err != nil {
			return nil, fmt.Errorf("failed to assign seeded request: %w", err)
		}
		for _, id := range workers {
			if _, err := e.Requests.ConfirmWorker(ctx, req.ID, id, coordinator); err != nil {
				return nil, fmt.Errorf("failed to confirm seeded worker: %w", err)
			}
		}
	}

	logger.InfoCtx(ctx, "seeded demo data: coordinator %s, %d workers, %d requests",
		c.ID, len(result.WorkerIDs), len(result.RequestIDs))
	return result, nil
}

// ResetDemo drops all data of a resettable store and seeds it again
func ResetDemo(ctx context.Context, e *Engine, now time.Time) (*SeedResult, error) {
	r, ok := e.Store.(Resettable)
	if !ok {
		return nil, model.NewValidationError("store does not support reset")
	}
	r.Reset()
	return Seed(ctx, e, now)
}
