package service

import (
	"testing"

	"labourhub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCoordinator_Defaults(t *testing.T) {
	f := newFixture(t)
	c, err := f.engine.Coordinators.Register(f.ctx, &model.RegisterCoordinatorInput{
		UserID:   "u-1",
		Name:     "Lakshmi",
		Phone:    "9000000001",
		Location: model.Location{District: "Erode"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultServiceRadiusKm, c.ServiceRadiusKm)
	assert.Equal(t, model.DefaultReliabilityScore, c.ReliabilityScore)
	assert.Equal(t, model.KnownWorkTypes(), c.SkillsOffered)
	assert.True(t, c.IsActive)
	assert.False(t, c.IsVerified)

	_, err = f.engine.Coordinators.Register(f.ctx, &model.RegisterCoordinatorInput{
		UserID: "u-1", Name: "Again", Phone: "9000000002", Location: model.Location{District: "Erode"},
	})
	assert.ErrorIs(t, err, model.ErrConflict)

	byUser, err := f.engine.Coordinators.GetByUser(f.ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byUser.ID)

	verified, err := f.engine.Coordinators.Verify(f.ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
}

func TestRegisterCoordinator_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Coordinators.Register(f.ctx, &model.RegisterCoordinatorInput{Name: "x", Phone: "1"})
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = f.engine.Coordinators.Register(f.ctx, &model.RegisterCoordinatorInput{
		Name: "x", Phone: "1", Location: model.Location{District: "Erode"}, SkillsOffered: []string{""},
	})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestNearbyAndStats(t *testing.T) {
	f := newFixture(t)
	sowing := f.addCoordinator(t, "Erode", model.WorkTypeSowing)
	all := f.addCoordinator(t, "Erode")
	f.addCoordinator(t, "Salem")
	require.NoError(t, f.store.Coordinators().SetReliability(f.ctx, sowing.ID, 80))

	nearby, err := f.engine.Coordinators.Nearby(f.ctx, "erode", "", 0)
	require.NoError(t, err)
	require.Len(t, nearby, 2)
	assert.Equal(t, sowing.ID, nearby[0].ID)

	nearby, err = f.engine.Coordinators.Nearby(f.ctx, "Erode", "harvesting", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{all.ID}, []string{nearby[0].ID})

	f.addWorker(t, all, true, model.WorkTypeGeneral)
	f.addWorker(t, all, false, model.WorkTypeGeneral)
	f.createRequest(t, "Erode", model.WorkTypeHarvesting, 1, testWorkDate)

	stats, err := f.engine.Coordinators.Stats(f.ctx, all.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.WorkerCount)
	assert.Equal(t, 1, stats.StandbyCount)
	assert.Equal(t, 1, stats.OpenRequests)
	assert.Equal(t, 1, stats.RecentRequests)
}

func TestWorkerPool_AddUpdateRemove(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Erode")
	other := f.addCoordinator(t, "Salem")

	w, err := f.engine.Workers.Add(f.ctx, c.ID, &model.AddWorkerInput{
		Name:         "Murugan",
		Phone:        "7000000001",
		Skills:       []model.SkillInput{{Type: "harvesting", ExperienceYears: 3}, {Type: "harvesting"}},
		Availability: map[string]bool{"saturday": false},
	})
	require.NoError(t, err)
	assert.Len(t, w.Skills, 1)
	assert.True(t, w.Availability.Monday)
	assert.False(t, w.Availability.Saturday)
	assert.False(t, w.Availability.Sunday)

	_, err = f.engine.Workers.Add(f.ctx, c.ID, &model.AddWorkerInput{Name: "Dup", Phone: "7000000001"})
	assert.ErrorIs(t, err, model.ErrConflict)
	_, err = f.engine.Workers.Add(f.ctx, "missing", &model.AddWorkerInput{Name: "X", Phone: "7000000002"})
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = f.engine.Workers.Add(f.ctx, c.ID, &model.AddWorkerInput{Name: "X", Phone: "7000000003", Availability: map[string]bool{"funday": true}})
	assert.ErrorIs(t, err, model.ErrValidation)

	got, err := f.engine.Coordinators.Get(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.WorkerCount)

	standby := true
	w, err = f.engine.Workers.Update(f.ctx, c.ID, w.ID, &model.UpdateWorkerInput{IsStandby: &standby})
	require.NoError(t, err)
	assert.True(t, w.IsStandby)

	_, err = f.engine.Workers.Update(f.ctx, other.ID, w.ID, &model.UpdateWorkerInput{IsStandby: &standby})
	assert.ErrorIs(t, err, model.ErrForbidden)

	list, err := f.engine.Workers.List(f.ctx, c.ID, model.WorkerFilter{StandbyOnly: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.engine.Workers.Remove(f.ctx, c.ID, w.ID))
	got, err = f.engine.Coordinators.Get(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, got.WorkerCount)

	list, err = f.engine.Workers.List(f.ctx, c.ID, model.WorkerFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = f.engine.Workers.List(f.ctx, c.ID, model.WorkerFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestWorkerUpdate_ReactivationChecksPhone(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Erode")

	w1, err := f.engine.Workers.Add(f.ctx, c.ID, &model.AddWorkerInput{Name: "Selvi", Phone: "7000000010"})
	require.NoError(t, err)
	require.NoError(t, f.engine.Workers.Remove(f.ctx, c.ID, w1.ID))

	// the phone is free again once w1 is inactive
	_, err = f.engine.Workers.Add(f.ctx, c.ID, &model.AddWorkerInput{Name: "Kavi", Phone: "7000000010"})
	require.NoError(t, err)

	active := true
	_, err = f.engine.Workers.Update(f.ctx, c.ID, w1.ID, &model.UpdateWorkerInput{IsActive: &active})
	assert.ErrorIs(t, err, model.ErrConflict)

	got, err := f.engine.Workers.Get(f.ctx, w1.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestWorkerSelfService(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Erode")
	w := f.addWorker(t, c, false, model.WorkTypeSowing)

	updated, err := f.engine.Workers.UpdateMyAvailability(f.ctx, w.ID, map[string]bool{"sunday": true, "monday": false})
	require.NoError(t, err)
	assert.True(t, updated.Availability.Sunday)
	assert.False(t, updated.Availability.Monday)
	assert.True(t, updated.Availability.Tuesday)

	_, err = f.engine.Workers.UpdateMyAvailability(f.ctx, w.ID, nil)
	assert.ErrorIs(t, err, model.ErrValidation)

	// Monday is now off, so the worker cannot be booked that day
	req := f.acceptedRequest(t, c, model.WorkTypeSowing, 1, testWorkDate)
	_, err = f.engine.Requests.AssignWorkers(f.ctx, req.ID, &model.AssignInput{WorkerIDs: []string{w.ID}}, actorOf(c))
	assert.ErrorIs(t, err, model.ErrWorkerConflict)

	sundayReq := f.acceptedRequest(t, c, model.WorkTypeSowing, 1, "2025-03-09")
	_, err = f.engine.Requests.AssignWorkers(f.ctx, sundayReq.ID, &model.AssignInput{WorkerIDs: []string{w.ID}}, actorOf(c))
	require.NoError(t, err)

	byID, err := f.engine.Workers.MyAssignments(f.ctx, w.ID)
	require.NoError(t, err)
	byPhone, err := f.engine.Workers.MyAssignments(f.ctx, w.Phone)
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, byID[0].ID, byPhone[0].ID)

	_, err = f.engine.Workers.MyAssignments(f.ctx, "unknown")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
