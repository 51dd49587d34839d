package service

import (
	"testing"

	"labourhub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAvailable_Filters(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	harvester := f.addWorker(t, c, false, model.WorkTypeHarvesting)
	sower := f.addWorker(t, c, false, model.WorkTypeSowing)
	mondayOff := f.addWorker(t, c, false, model.WorkTypeHarvesting)
	off := false
	_, err := f.engine.Workers.Update(f.ctx, c.ID, mondayOff.ID, &model.UpdateWorkerInput{Availability: map[string]bool{"monday": off}})
	require.NoError(t, err)
	gone := f.addWorker(t, c, false, model.WorkTypeHarvesting)
	require.NoError(t, f.engine.Workers.Remove(f.ctx, c.ID, gone.ID))

	day, err := model.ParseDay(testWorkDate)
	require.NoError(t, err)

	got, err := f.engine.Availability.FindAvailable(f.ctx, c.ID, day, model.WorkTypeHarvesting)
	require.NoError(t, err)
	assert.Equal(t, []string{harvester.ID}, workerIDs(got))

	got, err = f.engine.Availability.FindAvailable(f.ctx, c.ID, day, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{harvester.ID, sower.ID}, workerIDs(got))

	// Sunday is off by default
	sunday, err := model.ParseDay("2025-03-09")
	require.NoError(t, err)
	got, err = f.engine.Availability.FindAvailable(f.ctx, c.ID, sunday, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindAvailable_ExcludesBookingsAcrossRequests(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	workers := f.addWorkers(t, c, 2, model.WorkTypeWeeding)
	req := f.acceptedRequest(t, c, model.WorkTypeWeeding, 1, testWorkDate)
	_, err := f.engine.Requests.AssignWorkers(f.ctx, req.ID, &model.AssignInput{WorkerIDs: []string{workers[0].ID}}, actorOf(c))
	require.NoError(t, err)

	got, err := f.engine.Requests.GetAvailableWorkers(f.ctx, c.ID, testWorkDate, "weeding")
	require.NoError(t, err)
	assert.Equal(t, []string{workers[1].ID}, workerIDs(got))

	// other dates are unaffected
	got, err = f.engine.Requests.GetAvailableWorkers(f.ctx, c.ID, "2025-03-11", "weeding")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// a worker who works this day on another request cannot be assigned again
	other := f.acceptedRequest(t, c, model.WorkTypeWeeding, 1, testWorkDate)
	_, err = f.engine.Requests.AssignWorkers(f.ctx, other.ID, &model.AssignInput{WorkerIDs: []string{workers[0].ID}}, actorOf(c))
	assert.ErrorIs(t, err, model.ErrWorkerConflict)
}

func TestFindAvailable_OrdersByReliability(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	workers := f.addWorkers(t, c, 3, model.WorkTypeGeneral)
	require.NoError(t, f.store.Workers().SetReliability(f.ctx, workers[2].ID, 90))
	require.NoError(t, f.store.Workers().SetReliability(f.ctx, workers[0].ID, 10))

	got, err := f.engine.Requests.GetAvailableWorkers(f.ctx, c.ID, testWorkDate, "")
	require.NoError(t, err)
	assert.Equal(t, []string{workers[2].ID, workers[1].ID, workers[0].ID}, workerIDs(got))
}

func TestFindAvailable_UnknownCoordinator(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Requests.GetAvailableWorkers(f.ctx, "missing", testWorkDate, "")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.engine.Requests.GetAvailableWorkers(f.ctx, "missing", "not-a-date", "")
	assert.ErrorIs(t, err, model.ErrValidation)
}
