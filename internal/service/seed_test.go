package service

import (
	"testing"
	"time"

	"labourhub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	f := newFixture(t)
	// a Wednesday, so every seeded date falls inside the default week
	now := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)

	result, err := Seed(f.ctx, f.engine, now)
	require.NoError(t, err)
	assert.False(t, result.Existing)
	assert.Len(t, result.WorkerIDs, len(demoWorkerNames))
	require.Len(t, result.RequestIDs, 3)

	want := []model.RequestStatus{model.RequestStatusPending, model.RequestStatusAccepted, model.RequestStatusAssigned}
	for i, id := range result.RequestIDs {
		req, err := f.engine.Requests.Get(f.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want[i], req.Status)
	}
	assigned, err := f.engine.Requests.Get(f.ctx, result.RequestIDs[2])
	require.NoError(t, err)
	assert.Equal(t, 4, slotStatuses(assigned)[model.SlotStatusConfirmed])
	assert.Len(t, assigned.StandbyWorkerIDs, 2)

	c, err := f.engine.Coordinators.Get(f.ctx, result.CoordinatorID)
	require.NoError(t, err)
	assert.Equal(t, len(demoWorkerNames), c.WorkerCount)

	again, err := Seed(f.ctx, f.engine, now)
	require.NoError(t, err)
	assert.True(t, again.Existing)
	assert.Equal(t, result.CoordinatorID, again.CoordinatorID)
}

func TestResetDemo(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	first, err := Seed(f.ctx, f.engine, now)
	require.NoError(t, err)

	second, err := ResetDemo(f.ctx, f.engine, now)
	require.NoError(t, err)
	assert.False(t, second.Existing)
	assert.NotEqual(t, first.CoordinatorID, second.CoordinatorID)

	old, err := f.store.Coordinators().Get(f.ctx, first.CoordinatorID)
	require.NoError(t, err)
	assert.Nil(t, old)
}
