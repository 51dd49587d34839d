package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"labourhub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var workDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newRequest(t *testing.T, s *Store, id string) *model.LabourRequest {
	t.Helper()
	req := &model.LabourRequest{
		ID:            id,
		FarmerID:      "farmer-1",
		WorkType:      model.WorkType("harvesting"),
		WorkersNeeded: 2,
		WorkDate:      workDay,
		Status:        model.RequestStatusAccepted,
		CoordinatorID: "coord-1",
		CreatedAt:     time.Now(),
	}
	require.NoError(t, s.Requests().Create(context.Background(), req))
	return req
}

func slot(id, reqID, workerID string) *model.Slot {
	return &model.Slot{ID: id, RequestID: reqID, WorkerID: workerID, Seq: 1, Status: model.SlotStatusAssigned, AssignedAt: time.Now()}
}

func TestInsertSlot_RejectsDoubleBooking(t *testing.T) {
	ctx := context.Background()
	s := New()
	newRequest(t, s, "req-1")
	newRequest(t, s, "req-2")

	require.NoError(t, s.Requests().InsertSlot(ctx, slot("s1", "req-1", "w1"), workDay))
	err := s.Requests().InsertSlot(ctx, slot("s2", "req-2", "w1"), workDay)
	assert.True(t, errors.Is(err, model.ErrWorkerConflict))

	// another day is free
	require.NoError(t, s.Requests().InsertSlot(ctx, slot("s3", "req-2", "w1"), workDay.AddDate(0, 0, 1)))
}

func TestUpdateSlot_ReleasesBooking(t *testing.T) {
	ctx := context.Background()
	s := New()
	newRequest(t, s, "req-1")
	sl := slot("s1", "req-1", "w1")
	require.NoError(t, s.Requests().InsertSlot(ctx, sl, workDay))

	booked, err := s.Requests().BookedWorkers(ctx, workDay, []string{"w1"})
	require.NoError(t, err)
	assert.Equal(t, "req-1", booked["w1"])

	cancelled := *sl
	cancelled.Status = model.SlotStatusCancelled
	require.NoError(t, s.Requests().UpdateSlot(ctx, &cancelled, model.SlotStatusAssigned))

	booked, err = s.Requests().BookedWorkers(ctx, workDay, []string{"w1"})
	require.NoError(t, err)
	assert.Empty(t, booked)

	// status CAS
	err = s.Requests().UpdateSlot(ctx, &cancelled, model.SlotStatusAssigned)
	assert.True(t, errors.Is(err, model.ErrConflict))
}

func TestUpdate_VersionCheck(t *testing.T) {
	ctx := context.Background()
	s := New()
	req := newRequest(t, s, "req-1")

	stale := req.Clone()
	req.Status = model.RequestStatusAssigned
	require.NoError(t, s.Requests().Update(ctx, req))
	assert.Equal(t, int64(1), req.Version)

	stale.Status = model.RequestStatusCancelled
	err := s.Requests().Update(ctx, stale)
	assert.True(t, errors.Is(err, model.ErrConflict))

	got, err := s.Requests().Get(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusAssigned, got.Status)
}

func TestExecTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	newRequest(t, s, "req-1")

	boom := errors.New("boom")
	err := s.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.Requests().InsertSlot(ctx, slot("s1", "req-1", "w1"), workDay); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Requests().Get(ctx, "req-1")
	require.NoError(t, err)
	assert.Empty(t, got.Slots)
	booked, err := s.Requests().BookedWorkers(ctx, workDay, []string{"w1"})
	require.NoError(t, err)
	assert.Empty(t, booked)
}

func TestLogs_LimitKeepsNewest(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Logs().Record(ctx, &model.LabourLog{
			ID:            string(rune('a' + i)),
			RequestID:     "req-1",
			CoordinatorID: "coord-1",
			EventType:     model.EventRequestCreated,
			Timestamp:     base.Add(time.Duration(i) * time.Minute),
		}))
	}

	logs, err := s.Logs().ListByCoordinator(ctx, "coord-1", 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "d", logs[0].ID)
	assert.Equal(t, "e", logs[1].ID)

	all, err := s.Logs().ListByRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
