package service

import (
	"errors"
	"sync"
	"testing"

	"labourhub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequest_RoutesToDistrictCoordinator(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")

	req := f.createRequest(t, "Coimbatore", model.WorkTypeHarvesting, 3, testWorkDate)

	assert.Equal(t, model.RequestStatusPending, req.Status)
	assert.Equal(t, c.ID, req.CoordinatorID)
	assert.Regexp(t, `^LR-\d+-[0-9A-F]{5}$`, req.Reference)
	assert.Equal(t, model.DefaultStartTime, req.StartTime)
	assert.Equal(t, model.DefaultDurationHours, req.DurationHours)

	logs, err := f.engine.Requests.GetRequestLogs(f.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, countEvents(logs, model.EventRequestCreated))
	assert.Equal(t, model.ActorFarmer, logs[0].ActorType)
	assert.Empty(t, logs[0].CoordinatorID)
}

func TestCreateRequest_Validation(t *testing.T) {
	f := newFixture(t)
	f.addCoordinator(t, "Coimbatore")

	base := model.CreateRequestInput{
		FarmerID: "farmer-1", LandID: "land-1", WorkType: "harvesting",
		WorkersNeeded: 2, WorkDate: testWorkDate, Location: model.Location{District: "Coimbatore"},
	}
	tests := []struct {
		name   string
		mutate func(in *model.CreateRequestInput)
	}{
		{"missing farmer", func(in *model.CreateRequestInput) { in.FarmerID = "" }},
		{"missing land", func(in *model.CreateRequestInput) { in.LandID = "" }},
		{"zero workers", func(in *model.CreateRequestInput) { in.WorkersNeeded = 0 }},
		{"too many workers", func(in *model.CreateRequestInput) { in.WorkersNeeded = 51 }},
		{"bad date", func(in *model.CreateRequestInput) { in.WorkDate = "10/03/2025" }},
		{"bad start time", func(in *model.CreateRequestInput) { in.StartTime = "25:00" }},
		{"bad duration", func(in *model.CreateRequestInput) { in.DurationHours = 30 }},
		{"empty work type", func(in *model.CreateRequestInput) { in.WorkType = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			_, err := f.engine.Requests.Create(f.ctx, &in)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestCreateRequest_EmptyDistrictRoutesOnWorkType(t *testing.T) {
	f := newFixture(t)
	f.addCoordinator(t, "Coimbatore", model.WorkTypeSowing)
	c := f.addCoordinator(t, "Salem", model.WorkTypeHarvesting)

	req := f.createRequest(t, "", model.WorkTypeHarvesting, 2, testWorkDate)
	assert.Equal(t, c.ID, req.CoordinatorID)
	assert.Empty(t, req.Location.District)
}

func TestCreateRequest_NoCoordinator(t *testing.T) {
	f := newFixture(t)
	f.addCoordinator(t, "Coimbatore", model.WorkTypeSowing)

	_, err := f.engine.Requests.Create(f.ctx, &model.CreateRequestInput{
		FarmerID: "farmer-1", LandID: "land-1", WorkType: "harvesting",
		WorkersNeeded: 1, WorkDate: testWorkDate, Location: model.Location{District: "Coimbatore"},
	})
	assert.ErrorIs(t, err, model.ErrNoCoordinatorAvailable)

	reqs, err := f.engine.Requests.ListFarmerRequests(f.ctx, "farmer-1", "")
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestAcceptAndAssign(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	workers := f.addWorkers(t, c, 5, model.WorkTypeHarvesting)

	req := f.acceptedRequest(t, c, model.WorkTypeHarvesting, 3, testWorkDate)
	assert.Equal(t, model.RequestStatusAccepted, req.Status)
	assert.NotNil(t, req.AcceptedAt)

	available, err := f.engine.Requests.GetAvailableWorkers(f.ctx, c.ID, testWorkDate, "harvesting")
	require.NoError(t, err)
	require.Len(t, available, 5)

	req, err = f.engine.Requests.AssignWorkers(f.ctx, req.ID, &model.AssignInput{
		WorkerIDs: workerIDs(available[:3]),
	}, actorOf(c))
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusAssigned, req.Status)
	assert.Equal(t, 3, slotStatuses(req)[model.SlotStatusAssigned])

	logs, err := f.engine.Requests.GetRequestLogs(f.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.EventType{
		model.EventRequestCreated,
		model.EventCoordinatorAssigned,
		model.EventCoordinatorAccepted,
		model.EventWorkerAssigned,
		model.EventWorkerAssigned,
		model.EventWorkerAssigned,
	}, eventTypes(logs))

	// booked workers drop out of availability
	available, err = f.engine.Requests.GetAvailableWorkers(f.ctx, c.ID, testWorkDate, "harvesting")
	require.NoError(t, err)
	assert.Len(t, available, 2)
	assert.ElementsMatch(t, workerIDs(workers), append(workerIDs(available), req.Slots[0].WorkerID, req.Slots[1].WorkerID, req.Slots[2].WorkerID))
}

func TestAssign_PartialThenTopUp(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	workers := f.addWorkers(t, c, 3, model.WorkTypeWeeding)
	req := f.acceptedRequest(t, c, model.WorkTypeWeeding, 3, testWorkDate)

	req, err := f.engine.Requests.AssignWorkers(f.ctx, req.ID, &model.AssignInput{WorkerIDs: workerIDs(workers[:2])}, actorOf(c))
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusAccepted, req.Status)

	req, err = f.engine.Requests.AssignWorkers(f.ctx, req.ID, &model.AssignInput{WorkerIDs: workerIDs(workers[2:])}, actorOf(c))
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusAssigned, req.Status)
	assert.Equal(t, 3, req.ActiveCount())
}

func TestAssign_Rejections(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	other := f.addCoordinator(t, "Madurai")
	workers := f.addWorkers(t, c, 3, model.WorkTypeHarvesting)
	sower := f.addWorker(t, c, false, model.WorkTypeSowing)
	foreign := f.addWorker(t, other, false, model.WorkTypeHarvesting)
	req := f.acceptedRequest(t, c, model.WorkTypeHarvesting, 2, testWorkDate)

	tests := []struct {
		name  string
		in    model.AssignInput
		actor model.Actor
		want  error
	}{
		{"exceeds headcount", model.AssignInput{WorkerIDs: workerIDs(workers)}, actorOf(c), model.ErrValidation},
		{"duplicate ids", model.AssignInput{WorkerIDs: []string{workers[0].ID, workers[0].ID}}, actorOf(c), model.ErrValidation},
		{"missing skill", model.AssignInput{WorkerIDs: []string{sower.ID}}, actorOf(c), model.ErrValidation},
		{"other pool", model.AssignInput{WorkerIDs: []string{foreign.ID}}, actorOf(c), model.ErrValidation},
		{"unknown worker", model.AssignInput{WorkerIDs: []string{"nope"}}, actorOf(c), model.ErrNotFound},
		{"empty", model.AssignInput{}, actorOf(c), model.ErrValidation},
		{"wrong coordinator", model.AssignInput{WorkerIDs: []string{workers[0].ID}}, actorOf(other), model.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Requests.AssignWorkers(f.ctx, req.ID, &tt.in, tt.actor)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// nothing leaked from the failed calls
	got, err := f.engine.Requests.Get(f.ctx, req.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Slots)
	assert.Equal(t, model.RequestStatusAccepted, got.Status)
}

func TestAssign_PendingRequestRejected(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	workers := f.addWorkers(t, c, 1, model.WorkTypeHarvesting)
	req := f.createRequest(t, "Coimbatore", model.WorkTypeHarvesting, 1, testWorkDate)

	_, err := f.engine.Requests.AssignWorkers(f.ctx, req.ID, &model.AssignInput{WorkerIDs: workerIDs(workers)}, actorOf(c))
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)
}

func TestReplaceCancelledWorkerWithStandby(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	workers := f.addWorkers(t, c, 4, model.WorkTypeHarvesting)
	standby := f.addWorker(t, c, true, model.WorkTypeGeneral)
	req := f.acceptedRequest(t, c, model.WorkTypeHarvesting, 3, testWorkDate)

	req, err := f.engine.Requests.AssignWorkers(f.ctx, req.ID, &model.AssignInput{WorkerIDs: workerIDs(workers[:3])}, actorOf(c))
	require.NoError(t, err)
	dropped := workers[0]

	req, err = f.engine.Requests.CancelWorker(f.ctx, req.ID, &model.SlotActionInput{WorkerID: dropped.ID, Reason: "sick"}, model.Actor{Type: model.ActorWorker, ID: dropped.ID})
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusCancelled, req.LatestSlotFor(dropped.ID).Status)
	assert.Equal(t, 2, req.ActiveCount())

	suggestions, err := f.engine.Requests.GetReplacementSuggestions(f.ctx, req.ID, dropped.ID, actorOf(c))
	require.NoError(t, err)
	require.Len(t, suggestions.Standby, 1)
	assert.Equal(t, standby.ID, suggestions.Standby[0].ID)
	require.Len(t, suggestions.Available, 1)
	assert.Equal(t, workers[3].ID, suggestions.Available[0].ID)

	before, err := f.engine.Coordinators.Get(f.ctx, c.ID)
	require.NoError(t, err)

	req, err = f.engine.Requests.ReplaceWorker(f.ctx, req.ID, &model.ReplaceInput{
		CancelledWorkerID: dropped.ID,
		NewWorkerID:       standby.ID,
		Reason:            "sick",
	}, actorOf(c))
	require.NoError(t, err)

	old := req.Slots[0]
	assert.Equal(t, model.SlotStatusReplaced, old.Status)
	assert.Equal(t, standby.ID, old.ReplacedBy)
	assert.NotNil(t, old.ReplacedAt)
	newSlot := req.ActiveSlotFor(standby.ID)
	require.NotNil(t, newSlot)
	assert.Equal(t, model.SlotStatusAssigned, newSlot.Status)
	assert.Equal(t, 3, req.ActiveCount())

	after, err := f.engine.Coordinators.Get(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, before.ReplacementsProvided+1, after.ReplacementsProvided)

	logs, err := f.engine.Requests.GetRequestLogs(f.ctx, req.ID)
	require.NoError(t, err)
	types := eventTypes(logs)
	cancelled, replaced := -1, -1
	for i, et := range types {
		if et == model.EventWorkerCancelled && cancelled < 0 {
			cancelled = i
		}
		if et == model.EventReplacementMade {
			replaced = i
		}
	}
	require.GreaterOrEqual(t, cancelled, 0)
	assert.Greater(t, replaced, cancelled)
	assert.Equal(t, dropped.ID, logs[replaced].EventData.PreviousWorkerID)
	assert.Equal(t, standby.ID, logs[replaced].EventData.WorkerID)

	// a replaced slot cannot be replaced again
	_, err = f.engine.Requests.ReplaceWorker(f.ctx, req.ID, &model.ReplaceInput{
		CancelledWorkerID: dropped.ID,
		NewWorkerID:       workers[3].ID,
	}, actorOf(c))
	assert.ErrorIs(t, err, model.ErrSlotNotFound)
}

func TestReplaceActiveWorker_KeepsActiveCount(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	workers := f.addWorkers(t, c, 3, model.WorkTypeSowing)
	req := f.acceptedRequest(t, c, model.WorkTypeSowing, 2, testWorkDate)
	req, err := f.engine.Requests.AssignWorkers(f.ctx, req.ID, &model.AssignInput{WorkerIDs: workerIDs(workers[:2])}, actorOf(c))
	require.NoError(t, err)

	req, err = f.engine.Requests.ReplaceWorker(f.ctx, req.ID, &model.ReplaceInput{
		CancelledWorkerID: workers[0].ID,
		NewWorkerID:       workers[2].ID,
		Reason:            "family emergency",
	}, actorOf(c))
	require.NoError(t, err)
	assert.Equal(t, 2, req.ActiveCount())
	assert.Equal(t, model.RequestStatusAssigned, req.Status)

	// the replaced worker is free again that day
	available, err := f.engine.Requests.GetAvailableWorkers(f.ctx, c.ID, testWorkDate, "")
	require.NoError(t, err)
	assert.Equal(t, []string{workers[0].ID}, workerIDs(available))

	dropped, err := f.engine.Workers.Get(f.ctx, workers[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped.CancelledAssignments)
	assert.Less(t, dropped.ReliabilityScore, 50)
}

func TestReplace_Errors(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	workers := f.addWorkers(t, c, 3, model.WorkTypeSowing)
	elsewhere := f.acceptedRequest(t, c, model.WorkTypeSowing, 1, testWorkDate)
	_, err := f.engine.Requests.AssignWorkers(f.ctx, elsewhere.ID, &model.AssignInput{WorkerIDs: []string{workers[2].ID}}, actorOf(c))
	require.NoError(t, err)

	req := f.acceptedRequest(t, c, model.WorkTypeSowing, 1, testWorkDate)
	_, err = f.engine.Requests.AssignWorkers(f.ctx, req.ID, &model.AssignInput{WorkerIDs: []string{workers[0].ID}}, actorOf(c))
	require.NoError(t, err)

	_, err = f.engine.Requests.ReplaceWorker(f.ctx, req.ID, &model.ReplaceInput{CancelledWorkerID: "ghost", NewWorkerID: workers[1].ID}, actorOf(c))
	assert.ErrorIs(t, err, model.ErrSlotNotFound)

	_, err = f.engine.Requests.ReplaceWorker(f.ctx, req.ID, &model.ReplaceInput{CancelledWorkerID: workers[0].ID, NewWorkerID: workers[2].ID}, actorOf(c))
	assert.ErrorIs(t, err, model.ErrWorkerConflict)

	got, err := f.engine.Requests.Get(f.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusAssigned, got.Slots[0].Status)
	assert.Len(t, got.Slots, 1)
}

func TestConcurrentAssignSameWorkerSameDate(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	worker := f.addWorker(t, c, false, model.WorkTypeHarvesting)
	first := f.acceptedRequest(t, c, model.WorkTypeHarvesting, 1, testWorkDate)
	second := f.acceptedRequest(t, c, model.WorkTypeHarvesting, 1, testWorkDate)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.engine.Requests.AssignWorkers(f.ctx, id, &model.AssignInput{WorkerIDs: []string{worker.ID}}, actorOf(c))
		}(i, id)
	}
	wg.Wait()

	succeeded, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, model.ErrWorkerConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicts)

	assignments, err := f.engine.Workers.MyAssignments(f.ctx, worker.Phone)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
}

func TestStartWork_RequiresAssigned(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	req := f.acceptedRequest(t, c, model.WorkTypeHarvesting, 2, testWorkDate)

	_, err := f.engine.Requests.StartWork(f.ctx, req.ID, actorOf(c))
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)

	got, err := f.engine.Requests.Get(f.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusAccepted, got.Status)
	assert.Equal(t, req.Version, got.Version)
}

func TestFullLifecycle_FeedbackOnce(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	workers := f.addWorkers(t, c, 2, model.WorkTypeHarvesting)
	req := f.acceptedRequest(t, c, model.WorkTypeHarvesting, 2, testWorkDate)

	req, err := f.engine.Requests.AssignWorkers(f.ctx, req.ID, &model.AssignInput{WorkerIDs: workerIDs(workers)}, actorOf(c))
	require.NoError(t, err)
	req, err = f.engine.Requests.ConfirmWorker(f.ctx, req.ID, workers[0].ID, model.Actor{Type: model.ActorWorker, ID: workers[0].ID})
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusConfirmed, req.ActiveSlotFor(workers[0].ID).Status)

	req, err = f.engine.Requests.StartWork(f.ctx, req.ID, actorOf(c))
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusInProgress, req.Status)

	_, err = f.engine.Requests.SubmitFeedback(f.ctx, req.ID, &model.FeedbackInput{Rating: 4}, farmerActor())
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)

	req, err = f.engine.Requests.CompleteWork(f.ctx, req.ID, "done early", actorOf(c))
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusCompleted, req.Status)
	assert.Equal(t, 2, slotStatuses(req)[model.SlotStatusCompleted])

	req, err = f.engine.Requests.SubmitFeedback(f.ctx, req.ID, &model.FeedbackInput{Rating: 4, Feedback: "good work"}, farmerActor())
	require.NoError(t, err)
	require.NotNil(t, req.Rating)
	assert.Equal(t, 4, *req.Rating)

	_, err = f.engine.Requests.SubmitFeedback(f.ctx, req.ID, &model.FeedbackInput{Rating: 1}, farmerActor())
	assert.ErrorIs(t, err, model.ErrAlreadyRated)

	got, err := f.engine.Requests.Get(f.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, *got.Rating)

	got, err = f.engine.Requests.ConfirmCompletion(f.ctx, req.ID, farmerActor())
	require.NoError(t, err)
	assert.True(t, got.FarmerConfirmed)

	coordinator, err := f.engine.Coordinators.Get(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, coordinator.SuccessfulCompletions)
	assert.Equal(t, 100, coordinator.ReliabilityScore)
	for _, w := range workers {
		got, err := f.engine.Workers.Get(f.ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.CompletedAssignments)
		assert.Equal(t, 100, got.ReliabilityScore)
	}
}

func TestSubmitFeedback_InvalidRating(t *testing.T) {
	f := newFixture(t)
	f.addCoordinator(t, "Coimbatore")
	req := f.createRequest(t, "Coimbatore", model.WorkTypeWeeding, 1, testWorkDate)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.engine.Requests.SubmitFeedback(f.ctx, req.ID, &model.FeedbackInput{Rating: rating}, farmerActor())
		assert.ErrorIs(t, err, model.ErrValidation)
	}
}

func TestCancel_ReleasesSlots(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	workers := f.addWorkers(t, c, 2, model.WorkTypeHarvesting)
	req := f.acceptedRequest(t, c, model.WorkTypeHarvesting, 2, testWorkDate)
	_, err := f.engine.Requests.AssignWorkers(f.ctx, req.ID, &model.AssignInput{WorkerIDs: workerIDs(workers)}, actorOf(c))
	require.NoError(t, err)

	req, err = f.engine.Requests.Cancel(f.ctx, req.ID, "rain", farmerActor())
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusCancelled, req.Status)
	assert.Equal(t, model.ActorFarmer, req.CancelledBy)
	assert.Equal(t, 2, slotStatuses(req)[model.SlotStatusCancelled])
	assert.Len(t, req.Slots, 2)

	available, err := f.engine.Requests.GetAvailableWorkers(f.ctx, c.ID, testWorkDate, "harvesting")
	require.NoError(t, err)
	assert.Len(t, available, 2)

	// a late assign must not append to a cancelled request
	_, err = f.engine.Requests.AssignWorkers(f.ctx, req.ID, &model.AssignInput{WorkerIDs: workerIDs(workers[:1])}, actorOf(c))
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)

	_, err = f.engine.Requests.Cancel(f.ctx, req.ID, "again", farmerActor())
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)

	// a farmer cancel does not count against the coordinator
	coordinator, err := f.engine.Coordinators.Get(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, coordinator.FailedCommitments)
}

func TestCancel_ByCoordinatorAfterAcceptCountsAsFailure(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	req := f.acceptedRequest(t, c, model.WorkTypeSowing, 1, testWorkDate)

	_, err := f.engine.Requests.Cancel(f.ctx, req.ID, "no workers", actorOf(c))
	require.NoError(t, err)

	coordinator, err := f.engine.Coordinators.Get(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, coordinator.FailedCommitments)
	assert.Equal(t, 0, coordinator.ReliabilityScore)
}

func TestCancel_Forbidden(t *testing.T) {
	f := newFixture(t)
	f.addCoordinator(t, "Coimbatore")
	req := f.createRequest(t, "Coimbatore", model.WorkTypeSowing, 1, testWorkDate)

	_, err := f.engine.Requests.Cancel(f.ctx, req.ID, "", model.Actor{Type: model.ActorFarmer, ID: "someone-else"})
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestDecline_IsTerminal(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	req := f.createRequest(t, "Coimbatore", model.WorkTypeSowing, 1, testWorkDate)

	req, err := f.engine.Requests.Decline(f.ctx, req.ID, "fully booked", actorOf(c))
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusDeclined, req.Status)
	assert.Equal(t, "fully booked", req.DeclineReason)

	_, err = f.engine.Requests.Accept(f.ctx, req.ID, actorOf(c))
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)
	_, err = f.engine.Requests.Cancel(f.ctx, req.ID, "", farmerActor())
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)
}

func TestFailRequest(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	workers := f.addWorkers(t, c, 1, model.WorkTypeSowing)
	req := f.acceptedRequest(t, c, model.WorkTypeSowing, 1, testWorkDate)
	_, err := f.engine.Requests.AssignWorkers(f.ctx, req.ID, &model.AssignInput{WorkerIDs: workerIDs(workers)}, actorOf(c))
	require.NoError(t, err)

	req, err = f.engine.Requests.FailRequest(f.ctx, req.ID, "tractor broke", actorOf(c))
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusFailed, req.Status)
	assert.Equal(t, model.SlotStatusCancelled, req.Slots[0].Status)

	coordinator, err := f.engine.Coordinators.Get(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, coordinator.FailedCommitments)

	// failing a request does not penalise its workers
	w, err := f.engine.Workers.Get(f.ctx, workers[0].ID)
	require.NoError(t, err)
	assert.Zero(t, w.TotalAssignments)
}

func TestMarkNoShow_LowersWorkerScore(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	workers := f.addWorkers(t, c, 2, model.WorkTypeHarvesting)
	req := f.acceptedRequest(t, c, model.WorkTypeHarvesting, 2, testWorkDate)
	_, err := f.engine.Requests.AssignWorkers(f.ctx, req.ID, &model.AssignInput{WorkerIDs: workerIDs(workers)}, actorOf(c))
	require.NoError(t, err)

	_, err = f.engine.Requests.MarkNoShow(f.ctx, req.ID, &model.SlotActionInput{WorkerID: workers[0].ID}, actorOf(c))
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)

	_, err = f.engine.Requests.StartWork(f.ctx, req.ID, actorOf(c))
	require.NoError(t, err)
	req, err = f.engine.Requests.MarkNoShow(f.ctx, req.ID, &model.SlotActionInput{WorkerID: workers[0].ID}, actorOf(c))
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusNoShow, req.LatestSlotFor(workers[0].ID).Status)

	w, err := f.engine.Workers.Get(f.ctx, workers[0].ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, w.ReliabilityScore, model.DefaultReliabilityScore)

	req, err = f.engine.Requests.CompleteWork(f.ctx, req.ID, "", actorOf(c))
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusNoShow, req.LatestSlotFor(workers[0].ID).Status)
	assert.Equal(t, model.SlotStatusCompleted, req.LatestSlotFor(workers[1].ID).Status)
}

func TestLogTransitionsFollowStateMachine(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	workers := f.addWorkers(t, c, 1, model.WorkTypeSowing)
	req := f.acceptedRequest(t, c, model.WorkTypeSowing, 1, testWorkDate)
	_, err := f.engine.Requests.AssignWorkers(f.ctx, req.ID, &model.AssignInput{WorkerIDs: workerIDs(workers)}, actorOf(c))
	require.NoError(t, err)
	_, err = f.engine.Requests.StartWork(f.ctx, req.ID, actorOf(c))
	require.NoError(t, err)
	_, err = f.engine.Requests.CompleteWork(f.ctx, req.ID, "", actorOf(c))
	require.NoError(t, err)

	logs, err := f.engine.Requests.GetRequestLogs(f.ctx, req.ID)
	require.NoError(t, err)
	terminal := 0
	for _, l := range logs {
		if l.EventData.FromStatus == "" {
			continue
		}
		from, to := model.RequestStatus(l.EventData.FromStatus), model.RequestStatus(l.EventData.ToStatus)
		assert.True(t, model.CanTransition(from, to), "%s -> %s", from, to)
		if to.IsTerminal() {
			terminal++
		}
	}
	assert.Equal(t, 1, terminal)
}

func TestListRequests(t *testing.T) {
	f := newFixture(t)
	c := f.addCoordinator(t, "Coimbatore")
	late := f.createRequest(t, "Coimbatore", model.WorkTypeSowing, 1, "2025-03-12")
	early := f.createRequest(t, "Coimbatore", model.WorkTypeSowing, 1, "2025-03-11")

	farmer, err := f.engine.Requests.ListFarmerRequests(f.ctx, "farmer-1", "")
	require.NoError(t, err)
	require.Len(t, farmer, 2)
	assert.Equal(t, early.ID, farmer[0].ID) // newest first

	byDate, err := f.engine.Requests.ListCoordinatorRequests(f.ctx, c.ID, model.RequestStatusPending)
	require.NoError(t, err)
	assert.Equal(t, []string{early.ID, late.ID}, []string{byDate[0].ID, byDate[1].ID})

	_, err = f.engine.Requests.ListCoordinatorRequests(f.ctx, "missing", "")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
