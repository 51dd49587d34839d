package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"labourhub/internal/model"
	"labourhub/pkg/config"
	"labourhub/pkg/interfaces"
	"labourhub/pkg/logger"

	"github.com/google/uuid"
)

var startTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// RequestService owns the labour request state machine.
// It is the only entry point that mutates requests.
type RequestService struct {
	store        interfaces.Store
	router       *CoordinatorRouter
	availability *AvailabilityResolver
	assignment   *AssignmentManager
	replacement  *ReplacementEngine
	scorer       *ReliabilityScorer
	logs         *LabourLogService
	cfg          config.EngineConfig
	now          func() time.Time
}

// NewRequestService creates a new request service
func NewRequestService(
	store interfaces.Store,
	router *CoordinatorRouter,
	availability *AvailabilityResolver,
	assignment *AssignmentManager,
	replacement *ReplacementEngine,
	scorer *ReliabilityScorer,
	logs *LabourLogService,
	cfg config.EngineConfig,
) *RequestService {
	if cfg.MaxWorkersPerRequest <= 0 {
		cfg.MaxWorkersPerRequest = config.DefaultMaxWorkersPerRequest
	}
	if cfg.CancelRetryAttempts <= 0 {
		cfg.CancelRetryAttempts = config.DefaultCancelRetryAttempts
	}
	return &RequestService{
		store:        store,
		router:       router,
		availability: availability,
		assignment:   assignment,
		replacement:  replacement,
		scorer:       scorer,
		logs:         logs,
		cfg:          cfg,
		now:          time.Now,
	}
}

// authorizeCoordinator allows the system and the request's own coordinator
func authorizeCoordinator(actor model.Actor, req *model.LabourRequest) error {
	switch {
	case actor.Type == model.ActorSystem:
		return nil
	case actor.Type == model.ActorCoordinator && actor.ID == req.CoordinatorID:
		return nil
	}
	return model.NewForbiddenError("request %s is handled by coordinator %s", req.ID, req.CoordinatorID)
}

// authorizeFarmer allows the system and the farmer who created the request
func authorizeFarmer(actor model.Actor, req *model.LabourRequest) error {
	switch {
	case actor.Type == model.ActorSystem:
		return nil
	case actor.Type == model.ActorFarmer && actor.ID == req.FarmerID:
		return nil
	}
	return model.NewForbiddenError("request %s belongs to another farmer", req.ID)
}

func authorizeParty(actor model.Actor, req *model.LabourRequest) error {
	if actor.Type == model.ActorFarmer {
		return authorizeFarmer(actor, req)
	}
	return authorizeCoordinator(actor, req)
}

func transition(req *model.LabourRequest, to model.RequestStatus) error {
	if !model.CanTransition(req.Status, to) {
		return model.NewInvalidTransitionError("request %s cannot move from %s to %s", req.ID, req.Status, to)
	}
	req.Status = to
	return nil
}

func statusData(from, to model.RequestStatus) model.EventData {
	return model.EventData{FromStatus: string(from), ToStatus: string(to)}
}

// mutate loads the request under lock, applies fn and persists it with a version check,
// all in one transaction. The returned request is the committed state.
func (s *RequestService) mutate(ctx context.Context, requestID string, fn func(ctx context.Context, req *model.LabourRequest) error) (*model.LabourRequest, error) {
	var out *model.LabourRequest
	err := s.logs.RunTx(ctx, func(ctx context.Context) error {
		req, err := s.store.Requests().GetForUpdate(ctx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get request: %w", err)
		}
		if req == nil {
			return model.NewNotFoundError("request %s not found", requestID)
		}
		if err := fn(ctx, req); err != nil {
			return err
		}
		if err := s.store.Requests().Update(ctx, req); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RequestService) buildRequest(in *model.CreateRequestInput) (*model.LabourRequest, error) {
	if strings.TrimSpace(in.FarmerID) == "" {
		return nil, model.NewValidationError("farmer_id is required")
	}
	if strings.TrimSpace(in.LandID) == "" {
		return nil, model.NewValidationError("land_id is required")
	}
	if in.WorkersNeeded < 1 || in.WorkersNeeded > s.cfg.MaxWorkersPerRequest {
		return nil, model.NewValidationError("workers_needed must be between 1 and %d", s.cfg.MaxWorkersPerRequest)
	}
	if in.WorkDate == "" {
		return nil, model.NewValidationError("work_date is required")
	}
	day, err := model.ParseDay(in.WorkDate)
	if err != nil {
		return nil, err
	}
	workType, err := model.ParseWorkType(in.WorkType)
	if err != nil {
		return nil, err
	}
	start := in.StartTime
	if start == "" {
		start = model.DefaultStartTime
	}
	if !startTimePattern.MatchString(start) {
		return nil, model.NewValidationError("start_time %q must be HH:MM", in.StartTime)
	}
	duration := in.DurationHours
	if duration == 0 {
		duration = model.DefaultDurationHours
	}
	if duration < 1 || duration > 24 {
		return nil, model.NewValidationError("duration_hours must be between 1 and 24")
	}

	now := s.now()
	return &model.LabourRequest{
		ID:               uuid.New().String(),
		Reference:        newReference(now),
		FarmerID:         in.FarmerID,
		LandID:           in.LandID,
		WorkType:         workType,
		WorkersNeeded:    in.WorkersNeeded,
		WorkDate:         day,
		StartTime:        start,
		DurationHours:    duration,
		Description:      strings.TrimSpace(in.Description),
		Location:         model.Location{District: strings.TrimSpace(in.Location.District), Area: strings.TrimSpace(in.Location.Area)},
		Slots:            []model.Slot{},
		StandbyWorkerIDs: []string{},
		Status:           model.RequestStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// newReference builds the human-facing LR-<unix-ms>-<suffix> reference
func newReference(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:5])
	return fmt.Sprintf("LR-%d-%s", now.UnixMilli(), suffix)
}

// Create validates the submission, routes it and stores a pending request
func (s *RequestService) Create(ctx context.Context, in *model.CreateRequestInput) (*model.LabourRequest, error) {
	req, err := s.buildRequest(in)
	if err != nil {
		return nil, err
	}

	err = s.logs.RunTx(ctx, func(ctx context.Context) error {
		c, err := s.router.Route(ctx, req.Location, req.WorkType)
		if err != nil {
			return err
		}
		req.CoordinatorID = c.ID
		if err := s.store.Requests().Create(ctx, req); err != nil {
			return err
		}
		farmer := model.Actor{Type: model.ActorFarmer, ID: req.FarmerID}
		if err := s.logs.Record(ctx, req, model.EventRequestCreated, farmer, model.EventData{
			WorkerCount: model.IntPtr(req.WorkersNeeded),
		}); err != nil {
			return err
		}
		return s.logs.Record(ctx, req, model.EventCoordinatorAssigned, model.SystemActor, model.EventData{})
	})
	if err != nil {
		return nil, err
	}
	logger.InfoCtx(ctx, "request %s (%s) created for farmer %s, coordinator %s",
		req.ID, req.Reference, req.FarmerID, req.CoordinatorID)
	return req, nil
}

// Accept moves a pending request to accepted
func (s *RequestService) Accept(ctx context.Context, requestID string, actor model.Actor) (*model.LabourRequest, error) {
	return s.mutate(ctx, requestID, func(ctx context.Context, req *model.LabourRequest) error {
		if err := authorizeCoordinator(actor, req); err != nil {
			return err
		}
		from := req.Status
		if err := transition(req, model.RequestStatusAccepted); err != nil {
			return err
		}
		now := s.now()
		req.AcceptedAt = &now
		return s.logs.Record(ctx, req, model.EventCoordinatorAccepted, actor, statusData(from, req.Status))
	})
}

// Decline ends a pending request; the farmer may submit a new one
func (s *RequestService) Decline(ctx context.Context, requestID, reason string, actor model.Actor) (*model.LabourRequest, error) {
	return s.mutate(ctx, requestID, func(ctx context.Context, req *model.LabourRequest) error {
		if err := authorizeCoordinator(actor, req); err != nil {
			return err
		}
		from := req.Status
		if err := transition(req, model.RequestStatusDeclined); err != nil {
			return err
		}
		req.DeclineReason = reason
		data := statusData(from, req.Status)
		data.Reason = reason
		return s.logs.Record(ctx, req, model.EventCoordinatorDeclined, actor, data)
	})
}

// Cancel cancels a request and every slot still holding a booking.
// A version conflict with a concurrent writer is retried; once the request
// has moved on, the retry reports InvalidStateTransition.
func (s *RequestService) Cancel(ctx context.Context, requestID, reason string, actor model.Actor) (*model.LabourRequest, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.CancelRetryAttempts; attempt++ {
		req, err := s.mutate(ctx, requestID, func(ctx context.Context, req *model.LabourRequest) error {
			return s.cancel(ctx, req, reason, actor)
		})
		if err == nil {
			return req, nil
		}
		if !errors.Is(err, model.ErrConflict) {
			return nil, err
		}
		lastErr = err
		logger.WarnCtx(ctx, "cancel of request %s hit a concurrent update, attempt %d/%d", requestID, attempt, s.cfg.CancelRetryAttempts)
	}
	return nil, lastErr
}

func (s *RequestService) cancel(ctx context.Context, req *model.LabourRequest, reason string, actor model.Actor) error {
	if err := authorizeParty(actor, req); err != nil {
		return err
	}
	from := req.Status
	if err := transition(req, model.RequestStatusCancelled); err != nil {
		return err
	}
	now := s.now()
	for i := range req.Slots {
		slot := req.Slots[i]
		if !slot.Status.IsPending() {
			continue
		}
		updated := slot
		updated.Status = model.SlotStatusCancelled
		updated.CancelledAt = &now
		updated.CancellationReason = "request cancelled"
		if err := s.store.Requests().UpdateSlot(ctx, &updated, slot.Status); err != nil {
			return err
		}
		req.Slots[i] = updated
	}
	req.CancellationReason = reason
	req.CancelledBy = actor.Type
	req.CancelledAt = &now

	data := statusData(from, req.Status)
	data.Reason = reason
	if err := s.logs.Record(ctx, req, model.EventRequestCancelled, actor, data); err != nil {
		return err
	}
	return s.scorer.RequestCancelled(ctx, req, actor.Type, from)
}

// StartWork moves an assigned request with at least one pending slot to in_progress
func (s *RequestService) StartWork(ctx context.Context, requestID string, actor model.Actor) (*model.LabourRequest, error) {
	return s.mutate(ctx, requestID, func(ctx context.Context, req *model.LabourRequest) error {
		if err := authorizeCoordinator(actor, req); err != nil {
			return err
		}
		if req.Status != model.RequestStatusAssigned {
			return model.NewInvalidTransitionError("request %s must be assigned to start work, is %s", req.ID, req.Status)
		}
		if req.PendingCount() == 0 {
			return model.NewInvalidTransitionError("request %s has no assigned or confirmed worker", req.ID)
		}
		from := req.Status
		if err := transition(req, model.RequestStatusInProgress); err != nil {
			return err
		}
		now := s.now()
		req.WorkStartedAt = &now
		data := statusData(from, req.Status)
		data.WorkerCount = model.IntPtr(req.PendingCount())
		return s.logs.Record(ctx, req, model.EventWorkStarted, actor, data)
	})
}

// CompleteWork completes the request, closes every pending slot and credits
// the coordinator and completed workers
func (s *RequestService) CompleteWork(ctx context.Context, requestID, notes string, actor model.Actor) (*model.LabourRequest, error) {
	return s.mutate(ctx, requestID, func(ctx context.Context, req *model.LabourRequest) error {
		if err := authorizeCoordinator(actor, req); err != nil {
			return err
		}
		from := req.Status
		if err := transition(req, model.RequestStatusCompleted); err != nil {
			return err
		}
		for i := range req.Slots {
			slot := req.Slots[i]
			if !slot.Status.IsPending() {
				continue
			}
			updated := slot
			updated.Status = model.SlotStatusCompleted
			if err := s.store.Requests().UpdateSlot(ctx, &updated, slot.Status); err != nil {
				return err
			}
			req.Slots[i] = updated
		}
		now := s.now()
		req.WorkCompletedAt = &now
		req.CompletionNotes = notes

		data := statusData(from, req.Status)
		data.Notes = notes
		data.WorkerCount = model.IntPtr(req.ActiveCount())
		if err := s.logs.Record(ctx, req, model.EventWorkCompleted, actor, data); err != nil {
			return err
		}
		return s.scorer.RequestCompleted(ctx, req)
	})
}

// FailRequest records that the coordinator could not deliver an accepted request
func (s *RequestService) FailRequest(ctx context.Context, requestID, reason string, actor model.Actor) (*model.LabourRequest, error) {
	return s.mutate(ctx, requestID, func(ctx context.Context, req *model.LabourRequest) error {
		if err := authorizeCoordinator(actor, req); err != nil {
			return err
		}
		from := req.Status
		if err := transition(req, model.RequestStatusFailed); err != nil {
			return err
		}
		now := s.now()
		for i := range req.Slots {
			slot := req.Slots[i]
			if !slot.Status.IsPending() {
				continue
			}
			updated := slot
			updated.Status = model.SlotStatusCancelled
			updated.CancelledAt = &now
			updated.CancellationReason = "request failed"
			if err := s.store.Requests().UpdateSlot(ctx, &updated, slot.Status); err != nil {
				return err
			}
			req.Slots[i] = updated
		}
		req.FailureReason = reason

		data := statusData(from, req.Status)
		data.Reason = reason
		if err := s.logs.Record(ctx, req, model.EventRequestFailed, actor, data); err != nil {
			return err
		}
		return s.scorer.RequestFailed(ctx, req)
	})
}

// SubmitFeedback stores the farmer's rating once
func (s *RequestService) SubmitFeedback(ctx context.Context, requestID string, in *model.FeedbackInput, actor model.Actor) (*model.LabourRequest, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, model.NewValidationError("rating must be between 1 and 5")
	}
	return s.mutate(ctx, requestID, func(ctx context.Context, req *model.LabourRequest) error {
		if err := authorizeFarmer(actor, req); err != nil {
			return err
		}
		if req.Status != model.RequestStatusCompleted {
			return model.NewInvalidTransitionError("feedback requires a completed request, %s is %s", req.ID, req.Status)
		}
		if req.Rating != nil {
			return model.NewAlreadyRatedError("request %s was already rated %d", req.ID, *req.Rating)
		}
		req.Rating = model.IntPtr(in.Rating)
		req.Feedback = strings.TrimSpace(in.Feedback)
		return s.logs.Record(ctx, req, model.EventFeedbackSubmitted, actor, model.EventData{
			Rating: model.IntPtr(in.Rating),
			Notes:  req.Feedback,
		})
	})
}

// ConfirmCompletion records the farmer's acknowledgement of a completed request
func (s *RequestService) ConfirmCompletion(ctx context.Context, requestID string, actor model.Actor) (*model.LabourRequest, error) {
	return s.mutate(ctx, requestID, func(ctx context.Context, req *model.LabourRequest) error {
		if err := authorizeFarmer(actor, req); err != nil {
			return err
		}
		if req.Status != model.RequestStatusCompleted {
			return model.NewInvalidTransitionError("only a completed request can be confirmed, %s is %s", req.ID, req.Status)
		}
		if req.FarmerConfirmed {
			return nil
		}
		now := s.now()
		req.FarmerConfirmed = true
		req.FarmerConfirmedAt = &now
		return nil
	})
}

// AssignWorkers binds workers and standby workers to an accepted or assigned request
func (s *RequestService) AssignWorkers(ctx context.Context, requestID string, in *model.AssignInput, actor model.Actor) (*model.LabourRequest, error) {
	return s.mutate(ctx, requestID, func(ctx context.Context, req *model.LabourRequest) error {
		if err := authorizeCoordinator(actor, req); err != nil {
			return err
		}
		return s.assignment.Assign(ctx, req, in.WorkerIDs, in.StandbyWorkerIDs, actor)
	})
}

// GetReplacementSuggestions ranks substitutes for a request.
// The suggestion event is recorded, so this runs as a transaction too.
func (s *RequestService) GetReplacementSuggestions(ctx context.Context, requestID, cancelledWorkerID string, actor model.Actor) (*model.Suggestions, error) {
	var out *model.Suggestions
	err := s.logs.RunTx(ctx, func(ctx context.Context) error {
		req, err := s.store.Requests().Get(ctx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get request: %w", err)
		}
		if req == nil {
			return model.NewNotFoundError("request %s not found", requestID)
		}
		if err := authorizeCoordinator(actor, req); err != nil {
			return err
		}
		out, err = s.replacement.Suggest(ctx, req, cancelledWorkerID, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceWorker substitutes newWorkerID for cancelledWorkerID
func (s *RequestService) ReplaceWorker(ctx context.Context, requestID string, in *model.ReplaceInput, actor model.Actor) (*model.LabourRequest, error) {
	return s.mutate(ctx, requestID, func(ctx context.Context, req *model.LabourRequest) error {
		if err := authorizeCoordinator(actor, req); err != nil {
			return err
		}
		return s.replacement.Replace(ctx, req, in.CancelledWorkerID, in.NewWorkerID, in.Reason, actor)
	})
}

// authorizeSlotActor allows the request's coordinator or the worker owning the slot
func authorizeSlotActor(actor model.Actor, req *model.LabourRequest, workerID string) error {
	if actor.Type == model.ActorWorker {
		if actor.ID == workerID {
			return nil
		}
		return model.NewForbiddenError("worker %s cannot act on the slot of %s", actor.ID, workerID)
	}
	return authorizeCoordinator(actor, req)
}

func pendingSlot(req *model.LabourRequest, workerID string) (int, error) {
	for i := len(req.Slots) - 1; i >= 0; i-- {
		if req.Slots[i].WorkerID == workerID && req.Slots[i].Status.IsPending() {
			return i, nil
		}
	}
	return -1, model.NewSlotNotFoundError("worker %s has no assigned slot on request %s", workerID, req.ID)
}

// ConfirmWorker marks a worker's assigned slot confirmed
func (s *RequestService) ConfirmWorker(ctx context.Context, requestID, workerID string, actor model.Actor) (*model.LabourRequest, error) {
	return s.mutate(ctx, requestID, func(ctx context.Context, req *model.LabourRequest) error {
		if err := authorizeSlotActor(actor, req, workerID); err != nil {
			return err
		}
		if req.Status != model.RequestStatusAssigned && req.Status != model.RequestStatusAccepted {
			return model.NewInvalidTransitionError("workers can only confirm before work starts, request is %s", req.Status)
		}
		idx, err := pendingSlot(req, workerID)
		if err != nil {
			return err
		}
		slot := req.Slots[idx]
		if slot.Status == model.SlotStatusConfirmed {
			return nil
		}
		now := s.now()
		updated := slot
		updated.Status = model.SlotStatusConfirmed
		updated.ConfirmedAt = &now
		if err := s.store.Requests().UpdateSlot(ctx, &updated, slot.Status); err != nil {
			return err
		}
		req.Slots[idx] = updated
		return s.logs.Record(ctx, req, model.EventWorkerConfirmed, actor, model.EventData{WorkerID: workerID})
	})
}

// CancelWorker cancels one worker's slot without replacing it. The request keeps
// its status so the coordinator can replace or top up afterwards.
func (s *RequestService) CancelWorker(ctx context.Context, requestID string, in *model.SlotActionInput, actor model.Actor) (*model.LabourRequest, error) {
	return s.mutate(ctx, requestID, func(ctx context.Context, req *model.LabourRequest) error {
		if err := authorizeSlotActor(actor, req, in.WorkerID); err != nil {
			return err
		}
		switch req.Status {
		case model.RequestStatusAccepted, model.RequestStatusAssigned, model.RequestStatusInProgress:
		default:
			return model.NewInvalidTransitionError("cannot cancel a worker on a %s request", req.Status)
		}
		return s.dropWorker(ctx, req, in.WorkerID, model.SlotStatusCancelled, in.Reason, actor)
	})
}

// MarkNoShow records that an assigned worker did not turn up once work started
func (s *RequestService) MarkNoShow(ctx context.Context, requestID string, in *model.SlotActionInput, actor model.Actor) (*model.LabourRequest, error) {
	return s.mutate(ctx, requestID, func(ctx context.Context, req *model.LabourRequest) error {
		if err := authorizeCoordinator(actor, req); err != nil {
			return err
		}
		if req.Status != model.RequestStatusInProgress {
			return model.NewInvalidTransitionError("no-show can only be recorded while in progress, request is %s", req.Status)
		}
		reason := in.Reason
		if reason == "" {
			reason = string(model.SlotStatusNoShow)
		}
		return s.dropWorker(ctx, req, in.WorkerID, model.SlotStatusNoShow, reason, actor)
	})
}

func (s *RequestService) dropWorker(ctx context.Context, req *model.LabourRequest, workerID string, to model.SlotStatus, reason string, actor model.Actor) error {
	idx, err := pendingSlot(req, workerID)
	if err != nil {
		return err
	}
	slot := req.Slots[idx]
	now := s.now()
	updated := slot
	updated.Status = to
	updated.CancelledAt = &now
	updated.CancellationReason = reason
	if err := s.store.Requests().UpdateSlot(ctx, &updated, slot.Status); err != nil {
		return err
	}
	req.Slots[idx] = updated

	if err := s.logs.Record(ctx, req, model.EventWorkerCancelled, actor, model.EventData{
		WorkerID: workerID,
		Reason:   reason,
	}); err != nil {
		return err
	}
	return s.scorer.WorkerDropped(ctx, workerID)
}

// Get returns one request
func (s *RequestService) Get(ctx context.Context, requestID string) (*model.LabourRequest, error) {
	req, err := s.store.Requests().Get(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if req == nil {
		return nil, model.NewNotFoundError("request %s not found", requestID)
	}
	return req, nil
}

// ListFarmerRequests lists a farmer's requests, newest first
func (s *RequestService) ListFarmerRequests(ctx context.Context, farmerID string, status model.RequestStatus) ([]*model.LabourRequest, error) {
	if farmerID == "" {
		return nil, model.NewValidationError("farmer id is required")
	}
	return s.store.Requests().List(ctx, model.RequestFilter{FarmerID: farmerID, Status: status})
}

// ListCoordinatorRequests lists a coordinator's requests by work date, earliest first
func (s *RequestService) ListCoordinatorRequests(ctx context.Context, coordinatorID string, status model.RequestStatus) ([]*model.LabourRequest, error) {
	c, err := s.store.Coordinators().Get(ctx, coordinatorID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, model.NewNotFoundError("coordinator %s not found", coordinatorID)
	}
	reqs, err := s.store.Requests().List(ctx, model.RequestFilter{CoordinatorID: coordinatorID, Status: status})
	if err != nil {
		return nil, err
	}
	sortByWorkDate(reqs)
	return reqs, nil
}

// GetAvailableWorkers lists the coordinator's workers bookable on day
func (s *RequestService) GetAvailableWorkers(ctx context.Context, coordinatorID, day, workType string) ([]*model.Worker, error) {
	d, err := model.ParseDay(day)
	if err != nil {
		return nil, err
	}
	var wt model.WorkType
	if workType != "" {
		if wt, err = model.ParseWorkType(workType); err != nil {
			return nil, err
		}
	}
	return s.availability.FindAvailable(ctx, coordinatorID, d, wt)
}

func sortByWorkDate(reqs []*model.LabourRequest) {
	sort.SliceStable(reqs, func(i, j int) bool {
		if !reqs[i].WorkDate.Equal(reqs[j].WorkDate) {
			return reqs[i].WorkDate.Before(reqs[j].WorkDate)
		}
		return reqs[i].CreatedAt.Before(reqs[j].CreatedAt)
	})
}

// GetRequestLogs returns a request's log in chronological order
func (s *RequestService) GetRequestLogs(ctx context.Context, requestID string) ([]*model.LabourLog, error) {
	return s.logs.ListByRequest(ctx, requestID)
}
