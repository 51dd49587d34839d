package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"labourhub/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var openStatuses = []string{
	string(model.RequestStatusPending),
	string(model.RequestStatusAccepted),
	string(model.RequestStatusAssigned),
	string(model.RequestStatusInProgress),
}

// RequestRepository handles labour request and slot persistence in MySQL
type RequestRepository struct {
	ds *Datastore
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(ds *Datastore) *RequestRepository {
	return &RequestRepository{ds: ds}
}

// Create creates a new request; slots are written separately through InsertSlot
func (r *RequestRepository) Create(ctx context.Context, req *model.LabourRequest) error {
	if err := r.ds.DB(ctx).Create(FromRequestDomain(req)).Error; err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

// Get retrieves a request with its slots
func (r *RequestRepository) Get(ctx context.Context, id string) (*model.LabourRequest, error) {
	return r.get(ctx, r.ds.DB(ctx), id)
}

// GetForUpdate retrieves a request with SELECT ... FOR UPDATE.
// Only meaningful inside ExecTx; the lock is held until commit.
func (r *RequestRepository) GetForUpdate(ctx context.Context, id string) (*model.LabourRequest, error) {
	return r.get(ctx, r.ds.DB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *RequestRepository) get(ctx context.Context, db *gorm.DB, id string) (*model.LabourRequest, error) {
	var row LabourRequest
	err := db.Where("request_id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	slots, err := r.slotsFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	return ToRequestDomain(&row, slots[id]), nil
}

func (r *RequestRepository) slotsFor(ctx context.Context, requestIDs []string) (map[string][]*LabourSlot, error) {
	out := make(map[string][]*LabourSlot, len(requestIDs))
	if len(requestIDs) == 0 {
		return out, nil
	}
	var rows []*LabourSlot
	err := r.ds.DB(ctx).
		Where("request_id IN ?", requestIDs).
		Order("request_id ASC, seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load slots: %w", err)
	}
	for _, row := range rows {
		out[row.RequestID] = append(out[row.RequestID], row)
	}
	return out, nil
}

func (r *RequestRepository) hydrate(ctx context.Context, rows []*LabourRequest) ([]*model.LabourRequest, error) {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.RequestID)
	}
	slots, err := r.slotsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*model.LabourRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToRequestDomain(row, slots[row.RequestID]))
	}
	return out, nil
}

// List lists requests matching filter, newest first
func (r *RequestRepository) List(ctx context.Context, f model.RequestFilter) ([]*model.LabourRequest, error) {
	query := r.ds.DB(ctx).Model(&LabourRequest{})
	if f.FarmerID != "" {
		query = query.Where("farmer_id = ?", f.FarmerID)
	}
	if f.CoordinatorID != "" {
		query = query.Where("coordinator_id = ?", f.CoordinatorID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", string(f.Status))
	}
	if f.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *f.CreatedAfter)
	}

	var rows []*LabourRequest
	if err := query.Order("created_at DESC, request_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return r.hydrate(ctx, rows)
}

// Update writes request fields with CAS on version
func (r *RequestRepository) Update(ctx context.Context, req *model.LabourRequest) error {
	row := FromRequestDomain(req)
	now := r.ds.GetDB().NowFunc()
	result := r.ds.DB(ctx).Model(&LabourRequest{}).
		Where("request_id = ? AND version = ?", req.ID, req.Version).
		Updates(map[string]interface{}{
			"coordinator_id":      row.CoordinatorID,
			"standby_worker_ids":  row.StandbyWorkerIDs,
			"status":              row.Status,
			"farmer_confirmed":    row.FarmerConfirmed,
			"farmer_confirmed_at": row.FarmerConfirmedAt,
			"rating":              row.Rating,
			"feedback":            row.Feedback,
			"completion_notes":    row.CompletionNotes,
			"decline_reason":      row.DeclineReason,
			"cancellation_reason": row.CancellationReason,
			"cancelled_by":        row.CancelledBy,
			"failure_reason":      row.FailureReason,
			"accepted_at":         row.AcceptedAt,
			"work_started_at":     row.WorkStartedAt,
			"work_completed_at":   row.WorkCompletedAt,
			"cancelled_at":        row.CancelledAt,
			"version":             gorm.Expr("version + 1"),
			"updated_at":          now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.NewConflictError("request %s not found or modified concurrently (version %d)", req.ID, req.Version)
	}
	req.Version++
	req.UpdatedAt = now
	return nil
}

// InsertSlot inserts a slot; the (worker_id, active_day) unique index rejects double-booking
func (r *RequestRepository) InsertSlot(ctx context.Context, slot *model.Slot, day time.Time) error {
	err := r.ds.DB(ctx).Create(FromSlotDomain(slot, model.DayKey(day))).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.NewWorkerConflictError("worker %s is already booked on %s", slot.WorkerID, model.DayKey(day))
	}
	if err != nil {
		return fmt.Errorf("failed to insert slot: %w", err)
	}
	return nil
}

// UpdateSlot updates a slot with CAS on status.
// Moving to a non-booking status clears active_day so the day is free again.
func (r *RequestRepository) UpdateSlot(ctx context.Context, slot *model.Slot, from model.SlotStatus) error {
	updates := map[string]interface{}{
		"status":              string(slot.Status),
		"confirmed_at":        slot.ConfirmedAt,
		"replaced_by":         slot.ReplacedBy,
		"replaced_at":         slot.ReplacedAt,
		"cancelled_at":        slot.CancelledAt,
		"cancellation_reason": slot.CancellationReason,
	}
	if !slot.Status.HoldsBooking() {
		updates["active_day"] = nil
	}
	result := r.ds.DB(ctx).Model(&LabourSlot{}).
		Where("slot_id = ? AND status = ?", slot.ID, string(from)).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update slot: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.NewConflictError("slot %s not found or status changed (expected: %s)", slot.ID, from)
	}
	return nil
}

// BookedWorkers reads live bookings for the given workers on day
func (r *RequestRepository) BookedWorkers(ctx context.Context, day time.Time, workerIDs []string) (map[string]string, error) {
	out := make(map[string]string)
	if len(workerIDs) == 0 {
		return out, nil
	}
	var rows []*LabourSlot
	err := r.ds.DB(ctx).
		Select("worker_id", "request_id").
		Where("active_day = ? AND worker_id IN ?", model.DayKey(day), workerIDs).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	for _, row := range rows {
		out[row.WorkerID] = row.RequestID
	}
	return out, nil
}

// ListByWorker lists requests on which the worker holds a booking, by work date
func (r *RequestRepository) ListByWorker(ctx context.Context, workerID string) ([]*model.LabourRequest, error) {
	var requestIDs []string
	err := r.ds.DB(ctx).Model(&LabourSlot{}).
		Where("worker_id = ? AND active_day IS NOT NULL", workerID).
		Distinct().
		Pluck("request_id", &requestIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query worker slots: %w", err)
	}
	if len(requestIDs) == 0 {
		return []*model.LabourRequest{}, nil
	}

	var rows []*LabourRequest
	err = r.ds.DB(ctx).
		Where("request_id IN ?", requestIDs).
		Order("work_date ASC, request_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list worker requests: %w", err)
	}
	return r.hydrate(ctx, rows)
}

// CountOpen counts open requests per coordinator
func (r *RequestRepository) CountOpen(ctx context.Context, coordinatorIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(coordinatorIDs))
	if len(coordinatorIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		CoordinatorID string
		Count         int
	}
	err := r.ds.DB(ctx).Model(&LabourRequest{}).
		Select("coordinator_id, COUNT(*) AS count").
		Where("coordinator_id IN ? AND status IN ?", coordinatorIDs, openStatuses).
		Group("coordinator_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count open requests: %w", err)
	}
	for _, row := range rows {
		out[row.CoordinatorID] = row.Count
	}
	return out, nil
}
