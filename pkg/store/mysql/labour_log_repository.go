package mysql

import (
	"context"
	"fmt"
	"time"

	"labourhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultLogLimit = 100

// LabourLogRepository handles accountability log persistence in MySQL.
// It exposes no update or delete.
type LabourLogRepository struct {
	ds *Datastore
}

// NewLabourLogRepository creates a new labour log repository
func NewLabourLogRepository(ds *Datastore) *LabourLogRepository {
	return &LabourLogRepository{ds: ds}
}

// Record appends a log entry
func (r *LabourLogRepository) Record(ctx context.Context, entry *model.LabourLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if err := r.ds.DB(ctx).Create(FromLogDomain(entry)).Error; err != nil {
		return fmt.Errorf("failed to record labour log: %w", err)
	}
	return nil
}

// ListByRequest retrieves all entries for a request (ordered by time)
func (r *LabourLogRepository) ListByRequest(ctx context.Context, requestID string) ([]*model.LabourLog, error) {
	var rows []*LabourLog
	err := r.ds.DB(ctx).
		Where("request_id = ?", requestID).
		Order("timestamp ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get request logs: %w", err)
	}
	return toLogs(rows, false), nil
}

// ListByCoordinator retrieves a coordinator's latest entries
func (r *LabourLogRepository) ListByCoordinator(ctx context.Context, coordinatorID string, limit int) ([]*model.LabourLog, error) {
	return r.latest(r.ds.DB(ctx).Where("coordinator_id = ?", coordinatorID), limit)
}

// ListByEventType retrieves the latest entries of one event type
func (r *LabourLogRepository) ListByEventType(ctx context.Context, eventType model.EventType, limit int) ([]*model.LabourLog, error) {
	return r.latest(r.ds.DB(ctx).Where("event_type = ?", string(eventType)), limit)
}

// latest reads newest-first with a limit, then flips to chronological order
func (r *LabourLogRepository) latest(query *gorm.DB, limit int) ([]*model.LabourLog, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	var rows []*LabourLog
	if err := query.Order("timestamp DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get labour logs: %w", err)
	}
	return toLogs(rows, true), nil
}

func toLogs(rows []*LabourLog, reverse bool) []*model.LabourLog {
	out := make([]*model.LabourLog, len(rows))
	for i, row := range rows {
		j := i
		if reverse {
			j = len(rows) - 1 - i
		}
		out[j] = ToLogDomain(row)
	}
	return out
}
