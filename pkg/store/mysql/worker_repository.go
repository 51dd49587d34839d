package mysql

import (
	"context"
	"errors"
	"fmt"

	"labourhub/internal/model"

	"gorm.io/gorm"
)

// WorkerRepository handles worker persistence in MySQL
type WorkerRepository struct {
	ds *Datastore
}

// NewWorkerRepository creates a new worker repository
func NewWorkerRepository(ds *Datastore) *WorkerRepository {
	return &WorkerRepository{ds: ds}
}

// Create creates a new worker
func (r *WorkerRepository) Create(ctx context.Context, w *model.Worker) error {
	if err := r.ds.DB(ctx).Create(FromWorkerDomain(w)).Error; err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}
	return nil
}

// Get retrieves a worker by ID
func (r *WorkerRepository) Get(ctx context.Context, id string) (*model.Worker, error) {
	var row Worker
	err := r.ds.DB(ctx).Where("worker_id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	return ToWorkerDomain(&row), nil
}

// GetByPhone retrieves the active worker registered with phone
func (r *WorkerRepository) GetByPhone(ctx context.Context, phone string) (*model.Worker, error) {
	var row Worker
	err := r.ds.DB(ctx).Where("phone = ? AND is_active = ?", phone, true).Order("created_at DESC").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get worker by phone: %w", err)
	}
	return ToWorkerDomain(&row), nil
}

// Update updates profile fields; counters are only touched by ApplyOutcome
func (r *WorkerRepository) Update(ctx context.Context, w *model.Worker) error {
	row := FromWorkerDomain(w)
	result := r.ds.DB(ctx).Model(&Worker{}).
		Where("worker_id = ?", w.ID).
		Updates(map[string]interface{}{
			"name":         row.Name,
			"phone":        row.Phone,
			"skills":       row.Skills,
			"availability": row.Availability,
			"is_standby":   row.IsStandby,
			"is_active":    row.IsActive,
			"updated_at":   r.ds.GetDB().NowFunc(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update worker: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.NewNotFoundError("worker %s not found", w.ID)
	}
	return nil
}

// ListByCoordinator lists a coordinator's pool
func (r *WorkerRepository) ListByCoordinator(ctx context.Context, coordinatorID string, includeInactive bool) ([]*model.Worker, error) {
	query := r.ds.DB(ctx).Where("coordinator_id = ?", coordinatorID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	return r.find(query)
}

// ListAll lists every worker
func (r *WorkerRepository) ListAll(ctx context.Context) ([]*model.Worker, error) {
	return r.find(r.ds.DB(ctx))
}

func (r *WorkerRepository) find(query *gorm.DB) ([]*model.Worker, error) {
	var rows []*Worker
	if err := query.Order("created_at ASC, worker_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	out := make([]*model.Worker, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToWorkerDomain(row))
	}
	return out, nil
}

// ApplyOutcome increments counters in a single UPDATE and re-reads the row
func (r *WorkerRepository) ApplyOutcome(ctx context.Context, id string, d model.OutcomeDelta) (*model.Worker, error) {
	result := r.ds.DB(ctx).Model(&Worker{}).
		Where("worker_id = ?", id).
		Updates(map[string]interface{}{
			"total_assignments":     gorm.Expr("total_assignments + ?", d.Handled),
			"completed_assignments": gorm.Expr("completed_assignments + ?", d.Completed),
			"cancelled_assignments": gorm.Expr("cancelled_assignments + ?", d.Cancelled),
			"updated_at":            r.ds.GetDB().NowFunc(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to apply worker outcome: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, model.NewNotFoundError("worker %s not found", id)
	}
	return r.Get(ctx, id)
}

// SetReliability stores a recomputed score
func (r *WorkerRepository) SetReliability(ctx context.Context, id string, score int) error {
	return r.ds.DB(ctx).Model(&Worker{}).
		Where("worker_id = ?", id).
		Update("reliability_score", score).Error
}
