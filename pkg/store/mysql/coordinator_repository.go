package mysql

import (
	"context"
	"errors"
	"fmt"

	"labourhub/internal/model"

	"gorm.io/gorm"
)

// CoordinatorRepository handles coordinator persistence in MySQL
type CoordinatorRepository struct {
	ds *Datastore
}

// NewCoordinatorRepository creates a new coordinator repository
func NewCoordinatorRepository(ds *Datastore) *CoordinatorRepository {
	return &CoordinatorRepository{ds: ds}
}

// Create creates a new coordinator
func (r *CoordinatorRepository) Create(ctx context.Context, c *model.Coordinator) error {
	err := r.ds.DB(ctx).Create(FromCoordinatorDomain(c)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.NewConflictError("user %s is already a coordinator", c.UserID)
	}
	if err != nil {
		return fmt.Errorf("failed to create coordinator: %w", err)
	}
	return nil
}

func (r *CoordinatorRepository) first(ctx context.Context, query string, arg interface{}) (*model.Coordinator, error) {
	var row Coordinator
	err := r.ds.DB(ctx).Where(query, arg).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coordinator: %w", err)
	}
	return ToCoordinatorDomain(&row), nil
}

// Get retrieves a coordinator by ID
func (r *CoordinatorRepository) Get(ctx context.Context, id string) (*model.Coordinator, error) {
	return r.first(ctx, "coordinator_id = ?", id)
}

// GetByUserID retrieves the coordinator registered by a user
func (r *CoordinatorRepository) GetByUserID(ctx context.Context, userID string) (*model.Coordinator, error) {
	return r.first(ctx, "user_id = ?", userID)
}

// Update updates profile fields; counters are only touched by ApplyOutcome
func (r *CoordinatorRepository) Update(ctx context.Context, c *model.Coordinator) error {
	row := FromCoordinatorDomain(c)
	result := r.ds.DB(ctx).Model(&Coordinator{}).
		Where("coordinator_id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":              row.Name,
			"phone":             row.Phone,
			"district":          row.District,
			"area":              row.Area,
			"service_radius_km": row.ServiceRadiusKm,
			"skills_offered":    row.SkillsOffered,
			"is_active":         row.IsActive,
			"is_verified":       row.IsVerified,
			"updated_at":        r.ds.GetDB().NowFunc(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update coordinator: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.NewNotFoundError("coordinator %s not found", c.ID)
	}
	return nil
}

// ListActive lists active coordinators, oldest first
func (r *CoordinatorRepository) ListActive(ctx context.Context) ([]*model.Coordinator, error) {
	var rows []*Coordinator
	err := r.ds.DB(ctx).Where("is_active = ?", true).Order("created_at ASC, coordinator_id ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list coordinators: %w", err)
	}
	out := make([]*model.Coordinator, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToCoordinatorDomain(row))
	}
	return out, nil
}

// ApplyOutcome increments counters in a single UPDATE and re-reads the row
func (r *CoordinatorRepository) ApplyOutcome(ctx context.Context, id string, d model.OutcomeDelta) (*model.Coordinator, error) {
	result := r.ds.DB(ctx).Model(&Coordinator{}).
		Where("coordinator_id = ?", id).
		Updates(map[string]interface{}{
			"total_requests_handled": gorm.Expr("total_requests_handled + ?", d.Handled),
			"successful_completions": gorm.Expr("successful_completions + ?", d.Successful),
			"failed_commitments":     gorm.Expr("failed_commitments + ?", d.Failed),
			"replacements_provided":  gorm.Expr("replacements_provided + ?", d.Replacement),
			"updated_at":             r.ds.GetDB().NowFunc(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to apply coordinator outcome: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, model.NewNotFoundError("coordinator %s not found", id)
	}
	return r.Get(ctx, id)
}

// SetReliability stores a recomputed score
func (r *CoordinatorRepository) SetReliability(ctx context.Context, id string, score int) error {
	return r.ds.DB(ctx).Model(&Coordinator{}).
		Where("coordinator_id = ?", id).
		Update("reliability_score", score).Error
}

// RecountWorkers sets worker_count from the workers table
func (r *CoordinatorRepository) RecountWorkers(ctx context.Context, id string) (int, error) {
	var count int64
	err := r.ds.DB(ctx).Model(&Worker{}).
		Where("coordinator_id = ? AND is_active = ?", id, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count workers: %w", err)
	}
	err = r.ds.DB(ctx).Model(&Coordinator{}).
		Where("coordinator_id = ?", id).
		Update("worker_count", count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to update worker count: %w", err)
	}
	return int(count), nil
}
