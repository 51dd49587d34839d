package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"labourhub/internal/model"
	"labourhub/pkg/interfaces"
	"labourhub/pkg/logger"

	"github.com/google/uuid"
)

const (
	defaultNearbyLimit = 10
	recentRequestsDays = 30
)

// CoordinatorService coordinator directory operations
type CoordinatorService struct {
	store interfaces.Store
	now   func() time.Time
}

// NewCoordinatorService creates a new coordinator service
func NewCoordinatorService(store interfaces.Store) *CoordinatorService {
	return &CoordinatorService{store: store, now: time.Now}
}

func parseWorkTypes(raw []string) ([]model.WorkType, error) {
	out := make([]model.WorkType, 0, len(raw))
	seen := make(map[model.WorkType]bool, len(raw))
	for _, s := range raw {
		wt, err := model.ParseWorkType(s)
		if err != nil {
			return nil, err
		}
		if !seen[wt] {
			seen[wt] = true
			out = append(out, wt)
		}
	}
	return out, nil
}

// Register onboards a coordinator; one coordinator per user
func (s *CoordinatorService) Register(ctx context.Context, in *model.RegisterCoordinatorInput) (*model.Coordinator, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, model.NewValidationError("name and phone are required")
	}
	if strings.TrimSpace(in.Location.District) == "" {
		return nil, model.NewValidationError("location.district is required")
	}
	if in.ServiceRadiusKm < 0 {
		return nil, model.NewValidationError("service_radius_km must not be negative")
	}

	skills := model.KnownWorkTypes()
	if len(in.SkillsOffered) > 0 {
		parsed, err := parseWorkTypes(in.SkillsOffered)
		if err != nil {
			return nil, err
		}
		skills = parsed
	}
	radius := in.ServiceRadiusKm
	if radius == 0 {
		radius = model.DefaultServiceRadiusKm
	}

	now := s.now()
	c := &model.Coordinator{
		ID:               uuid.New().String(),
		UserID:           in.UserID,
		Name:             strings.TrimSpace(in.Name),
		Phone:            strings.TrimSpace(in.Phone),
		Location:         model.Location{District: strings.TrimSpace(in.Location.District), Area: strings.TrimSpace(in.Location.Area)},
		ServiceRadiusKm:  radius,
		SkillsOffered:    skills,
		ReliabilityScore: model.DefaultReliabilityScore,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.Coordinators().Create(ctx, c); err != nil {
		return nil, err
	}
	logger.InfoCtx(ctx, "coordinator %s registered in district %s", c.ID, c.Location.District)
	return c, nil
}

// Get returns one coordinator
func (s *CoordinatorService) Get(ctx context.Context, id string) (*model.Coordinator, error) {
	c, err := s.store.Coordinators().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get coordinator: %w", err)
	}
	if c == nil {
		return nil, model.NewNotFoundError("coordinator %s not found", id)
	}
	return c, nil
}

// GetByUser returns the coordinator profile of a user
func (s *CoordinatorService) GetByUser(ctx context.Context, userID string) (*model.Coordinator, error) {
	c, err := s.store.Coordinators().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get coordinator: %w", err)
	}
	if c == nil {
		return nil, model.NewNotFoundError("no coordinator profile for user %s", userID)
	}
	return c, nil
}

// Update applies a partial profile update
func (s *CoordinatorService) Update(ctx context.Context, id string, in *model.UpdateCoordinatorInput) (*model.Coordinator, error) {
	var out *model.Coordinator
	err := s.store.ExecTx(ctx, func(ctx context.Context) error {
		c, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return model.NewValidationError("name must not be empty")
			}
			c.Name = strings.TrimSpace(*in.Name)
		}
		if in.Phone != nil {
			c.Phone = strings.TrimSpace(*in.Phone)
		}
		if in.Location != nil {
			if strings.TrimSpace(in.Location.District) == "" {
				return model.NewValidationError("location.district must not be empty")
			}
			c.Location = *in.Location
		}
		if in.ServiceRadiusKm != nil {
			if *in.ServiceRadiusKm < 0 {
				return model.NewValidationError("service_radius_km must not be negative")
			}
			c.ServiceRadiusKm = *in.ServiceRadiusKm
		}
		if in.SkillsOffered != nil {
			skills, err := parseWorkTypes(in.SkillsOffered)
			if err != nil {
				return err
			}
			c.SkillsOffered = skills
		}
		if in.IsActive != nil {
			c.IsActive = *in.IsActive
		}
		if err := s.store.Coordinators().Update(ctx, c); err != nil {
			return err
		}
		out, err = s.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Verify marks a coordinator as verified
func (s *CoordinatorService) Verify(ctx context.Context, id string) (*model.Coordinator, error) {
	var out *model.Coordinator
	err := s.store.ExecTx(ctx, func(ctx context.Context) error {
		c, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		c.IsVerified = true
		if err := s.store.Coordinators().Update(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.InfoCtx(ctx, "coordinator %s verified", id)
	return out, nil
}

// Nearby lists active coordinators in district offering workType, most reliable first
func (s *CoordinatorService) Nearby(ctx context.Context, district, workType string, limit int) ([]*model.Coordinator, error) {
	if strings.TrimSpace(district) == "" {
		return nil, model.NewValidationError("district is required")
	}
	var wt model.WorkType
	if workType != "" {
		var err error
		if wt, err = model.ParseWorkType(workType); err != nil {
			return nil, err
		}
	}
	if limit <= 0 {
		limit = defaultNearbyLimit
	}

	active, err := s.store.Coordinators().ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list coordinators: %w", err)
	}
	key := model.Location{District: district}.NormalizedDistrict()
	out := make([]*model.Coordinator, 0)
	for _, c := range active {
		if c.Location.NormalizedDistrict() != key {
			continue
		}
		if wt != "" && !c.Offers(wt) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReliabilityScore > out[j].ReliabilityScore
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Stats summarizes a coordinator's pool and workload
func (s *CoordinatorService) Stats(ctx context.Context, id string) (*model.CoordinatorStats, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	workers, err := s.store.Workers().ListByCoordinator(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	open, err := s.store.Requests().CountOpen(ctx, []string{id})
	if err != nil {
		return nil, fmt.Errorf("failed to count open requests: %w", err)
	}
	since := s.now().AddDate(0, 0, -recentRequestsDays)
	recent, err := s.store.Requests().List(ctx, model.RequestFilter{CoordinatorID: id, CreatedAfter: &since})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent requests: %w", err)
	}

	stats := &model.CoordinatorStats{
		CoordinatorID:         c.ID,
		ReliabilityScore:      c.ReliabilityScore,
		TotalRequestsHandled:  c.TotalRequestsHandled,
		SuccessfulCompletions: c.SuccessfulCompletions,
		ReplacementsProvided:  c.ReplacementsProvided,
		FailedCommitments:     c.FailedCommitments,
		WorkerCount:           len(workers),
		OpenRequests:          open[id],
		RecentRequests:        len(recent),
	}
	for _, w := range workers {
		if w.IsStandby {
			stats.StandbyCount++
		}
	}
	return stats, nil
}
