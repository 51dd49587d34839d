package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"labourhub/internal/model"
	"labourhub/pkg/interfaces"
	"labourhub/pkg/logger"

	"github.com/google/uuid"
)

// WorkerService worker pool management and worker self-service
type WorkerService struct {
	store        interfaces.Store
	availability *AvailabilityResolver
	now          func() time.Time
}

// NewWorkerService creates a new worker service
func NewWorkerService(store interfaces.Store, availability *AvailabilityResolver) *WorkerService {
	return &WorkerService{store: store, availability: availability, now: time.Now}
}

func parseSkills(in []model.SkillInput) ([]model.WorkerSkill, error) {
	out := make([]model.WorkerSkill, 0, len(in))
	seen := make(map[model.WorkType]bool, len(in))
	for _, s := range in {
		wt, err := model.ParseWorkType(s.Type)
		if err != nil {
			return nil, err
		}
		if s.ExperienceYears < 0 {
			return nil, model.NewValidationError("experience_years must not be negative")
		}
		if seen[wt] {
			continue
		}
		seen[wt] = true
		out = append(out, model.WorkerSkill{Type: wt, ExperienceYears: s.ExperienceYears})
	}
	return out, nil
}

func (s *WorkerService) requireCoordinator(ctx context.Context, id string) (*model.Coordinator, error) {
	c, err := s.store.Coordinators().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get coordinator: %w", err)
	}
	if c == nil {
		return nil, model.NewNotFoundError("coordinator %s not found", id)
	}
	return c, nil
}

func (s *WorkerService) checkPhoneFree(ctx context.Context, phone, selfID string) error {
	existing, err := s.store.Workers().GetByPhone(ctx, phone)
	if err != nil {
		return fmt.Errorf("failed to look up phone: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return model.NewConflictError("phone %s is already registered to worker %s", phone, existing.ID)
	}
	return nil
}

// Add creates a worker in the coordinator's pool
func (s *WorkerService) Add(ctx context.Context, coordinatorID string, in *model.AddWorkerInput) (*model.Worker, error) {
	name, phone := strings.TrimSpace(in.Name), strings.TrimSpace(in.Phone)
	if name == "" || phone == "" {
		return nil, model.NewValidationError("name and phone are required")
	}
	skills, err := parseSkills(in.Skills)
	if err != nil {
		return nil, err
	}
	availability, err := model.DefaultAvailability().Apply(in.Availability)
	if err != nil {
		return nil, err
	}

	now := s.now()
	w := &model.Worker{
		ID:               uuid.New().String(),
		CoordinatorID:    coordinatorID,
		Name:             name,
		Phone:            phone,
		Skills:           skills,
		Availability:     availability,
		IsStandby:        in.IsStandby,
		ReliabilityScore: model.DefaultReliabilityScore,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err = s.store.ExecTx(ctx, func(ctx context.Context) error {
		if _, err := s.requireCoordinator(ctx, coordinatorID); err != nil {
			return err
		}
		if err := s.checkPhoneFree(ctx, phone, ""); err != nil {
			return err
		}
		if err := s.store.Workers().Create(ctx, w); err != nil {
			return err
		}
		_, err := s.store.Coordinators().RecountWorkers(ctx, coordinatorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.InfoCtx(ctx, "worker %s added to coordinator %s", w.ID, coordinatorID)
	return w, nil
}

// ownedWorker loads a worker of the coordinator; an empty coordinatorID skips the ownership check
func (s *WorkerService) ownedWorker(ctx context.Context, coordinatorID, workerID string) (*model.Worker, error) {
	w, err := s.store.Workers().Get(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	if w == nil {
		return nil, model.NewNotFoundError("worker %s not found", workerID)
	}
	if coordinatorID != "" && w.CoordinatorID != coordinatorID {
		return nil, model.NewForbiddenError("worker %s does not belong to coordinator %s", workerID, coordinatorID)
	}
	return w, nil
}

// Update applies a partial worker update and keeps the coordinator's worker count in step
func (s *WorkerService) Update(ctx context.Context, coordinatorID, workerID string, in *model.UpdateWorkerInput) (*model.Worker, error) {
	var out *model.Worker
	err := s.store.ExecTx(ctx, func(ctx context.Context) error {
		w, err := s.ownedWorker(ctx, coordinatorID, workerID)
		if err != nil {
			return err
		}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return model.NewValidationError("name must not be empty")
			}
			w.Name = strings.TrimSpace(*in.Name)
		}
		if in.Phone != nil {
			phone := strings.TrimSpace(*in.Phone)
			if phone == "" {
				return model.NewValidationError("phone must not be empty")
			}
			if err := s.checkPhoneFree(ctx, phone, w.ID); err != nil {
				return err
			}
			w.Phone = phone
		}
		if in.Skills != nil {
			if w.Skills, err = parseSkills(in.Skills); err != nil {
				return err
			}
		}
		if in.Availability != nil {
			if w.Availability, err = w.Availability.Apply(in.Availability); err != nil {
				return err
			}
		}
		if in.IsStandby != nil {
			w.IsStandby = *in.IsStandby
		}
		if in.IsActive != nil {
			// a phone may have been reused while the worker was inactive
			if *in.IsActive && !w.IsActive {
				if err := s.checkPhoneFree(ctx, w.Phone, w.ID); err != nil {
					return err
				}
			}
			w.IsActive = *in.IsActive
		}
		if err := s.store.Workers().Update(ctx, w); err != nil {
			return err
		}
		if _, err := s.store.Coordinators().RecountWorkers(ctx, w.CoordinatorID); err != nil {
			return err
		}
		out, err = s.store.Workers().Get(ctx, workerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Remove deactivates a worker; historical slots keep referencing it
func (s *WorkerService) Remove(ctx context.Context, coordinatorID, workerID string) error {
	inactive := false
	if _, err := s.Update(ctx, coordinatorID, workerID, &model.UpdateWorkerInput{IsActive: &inactive}); err != nil {
		return err
	}
	logger.InfoCtx(ctx, "worker %s removed from coordinator %s", workerID, coordinatorID)
	return nil
}

// Get returns one worker
func (s *WorkerService) Get(ctx context.Context, workerID string) (*model.Worker, error) {
	return s.ownedWorker(ctx, "", workerID)
}

// List lists the coordinator's pool, most reliable first
func (s *WorkerService) List(ctx context.Context, coordinatorID string, f model.WorkerFilter) ([]*model.Worker, error) {
	if _, err := s.requireCoordinator(ctx, coordinatorID); err != nil {
		return nil, err
	}
	pool, err := s.store.Workers().ListByCoordinator(ctx, coordinatorID, f.IncludeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	out := make([]*model.Worker, 0, len(pool))
	for _, w := range pool {
		if f.Skill != "" && !w.HasSkill(f.Skill) {
			continue
		}
		if f.StandbyOnly && !w.IsStandby {
			continue
		}
		out = append(out, w)
	}
	sortByReliability(out)
	return out, nil
}

// resolve finds a worker by id, falling back to phone
func (s *WorkerService) resolve(ctx context.Context, idOrPhone string) (*model.Worker, error) {
	key := strings.TrimSpace(idOrPhone)
	if key == "" {
		return nil, model.NewValidationError("worker id or phone is required")
	}
	w, err := s.store.Workers().Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	if w != nil {
		return w, nil
	}
	w, err = s.store.Workers().GetByPhone(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to look up phone: %w", err)
	}
	if w == nil {
		return nil, model.NewNotFoundError("worker %s not found", key)
	}
	return w, nil
}

// MyAssignments lists requests on which the worker holds a booking, by work date
func (s *WorkerService) MyAssignments(ctx context.Context, idOrPhone string) ([]*model.LabourRequest, error) {
	w, err := s.resolve(ctx, idOrPhone)
	if err != nil {
		return nil, err
	}
	return s.store.Requests().ListByWorker(ctx, w.ID)
}

// UpdateMyAvailability lets a worker change weekday flags; unspecified days are kept
func (s *WorkerService) UpdateMyAvailability(ctx context.Context, workerID string, days map[string]bool) (*model.Worker, error) {
	if len(days) == 0 {
		return nil, model.NewValidationError("at least one weekday is required")
	}
	return s.Update(ctx, "", workerID, &model.UpdateWorkerInput{Availability: days})
}
