package interfaces

import (
	"context"
	"time"

	"labourhub/internal/model"
)

// Store persistence boundary of the engine.
// Repositories obtained from a Store join the transaction carried by ctx.
type Store interface {
	// ExecTx runs fn in a transaction; any error rolls back every write made through ctx
	ExecTx(ctx context.Context, fn func(ctx context.Context) error) error

	Coordinators() CoordinatorRepository
	Workers() WorkerRepository
	Requests() RequestRepository
	Logs() LabourLogRepository

	// Close closes connection
	Close() error
}

// CoordinatorRepository coordinator directory
type CoordinatorRepository interface {
	// Create inserts a coordinator; a second coordinator for the same user yields model.ErrConflict
	Create(ctx context.Context, c *model.Coordinator) error

	// Get returns nil, nil when the coordinator does not exist
	Get(ctx context.Context, id string) (*model.Coordinator, error)

	GetByUserID(ctx context.Context, userID string) (*model.Coordinator, error)

	// Update persists profile fields (name, phone, location, radius, skills, flags)
	Update(ctx context.Context, c *model.Coordinator) error

	// ListActive lists active coordinators ordered by creation time
	ListActive(ctx context.Context) ([]*model.Coordinator, error)

	// ApplyOutcome atomically adds delta to the counters and returns the fresh row
	ApplyOutcome(ctx context.Context, id string, delta model.OutcomeDelta) (*model.Coordinator, error)

	SetReliability(ctx context.Context, id string, score int) error

	// RecountWorkers sets worker_count from the active pool and returns it
	RecountWorkers(ctx context.Context, id string) (int, error)
}

// WorkerRepository worker directory
type WorkerRepository interface {
	Create(ctx context.Context, w *model.Worker) error

	// Get returns nil, nil when the worker does not exist
	Get(ctx context.Context, id string) (*model.Worker, error)

	// GetByPhone returns the active worker with this phone, nil, nil if none
	GetByPhone(ctx context.Context, phone string) (*model.Worker, error)

	Update(ctx context.Context, w *model.Worker) error

	// ListByCoordinator lists a coordinator's pool ordered by creation time
	ListByCoordinator(ctx context.Context, coordinatorID string, includeInactive bool) ([]*model.Worker, error)

	// ListAll lists every worker, used by the rescan job
	ListAll(ctx context.Context) ([]*model.Worker, error)

	ApplyOutcome(ctx context.Context, id string, delta model.OutcomeDelta) (*model.Worker, error)

	SetReliability(ctx context.Context, id string, score int) error
}

// RequestRepository labour requests and their slots
type RequestRepository interface {
	Create(ctx context.Context, r *model.LabourRequest) error

	// Get returns the request with its slots, nil, nil when missing
	Get(ctx context.Context, id string) (*model.LabourRequest, error)

	// GetForUpdate is Get plus a row lock held until the surrounding transaction ends
	GetForUpdate(ctx context.Context, id string) (*model.LabourRequest, error)

	List(ctx context.Context, filter model.RequestFilter) ([]*model.LabourRequest, error)

	// Update writes request fields if r.Version still matches the stored version,
	// then bumps r.Version. A stale version yields model.ErrConflict.
	Update(ctx context.Context, r *model.LabourRequest) error

	// InsertSlot appends a slot; a worker already booked on day yields model.ErrWorkerConflict
	InsertSlot(ctx context.Context, slot *model.Slot, day time.Time) error

	// UpdateSlot writes the slot if its stored status still equals from
	UpdateSlot(ctx context.Context, slot *model.Slot, from model.SlotStatus) error

	// BookedWorkers returns worker id -> request id for the given workers holding a booking on day
	BookedWorkers(ctx context.Context, day time.Time, workerIDs []string) (map[string]string, error)

	// ListByWorker lists requests on which the worker holds a booking slot
	ListByWorker(ctx context.Context, workerID string) ([]*model.LabourRequest, error)

	// CountOpen returns coordinator id -> number of open requests
	CountOpen(ctx context.Context, coordinatorIDs []string) (map[string]int, error)
}

// LabourLogRepository append-only accountability log
type LabourLogRepository interface {
	Record(ctx context.Context, entry *model.LabourLog) error

	// ListByRequest returns the request's entries in chronological order
	ListByRequest(ctx context.Context, requestID string) ([]*model.LabourLog, error)

	// ListByCoordinator returns the latest limit entries in chronological order
	ListByCoordinator(ctx context.Context, coordinatorID string, limit int) ([]*model.LabourLog, error)

	// ListByEventType returns the latest limit entries in chronological order
	ListByEventType(ctx context.Context, eventType model.EventType, limit int) ([]*model.LabourLog, error)
}
