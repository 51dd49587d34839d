package mysql

import (
	"context"

	"labourhub/pkg/interfaces"
)

// Repository aggregates all MySQL repositories and implements interfaces.Store
type Repository struct {
	ds *Datastore

	Coordinator *CoordinatorRepository
	Worker      *WorkerRepository
	Request     *RequestRepository
	Log         *LabourLogRepository
}

var _ interfaces.Store = (*Repository)(nil)

// NewRepository creates a new MySQL repository with all sub-repositories
func NewRepository(dsn string) (*Repository, error) {
	ds, err := NewDatastore(dsn)
	if err != nil {
		return nil, err
	}
	return newRepository(ds), nil
}

func newRepository(ds *Datastore) *Repository {
	return &Repository{
		ds:          ds,
		Coordinator: NewCoordinatorRepository(ds),
		Worker:      NewWorkerRepository(ds),
		Request:     NewRequestRepository(ds),
		Log:         NewLabourLogRepository(ds),
	}
}

// GetDatastore returns the underlying datastore for transaction support
func (r *Repository) GetDatastore() *Datastore {
	return r.ds
}

// ExecTx executes fn in a database transaction
func (r *Repository) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.ds.ExecTx(ctx, fn)
}

func (r *Repository) Coordinators() interfaces.CoordinatorRepository { return r.Coordinator }
func (r *Repository) Workers() interfaces.WorkerRepository           { return r.Worker }
func (r *Repository) Requests() interfaces.RequestRepository         { return r.Request }
func (r *Repository) Logs() interfaces.LabourLogRepository           { return r.Log }

// Close closes the database connection
func (r *Repository) Close() error {
	return r.ds.Close()
}
