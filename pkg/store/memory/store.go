// Package memory is an in-process store used by tests and demo mode.
// All writes are serialized by a single mutex; ExecTx holds it for the whole
// callback and restores a snapshot if the callback fails.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"labourhub/internal/model"
	"labourhub/pkg/interfaces"
)

type bookingKey struct {
	workerID string
	day      string
}

type state struct {
	coordinators map[string]*model.Coordinator
	workers      map[string]*model.Worker
	requests     map[string]*model.LabourRequest
	bookings     map[bookingKey]string // -> request id
	logs         []*model.LabourLog
}

func newState() *state {
	return &state{
		coordinators: make(map[string]*model.Coordinator),
		workers:      make(map[string]*model.Worker),
		requests:     make(map[string]*model.LabourRequest),
		bookings:     make(map[bookingKey]string),
	}
}

func (s *state) clone() *state {
	out := newState()
	for k, v := range s.coordinators {
		out.coordinators[k] = v.Clone()
	}
	for k, v := range s.workers {
		out.workers[k] = v.Clone()
	}
	for k, v := range s.requests {
		out.requests[k] = v.Clone()
	}
	for k, v := range s.bookings {
		out.bookings[k] = v
	}
	out.logs = append([]*model.LabourLog(nil), s.logs...)
	return out
}

// Store in-memory implementation of interfaces.Store
type Store struct {
	mu sync.Mutex
	st *state
	// now is overridable so tests can order log timestamps deterministically
	now func() time.Time
}

var _ interfaces.Store = (*Store)(nil)

type txKey struct{}

// New creates an empty store
func New() *Store {
	return &Store{st: newState(), now: time.Now}
}

// SetClock replaces the clock used for log timestamps
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Reset drops all data
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = newState()
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// acquire locks the store unless ctx already runs inside this store's transaction
func (s *Store) acquire(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// ExecTx executes fn with exclusive access; nested calls join the outer transaction
func (s *Store) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) Coordinators() interfaces.CoordinatorRepository { return &coordinatorRepo{s: s} }
func (s *Store) Workers() interfaces.WorkerRepository           { return &workerRepo{s: s} }
func (s *Store) Requests() interfaces.RequestRepository         { return &requestRepo{s: s} }
func (s *Store) Logs() interfaces.LabourLogRepository           { return &logRepo{s: s} }

// Close is a no-op
func (s *Store) Close() error { return nil }

// coordinatorRepo

type coordinatorRepo struct{ s *Store }

func (r *coordinatorRepo) Create(ctx context.Context, c *model.Coordinator) error {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.st.coordinators[c.ID]; ok {
		return model.NewConflictError("coordinator %s already exists", c.ID)
	}
	for _, existing := range r.s.st.coordinators {
		if c.UserID != "" && existing.UserID == c.UserID {
			return model.NewConflictError("user %s is already a coordinator", c.UserID)
		}
	}
	r.s.st.coordinators[c.ID] = c.Clone()
	return nil
}

func (r *coordinatorRepo) Get(ctx context.Context, id string) (*model.Coordinator, error) {
	defer r.s.acquire(ctx)()
	return r.s.st.coordinators[id].Clone(), nil
}

func (r *coordinatorRepo) GetByUserID(ctx context.Context, userID string) (*model.Coordinator, error) {
	defer r.s.acquire(ctx)()
	for _, c := range r.s.st.coordinators {
		if c.UserID == userID {
			return c.Clone(), nil
		}
	}
	return nil, nil
}

func (r *coordinatorRepo) Update(ctx context.Context, c *model.Coordinator) error {
	defer r.s.acquire(ctx)()
	existing, ok := r.s.st.coordinators[c.ID]
	if !ok {
		return model.NewNotFoundError("coordinator %s not found", c.ID)
	}
	updated := existing.Clone()
	updated.Name = c.Name
	updated.Phone = c.Phone
	updated.Location = c.Location
	updated.ServiceRadiusKm = c.ServiceRadiusKm
	updated.SkillsOffered = append([]model.WorkType(nil), c.SkillsOffered...)
	updated.IsActive = c.IsActive
	updated.IsVerified = c.IsVerified
	updated.UpdatedAt = r.s.now()
	r.s.st.coordinators[c.ID] = updated
	return nil
}

func (r *coordinatorRepo) ListActive(ctx context.Context) ([]*model.Coordinator, error) {
	defer r.s.acquire(ctx)()
	out := make([]*model.Coordinator, 0, len(r.s.st.coordinators))
	for _, c := range r.s.st.coordinators {
		if c.IsActive {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *coordinatorRepo) ApplyOutcome(ctx context.Context, id string, d model.OutcomeDelta) (*model.Coordinator, error) {
	defer r.s.acquire(ctx)()
	c, ok := r.s.st.coordinators[id]
	if !ok {
		return nil, model.NewNotFoundError("coordinator %s not found", id)
	}
	c.TotalRequestsHandled += d.Handled
	c.SuccessfulCompletions += d.Successful
	c.FailedCommitments += d.Failed
	c.ReplacementsProvided += d.Replacement
	c.UpdatedAt = r.s.now()
	return c.Clone(), nil
}

func (r *coordinatorRepo) SetReliability(ctx context.Context, id string, score int) error {
	defer r.s.acquire(ctx)()
	c, ok := r.s.st.coordinators[id]
	if !ok {
		return model.NewNotFoundError("coordinator %s not found", id)
	}
	c.ReliabilityScore = score
	return nil
}

func (r *coordinatorRepo) RecountWorkers(ctx context.Context, id string) (int, error) {
	defer r.s.acquire(ctx)()
	c, ok := r.s.st.coordinators[id]
	if !ok {
		return 0, model.NewNotFoundError("coordinator %s not found", id)
	}
	n := 0
	for _, w := range r.s.st.workers {
		if w.CoordinatorID == id && w.IsActive {
			n++
		}
	}
	c.WorkerCount = n
	return n, nil
}

// workerRepo

type workerRepo struct{ s *Store }

func (r *workerRepo) Create(ctx context.Context, w *model.Worker) error {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.st.workers[w.ID]; ok {
		return model.NewConflictError("worker %s already exists", w.ID)
	}
	r.s.st.workers[w.ID] = w.Clone()
	return nil
}

func (r *workerRepo) Get(ctx context.Context, id string) (*model.Worker, error) {
	defer r.s.acquire(ctx)()
	return r.s.st.workers[id].Clone(), nil
}

func (r *workerRepo) GetByPhone(ctx context.Context, phone string) (*model.Worker, error) {
	defer r.s.acquire(ctx)()
	for _, w := range r.s.st.workers {
		if w.Phone == phone && w.IsActive {
			return w.Clone(), nil
		}
	}
	return nil, nil
}

func (r *workerRepo) Update(ctx context.Context, w *model.Worker) error {
	defer r.s.acquire(ctx)()
	existing, ok := r.s.st.workers[w.ID]
	if !ok {
		return model.NewNotFoundError("worker %s not found", w.ID)
	}
	updated := existing.Clone()
	updated.Name = w.Name
	updated.Phone = w.Phone
	updated.Skills = append([]model.WorkerSkill(nil), w.Skills...)
	updated.Availability = w.Availability
	updated.IsStandby = w.IsStandby
	updated.IsActive = w.IsActive
	updated.UpdatedAt = r.s.now()
	r.s.st.workers[w.ID] = updated
	return nil
}

func (r *workerRepo) ListByCoordinator(ctx context.Context, coordinatorID string, includeInactive bool) ([]*model.Worker, error) {
	defer r.s.acquire(ctx)()
	out := make([]*model.Worker, 0)
	for _, w := range r.s.st.workers {
		if w.CoordinatorID == coordinatorID && (includeInactive || w.IsActive) {
			out = append(out, w.Clone())
		}
	}
	sortWorkers(out)
	return out, nil
}

func (r *workerRepo) ListAll(ctx context.Context) ([]*model.Worker, error) {
	defer r.s.acquire(ctx)()
	out := make([]*model.Worker, 0, len(r.s.st.workers))
	for _, w := range r.s.st.workers {
		out = append(out, w.Clone())
	}
	sortWorkers(out)
	return out, nil
}

func sortWorkers(ws []*model.Worker) {
	sort.Slice(ws, func(i, j int) bool {
		if !ws[i].CreatedAt.Equal(ws[j].CreatedAt) {
			return ws[i].CreatedAt.Before(ws[j].CreatedAt)
		}
		return ws[i].ID < ws[j].ID
	})
}

func (r *workerRepo) ApplyOutcome(ctx context.Context, id string, d model.OutcomeDelta) (*model.Worker, error) {
	defer r.s.acquire(ctx)()
	w, ok := r.s.st.workers[id]
	if !ok {
		return nil, model.NewNotFoundError("worker %s not found", id)
	}
	w.TotalAssignments += d.Handled
	w.CompletedAssignments += d.Completed
	w.CancelledAssignments += d.Cancelled
	w.UpdatedAt = r.s.now()
	return w.Clone(), nil
}

func (r *workerRepo) SetReliability(ctx context.Context, id string, score int) error {
	defer r.s.acquire(ctx)()
	w, ok := r.s.st.workers[id]
	if !ok {
		return model.NewNotFoundError("worker %s not found", id)
	}
	w.ReliabilityScore = score
	return nil
}
