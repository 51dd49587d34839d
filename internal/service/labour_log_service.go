package service

import (
	"context"
	"fmt"
	"time"

	"labourhub/internal/model"
	"labourhub/pkg/interfaces"
	"labourhub/pkg/logger"

	"github.com/google/uuid"
)

const defaultLogQueryLimit = 100

type eventBufferKey struct{}

// eventBuffer collects entries written inside one transaction so they can be
// published after commit
type eventBuffer struct {
	entries []*model.LabourLog
}

// LabourLogService accountability log: append and query only
type LabourLogService struct {
	store     interfaces.Store
	publisher interfaces.EventPublisher
	now       func() time.Time
}

// NewLabourLogService creates a new labour log service
func NewLabourLogService(store interfaces.Store) *LabourLogService {
	return &LabourLogService{store: store, now: time.Now}
}

// SetPublisher sets the post-commit publisher (optional)
func (s *LabourLogService) SetPublisher(p interfaces.EventPublisher) {
	s.publisher = p
}

// Record appends one entry for req. It must run inside the transaction that
// made the state change so both commit or neither does.
func (s *LabourLogService) Record(ctx context.Context, req *model.LabourRequest, eventType model.EventType, actor model.Actor, data model.EventData) error {
	entry := &model.LabourLog{
		ID:            uuid.New().String(),
		RequestID:     req.ID,
		CoordinatorID: req.CoordinatorID,
		ActorType:     actor.Type,
		ActorID:       actor.ID,
		EventType:     eventType,
		EventData:     data,
		Timestamp:     s.now(),
	}
	// the farmer's creation event precedes routing
	if eventType == model.EventRequestCreated {
		entry.CoordinatorID = ""
	}
	if err := s.store.Logs().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record %s for request %s: %w", eventType, req.ID, err)
	}
	if buf, ok := ctx.Value(eventBufferKey{}).(*eventBuffer); ok {
		buf.entries = append(buf.entries, entry)
	}
	return nil
}

// RunTx runs fn in a store transaction and publishes the entries it recorded once committed
func (s *LabourLogService) RunTx(ctx context.Context, fn func(ctx context.Context) error) error {
	buf := &eventBuffer{}
	if err := s.store.ExecTx(context.WithValue(ctx, eventBufferKey{}, buf), fn); err != nil {
		return err
	}
	if s.publisher != nil && len(buf.entries) > 0 {
		s.publisher.Publish(ctx, buf.entries)
	}
	logger.DebugCtx(ctx, "transaction committed with %d log entries", len(buf.entries))
	return nil
}

// ListByRequest returns a request's entries in chronological order
func (s *LabourLogService) ListByRequest(ctx context.Context, requestID string) ([]*model.LabourLog, error) {
	req, err := s.store.Requests().Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, model.NewNotFoundError("request %s not found", requestID)
	}
	return s.store.Logs().ListByRequest(ctx, requestID)
}

// ListByCoordinator returns a coordinator's latest entries in chronological order
func (s *LabourLogService) ListByCoordinator(ctx context.Context, coordinatorID string, limit int) ([]*model.LabourLog, error) {
	if limit <= 0 {
		limit = defaultLogQueryLimit
	}
	return s.store.Logs().ListByCoordinator(ctx, coordinatorID, limit)
}

// ListByEventType returns the latest entries of one type in chronological order
func (s *LabourLogService) ListByEventType(ctx context.Context, eventType model.EventType, limit int) ([]*model.LabourLog, error) {
	if limit <= 0 {
		limit = defaultLogQueryLimit
	}
	return s.store.Logs().ListByEventType(ctx, eventType, limit)
}
