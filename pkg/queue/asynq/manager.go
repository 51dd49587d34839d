package asynq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"labourhub/internal/model"
	"labourhub/pkg/config"
	"labourhub/pkg/interfaces"
	"labourhub/pkg/logger"

	"github.com/hibiken/asynq"
)

const (
	TypeLabourEvent = "labour:event"
	queueName       = "default"
	deliverTimeout  = 30 * time.Second
)

// Manager durable event queue: accountability entries are enqueued on the request
// path and delivered to a sink by the queue server with retries
type Manager struct {
	client    *asynq.Client
	server    *asynq.Server
	mux       *asynq.ServeMux
	inspector *asynq.Inspector
	maxRetry  int
}

var _ interfaces.EventSink = (*Manager)(nil)

// NewManager creates queue manager
func NewManager(redisCfg config.RedisConfig, queueCfg config.QueueConfig) *Manager {
	redisOpt := asynq.RedisClientOpt{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	}

	concurrency := queueCfg.Concurrency
	if concurrency <= 0 {
		concurrency = config.DefaultQueueConcurrency
	}
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				queueName: 10,
			},
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Second
			},
		},
	)

	return &Manager{
		client:    asynq.NewClient(redisOpt),
		server:    server,
		mux:       asynq.NewServeMux(),
		inspector: asynq.NewInspector(redisOpt),
		maxRetry:  queueCfg.MaxRetry,
	}
}

// Name implements interfaces.EventSink
func (m *Manager) Name() string {
	return "queue"
}

// Deliver implements interfaces.EventSink by enqueueing the entry
func (m *Manager) Deliver(ctx context.Context, entry *model.LabourLog) error {
	return m.EnqueueEvent(ctx, entry)
}

// EnqueueEvent enqueues one entry; the log id doubles as task id so a retried
// publish does not deliver twice
func (m *Manager) EnqueueEvent(ctx context.Context, entry *model.LabourLog) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	opts := []asynq.Option{
		asynq.Queue(queueName),
		asynq.TaskID(entry.ID),
		asynq.Timeout(deliverTimeout),
		asynq.MaxRetry(m.maxRetry),
	}
	info, err := m.client.EnqueueContext(ctx, asynq.NewTask(TypeLabourEvent, payload), opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue event: %w", err)
	}

	logger.DebugCtx(ctx, "event enqueued, log_id: %s, type: %s, queue: %s", entry.ID, entry.EventType, info.Queue)
	return nil
}

// EventHandler builds the task handler that hands dequeued entries to sink
func EventHandler(sink interfaces.EventSink) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var entry model.LabourLog
		if err := json.Unmarshal(task.Payload(), &entry); err != nil {
			// a malformed payload will never succeed
			return fmt.Errorf("failed to decode event: %v: %w", err, asynq.SkipRetry)
		}
		if err := sink.Deliver(ctx, &entry); err != nil {
			logger.WarnCtx(ctx, "delivery via %s failed, log_id: %s, error: %v", sink.Name(), entry.ID, err)
			return err
		}
		return nil
	}
}

// RegisterSink routes dequeued events to sink
func (m *Manager) RegisterSink(sink interfaces.EventSink) {
	m.mux.Handle(TypeLabourEvent, EventHandler(sink))
}

// PendingCount returns pending events in the queue
func (m *Manager) PendingCount() (int, error) {
	info, err := m.inspector.GetQueueInfo(queueName)
	if err != nil {
		return 0, err
	}
	return info.Pending, nil
}

// Start starts queue processor
func (m *Manager) Start() error {
	logger.InfoCtx(context.Background(), "starting event queue server")
	return m.server.Start(m.mux)
}

// Stop stops queue processor
func (m *Manager) Stop() {
	logger.InfoCtx(context.Background(), "stopping event queue server")
	m.server.Stop()
	m.server.Shutdown()
}

// Close closes client and inspector
func (m *Manager) Close() error {
	if err := m.inspector.Close(); err != nil {
		logger.WarnCtx(context.Background(), "failed to close queue inspector: %v", err)
	}
	return m.client.Close()
}
