package events

import (
	"context"
	"sync"

	"labourhub/internal/model"
	"labourhub/pkg/interfaces"
	"labourhub/pkg/logger"
)

const defaultSubscriptionBuffer = 64

// Hub in-process per-coordinator event feed backing the websocket endpoint
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
}

var _ interfaces.EventSink = (*Hub)(nil)

// Subscription one live feed; C is closed by Close
type Subscription struct {
	C             <-chan *model.LabourLog
	ch            chan *model.LabourLog
	coordinatorID string
	hub           *Hub
	once          sync.Once
}

// NewHub creates a hub; buffer is the per-subscriber queue length
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultSubscriptionBuffer
	}
	return &Hub{subs: make(map[string]map[*Subscription]struct{}), buffer: buffer}
}

// Subscribe opens a feed of the coordinator's events
func (h *Hub) Subscribe(coordinatorID string) *Subscription {
	ch := make(chan *model.LabourLog, h.buffer)
	s := &Subscription{C: ch, ch: ch, coordinatorID: coordinatorID, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[coordinatorID] == nil {
		h.subs[coordinatorID] = make(map[*Subscription]struct{})
	}
	h.subs[coordinatorID][s] = struct{}{}
	return s
}

// Close detaches the subscription; safe to call more than once
func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[s.coordinatorID], s)
		if len(h.subs[s.coordinatorID]) == 0 {
			delete(h.subs, s.coordinatorID)
		}
		close(s.ch)
	})
}

// Subscribers counts open feeds of a coordinator
func (h *Hub) Subscribers(coordinatorID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[coordinatorID])
}

// Name implements interfaces.EventSink
func (h *Hub) Name() string {
	return "websocket"
}

// Deliver fans entry out without blocking; a subscriber whose buffer is full misses it
func (h *Hub) Deliver(ctx context.Context, entry *model.LabourLog) error {
	if entry.CoordinatorID == "" {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs[entry.CoordinatorID] {
		select {
		case s.ch <- entry:
		default:
			logger.WarnCtx(ctx, "event feed of coordinator %s is full, dropping log %s", entry.CoordinatorID, entry.ID)
		}
	}
	return nil
}
