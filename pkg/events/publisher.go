// Package events fans committed accountability entries out to delivery sinks.
package events

import (
	"context"
	"time"

	"labourhub/internal/model"
	"labourhub/pkg/interfaces"
	"labourhub/pkg/logger"
)

// Publisher delivers every entry to each sink in order. A failing sink is
// logged and skipped; the committed state change is never affected.
type Publisher struct {
	sinks []interfaces.EventSink
}

var _ interfaces.EventPublisher = (*Publisher)(nil)

// NewPublisher creates a fan-out publisher
func NewPublisher(sinks ...interfaces.EventSink) *Publisher {
	return &Publisher{sinks: sinks}
}

// Publish implements interfaces.EventPublisher
func (p *Publisher) Publish(ctx context.Context, entries []*model.LabourLog) {
	for _, entry := range entries {
		for _, sink := range p.sinks {
			if err := sink.Deliver(ctx, entry); err != nil {
				logger.WarnCtx(ctx, "event sink %s failed for log %s (%s): %v", sink.Name(), entry.ID, entry.EventType, err)
			}
		}
	}
}

// detachedSink delivers on its own goroutine so a slow endpoint never holds up a request
type detachedSink struct {
	sink    interfaces.EventSink
	timeout time.Duration
}

// Detached wraps sink so Deliver returns immediately
func Detached(sink interfaces.EventSink, timeout time.Duration) interfaces.EventSink {
	return &detachedSink{sink: sink, timeout: timeout}
}

func (d *detachedSink) Name() string {
	return d.sink.Name()
}

func (d *detachedSink) Deliver(ctx context.Context, entry *model.LabourLog) error {
	// the request context ends with the response
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()
		if err := d.sink.Deliver(ctx, entry); err != nil {
			logger.WarnCtx(ctx, "event sink %s failed for log %s (%s): %v", d.sink.Name(), entry.ID, entry.EventType, err)
		}
	}()
	return nil
}
