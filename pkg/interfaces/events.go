package interfaces

import (
	"context"

	"labourhub/internal/model"
)

// EventPublisher receives accountability entries after their transaction commits.
// Publishing is best-effort and must never fail the operation that produced them.
type EventPublisher interface {
	Publish(ctx context.Context, entries []*model.LabourLog)
}

// EventSink a single delivery channel used by a fan-out publisher
type EventSink interface {
	Name() string
	Deliver(ctx context.Context, entry *model.LabourLog) error
}
