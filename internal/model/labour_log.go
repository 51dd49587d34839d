package model

import (
	"time"
)

// EventType accountability event type
type EventType string

const (
	EventRequestCreated       EventType = "request_created"
	EventCoordinatorAssigned  EventType = "coordinator_assigned"
	EventCoordinatorAccepted  EventType = "coordinator_accepted"
	EventCoordinatorDeclined  EventType = "coordinator_declined"
	EventWorkerAssigned       EventType = "worker_assigned"
	EventWorkerConfirmed      EventType = "worker_confirmed"
	EventWorkerCancelled      EventType = "worker_cancelled"
	EventReplacementSuggested EventType = "replacement_suggested"
	EventReplacementMade      EventType = "replacement_made"
	EventWorkStarted          EventType = "work_started"
	EventWorkCompleted        EventType = "work_completed"
	EventRequestCancelled     EventType = "request_cancelled"
	EventRequestFailed        EventType = "request_failed"
	EventFeedbackSubmitted    EventType = "feedback_submitted"
)

var eventTypes = map[EventType]struct{}{
	EventRequestCreated: {}, EventCoordinatorAssigned: {}, EventCoordinatorAccepted: {},
	EventCoordinatorDeclined: {}, EventWorkerAssigned: {}, EventWorkerConfirmed: {},
	EventWorkerCancelled: {}, EventReplacementSuggested: {}, EventReplacementMade: {},
	EventWorkStarted: {}, EventWorkCompleted: {}, EventRequestCancelled: {},
	EventRequestFailed: {}, EventFeedbackSubmitted: {},
}

// ParseEventType validates an event type
func ParseEventType(s string) (EventType, error) {
	et := EventType(s)
	if _, ok := eventTypes[et]; !ok {
		return "", NewValidationError("unknown event type %q", s)
	}
	return et, nil
}

// ActorType who caused an event
type ActorType string

const (
	ActorSystem      ActorType = "system"
	ActorFarmer      ActorType = "farmer"
	ActorCoordinator ActorType = "coordinator"
	ActorWorker      ActorType = "worker"
)

// Actor authenticated caller identity
type Actor struct {
	Type ActorType `json:"type"`
	ID   string    `json:"id"`
}

// SystemActor is used for engine-originated events
var SystemActor = Actor{Type: ActorSystem}

// EventData event payload
type EventData struct {
	WorkerID         string `json:"worker_id,omitempty"`
	PreviousWorkerID string `json:"previous_worker_id,omitempty"`
	Reason           string `json:"reason,omitempty"`
	Notes            string `json:"notes,omitempty"`
	Rating           *int   `json:"rating,omitempty"`
	WorkerCount      *int   `json:"worker_count,omitempty"`
	FromStatus       string `json:"from_status,omitempty"`
	ToStatus         string `json:"to_status,omitempty"`
}

// LabourLog immutable accountability entry
type LabourLog struct {
	ID            string    `json:"id"`
	RequestID     string    `json:"request_id"`
	CoordinatorID string    `json:"coordinator_id,omitempty"`
	ActorType     ActorType `json:"actor_type"`
	ActorID       string    `json:"actor_id,omitempty"`
	EventType     EventType `json:"event_type"`
	EventData     EventData `json:"event_data"`
	Timestamp     time.Time `json:"timestamp"`
}

// IntPtr helper for optional counters in EventData
func IntPtr(v int) *int {
	return &v
}
