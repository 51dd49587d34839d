package model

import (
	"time"
)

// RequestStatus labour request lifecycle status
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"     // Waiting for the routed coordinator
	RequestStatusAccepted   RequestStatus = "accepted"    // Coordinator accepted, workers not yet bound
	RequestStatusAssigned   RequestStatus = "assigned"    // Headcount filled
	RequestStatusInProgress RequestStatus = "in_progress" // Work started
	RequestStatusCompleted  RequestStatus = "completed"   // Work finished
	RequestStatusCancelled  RequestStatus = "cancelled"   // Cancelled by farmer or coordinator
	RequestStatusFailed     RequestStatus = "failed"      // Coordinator could not deliver
	RequestStatusDeclined   RequestStatus = "declined"    // Coordinator declined
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:    {RequestStatusAccepted, RequestStatusDeclined, RequestStatusCancelled},
	RequestStatusAccepted:   {RequestStatusAssigned, RequestStatusCancelled, RequestStatusFailed},
	RequestStatusAssigned:   {RequestStatusInProgress, RequestStatusCancelled, RequestStatusFailed},
	RequestStatusInProgress: {RequestStatusCompleted},
}

// CanTransition reports whether from -> to is an edge of the request state machine
func CanTransition(from, to RequestStatus) bool {
	for _, s := range requestTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist
func (s RequestStatus) IsTerminal() bool {
	return len(requestTransitions[s]) == 0
}

// IsOpen reports whether the request still occupies the coordinator
func (s RequestStatus) IsOpen() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusAssigned, RequestStatusInProgress:
		return true
	}
	return false
}

// ParseRequestStatus validates a status filter value
func ParseRequestStatus(s string) (RequestStatus, error) {
	st := RequestStatus(s)
	switch st {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusAssigned, RequestStatusInProgress,
		RequestStatusCompleted, RequestStatusCancelled, RequestStatusFailed, RequestStatusDeclined:
		return st, nil
	}
	return "", NewValidationError("unknown request status %q", s)
}

// SlotStatus lifecycle of one worker's binding to a request
type SlotStatus string

const (
	SlotStatusAssigned  SlotStatus = "assigned"
	SlotStatusConfirmed SlotStatus = "confirmed"
	SlotStatusCancelled SlotStatus = "cancelled"
	SlotStatusReplaced  SlotStatus = "replaced"
	SlotStatusCompleted SlotStatus = "completed"
	SlotStatusNoShow    SlotStatus = "no_show"
)

// HoldsBooking reports whether a slot in this status books the worker for the day
func (s SlotStatus) HoldsBooking() bool {
	switch s {
	case SlotStatusAssigned, SlotStatusConfirmed, SlotStatusCompleted:
		return true
	}
	return false
}

// IsPending reports whether the slot is still a live commitment before completion
func (s SlotStatus) IsPending() bool {
	return s == SlotStatusAssigned || s == SlotStatusConfirmed
}

// Slot one worker bound to one request
type Slot struct {
	ID                 string     `json:"id"`
	RequestID          string     `json:"request_id"`
	WorkerID           string     `json:"worker_id"`
	Seq                int        `json:"seq"` // position in the request's slot history
	Status             SlotStatus `json:"status"`
	AssignedAt         time.Time  `json:"assigned_at"`
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	ReplacedBy         string     `json:"replaced_by,omitempty"`
	ReplacedAt         *time.Time `json:"replaced_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
}

// LabourRequest a farmer's ask for N workers on one date
type LabourRequest struct {
	ID                 string        `json:"id"`
	Reference          string        `json:"reference"` // LR-<unix-ms>-<suffix>
	FarmerID           string        `json:"farmer_id"`
	LandID             string        `json:"land_id"`
	WorkType           WorkType      `json:"work_type"`
	WorkersNeeded      int           `json:"workers_needed"`
	WorkDate           time.Time     `json:"work_date"`
	StartTime          string        `json:"start_time"`
	DurationHours      int           `json:"duration_hours"`
	Description        string        `json:"description,omitempty"`
	Location           Location      `json:"location"`
	CoordinatorID      string        `json:"coordinator_id"`
	Slots              []Slot        `json:"slots"`
	StandbyWorkerIDs   []string      `json:"standby_worker_ids"`
	Status             RequestStatus `json:"status"`
	FarmerConfirmed    bool          `json:"farmer_confirmed"`
	FarmerConfirmedAt  *time.Time    `json:"farmer_confirmed_at,omitempty"`
	Rating             *int          `json:"rating,omitempty"`
	Feedback           string        `json:"feedback,omitempty"`
	CompletionNotes    string        `json:"completion_notes,omitempty"`
	DeclineReason      string        `json:"decline_reason,omitempty"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`
	CancelledBy        ActorType     `json:"cancelled_by,omitempty"`
	FailureReason      string        `json:"failure_reason,omitempty"`
	AcceptedAt         *time.Time    `json:"accepted_at,omitempty"`
	WorkStartedAt      *time.Time    `json:"work_started_at,omitempty"`
	WorkCompletedAt    *time.Time    `json:"work_completed_at,omitempty"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
	Version            int64         `json:"version"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

const (
	DefaultStartTime     = "07:00"
	DefaultDurationHours = 8
	dayLayout            = "2006-01-02"
)

// DayKey is the calendar-date key used for booking uniqueness
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// ParseDay parses a YYYY-MM-DD date as UTC midnight
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, NewValidationError("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ActiveCount counts slots charged against WorkersNeeded
func (r *LabourRequest) ActiveCount() int {
	n := 0
	for _, s := range r.Slots {
		if s.Status.HoldsBooking() {
			n++
		}
	}
	return n
}

// PendingCount counts assigned or confirmed slots
func (r *LabourRequest) PendingCount() int {
	n := 0
	for _, s := range r.Slots {
		if s.Status.IsPending() {
			n++
		}
	}
	return n
}

// ActiveSlotFor returns the worker's booking slot on this request, if any
func (r *LabourRequest) ActiveSlotFor(workerID string) *Slot {
	for i := range r.Slots {
		if r.Slots[i].WorkerID == workerID && r.Slots[i].Status.HoldsBooking() {
			return &r.Slots[i]
		}
	}
	return nil
}

// LatestSlotFor returns the most recent slot of the worker, if any
func (r *LabourRequest) LatestSlotFor(workerID string) *Slot {
	for i := len(r.Slots) - 1; i >= 0; i-- {
		if r.Slots[i].WorkerID == workerID {
			return &r.Slots[i]
		}
	}
	return nil
}

// NextSeq returns the sequence number for a newly appended slot
func (r *LabourRequest) NextSeq() int {
	max := 0
	for _, s := range r.Slots {
		if s.Seq > max {
			max = s.Seq
		}
	}
	return max + 1
}

// Clone returns a deep copy
func (r *LabourRequest) Clone() *LabourRequest {
	if r == nil {
		return nil
	}
	out := *r
	out.Slots = append([]Slot(nil), r.Slots...)
	out.StandbyWorkerIDs = append([]string(nil), r.StandbyWorkerIDs...)
	if r.Rating != nil {
		v := *r.Rating
		out.Rating = &v
	}
	return &out
}

// RequestFilter list query
type RequestFilter struct {
	FarmerID      string
	CoordinatorID string
	Status        RequestStatus
	CreatedAfter  *time.Time
}

// Suggestions ranked replacement candidates
type Suggestions struct {
	Standby   []*Worker `json:"standby"`
	Available []*Worker `json:"available"`
}
