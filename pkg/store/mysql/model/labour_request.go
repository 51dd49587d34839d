package model

import "time"

// LabourRequest MySQL model for labour_requests table
type LabourRequest struct {
	ID                 int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestID          string          `gorm:"column:request_id;type:varchar(64);not null;uniqueIndex:idx_request_id_unique" json:"request_id"`
	Reference          string          `gorm:"column:reference;type:varchar(32);not null;uniqueIndex:idx_reference_unique" json:"reference"`
	FarmerID           string          `gorm:"column:farmer_id;type:varchar(64);not null;index:idx_farmer_created,priority:1" json:"farmer_id"`
	LandID             string          `gorm:"column:land_id;type:varchar(64)" json:"land_id"`
	WorkType           string          `gorm:"column:work_type;type:varchar(64);not null" json:"work_type"`
	WorkersNeeded      int             `gorm:"column:workers_needed;type:int;not null" json:"workers_needed"`
	WorkDate           time.Time       `gorm:"column:work_date;type:date;not null;index:idx_coordinator_work_date,priority:2" json:"work_date"`
	StartTime          string          `gorm:"column:start_time;type:varchar(8);not null;default:'07:00'" json:"start_time"`
	DurationHours      int             `gorm:"column:duration_hours;type:int;not null;default:8" json:"duration_hours"`
	Description        string          `gorm:"column:description;type:text" json:"description"`
	District           string          `gorm:"column:district;type:varchar(128)" json:"district"`
	Area               string          `gorm:"column:area;type:varchar(128)" json:"area"`
	CoordinatorID      string          `gorm:"column:coordinator_id;type:varchar(64);not null;index:idx_coordinator_work_date,priority:1;index:idx_coordinator_status,priority:1" json:"coordinator_id"`
	StandbyWorkerIDs   JSONStringArray `gorm:"column:standby_worker_ids;type:json" json:"standby_worker_ids"`
	Status             string          `gorm:"column:status;type:varchar(32);not null;index:idx_coordinator_status,priority:2" json:"status"`
	FarmerConfirmed    bool            `gorm:"column:farmer_confirmed;not null;default:false" json:"farmer_confirmed"`
	FarmerConfirmedAt  *time.Time      `gorm:"column:farmer_confirmed_at;type:datetime(3)" json:"farmer_confirmed_at"`
	Rating             *int            `gorm:"column:rating;type:tinyint" json:"rating"`
	Feedback           string          `gorm:"column:feedback;type:text" json:"feedback"`
	CompletionNotes    string          `gorm:"column:completion_notes;type:text" json:"completion_notes"`
	DeclineReason      string          `gorm:"column:decline_reason;type:varchar(1000)" json:"decline_reason"`
	CancellationReason string          `gorm:"column:cancellation_reason;type:varchar(1000)" json:"cancellation_reason"`
	CancelledBy        string          `gorm:"column:cancelled_by;type:varchar(32)" json:"cancelled_by"`
	FailureReason      string          `gorm:"column:failure_reason;type:varchar(1000)" json:"failure_reason"`
	AcceptedAt         *time.Time      `gorm:"column:accepted_at;type:datetime(3)" json:"accepted_at"`
	WorkStartedAt      *time.Time      `gorm:"column:work_started_at;type:datetime(3)" json:"work_started_at"`
	WorkCompletedAt    *time.Time      `gorm:"column:work_completed_at;type:datetime(3)" json:"work_completed_at"`
	CancelledAt        *time.Time      `gorm:"column:cancelled_at;type:datetime(3)" json:"cancelled_at"`
	Version            int64           `gorm:"column:version;type:bigint;not null;default:0" json:"version"`
	CreatedAt          time.Time       `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3);index:idx_farmer_created,priority:2" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for LabourRequest
func (LabourRequest) TableName() string {
	return "labour_requests"
}

// LabourSlot MySQL model for labour_slots table.
// ActiveDay equals the work date while the slot holds a booking and is NULL otherwise;
// the unique index on (worker_id, active_day) rejects a second booking for the same day.
type LabourSlot struct {
	ID                 int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	SlotID             string     `gorm:"column:slot_id;type:varchar(64);not null;uniqueIndex:idx_slot_id_unique" json:"slot_id"`
	RequestID          string     `gorm:"column:request_id;type:varchar(64);not null;index:idx_request_seq,priority:1" json:"request_id"`
	WorkerID           string     `gorm:"column:worker_id;type:varchar(64);not null;uniqueIndex:idx_worker_active_day,priority:1" json:"worker_id"`
	Seq                int        `gorm:"column:seq;type:int;not null;index:idx_request_seq,priority:2" json:"seq"`
	Status             string     `gorm:"column:status;type:varchar(32);not null" json:"status"`
	ActiveDay          *string    `gorm:"column:active_day;type:varchar(10);uniqueIndex:idx_worker_active_day,priority:2" json:"active_day"`
	AssignedAt         time.Time  `gorm:"column:assigned_at;type:datetime(3);not null" json:"assigned_at"`
	ConfirmedAt        *time.Time `gorm:"column:confirmed_at;type:datetime(3)" json:"confirmed_at"`
	ReplacedBy         string     `gorm:"column:replaced_by;type:varchar(64)" json:"replaced_by"`
	ReplacedAt         *time.Time `gorm:"column:replaced_at;type:datetime(3)" json:"replaced_at"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at;type:datetime(3)" json:"cancelled_at"`
	CancellationReason string     `gorm:"column:cancellation_reason;type:varchar(1000)" json:"cancellation_reason"`
}

// TableName specifies the table name for LabourSlot
func (LabourSlot) TableName() string {
	return "labour_slots"
}
