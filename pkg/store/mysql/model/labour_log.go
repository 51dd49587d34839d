package model

import "time"

// LabourLog MySQL model for labour_logs table (append-only)
type LabourLog struct {
	ID            int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	LogID         string       `gorm:"column:log_id;type:varchar(64);not null;uniqueIndex:idx_log_id_unique" json:"log_id"`
	RequestID     string       `gorm:"column:request_id;type:varchar(64);not null;index:idx_request_time,priority:1" json:"request_id"`
	CoordinatorID string       `gorm:"column:coordinator_id;type:varchar(64);index:idx_coordinator_time,priority:1" json:"coordinator_id"`
	ActorType     string       `gorm:"column:actor_type;type:varchar(32);not null" json:"actor_type"`
	ActorID       string       `gorm:"column:actor_id;type:varchar(64)" json:"actor_id"`
	EventType     string       `gorm:"column:event_type;type:varchar(50);not null;index:idx_event_type_time,priority:1" json:"event_type"`
	EventData     EventPayload `gorm:"column:event_data;type:json" json:"event_data"`
	Timestamp     time.Time    `gorm:"column:timestamp;type:datetime(3);not null;index:idx_request_time,priority:2;index:idx_coordinator_time,priority:2;index:idx_event_type_time,priority:2" json:"timestamp"`
}

// TableName specifies the table name for LabourLog
func (LabourLog) TableName() string {
	return "labour_logs"
}

// All returns every table model, in migration order
func All() []interface{} {
	return []interface{}{&Coordinator{}, &Worker{}, &LabourRequest{}, &LabourSlot{}, &LabourLog{}}
}
