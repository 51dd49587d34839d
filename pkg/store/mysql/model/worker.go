package model

import "time"

// Worker MySQL model for workers table
type Worker struct {
	ID                   int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkerID             string       `gorm:"column:worker_id;type:varchar(64);not null;uniqueIndex:idx_worker_id_unique" json:"worker_id"`
	CoordinatorID        string       `gorm:"column:coordinator_id;type:varchar(64);not null;index:idx_coordinator_active,priority:1" json:"coordinator_id"`
	Name                 string       `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Phone                string       `gorm:"column:phone;type:varchar(32);not null;index:idx_phone" json:"phone"`
	Skills               SkillList    `gorm:"column:skills;type:json;not null" json:"skills"`
	Availability         Availability `gorm:"column:availability;type:json;not null" json:"availability"`
	IsStandby            bool         `gorm:"column:is_standby;not null;default:false" json:"is_standby"`
	ReliabilityScore     int          `gorm:"column:reliability_score;type:int;not null;default:50" json:"reliability_score"`
	TotalAssignments     int          `gorm:"column:total_assignments;type:int;not null;default:0" json:"total_assignments"`
	CompletedAssignments int          `gorm:"column:completed_assignments;type:int;not null;default:0" json:"completed_assignments"`
	CancelledAssignments int          `gorm:"column:cancelled_assignments;type:int;not null;default:0" json:"cancelled_assignments"`
	IsActive             bool         `gorm:"column:is_active;not null;default:true;index:idx_coordinator_active,priority:2" json:"is_active"`
	CreatedAt            time.Time    `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
	UpdatedAt            time.Time    `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for Worker
func (Worker) TableName() string {
	return "workers"
}
