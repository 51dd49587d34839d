package model

import "time"

// Coordinator MySQL model for coordinators table
type Coordinator struct {
	ID                    int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CoordinatorID         string          `gorm:"column:coordinator_id;type:varchar(64);not null;uniqueIndex:idx_coordinator_id_unique" json:"coordinator_id"`
	UserID                string          `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:idx_user_id_unique" json:"user_id"`
	Name                  string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Phone                 string          `gorm:"column:phone;type:varchar(32);not null" json:"phone"`
	District              string          `gorm:"column:district;type:varchar(128);not null;index:idx_district_active,priority:1" json:"district"`
	Area                  string          `gorm:"column:area;type:varchar(128)" json:"area"`
	ServiceRadiusKm       int             `gorm:"column:service_radius_km;type:int;not null;default:25" json:"service_radius_km"`
	SkillsOffered         JSONStringArray `gorm:"column:skills_offered;type:json;not null" json:"skills_offered"`
	WorkerCount           int             `gorm:"column:worker_count;type:int;not null;default:0" json:"worker_count"`
	ReliabilityScore      int             `gorm:"column:reliability_score;type:int;not null;default:50" json:"reliability_score"`
	TotalRequestsHandled  int             `gorm:"column:total_requests_handled;type:int;not null;default:0" json:"total_requests_handled"`
	SuccessfulCompletions int             `gorm:"column:successful_completions;type:int;not null;default:0" json:"successful_completions"`
	ReplacementsProvided  int             `gorm:"column:replacements_provided;type:int;not null;default:0" json:"replacements_provided"`
	FailedCommitments     int             `gorm:"column:failed_commitments;type:int;not null;default:0" json:"failed_commitments"`
	IsActive              bool            `gorm:"column:is_active;not null;default:true;index:idx_district_active,priority:2" json:"is_active"`
	IsVerified            bool            `gorm:"column:is_verified;not null;default:false" json:"is_verified"`
	CreatedAt             time.Time       `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for Coordinator
func (Coordinator) TableName() string {
	return "coordinators"
}
