package model

// CreateRequestInput farmer request submission
type CreateRequestInput struct {
	FarmerID      string   `json:"farmer_id"`
	LandID        string   `json:"land_id" binding:"required"`
	WorkType      string   `json:"work_type" binding:"required"`
	WorkersNeeded int      `json:"workers_needed" binding:"required,min=1"`
	WorkDate      string   `json:"work_date" binding:"required"` // YYYY-MM-DD
	StartTime     string   `json:"start_time,omitempty"`         // HH:MM, default 07:00
	DurationHours int      `json:"duration_hours,omitempty"`     // default 8
	Description   string   `json:"description,omitempty"`
	Location      Location `json:"location"`
}

// ReasonInput optional free-text reason
type ReasonInput struct {
	Reason string `json:"reason,omitempty"`
}

// NotesInput optional completion notes
type NotesInput struct {
	Notes string `json:"notes,omitempty"`
}

// FeedbackInput farmer rating
type FeedbackInput struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback,omitempty"`
}

// AssignInput worker assignment
type AssignInput struct {
	WorkerIDs        []string `json:"worker_ids"`
	StandbyWorkerIDs []string `json:"standby_worker_ids,omitempty"`
}

// ReplaceInput worker substitution
type ReplaceInput struct {
	CancelledWorkerID string `json:"cancelled_worker_id" binding:"required"`
	NewWorkerID       string `json:"new_worker_id" binding:"required"`
	Reason            string `json:"reason,omitempty"`
}

// SlotActionInput targets one worker's slot
type SlotActionInput struct {
	WorkerID string `json:"worker_id" binding:"required"`
	Reason   string `json:"reason,omitempty"`
}

// RegisterCoordinatorInput coordinator onboarding
type RegisterCoordinatorInput struct {
	UserID          string   `json:"user_id"`
	Name            string   `json:"name" binding:"required"`
	Phone           string   `json:"phone" binding:"required"`
	Location        Location `json:"location"`
	ServiceRadiusKm int      `json:"service_radius_km,omitempty"`
	SkillsOffered   []string `json:"skills_offered,omitempty"`
}

// UpdateCoordinatorInput partial coordinator update
type UpdateCoordinatorInput struct {
	Name            *string   `json:"name,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	Location        *Location `json:"location,omitempty"`
	ServiceRadiusKm *int      `json:"service_radius_km,omitempty"`
	SkillsOffered   []string  `json:"skills_offered,omitempty"`
	IsActive        *bool     `json:"is_active,omitempty"`
}

// SkillInput worker skill as submitted
type SkillInput struct {
	Type            string `json:"type"`
	ExperienceYears int    `json:"experience_years,omitempty"`
}

// AddWorkerInput new pool member
type AddWorkerInput struct {
	Name         string          `json:"name" binding:"required"`
	Phone        string          `json:"phone" binding:"required"`
	Skills       []SkillInput    `json:"skills,omitempty"`
	Availability map[string]bool `json:"availability,omitempty"` // overrides on top of Mon-Sat
	IsStandby    bool            `json:"is_standby,omitempty"`
}

// UpdateWorkerInput partial worker update
type UpdateWorkerInput struct {
	Name         *string         `json:"name,omitempty"`
	Phone        *string         `json:"phone,omitempty"`
	Skills       []SkillInput    `json:"skills,omitempty"`
	Availability map[string]bool `json:"availability,omitempty"`
	IsStandby    *bool           `json:"is_standby,omitempty"`
	IsActive     *bool           `json:"is_active,omitempty"`
}

// WorkerFilter pool listing filter
type WorkerFilter struct {
	Skill           WorkType
	StandbyOnly     bool
	IncludeInactive bool
}
