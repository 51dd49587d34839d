package model

import (
	"strings"
	"time"
)

// Location district/area pair resolved by the caller
type Location struct {
	District string `json:"district"`
	Area     string `json:"area,omitempty"`
}

// NormalizedDistrict is the key used for district matching
func (l Location) NormalizedDistrict() string {
	return strings.ToLower(strings.TrimSpace(l.District))
}

// Coordinator local dispatcher owning a worker pool
type Coordinator struct {
	ID                    string     `json:"id"`
	UserID                string     `json:"user_id"` // identity issued by the account subsystem
	Name                  string     `json:"name"`
	Phone                 string     `json:"phone"`
	Location              Location   `json:"location"`
	ServiceRadiusKm       int        `json:"service_radius_km"`
	SkillsOffered         []WorkType `json:"skills_offered"`
	WorkerCount           int        `json:"worker_count"` // active workers in the pool
	ReliabilityScore      int        `json:"reliability_score"`
	TotalRequestsHandled  int        `json:"total_requests_handled"`
	SuccessfulCompletions int        `json:"successful_completions"`
	ReplacementsProvided  int        `json:"replacements_provided"`
	FailedCommitments     int        `json:"failed_commitments"`
	IsActive              bool       `json:"is_active"`
	IsVerified            bool       `json:"is_verified"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

const (
	DefaultReliabilityScore = 50
	DefaultServiceRadiusKm  = 25
)

// Offers reports whether the coordinator provides wt
func (c *Coordinator) Offers(wt WorkType) bool {
	for _, s := range c.SkillsOffered {
		if s == wt {
			return true
		}
	}
	// catch-all requests are served by anyone offering general work
	if wt.IsOther() {
		for _, s := range c.SkillsOffered {
			if s == WorkTypeGeneral {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy
func (c *Coordinator) Clone() *Coordinator {
	if c == nil {
		return nil
	}
	out := *c
	out.SkillsOffered = append([]WorkType(nil), c.SkillsOffered...)
	return &out
}

// CoordinatorStats dashboard summary
type CoordinatorStats struct {
	CoordinatorID         string `json:"coordinator_id"`
	ReliabilityScore      int    `json:"reliability_score"`
	TotalRequestsHandled  int    `json:"total_requests_handled"`
	SuccessfulCompletions int    `json:"successful_completions"`
	ReplacementsProvided  int    `json:"replacements_provided"`
	FailedCommitments     int    `json:"failed_commitments"`
	WorkerCount           int    `json:"worker_count"`
	StandbyCount          int    `json:"standby_count"`
	OpenRequests          int    `json:"open_requests"`
	RecentRequests        int    `json:"recent_requests"` // created in the last 30 days
}

// OutcomeDelta counter increments applied atomically after an outcome
type OutcomeDelta struct {
	Handled     int
	Successful  int
	Failed      int
	Replacement int
	Completed   int // worker only
	Cancelled   int // worker only
}
