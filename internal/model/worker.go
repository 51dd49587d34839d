package model

import (
	"time"
)

// WorkerSkill work type with experience
type WorkerSkill struct {
	Type            WorkType `json:"type"`
	ExperienceYears int      `json:"experience_years"`
}

// WeeklyAvailability per-weekday availability flags
type WeeklyAvailability struct {
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
	Sunday    bool `json:"sunday"`
}

// DefaultAvailability Monday to Saturday
func DefaultAvailability() WeeklyAvailability {
	return WeeklyAvailability{
		Monday: true, Tuesday: true, Wednesday: true,
		Thursday: true, Friday: true, Saturday: true,
	}
}

// On reports availability for a weekday
func (a WeeklyAvailability) On(day time.Weekday) bool {
	switch day {
	case time.Monday:
		return a.Monday
	case time.Tuesday:
		return a.Tuesday
	case time.Wednesday:
		return a.Wednesday
	case time.Thursday:
		return a.Thursday
	case time.Friday:
		return a.Friday
	case time.Saturday:
		return a.Saturday
	case time.Sunday:
		return a.Sunday
	}
	return false
}

// Apply overrides the flags present in days (keys are lower-case weekday names)
func (a WeeklyAvailability) Apply(days map[string]bool) (WeeklyAvailability, error) {
	for k, v := range days {
		switch k {
		case "monday":
			a.Monday = v
		case "tuesday":
			a.Tuesday = v
		case "wednesday":
			a.Wednesday = v
		case "thursday":
			a.Thursday = v
		case "friday":
			a.Friday = v
		case "saturday":
			a.Saturday = v
		case "sunday":
			a.Sunday = v
		default:
			return a, NewValidationError("unknown weekday %q", k)
		}
	}
	return a, nil
}

// Worker individual labourer in one coordinator's pool
type Worker struct {
	ID                   string             `json:"id"`
	CoordinatorID        string             `json:"coordinator_id"`
	Name                 string             `json:"name"`
	Phone                string             `json:"phone"`
	Skills               []WorkerSkill      `json:"skills"`
	Availability         WeeklyAvailability `json:"availability"`
	IsStandby            bool               `json:"is_standby"`
	ReliabilityScore     int                `json:"reliability_score"`
	TotalAssignments     int                `json:"total_assignments"` // resolved commitments
	CompletedAssignments int                `json:"completed_assignments"`
	CancelledAssignments int                `json:"cancelled_assignments"`
	IsActive             bool               `json:"is_active"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// HasSkill reports whether the worker lists wt; an empty wt matches everyone
func (w *Worker) HasSkill(wt WorkType) bool {
	if wt == "" {
		return true
	}
	for _, s := range w.Skills {
		if s.Type == wt {
			return true
		}
	}
	if wt.IsOther() {
		return w.HasSkill(WorkTypeGeneral)
	}
	return false
}

// Clone returns a deep copy
func (w *Worker) Clone() *Worker {
	if w == nil {
		return nil
	}
	out := *w
	out.Skills = append([]WorkerSkill(nil), w.Skills...)
	return &out
}
