package mysql

import (
	"time"

	"labourhub/internal/model"
)

// calendarDay keeps the wall-clock date of t as UTC midnight, whatever location the driver used
func calendarDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ToCoordinatorDomain converts MySQL Coordinator to domain Coordinator
func ToCoordinatorDomain(c *Coordinator) *model.Coordinator {
	if c == nil {
		return nil
	}
	skills := make([]model.WorkType, 0, len(c.SkillsOffered))
	for _, s := range c.SkillsOffered {
		skills = append(skills, model.WorkType(s))
	}
	return &model.Coordinator{
		ID:                    c.CoordinatorID,
		UserID:                c.UserID,
		Name:                  c.Name,
		Phone:                 c.Phone,
		Location:              model.Location{District: c.District, Area: c.Area},
		ServiceRadiusKm:       c.ServiceRadiusKm,
		SkillsOffered:         skills,
		WorkerCount:           c.WorkerCount,
		ReliabilityScore:      c.ReliabilityScore,
		TotalRequestsHandled:  c.TotalRequestsHandled,
		SuccessfulCompletions: c.SuccessfulCompletions,
		ReplacementsProvided:  c.ReplacementsProvided,
		FailedCommitments:     c.FailedCommitments,
		IsActive:              c.IsActive,
		IsVerified:            c.IsVerified,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

// FromCoordinatorDomain converts domain Coordinator to MySQL Coordinator
func FromCoordinatorDomain(c *model.Coordinator) *Coordinator {
	if c == nil {
		return nil
	}
	skills := make(JSONStringArray, 0, len(c.SkillsOffered))
	for _, s := range c.SkillsOffered {
		skills = append(skills, string(s))
	}
	return &Coordinator{
		CoordinatorID:         c.ID,
		UserID:                c.UserID,
		Name:                  c.Name,
		Phone:                 c.Phone,
		District:              c.Location.District,
		Area:                  c.Location.Area,
		ServiceRadiusKm:       c.ServiceRadiusKm,
		SkillsOffered:         skills,
		WorkerCount:           c.WorkerCount,
		ReliabilityScore:      c.ReliabilityScore,
		TotalRequestsHandled:  c.TotalRequestsHandled,
		SuccessfulCompletions: c.SuccessfulCompletions,
		ReplacementsProvided:  c.ReplacementsProvided,
		FailedCommitments:     c.FailedCommitments,
		IsActive:              c.IsActive,
		IsVerified:            c.IsVerified,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

var weekdayKeys = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func toAvailabilityColumn(a model.WeeklyAvailability) Availability {
	return Availability{
		"monday": a.Monday, "tuesday": a.Tuesday, "wednesday": a.Wednesday,
		"thursday": a.Thursday, "friday": a.Friday, "saturday": a.Saturday, "sunday": a.Sunday,
	}
}

func fromAvailabilityColumn(a Availability) model.WeeklyAvailability {
	days := make(map[string]bool, len(weekdayKeys))
	for _, k := range weekdayKeys {
		days[k] = a[k]
	}
	out, _ := model.WeeklyAvailability{}.Apply(days)
	return out
}

// ToWorkerDomain converts MySQL Worker to domain Worker
func ToWorkerDomain(w *Worker) *model.Worker {
	if w == nil {
		return nil
	}
	skills := make([]model.WorkerSkill, 0, len(w.Skills))
	for _, s := range w.Skills {
		skills = append(skills, model.WorkerSkill{Type: model.WorkType(s.Type), ExperienceYears: s.ExperienceYears})
	}
	return &model.Worker{
		ID:                   w.WorkerID,
		CoordinatorID:        w.CoordinatorID,
		Name:                 w.Name,
		Phone:                w.Phone,
		Skills:               skills,
		Availability:         fromAvailabilityColumn(w.Availability),
		IsStandby:            w.IsStandby,
		ReliabilityScore:     w.ReliabilityScore,
		TotalAssignments:     w.TotalAssignments,
		CompletedAssignments: w.CompletedAssignments,
		CancelledAssignments: w.CancelledAssignments,
		IsActive:             w.IsActive,
		CreatedAt:            w.CreatedAt,
		UpdatedAt:            w.UpdatedAt,
	}
}

// FromWorkerDomain converts domain Worker to MySQL Worker
func FromWorkerDomain(w *model.Worker) *Worker {
	if w == nil {
		return nil
	}
	skills := make(SkillList, 0, len(w.Skills))
	for _, s := range w.Skills {
		skills = append(skills, Skill{Type: string(s.Type), ExperienceYears: s.ExperienceYears})
	}
	return &Worker{
		WorkerID:             w.ID,
		CoordinatorID:        w.CoordinatorID,
		Name:                 w.Name,
		Phone:                w.Phone,
		Skills:               skills,
		Availability:         toAvailabilityColumn(w.Availability),
		IsStandby:            w.IsStandby,
		ReliabilityScore:     w.ReliabilityScore,
		TotalAssignments:     w.TotalAssignments,
		CompletedAssignments: w.CompletedAssignments,
		CancelledAssignments: w.CancelledAssignments,
		IsActive:             w.IsActive,
		CreatedAt:            w.CreatedAt,
		UpdatedAt:            w.UpdatedAt,
	}
}

// ToRequestDomain converts MySQL LabourRequest and its slots to domain LabourRequest
func ToRequestDomain(r *LabourRequest, slots []*LabourSlot) *model.LabourRequest {
	if r == nil {
		return nil
	}
	out := &model.LabourRequest{
		ID:                 r.RequestID,
		Reference:          r.Reference,
		FarmerID:           r.FarmerID,
		LandID:             r.LandID,
		WorkType:           model.WorkType(r.WorkType),
		WorkersNeeded:      r.WorkersNeeded,
		WorkDate:           calendarDay(r.WorkDate),
		StartTime:          r.StartTime,
		DurationHours:      r.DurationHours,
		Description:        r.Description,
		Location:           model.Location{District: r.District, Area: r.Area},
		CoordinatorID:      r.CoordinatorID,
		Slots:              make([]model.Slot, 0, len(slots)),
		StandbyWorkerIDs:   append([]string(nil), r.StandbyWorkerIDs...),
		Status:             model.RequestStatus(r.Status),
		FarmerConfirmed:    r.FarmerConfirmed,
		FarmerConfirmedAt:  r.FarmerConfirmedAt,
		Rating:             r.Rating,
		Feedback:           r.Feedback,
		CompletionNotes:    r.CompletionNotes,
		DeclineReason:      r.DeclineReason,
		CancellationReason: r.CancellationReason,
		CancelledBy:        model.ActorType(r.CancelledBy),
		FailureReason:      r.FailureReason,
		AcceptedAt:         r.AcceptedAt,
		WorkStartedAt:      r.WorkStartedAt,
		WorkCompletedAt:    r.WorkCompletedAt,
		CancelledAt:        r.CancelledAt,
		Version:            r.Version,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	for _, s := range slots {
		out.Slots = append(out.Slots, *ToSlotDomain(s))
	}
	return out
}

// FromRequestDomain converts domain LabourRequest to MySQL LabourRequest (slots excluded)
func FromRequestDomain(r *model.LabourRequest) *LabourRequest {
	if r == nil {
		return nil
	}
	return &LabourRequest{
		RequestID:          r.ID,
		Reference:          r.Reference,
		FarmerID:           r.FarmerID,
		LandID:             r.LandID,
		WorkType:           string(r.WorkType),
		WorkersNeeded:      r.WorkersNeeded,
		WorkDate:           calendarDay(r.WorkDate),
		StartTime:          r.StartTime,
		DurationHours:      r.DurationHours,
		Description:        r.Description,
		District:           r.Location.District,
		Area:               r.Location.Area,
		CoordinatorID:      r.CoordinatorID,
		StandbyWorkerIDs:   JSONStringArray(append([]string(nil), r.StandbyWorkerIDs...)),
		Status:             string(r.Status),
		FarmerConfirmed:    r.FarmerConfirmed,
		FarmerConfirmedAt:  r.FarmerConfirmedAt,
		Rating:             r.Rating,
		Feedback:           r.Feedback,
		CompletionNotes:    r.CompletionNotes,
		DeclineReason:      r.DeclineReason,
		CancellationReason: r.CancellationReason,
		CancelledBy:        string(r.CancelledBy),
		FailureReason:      r.FailureReason,
		AcceptedAt:         r.AcceptedAt,
		WorkStartedAt:      r.WorkStartedAt,
		WorkCompletedAt:    r.WorkCompletedAt,
		CancelledAt:        r.CancelledAt,
		Version:            r.Version,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// ToSlotDomain converts MySQL LabourSlot to domain Slot
func ToSlotDomain(s *LabourSlot) *model.Slot {
	if s == nil {
		return nil
	}
	return &model.Slot{
		ID:                 s.SlotID,
		RequestID:          s.RequestID,
		WorkerID:           s.WorkerID,
		Seq:                s.Seq,
		Status:             model.SlotStatus(s.Status),
		AssignedAt:         s.AssignedAt,
		ConfirmedAt:        s.ConfirmedAt,
		ReplacedBy:         s.ReplacedBy,
		ReplacedAt:         s.ReplacedAt,
		CancelledAt:        s.CancelledAt,
		CancellationReason: s.CancellationReason,
	}
}

// FromSlotDomain converts domain Slot to MySQL LabourSlot, deriving active_day from the status
func FromSlotDomain(s *model.Slot, day string) *LabourSlot {
	if s == nil {
		return nil
	}
	out := &LabourSlot{
		SlotID:             s.ID,
		RequestID:          s.RequestID,
		WorkerID:           s.WorkerID,
		Seq:                s.Seq,
		Status:             string(s.Status),
		AssignedAt:         s.AssignedAt,
		ConfirmedAt:        s.ConfirmedAt,
		ReplacedBy:         s.ReplacedBy,
		ReplacedAt:         s.ReplacedAt,
		CancelledAt:        s.CancelledAt,
		CancellationReason: s.CancellationReason,
	}
	if s.Status.HoldsBooking() {
		out.ActiveDay = &day
	}
	return out
}

// ToLogDomain converts MySQL LabourLog to domain LabourLog
func ToLogDomain(l *LabourLog) *model.LabourLog {
	if l == nil {
		return nil
	}
	return &model.LabourLog{
		ID:            l.LogID,
		RequestID:     l.RequestID,
		CoordinatorID: l.CoordinatorID,
		ActorType:     model.ActorType(l.ActorType),
		ActorID:       l.ActorID,
		EventType:     model.EventType(l.EventType),
		EventData:     model.EventData(l.EventData),
		Timestamp:     l.Timestamp,
	}
}

// FromLogDomain converts domain LabourLog to MySQL LabourLog
func FromLogDomain(l *model.LabourLog) *LabourLog {
	if l == nil {
		return nil
	}
	return &LabourLog{
		LogID:         l.ID,
		RequestID:     l.RequestID,
		CoordinatorID: l.CoordinatorID,
		ActorType:     string(l.ActorType),
		ActorID:       l.ActorID,
		EventType:     string(l.EventType),
		EventData:     EventPayload(l.EventData),
		Timestamp:     l.Timestamp,
	}
}
