package mysql

import "labourhub/pkg/store/mysql/model"

// Re-export table models so repositories read as mysql.Coordinator etc.
type (
	Coordinator   = model.Coordinator
	Worker        = model.Worker
	LabourRequest = model.LabourRequest
	LabourSlot    = model.LabourSlot
	LabourLog     = model.LabourLog

	// Custom JSON types
	JSONStringArray = model.JSONStringArray
	Skill           = model.Skill
	SkillList       = model.SkillList
	Availability    = model.Availability
	EventPayload    = model.EventPayload
)
