package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONStringArray is a custom type for JSON string arrays
type JSONStringArray []string

// Scan implements sql.Scanner interface
func (j *JSONStringArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, err := columnBytes(value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal JSONStringArray value: %w", err)
	}
	result := make([]string, 0)
	err = json.Unmarshal(bytes, &result)
	*j = JSONStringArray(result)
	return err
}

// Value implements driver.Valuer interface
func (j JSONStringArray) Value() (driver.Value, error) {
	if j == nil {
		return "[]", nil
	}
	b, err := json.Marshal(j)
	return string(b), err
}

// Skill one JSON element of workers.skills
type Skill struct {
	Type            string `json:"type"`
	ExperienceYears int    `json:"experience_years"`
}

// SkillList is a custom type for the workers.skills JSON column
type SkillList []Skill

// Scan implements sql.Scanner interface
func (s *SkillList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	bytes, err := columnBytes(value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal SkillList value: %w", err)
	}
	result := make([]Skill, 0)
	err = json.Unmarshal(bytes, &result)
	*s = SkillList(result)
	return err
}

// Value implements driver.Valuer interface
func (s SkillList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

// Availability is a custom type for the workers.availability JSON column
type Availability map[string]bool

// Scan implements sql.Scanner interface
func (a *Availability) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	bytes, err := columnBytes(value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal Availability value: %w", err)
	}
	result := make(map[string]bool)
	err = json.Unmarshal(bytes, &result)
	*a = Availability(result)
	return err
}

// Value implements driver.Valuer interface
func (a Availability) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	b, err := json.Marshal(a)
	return string(b), err
}

// EventPayload is a custom type for labour_logs.event_data
type EventPayload struct {
	WorkerID         string `json:"worker_id,omitempty"`
	PreviousWorkerID string `json:"previous_worker_id,omitempty"`
	Reason           string `json:"reason,omitempty"`
	Notes            string `json:"notes,omitempty"`
	Rating           *int   `json:"rating,omitempty"`
	WorkerCount      *int   `json:"worker_count,omitempty"`
	FromStatus       string `json:"from_status,omitempty"`
	ToStatus         string `json:"to_status,omitempty"`
}

// Scan implements sql.Scanner interface
func (p *EventPayload) Scan(value interface{}) error {
	if value == nil {
		*p = EventPayload{}
		return nil
	}
	bytes, err := columnBytes(value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal EventPayload value: %w", err)
	}
	return json.Unmarshal(bytes, p)
}

// Value implements driver.Valuer interface
func (p EventPayload) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	return string(b), err
}

func columnBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	return nil, fmt.Errorf("unsupported column value %T", value)
}
