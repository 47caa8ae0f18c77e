package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Task is a to-do item attached to a class session.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// ClassSession is one scheduled class occurrence. Online sessions are remote
// ("flipped") and never establish an attendance requirement.
type ClassSession struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Tasks     []Task `json:"tasks"`
	IsOnline  bool   `json:"isOnline,omitempty"`
}

// PendingTasks counts tasks not yet completed.
func (c ClassSession) PendingTasks() int {
	pending := 0
	for _, task := range c.Tasks {
		if !task.Completed {
			pending++
		}
	}
	return pending
}

// ScheduleRule lists the sessions for one day of week (0=Sunday..6=Saturday).
type ScheduleRule struct {
	DayOfWeek int            `json:"dayOfWeek"`
	Classes   []ClassSession `json:"classes"`
}

// ScheduleRules is persisted as a JSONB column.
type ScheduleRules []ScheduleRule

// Value marshals rules to JSON for persistence.
func (r ScheduleRules) Value() (driver.Value, error) {
	if r == nil {
		r = ScheduleRules{}
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal schedule rules: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the rules slice.
func (r *ScheduleRules) Scan(value interface{}) error {
	if value == nil {
		*r = ScheduleRules{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for ScheduleRules", value)
	}
	if len(data) == 0 {
		*r = ScheduleRules{}
		return nil
	}
	if err := json.Unmarshal(data, r); err != nil {
		return fmt.Errorf("unmarshal schedule rules: %w", err)
	}
	return nil
}

// Schedule is a named, optionally date-ranged weekly timetable. Dates are
// inclusive YYYY-MM-DD strings; a schedule without both dates is never matched
// by date-range lookup.
type Schedule struct {
	ID        string        `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	StartDate *string       `db:"start_date" json:"startDate,omitempty"`
	EndDate   *string       `db:"end_date" json:"endDate,omitempty"`
	Rules     ScheduleRules `db:"rules" json:"rules"`
	Position  int           `db:"position" json:"-"`
	CreatedAt time.Time     `db:"created_at" json:"-"`
	UpdatedAt time.Time     `db:"updated_at" json:"-"`
}

// Rule returns the rule for the given day of week, or nil when absent.
func (s *Schedule) Rule(dayOfWeek time.Weekday) *ScheduleRule {
	if s == nil {
		return nil
	}
	for i := range s.Rules {
		if s.Rules[i].DayOfWeek == int(dayOfWeek) {
			return &s.Rules[i]
		}
	}
	return nil
}

// HasDateRange reports whether both range bounds are declared.
func (s *Schedule) HasDateRange() bool {
	return s != nil && s.StartDate != nil && s.EndDate != nil && *s.StartDate != "" && *s.EndDate != ""
}
