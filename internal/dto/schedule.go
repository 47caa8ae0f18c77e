package dto

// ScheduleRequest is the create/update/replace payload for a schedule.
type ScheduleRequest struct {
	ID        string                `json:"id,omitempty" validate:"omitempty,max=64"`
	Name      string                `json:"name" validate:"required,max=120"`
	StartDate *string               `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string               `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Rules     []ScheduleRuleRequest `json:"rules" validate:"dive"`
}

// ScheduleRuleRequest lists the sessions of one weekday.
type ScheduleRuleRequest struct {
	DayOfWeek int                   `json:"dayOfWeek" validate:"min=0,max=6"`
	Classes   []ClassSessionRequest `json:"classes" validate:"dive"`
}

// ClassSessionRequest describes one class session. Times are HH:mm.
type ClassSessionRequest struct {
	ID        string        `json:"id,omitempty" validate:"omitempty,max=64"`
	Subject   string        `json:"subject" validate:"required,max=120"`
	StartTime string        `json:"startTime" validate:"required,len=5,datetime=15:04"`
	EndTime   string        `json:"endTime" validate:"required,len=5,datetime=15:04"`
	Tasks     []TaskRequest `json:"tasks" validate:"dive"`
	IsOnline  bool          `json:"isOnline"`
}

// TaskRequest is a to-do item attached to a session.
type TaskRequest struct {
	ID        string `json:"id,omitempty" validate:"omitempty,max=64"`
	Text      string `json:"text" validate:"required,max=500"`
	Completed bool   `json:"completed"`
}

// TaskUpdateRequest replaces the task list of one session.
type TaskUpdateRequest struct {
	Tasks []TaskRequest `json:"tasks" validate:"dive"`
}
