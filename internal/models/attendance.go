package models

import "time"

// AttendanceStatus is the derived status of a calendar day. It is recomputed
// on every read and never persisted.
type AttendanceStatus string

const (
	AttendanceStatusOnTime     AttendanceStatus = "ON_TIME"
	AttendanceStatusLate       AttendanceStatus = "LATE"
	AttendanceStatusEarly      AttendanceStatus = "EARLY"
	AttendanceStatusDayOff     AttendanceStatus = "DAY_OFF"
	AttendanceStatusAbsent     AttendanceStatus = "ABSENT"
	AttendanceStatusHoliday    AttendanceStatus = "HOLIDAY"
	AttendanceStatusNoEntry    AttendanceStatus = "NO_ENTRY"
	AttendanceStatusNoSchedule AttendanceStatus = "NO_SCHEDULE"
)

// AttendanceStatuses lists every status in display order.
var AttendanceStatuses = []AttendanceStatus{
	AttendanceStatusOnTime,
	AttendanceStatusLate,
	AttendanceStatusEarly,
	AttendanceStatusDayOff,
	AttendanceStatusAbsent,
	AttendanceStatusHoliday,
	AttendanceStatusNoEntry,
	AttendanceStatusNoSchedule,
}

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusOnTime, AttendanceStatusLate, AttendanceStatusEarly, AttendanceStatusDayOff,
		AttendanceStatusAbsent, AttendanceStatusHoliday, AttendanceStatusNoEntry, AttendanceStatusNoSchedule:
		return true
	default:
		return false
	}
}

// Label returns the human readable status text.
func (s AttendanceStatus) Label() string {
	switch s {
	case AttendanceStatusOnTime:
		return "On Time"
	case AttendanceStatusLate:
		return "Late"
	case AttendanceStatusEarly:
		return "Early"
	case AttendanceStatusDayOff:
		return "Day Off"
	case AttendanceStatusAbsent:
		return "Absent"
	case AttendanceStatusHoliday:
		return "Holiday"
	case AttendanceStatusNoEntry:
		return "No Entry"
	case AttendanceStatusNoSchedule:
		return "No Schedule"
	default:
		return string(s)
	}
}

// Punctual reports whether the status counts towards an on-time streak.
func (s AttendanceStatus) Punctual() bool {
	return s == AttendanceStatusOnTime || s == AttendanceStatusEarly
}

// StatusTag is a manual override recorded on a log.
type StatusTag string

const (
	StatusTagNone    StatusTag = ""
	StatusTagAbsent  StatusTag = "Absent"
	StatusTagHoliday StatusTag = "Holiday"
)

// Valid returns true for the supported tags, including none.
func (t StatusTag) Valid() bool {
	switch t {
	case StatusTagNone, StatusTagAbsent, StatusTagHoliday:
		return true
	default:
		return false
	}
}

// AttendanceLog is the user's record for one calendar date. ID always equals
// Date, which enforces one log per date.
type AttendanceLog struct {
	ID            string    `db:"id" json:"id"`
	Date          string    `db:"date" json:"date"`
	ArrivalTime   *string   `db:"arrival_time" json:"arrivalTime"`
	DepartureTime *string   `db:"departure_time" json:"departureTime"`
	StatusTag     StatusTag `db:"status_tag" json:"statusTag,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"-"`
	UpdatedAt     time.Time `db:"updated_at" json:"-"`
}

// Arrival returns the arrival time or an empty string when not recorded.
func (l AttendanceLog) Arrival() string {
	if l.ArrivalTime == nil {
		return ""
	}
	return *l.ArrivalTime
}

// AnnotatedLog carries a log together with its derived status.
type AnnotatedLog struct {
	AttendanceLog
	Status          AttendanceStatus `json:"status"`
	LatenessMinutes int              `json:"latenessMinutes"`
}

// AttendanceLogFilter scopes log listings. Dates are inclusive YYYY-MM-DD strings.
type AttendanceLogFilter struct {
	DateFrom string
	DateTo   string
}
