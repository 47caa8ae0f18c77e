package models

// Backup is the wholesale import/export payload. Its shape matches the file
// the web client downloads, so exports round-trip.
type Backup struct {
	Settings    Settings        `json:"settings"`
	Schedules   []Schedule      `json:"schedules"`
	Logs        []AttendanceLog `json:"logs"`
	SubjectMeta SubjectMeta     `json:"subjectMeta"`
}
