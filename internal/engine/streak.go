package engine

import (
	"time"

	"github.com/noah-isme/classdy-api/internal/models"
)

// maxStreakDays bounds the backward walk of OnTimeStreak.
const maxStreakDays = 365

// IsWorkingDay reports whether day requires physical attendance: it is not a
// holiday, a schedule covers it and that schedule has a physical session on
// its weekday.
func (e *Engine) IsWorkingDay(day time.Time, schedules []models.Schedule, holidays []models.Holiday) bool {
	day = e.startOfDay(day)
	if isHoliday(e.FormatDate(day), holidays) {
		return false
	}
	_, session := e.requiredSession(day, schedules)
	return session != nil
}

// OnTimeStreak counts consecutive ON_TIME or EARLY working days walking back
// from the day of now. Non-working days are skipped. The walk stops at the
// first working day that has no log or whose status is anything else, and
// never scans more than a year.
func (e *Engine) OnTimeStreak(
	logs []models.AnnotatedLog,
	schedules []models.Schedule,
	holidays []models.Holiday,
	now time.Time,
) int {
	statuses := make(map[string]models.AttendanceStatus, len(logs))
	for _, log := range logs {
		statuses[log.Date] = log.Status
	}

	streak := 0
	day := e.startOfDay(now)
	for i := 0; i < maxStreakDays; i++ {
		if e.IsWorkingDay(day, schedules, holidays) {
			status, ok := statuses[e.FormatDate(day)]
			if !ok || !status.Punctual() {
				return streak
			}
			streak++
		}
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
