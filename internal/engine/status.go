package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/models"
)

// ComputeStatus derives the attendance status of date. Checks run in a fixed
// order and the first match wins:
//
//  1. no schedule covers date: NO_SCHEDULE
//  2. date is a holiday: HOLIDAY
//  3. tag Absent: ABSENT
//  4. tag Holiday: HOLIDAY
//  5. no physical session that day: DAY_OFF
//  6. no arrival: ABSENT before today, NO_ENTRY otherwise
//  7. arrival after required+grace: LATE, at or before required: EARLY,
//     otherwise ON_TIME
//
// Malformed input degrades to NO_SCHEDULE.
func (e *Engine) ComputeStatus(
	date string,
	arrival *string,
	schedules []models.Schedule,
	gracePeriod int,
	holidays []models.Holiday,
	tag models.StatusTag,
	now time.Time,
) models.AttendanceStatus {
	day, err := e.ParseDate(date)
	if err != nil {
		e.logger.Warn("status falls back to no schedule", zap.String("date", date), zap.Error(err))
		return models.AttendanceStatusNoSchedule
	}

	schedule, session := e.requiredSession(day, schedules)
	if schedule == nil {
		return models.AttendanceStatusNoSchedule
	}
	if isHoliday(date, holidays) {
		return models.AttendanceStatusHoliday
	}
	switch tag {
	case models.StatusTagAbsent:
		return models.AttendanceStatusAbsent
	case models.StatusTagHoliday:
		return models.AttendanceStatusHoliday
	}
	if session == nil {
		return models.AttendanceStatusDayOff
	}

	if arrival == nil || *arrival == "" {
		if day.Before(e.startOfDay(now)) {
			return models.AttendanceStatusAbsent
		}
		return models.AttendanceStatusNoEntry
	}

	arrivedAt, err := e.CombineDateTime(date, *arrival)
	if err != nil {
		e.logger.Warn("status falls back to no schedule", zap.String("date", date), zap.Error(err))
		return models.AttendanceStatusNoSchedule
	}
	requiredAt, err := e.CombineDateTime(date, session.StartTime)
	if err != nil {
		e.logger.Warn("status falls back to no schedule", zap.String("date", date), zap.String("schedule_id", schedule.ID), zap.Error(err))
		return models.AttendanceStatusNoSchedule
	}
	graceAt := requiredAt.Add(time.Duration(gracePeriod) * time.Minute)

	switch {
	case arrivedAt.After(graceAt):
		return models.AttendanceStatusLate
	case !arrivedAt.After(requiredAt):
		return models.AttendanceStatusEarly
	default:
		return models.AttendanceStatusOnTime
	}
}

// Annotate derives status and lateness for every log, keeping input order.
func (e *Engine) Annotate(
	logs []models.AttendanceLog,
	schedules []models.Schedule,
	gracePeriod int,
	holidays []models.Holiday,
	now time.Time,
) []models.AnnotatedLog {
	annotated := make([]models.AnnotatedLog, 0, len(logs))
	for _, log := range logs {
		annotated = append(annotated, e.AnnotateLog(log, schedules, gracePeriod, holidays, now))
	}
	return annotated
}

// AnnotateLog derives status and lateness for a single log. Lateness is only
// reported for LATE logs.
func (e *Engine) AnnotateLog(
	log models.AttendanceLog,
	schedules []models.Schedule,
	gracePeriod int,
	holidays []models.Holiday,
	now time.Time,
) models.AnnotatedLog {
	status := e.ComputeStatus(log.Date, log.ArrivalTime, schedules, gracePeriod, holidays, log.StatusTag, now)
	lateness := 0
	if status == models.AttendanceStatusLate {
		lateness = e.CalculateLateness(log, schedules, gracePeriod)
	}
	return models.AnnotatedLog{AttendanceLog: log, Status: status, LatenessMinutes: lateness}
}

func isHoliday(date string, holidays []models.Holiday) bool {
	for _, holiday := range holidays {
		if holiday.Date == date {
			return true
		}
	}
	return false
}
