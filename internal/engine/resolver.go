package engine

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/models"
)

// ResolveSchedule returns the first schedule, in input order, whose inclusive
// date range contains date. Schedules without both bounds, with malformed
// bounds or with an inverted range never match. It returns nil when nothing
// matches or date itself is malformed.
func (e *Engine) ResolveSchedule(date string, schedules []models.Schedule) *models.Schedule {
	day, err := e.ParseDate(date)
	if err != nil {
		e.logger.Warn("unresolvable date", zap.String("date", date), zap.Error(err))
		return nil
	}
	return e.resolve(day, schedules)
}

// ContextSchedule returns the schedule shown for date in the client. Unlike
// ResolveSchedule it falls back to the first stored schedule.
func (e *Engine) ContextSchedule(date string, schedules []models.Schedule) *models.Schedule {
	if schedule := e.ResolveSchedule(date, schedules); schedule != nil {
		return schedule
	}
	if len(schedules) == 0 {
		return nil
	}
	return &schedules[0]
}

func (e *Engine) resolve(day time.Time, schedules []models.Schedule) *models.Schedule {
	day = e.startOfDay(day)
	for i := range schedules {
		schedule := &schedules[i]
		if !schedule.HasDateRange() {
			continue
		}
		start, err := e.ParseDate(*schedule.StartDate)
		if err != nil {
			e.logger.Warn("skipping schedule with malformed start date", zap.String("schedule_id", schedule.ID), zap.Error(err))
			continue
		}
		end, err := e.ParseDate(*schedule.EndDate)
		if err != nil {
			e.logger.Warn("skipping schedule with malformed end date", zap.String("schedule_id", schedule.ID), zap.Error(err))
			continue
		}
		if end.Before(start) {
			e.logger.Warn("skipping schedule with inverted date range", zap.String("schedule_id", schedule.ID))
			continue
		}
		if !day.Before(start) && !day.After(end) {
			return schedule
		}
	}
	return nil
}

// FirstPhysicalSession returns the earliest starting session of rule that is
// not held online. Sessions are ordered by their HH:mm start time as strings
// and ties keep their stored order. It returns nil when rule is nil or has no
// physical session.
func FirstPhysicalSession(rule *models.ScheduleRule) *models.ClassSession {
	if rule == nil {
		return nil
	}
	physical := make([]models.ClassSession, 0, len(rule.Classes))
	for _, session := range rule.Classes {
		if !session.IsOnline {
			physical = append(physical, session)
		}
	}
	if len(physical) == 0 {
		return nil
	}
	sort.SliceStable(physical, func(i, j int) bool {
		return physical[i].StartTime < physical[j].StartTime
	})
	return &physical[0]
}

// requiredSession resolves the schedule for day and returns the session that
// defines the required arrival time.
func (e *Engine) requiredSession(day time.Time, schedules []models.Schedule) (*models.Schedule, *models.ClassSession) {
	schedule := e.resolve(day, schedules)
	if schedule == nil {
		return nil, nil
	}
	return schedule, FirstPhysicalSession(schedule.Rule(day.Weekday()))
}

// RequiredArrival returns the HH:mm start of the first physical session on
// date, or an empty string when the day requires no attendance.
func (e *Engine) RequiredArrival(date string, schedules []models.Schedule) string {
	day, err := e.ParseDate(date)
	if err != nil {
		return ""
	}
	_, session := e.requiredSession(day, schedules)
	if session == nil {
		return ""
	}
	return session.StartTime
}
