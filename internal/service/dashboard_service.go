package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/engine"
	"github.com/noah-isme/classdy-api/internal/models"
)

const recentLogCount = 5

// DashboardService assembles the home screen for the current day.
type DashboardService struct {
	state  *StateLoader
	engine *engine.Engine
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(state *StateLoader, eng *engine.Engine, logger *zap.Logger, now func() time.Time) *DashboardService {
	return &DashboardService{state: state, engine: eng, logger: nopLogger(logger), now: systemNow(now)}
}

// Today returns today's status, sessions, weekly overview, streak and most
// recent logs.
func (s *DashboardService) Today(ctx context.Context) (*models.DashboardToday, error) {
	state, err := s.state.Load(ctx, models.AttendanceLogFilter{})
	if err != nil {
		return nil, err
	}
	now := s.now()
	day := s.engine.Today(now)
	date := s.engine.FormatDate(day)
	grace := state.Settings.GracePeriod

	annotated := s.engine.Annotate(state.Logs, state.Schedules, grace, state.Holidays, now)
	sort.SliceStable(annotated, func(i, j int) bool { return annotated[i].Date > annotated[j].Date })

	today := models.AttendanceLog{ID: date, Date: date}
	var todayLog *models.AttendanceLog
	for i := range state.Logs {
		if state.Logs[i].Date == date {
			todayLog = &state.Logs[i]
			today = *todayLog
			break
		}
	}
	current := s.engine.AnnotateLog(today, state.Schedules, grace, state.Holidays, now)

	schedule := s.engine.ContextSchedule(date, state.Schedules)
	recent := annotated
	if len(recent) > recentLogCount {
		recent = recent[:recentLogCount]
	}

	return &models.DashboardToday{
		Date:            date,
		Status:          current.Status,
		StatusLabel:     current.Status.Label(),
		Log:             todayLog,
		LatenessMinutes: current.LatenessMinutes,
		RequiredArrival: s.engine.RequiredArrival(date, state.Schedules),
		Schedule:        schedule,
		Sessions:        todaySessions(schedule, day.Weekday()),
		WeeklyOverview:  s.engine.WeeklyOverview(annotated, state.Schedules, state.Holidays, now),
		Streak:          s.engine.OnTimeStreak(annotated, state.Schedules, state.Holidays, now),
		RecentLogs:      recent,
	}, nil
}

// todaySessions lists the weekday's sessions ordered by start time.
func todaySessions(schedule *models.Schedule, weekday time.Weekday) []models.DashboardSession {
	rule := schedule.Rule(weekday)
	if rule == nil {
		return []models.DashboardSession{}
	}
	sessions := make([]models.DashboardSession, 0, len(rule.Classes))
	for _, class := range rule.Classes {
		sessions = append(sessions, models.DashboardSession{ClassSession: class, PendingTasks: class.PendingTasks()})
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		a, errA := engine.TimeToMinutes(sessions[i].StartTime)
		b, errB := engine.TimeToMinutes(sessions[j].StartTime)
		if errA != nil || errB != nil {
			return errB != nil && errA == nil
		}
		return a < b
	})
	return sessions
}
