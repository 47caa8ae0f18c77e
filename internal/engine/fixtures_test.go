package engine

import (
	"time"

	"github.com/noah-isme/classdy-api/internal/models"
)

func strPtr(v string) *string { return &v }

func newTestEngine() *Engine {
	return New(time.UTC, nil)
}

func at(date, clock string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func session(id, start string, online bool) models.ClassSession {
	return models.ClassSession{ID: id, Subject: "Math", StartTime: start, EndTime: "23:00", IsOnline: online}
}

// semester covers the first half of 2024 with a 09:00 physical class on
// weekdays, an earlier online class on Mondays, an online-only Saturday and no
// Sunday rule.
func semester() models.Schedule {
	rules := models.ScheduleRules{
		{DayOfWeek: 1, Classes: []models.ClassSession{session("mon-2", "10:30", false), session("mon-1", "09:00", false), session("mon-0", "08:00", true)}},
	}
	for day := 2; day <= 5; day++ {
		rules = append(rules, models.ScheduleRule{DayOfWeek: day, Classes: []models.ClassSession{session("wd", "09:00", false)}})
	}
	rules = append(rules, models.ScheduleRule{DayOfWeek: 6, Classes: []models.ClassSession{session("sat", "09:00", true)}})
	return models.Schedule{ID: "semester", Name: "Semester", StartDate: strPtr("2024-01-01"), EndDate: strPtr("2024-06-30"), Rules: rules}
}

func everyDay(id, start, end string) models.Schedule {
	rules := models.ScheduleRules{}
	for day := 0; day <= 6; day++ {
		rules = append(rules, models.ScheduleRule{DayOfWeek: day, Classes: []models.ClassSession{session(id, "09:00", false)}})
	}
	return models.Schedule{ID: id, Name: id, StartDate: strPtr(start), EndDate: strPtr(end), Rules: rules}
}

func annotated(date string, status models.AttendanceStatus, arrival string) models.AnnotatedLog {
	log := models.AttendanceLog{ID: date, Date: date}
	if arrival != "" {
		log.ArrivalTime = strPtr(arrival)
	}
	return models.AnnotatedLog{AttendanceLog: log, Status: status}
}
