package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/classdy-api/internal/models"
)

func TestComputeStatusScenarioGraceBoundaries(t *testing.T) {
	e := newTestEngine()
	schedules := []models.Schedule{semester()}
	now := at("2024-03-13", "12:00")

	cases := []struct {
		arrival  string
		expected models.AttendanceStatus
	}{
		{"08:59", models.AttendanceStatusEarly},
		{"09:00", models.AttendanceStatusEarly},
		{"09:01", models.AttendanceStatusOnTime},
		{"09:05", models.AttendanceStatusOnTime},
		{"09:10", models.AttendanceStatusOnTime},
		{"09:11", models.AttendanceStatusLate},
	}
	for _, tc := range cases {
		got := e.ComputeStatus("2024-03-11", strPtr(tc.arrival), schedules, 10, nil, models.StatusTagNone, now)
		assert.Equal(t, tc.expected, got, tc.arrival)
	}

	lateness := e.CalculateLateness(models.AttendanceLog{Date: "2024-03-11", ArrivalTime: strPtr("09:11")}, schedules, 10)
	assert.Equal(t, 1, lateness)
}

func TestComputeStatusIsIdempotent(t *testing.T) {
	e := newTestEngine()
	schedules := []models.Schedule{semester()}
	now := at("2024-03-13", "12:00")

	first := e.ComputeStatus("2024-03-12", strPtr("09:07"), schedules, 5, nil, models.StatusTagNone, now)
	second := e.ComputeStatus("2024-03-12", strPtr("09:07"), schedules, 5, nil, models.StatusTagNone, now)
	assert.Equal(t, first, second)
	assert.Equal(t, models.AttendanceStatusLate, first)
}

func TestComputeStatusNoScheduleIsTerminal(t *testing.T) {
	e := newTestEngine()
	schedules := []models.Schedule{semester()}
	now := at("2024-08-01", "12:00")
	holidays := []models.Holiday{{Date: "2024-07-15", Name: "Break"}}

	inputs := []struct {
		arrival *string
		tag     models.StatusTag
	}{
		{nil, models.StatusTagNone},
		{strPtr("07:00"), models.StatusTagNone},
		{strPtr("11:00"), models.StatusTagAbsent},
		{nil, models.StatusTagHoliday},
	}
	for _, in := range inputs {
		got := e.ComputeStatus("2024-07-15", in.arrival, schedules, 10, holidays, in.tag, now)
		assert.Equal(t, models.AttendanceStatusNoSchedule, got)
	}
}

func TestComputeStatusHolidayPrecedesManualTag(t *testing.T) {
	e := newTestEngine()
	schedules := []models.Schedule{semester()}
	holidays := []models.Holiday{{Date: "2024-03-11", Name: "Founders Day"}}
	now := at("2024-03-13", "12:00")

	got := e.ComputeStatus("2024-03-11", strPtr("09:30"), schedules, 10, holidays, models.StatusTagAbsent, now)
	assert.Equal(t, models.AttendanceStatusHoliday, got)
}

func TestComputeStatusManualTags(t *testing.T) {
	e := newTestEngine()
	schedules := []models.Schedule{semester()}
	now := at("2024-03-13", "12:00")

	assert.Equal(t, models.AttendanceStatusAbsent,
		e.ComputeStatus("2024-03-11", strPtr("08:00"), schedules, 10, nil, models.StatusTagAbsent, now))
	assert.Equal(t, models.AttendanceStatusHoliday,
		e.ComputeStatus("2024-03-11", strPtr("08:00"), schedules, 10, nil, models.StatusTagHoliday, now))
	// Manual tags apply even on days without classes.
	assert.Equal(t, models.AttendanceStatusAbsent,
		e.ComputeStatus("2024-03-10", nil, schedules, 10, nil, models.StatusTagAbsent, now))
}

func TestComputeStatusDayOff(t *testing.T) {
	e := newTestEngine()
	schedules := []models.Schedule{semester()}
	now := at("2024-03-13", "12:00")

	// Saturday only holds an online session, Sunday has no rule.
	for _, date := range []string{"2024-03-09", "2024-03-10"} {
		got := e.ComputeStatus(date, strPtr("09:30"), schedules, 10, nil, models.StatusTagNone, now)
		assert.Equal(t, models.AttendanceStatusDayOff, got, date)
		assert.Zero(t, e.CalculateLateness(models.AttendanceLog{Date: date, ArrivalTime: strPtr("11:00")}, schedules, 10), date)
	}
}

func TestComputeStatusMissingArrival(t *testing.T) {
	e := newTestEngine()
	schedules := []models.Schedule{semester()}
	now := at("2024-03-13", "08:00")

	assert.Equal(t, models.AttendanceStatusAbsent,
		e.ComputeStatus("2024-03-12", nil, schedules, 10, nil, models.StatusTagNone, now))
	assert.Equal(t, models.AttendanceStatusNoEntry,
		e.ComputeStatus("2024-03-13", nil, schedules, 10, nil, models.StatusTagNone, now))
	assert.Equal(t, models.AttendanceStatusNoEntry,
		e.ComputeStatus("2024-03-14", strPtr(""), schedules, 10, nil, models.StatusTagNone, now))
}

func TestComputeStatusMalformedInputFallsBack(t *testing.T) {
	e := newTestEngine()
	schedules := []models.Schedule{semester()}
	now := at("2024-03-13", "12:00")

	assert.Equal(t, models.AttendanceStatusNoSchedule,
		e.ComputeStatus("2024-03-11", strPtr("late"), schedules, 10, nil, models.StatusTagNone, now))
	assert.Equal(t, models.AttendanceStatusNoSchedule,
		e.ComputeStatus("11/03/2024", strPtr("09:00"), schedules, 10, nil, models.StatusTagNone, now))

	broken := semester()
	broken.Rules[1].Classes[0].StartTime = "nine"
	assert.Equal(t, models.AttendanceStatusNoSchedule,
		e.ComputeStatus("2024-03-12", strPtr("09:00"), []models.Schedule{broken}, 10, nil, models.StatusTagNone, now))
}

func TestComputeStatusGraceMonotonicity(t *testing.T) {
	e := newTestEngine()
	schedules := []models.Schedule{semester()}
	now := at("2024-03-13", "12:00")
	rank := map[models.AttendanceStatus]int{
		models.AttendanceStatusEarly:  0,
		models.AttendanceStatusOnTime: 1,
		models.AttendanceStatusLate:   2,
	}

	for _, arrival := range []string{"08:30", "09:00", "09:04", "09:15", "09:45", "10:30"} {
		previous := rank[models.AttendanceStatusLate]
		for grace := 0; grace <= 90; grace += 5 {
			got := e.ComputeStatus("2024-03-11", strPtr(arrival), schedules, grace, nil, models.StatusTagNone, now)
			current, ok := rank[got]
			assert.True(t, ok, got)
			assert.LessOrEqual(t, current, previous, "arrival %s grace %d", arrival, grace)
			previous = current
		}
	}
}

func TestCalculateLateness(t *testing.T) {
	e := newTestEngine()
	schedules := []models.Schedule{semester()}

	assert.Equal(t, 20, e.CalculateLateness(models.AttendanceLog{Date: "2024-03-12", ArrivalTime: strPtr("09:30")}, schedules, 10))
	assert.Zero(t, e.CalculateLateness(models.AttendanceLog{Date: "2024-03-12", ArrivalTime: strPtr("09:05")}, schedules, 10))
	assert.Zero(t, e.CalculateLateness(models.AttendanceLog{Date: "2024-03-12"}, schedules, 10))
	assert.Zero(t, e.CalculateLateness(models.AttendanceLog{Date: "2024-08-12", ArrivalTime: strPtr("11:00")}, schedules, 10))
	assert.Zero(t, e.CalculateLateness(models.AttendanceLog{Date: "2024-03-12", ArrivalTime: strPtr("bad")}, schedules, 10))
	// Monday's online 08:00 session never defines the required time.
	assert.Equal(t, 5, e.CalculateLateness(models.AttendanceLog{Date: "2024-03-11", ArrivalTime: strPtr("09:05")}, schedules, 0))
}

func TestAnnotateReportsLatenessOnlyWhenLate(t *testing.T) {
	e := newTestEngine()
	schedules := []models.Schedule{semester()}
	now := at("2024-03-13", "12:00")
	logs := []models.AttendanceLog{
		{ID: "2024-03-12", Date: "2024-03-12", ArrivalTime: strPtr("09:25")},
		{ID: "2024-03-11", Date: "2024-03-11", ArrivalTime: strPtr("09:25"), StatusTag: models.StatusTagAbsent},
	}

	got := e.Annotate(logs, schedules, 10, nil, now)
	assert.Len(t, got, 2)
	assert.Equal(t, models.AttendanceStatusLate, got[0].Status)
	assert.Equal(t, 15, got[0].LatenessMinutes)
	assert.Equal(t, models.AttendanceStatusAbsent, got[1].Status)
	assert.Zero(t, got[1].LatenessMinutes)
}
