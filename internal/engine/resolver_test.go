package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classdy-api/internal/models"
)

func TestResolveScheduleInclusiveRange(t *testing.T) {
	e := newTestEngine()
	schedules := []models.Schedule{semester()}

	for _, date := range []string{"2024-01-01", "2024-03-11", "2024-06-30"} {
		got := e.ResolveSchedule(date, schedules)
		require.NotNil(t, got, date)
		assert.Equal(t, "semester", got.ID)
	}
	assert.Nil(t, e.ResolveSchedule("2023-12-31", schedules))
	assert.Nil(t, e.ResolveSchedule("2024-07-01", schedules))
	assert.Nil(t, e.ResolveSchedule("not-a-date", schedules))
}

func TestResolveScheduleFirstMatchWins(t *testing.T) {
	e := newTestEngine()
	a := everyDay("a", "2024-01-01", "2024-12-31")
	b := everyDay("b", "2024-03-01", "2024-03-31")

	assert.Equal(t, "a", e.ResolveSchedule("2024-03-11", []models.Schedule{a, b}).ID)
	assert.Equal(t, "b", e.ResolveSchedule("2024-03-11", []models.Schedule{b, a}).ID)
}

func TestResolveScheduleSkipsUnusableRanges(t *testing.T) {
	e := newTestEngine()
	undated := everyDay("undated", "", "")
	undated.StartDate, undated.EndDate = nil, nil
	halfDated := everyDay("half", "2024-01-01", "")
	halfDated.EndDate = nil
	malformed := everyDay("malformed", "2024-01-01", "2024-99-99")
	inverted := everyDay("inverted", "2024-12-31", "2024-01-01")
	valid := everyDay("valid", "2024-01-01", "2024-12-31")

	got := e.ResolveSchedule("2024-03-11", []models.Schedule{undated, halfDated, malformed, inverted, valid})
	require.NotNil(t, got)
	assert.Equal(t, "valid", got.ID)

	assert.Nil(t, e.ResolveSchedule("2024-03-11", []models.Schedule{undated, malformed}))
}

func TestContextScheduleFallsBackToFirst(t *testing.T) {
	e := newTestEngine()
	undated := everyDay("undated", "", "")
	undated.StartDate, undated.EndDate = nil, nil
	schedules := []models.Schedule{undated, semester()}

	assert.Equal(t, "semester", e.ContextSchedule("2024-03-11", schedules).ID)
	assert.Equal(t, "undated", e.ContextSchedule("2025-03-11", schedules).ID)
	assert.Nil(t, e.ContextSchedule("2025-03-11", nil))
}

func TestFirstPhysicalSession(t *testing.T) {
	assert.Nil(t, FirstPhysicalSession(nil))
	assert.Nil(t, FirstPhysicalSession(&models.ScheduleRule{DayOfWeek: 6, Classes: []models.ClassSession{session("x", "08:00", true)}}))

	rule := semester().Rules[0]
	got := FirstPhysicalSession(&rule)
	require.NotNil(t, got)
	assert.Equal(t, "mon-1", got.ID)
	assert.Equal(t, "mon-2", rule.Classes[0].ID, "rule order must not change")

	tie := models.ScheduleRule{Classes: []models.ClassSession{session("first", "09:00", false), session("second", "09:00", false)}}
	assert.Equal(t, "first", FirstPhysicalSession(&tie).ID)
}

func TestRequiredArrival(t *testing.T) {
	e := newTestEngine()
	schedules := []models.Schedule{semester()}

	assert.Equal(t, "09:00", e.RequiredArrival("2024-03-11", schedules))
	assert.Equal(t, "", e.RequiredArrival("2024-03-09", schedules))
	assert.Equal(t, "", e.RequiredArrival("2024-03-10", schedules))
}
