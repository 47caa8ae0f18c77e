package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/classdy-api/internal/models"
)

func TestAnalyticsQueryWindowDefaultsToAll(t *testing.T) {
	assert.Equal(t, models.AnalyticsPeriodAll, AnalyticsQuery{}.Window().Period)
	window := AnalyticsQuery{Period: models.AnalyticsPeriodCustom, Start: "2024-01-01", End: "2024-01-31"}.Window()
	assert.Equal(t, "2024-01-31", window.End)
}

func TestRequestValidationTags(t *testing.T) {
	validate := validator.New()

	bad := "7:5pm"
	assert.Error(t, validate.Struct(AttendanceLogRequest{Date: "2024-03-05", ArrivalTime: &bad}))
	good := "09:05"
	assert.NoError(t, validate.Struct(AttendanceLogRequest{Date: "2024-03-05", ArrivalTime: &good}))
	assert.Error(t, validate.Struct(AttendanceLogRequest{Date: "2024-03-05", StatusTag: "Sick"}))

	zero := 0
	tooLong := 241
	assert.NoError(t, validate.Struct(SettingsUpdateRequest{GracePeriod: &zero}))
	assert.Error(t, validate.Struct(SettingsUpdateRequest{GracePeriod: &tooLong}))
	color := "blue"
	assert.Error(t, validate.Struct(SettingsUpdateRequest{AccentColor: &color}))

	assert.Error(t, validate.Struct(ScheduleRequest{Name: "x", Rules: []ScheduleRuleRequest{{DayOfWeek: 7}}}))
}

func TestClockFieldsRequireZeroPaddedHours(t *testing.T) {
	validate := validator.New()
	session := func(start string) ScheduleRequest {
		return ScheduleRequest{Name: "Semester", Rules: []ScheduleRuleRequest{{
			DayOfWeek: 1,
			Classes: []ClassSessionRequest{
				{Subject: "Physics", StartTime: "10:00", EndTime: "11:00"},
				{Subject: "Math", StartTime: start, EndTime: "10:00"},
			},
		}}}
	}
	assert.Error(t, validate.Struct(session("9:30")))
	assert.NoError(t, validate.Struct(session("09:30")))

	unpadded := "9:45"
	assert.Error(t, validate.Struct(AttendanceLogRequest{Date: "2024-03-11", ArrivalTime: &unpadded}))
	assert.Error(t, validate.Struct(AttendanceLogRequest{Date: "2024-03-11", DepartureTime: &unpadded}))
	assert.Error(t, validate.Struct(EvaluateQuery{Date: "2024-03-11", Arrival: unpadded}))
	assert.NoError(t, validate.Struct(EvaluateQuery{Date: "2024-03-11", Arrival: "09:45"}))
}
