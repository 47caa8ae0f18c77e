package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/dto"
	"github.com/noah-isme/classdy-api/internal/models"
	appErrors "github.com/noah-isme/classdy-api/pkg/errors"
)

func weekLogs() []models.AttendanceLog {
	return []models.AttendanceLog{
		logAt("2024-03-01", ""),
		logAt("2024-03-02", "08:00"),
		logAt("2024-03-04", "08:55"),
		logAt("2024-03-05", "09:20"),
		logAt("2024-03-06", "09:05"),
	}
}

func newAttendanceServiceFixture(logs ...models.AttendanceLog) (*AttendanceService, *fixture) {
	f := newFixture(logs...)
	svc := NewAttendanceService(f.logs, f.state, f.engine, f.cache, f.metrics, nil, zap.NewNop(), clockAt(fixedNow))
	return svc, f
}

func TestAttendanceServiceListAnnotates(t *testing.T) {
	svc, _ := newAttendanceServiceFixture(weekLogs()...)

	logs, pagination, err := svc.List(context.Background(), dto.AttendanceListQuery{})
	require.NoError(t, err)
	require.Len(t, logs, 5)
	assert.Equal(t, 5, pagination.TotalCount)

	statuses := map[string]models.AttendanceStatus{}
	for _, log := range logs {
		statuses[log.Date] = log.Status
	}
	assert.Equal(t, models.AttendanceStatusAbsent, statuses["2024-03-01"])
	assert.Equal(t, models.AttendanceStatusDayOff, statuses["2024-03-02"])
	assert.Equal(t, models.AttendanceStatusEarly, statuses["2024-03-04"])
	assert.Equal(t, models.AttendanceStatusLate, statuses["2024-03-05"])
	assert.Equal(t, models.AttendanceStatusOnTime, statuses["2024-03-06"])
	assert.Equal(t, "2024-03-06", logs[0].Date)
}

func TestAttendanceServiceListFiltersAndPaginates(t *testing.T) {
	svc, _ := newAttendanceServiceFixture(weekLogs()...)
	ctx := context.Background()

	late, _, err := svc.List(ctx, dto.AttendanceListQuery{Status: models.AttendanceStatusLate})
	require.NoError(t, err)
	require.Len(t, late, 1)
	assert.Equal(t, 10, late[0].LatenessMinutes)

	page, pagination, err := svc.List(ctx, dto.AttendanceListQuery{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "2024-03-04", page[0].Date)
	assert.Equal(t, 2, pagination.Page)

	beyond, _, err := svc.List(ctx, dto.AttendanceListQuery{Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond)

	ranged, _, err := svc.List(ctx, dto.AttendanceListQuery{From: "2024-03-04", To: "2024-03-05"})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	_, _, err = svc.List(ctx, dto.AttendanceListQuery{Status: "SOMETIMES"})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestAttendanceServiceListStoreFailure(t *testing.T) {
	svc, f := newAttendanceServiceFixture()
	f.logs.err = errStoreDown

	_, _, err := svc.List(context.Background(), dto.AttendanceListQuery{})
	assertErrorCode(t, err, appErrors.ErrInternal.Code)
}

func TestAttendanceServiceUpsert(t *testing.T) {
	svc, f := newAttendanceServiceFixture()
	f.cacheRepo.entries["analytics:streak"] = []byte(`{}`)

	annotated, err := svc.Upsert(context.Background(), dto.AttendanceLogRequest{Date: "2024-03-05", ArrivalTime: strPtr("09:25")})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusLate, annotated.Status)
	assert.Equal(t, 15, annotated.LatenessMinutes)
	assert.Equal(t, "2024-03-05", annotated.ID)

	stored, ok := f.logs.logs["2024-03-05"]
	require.True(t, ok)
	assert.Equal(t, "09:25", stored.Arrival())
	assert.Empty(t, f.cacheRepo.entries)
	assert.Equal(t, 1, f.metrics.Snapshot().DerivedStatuses[models.AttendanceStatusLate])
}

func TestAttendanceServiceUpsertTagOverridesArrival(t *testing.T) {
	svc, _ := newAttendanceServiceFixture()

	annotated, err := svc.Upsert(context.Background(), dto.AttendanceLogRequest{
		Date:        "2024-03-05",
		ArrivalTime: strPtr("09:45"),
		StatusTag:   models.StatusTagAbsent,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusAbsent, annotated.Status)
	assert.Zero(t, annotated.LatenessMinutes)
}

func TestAttendanceServiceUpsertValidation(t *testing.T) {
	svc, f := newAttendanceServiceFixture()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, dto.AttendanceLogRequest{Date: "2024-3-5"})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
	_, err = svc.Upsert(ctx, dto.AttendanceLogRequest{Date: "2024-03-05", ArrivalTime: strPtr("25:00")})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
	_, err = svc.Upsert(ctx, dto.AttendanceLogRequest{Date: "2024-03-05", StatusTag: "Sick"})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
	assert.Empty(t, f.logs.logs)
}

func TestAttendanceServiceGetAndDelete(t *testing.T) {
	svc, f := newAttendanceServiceFixture(weekLogs()...)
	ctx := context.Background()

	log, err := svc.Get(ctx, "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusEarly, log.Status)

	_, err = svc.Get(ctx, "2024-02-29")
	assertErrorCode(t, err, appErrors.ErrNotFound.Code)
	_, err = svc.Get(ctx, "yesterday")
	assertErrorCode(t, err, appErrors.ErrValidation.Code)

	require.NoError(t, svc.Delete(ctx, "2024-03-04"))
	assert.NotContains(t, f.logs.logs, "2024-03-04")
	assertErrorCode(t, svc.Delete(ctx, "2024-03-04"), appErrors.ErrNotFound.Code)
}

func TestAttendanceServiceEvaluate(t *testing.T) {
	svc, f := newAttendanceServiceFixture()
	ctx := context.Background()

	preview, err := svc.Evaluate(ctx, dto.EvaluateQuery{Date: "2024-03-05", Arrival: "09:11"})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusLate, preview.Status)
	assert.Equal(t, "Late", preview.StatusLabel)
	assert.Equal(t, 1, preview.LatenessMinutes)
	assert.Equal(t, "09:00", preview.RequiredArrival)

	future, err := svc.Evaluate(ctx, dto.EvaluateQuery{Date: "2024-03-08"})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusNoEntry, future.Status)

	f.holidays.holidays = []models.Holiday{{Date: "2024-03-05", Name: "Founders Day"}}
	holiday, err := svc.Evaluate(ctx, dto.EvaluateQuery{Date: "2024-03-05", Arrival: "09:30"})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusHoliday, holiday.Status)

	outside, err := svc.Evaluate(ctx, dto.EvaluateQuery{Date: "2024-08-05", Arrival: "09:30"})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusNoSchedule, outside.Status)
	assert.Empty(t, outside.RequiredArrival)

	assert.Empty(t, f.logs.logs)
}
