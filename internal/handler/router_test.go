package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/dto"
	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/internal/service"
	appErrors "github.com/noah-isme/classdy-api/pkg/errors"
)

type stubAuth struct{ enabled bool }

func (s stubAuth) Enabled() bool { return s.enabled }

func (s stubAuth) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.ErrUnauthorized
	}
	return &models.JWTClaims{Owner: "owner"}, nil
}

func (s stubAuth) IssueToken(req models.TokenRequest) (*models.TokenResponse, error) {
	return &models.TokenResponse{AccessToken: "good", TokenType: "Bearer"}, nil
}

type fakeScheduleSrv struct {
	calls    []string
	resolved *models.Schedule
}

func (f *fakeScheduleSrv) record(call string) { f.calls = append(f.calls, call) }

func (f *fakeScheduleSrv) List(context.Context) ([]models.Schedule, error) {
	f.record("list")
	return []models.Schedule{{ID: "sem-1", Name: "Semester"}}, nil
}

func (f *fakeScheduleSrv) Get(_ context.Context, id string) (*models.Schedule, error) {
	f.record("get:" + id)
	return &models.Schedule{ID: id}, nil
}

func (f *fakeScheduleSrv) Create(_ context.Context, req dto.ScheduleRequest) (*models.Schedule, error) {
	f.record("create")
	return &models.Schedule{ID: "new", Name: req.Name}, nil
}

func (f *fakeScheduleSrv) Update(_ context.Context, id string, _ dto.ScheduleRequest) (*models.Schedule, error) {
	f.record("update:" + id)
	return &models.Schedule{ID: id}, nil
}

func (f *fakeScheduleSrv) Delete(_ context.Context, id string) error {
	f.record("delete:" + id)
	return nil
}

func (f *fakeScheduleSrv) ReplaceAll(context.Context, []dto.ScheduleRequest) ([]models.Schedule, error) {
	f.record("replace")
	return nil, nil
}

func (f *fakeScheduleSrv) Resolve(_ context.Context, date string) (*models.Schedule, error) {
	f.record("resolve:" + date)
	return f.resolved, nil
}

func (f *fakeScheduleSrv) Active(context.Context) (*models.Schedule, error) {
	f.record("active")
	return &models.Schedule{ID: "sem-1"}, nil
}

func (f *fakeScheduleSrv) UpdateClassTasks(_ context.Context, scheduleID string, day int, sessionID string, _ dto.TaskUpdateRequest) (*models.Schedule, error) {
	f.record("tasks:" + scheduleID + ":" + sessionID)
	if day > 6 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day out of range")
	}
	return &models.Schedule{ID: scheduleID}, nil
}

type fakeAttendanceSrv struct {
	lastQuery dto.AttendanceListQuery
}

func (f *fakeAttendanceSrv) List(_ context.Context, query dto.AttendanceListQuery) ([]models.AnnotatedLog, *models.Pagination, error) {
	f.lastQuery = query
	logs := []models.AnnotatedLog{{
		AttendanceLog: models.AttendanceLog{ID: "2024-03-05", Date: "2024-03-05"},
		Status:        models.AttendanceStatusLate,
	}}
	return logs, &models.Pagination{Page: query.Page, PageSize: query.PageSize, TotalCount: 1}, nil
}

func (f *fakeAttendanceSrv) Get(_ context.Context, date string) (*models.AnnotatedLog, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no log for "+date)
}

func (f *fakeAttendanceSrv) Upsert(_ context.Context, req dto.AttendanceLogRequest) (*models.AnnotatedLog, error) {
	return &models.AnnotatedLog{AttendanceLog: models.AttendanceLog{ID: req.Date, Date: req.Date}}, nil
}

func (f *fakeAttendanceSrv) Delete(context.Context, string) error { return nil }

func (f *fakeAttendanceSrv) Evaluate(_ context.Context, query dto.EvaluateQuery) (*dto.EvaluateResponse, error) {
	return &dto.EvaluateResponse{Date: query.Date, Status: models.AttendanceStatusOnTime}, nil
}

type fakeAnalyticsSrv struct {
	hit bool
}

func (f *fakeAnalyticsSrv) Summary(_ context.Context, window models.AnalyticsWindow) (*models.AnalyticsSummary, bool, error) {
	if window.Period != models.AnalyticsPeriodAll {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "unexpected period")
	}
	return &models.AnalyticsSummary{}, f.hit, nil
}

func (f *fakeAnalyticsSrv) Heatmap(context.Context, models.AnalyticsWindow) (*models.AnalyticsHeatmap, bool, error) {
	return &models.AnalyticsHeatmap{}, false, nil
}

func (f *fakeAnalyticsSrv) Streak(context.Context) (*models.StreakSummary, bool, error) {
	return &models.StreakSummary{ReferenceDate: "2024-03-06", Streak: 2}, f.hit, nil
}

func (f *fakeAnalyticsSrv) SystemMetrics() models.AnalyticsSystemMetrics {
	return models.AnalyticsSystemMetrics{}
}

type routerFixture struct {
	router    *gin.Engine
	schedules *fakeScheduleSrv
	logs      *fakeAttendanceSrv
	metrics   *service.MetricsService
}

func newRouterFixture(authEnabled bool, checks map[string]ReadinessCheck) *routerFixture {
	gin.SetMode(gin.TestMode)
	auth := stubAuth{enabled: authEnabled}
	schedules := &fakeScheduleSrv{}
	logs := &fakeAttendanceSrv{}
	metrics := service.NewMetricsService()

	router := NewRouter(zap.NewNop(), RouterConfig{APIPrefix: "/api/v1/"}, Handlers{
		Auth:       NewAuthHandler(auth),
		Schedule:   NewScheduleHandler(schedules),
		Attendance: NewAttendanceHandler(logs),
		Analytics:  NewAnalyticsHandler(&fakeAnalyticsSrv{hit: true}),
		Dashboard:  NewDashboardHandler(&fakeDashboardSrv{resp: &models.DashboardToday{Date: "2024-03-06"}}),
		Report:     NewReportHandler(nil, nil),
		Metrics:    NewMetricsHandler(metrics.Handler(), checks),
	}, auth, metrics)

	return &routerFixture{router: router, schedules: schedules, logs: logs, metrics: metrics}
}

func (f *routerFixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouterRequiresBearerToken(t *testing.T) {
	f := newRouterFixture(true, nil)

	rec := f.do(http.MethodGet, "/api/v1/schedules", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/schedules", "", "bad")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, f.schedules.calls)

	rec = f.do(http.MethodGet, "/api/v1/schedules", "", "good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"list"}, f.schedules.calls)
}

func TestRouterPublicRoutes(t *testing.T) {
	f := newRouterFixture(true, nil)

	rec := f.do(http.MethodPost, "/api/v1/auth/token", `{"accessKey":"secret"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"accessToken":"good"`)

	rec = f.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// reports are disabled in the fixture, the download route still answers without a token
	rec = f.do(http.MethodGet, "/api/v1/export/abc", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "FEATURE_DISABLED")
}

func TestRouterStaticSegmentsWinOverIDs(t *testing.T) {
	f := newRouterFixture(false, nil)

	rec := f.do(http.MethodGet, "/api/v1/schedules/resolve?date=2024-03-06", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":null}`, rec.Body.String())

	f.do(http.MethodGet, "/api/v1/schedules/active", "", "")
	f.do(http.MethodGet, "/api/v1/schedules/sem-1", "", "")
	rec = f.do(http.MethodPut, "/api/v1/schedules/sem-1/days/2/sessions/math-2/tasks", `{"tasks":[]}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"resolve:2024-03-06", "active", "get:sem-1", "tasks:sem-1:math-2"}, f.schedules.calls)
}

func TestRouterTaskDayMustBeNumeric(t *testing.T) {
	f := newRouterFixture(false, nil)

	rec := f.do(http.MethodPut, "/api/v1/schedules/sem-1/days/mon/sessions/math-2/tasks", `{"tasks":[]}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.schedules.calls)
}

func TestRouterAttendancePagination(t *testing.T) {
	f := newRouterFixture(false, nil)

	rec := f.do(http.MethodGet, "/api/v1/attendance?from=2024-03-01&page=2&page_size=5", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-03-01", f.logs.lastQuery.From)

	body := decodeEnvelope(t, rec)
	assert.JSONEq(t, `{"page":2,"page_size":5,"total_count":1}`, string(body["pagination"]))

	rec = f.do(http.MethodGet, "/api/v1/attendance/2024-01-01", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no log for 2024-01-01")
}

func TestRouterAnalyticsMeta(t *testing.T) {
	f := newRouterFixture(false, nil)

	rec := f.do(http.MethodGet, "/api/v1/analytics/streak", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec)
	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(body["meta"], &meta))
	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
	assert.JSONEq(t, `{"referenceDate":"2024-03-06","streak":2}`, string(body["data"]))
}

func TestRouterReadiness(t *testing.T) {
	f := newRouterFixture(false, map[string]ReadinessCheck{
		"database": func(context.Context) error { return nil },
		"cache":    func(context.Context) error { return errors.New("connection refused") },
	})

	rec := f.do(http.MethodGet, "/ready", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"database":"ok","cache":"connection refused"}}`, rec.Body.String())
}

func TestRouterExposesRequestMetrics(t *testing.T) {
	f := newRouterFixture(false, nil)

	f.do(http.MethodGet, "/api/v1/dashboard", "", "")
	f.do(http.MethodGet, "/api/v1/nowhere", "", "")

	rec := f.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `path="/api/v1/dashboard"`)
	assert.Contains(t, rec.Body.String(), `path="unmatched"`)
}
