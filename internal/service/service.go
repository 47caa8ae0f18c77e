package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/models"
	appErrors "github.com/noah-isme/classdy-api/pkg/errors"
)

// analyticsCachePattern matches every cached analytics payload.
const analyticsCachePattern = "analytics*"

type scheduleLister interface {
	List(ctx context.Context) ([]models.Schedule, error)
}

type holidayLister interface {
	List(ctx context.Context, year int) ([]models.Holiday, error)
}

type settingsLoader interface {
	Load(ctx context.Context, defaults models.Settings) (models.Settings, error)
}

type attendanceLogLister interface {
	List(ctx context.Context, filter models.AttendanceLogFilter) ([]models.AttendanceLog, error)
}

// TrackerState is the stored data status derivation runs against.
type TrackerState struct {
	Schedules []models.Schedule
	Holidays  []models.Holiday
	Settings  models.Settings
	Logs      []models.AttendanceLog
}

// StateLoader reads schedules, holidays, settings and logs in one call.
type StateLoader struct {
	schedules scheduleLister
	holidays  holidayLister
	settings  settingsLoader
	logs      attendanceLogLister
	defaults  models.Settings
	metrics   *MetricsService
}

// NewStateLoader constructs a loader. defaults apply to settings that were
// never saved.
func NewStateLoader(schedules scheduleLister, holidays holidayLister, settings settingsLoader, logs attendanceLogLister, defaults models.Settings, metrics *MetricsService) *StateLoader {
	return &StateLoader{
		schedules: schedules,
		holidays:  holidays,
		settings:  settings,
		logs:      logs,
		defaults:  defaults,
		metrics:   metrics,
	}
}

// Load returns the current state with logs restricted to filter.
func (l *StateLoader) Load(ctx context.Context, filter models.AttendanceLogFilter) (*TrackerState, error) {
	start := time.Now()
	defer func() { l.metrics.ObserveDBQuery("tracker_state", time.Since(start)) }()

	state, err := l.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := l.logs.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to load attendance logs")
	}
	state.Logs = logs
	return state, nil
}

// LoadConfig returns schedules, holidays and settings without logs.
func (l *StateLoader) LoadConfig(ctx context.Context) (*TrackerState, error) {
	schedules, err := l.schedules.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load schedules")
	}
	holidays, err := l.holidays.List(ctx, 0)
	if err != nil {
		return nil, internalError(err, "failed to load holidays")
	}
	settings, err := l.settings.Load(ctx, l.defaults)
	if err != nil {
		return nil, internalError(err, "failed to load settings")
	}
	return &TrackerState{Schedules: schedules, Holidays: holidays, Settings: settings}, nil
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

// repositoryError maps sql.ErrNoRows to a NOT_FOUND error carrying notFound.
func repositoryError(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return internalError(err, internal)
}

func invalidateAnalytics(ctx context.Context, cache *CacheService, logger *zap.Logger) {
	if err := cache.Invalidate(ctx, analyticsCachePattern); err != nil {
		logger.Warn("analytics cache invalidation failed", zap.Error(err))
	}
}

func nopLogger(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func systemNow(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
