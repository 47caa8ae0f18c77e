package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/engine"
	"github.com/noah-isme/classdy-api/internal/models"
	appErrors "github.com/noah-isme/classdy-api/pkg/errors"
)

// AnalyticsService computes punctuality projections over the stored logs.
// Results are cached per reference date and window.
type AnalyticsService struct {
	state   *StateLoader
	engine  *engine.Engine
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(state *StateLoader, eng *engine.Engine, cache *CacheService, metrics *MetricsService, logger *zap.Logger, now func() time.Time) *AnalyticsService {
	return &AnalyticsService{
		state:   state,
		engine:  eng,
		cache:   cache,
		metrics: metrics,
		logger:  nopLogger(logger),
		now:     systemNow(now),
	}
}

// Summary returns overview, breakdown and trends for window. The boolean
// reports whether the payload came from cache.
func (s *AnalyticsService) Summary(ctx context.Context, window models.AnalyticsWindow) (*models.AnalyticsSummary, bool, error) {
	if err := validateWindow(window); err != nil {
		return nil, false, err
	}
	now := s.now()
	reference := s.engine.FormatDate(now)
	key := cacheKey("summary", reference, string(window.Period), window.Start, window.End)
	return remember(ctx, s.cache, key, func() (*models.AnalyticsSummary, error) {
		state, annotated, err := s.annotatedState(ctx, now)
		if err != nil {
			return nil, err
		}
		grace := state.Settings.GracePeriod
		logs := s.engine.FilterLogs(annotated, window, now)
		return &models.AnalyticsSummary{
			Window:        window,
			ReferenceDate: reference,
			Overview:      engine.Overview(logs),
			Breakdown:     engine.StatusBreakdown(logs),
			LatenessTrend: s.engine.LatenessTrend(logs, state.Schedules, grace),
			ArrivalTrend:  s.engine.ArrivalTrend(logs, state.Schedules, grace, window.Period),
		}, nil
	})
}

// Heatmap returns month grids covering window.
func (s *AnalyticsService) Heatmap(ctx context.Context, window models.AnalyticsWindow) (*models.AnalyticsHeatmap, bool, error) {
	if err := validateWindow(window); err != nil {
		return nil, false, err
	}
	now := s.now()
	reference := s.engine.FormatDate(now)
	key := cacheKey("heatmap", reference, string(window.Period), window.Start, window.End)
	return remember(ctx, s.cache, key, func() (*models.AnalyticsHeatmap, error) {
		state, annotated, err := s.annotatedState(ctx, now)
		if err != nil {
			return nil, err
		}
		months := s.engine.Heatmap(window, annotated, state.Schedules, state.Settings.GracePeriod, state.Holidays, now)
		return &models.AnalyticsHeatmap{Window: window, ReferenceDate: reference, Months: months}, nil
	})
}

// Streak returns the current on-time streak.
func (s *AnalyticsService) Streak(ctx context.Context) (*models.StreakSummary, bool, error) {
	now := s.now()
	reference := s.engine.FormatDate(now)
	return remember(ctx, s.cache, cacheKey("streak", reference), func() (*models.StreakSummary, error) {
		state, annotated, err := s.annotatedState(ctx, now)
		if err != nil {
			return nil, err
		}
		streak := s.engine.OnTimeStreak(annotated, state.Schedules, state.Holidays, now)
		return &models.StreakSummary{ReferenceDate: reference, Streak: streak}, nil
	})
}

// SystemMetrics returns the instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.AnalyticsSystemMetrics {
	return s.metrics.Snapshot()
}

func (s *AnalyticsService) annotatedState(ctx context.Context, now time.Time) (*TrackerState, []models.AnnotatedLog, error) {
	state, err := s.state.Load(ctx, models.AttendanceLogFilter{})
	if err != nil {
		return nil, nil, err
	}
	annotated := s.engine.Annotate(state.Logs, state.Schedules, state.Settings.GracePeriod, state.Holidays, now)
	return state, annotated, nil
}

// validateWindow rejects unknown periods and incomplete custom ranges.
func validateWindow(window models.AnalyticsWindow) error {
	if !window.Period.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "period must be one of all, week, month, custom")
	}
	if window.Period != models.AnalyticsPeriodCustom {
		return nil
	}
	if window.Start == "" || window.End == "" {
		return appErrors.Clone(appErrors.ErrValidation, "custom period requires start and end")
	}
	if window.Start > window.End {
		return appErrors.Clone(appErrors.ErrValidation, "start must not be after end")
	}
	return nil
}
