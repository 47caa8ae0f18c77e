package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/dto"
	"github.com/noah-isme/classdy-api/internal/engine"
	"github.com/noah-isme/classdy-api/internal/models"
	appErrors "github.com/noah-isme/classdy-api/pkg/errors"
)

const defaultAttendancePageSize = 31

type attendanceLogRepository interface {
	Get(ctx context.Context, date string) (*models.AttendanceLog, error)
	Upsert(ctx context.Context, log *models.AttendanceLog) error
	Delete(ctx context.Context, date string) error
}

// AttendanceService records attendance logs and derives their statuses.
type AttendanceService struct {
	repo      attendanceLogRepository
	state     *StateLoader
	engine    *engine.Engine
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(
	repo attendanceLogRepository,
	state *StateLoader,
	eng *engine.Engine,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	now func() time.Time,
) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{
		repo:      repo,
		state:     state,
		engine:    eng,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    nopLogger(logger),
		now:       systemNow(now),
	}
}

// List returns annotated logs, newest first, filtered by date range and
// derived status.
func (s *AttendanceService) List(ctx context.Context, query dto.AttendanceListQuery) ([]models.AnnotatedLog, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, validationError(err, "invalid attendance query")
	}
	if query.Status != "" && !query.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status")
	}

	state, err := s.state.Load(ctx, models.AttendanceLogFilter{DateFrom: query.From, DateTo: query.To})
	if err != nil {
		return nil, nil, err
	}
	annotated := s.engine.Annotate(state.Logs, state.Schedules, state.Settings.GracePeriod, state.Holidays, s.now())
	if query.Status != "" {
		filtered := annotated[:0]
		for _, log := range annotated {
			if log.Status == query.Status {
				filtered = append(filtered, log)
			}
		}
		annotated = filtered
	}

	page, size := query.Page, query.PageSize
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultAttendancePageSize
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(annotated)}
	start := (page - 1) * size
	if start >= len(annotated) {
		return []models.AnnotatedLog{}, pagination, nil
	}
	end := start + size
	if end > len(annotated) {
		end = len(annotated)
	}
	return annotated[start:end], pagination, nil
}

// Get returns the annotated log stored for date.
func (s *AttendanceService) Get(ctx context.Context, date string) (*models.AnnotatedLog, error) {
	if _, err := s.engine.ParseDate(date); err != nil {
		return nil, validationError(err, "date must be YYYY-MM-DD")
	}
	log, err := s.repo.Get(ctx, date)
	if err != nil {
		return nil, repositoryError(err, "attendance log not found", "failed to load attendance log")
	}
	return s.annotate(ctx, *log)
}

// Upsert stores the log of a date, replacing any existing one.
func (s *AttendanceService) Upsert(ctx context.Context, req dto.AttendanceLogRequest) (*models.AnnotatedLog, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid attendance payload")
	}
	log := models.AttendanceLog{
		ID:            req.Date,
		Date:          req.Date,
		ArrivalTime:   emptyToNil(req.ArrivalTime),
		DepartureTime: emptyToNil(req.DepartureTime),
		StatusTag:     req.StatusTag,
	}
	if err := s.repo.Upsert(ctx, &log); err != nil {
		return nil, internalError(err, "failed to save attendance log")
	}
	invalidateAnalytics(ctx, s.cache, s.logger)

	annotated, err := s.annotate(ctx, log)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordDerivedStatuses([]models.AnnotatedLog{*annotated})
	s.logger.Info("attendance logged", zap.String("date", log.Date), zap.String("status", string(annotated.Status)))
	return annotated, nil
}

// Delete removes the log of a date.
func (s *AttendanceService) Delete(ctx context.Context, date string) error {
	if err := s.repo.Delete(ctx, date); err != nil {
		return repositoryError(err, "attendance log not found", "failed to delete attendance log")
	}
	invalidateAnalytics(ctx, s.cache, s.logger)
	return nil
}

// Evaluate previews the status a log would get without storing it.
func (s *AttendanceService) Evaluate(ctx context.Context, query dto.EvaluateQuery) (*dto.EvaluateResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, validationError(err, "invalid evaluation query")
	}
	state, err := s.state.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	var arrival *string
	if query.Arrival != "" {
		arrival = &query.Arrival
	}
	log := models.AttendanceLog{ID: query.Date, Date: query.Date, ArrivalTime: arrival, StatusTag: query.Tag}
	annotated := s.engine.AnnotateLog(log, state.Schedules, state.Settings.GracePeriod, state.Holidays, s.now())
	return &dto.EvaluateResponse{
		Date:            query.Date,
		Status:          annotated.Status,
		StatusLabel:     annotated.Status.Label(),
		LatenessMinutes: annotated.LatenessMinutes,
		RequiredArrival: s.engine.RequiredArrival(query.Date, state.Schedules),
	}, nil
}

func (s *AttendanceService) annotate(ctx context.Context, log models.AttendanceLog) (*models.AnnotatedLog, error) {
	state, err := s.state.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	annotated := s.engine.AnnotateLog(log, state.Schedules, state.Settings.GracePeriod, state.Holidays, s.now())
	return &annotated, nil
}
