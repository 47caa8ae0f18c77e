package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/dto"
	"github.com/noah-isme/classdy-api/internal/engine"
	"github.com/noah-isme/classdy-api/internal/models"
	appErrors "github.com/noah-isme/classdy-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context) ([]models.Schedule, error)
	GetByID(ctx context.Context, id string) (*models.Schedule, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, schedules []models.Schedule) error
}

type subjectRegistry interface {
	Load(ctx context.Context) (models.SubjectMeta, error)
}

type latestLogFinder interface {
	LatestDate(ctx context.Context) (string, error)
}

// ScheduleService manages stored schedules and answers resolution queries.
type ScheduleService struct {
	repo      scheduleRepository
	subjects  subjectRegistry
	logs      latestLogFinder
	engine    *engine.Engine
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(
	repo scheduleRepository,
	subjects subjectRegistry,
	logs latestLogFinder,
	eng *engine.Engine,
	cache *CacheService,
	validate *validator.Validate,
	logger *zap.Logger,
	now func() time.Time,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	return &ScheduleService{
		repo:      repo,
		subjects:  subjects,
		logs:      logs,
		engine:    eng,
		cache:     cache,
		validator: validate,
		logger:    nopLogger(logger),
		now:       systemNow(now),
	}
}

// List returns every schedule in resolution order.
func (s *ScheduleService) List(ctx context.Context) ([]models.Schedule, error) {
	schedules, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list schedules")
	}
	return schedules, nil
}

// Get returns one schedule.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.Schedule, error) {
	schedule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repositoryError(err, "schedule not found", "failed to load schedule")
	}
	return schedule, nil
}

// Create validates and appends a schedule.
func (s *ScheduleService) Create(ctx context.Context, req dto.ScheduleRequest) (*models.Schedule, error) {
	meta, err := s.registry(ctx)
	if err != nil {
		return nil, err
	}
	schedule, err := s.build(req, meta)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &schedule); err != nil {
		return nil, internalError(err, "failed to create schedule")
	}
	s.logger.Info("schedule created", zap.String("schedule_id", schedule.ID))
	invalidateAnalytics(ctx, s.cache, s.logger)
	return &schedule, nil
}

// Update replaces name, range and rules of an existing schedule.
func (s *ScheduleService) Update(ctx context.Context, id string, req dto.ScheduleRequest) (*models.Schedule, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repositoryError(err, "schedule not found", "failed to load schedule")
	}
	meta, err := s.registry(ctx)
	if err != nil {
		return nil, err
	}
	req.ID = existing.ID
	schedule, err := s.build(req, meta)
	if err != nil {
		return nil, err
	}
	schedule.Position = existing.Position
	schedule.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, &schedule); err != nil {
		return nil, repositoryError(err, "schedule not found", "failed to update schedule")
	}
	invalidateAnalytics(ctx, s.cache, s.logger)
	return &schedule, nil
}

// Delete removes a schedule.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repositoryError(err, "schedule not found", "failed to delete schedule")
	}
	invalidateAnalytics(ctx, s.cache, s.logger)
	return nil
}

// ReplaceAll validates every schedule, then swaps the stored set keeping the
// given order.
func (s *ScheduleService) ReplaceAll(ctx context.Context, reqs []dto.ScheduleRequest) ([]models.Schedule, error) {
	meta, err := s.registry(ctx)
	if err != nil {
		return nil, err
	}
	schedules := make([]models.Schedule, 0, len(reqs))
	seen := make(map[string]struct{}, len(reqs))
	for i, req := range reqs {
		schedule, err := s.build(req, meta)
		if err != nil {
			return nil, fmt.Errorf("schedule %d: %w", i, err)
		}
		if _, dup := seen[schedule.ID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate schedule id %s", schedule.ID))
		}
		seen[schedule.ID] = struct{}{}
		schedules = append(schedules, schedule)
	}
	if err := s.repo.ReplaceAll(ctx, schedules); err != nil {
		return nil, internalError(err, "failed to replace schedules")
	}
	invalidateAnalytics(ctx, s.cache, s.logger)
	return schedules, nil
}

// Resolve returns the first schedule whose date range contains date, or nil.
func (s *ScheduleService) Resolve(ctx context.Context, date string) (*models.Schedule, error) {
	if _, err := s.engine.ParseDate(date); err != nil {
		return nil, validationError(err, "date must be YYYY-MM-DD")
	}
	schedules, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.ResolveSchedule(date, schedules), nil
}

// Active returns the schedule to show as current context: the one covering
// the latest logged date (or today when nothing is logged), falling back to
// the first stored schedule.
func (s *ScheduleService) Active(ctx context.Context) (*models.Schedule, error) {
	schedules, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	reference, err := s.logs.LatestDate(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load latest attendance date")
	}
	if reference == "" {
		reference = s.engine.FormatDate(s.now())
	}
	return s.engine.ContextSchedule(reference, schedules), nil
}

// UpdateClassTasks replaces the tasks of one session of one weekday.
func (s *ScheduleService) UpdateClassTasks(ctx context.Context, scheduleID string, day int, sessionID string, req dto.TaskUpdateRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid task payload")
	}
	schedule, err := s.repo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, repositoryError(err, "schedule not found", "failed to load schedule")
	}
	session := findSession(schedule, day, sessionID)
	if session == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class session not found")
	}
	session.Tasks = buildTasks(req.Tasks)
	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, repositoryError(err, "schedule not found", "failed to update tasks")
	}
	return schedule, nil
}

func (s *ScheduleService) registry(ctx context.Context) (models.SubjectMeta, error) {
	if s.subjects == nil {
		return nil, nil
	}
	meta, err := s.subjects.Load(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load subject registry")
	}
	return meta, nil
}

// build validates req and converts it into a schedule with generated ids.
func (s *ScheduleService) build(req dto.ScheduleRequest, meta models.SubjectMeta) (models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Schedule{}, validationError(err, "invalid schedule payload")
	}
	if err := validateScheduleRange(req.StartDate, req.EndDate); err != nil {
		return models.Schedule{}, err
	}

	schedule := models.Schedule{
		ID:        req.ID,
		Name:      req.Name,
		StartDate: emptyToNil(req.StartDate),
		EndDate:   emptyToNil(req.EndDate),
		Rules:     make(models.ScheduleRules, 0, len(req.Rules)),
	}
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}

	days := make(map[int]struct{}, len(req.Rules))
	for _, rule := range req.Rules {
		if _, dup := days[rule.DayOfWeek]; dup {
			return models.Schedule{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("dayOfWeek %d is listed twice", rule.DayOfWeek))
		}
		days[rule.DayOfWeek] = struct{}{}

		classes := make([]models.ClassSession, 0, len(rule.Classes))
		for _, class := range rule.Classes {
			start, _ := engine.TimeToMinutes(class.StartTime)
			end, _ := engine.TimeToMinutes(class.EndTime)
			if start >= end {
				return models.Schedule{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("session %s must start before it ends", class.Subject))
			}
			if len(meta) > 0 && !meta.Has(class.Subject) {
				return models.Schedule{}, appErrors.Clone(appErrors.ErrUnknownSubject, fmt.Sprintf("subject %q is not registered", class.Subject))
			}
			id := class.ID
			if id == "" {
				id = uuid.NewString()
			}
			classes = append(classes, models.ClassSession{
				ID:        id,
				Subject:   class.Subject,
				StartTime: class.StartTime,
				EndTime:   class.EndTime,
				Tasks:     buildTasks(class.Tasks),
				IsOnline:  class.IsOnline,
			})
		}
		schedule.Rules = append(schedule.Rules, models.ScheduleRule{DayOfWeek: rule.DayOfWeek, Classes: classes})
	}
	return schedule, nil
}

func validateScheduleRange(start, end *string) error {
	start, end = emptyToNil(start), emptyToNil(end)
	if (start == nil) != (end == nil) {
		return appErrors.Clone(appErrors.ErrValidation, "startDate and endDate must be set together")
	}
	if start != nil && *start > *end {
		return appErrors.Clone(appErrors.ErrValidation, "startDate must not be after endDate")
	}
	return nil
}

func buildTasks(reqs []dto.TaskRequest) []models.Task {
	tasks := make([]models.Task, 0, len(reqs))
	for _, req := range reqs {
		id := req.ID
		if id == "" {
			id = uuid.NewString()
		}
		tasks = append(tasks, models.Task{ID: id, Text: req.Text, Completed: req.Completed})
	}
	return tasks
}

func findSession(schedule *models.Schedule, day int, sessionID string) *models.ClassSession {
	for i := range schedule.Rules {
		if schedule.Rules[i].DayOfWeek != day {
			continue
		}
		for j := range schedule.Rules[i].Classes {
			if schedule.Rules[i].Classes[j].ID == sessionID {
				return &schedule.Rules[i].Classes[j]
			}
		}
	}
	return nil
}

func emptyToNil(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}
