package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/dto"
	"github.com/noah-isme/classdy-api/internal/models"
	appErrors "github.com/noah-isme/classdy-api/pkg/errors"
)

type backupRepository interface {
	Restore(ctx context.Context, backup *models.Backup) error
}

// BackupService exports and imports the whole tracker state.
type BackupService struct {
	repo      backupRepository
	state     *StateLoader
	subjects  subjectRegistry
	schedules *ScheduleService
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBackupService constructs the backup service. schedules supplies schedule
// validation for imports.
func NewBackupService(repo backupRepository, state *StateLoader, subjects subjectRegistry, schedules *ScheduleService, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *BackupService {
	if validate == nil {
		validate = validator.New()
	}
	return &BackupService{
		repo:      repo,
		state:     state,
		subjects:  subjects,
		schedules: schedules,
		cache:     cache,
		validator: validate,
		logger:    nopLogger(logger),
	}
}

// Export returns settings, schedules, logs and subject metadata.
func (s *BackupService) Export(ctx context.Context) (*models.Backup, error) {
	state, err := s.state.Load(ctx, models.AttendanceLogFilter{})
	if err != nil {
		return nil, err
	}
	meta, err := s.subjects.Load(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load subjects")
	}
	if meta == nil {
		meta = models.SubjectMeta{}
	}
	logs := state.Logs
	if logs == nil {
		logs = []models.AttendanceLog{}
	}
	schedules := state.Schedules
	if schedules == nil {
		schedules = []models.Schedule{}
	}
	return &models.Backup{Settings: state.Settings, Schedules: schedules, Logs: logs, SubjectMeta: meta}, nil
}

// Import validates the backup as a whole and then replaces the stored state
// with it. Nothing is written when any part is invalid.
func (s *BackupService) Import(ctx context.Context, backup *models.Backup) error {
	if backup == nil {
		return appErrors.Clone(appErrors.ErrValidation, "backup payload is required")
	}
	if backup.Settings.Theme == "" {
		backup.Settings.Theme = models.ThemeSystem
	}
	if backup.Settings.AccentColor == "" {
		backup.Settings.AccentColor = models.DefaultSettings(0).AccentColor
	}
	if err := s.validateSettings(backup.Settings); err != nil {
		return err
	}
	for subject, style := range backup.SubjectMeta {
		if subject == "" {
			return appErrors.Clone(appErrors.ErrValidation, "subject name must not be empty")
		}
		if err := s.validator.Struct(dto.SubjectStyleRequest{Color: style.Color, Icon: style.Icon}); err != nil {
			return validationError(err, fmt.Sprintf("invalid style for subject %s", subject))
		}
	}

	schedules := make([]models.Schedule, 0, len(backup.Schedules))
	seen := make(map[string]struct{}, len(backup.Schedules))
	for i, schedule := range backup.Schedules {
		built, err := s.schedules.build(scheduleRequest(schedule), backup.SubjectMeta)
		if err != nil {
			return fmt.Errorf("schedule %d: %w", i, err)
		}
		if _, dup := seen[built.ID]; dup {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate schedule id %s", built.ID))
		}
		seen[built.ID] = struct{}{}
		schedules = append(schedules, built)
	}

	logs := make([]models.AttendanceLog, 0, len(backup.Logs))
	dates := make(map[string]struct{}, len(backup.Logs))
	for _, log := range backup.Logs {
		req := dto.AttendanceLogRequest{Date: log.Date, ArrivalTime: log.ArrivalTime, DepartureTime: log.DepartureTime, StatusTag: log.StatusTag}
		if err := s.validator.Struct(req); err != nil {
			return validationError(err, fmt.Sprintf("invalid attendance log %s", log.Date))
		}
		if _, dup := dates[log.Date]; dup {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("attendance log %s is listed twice", log.Date))
		}
		dates[log.Date] = struct{}{}
		logs = append(logs, models.AttendanceLog{
			ID:            log.Date,
			Date:          log.Date,
			ArrivalTime:   emptyToNil(log.ArrivalTime),
			DepartureTime: emptyToNil(log.DepartureTime),
			StatusTag:     log.StatusTag,
		})
	}

	restored := &models.Backup{Settings: backup.Settings, Schedules: schedules, Logs: logs, SubjectMeta: backup.SubjectMeta}
	if err := s.repo.Restore(ctx, restored); err != nil {
		return internalError(err, "failed to restore backup")
	}
	invalidateAnalytics(ctx, s.cache, s.logger)
	s.logger.Info("backup restored",
		zap.Int("schedules", len(schedules)),
		zap.Int("logs", len(logs)),
		zap.Int("subjects", len(backup.SubjectMeta)))
	return nil
}

func (s *BackupService) validateSettings(settings models.Settings) error {
	grace := settings.GracePeriod
	theme := settings.Theme
	accent := settings.AccentColor
	name := settings.AssistantName
	req := dto.SettingsUpdateRequest{GracePeriod: &grace, Theme: &theme, AccentColor: &accent, AssistantName: &name}
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid settings in backup")
	}
	return nil
}

func scheduleRequest(schedule models.Schedule) dto.ScheduleRequest {
	req := dto.ScheduleRequest{
		ID:        schedule.ID,
		Name:      schedule.Name,
		StartDate: schedule.StartDate,
		EndDate:   schedule.EndDate,
		Rules:     make([]dto.ScheduleRuleRequest, 0, len(schedule.Rules)),
	}
	for _, rule := range schedule.Rules {
		classes := make([]dto.ClassSessionRequest, 0, len(rule.Classes))
		for _, class := range rule.Classes {
			tasks := make([]dto.TaskRequest, 0, len(class.Tasks))
			for _, task := range class.Tasks {
				tasks = append(tasks, dto.TaskRequest{ID: task.ID, Text: task.Text, Completed: task.Completed})
			}
			classes = append(classes, dto.ClassSessionRequest{
				ID:        class.ID,
				Subject:   class.Subject,
				StartTime: class.StartTime,
				EndTime:   class.EndTime,
				Tasks:     tasks,
				IsOnline:  class.IsOnline,
			})
		}
		req.Rules = append(req.Rules, dto.ScheduleRuleRequest{DayOfWeek: rule.DayOfWeek, Classes: classes})
	}
	return req
}
