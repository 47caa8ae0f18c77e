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

type settingsRepository interface {
	Load(ctx context.Context, defaults models.Settings) (models.Settings, error)
	Save(ctx context.Context, settings models.Settings) error
}

type subjectMetaRepository interface {
	Load(ctx context.Context) (models.SubjectMeta, error)
	ReplaceAll(ctx context.Context, meta models.SubjectMeta) error
}

// SettingsService manages user preferences and the subject registry.
type SettingsService struct {
	repo      settingsRepository
	subjects  subjectMetaRepository
	defaults  models.Settings
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs the settings service.
func NewSettingsService(repo settingsRepository, subjects subjectMetaRepository, defaults models.Settings, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	return &SettingsService{
		repo:      repo,
		subjects:  subjects,
		defaults:  defaults,
		cache:     cache,
		validator: validate,
		logger:    nopLogger(logger),
	}
}

// Get returns the stored settings over defaults.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.repo.Load(ctx, s.defaults)
	if err != nil {
		return nil, internalError(err, "failed to load settings")
	}
	return &settings, nil
}

// Update applies the non-nil fields of req. A grace period change
// invalidates cached analytics.
func (s *SettingsService) Update(ctx context.Context, req dto.SettingsUpdateRequest) (*models.Settings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid settings payload")
	}
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	graceChanged := false
	if req.GracePeriod != nil && *req.GracePeriod != settings.GracePeriod {
		settings.GracePeriod = *req.GracePeriod
		graceChanged = true
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.AccentColor != nil {
		settings.AccentColor = *req.AccentColor
	}
	if req.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.AssistantName != nil {
		settings.AssistantName = *req.AssistantName
	}

	if err := s.repo.Save(ctx, *settings); err != nil {
		return nil, internalError(err, "failed to save settings")
	}
	if graceChanged {
		invalidateAnalytics(ctx, s.cache, s.logger)
	}
	return settings, nil
}

// SubjectMeta returns the subject registry.
func (s *SettingsService) SubjectMeta(ctx context.Context) (models.SubjectMeta, error) {
	meta, err := s.subjects.Load(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load subjects")
	}
	return meta, nil
}

// ReplaceSubjectMeta swaps the registry. Subject names must be non-empty.
func (s *SettingsService) ReplaceSubjectMeta(ctx context.Context, req map[string]dto.SubjectStyleRequest) (models.SubjectMeta, error) {
	meta := make(models.SubjectMeta, len(req))
	for subject, style := range req {
		if subject == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "subject name must not be empty")
		}
		if err := s.validator.Struct(style); err != nil {
			return nil, validationError(err, fmt.Sprintf("invalid style for subject %s", subject))
		}
		meta[subject] = models.SubjectStyle{Color: style.Color, Icon: style.Icon}
	}
	if err := s.subjects.ReplaceAll(ctx, meta); err != nil {
		return nil, internalError(err, "failed to save subjects")
	}
	return meta, nil
}
