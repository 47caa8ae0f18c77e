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

type holidayRepository interface {
	List(ctx context.Context, year int) ([]models.Holiday, error)
	Upsert(ctx context.Context, holiday models.Holiday) error
	Delete(ctx context.Context, date string) error
	ReplaceAll(ctx context.Context, holidays []models.Holiday) error
}

// HolidayService manages the holiday calendar.
type HolidayService struct {
	repo      holidayRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHolidayService constructs the holiday service.
func NewHolidayService(repo holidayRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *HolidayService {
	if validate == nil {
		validate = validator.New()
	}
	return &HolidayService{repo: repo, cache: cache, validator: validate, logger: nopLogger(logger)}
}

// List returns holidays, optionally limited to one year.
func (s *HolidayService) List(ctx context.Context, year int) ([]models.Holiday, error) {
	if year < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year must be positive")
	}
	holidays, err := s.repo.List(ctx, year)
	if err != nil {
		return nil, internalError(err, "failed to list holidays")
	}
	return holidays, nil
}

// Upsert stores the holiday on date.
func (s *HolidayService) Upsert(ctx context.Context, date string, req dto.HolidayRequest) (*models.Holiday, error) {
	entry := dto.HolidayEntry{Date: date, Name: req.Name}
	if err := s.validator.Struct(entry); err != nil {
		return nil, validationError(err, "invalid holiday payload")
	}
	holiday := models.Holiday{Date: entry.Date, Name: entry.Name}
	if err := s.repo.Upsert(ctx, holiday); err != nil {
		return nil, internalError(err, "failed to save holiday")
	}
	invalidateAnalytics(ctx, s.cache, s.logger)
	return &holiday, nil
}

// Delete removes the holiday on date.
func (s *HolidayService) Delete(ctx context.Context, date string) error {
	if err := s.repo.Delete(ctx, date); err != nil {
		return repositoryError(err, "holiday not found", "failed to delete holiday")
	}
	invalidateAnalytics(ctx, s.cache, s.logger)
	return nil
}

// ReplaceAll swaps the whole calendar. Dates must be unique.
func (s *HolidayService) ReplaceAll(ctx context.Context, req dto.HolidayReplaceRequest) ([]models.Holiday, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid holiday calendar")
	}
	holidays := make([]models.Holiday, 0, len(req.Holidays))
	seen := make(map[string]struct{}, len(req.Holidays))
	for _, entry := range req.Holidays {
		if _, dup := seen[entry.Date]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("holiday %s is listed twice", entry.Date))
		}
		seen[entry.Date] = struct{}{}
		holidays = append(holidays, models.Holiday{Date: entry.Date, Name: entry.Name})
	}
	if err := s.repo.ReplaceAll(ctx, holidays); err != nil {
		return nil, internalError(err, "failed to replace holidays")
	}
	invalidateAnalytics(ctx, s.cache, s.logger)
	return holidays, nil
}
