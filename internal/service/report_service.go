package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/dto"
	"github.com/noah-isme/classdy-api/internal/engine"
	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/internal/repository"
	appErrors "github.com/noah-isme/classdy-api/pkg/errors"
	"github.com/noah-isme/classdy-api/pkg/jobs"
	"github.com/noah-isme/classdy-api/pkg/storage"
)

const cleanupBatch = 100

type reportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
	ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error)
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type exportGenerator interface {
	Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error)
}

// ReportService orchestrates report job lifecycle management.
type ReportService struct {
	repo      reportJobStore
	queue     jobDispatcher
	exporter  *ExportService
	engine    *engine.Engine
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ReportServiceConfig
	now       func() time.Time
}

// ReportServiceConfig governs queue recovery and cleanup.
type ReportServiceConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ReportDownload aggregates resolved download data.
type ReportDownload struct {
	File        *os.File
	Filename    string
	ContentType string
	ExpiresAt   time.Time
}

// NewReportService constructs the report service.
func NewReportService(
	repo reportJobStore,
	queue jobDispatcher,
	exporter *ExportService,
	eng *engine.Engine,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ReportServiceConfig,
	now func() time.Time,
) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ReportService{
		repo:      repo,
		queue:     queue,
		exporter:  exporter,
		engine:    eng,
		metrics:   metrics,
		validator: validate,
		logger:    nopLogger(logger),
		cfg:       cfg,
		now:       systemNow(now),
	}
}

// CreateJob validates the request, persists the job and enqueues it. Today's
// date is pinned as the job's reference date.
func (s *ReportService) CreateJob(ctx context.Context, req dto.ReportRequest) (*dto.ReportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid report request")
	}
	window := dto.AnalyticsQuery{Period: req.Period, Start: req.Start, End: req.End}.Window()
	if err := validateWindow(window); err != nil {
		return nil, err
	}
	job := &models.ReportJob{
		Type: req.Type,
		Params: models.ReportJobParams{
			Window:        window,
			Format:        req.Format,
			ReferenceDate: s.engine.FormatDate(s.now()),
		},
		Status: models.ReportStatusQueued,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, internalError(err, "failed to create report job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type)}); err != nil {
		s.markFailed(ctx, job.ID, job.Type, "failed to enqueue job")
		return nil, internalError(err, "failed to enqueue report job")
	}
	s.logger.Info("report job queued", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
	return &dto.ReportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// GetStatus exposes job metadata to clients.
func (s *ReportService) GetStatus(ctx context.Context, id string) (*dto.ReportStatusResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repositoryError(err, "report job not found", "failed to load report job")
	}
	resp := &dto.ReportStatusResponse{
		ID:        job.ID,
		Type:      job.Type,
		Status:    job.Status,
		Progress:  job.Progress,
		ResultURL: job.ResultURL,
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		resp.Error = job.ErrorMessage
	}
	return resp, nil
}

// ResolveDownload validates token and opens the stored export file.
func (s *ReportService) ResolveDownload(ctx context.Context, token string) (*ReportDownload, error) {
	signed, err := s.exporter.ParseToken(token, false)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrGone, "download link expired")
		}
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid download token")
	}
	job, err := s.repo.GetByID(ctx, signed.JobID)
	if err != nil {
		return nil, repositoryError(err, "report job not found", "failed to load report job")
	}
	if job.ResultURL == nil || !strings.HasSuffix(*job.ResultURL, token) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	if job.Status != models.ReportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report not ready")
	}
	file, err := s.exporter.Open(signed.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrGone, "report file no longer available")
		}
		return nil, internalError(err, "failed to open export file")
	}
	return &ReportDownload{
		File:        file,
		Filename:    filepath.Base(signed.Path),
		ContentType: s.exporter.ContentType(job.Params.Format),
		ExpiresAt:   signed.ExpiresAt,
	}, nil
}

// HandleGiveUp marks a job FAILED once the queue stops retrying it.
func (s *ReportService) HandleGiveUp(ctx context.Context, job jobs.Job, cause error) {
	message := "report generation failed"
	if cause != nil {
		message = cause.Error()
	}
	s.markFailed(ctx, job.ID, models.ReportType(job.Type), message)
}

// RecoverPendingJobs replays queued jobs after a restart.
func (s *ReportService) RecoverPendingJobs(ctx context.Context) {
	pending, err := s.repo.ListQueued(ctx, 50)
	if err != nil {
		s.logger.Sugar().Warnw("failed to recover queued report jobs", "error", err)
		return
	}
	for _, job := range pending {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type)}); err != nil {
			s.logger.Sugar().Warnw("failed to requeue pending job", "job_id", job.ID, "error", err)
		}
	}
}

// StartCleanup boots a goroutine that purges expired exports periodically.
func (s *ReportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanupExpired(ctx)
			}
		}
	}()
}

// cleanupExpired deletes the files of jobs finished before the TTL, then
// sweeps any leftover files by age.
func (s *ReportService) cleanupExpired(ctx context.Context) {
	cutoff := s.now().Add(-s.cfg.ResultTTL)
	finished, err := s.repo.ListFinishedBefore(ctx, cutoff, cleanupBatch)
	if err != nil {
		s.logger.Sugar().Warnw("cleanup list failed", "error", err)
	}
	for _, job := range finished {
		if job.ResultURL == nil {
			continue
		}
		signed, err := s.exporter.ParseToken(extractToken(*job.ResultURL), true)
		if err != nil {
			continue
		}
		if err := s.exporter.Delete(signed.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Sugar().Warnw("cleanup delete failed", "job_id", job.ID, "error", err)
		}
	}
	if _, err := s.exporter.Cleanup(s.cfg.ResultTTL); err != nil {
		s.logger.Sugar().Warnw("filesystem cleanup failed", "error", err)
	}
}

func (s *ReportService) markFailed(ctx context.Context, id string, reportType models.ReportType, message string) {
	failed := models.ReportStatusFailed
	progress := 100
	now := s.now().UTC()
	if err := s.repo.Update(ctx, id, repository.UpdateReportJobParams{
		Status:       &failed,
		Progress:     &progress,
		ErrorMessage: &message,
		FinishedAt:   &now,
	}); err != nil {
		s.logger.Sugar().Warnw("failed to mark job failed", "job_id", id, "error", err)
	}
	s.metrics.RecordReportJob(reportType, failed)
}

func extractToken(url string) string {
	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}

// ReportWorker bridges queue jobs to ExportService. Failed attempts go back
// to QUEUED; the queue's give-up hook records the final failure.
type ReportWorker struct {
	repo     reportJobStore
	exporter exportGenerator
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportWorker constructs a worker.
func NewReportWorker(repo reportJobStore, exporter exportGenerator, metrics *MetricsService, logger *zap.Logger, now func() time.Time) *ReportWorker {
	return &ReportWorker{
		repo:     repo,
		exporter: exporter,
		metrics:  metrics,
		logger:   nopLogger(logger),
		now:      systemNow(now),
	}
}

// Handle processes a queue job.
func (w *ReportWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}
	processing := models.ReportStatusProcessing
	progress := 10
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:   &processing,
		Progress: &progress,
	}); err != nil {
		return err
	}

	result, err := w.exporter.Generate(ctx, record)
	if err != nil {
		msg := err.Error()
		queued := models.ReportStatusQueued
		reset := 0
		if updateErr := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
			Status:       &queued,
			Progress:     &reset,
			ErrorMessage: &msg,
		}); updateErr != nil {
			w.logger.Sugar().Warnw("failed to mark job queued", "job_id", job.ID, "error", updateErr)
		}
		return err
	}

	finished := models.ReportStatusFinished
	progress = 100
	now := w.now().UTC()
	url := result.URL
	clear := ""
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:       &finished,
		Progress:     &progress,
		ResultURL:    &url,
		ErrorMessage: &clear,
		FinishedAt:   &now,
	}); err != nil {
		w.logger.Sugar().Warnw("failed to mark job finished", "job_id", job.ID, "error", err)
		return err
	}
	w.metrics.RecordReportJob(record.Type, finished)
	w.logger.Info("report job finished", zap.String("job_id", job.ID), zap.String("path", result.RelativePath))
	return nil
}
