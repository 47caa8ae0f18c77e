package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/noah-isme/classdy-api/api/swagger"
	"github.com/noah-isme/classdy-api/internal/engine"
	"github.com/noah-isme/classdy-api/internal/handler"
	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/internal/repository"
	"github.com/noah-isme/classdy-api/internal/service"
	"github.com/noah-isme/classdy-api/pkg/cache"
	"github.com/noah-isme/classdy-api/pkg/config"
	"github.com/noah-isme/classdy-api/pkg/database"
	"github.com/noah-isme/classdy-api/pkg/jobs"
	"github.com/noah-isme/classdy-api/pkg/logger"
	"github.com/noah-isme/classdy-api/pkg/storage"
)

// @title Classdy API
// @version 1.0.0
// @description Personal class schedule and attendance tracker
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		logr.Fatal("invalid timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, analytics run uncached", zap.Error(err))
		redisClient = nil
	}

	validate := validator.New()
	eng := engine.New(loc, logr.Named("engine"))
	metrics := service.NewMetricsService()

	scheduleRepo := repository.NewScheduleRepository(db)
	logRepo := repository.NewAttendanceLogRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	settingsRepo := repository.NewSettingsRepository(db, logr)
	subjectRepo := repository.NewSubjectMetaRepository(db)
	backupRepo := repository.NewBackupRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	defaults := models.DefaultSettings(cfg.Attendance.DefaultGracePeriod)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Analytics.CacheTTL, logr, cfg.Analytics.CacheEnabled && redisClient != nil)
	state := service.NewStateLoader(scheduleRepo, holidayRepo, settingsRepo, logRepo, defaults, metrics)

	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		Enabled:           cfg.Auth.Enabled,
		AccessKeyHash:     cfg.Auth.AccessKeyHash,
		Owner:             cfg.Auth.Owner,
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
	}, nil)
	scheduleSvc := service.NewScheduleService(scheduleRepo, subjectRepo, logRepo, eng, cacheSvc, validate, logr, nil)
	attendanceSvc := service.NewAttendanceService(logRepo, state, eng, cacheSvc, metrics, validate, logr, nil)
	holidaySvc := service.NewHolidayService(holidayRepo, cacheSvc, validate, logr)
	settingsSvc := service.NewSettingsService(settingsRepo, subjectRepo, defaults, cacheSvc, validate, logr)
	analyticsSvc := service.NewAnalyticsService(state, eng, cacheSvc, metrics, logr, nil)
	dashboardSvc := service.NewDashboardService(state, eng, logr, nil)
	backupSvc := service.NewBackupService(backupRepo, state, subjectRepo, scheduleSvc, cacheSvc, validate, logr)

	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Schedule:   handler.NewScheduleHandler(scheduleSvc),
		Attendance: handler.NewAttendanceHandler(attendanceSvc),
		Holiday:    handler.NewHolidayHandler(holidaySvc),
		Settings:   handler.NewSettingsHandler(settingsSvc),
		Analytics:  handler.NewAnalyticsHandler(analyticsSvc),
		Dashboard:  handler.NewDashboardHandler(dashboardSvc),
		Backup:     handler.NewBackupHandler(backupSvc),
		Report:     handler.NewReportHandler(nil, logr),
		Metrics:    handler.NewMetricsHandler(metrics.Handler(), readinessChecks(db, cacheRepo)),
	}

	if cfg.Reports.Enabled {
		queue, reportSvc, err := buildReports(ctx, cfg, logr, eng, state, reportRepo, metrics, validate)
		if err != nil {
			logr.Fatal("failed to init reports", zap.Error(err))
		}
		defer queue.Stop()
		handlers.Report = handler.NewReportHandler(reportSvc, logr)
	}

	router := handler.NewRouter(logr, handler.RouterConfig{
		APIPrefix:      cfg.APIPrefix,
		EnableDocs:     cfg.Env != config.EnvProduction,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, handlers, authSvc, metrics)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func buildReports(
	ctx context.Context,
	cfg *config.Config,
	logr *zap.Logger,
	eng *engine.Engine,
	state *service.StateLoader,
	reportRepo *repository.ReportRepository,
	metrics *service.MetricsService,
	validate *validator.Validate,
) (*jobs.Queue, *service.ReportService, error) {
	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		return nil, nil, fmt.Errorf("init report storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exportSvc := service.NewExportService(state, eng, store, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, logr, nil)
	worker := service.NewReportWorker(reportRepo, exportSvc, metrics, logr, nil)

	var reportSvc *service.ReportService
	queue := jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
		OnGiveUp: func(ctx context.Context, job jobs.Job, cause error) {
			reportSvc.HandleGiveUp(ctx, job, cause)
		},
	})
	reportSvc = service.NewReportService(reportRepo, queue, exportSvc, eng, metrics, validate, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
	}, nil)

	queue.Start(ctx)
	reportSvc.RecoverPendingJobs(ctx)
	reportSvc.StartCleanup(ctx)
	return queue, reportSvc, nil
}

func readinessChecks(db *sqlx.DB, cacheRepo *repository.CacheRepository) map[string]handler.ReadinessCheck {
	return map[string]handler.ReadinessCheck{
		"database": db.PingContext,
		"redis":    cacheRepo.Ping,
	}
}
