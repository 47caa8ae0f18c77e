package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/middleware"
	"github.com/noah-isme/classdy-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/classdy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/classdy-api/pkg/middleware/requestid"
)

// RouterConfig carries the HTTP surface settings.
type RouterConfig struct {
	APIPrefix      string
	EnableDocs     bool
	AllowedOrigins []string
}

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Auth       *AuthHandler
	Schedule   *ScheduleHandler
	Attendance *AttendanceHandler
	Holiday    *HolidayHandler
	Settings   *SettingsHandler
	Analytics  *AnalyticsHandler
	Dashboard  *DashboardHandler
	Backup     *BackupHandler
	Report     *ReportHandler
	Metrics    *MetricsHandler
}

// NewRouter builds the gin engine with middleware and every route mounted.
func NewRouter(log *zap.Logger, cfg RouterConfig, h Handlers, auth middleware.TokenValidator, observer middleware.RequestObserver) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	if observer != nil {
		r.Use(middleware.Metrics(observer))
	}
	r.Use(middleware.WithResponseMeta())

	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
	}
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := "/" + strings.Trim(cfg.APIPrefix, "/")
	api := r.Group(prefix)

	if h.Auth != nil {
		api.POST("/auth/token", h.Auth.IssueToken)
	}
	if h.Report != nil {
		api.GET("/export/:token", h.Report.DownloadReport)
	}

	secured := api.Group("")
	secured.Use(middleware.JWT(auth))

	if h.Schedule != nil {
		schedules := secured.Group("/schedules")
		schedules.GET("", h.Schedule.List)
		schedules.POST("", h.Schedule.Create)
		schedules.PUT("", h.Schedule.ReplaceAll)
		schedules.GET("/resolve", h.Schedule.Resolve)
		schedules.GET("/active", h.Schedule.Active)
		schedules.GET("/:id", h.Schedule.Get)
		schedules.PUT("/:id", h.Schedule.Update)
		schedules.DELETE("/:id", h.Schedule.Delete)
		schedules.PUT("/:id/days/:day/sessions/:sessionId/tasks", h.Schedule.UpdateTasks)
	}

	if h.Attendance != nil {
		attendance := secured.Group("/attendance")
		attendance.GET("", h.Attendance.List)
		attendance.PUT("", h.Attendance.Upsert)
		attendance.GET("/evaluate", h.Attendance.Evaluate)
		attendance.GET("/:date", h.Attendance.Get)
		attendance.DELETE("/:date", h.Attendance.Delete)
	}

	if h.Holiday != nil {
		holidays := secured.Group("/holidays")
		holidays.GET("", h.Holiday.List)
		holidays.PUT("", h.Holiday.ReplaceAll)
		holidays.PUT("/:date", h.Holiday.Upsert)
		holidays.DELETE("/:date", h.Holiday.Delete)
	}

	if h.Settings != nil {
		secured.GET("/settings", h.Settings.Get)
		secured.PATCH("/settings", h.Settings.Update)
		secured.GET("/subjects", h.Settings.Subjects)
		secured.PUT("/subjects", h.Settings.ReplaceSubjects)
	}

	if h.Analytics != nil {
		analytics := secured.Group("/analytics")
		analytics.GET("/summary", h.Analytics.Summary)
		analytics.GET("/heatmap", h.Analytics.Heatmap)
		analytics.GET("/streak", h.Analytics.Streak)
		analytics.GET("/system", h.Analytics.System)
	}

	if h.Dashboard != nil {
		secured.GET("/dashboard", h.Dashboard.Today)
	}

	if h.Backup != nil {
		secured.GET("/backup", h.Backup.Export)
		secured.POST("/backup", h.Backup.Import)
	}

	if h.Report != nil {
		secured.POST("/reports", h.Report.GenerateReport)
		secured.GET("/reports/:id", h.Report.ReportStatus)
	}

	return r
}
