package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/engine"
	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/pkg/export"
	"github.com/noah-isme/classdy-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService renders report datasets and stores them behind signed URLs.
type ExportService struct {
	state     *StateLoader
	engine    *engine.Engine
	storage   fileStorage
	renderers map[models.ReportFormat]export.Renderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService with CSV and PDF renderers.
func NewExportService(state *StateLoader, eng *engine.Engine, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, now func() time.Time) *ExportService {
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		state:   state,
		engine:  eng,
		storage: store,
		renderers: map[models.ReportFormat]export.Renderer{
			models.ReportFormatCSV: export.NewCSVExporter(),
			models.ReportFormatPDF: export.NewPDFExporter(),
		},
		signer: signer,
		logger: nopLogger(logger),
		cfg:    cfg,
		now:    systemNow(now),
	}
}

// Generate builds the dataset for job, renders it and stores the file.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	renderer, ok := s.renderers[job.Params.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	dataset, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}
	payload, err := renderer.Render(dataset)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", job.Params.Format, err)
	}

	relPath, err := s.storage.Save(s.buildFilename(job, renderer.Extension()), payload)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/%s", prefix, token),
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (storage.SignedFile, error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// ContentType returns the MIME type of format.
func (s *ExportService) ContentType(format models.ReportFormat) string {
	if renderer, ok := s.renderers[format]; ok {
		return renderer.ContentType()
	}
	return "application/octet-stream"
}

// Cleanup removes files older than ttl (the configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob, extension string) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s.%s", job.Type, job.Params.Window.Period, timestamp, extension)
}

// referenceNow pins "now" to the end of the job's reference date so a job
// retried after midnight derives the same statuses.
func (s *ExportService) referenceNow(params models.ReportJobParams) time.Time {
	if params.ReferenceDate == "" {
		return s.now()
	}
	day, err := s.engine.ParseDate(params.ReferenceDate)
	if err != nil {
		s.logger.Warn("ignoring malformed report reference date", zap.String("reference_date", params.ReferenceDate))
		return s.now()
	}
	return day.AddDate(0, 0, 1).Add(-time.Second)
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, error) {
	state, err := s.state.Load(ctx, models.AttendanceLogFilter{})
	if err != nil {
		return export.Dataset{}, err
	}
	now := s.referenceNow(job.Params)
	grace := state.Settings.GracePeriod
	annotated := s.engine.Annotate(state.Logs, state.Schedules, grace, state.Holidays, now)
	logs := s.engine.FilterLogs(annotated, job.Params.Window, now)
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date < logs[j].Date })

	var dataset export.Dataset
	switch job.Type {
	case models.ReportTypeAttendance:
		dataset = s.attendanceDataset(logs, state)
	case models.ReportTypeLateness:
		dataset = s.latenessDataset(logs, state)
	case models.ReportTypeSummary:
		dataset = s.summaryDataset(logs, annotated, state, now)
	default:
		return export.Dataset{}, fmt.Errorf("unsupported report type %s", job.Type)
	}
	dataset.Summary = append([]string{describeWindow(job.Params.Window, s.engine.FormatDate(now))}, dataset.Summary...)
	return dataset, nil
}

func (s *ExportService) attendanceDataset(logs []models.AnnotatedLog, state *TrackerState) export.Dataset {
	rows := make([]map[string]string, 0, len(logs))
	for _, log := range logs {
		weekday := ""
		if day, err := s.engine.ParseDate(log.Date); err == nil {
			weekday = day.Weekday().String()
		}
		lateness := ""
		if log.Status == models.AttendanceStatusLate {
			lateness = strconv.Itoa(log.LatenessMinutes)
		}
		rows = append(rows, map[string]string{
			"Date":           log.Date,
			"Day":            weekday,
			"Arrival":        engine.FormatClock(log.Arrival()),
			"Departure":      engine.FormatClock(derefString(log.DepartureTime)),
			"Required":       engine.FormatClock(s.engine.RequiredArrival(log.Date, state.Schedules)),
			"Status":         log.Status.Label(),
			"Lateness (min)": lateness,
		})
	}
	overview := engine.Overview(logs)
	return export.Dataset{
		Title:   "Attendance Report",
		Summary: []string{fmt.Sprintf("Tracked days: %d, on time: %s", overview.TrackedDays, overview.OnTimePercentage)},
		Headers: []string{"Date", "Day", "Arrival", "Departure", "Required", "Status", "Lateness (min)"},
		Rows:    rows,
	}
}

func (s *ExportService) latenessDataset(logs []models.AnnotatedLog, state *TrackerState) export.Dataset {
	trend := s.engine.LatenessTrend(logs, state.Schedules, state.Settings.GracePeriod)
	rows := make([]map[string]string, 0, len(trend.Weeks))
	for _, week := range trend.Weeks {
		rows = append(rows, map[string]string{
			"Week Start":             week.WeekStart,
			"Week":                   week.Label,
			"Late Days":              strconv.Itoa(week.LateDays),
			"Average Lateness (min)": strconv.Itoa(week.AverageMinutes),
		})
	}
	return export.Dataset{
		Title:   "Lateness Report",
		Summary: []string{fmt.Sprintf("Overall average lateness: %d min", trend.OverallAverage)},
		Headers: []string{"Week Start", "Week", "Late Days", "Average Lateness (min)"},
		Rows:    rows,
	}
}

func (s *ExportService) summaryDataset(logs, all []models.AnnotatedLog, state *TrackerState, now time.Time) export.Dataset {
	overview := engine.Overview(logs)
	breakdown := engine.StatusBreakdown(logs)
	streak := s.engine.OnTimeStreak(all, state.Schedules, state.Holidays, now)

	row := func(metric, value string) map[string]string {
		return map[string]string{"Metric": metric, "Value": value}
	}
	rows := []map[string]string{
		row("Average Arrival", overview.AverageArrival),
		row("Earliest Arrival", overview.EarliestArrival),
		row("Latest Arrival", overview.LatestArrival),
		row("On Time", overview.OnTimePercentage),
		row("Tracked Days", strconv.Itoa(overview.TrackedDays)),
		row("Current Streak", strconv.Itoa(streak)),
		row("Grace Period (min)", strconv.Itoa(state.Settings.GracePeriod)),
	}
	for _, status := range models.AttendanceStatuses {
		if count := breakdown.Counts[status]; count > 0 {
			rows = append(rows, row(status.Label(), strconv.Itoa(count)))
		}
	}
	return export.Dataset{
		Title:   "Attendance Summary",
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}
}

func describeWindow(window models.AnalyticsWindow, reference string) string {
	switch window.Period {
	case models.AnalyticsPeriodCustom:
		return fmt.Sprintf("Period: %s to %s", window.Start, window.End)
	case models.AnalyticsPeriodWeek, models.AnalyticsPeriodMonth:
		return fmt.Sprintf("Period: this %s as of %s", window.Period, reference)
	default:
		return fmt.Sprintf("Period: all time as of %s", reference)
	}
}

func derefString(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
