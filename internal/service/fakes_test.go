package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/engine"
	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/internal/repository"
	appErrors "github.com/noah-isme/classdy-api/pkg/errors"
)

var errStoreDown = errors.New("store down")

// fixedNow is Wednesday 2024-03-06 10:00 UTC.
var fixedNow = time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time { return func() time.Time { return t } }

func strPtr(v string) *string { return &v }

func testEngine() *engine.Engine { return engine.New(time.UTC, zap.NewNop()) }

// weekdaySchedule covers the first half of 2024 with a 09:00 physical class
// Monday to Friday and an online class on Saturday.
func weekdaySchedule() models.Schedule {
	rules := models.ScheduleRules{}
	for day := 1; day <= 5; day++ {
		rules = append(rules, models.ScheduleRule{DayOfWeek: day, Classes: []models.ClassSession{
			{ID: fmt.Sprintf("math-%d", day), Subject: "Math", StartTime: "09:00", EndTime: "10:00",
				Tasks: []models.Task{{ID: "t1", Text: "homework"}, {ID: "t2", Text: "read", Completed: true}}},
			{ID: fmt.Sprintf("art-%d", day), Subject: "Art", StartTime: "11:00", EndTime: "12:00"},
		}})
	}
	rules = append(rules, models.ScheduleRule{DayOfWeek: 6, Classes: []models.ClassSession{
		{ID: "remote", Subject: "Math", StartTime: "08:00", EndTime: "09:00", IsOnline: true},
	}})
	return models.Schedule{ID: "sem-1", Name: "Semester", StartDate: strPtr("2024-01-01"), EndDate: strPtr("2024-06-30"), Rules: rules}
}

func logAt(date, arrival string) models.AttendanceLog {
	log := models.AttendanceLog{ID: date, Date: date}
	if arrival != "" {
		log.ArrivalTime = strPtr(arrival)
	}
	return log
}

type fakeScheduleRepo struct {
	mu        sync.Mutex
	schedules []models.Schedule
	err       error
	latest    string
}

func (f *fakeScheduleRepo) List(context.Context) ([]models.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Schedule, len(f.schedules))
	copy(out, f.schedules)
	return out, nil
}

func (f *fakeScheduleRepo) GetByID(_ context.Context, id string) (*models.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, schedule := range f.schedules {
		if schedule.ID == id {
			copied := schedule
			copied.Rules = append(models.ScheduleRules{}, schedule.Rules...)
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("get schedule: %w", sql.ErrNoRows)
}

func (f *fakeScheduleRepo) Create(_ context.Context, schedule *models.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	schedule.Position = len(f.schedules)
	f.schedules = append(f.schedules, *schedule)
	return nil
}

func (f *fakeScheduleRepo) Update(_ context.Context, schedule *models.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.schedules {
		if f.schedules[i].ID == schedule.ID {
			f.schedules[i] = *schedule
			return nil
		}
	}
	return fmt.Errorf("update schedule: %w", sql.ErrNoRows)
}

func (f *fakeScheduleRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.schedules {
		if f.schedules[i].ID == id {
			f.schedules = append(f.schedules[:i], f.schedules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete schedule: %w", sql.ErrNoRows)
}

func (f *fakeScheduleRepo) ReplaceAll(_ context.Context, schedules []models.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules = append([]models.Schedule{}, schedules...)
	return nil
}

type fakeLogRepo struct {
	mu   sync.Mutex
	logs map[string]models.AttendanceLog
	err  error
}

func newFakeLogRepo(logs ...models.AttendanceLog) *fakeLogRepo {
	repo := &fakeLogRepo{logs: map[string]models.AttendanceLog{}}
	for _, log := range logs {
		repo.logs[log.Date] = log
	}
	return repo
}

func (f *fakeLogRepo) List(_ context.Context, filter models.AttendanceLogFilter) ([]models.AttendanceLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.AttendanceLog, 0, len(f.logs))
	for _, log := range f.logs {
		if filter.DateFrom != "" && log.Date < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && log.Date > filter.DateTo {
			continue
		}
		out = append(out, log)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (f *fakeLogRepo) Get(_ context.Context, date string) (*models.AttendanceLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	log, ok := f.logs[date]
	if !ok {
		return nil, fmt.Errorf("get attendance log: %w", sql.ErrNoRows)
	}
	return &log, nil
}

func (f *fakeLogRepo) LatestDate(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	latest := ""
	for date := range f.logs {
		if date > latest {
			latest = date
		}
	}
	return latest, nil
}

func (f *fakeLogRepo) Upsert(_ context.Context, log *models.AttendanceLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.logs[log.Date] = *log
	return nil
}

func (f *fakeLogRepo) Delete(_ context.Context, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.logs[date]; !ok {
		return fmt.Errorf("delete attendance log: %w", sql.ErrNoRows)
	}
	delete(f.logs, date)
	return nil
}

type fakeHolidayRepo struct {
	holidays []models.Holiday
}

func (f *fakeHolidayRepo) List(_ context.Context, year int) ([]models.Holiday, error) {
	out := make([]models.Holiday, 0, len(f.holidays))
	for _, holiday := range f.holidays {
		if year > 0 && !strings.HasPrefix(holiday.Date, fmt.Sprintf("%04d-", year)) {
			continue
		}
		out = append(out, holiday)
	}
	return out, nil
}

func (f *fakeHolidayRepo) Upsert(_ context.Context, holiday models.Holiday) error {
	for i := range f.holidays {
		if f.holidays[i].Date == holiday.Date {
			f.holidays[i] = holiday
			return nil
		}
	}
	f.holidays = append(f.holidays, holiday)
	return nil
}

func (f *fakeHolidayRepo) Delete(_ context.Context, date string) error {
	for i := range f.holidays {
		if f.holidays[i].Date == date {
			f.holidays = append(f.holidays[:i], f.holidays[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete holiday: %w", sql.ErrNoRows)
}

func (f *fakeHolidayRepo) ReplaceAll(_ context.Context, holidays []models.Holiday) error {
	f.holidays = append([]models.Holiday{}, holidays...)
	return nil
}

type fakeSettingsRepo struct {
	stored *models.Settings
	saves  int
}

func (f *fakeSettingsRepo) Load(_ context.Context, defaults models.Settings) (models.Settings, error) {
	if f.stored == nil {
		return defaults, nil
	}
	return *f.stored, nil
}

func (f *fakeSettingsRepo) Save(_ context.Context, settings models.Settings) error {
	f.saves++
	f.stored = &settings
	return nil
}

type fakeSubjectRepo struct {
	meta models.SubjectMeta
}

func (f *fakeSubjectRepo) Load(context.Context) (models.SubjectMeta, error) {
	return f.meta, nil
}

func (f *fakeSubjectRepo) ReplaceAll(_ context.Context, meta models.SubjectMeta) error {
	f.meta = meta
	return nil
}

type fakeCacheRepo struct {
	mu          sync.Mutex
	entries     map[string][]byte
	invalidated []string
	getErr      error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: map[string][]byte{}}
}

func (f *fakeCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return f.getErr
	}
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			delete(f.entries, key)
		}
	}
	return nil
}

type fakeReportRepo struct {
	mu   sync.Mutex
	jobs map[string]*models.ReportJob
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{jobs: map[string]*models.ReportJob{}}
}

func (r *fakeReportRepo) Create(_ context.Context, job *models.ReportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *fakeReportRepo) GetByID(_ context.Context, id string) (*models.ReportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("get report job: %w", sql.ErrNoRows)
	}
	copied := *job
	return &copied, nil
}

func (r *fakeReportRepo) Update(_ context.Context, id string, params repository.UpdateReportJobParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("update report job: %w", sql.ErrNoRows)
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (r *fakeReportRepo) ListQueued(context.Context, int) ([]models.ReportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var queued []models.ReportJob
	for _, job := range r.jobs {
		if job.Status == models.ReportStatusQueued {
			queued = append(queued, *job)
		}
	}
	return queued, nil
}

func (r *fakeReportRepo) ListFinishedBefore(_ context.Context, cutoff time.Time, _ int) ([]models.ReportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var finished []models.ReportJob
	for _, job := range r.jobs {
		if job.Status == models.ReportStatusFinished && job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			finished = append(finished, *job)
		}
	}
	return finished, nil
}

// fixture bundles fakes wired into a state loader.
type fixture struct {
	schedules *fakeScheduleRepo
	logs      *fakeLogRepo
	holidays  *fakeHolidayRepo
	settings  *fakeSettingsRepo
	subjects  *fakeSubjectRepo
	cacheRepo *fakeCacheRepo
	cache     *CacheService
	metrics   *MetricsService
	state     *StateLoader
	engine    *engine.Engine
}

func newFixture(logs ...models.AttendanceLog) *fixture {
	f := &fixture{
		schedules: &fakeScheduleRepo{schedules: []models.Schedule{weekdaySchedule()}},
		logs:      newFakeLogRepo(logs...),
		holidays:  &fakeHolidayRepo{},
		settings:  &fakeSettingsRepo{},
		subjects:  &fakeSubjectRepo{},
		cacheRepo: newFakeCacheRepo(),
		metrics:   NewMetricsService(),
		engine:    testEngine(),
	}
	f.cache = NewCacheService(f.cacheRepo, f.metrics, time.Minute, zap.NewNop(), true)
	f.state = NewStateLoader(f.schedules, f.holidays, f.settings, f.logs, models.DefaultSettings(10), f.metrics)
	return f
}

type fakeBackupRepo struct {
	restored *models.Backup
	err      error
}

func (f *fakeBackupRepo) Restore(_ context.Context, backup *models.Backup) error {
	if f.err != nil {
		return f.err
	}
	f.restored = backup
	return nil
}
