package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classdy-api/internal/models"
)

var reportRowColumns = []string{"id", "type", "params", "status", "progress", "result_url", "created_at", "finished_at", "error_message"}

const reportParamsJSON = `{"window":{"period":"month"},"format":"csv","referenceDate":"2024-03-05"}`

func TestReportRepositoryCreateAndGet(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO report_jobs")).
		WithArgs(sqlmock.AnyArg(), "attendance", sqlmock.AnyArg(), "QUEUED", 0, nil, sqlmock.AnyArg(), nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.ReportJob{
		Type:   models.ReportTypeAttendance,
		Params: models.ReportJobParams{Window: models.AnalyticsWindow{Period: models.AnalyticsPeriodMonth}, Format: models.ReportFormatCSV},
	}
	require.NoError(t, repo.Create(context.Background(), job))
	require.NotEmpty(t, job.ID)

	rows := sqlmock.NewRows(reportRowColumns).
		AddRow(job.ID, "attendance", []byte(reportParamsJSON), "QUEUED", 0, nil, time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + reportJobColumns + " FROM report_jobs WHERE id = $1")).
		WithArgs(job.ID).
		WillReturnRows(rows)

	fetched, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	require.Equal(t, job.ID, fetched.ID)
	require.Equal(t, "2024-03-05", fetched.Params.ReferenceDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	now := time.Now()
	status := models.ReportStatusFinished
	progress := 100
	result := "/api/v1/export/token"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE report_jobs SET status = $1, progress = $2, result_url = $3, finished_at = $4 WHERE id = $5")).
		WithArgs(status, progress, result, now, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "job-1", UpdateReportJobParams{
		Status:     &status,
		Progress:   &progress,
		ResultURL:  &result,
		FinishedAt: &now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryUpdateNoop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	require.NoError(t, repo.Update(context.Background(), "job-1", UpdateReportJobParams{}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryListQueued(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows(reportRowColumns).
		AddRow("job-1", "lateness", []byte(reportParamsJSON), "QUEUED", 0, nil, time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM report_jobs WHERE status = 'QUEUED' ORDER BY created_at ASC LIMIT $1")).
		WithArgs(20).
		WillReturnRows(rows)

	jobs, err := repo.ListQueued(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, models.ReportTypeLateness, jobs[0].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryListFinishedBefore(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	cutoff := time.Now()
	finished := cutoff.Add(-time.Hour)
	url := "/api/v1/export/abc"
	rows := sqlmock.NewRows(reportRowColumns).
		AddRow("job-2", "summary", []byte(reportParamsJSON), "FINISHED", 100, url, finished, finished, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM report_jobs WHERE status = 'FINISHED'")).
		WithArgs(cutoff, 50).
		WillReturnRows(rows)

	jobs, err := repo.ListFinishedBefore(context.Background(), cutoff, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, url, *jobs[0].ResultURL)
	require.NoError(t, mock.ExpectationsWereMet())
}
