package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/pkg/database"
)

var attendanceLogColumns = dateColumn("date", "id") + ", " + dateColumn("date", "date") +
	", arrival_time, departure_time, status_tag, created_at, updated_at"

const insertAttendanceLogQuery = `INSERT INTO attendance_logs (date, arrival_time, departure_time, status_tag, created_at, updated_at)
VALUES (:date, :arrival_time, :departure_time, :status_tag, :created_at, :updated_at)`

// AttendanceLogRepository persists one attendance log per calendar date.
type AttendanceLogRepository struct {
	db *sqlx.DB
}

// NewAttendanceLogRepository constructs the repository.
func NewAttendanceLogRepository(db *sqlx.DB) *AttendanceLogRepository {
	return &AttendanceLogRepository{db: db}
}

// List returns logs within the optional inclusive date range, newest first.
func (r *AttendanceLogRepository) List(ctx context.Context, filter models.AttendanceLogFilter) ([]models.AttendanceLog, error) {
	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	if filter.DateFrom != "" {
		args = append(args, filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.DateTo != "" {
		args = append(args, filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}

	query := "SELECT " + attendanceLogColumns + " FROM attendance_logs"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC"

	var logs []models.AttendanceLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance logs: %w", err)
	}
	return logs, nil
}

// Get returns the log recorded for date.
func (r *AttendanceLogRepository) Get(ctx context.Context, date string) (*models.AttendanceLog, error) {
	query := "SELECT " + attendanceLogColumns + " FROM attendance_logs WHERE date = $1"
	var log models.AttendanceLog
	if err := r.db.GetContext(ctx, &log, query, date); err != nil {
		return nil, fmt.Errorf("get attendance log: %w", err)
	}
	return &log, nil
}

// LatestDate returns the most recent logged date, or "" when nothing is logged.
func (r *AttendanceLogRepository) LatestDate(ctx context.Context) (string, error) {
	var latest sql.NullString
	if err := r.db.GetContext(ctx, &latest, "SELECT to_char(MAX(date), 'YYYY-MM-DD') FROM attendance_logs"); err != nil {
		return "", fmt.Errorf("latest attendance date: %w", err)
	}
	return latest.String, nil
}

// Upsert inserts the log or replaces the one already stored for its date.
func (r *AttendanceLogRepository) Upsert(ctx context.Context, log *models.AttendanceLog) error {
	const query = insertAttendanceLogQuery + `
ON CONFLICT (date)
DO UPDATE SET arrival_time = EXCLUDED.arrival_time, departure_time = EXCLUDED.departure_time,
              status_tag = EXCLUDED.status_tag, updated_at = EXCLUDED.updated_at`
	log.ID = log.Date
	log.CreatedAt = nowUTC()
	log.UpdatedAt = log.CreatedAt
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("upsert attendance log: %w", err)
	}
	return nil
}

// Delete removes the log for date.
func (r *AttendanceLogRepository) Delete(ctx context.Context, date string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM attendance_logs WHERE date = $1", date)
	if err != nil {
		return fmt.Errorf("delete attendance log: %w", err)
	}
	return requireAffected(res, "delete attendance log")
}

// ReplaceAll swaps the full log history.
func (r *AttendanceLogRepository) ReplaceAll(ctx context.Context, logs []models.AttendanceLog) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return replaceAttendanceLogs(ctx, tx, logs)
	})
}

func replaceAttendanceLogs(ctx context.Context, tx *sqlx.Tx, logs []models.AttendanceLog) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM attendance_logs"); err != nil {
		return fmt.Errorf("clear attendance logs: %w", err)
	}
	now := nowUTC()
	for i := range logs {
		logs[i].ID = logs[i].Date
		logs[i].CreatedAt = now
		logs[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, insertAttendanceLogQuery, logs[i]); err != nil {
			return fmt.Errorf("insert attendance log %s: %w", logs[i].Date, err)
		}
	}
	return nil
}
