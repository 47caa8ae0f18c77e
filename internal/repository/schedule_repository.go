package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/pkg/database"
)

var scheduleColumns = "id, name, " + dateColumn("start_date", "start_date") + ", " + dateColumn("end_date", "end_date") +
	", rules, position, created_at, updated_at"

const insertScheduleQuery = `INSERT INTO schedules (id, name, start_date, end_date, rules, position, created_at, updated_at)
VALUES (:id, :name, :start_date, :end_date, :rules, :position, :created_at, :updated_at)`

// ScheduleRepository persists schedules in their stored order. Resolution is
// first-match, so position is significant.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns every schedule ordered by position.
func (r *ScheduleRepository) List(ctx context.Context) ([]models.Schedule, error) {
	query := "SELECT " + scheduleColumns + " FROM schedules ORDER BY position ASC, created_at ASC"
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// GetByID fetches a schedule by identifier.
func (r *ScheduleRepository) GetByID(ctx context.Context, id string) (*models.Schedule, error) {
	query := "SELECT " + scheduleColumns + " FROM schedules WHERE id = $1"
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return &schedule, nil
}

// Create appends a schedule after the current last position.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	var next int
	if err := r.db.GetContext(ctx, &next, "SELECT COALESCE(MAX(position) + 1, 0) FROM schedules"); err != nil {
		return fmt.Errorf("next schedule position: %w", err)
	}
	schedule.Position = next
	schedule.CreatedAt = nowUTC()
	schedule.UpdatedAt = schedule.CreatedAt
	if _, err := r.db.NamedExecContext(ctx, insertScheduleQuery, schedule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// Update overwrites name, range and rules of an existing schedule.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	const query = `UPDATE schedules SET name = :name, start_date = :start_date, end_date = :end_date, rules = :rules, updated_at = :updated_at
WHERE id = :id`
	schedule.UpdatedAt = nowUTC()
	res, err := r.db.NamedExecContext(ctx, query, schedule)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return requireAffected(res, "update schedule")
}

// Delete removes a schedule.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM schedules WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return requireAffected(res, "delete schedule")
}

// ReplaceAll swaps the full schedule set, keeping the given order.
func (r *ScheduleRepository) ReplaceAll(ctx context.Context, schedules []models.Schedule) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return replaceSchedules(ctx, tx, schedules)
	})
}

func replaceSchedules(ctx context.Context, tx *sqlx.Tx, schedules []models.Schedule) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM schedules"); err != nil {
		return fmt.Errorf("clear schedules: %w", err)
	}
	now := nowUTC()
	for i := range schedules {
		schedules[i].Position = i
		schedules[i].CreatedAt = now
		schedules[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, insertScheduleQuery, schedules[i]); err != nil {
			return fmt.Errorf("insert schedule %s: %w", schedules[i].ID, err)
		}
	}
	return nil
}
