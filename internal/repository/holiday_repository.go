package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/pkg/database"
)

const insertHolidayQuery = `INSERT INTO holidays (date, name) VALUES (:date, :name)`

// HolidayRepository persists the user managed holiday calendar.
type HolidayRepository struct {
	db *sqlx.DB
}

// NewHolidayRepository constructs the repository.
func NewHolidayRepository(db *sqlx.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// List returns holidays ordered by date. A positive year limits the result to
// that calendar year.
func (r *HolidayRepository) List(ctx context.Context, year int) ([]models.Holiday, error) {
	query := "SELECT " + dateColumn("date", "date") + ", name FROM holidays"
	args := []interface{}{}
	if year > 0 {
		query += " WHERE EXTRACT(YEAR FROM date) = $1"
		args = append(args, year)
	}
	query += " ORDER BY date ASC"

	var holidays []models.Holiday
	if err := r.db.SelectContext(ctx, &holidays, query, args...); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}

// Upsert stores or renames the holiday on its date.
func (r *HolidayRepository) Upsert(ctx context.Context, holiday models.Holiday) error {
	const query = insertHolidayQuery + ` ON CONFLICT (date) DO UPDATE SET name = EXCLUDED.name`
	if _, err := r.db.NamedExecContext(ctx, query, holiday); err != nil {
		return fmt.Errorf("upsert holiday: %w", err)
	}
	return nil
}

// Delete removes the holiday on date.
func (r *HolidayRepository) Delete(ctx context.Context, date string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM holidays WHERE date = $1", date)
	if err != nil {
		return fmt.Errorf("delete holiday: %w", err)
	}
	return requireAffected(res, "delete holiday")
}

// ReplaceAll swaps the whole holiday calendar.
func (r *HolidayRepository) ReplaceAll(ctx context.Context, holidays []models.Holiday) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM holidays"); err != nil {
			return fmt.Errorf("clear holidays: %w", err)
		}
		for _, holiday := range holidays {
			if _, err := tx.NamedExecContext(ctx, insertHolidayQuery, holiday); err != nil {
				return fmt.Errorf("insert holiday %s: %w", holiday.Date, err)
			}
		}
		return nil
	})
}
