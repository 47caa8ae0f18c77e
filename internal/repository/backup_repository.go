package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/pkg/database"
)

// BackupRepository restores a backup payload atomically.
type BackupRepository struct {
	db *sqlx.DB
}

// NewBackupRepository constructs the repository.
func NewBackupRepository(db *sqlx.DB) *BackupRepository {
	return &BackupRepository{db: db}
}

// Restore replaces settings, subjects, schedules and logs in one transaction.
// Holidays are not part of the payload and stay untouched.
func (r *BackupRepository) Restore(ctx context.Context, backup *models.Backup) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := saveSettings(ctx, tx, backup.Settings); err != nil {
			return err
		}
		if err := replaceSubjects(ctx, tx, backup.SubjectMeta); err != nil {
			return err
		}
		if err := replaceSchedules(ctx, tx, backup.Schedules); err != nil {
			return err
		}
		return replaceAttendanceLogs(ctx, tx, backup.Logs)
	})
}
