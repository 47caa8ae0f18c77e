package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/pkg/database"
)

// SubjectMetaRepository persists the subject registry and display metadata.
type SubjectMetaRepository struct {
	db *sqlx.DB
}

// NewSubjectMetaRepository constructs the repository.
func NewSubjectMetaRepository(db *sqlx.DB) *SubjectMetaRepository {
	return &SubjectMetaRepository{db: db}
}

// Load returns every registered subject.
func (r *SubjectMetaRepository) Load(ctx context.Context) (models.SubjectMeta, error) {
	const query = `SELECT subject, color, icon FROM subjects ORDER BY subject ASC`
	var rows []models.SubjectMetaRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}
	meta := make(models.SubjectMeta, len(rows))
	for _, row := range rows {
		meta[row.Subject] = models.SubjectStyle{Color: row.Color, Icon: row.Icon}
	}
	return meta, nil
}

// ReplaceAll swaps the whole registry.
func (r *SubjectMetaRepository) ReplaceAll(ctx context.Context, meta models.SubjectMeta) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return replaceSubjects(ctx, tx, meta)
	})
}

func replaceSubjects(ctx context.Context, tx *sqlx.Tx, meta models.SubjectMeta) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM subjects"); err != nil {
		return fmt.Errorf("clear subjects: %w", err)
	}
	subjects := make([]string, 0, len(meta))
	for subject := range meta {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	for _, subject := range subjects {
		style := meta[subject]
		row := models.SubjectMetaRow{Subject: subject, Color: style.Color, Icon: style.Icon}
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO subjects (subject, color, icon) VALUES (:subject, :color, :icon)`, row); err != nil {
			return fmt.Errorf("insert subject %s: %w", subject, err)
		}
	}
	return nil
}
