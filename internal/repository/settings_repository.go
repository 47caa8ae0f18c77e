package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/pkg/database"
)

const upsertSettingQuery = `INSERT INTO settings (key, value, type, updated_at)
VALUES (:key, :value, :type, :updated_at)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, type = EXCLUDED.type, updated_at = EXCLUDED.updated_at`

// SettingsRepository persists user settings as typed key/value rows.
type SettingsRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSettingsRepository constructs the repository.
func NewSettingsRepository(db *sqlx.DB, logger *zap.Logger) *SettingsRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsRepository{db: db, logger: logger}
}

// Load reads stored rows over defaults. Unknown keys and values that do not
// parse as their declared type are ignored.
func (r *SettingsRepository) Load(ctx context.Context, defaults models.Settings) (models.Settings, error) {
	const query = `SELECT key, value, type, updated_at FROM settings ORDER BY key ASC`
	var entries []models.SettingEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return defaults, fmt.Errorf("load settings: %w", err)
	}

	settings := defaults
	for _, entry := range entries {
		if err := applySetting(&settings, entry); err != nil {
			r.logger.Warn("ignoring stored setting", zap.String("key", entry.Key), zap.Error(err))
		}
	}
	return settings, nil
}

// Save upserts every setting within a transaction.
func (r *SettingsRepository) Save(ctx context.Context, settings models.Settings) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return saveSettings(ctx, tx, settings)
	})
}

func saveSettings(ctx context.Context, tx *sqlx.Tx, settings models.Settings) error {
	for _, entry := range settingEntries(settings) {
		if _, err := tx.NamedExecContext(ctx, upsertSettingQuery, entry); err != nil {
			return fmt.Errorf("upsert setting %s: %w", entry.Key, err)
		}
	}
	return nil
}

func settingEntries(settings models.Settings) []models.SettingEntry {
	now := nowUTC()
	return []models.SettingEntry{
		{Key: models.SettingKeyAccentColor, Value: settings.AccentColor, Type: models.SettingTypeString, UpdatedAt: now},
		{Key: models.SettingKeyAssistantName, Value: settings.AssistantName, Type: models.SettingTypeString, UpdatedAt: now},
		{Key: models.SettingKeyGracePeriod, Value: strconv.Itoa(settings.GracePeriod), Type: models.SettingTypeInteger, UpdatedAt: now},
		{Key: models.SettingKeyNotificationsEnabled, Value: strconv.FormatBool(settings.NotificationsEnabled), Type: models.SettingTypeBoolean, UpdatedAt: now},
		{Key: models.SettingKeyTheme, Value: string(settings.Theme), Type: models.SettingTypeString, UpdatedAt: now},
	}
}

func applySetting(settings *models.Settings, entry models.SettingEntry) error {
	switch entry.Key {
	case models.SettingKeyGracePeriod:
		v, err := strconv.Atoi(entry.Value)
		if err != nil {
			return fmt.Errorf("parse integer: %w", err)
		}
		settings.GracePeriod = v
	case models.SettingKeyNotificationsEnabled:
		v, err := strconv.ParseBool(entry.Value)
		if err != nil {
			return fmt.Errorf("parse boolean: %w", err)
		}
		settings.NotificationsEnabled = v
	case models.SettingKeyTheme:
		settings.Theme = models.Theme(entry.Value)
	case models.SettingKeyAccentColor:
		settings.AccentColor = entry.Value
	case models.SettingKeyAssistantName:
		settings.AssistantName = entry.Value
	default:
		return fmt.Errorf("unknown key")
	}
	return nil
}
