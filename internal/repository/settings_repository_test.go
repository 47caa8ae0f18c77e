package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/classdy-api/internal/models"
)

func TestSettingsRepositoryLoadOverridesDefaults(t *testing.T) {
	db, mock := newMockDB(t)
	core, logs := observer.New(zap.WarnLevel)
	repo := NewSettingsRepository(db, zap.New(core))

	now := time.Now()
	rows := sqlmock.NewRows([]string{"key", "value", "type", "updated_at"}).
		AddRow("grace_period", "15", "INTEGER", now).
		AddRow("notifications_enabled", "nope", "BOOLEAN", now).
		AddRow("theme", "dark", "STRING", now).
		AddRow("legacy", "x", "STRING", now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, value, type, updated_at FROM settings")).WillReturnRows(rows)

	defaults := models.DefaultSettings(10)
	settings, err := repo.Load(context.Background(), defaults)
	require.NoError(t, err)
	assert.Equal(t, 15, settings.GracePeriod)
	assert.Equal(t, models.ThemeDark, settings.Theme)
	assert.Equal(t, defaults.NotificationsEnabled, settings.NotificationsEnabled)
	assert.Equal(t, defaults.AccentColor, settings.AccentColor)
	assert.Equal(t, 2, logs.Len())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositorySave(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSettingsRepository(db, nil)

	settings := models.DefaultSettings(5)
	mock.ExpectBegin()
	for _, entry := range settingEntries(settings) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).
			WithArgs(entry.Key, entry.Value, string(entry.Type), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), settings))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingEntriesRoundTrip(t *testing.T) {
	original := models.Settings{
		GracePeriod:          42,
		Theme:                models.ThemeLight,
		AccentColor:          "#ff0000",
		NotificationsEnabled: true,
		AssistantName:        "Ada",
	}
	var restored models.Settings
	for _, entry := range settingEntries(original) {
		require.NoError(t, applySetting(&restored, entry))
	}
	assert.Equal(t, original, restored)
}
