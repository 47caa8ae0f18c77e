package models

import "time"

// Theme enumerates UI colour schemes.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Settings holds user preferences. GracePeriod is the only value the status
// engine reads; the rest are stored for the client.
type Settings struct {
	GracePeriod          int    `json:"gracePeriod"`
	Theme                Theme  `json:"theme"`
	AccentColor          string `json:"accentColor"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	AssistantName        string `json:"assistantName,omitempty"`
}

// DefaultSettings mirrors the values a fresh install starts with.
func DefaultSettings(gracePeriod int) Settings {
	return Settings{
		GracePeriod:          gracePeriod,
		Theme:                ThemeSystem,
		AccentColor:          "#0a84ff",
		NotificationsEnabled: false,
	}
}

// SettingType defines supported types for persisted setting values.
type SettingType string

const (
	SettingTypeString  SettingType = "STRING"
	SettingTypeInteger SettingType = "INTEGER"
	SettingTypeBoolean SettingType = "BOOLEAN"
)

// Setting keys.
const (
	SettingKeyGracePeriod          = "grace_period"
	SettingKeyTheme                = "theme"
	SettingKeyAccentColor          = "accent_color"
	SettingKeyNotificationsEnabled = "notifications_enabled"
	SettingKeyAssistantName        = "assistant_name"
)

// SettingEntry represents a persisted settings row.
type SettingEntry struct {
	Key       string      `db:"key" json:"key"`
	Value     string      `db:"value" json:"value"`
	Type      SettingType `db:"type" json:"type"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// SubjectStyle is the display metadata of a subject.
type SubjectStyle struct {
	Color string  `json:"color"`
	Icon  *string `json:"icon,omitempty"`
}

// SubjectMeta maps subject names to display metadata. Its keys form the
// registry of known subjects.
type SubjectMeta map[string]SubjectStyle

// Has reports whether the subject is registered.
func (m SubjectMeta) Has(subject string) bool {
	_, ok := m[subject]
	return ok
}

// SubjectMetaRow is the persisted form of one SubjectMeta entry.
type SubjectMetaRow struct {
	Subject string  `db:"subject"`
	Color   string  `db:"color"`
	Icon    *string `db:"icon"`
}
