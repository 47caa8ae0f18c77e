package dto

import "github.com/noah-isme/classdy-api/internal/models"

// SettingsUpdateRequest is a partial settings update; nil fields are kept.
type SettingsUpdateRequest struct {
	GracePeriod          *int          `json:"gracePeriod" validate:"omitempty,min=0,max=240"`
	Theme                *models.Theme `json:"theme" validate:"omitempty,oneof=light dark system"`
	AccentColor          *string       `json:"accentColor" validate:"omitempty,hexcolor"`
	NotificationsEnabled *bool         `json:"notificationsEnabled"`
	AssistantName        *string       `json:"assistantName" validate:"omitempty,max=60"`
}

// SubjectStyleRequest is the display metadata of one subject.
type SubjectStyleRequest struct {
	Color string  `json:"color" validate:"required,hexcolor"`
	Icon  *string `json:"icon,omitempty" validate:"omitempty,max=60"`
}
