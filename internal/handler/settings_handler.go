package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classdy-api/internal/dto"
	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/pkg/response"
)

type settingsService interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, req dto.SettingsUpdateRequest) (*models.Settings, error)
	SubjectMeta(ctx context.Context) (models.SubjectMeta, error)
	ReplaceSubjectMeta(ctx context.Context, req map[string]dto.SubjectStyleRequest) (models.SubjectMeta, error)
}

// SettingsHandler exposes user preferences and the subject registry.
type SettingsHandler struct {
	service settingsService
}

// NewSettingsHandler constructs the handler.
func NewSettingsHandler(svc settingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// Get godoc
// @Summary Get settings
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, settings)
}

// Update godoc
// @Summary Update settings
// @Description Partial update; omitted fields are kept
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body dto.SettingsUpdateRequest true "Settings"
// @Success 200 {object} response.Envelope
// @Router /settings [patch]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.SettingsUpdateRequest
	if !bindJSON(c, &req, "invalid settings payload") {
		return
	}
	settings, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, settings)
}

// Subjects godoc
// @Summary Subject registry
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SettingsHandler) Subjects(c *gin.Context) {
	meta, err := h.service.SubjectMeta(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if meta == nil {
		meta = models.SubjectMeta{}
	}
	response.OK(c, meta)
}

// ReplaceSubjects godoc
// @Summary Replace subject registry
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body map[string]dto.SubjectStyleRequest true "Subject styles by name"
// @Success 200 {object} response.Envelope
// @Router /subjects [put]
func (h *SettingsHandler) ReplaceSubjects(c *gin.Context) {
	var req map[string]dto.SubjectStyleRequest
	if !bindJSON(c, &req, "invalid subjects payload") {
		return
	}
	meta, err := h.service.ReplaceSubjectMeta(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, meta)
}
