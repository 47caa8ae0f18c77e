package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/pkg/response"
)

type backupService interface {
	Export(ctx context.Context) (*models.Backup, error)
	Import(ctx context.Context, backup *models.Backup) error
}

// BackupHandler exports and restores the whole tracker state.
type BackupHandler struct {
	service backupService
}

// NewBackupHandler constructs the handler.
func NewBackupHandler(svc backupService) *BackupHandler {
	return &BackupHandler{service: svc}
}

// Export godoc
// @Summary Export backup
// @Description Settings, schedules, logs and subject metadata in the client backup format
// @Tags Backup
// @Produce json
// @Param download query bool false "Serve the bare backup as an attachment"
// @Success 200 {object} models.Backup
// @Router /backup [get]
func (h *BackupHandler) Export(c *gin.Context) {
	backup, err := h.service.Export(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if c.Query("download") == "true" {
		// Attachments carry the bare backup so the file can be imported as is.
		c.Header("Content-Disposition", `attachment; filename="classdy-backup.json"`)
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, backup)
		return
	}
	response.OK(c, backup)
}

// Import godoc
// @Summary Import backup
// @Description Validates the whole payload, then replaces settings, schedules, logs and subjects
// @Tags Backup
// @Accept json
// @Param payload body models.Backup true "Backup"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /backup [post]
func (h *BackupHandler) Import(c *gin.Context) {
	var backup models.Backup
	if !bindJSON(c, &backup, "invalid backup payload") {
		return
	}
	if err := h.service.Import(c.Request.Context(), &backup); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
