package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/dto"
	"github.com/noah-isme/classdy-api/internal/service"
	appErrors "github.com/noah-isme/classdy-api/pkg/errors"
	"github.com/noah-isme/classdy-api/pkg/response"
)

type reportService interface {
	CreateJob(ctx context.Context, req dto.ReportRequest) (*dto.ReportJobResponse, error)
	GetStatus(ctx context.Context, id string) (*dto.ReportStatusResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error)
}

// ReportHandler exposes asynchronous export endpoints. A nil service means
// reports are disabled.
type ReportHandler struct {
	service reportService
	logger  *zap.Logger
}

// NewReportHandler constructs the handler.
func NewReportHandler(svc reportService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{service: svc, logger: logger}
}

// GenerateReport godoc
// @Summary Queue a report export
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ReportRequest true "Report request"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports [post]
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	if h.service == nil {
		featureDisabled(c, "reports")
		return
	}
	var req dto.ReportRequest
	if !bindJSON(c, &req, "invalid report request") {
		return
	}
	job, err := h.service.CreateJob(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// ReportStatus godoc
// @Summary Report job status
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/{id} [get]
func (h *ReportHandler) ReportStatus(c *gin.Context) {
	if h.service == nil {
		featureDisabled(c, "reports")
		return
	}
	status, err := h.service.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}

// DownloadReport godoc
// @Summary Download a finished report
// @Description Streams the file behind a signed token
// @Tags Reports
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /export/{token} [get]
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	if h.service == nil {
		featureDisabled(c, "reports")
		return
	}
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	download, err := h.service.ResolveDownload(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read report file"))
		return
	}
	h.logger.Debug("serving report", zap.String("file", download.Filename), zap.Int64("bytes", info.Size()))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", download.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), download.ContentType, download.File, nil)
}
