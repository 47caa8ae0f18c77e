package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classdy-api/internal/dto"
	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/pkg/response"
)

type attendanceService interface {
	List(ctx context.Context, query dto.AttendanceListQuery) ([]models.AnnotatedLog, *models.Pagination, error)
	Get(ctx context.Context, date string) (*models.AnnotatedLog, error)
	Upsert(ctx context.Context, req dto.AttendanceLogRequest) (*models.AnnotatedLog, error)
	Delete(ctx context.Context, date string) error
	Evaluate(ctx context.Context, query dto.EvaluateQuery) (*dto.EvaluateResponse, error)
}

// AttendanceHandler exposes attendance log endpoints. Every log is returned
// with its derived status.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// List godoc
// @Summary List attendance logs
// @Tags Attendance
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param status query string false "Derived status"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	var query dto.AttendanceListQuery
	if !bindQuery(c, &query, "invalid attendance query") {
		return
	}
	logs, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, pagination)
}

// Upsert godoc
// @Summary Record attendance
// @Description Creates or replaces the log of a date
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.AttendanceLogRequest true "Attendance log"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance [put]
func (h *AttendanceHandler) Upsert(c *gin.Context) {
	var req dto.AttendanceLogRequest
	if !bindJSON(c, &req, "invalid attendance payload") {
		return
	}
	log, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, log)
}

// Get godoc
// @Summary Get attendance log
// @Tags Attendance
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance/{date} [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
	log, err := h.service.Get(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, log)
}

// Delete godoc
// @Summary Delete attendance log
// @Tags Attendance
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 204
// @Router /attendance/{date} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("date")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Evaluate godoc
// @Summary Preview derived status
// @Description Derives the status a log would get without storing it
// @Tags Attendance
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param arrival query string false "Arrival (HH:mm)"
// @Param tag query string false "Manual tag (Absent or Holiday)"
// @Success 200 {object} response.Envelope
// @Router /attendance/evaluate [get]
func (h *AttendanceHandler) Evaluate(c *gin.Context) {
	var query dto.EvaluateQuery
	if !bindQuery(c, &query, "invalid evaluation query") {
		return
	}
	result, err := h.service.Evaluate(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
