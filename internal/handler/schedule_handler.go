package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classdy-api/internal/dto"
	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/pkg/response"
)

type scheduleService interface {
	List(ctx context.Context) ([]models.Schedule, error)
	Get(ctx context.Context, id string) (*models.Schedule, error)
	Create(ctx context.Context, req dto.ScheduleRequest) (*models.Schedule, error)
	Update(ctx context.Context, id string, req dto.ScheduleRequest) (*models.Schedule, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, reqs []dto.ScheduleRequest) ([]models.Schedule, error)
	Resolve(ctx context.Context, date string) (*models.Schedule, error)
	Active(ctx context.Context) (*models.Schedule, error)
	UpdateClassTasks(ctx context.Context, scheduleID string, day int, sessionID string, req dto.TaskUpdateRequest) (*models.Schedule, error)
}

// ScheduleHandler exposes schedule management endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// List godoc
// @Summary List schedules
// @Description Schedules in resolution order
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	schedules, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, schedules)
}

// Create godoc
// @Summary Create schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.ScheduleRequest true "Schedule"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.ScheduleRequest
	if !bindJSON(c, &req, "invalid schedule payload") {
		return
	}
	schedule, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// ReplaceAll godoc
// @Summary Replace all schedules
// @Description Order of the payload becomes resolution order
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body []dto.ScheduleRequest true "Schedules"
// @Success 200 {object} response.Envelope
// @Router /schedules [put]
func (h *ScheduleHandler) ReplaceAll(c *gin.Context) {
	var reqs []dto.ScheduleRequest
	if !bindJSON(c, &reqs, "invalid schedules payload") {
		return
	}
	schedules, err := h.service.ReplaceAll(c.Request.Context(), reqs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, schedules)
}

// Get godoc
// @Summary Get schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, schedule)
}

// Update godoc
// @Summary Update schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.ScheduleRequest true "Schedule"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req dto.ScheduleRequest
	if !bindJSON(c, &req, "invalid schedule payload") {
		return
	}
	schedule, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, schedule)
}

// Delete godoc
// @Summary Delete schedule
// @Tags Schedules
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Resolve godoc
// @Summary Resolve schedule for a date
// @Description Returns null data when no schedule range covers the date
// @Tags Schedules
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /schedules/resolve [get]
func (h *ScheduleHandler) Resolve(c *gin.Context) {
	schedule, err := h.service.Resolve(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{"data": schedule})
}

// Active godoc
// @Summary Context schedule
// @Description Schedule covering the latest logged date or today, else the first stored schedule
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedules/active [get]
func (h *ScheduleHandler) Active(c *gin.Context) {
	schedule, err := h.service.Active(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{"data": schedule})
}

// UpdateTasks godoc
// @Summary Replace class session tasks
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param day path int true "Day of week (0=Sunday)"
// @Param sessionId path string true "Session ID"
// @Param payload body dto.TaskUpdateRequest true "Tasks"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/days/{day}/sessions/{sessionId}/tasks [put]
func (h *ScheduleHandler) UpdateTasks(c *gin.Context) {
	day, err := intParam(c, "day")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.TaskUpdateRequest
	if !bindJSON(c, &req, "invalid task payload") {
		return
	}
	schedule, err := h.service.UpdateClassTasks(c.Request.Context(), c.Param("id"), day, c.Param("sessionId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, schedule)
}
