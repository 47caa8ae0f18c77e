package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classdy-api/internal/dto"
	"github.com/noah-isme/classdy-api/internal/models"
	appErrors "github.com/noah-isme/classdy-api/pkg/errors"
	"github.com/noah-isme/classdy-api/pkg/response"
)

type holidayService interface {
	List(ctx context.Context, year int) ([]models.Holiday, error)
	Upsert(ctx context.Context, date string, req dto.HolidayRequest) (*models.Holiday, error)
	Delete(ctx context.Context, date string) error
	ReplaceAll(ctx context.Context, req dto.HolidayReplaceRequest) ([]models.Holiday, error)
}

// HolidayHandler exposes the holiday calendar.
type HolidayHandler struct {
	service holidayService
}

// NewHolidayHandler constructs the handler.
func NewHolidayHandler(svc holidayService) *HolidayHandler {
	return &HolidayHandler{service: svc}
}

// List godoc
// @Summary List holidays
// @Tags Holidays
// @Produce json
// @Param year query int false "Year"
// @Success 200 {object} response.Envelope
// @Router /holidays [get]
func (h *HolidayHandler) List(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be an integer"))
			return
		}
		year = parsed
	}
	holidays, err := h.service.List(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, holidays)
}

// ReplaceAll godoc
// @Summary Replace holiday calendar
// @Tags Holidays
// @Accept json
// @Produce json
// @Param payload body dto.HolidayReplaceRequest true "Holidays"
// @Success 200 {object} response.Envelope
// @Router /holidays [put]
func (h *HolidayHandler) ReplaceAll(c *gin.Context) {
	var req dto.HolidayReplaceRequest
	if !bindJSON(c, &req, "invalid holiday calendar") {
		return
	}
	holidays, err := h.service.ReplaceAll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, holidays)
}

// Upsert godoc
// @Summary Set holiday
// @Tags Holidays
// @Accept json
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param payload body dto.HolidayRequest true "Holiday"
// @Success 200 {object} response.Envelope
// @Router /holidays/{date} [put]
func (h *HolidayHandler) Upsert(c *gin.Context) {
	var req dto.HolidayRequest
	if !bindJSON(c, &req, "invalid holiday payload") {
		return
	}
	holiday, err := h.service.Upsert(c.Request.Context(), c.Param("date"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, holiday)
}

// Delete godoc
// @Summary Remove holiday
// @Tags Holidays
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 204
// @Router /holidays/{date} [delete]
func (h *HolidayHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("date")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
