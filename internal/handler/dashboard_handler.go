package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/pkg/response"
)

type dashboardService interface {
	Today(ctx context.Context) (*models.DashboardToday, error)
}

// DashboardHandler serves the home screen payload.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Today godoc
// @Summary Today's dashboard
// @Description Today's status, sessions, weekly overview, streak and recent logs
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Today(c *gin.Context) {
	today, err := h.service.Today(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, today)
}
