package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classdy-api/internal/dto"
	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/pkg/response"
)

type analyticsService interface {
	Summary(ctx context.Context, window models.AnalyticsWindow) (*models.AnalyticsSummary, bool, error)
	Heatmap(ctx context.Context, window models.AnalyticsWindow) (*models.AnalyticsHeatmap, bool, error)
	Streak(ctx context.Context) (*models.StreakSummary, bool, error)
	SystemMetrics() models.AnalyticsSystemMetrics
}

// AnalyticsHandler exposes punctuality analytics.
type AnalyticsHandler struct {
	analytics analyticsService
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Summary godoc
// @Summary Analytics summary
// @Description Overview, status breakdown, weekly lateness and arrival trend
// @Tags Analytics
// @Produce json
// @Param period query string false "all, week, month or custom"
// @Param start query string false "Custom start (YYYY-MM-DD)"
// @Param end query string false "Custom end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	var query dto.AnalyticsQuery
	if !bindQuery(c, &query, "invalid analytics query") {
		return
	}
	start := time.Now()
	summary, hit, err := h.analytics.Summary(c.Request.Context(), query.Window())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil, cacheMeta(c, hit, start))
}

// Heatmap godoc
// @Summary Attendance heatmap
// @Tags Analytics
// @Produce json
// @Param period query string false "all, week, month or custom"
// @Param start query string false "Custom start (YYYY-MM-DD)"
// @Param end query string false "Custom end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /analytics/heatmap [get]
func (h *AnalyticsHandler) Heatmap(c *gin.Context) {
	var query dto.AnalyticsQuery
	if !bindQuery(c, &query, "invalid analytics query") {
		return
	}
	start := time.Now()
	heatmap, hit, err := h.analytics.Heatmap(c.Request.Context(), query.Window())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, heatmap, nil, cacheMeta(c, hit, start))
}

// Streak godoc
// @Summary On-time streak
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/streak [get]
func (h *AnalyticsHandler) Streak(c *gin.Context) {
	start := time.Now()
	streak, hit, err := h.analytics.Streak(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, streak, nil, cacheMeta(c, hit, start))
}

// System godoc
// @Summary Instrumentation snapshot
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	start := time.Now()
	metrics := h.analytics.SystemMetrics()
	response.JSON(c, http.StatusOK, metrics, nil, cacheMeta(c, false, start))
}
