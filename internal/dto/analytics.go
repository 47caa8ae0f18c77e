package dto

import "github.com/noah-isme/classdy-api/internal/models"

// AnalyticsQuery selects the analytics window.
type AnalyticsQuery struct {
	Period models.AnalyticsPeriod `form:"period" validate:"omitempty,oneof=all week month custom"`
	Start  string                 `form:"start" validate:"omitempty,datetime=2006-01-02"`
	End    string                 `form:"end" validate:"omitempty,datetime=2006-01-02"`
}

// Window converts the query into an analytics window, defaulting to "all".
func (q AnalyticsQuery) Window() models.AnalyticsWindow {
	period := q.Period
	if period == "" {
		period = models.AnalyticsPeriodAll
	}
	return models.AnalyticsWindow{Period: period, Start: q.Start, End: q.End}
}
