package engine

import (
	"go.uber.org/zap"

	"github.com/noah-isme/classdy-api/internal/models"
)

// CalculateLateness returns how many whole minutes the arrival on log falls
// after the grace-adjusted required time. It returns 0 when the log has no
// arrival, the day requires no attendance or any value fails to parse.
func (e *Engine) CalculateLateness(log models.AttendanceLog, schedules []models.Schedule, gracePeriod int) int {
	arrival := log.Arrival()
	if arrival == "" {
		return 0
	}
	day, err := e.ParseDate(log.Date)
	if err != nil {
		return 0
	}
	_, session := e.requiredSession(day, schedules)
	if session == nil {
		return 0
	}
	arrivedAt, err := e.CombineDateTime(log.Date, arrival)
	if err != nil {
		e.logger.Warn("lateness falls back to zero", zap.String("date", log.Date), zap.Error(err))
		return 0
	}
	requiredAt, err := e.CombineDateTime(log.Date, session.StartTime)
	if err != nil {
		e.logger.Warn("lateness falls back to zero", zap.String("date", log.Date), zap.Error(err))
		return 0
	}
	late := int(arrivedAt.Sub(requiredAt).Minutes()) - gracePeriod
	if late < 0 {
		return 0
	}
	return late
}
