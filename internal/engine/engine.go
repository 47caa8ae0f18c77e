// Package engine derives attendance statuses, lateness, streaks and analytics
// projections from schedules, logs and holidays. Every function is pure: the
// reference instant is always passed in and nothing is persisted or cached.
package engine

import (
	"time"

	"go.uber.org/zap"
)

// Engine evaluates attendance data using wall-clock semantics of a single
// location. It is safe for concurrent use.
type Engine struct {
	loc    *time.Location
	logger *zap.Logger
}

// New constructs an Engine. A nil location falls back to time.Local.
func New(loc *time.Location, logger *zap.Logger) *Engine {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{loc: loc, logger: logger}
}

// Location returns the engine's wall-clock location.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Today returns the start of the day containing now in the engine location.
func (e *Engine) Today(now time.Time) time.Time {
	return e.startOfDay(now)
}

func (e *Engine) startOfDay(t time.Time) time.Time {
	local := t.In(e.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, e.loc)
}

func (e *Engine) startOfWeek(t time.Time) time.Time {
	day := e.startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func (e *Engine) startOfMonth(t time.Time) time.Time {
	local := t.In(e.loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, e.loc)
}
