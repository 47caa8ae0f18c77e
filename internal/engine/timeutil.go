package engine

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the calendar date format used by logs, schedules and holidays.
const DateLayout = "2006-01-02"

// ClockLayout is the 24-hour wall-clock format of arrival and session times.
const ClockLayout = "15:04"

// NoTime is displayed in place of a missing or invalid time.
const NoTime = "--:--"

const minutesPerDay = 24 * 60

// TimeToMinutes parses a zero-padded HH:mm clock value into minutes since
// midnight. Unpadded hours are rejected so stored times keep sorting as strings.
func TimeToMinutes(clock string) (int, error) {
	if len(clock) != len(ClockLayout) {
		return 0, fmt.Errorf("parse clock %q: want HH:mm", clock)
	}
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinutesToTime formats minutes since midnight as a 12-hour clock such as
// "9:05 AM". Values are rounded and wrapped to a single day.
func MinutesToTime(minutes float64) string {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes < 0 {
		return NoTime
	}
	total := int(math.Floor(minutes+0.5)) % minutesPerDay
	return time.Date(2000, time.January, 1, total/60, total%60, 0, 0, time.UTC).Format("3:04 PM")
}

// FormatClock renders an HH:mm value as a 12-hour clock.
func FormatClock(clock string) string {
	if clock == "" {
		return NoTime
	}
	minutes, err := TimeToMinutes(clock)
	if err != nil {
		return NoTime
	}
	return MinutesToTime(float64(minutes))
}

// AxisLabel renders minutes since midnight as a zero padded HH:mm label.
func AxisLabel(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a YYYY-MM-DD value as midnight in the engine location.
func (e *Engine) ParseDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, e.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return t, nil
}

// FormatDate renders a time as YYYY-MM-DD in the engine location.
func (e *Engine) FormatDate(t time.Time) string {
	return t.In(e.loc).Format(DateLayout)
}

// CombineDateTime attaches an HH:mm wall-clock time to a calendar date without
// any timezone conversion.
func (e *Engine) CombineDateTime(date, clock string) (time.Time, error) {
	day, err := e.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := TimeToMinutes(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, e.loc), nil
}
