package engine

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/noah-isme/classdy-api/internal/models"
)

const (
	// heatmapLookbackDays is the default span of the "all" heatmap when no log exists.
	heatmapLookbackDays = 90
	// maxHeatmapMonths bounds the number of month grids rendered for one window.
	maxHeatmapMonths = 120

	weeklyValueMuted  = 10
	weeklyValueFilled = 100
)

// Punctuality slice names.
const (
	SliceOnTimeAndEarly = "On Time & Early"
	SliceLate           = "Late"
	SliceAbsent         = "Absent"
)

// FilterLogs keeps the logs whose date falls inside window. Week and month
// windows run from the start of the current week (Monday) or month up to now.
// A custom window includes both bounds in full and yields nothing when either
// bound is missing or malformed.
func (e *Engine) FilterLogs(logs []models.AnnotatedLog, window models.AnalyticsWindow, now time.Time) []models.AnnotatedLog {
	var start, end time.Time
	switch window.Period {
	case models.AnalyticsPeriodWeek:
		start, end = e.startOfWeek(now), now
	case models.AnalyticsPeriodMonth:
		start, end = e.startOfMonth(now), now
	case models.AnalyticsPeriodCustom:
		if window.Start == "" || window.End == "" {
			return []models.AnnotatedLog{}
		}
		var err error
		if start, err = e.ParseDate(window.Start); err != nil {
			return []models.AnnotatedLog{}
		}
		if end, err = e.ParseDate(window.End); err != nil {
			return []models.AnnotatedLog{}
		}
		end = end.AddDate(0, 0, 1).Add(-time.Millisecond)
	default:
		filtered := make([]models.AnnotatedLog, len(logs))
		copy(filtered, logs)
		return filtered
	}

	filtered := make([]models.AnnotatedLog, 0, len(logs))
	for _, log := range logs {
		day, err := e.ParseDate(log.Date)
		if err != nil {
			continue
		}
		if !day.Before(start) && !day.After(end) {
			filtered = append(filtered, log)
		}
	}
	return filtered
}

// StatusBreakdown counts logs per status and builds the punctuality slices.
// EARLY is merged into the on-time slice and empty slices are omitted.
func StatusBreakdown(logs []models.AnnotatedLog) models.StatusBreakdown {
	counts := make(map[models.AttendanceStatus]int)
	for _, log := range logs {
		counts[log.Status]++
	}

	candidates := []models.BreakdownSlice{
		{Name: SliceOnTimeAndEarly, Value: counts[models.AttendanceStatusOnTime] + counts[models.AttendanceStatusEarly]},
		{Name: SliceLate, Value: counts[models.AttendanceStatusLate]},
		{Name: SliceAbsent, Value: counts[models.AttendanceStatusAbsent]},
	}
	slices := make([]models.BreakdownSlice, 0, len(candidates))
	for _, slice := range candidates {
		if slice.Value > 0 {
			slices = append(slices, slice)
		}
	}
	return models.StatusBreakdown{Counts: counts, Slices: slices, Total: len(logs)}
}

// LatenessTrend averages lateness of LATE logs per Monday-start week.
func (e *Engine) LatenessTrend(logs []models.AnnotatedLog, schedules []models.Schedule, gracePeriod int) models.LatenessTrend {
	type bucket struct {
		start time.Time
		total int
		count int
	}
	buckets := make(map[string]*bucket)
	total, count := 0, 0
	for _, log := range logs {
		if log.Status != models.AttendanceStatusLate {
			continue
		}
		day, err := e.ParseDate(log.Date)
		if err != nil {
			continue
		}
		lateness := e.CalculateLateness(log.AttendanceLog, schedules, gracePeriod)
		weekStart := e.startOfWeek(day)
		key := e.FormatDate(weekStart)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{start: weekStart}
			buckets[key] = b
		}
		b.total += lateness
		b.count++
		total += lateness
		count++
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	trend := models.LatenessTrend{Weeks: make([]models.LatenessWeek, 0, len(keys))}
	for _, key := range keys {
		b := buckets[key]
		trend.Weeks = append(trend.Weeks, models.LatenessWeek{
			WeekStart:      key,
			Label:          b.start.Format("Jan 2"),
			AverageMinutes: roundHalfUp(float64(b.total) / float64(b.count)),
			LateDays:       b.count,
		})
	}
	if count > 0 {
		trend.OverallAverage = roundHalfUp(float64(total) / float64(count))
	}
	return trend
}

// Overview summarises arrival times over tracked logs (an arrival and a status
// of ON_TIME, LATE or EARLY). The on-time percentage counts ON_TIME and EARLY
// against every ON_TIME, LATE, EARLY or ABSENT log.
func Overview(logs []models.AnnotatedLog) models.Overview {
	overview := models.Overview{
		AverageArrival:   NoTime,
		EarliestArrival:  NoTime,
		LatestArrival:    NoTime,
		OnTimePercentage: "N/A",
	}

	sum, earliest, latest, tracked := 0, math.MaxInt, math.MinInt, 0
	for _, log := range logs {
		if !isTracked(log) {
			continue
		}
		minutes, err := TimeToMinutes(log.Arrival())
		if err != nil {
			continue
		}
		sum += minutes
		if minutes < earliest {
			earliest = minutes
		}
		if minutes > latest {
			latest = minutes
		}
		tracked++
	}
	if tracked == 0 {
		return overview
	}

	punctual, counted := 0, 0
	for _, log := range logs {
		switch log.Status {
		case models.AttendanceStatusOnTime, models.AttendanceStatusEarly:
			punctual++
			counted++
		case models.AttendanceStatusLate, models.AttendanceStatusAbsent:
			counted++
		}
	}

	overview.TrackedDays = tracked
	overview.AverageArrival = MinutesToTime(float64(sum) / float64(tracked))
	overview.EarliestArrival = MinutesToTime(float64(earliest))
	overview.LatestArrival = MinutesToTime(float64(latest))
	percentage := 0
	if counted > 0 {
		percentage = roundHalfUp(float64(punctual) / float64(counted) * 100)
	}
	overview.OnTimePercentage = fmt.Sprintf("%d%%", percentage)
	return overview
}

// ArrivalTrend returns one point per tracked log whose day has a physical
// session, ordered by date.
func (e *Engine) ArrivalTrend(
	logs []models.AnnotatedLog,
	schedules []models.Schedule,
	gracePeriod int,
	period models.AnalyticsPeriod,
) []models.ArrivalPoint {
	labelLayout := "Jan 2"
	if period == models.AnalyticsPeriodAll {
		labelLayout = "Jan 2, 06"
	}

	points := make([]models.ArrivalPoint, 0, len(logs))
	for _, log := range logs {
		if !isTracked(log) {
			continue
		}
		day, err := e.ParseDate(log.Date)
		if err != nil {
			continue
		}
		_, session := e.requiredSession(day, schedules)
		if session == nil {
			continue
		}
		arrival, err := TimeToMinutes(log.Arrival())
		if err != nil {
			continue
		}
		required, err := TimeToMinutes(session.StartTime)
		if err != nil {
			continue
		}
		point := models.ArrivalPoint{
			Date:             log.Date,
			Label:            day.Format(labelLayout),
			Status:           log.Status,
			ArrivalMinutes:   arrival,
			RequiredMinutes:  required,
			LateAfterMinutes: required + gracePeriod,
		}
		if log.Status == models.AttendanceStatusLate {
			point.LatenessMinutes = e.CalculateLateness(log.AttendanceLog, schedules, gracePeriod)
		}
		points = append(points, point)
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

// Heatmap renders month grids covering window. Every day's status is computed
// from its log, or from no arrival when unlogged. The "all" window starts at
// the earliest log, or 90 days back when there are none, and ends today. At
// most maxHeatmapMonths grids are returned, ending with the month of the range end.
func (e *Engine) Heatmap(
	window models.AnalyticsWindow,
	logs []models.AnnotatedLog,
	schedules []models.Schedule,
	gracePeriod int,
	holidays []models.Holiday,
	now time.Time,
) []models.HeatmapMonth {
	rangeStart, rangeEnd := e.heatmapRange(window, logs, now)

	byDate := make(map[string]models.AnnotatedLog, len(logs))
	for _, log := range logs {
		byDate[log.Date] = log
	}

	months := make([]models.HeatmapMonth, 0)
	last := e.startOfMonth(rangeEnd)
	// The cap keeps the most recent months.
	if earliest := last.AddDate(0, -(maxHeatmapMonths - 1), 0); rangeStart.Before(earliest) {
		rangeStart = earliest
	}
	for month := e.startOfMonth(rangeStart); !month.After(last) && len(months) < maxHeatmapMonths; month = month.AddDate(0, 1, 0) {
		grid := models.HeatmapMonth{
			Month:         month.Format("2006-01"),
			Label:         month.Format("January 2006"),
			LeadingBlanks: (int(month.Weekday()) + 6) % 7,
		}
		for day := month; day.Month() == month.Month(); day = day.AddDate(0, 0, 1) {
			date := e.FormatDate(day)
			var arrival *string
			tag := models.StatusTagNone
			if log, ok := byDate[date]; ok {
				arrival = log.ArrivalTime
				tag = log.StatusTag
			}
			grid.Days = append(grid.Days, models.HeatmapDay{
				Date:   date,
				Day:    day.Day(),
				Status: e.ComputeStatus(date, arrival, schedules, gracePeriod, holidays, tag, now),
			})
		}
		months = append(months, grid)
	}
	return months
}

func (e *Engine) heatmapRange(window models.AnalyticsWindow, logs []models.AnnotatedLog, now time.Time) (time.Time, time.Time) {
	today := e.startOfDay(now)
	switch window.Period {
	case models.AnalyticsPeriodWeek:
		start := e.startOfWeek(now)
		return start, start.AddDate(0, 0, 6)
	case models.AnalyticsPeriodMonth:
		start := e.startOfMonth(now)
		return start, start.AddDate(0, 1, -1)
	case models.AnalyticsPeriodCustom:
		start, errStart := e.ParseDate(window.Start)
		end, errEnd := e.ParseDate(window.End)
		if errStart != nil || errEnd != nil {
			start = e.startOfMonth(now)
			return start, start.AddDate(0, 1, -1)
		}
		return start, end
	default:
		start := today.AddDate(0, 0, -heatmapLookbackDays)
		found := false
		for _, log := range logs {
			day, err := e.ParseDate(log.Date)
			if err != nil {
				continue
			}
			if !found || day.Before(start) {
				start = day
				found = true
			}
		}
		return start, today
	}
}

// WeeklyOverview describes Monday to Sunday of the current week. A holiday
// wins over a logged status; unlogged days fall back to NO_SCHEDULE, DAY_OFF,
// then ABSENT for past days or NO_ENTRY.
func (e *Engine) WeeklyOverview(
	logs []models.AnnotatedLog,
	schedules []models.Schedule,
	holidays []models.Holiday,
	now time.Time,
) []models.WeekdayStatus {
	statuses := make(map[string]models.AttendanceStatus, len(logs))
	for _, log := range logs {
		statuses[log.Date] = log.Status
	}

	today := e.startOfDay(now)
	start := e.startOfWeek(now)
	week := make([]models.WeekdayStatus, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		date := e.FormatDate(day)

		var status models.AttendanceStatus
		if isHoliday(date, holidays) {
			status = models.AttendanceStatusHoliday
		} else if logged, ok := statuses[date]; ok {
			status = logged
		} else if schedule, session := e.requiredSession(day, schedules); schedule == nil {
			status = models.AttendanceStatusNoSchedule
		} else if session == nil {
			status = models.AttendanceStatusDayOff
		} else if day.Before(today) {
			status = models.AttendanceStatusAbsent
		} else {
			status = models.AttendanceStatusNoEntry
		}

		value := weeklyValueFilled
		switch status {
		case models.AttendanceStatusNoEntry, models.AttendanceStatusDayOff, models.AttendanceStatusNoSchedule:
			value = weeklyValueMuted
		}
		week = append(week, models.WeekdayStatus{Date: date, Day: day.Format("Mon"), Status: status, Value: value})
	}
	return week
}

func isTracked(log models.AnnotatedLog) bool {
	if log.Arrival() == "" {
		return false
	}
	switch log.Status {
	case models.AttendanceStatusOnTime, models.AttendanceStatusLate, models.AttendanceStatusEarly:
		return true
	default:
		return false
	}
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
