package models

import "time"

// AnalyticsPeriod selects the log window used by analytics projections.
type AnalyticsPeriod string

const (
	AnalyticsPeriodAll    AnalyticsPeriod = "all"
	AnalyticsPeriodWeek   AnalyticsPeriod = "week"
	AnalyticsPeriodMonth  AnalyticsPeriod = "month"
	AnalyticsPeriodCustom AnalyticsPeriod = "custom"
)

// Valid returns true when the period is a supported value.
func (p AnalyticsPeriod) Valid() bool {
	switch p {
	case AnalyticsPeriodAll, AnalyticsPeriodWeek, AnalyticsPeriodMonth, AnalyticsPeriodCustom:
		return true
	default:
		return false
	}
}

// AnalyticsWindow is a period with optional custom bounds (YYYY-MM-DD).
type AnalyticsWindow struct {
	Period AnalyticsPeriod `json:"period"`
	Start  string          `json:"start,omitempty"`
	End    string          `json:"end,omitempty"`
}

// BreakdownSlice is one punctuality pie slice.
type BreakdownSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// StatusBreakdown counts logs per derived status.
type StatusBreakdown struct {
	Counts map[AttendanceStatus]int `json:"counts"`
	Slices []BreakdownSlice         `json:"slices"`
	Total  int                      `json:"total"`
}

// LatenessWeek aggregates late arrivals for one Monday-start week.
type LatenessWeek struct {
	WeekStart      string `json:"weekStart"`
	Label          string `json:"label"`
	AverageMinutes int    `json:"averageMinutes"`
	LateDays       int    `json:"lateDays"`
}

// LatenessTrend is the weekly lateness series plus the overall average.
type LatenessTrend struct {
	Weeks          []LatenessWeek `json:"weeks"`
	OverallAverage int            `json:"overallAverage"`
}

// Overview summarises arrival times of tracked logs.
type Overview struct {
	AverageArrival   string `json:"averageArrival"`
	EarliestArrival  string `json:"earliestArrival"`
	LatestArrival    string `json:"latestArrival"`
	OnTimePercentage string `json:"onTimePercentage"`
	TrackedDays      int    `json:"trackedDays"`
}

// ArrivalPoint is one point of the arrival-time trend.
type ArrivalPoint struct {
	Date             string           `json:"date"`
	Label            string           `json:"label"`
	Status           AttendanceStatus `json:"status"`
	ArrivalMinutes   int              `json:"arrivalMinutes"`
	RequiredMinutes  int              `json:"requiredMinutes"`
	LateAfterMinutes int              `json:"lateAfterMinutes"`
	LatenessMinutes  int              `json:"latenessMinutes"`
}

// HeatmapDay is one cell of the calendar heatmap.
type HeatmapDay struct {
	Date   string           `json:"date"`
	Day    int              `json:"day"`
	Status AttendanceStatus `json:"status"`
}

// HeatmapMonth is one month grid. LeadingBlanks is the number of empty cells
// before the first day in a Monday-first layout.
type HeatmapMonth struct {
	Month         string       `json:"month"`
	Label         string       `json:"label"`
	LeadingBlanks int          `json:"leadingBlanks"`
	Days          []HeatmapDay `json:"days"`
}

// WeekdayStatus is one bar of the weekly overview.
type WeekdayStatus struct {
	Date   string           `json:"date"`
	Day    string           `json:"day"`
	Status AttendanceStatus `json:"status"`
	Value  int              `json:"value"`
}

// AnalyticsSummary bundles the projections shown on the analytics page.
type AnalyticsSummary struct {
	Window        AnalyticsWindow `json:"window"`
	ReferenceDate string          `json:"referenceDate"`
	Overview      Overview        `json:"overview"`
	Breakdown     StatusBreakdown `json:"breakdown"`
	LatenessTrend LatenessTrend   `json:"latenessTrend"`
	ArrivalTrend  []ArrivalPoint  `json:"arrivalTrend"`
}

// AnalyticsHeatmap is the heatmap payload for a window.
type AnalyticsHeatmap struct {
	Window        AnalyticsWindow `json:"window"`
	ReferenceDate string          `json:"referenceDate"`
	Months        []HeatmapMonth  `json:"months"`
}

// StreakSummary reports the current on-time streak.
type StreakSummary struct {
	ReferenceDate string `json:"referenceDate"`
	Streak        int    `json:"streak"`
}

// AnalyticsSystemMetrics represents system level analytics captured from instrumentation.
type AnalyticsSystemMetrics struct {
	CacheHitRatio            float64                  `json:"cache_hit_ratio"`
	CacheHits                uint64                   `json:"cache_hits"`
	CacheMisses              uint64                   `json:"cache_misses"`
	RequestsTotal            uint64                   `json:"requests_total"`
	AverageRequestDurationMs float64                  `json:"average_request_duration_ms"`
	DBQueryCount             uint64                   `json:"db_query_count"`
	AverageDBQueryDurationMs float64                  `json:"average_db_query_duration_ms"`
	DerivedStatuses          map[AttendanceStatus]int `json:"derived_statuses"`
	Goroutines               int                      `json:"goroutines"`
	GeneratedAt              time.Time                `json:"generated_at"`
}
