package models

// DashboardSession is a session of today's schedule with its pending task count.
type DashboardSession struct {
	ClassSession
	PendingTasks int `json:"pendingTasks"`
}

// DashboardToday is the home screen payload.
type DashboardToday struct {
	Date            string             `json:"date"`
	Status          AttendanceStatus   `json:"status"`
	StatusLabel     string             `json:"statusLabel"`
	Log             *AttendanceLog     `json:"log,omitempty"`
	LatenessMinutes int                `json:"latenessMinutes"`
	RequiredArrival string             `json:"requiredArrival"`
	Schedule        *Schedule          `json:"schedule,omitempty"`
	Sessions        []DashboardSession `json:"sessions"`
	WeeklyOverview  []WeekdayStatus    `json:"weeklyOverview"`
	Streak          int                `json:"streak"`
	RecentLogs      []AnnotatedLog     `json:"recentLogs"`
}
