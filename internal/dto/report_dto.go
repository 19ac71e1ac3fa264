package dto

import "time"

// DailyVisitCount is one point in the dashboard trend.
type DailyVisitCount struct {
	Date   string `json:"date"`
	Visits int64  `json:"visits"`
}

// ActivityStat reports how many of today's visits selected an activity.
type ActivityStat struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Count int64  `json:"count"`
}

// ActiveVisitor describes one currently checked-in student.
type ActiveVisitor struct {
	RecordID     uint      `json:"record_id"`
	UserID       uint      `json:"user_id"`
	Name         string    `json:"name"`
	Class        string    `json:"class,omitempty"`
	CheckInTime  time.Time `json:"check_in_time"`
	MinutesSpent int       `json:"minutes_spent"`
}

// DashboardResponse is the librarian's realtime view.
type DashboardResponse struct {
	Date               string            `json:"date"`
	ActiveCount        int64             `json:"active_count"`
	TotalVisitsToday   int64             `json:"total_visits_today"`
	AvgDurationMinutes int               `json:"avg_duration_minutes"`
	WeeklyTrend        []DailyVisitCount `json:"weekly_trend"`
	ActivityStats      []ActivityStat    `json:"activity_stats"`
	ActiveVisitors     []ActiveVisitor   `json:"active_visitors"`
}

// DailyBreakdown is one day inside a monthly report.
type DailyBreakdown struct {
	Date     string `json:"date"`
	Visitors int64  `json:"visitors"`
	Visits   int64  `json:"visits"`
}

// TopReader ranks a student by visit count within a month.
type TopReader struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Class  string `json:"class,omitempty"`
	Visits int64  `json:"visits"`
}

// MonthlyReportResponse summarises attendance for one calendar month.
type MonthlyReportResponse struct {
	Year             int              `json:"year"`
	Month            int              `json:"month"`
	MonthName        string           `json:"month_name"`
	UniqueVisitors   int64            `json:"unique_visitors"`
	TotalVisits      int64            `json:"total_visits"`
	AvgDailyVisitors float64          `json:"avg_daily_visitors"`
	DailyBreakdown   []DailyBreakdown `json:"daily_breakdown"`
	TopReaders       []TopReader      `json:"top_readers"`
}
