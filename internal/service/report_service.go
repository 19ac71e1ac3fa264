package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/widya-labs/pustaka-api/internal/dto"
	"github.com/widya-labs/pustaka-api/internal/models"
	"github.com/widya-labs/pustaka-api/internal/repository"
)

// ErrInvalidMonth indicates an out-of-range report month.
var ErrInvalidMonth = fmt.Errorf("month must be between 1 and 12")

// ReportService aggregates attendance data for librarian and teacher views.
type ReportService interface {
	Dashboard(ctx context.Context) (dto.DashboardResponse, error)
	MonthlyReport(ctx context.Context, year, month int) (dto.MonthlyReportResponse, error)
}

type reportService struct {
	reports  repository.ReportRepository
	location *time.Location
	logger   zerolog.Logger
	now      func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(reports repository.ReportRepository, location *time.Location, logger zerolog.Logger) ReportService {
	if location == nil {
		location = time.Local
	}

	return &reportService{
		reports:  reports,
		location: location,
		logger:   logger.With().Str("component", "report_service").Logger(),
		now:      time.Now,
	}
}

func (s *reportService) Dashboard(ctx context.Context) (dto.DashboardResponse, error) {
	now := s.now()
	dayStart, dayEnd := dayBounds(now, s.location)

	activeCount, err := s.reports.CountOpenBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	totalToday, err := s.reports.CountBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	avgDuration, err := s.reports.AverageClosedDurationBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	trend := make([]dto.DailyVisitCount, 0, 7)
	for offset := 6; offset >= 0; offset-- {
		from := dayStart.AddDate(0, 0, -offset)
		to := from.AddDate(0, 0, 1)

		count, err := s.reports.CountBetween(ctx, from, to)
		if err != nil {
			return dto.DashboardResponse{}, err
		}

		trend = append(trend, dto.DailyVisitCount{
			Date:   from.Format("Mon"),
			Visits: count,
		})
	}

	activityCounts, err := s.reports.CountByActivityBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	stats := make([]dto.ActivityStat, 0, len(activityCounts))
	for _, count := range activityCounts {
		stats = append(stats, dto.ActivityStat{
			Name:  count.Name,
			Emoji: count.Emoji,
			Count: count.Count,
		})
	}

	open, err := s.reports.ListOpenWithUsersBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	visitors := make([]dto.ActiveVisitor, 0, len(open))
	for _, record := range open {
		visitors = append(visitors, dto.ActiveVisitor{
			RecordID:     record.ID,
			UserID:       record.UserID,
			Name:         record.User.Name,
			Class:        record.User.Class,
			CheckInTime:  record.CheckInTime,
			MinutesSpent: models.VisitDuration(record.CheckInTime, now),
		})
	}

	return dto.DashboardResponse{
		Date:               dayStart.Format("2006-01-02"),
		ActiveCount:        activeCount,
		TotalVisitsToday:   totalToday,
		AvgDurationMinutes: int(avgDuration),
		WeeklyTrend:        trend,
		ActivityStats:      stats,
		ActiveVisitors:     visitors,
	}, nil
}

func (s *reportService) MonthlyReport(ctx context.Context, year, month int) (dto.MonthlyReportResponse, error) {
	if month < 1 || month > 12 {
		return dto.MonthlyReportResponse{}, ErrInvalidMonth
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.location)
	monthEnd := monthStart.AddDate(0, 1, 0)
	// Day zero of the next month is the last day of this one. Elapsed-hours
	// math undercounts when the month straddles a DST transition.
	days := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, s.location).Day()

	uniqueVisitors, err := s.reports.CountDistinctVisitorsBetween(ctx, monthStart, monthEnd)
	if err != nil {
		return dto.MonthlyReportResponse{}, err
	}

	totalVisits, err := s.reports.CountBetween(ctx, monthStart, monthEnd)
	if err != nil {
		return dto.MonthlyReportResponse{}, err
	}

	breakdown := make([]dto.DailyBreakdown, 0, days)
	for day := 0; day < days; day++ {
		from := monthStart.AddDate(0, 0, day)
		to := from.AddDate(0, 0, 1)

		visits, err := s.reports.CountBetween(ctx, from, to)
		if err != nil {
			return dto.MonthlyReportResponse{}, err
		}

		visitors, err := s.reports.CountDistinctVisitorsBetween(ctx, from, to)
		if err != nil {
			return dto.MonthlyReportResponse{}, err
		}

		breakdown = append(breakdown, dto.DailyBreakdown{
			Date:     from.Format("2006-01-02"),
			Visitors: visitors,
			Visits:   visits,
		})
	}

	top, err := s.reports.TopVisitorsBetween(ctx, monthStart, monthEnd, 10)
	if err != nil {
		return dto.MonthlyReportResponse{}, err
	}

	readers := make([]dto.TopReader, 0, len(top))
	for _, visitor := range top {
		readers = append(readers, dto.TopReader{
			UserID: visitor.UserID,
			Name:   visitor.Name,
			Class:  visitor.Class,
			Visits: visitor.Count,
		})
	}

	avgDaily := 0.0
	if days > 0 {
		avgDaily = float64(uniqueVisitors) / float64(days)
	}

	return dto.MonthlyReportResponse{
		Year:             year,
		Month:            month,
		MonthName:        monthStart.Format("January"),
		UniqueVisitors:   uniqueVisitors,
		TotalVisits:      totalVisits,
		AvgDailyVisitors: avgDaily,
		DailyBreakdown:   breakdown,
		TopReaders:       readers,
	}, nil
}
