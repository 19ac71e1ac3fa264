package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/widya-labs/pustaka-api/internal/models"
	"github.com/widya-labs/pustaka-api/internal/repository"
)

func setupReportDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:report_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Activity{}, &models.AttendanceRecord{}))
	require.NoError(t, db.Exec("DELETE FROM attendance_records").Error)
	require.NoError(t, db.Exec("DELETE FROM users").Error)
	return db
}

func TestReportDashboardAggregatesToday(t *testing.T) {
	db := setupReportDB(t)

	siti := models.User{NIS: "1001", Name: "Siti", Role: models.RoleStudent, Class: "8A", PasswordHash: "x"}
	budi := models.User{NIS: "1002", Name: "Budi", Role: models.RoleStudent, Class: "8B", PasswordHash: "x"}
	require.NoError(t, db.Create(&siti).Error)
	require.NoError(t, db.Create(&budi).Error)

	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// Siti is still in the library.
	require.NoError(t, db.Create(&models.AttendanceRecord{
		UserID:      siti.ID,
		CheckInTime: today.Add(8 * time.Hour),
		Status:      models.AttendanceCheckedIn,
	}).Error)

	// Budi visited for an hour and left.
	checkedOut := today.Add(10 * time.Hour)
	duration := 60
	require.NoError(t, db.Create(&models.AttendanceRecord{
		UserID:          budi.ID,
		CheckInTime:     today.Add(9 * time.Hour),
		CheckOutTime:    &checkedOut,
		Status:          models.AttendanceCheckedOut,
		DurationMinutes: &duration,
	}).Error)

	// A visit from yesterday must not count.
	require.NoError(t, db.Create(&models.AttendanceRecord{
		UserID:      budi.ID,
		CheckInTime: today.Add(-15 * time.Hour),
		Status:      models.AttendanceCheckedIn,
	}).Error)

	svc := NewReportService(repository.NewReportRepository(db), time.UTC, zerolog.Nop()).(*reportService)
	svc.now = func() time.Time { return today.Add(11 * time.Hour) }

	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2026-03-02", dashboard.Date)
	require.Equal(t, int64(1), dashboard.ActiveCount)
	require.Equal(t, int64(2), dashboard.TotalVisitsToday)
	require.Equal(t, 60, dashboard.AvgDurationMinutes)
	require.Len(t, dashboard.WeeklyTrend, 7)
	require.Equal(t, int64(2), dashboard.WeeklyTrend[6].Visits)

	require.Len(t, dashboard.ActiveVisitors, 1)
	require.Equal(t, "Siti", dashboard.ActiveVisitors[0].Name)
	require.Equal(t, 180, dashboard.ActiveVisitors[0].MinutesSpent)
}

func TestReportMonthlyBreakdownAndTopReaders(t *testing.T) {
	db := setupReportDB(t)

	siti := models.User{NIS: "1001", Name: "Siti", Role: models.RoleStudent, Class: "8A", PasswordHash: "x"}
	budi := models.User{NIS: "1002", Name: "Budi", Role: models.RoleStudent, Class: "8B", PasswordHash: "x"}
	require.NoError(t, db.Create(&siti).Error)
	require.NoError(t, db.Create(&budi).Error)

	monthStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 3; day++ {
		require.NoError(t, db.Create(&models.AttendanceRecord{
			UserID:      siti.ID,
			CheckInTime: monthStart.AddDate(0, 0, day).Add(9 * time.Hour),
			Status:      models.AttendanceCheckedOut,
		}).Error)
	}
	require.NoError(t, db.Create(&models.AttendanceRecord{
		UserID:      budi.ID,
		CheckInTime: monthStart.Add(9 * time.Hour),
		Status:      models.AttendanceCheckedOut,
	}).Error)

	svc := NewReportService(repository.NewReportRepository(db), time.UTC, zerolog.Nop())

	report, err := svc.MonthlyReport(context.Background(), 2026, 3)
	require.NoError(t, err)
	require.Equal(t, "March", report.MonthName)
	require.Equal(t, int64(2), report.UniqueVisitors)
	require.Equal(t, int64(4), report.TotalVisits)
	require.Len(t, report.DailyBreakdown, 31)
	require.Equal(t, int64(2), report.DailyBreakdown[0].Visits)
	require.Equal(t, int64(1), report.DailyBreakdown[1].Visits)

	require.NotEmpty(t, report.TopReaders)
	require.Equal(t, "Siti", report.TopReaders[0].Name)
	require.Equal(t, int64(3), report.TopReaders[0].Visits)
}

func TestReportMonthlyCoversEveryDayAcrossDST(t *testing.T) {
	db := setupReportDB(t)

	// March 2026 loses an hour to spring-forward in this zone; the breakdown
	// must still cover all 31 days.
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	siti := models.User{NIS: "1001", Name: "Siti", Role: models.RoleStudent, Class: "8A", PasswordHash: "x"}
	require.NoError(t, db.Create(&siti).Error)

	lastDay := time.Date(2026, 3, 31, 9, 0, 0, 0, newYork)
	require.NoError(t, db.Create(&models.AttendanceRecord{
		UserID:      siti.ID,
		CheckInTime: lastDay,
		Status:      models.AttendanceCheckedOut,
	}).Error)

	svc := NewReportService(repository.NewReportRepository(db), newYork, zerolog.Nop())

	report, err := svc.MonthlyReport(context.Background(), 2026, 3)
	require.NoError(t, err)
	require.Len(t, report.DailyBreakdown, 31)
	require.Equal(t, int64(1), report.DailyBreakdown[30].Visits)
}

func TestReportMonthlyRejectsInvalidMonth(t *testing.T) {
	svc := NewReportService(repository.NewReportRepository(setupReportDB(t)), time.UTC, zerolog.Nop())

	_, err := svc.MonthlyReport(context.Background(), 2026, 13)
	require.ErrorIs(t, err, ErrInvalidMonth)
}
