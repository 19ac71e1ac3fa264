package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/widya-labs/pustaka-api/internal/models"
)

// ActivityVisitCount pairs an activity with its visit count for a window.
type ActivityVisitCount struct {
	ActivityID uint
	Name       string
	Emoji      string
	Count      int64
}

// VisitorCount aggregates visits per student for ranking.
type VisitorCount struct {
	UserID uint
	Name   string
	Class  string
	Count  int64
}

// ReportRepository supplies aggregate queries for the librarian dashboard
// and monthly reports.
type ReportRepository interface {
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountOpenBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountDistinctVisitorsBetween(ctx context.Context, from, to time.Time) (int64, error)
	AverageClosedDurationBetween(ctx context.Context, from, to time.Time) (float64, error)
	CountByActivityBetween(ctx context.Context, from, to time.Time) ([]ActivityVisitCount, error)
	ListOpenWithUsersBetween(ctx context.Context, from, to time.Time) ([]models.AttendanceRecord, error)
	TopVisitorsBetween(ctx context.Context, from, to time.Time, limit int) ([]VisitorCount, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository constructs a report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("check_in_time >= ? AND check_in_time < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *reportRepository) CountOpenBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("status = ?", models.AttendanceCheckedIn).
		Where("check_in_time >= ? AND check_in_time < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *reportRepository) CountDistinctVisitorsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("check_in_time >= ? AND check_in_time < ?", from, to).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

func (r *reportRepository) AverageClosedDurationBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("status IN ?", []string{models.AttendanceCheckedOut, models.AttendanceAutoCheckedOut}).
		Where("check_in_time >= ? AND check_in_time < ?", from, to).
		Select("AVG(duration_minutes)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

func (r *reportRepository) CountByActivityBetween(ctx context.Context, from, to time.Time) ([]ActivityVisitCount, error) {
	var counts []ActivityVisitCount
	err := r.db.WithContext(ctx).
		Table("attendance_activities").
		Select("activities.id AS activity_id, activities.name, activities.emoji, COUNT(*) AS count").
		Joins("JOIN activities ON activities.id = attendance_activities.activity_id").
		Joins("JOIN attendance_records ON attendance_records.id = attendance_activities.attendance_record_id").
		Where("attendance_records.check_in_time >= ? AND attendance_records.check_in_time < ?", from, to).
		Group("activities.id, activities.name, activities.emoji").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}

func (r *reportRepository) ListOpenWithUsersBetween(ctx context.Context, from, to time.Time) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Activities").
		Where("status = ?", models.AttendanceCheckedIn).
		Where("check_in_time >= ? AND check_in_time < ?", from, to).
		Order("check_in_time DESC").
		Find(&records).Error
	return records, err
}

func (r *reportRepository) TopVisitorsBetween(ctx context.Context, from, to time.Time, limit int) ([]VisitorCount, error) {
	if limit <= 0 {
		limit = 10
	}

	var visitors []VisitorCount
	err := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Select("users.id AS user_id, users.name, users.class, COUNT(*) AS count").
		Joins("JOIN users ON users.id = attendance_records.user_id").
		Where("attendance_records.check_in_time >= ? AND attendance_records.check_in_time < ?", from, to).
		Group("users.id, users.name, users.class").
		Order("count DESC").
		Limit(limit).
		Scan(&visitors).Error
	return visitors, err
}
