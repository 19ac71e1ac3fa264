package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/widya-labs/pustaka-api/internal/models"
)

// AttendanceRepository provides access to attendance records.
type AttendanceRepository interface {
	Create(ctx context.Context, record *models.AttendanceRecord) error
	GetByID(ctx context.Context, id uint) (models.AttendanceRecord, error)
	// FindOpenForUser returns the user's open record whose check-in falls
	// inside [dayStart, dayEnd), or gorm.ErrRecordNotFound.
	FindOpenForUser(ctx context.Context, userID uint, dayStart, dayEnd time.Time) (models.AttendanceRecord, error)
	// ListOpenBetween snapshots every open record for the given day window.
	ListOpenBetween(ctx context.Context, dayStart, dayEnd time.Time) ([]models.AttendanceRecord, error)
	// Close conditionally closes a record. The update only applies while the
	// record is still checked_in, so a racing checkout and sweep cannot both
	// win; the loser observes closed == false.
	Close(ctx context.Context, id uint, checkOut time.Time, durationMinutes int, status string) (bool, error)
	ListForUser(ctx context.Context, userID uint, page, pageSize int) ([]models.AttendanceRecord, int64, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository constructs an attendance repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepository) GetByID(ctx context.Context, id uint) (models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Activities").
		Preload("User").
		First(&record, id).Error
	if err != nil {
		return models.AttendanceRecord{}, err
	}

	return record, nil
}

func (r *attendanceRepository) FindOpenForUser(ctx context.Context, userID uint, dayStart, dayEnd time.Time) (models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Activities").
		Where("user_id = ?", userID).
		Where("status = ?", models.AttendanceCheckedIn).
		Where("check_in_time >= ? AND check_in_time < ?", dayStart, dayEnd).
		First(&record).Error
	if err != nil {
		return models.AttendanceRecord{}, err
	}

	return record, nil
}

func (r *attendanceRepository) ListOpenBetween(ctx context.Context, dayStart, dayEnd time.Time) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("status = ?", models.AttendanceCheckedIn).
		Where("check_in_time >= ? AND check_in_time < ?", dayStart, dayEnd).
		Order("check_in_time ASC").
		Find(&records).Error
	return records, err
}

func (r *attendanceRepository) Close(ctx context.Context, id uint, checkOut time.Time, durationMinutes int, status string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("id = ? AND status = ?", id, models.AttendanceCheckedIn).
		Updates(map[string]interface{}{
			"check_out_time":   checkOut,
			"duration_minutes": durationMinutes,
			"status":           status,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *attendanceRepository) ListForUser(ctx context.Context, userID uint, page, pageSize int) ([]models.AttendanceRecord, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if pageSize <= 0 {
		pageSize = 20
	}
	if page < 1 {
		page = 1
	}

	var records []models.AttendanceRecord
	err := query.
		Preload("Activities").
		Order("check_in_time DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	return records, total, err
}
