package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/widya-labs/pustaka-api/internal/dto"
	"github.com/widya-labs/pustaka-api/internal/models"
	"github.com/widya-labs/pustaka-api/internal/repository"
)

// ErrAlreadyCheckedIn indicates the student already has an open record today.
var ErrAlreadyCheckedIn = errors.New("already checked in today")

// ErrNotCheckedIn indicates no open record exists for the student today.
var ErrNotCheckedIn = errors.New("not checked in")

// ErrAlreadyClosed indicates the record was closed before this transition ran.
var ErrAlreadyClosed = errors.New("attendance record already closed")

// ErrAttendanceNotFound indicates the requested record does not exist.
var ErrAttendanceNotFound = errors.New("attendance record not found")

// ErrUnknownActivity indicates a selected activity id is missing or inactive.
var ErrUnknownActivity = errors.New("unknown or inactive activity")

// AttendanceService enforces the check-in/check-out state machine.
type AttendanceService interface {
	CheckIn(ctx context.Context, userID uint, payload dto.CheckInRequest) (dto.AttendanceResponse, error)
	Active(ctx context.Context, userID uint) (dto.ActiveAttendanceResponse, error)
	CheckOut(ctx context.Context, userID uint) (dto.AttendanceResponse, error)
	ForceCheckOut(ctx context.Context, recordID uint, actor AuditActor) (dto.AttendanceResponse, error)
	History(ctx context.Context, userID uint, page, pageSize int) (dto.AttendanceHistoryResponse, error)
}

type attendanceService struct {
	records    repository.AttendanceRepository
	activities repository.ActivityRepository
	audit      AuditRecorder
	validator  *validator.Validate
	location   *time.Location
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAttendanceService constructs an AttendanceService. The location defines
// the calendar-day boundary used for the one-open-record-per-day rule.
func NewAttendanceService(records repository.AttendanceRepository, activities repository.ActivityRepository, audit AuditRecorder, validate *validator.Validate, location *time.Location, logger zerolog.Logger) AttendanceService {
	if location == nil {
		location = time.Local
	}

	return &attendanceService{
		records:    records,
		activities: activities,
		audit:      audit,
		validator:  validate,
		location:   location,
		logger:     logger.With().Str("component", "attendance_service").Logger(),
		now:        time.Now,
	}
}

// dayBounds returns the half-open [start, end) window of the calendar day
// containing t, in the service's configured location.
func dayBounds(t time.Time, location *time.Location) (time.Time, time.Time) {
	local := t.In(location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location)
	return start, start.AddDate(0, 0, 1)
}

func (s *attendanceService) CheckIn(ctx context.Context, userID uint, payload dto.CheckInRequest) (dto.AttendanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AttendanceResponse{}, err
	}

	now := s.now()
	dayStart, dayEnd := dayBounds(now, s.location)

	if _, err := s.records.FindOpenForUser(ctx, userID, dayStart, dayEnd); err == nil {
		return dto.AttendanceResponse{}, ErrAlreadyCheckedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AttendanceResponse{}, err
	}

	selected, err := s.activities.GetActiveByIDs(ctx, payload.ActivityIDs)
	if err != nil {
		return dto.AttendanceResponse{}, err
	}
	if len(selected) != len(payload.ActivityIDs) {
		return dto.AttendanceResponse{}, ErrUnknownActivity
	}

	record := models.AttendanceRecord{
		UserID:         userID,
		CheckInTime:    now,
		Status:         models.AttendanceCheckedIn,
		CustomActivity: payload.CustomActivity,
		Activities:     selected,
	}

	if err := s.records.Create(ctx, &record); err != nil {
		return dto.AttendanceResponse{}, err
	}

	s.logger.Info().
		Uint("record_id", record.ID).
		Uint("user_id", userID).
		Time("check_in_time", now).
		Msg("student checked in")

	return dto.NewAttendanceResponse(record), nil
}

func (s *attendanceService) Active(ctx context.Context, userID uint) (dto.ActiveAttendanceResponse, error) {
	now := s.now()
	dayStart, dayEnd := dayBounds(now, s.location)

	record, err := s.records.FindOpenForUser(ctx, userID, dayStart, dayEnd)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActiveAttendanceResponse{}, ErrNotCheckedIn
		}
		return dto.ActiveAttendanceResponse{}, err
	}

	return dto.ActiveAttendanceResponse{
		AttendanceResponse: dto.NewAttendanceResponse(record),
		MinutesSpent:       models.VisitDuration(record.CheckInTime, now),
	}, nil
}

func (s *attendanceService) CheckOut(ctx context.Context, userID uint) (dto.AttendanceResponse, error) {
	now := s.now()
	dayStart, dayEnd := dayBounds(now, s.location)

	record, err := s.records.FindOpenForUser(ctx, userID, dayStart, dayEnd)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttendanceResponse{}, ErrNotCheckedIn
		}
		return dto.AttendanceResponse{}, err
	}

	response, err := s.close(ctx, record, now, models.AttendanceCheckedOut)
	if err != nil {
		return dto.AttendanceResponse{}, err
	}

	s.logger.Info().
		Uint("record_id", record.ID).
		Uint("user_id", userID).
		Int("duration_minutes", *response.DurationMinutes).
		Msg("student checked out")

	return response, nil
}

func (s *attendanceService) ForceCheckOut(ctx context.Context, recordID uint, actor AuditActor) (dto.AttendanceResponse, error) {
	record, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttendanceResponse{}, ErrAttendanceNotFound
		}
		return dto.AttendanceResponse{}, err
	}

	if !record.IsOpen() {
		return dto.AttendanceResponse{}, ErrAlreadyClosed
	}

	response, err := s.close(ctx, record, s.now(), models.AttendanceAutoCheckedOut)
	if err != nil {
		return dto.AttendanceResponse{}, err
	}

	s.audit.Record(ctx, actor, "force_checkout", "attendance_record", &record.ID, datatypes.JSONMap{
		"duration_minutes": *response.DurationMinutes,
	})

	return response, nil
}

// close performs the single legal transition out of checked_in. The
// conditional update guarantees that when a user checkout and the sweep race
// on the same record, exactly one wins; the loser sees ErrAlreadyClosed and
// the stored checkout time and duration are never overwritten.
func (s *attendanceService) close(ctx context.Context, record models.AttendanceRecord, at time.Time, status string) (dto.AttendanceResponse, error) {
	duration := models.VisitDuration(record.CheckInTime, at)

	closed, err := s.records.Close(ctx, record.ID, at, duration, status)
	if err != nil {
		return dto.AttendanceResponse{}, err
	}
	if !closed {
		return dto.AttendanceResponse{}, ErrAlreadyClosed
	}

	record.CheckOutTime = &at
	record.DurationMinutes = &duration
	record.Status = status

	return dto.NewAttendanceResponse(record), nil
}

func (s *attendanceService) History(ctx context.Context, userID uint, page, pageSize int) (dto.AttendanceHistoryResponse, error) {
	records, total, err := s.records.ListForUser(ctx, userID, page, pageSize)
	if err != nil {
		return dto.AttendanceHistoryResponse{}, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	return dto.AttendanceHistoryResponse{
		Records:  dto.NewAttendanceResponseSlice(records),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
