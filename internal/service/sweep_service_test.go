package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/widya-labs/pustaka-api/internal/models"
)

func TestSweepClosesOpenRecordsWithFullDuration(t *testing.T) {
	repo := newStubAttendanceRepo()
	audit := &stubAuditRecorder{}
	svc := NewSweepService(repo, audit, time.UTC, zerolog.Nop())

	checkIn := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	require.NoError(t, repo.Create(context.Background(), &models.AttendanceRecord{
		UserID:      7,
		CheckInTime: checkIn,
		Status:      models.AttendanceCheckedIn,
	}))

	sweepAt := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	result, err := svc.RunDailySweep(context.Background(), sweepAt)
	require.NoError(t, err)
	require.Equal(t, 1, result.ClosedCount)
	require.Empty(t, result.Errors)

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, models.AttendanceAutoCheckedOut, stored.Status)
	require.Equal(t, 390, *stored.DurationMinutes)
	require.Equal(t, sweepAt, *stored.CheckOutTime)
	require.Equal(t, []string{"auto_checkout_sweep"}, audit.actions)
}

func TestSweepLeavesClosedRecordsUntouched(t *testing.T) {
	repo := newStubAttendanceRepo()
	svc := NewSweepService(repo, &stubAuditRecorder{}, time.UTC, zerolog.Nop())

	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(10 * time.Minute)
	duration := 10
	require.NoError(t, repo.Create(context.Background(), &models.AttendanceRecord{
		UserID:          7,
		CheckInTime:     checkIn,
		CheckOutTime:    &checkOut,
		Status:          models.AttendanceCheckedOut,
		DurationMinutes: &duration,
	}))

	result, err := svc.RunDailySweep(context.Background(), time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 0, result.ClosedCount)

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, models.AttendanceCheckedOut, stored.Status)
	require.Equal(t, 10, *stored.DurationMinutes)
	require.Equal(t, checkOut, *stored.CheckOutTime)
}

func TestSweepIsIdempotent(t *testing.T) {
	repo := newStubAttendanceRepo()
	svc := NewSweepService(repo, &stubAuditRecorder{}, time.UTC, zerolog.Nop())

	require.NoError(t, repo.Create(context.Background(), &models.AttendanceRecord{
		UserID:      7,
		CheckInTime: time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC),
		Status:      models.AttendanceCheckedIn,
	}))

	sweepAt := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

	first, err := svc.RunDailySweep(context.Background(), sweepAt)
	require.NoError(t, err)
	require.Equal(t, 1, first.ClosedCount)

	second, err := svc.RunDailySweep(context.Background(), sweepAt)
	require.NoError(t, err)
	require.Equal(t, 0, second.ClosedCount)
	require.Empty(t, second.Errors)
}

func TestSweepCollectsPerRecordErrorsAndContinues(t *testing.T) {
	repo := newStubAttendanceRepo()
	svc := NewSweepService(repo, &stubAuditRecorder{}, time.UTC, zerolog.Nop())

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(context.Background(), &models.AttendanceRecord{
			UserID:      uint(10 + i),
			CheckInTime: day.Add(time.Duration(8+i) * time.Hour),
			Status:      models.AttendanceCheckedIn,
		}))
	}
	repo.closeErrors[2] = errors.New("connection reset")

	result, err := svc.RunDailySweep(context.Background(), day.Add(15*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 2, result.ClosedCount)
	require.Len(t, result.Errors, 1)
	require.EqualError(t, result.Errors[2], "connection reset")
}

func TestSweepFailsWhenCandidateReadFails(t *testing.T) {
	repo := newStubAttendanceRepo()
	repo.listErr = errors.New("database unavailable")
	svc := NewSweepService(repo, &stubAuditRecorder{}, time.UTC, zerolog.Nop())

	_, err := svc.RunDailySweep(context.Background(), time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC))
	require.Error(t, err)
	require.Contains(t, err.Error(), "database unavailable")
}

func TestSweepIgnoresRecordsFromOtherDays(t *testing.T) {
	repo := newStubAttendanceRepo()
	svc := NewSweepService(repo, &stubAuditRecorder{}, time.UTC, zerolog.Nop())

	require.NoError(t, repo.Create(context.Background(), &models.AttendanceRecord{
		UserID:      7,
		CheckInTime: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Status:      models.AttendanceCheckedIn,
	}))

	result, err := svc.RunDailySweep(context.Background(), time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 0, result.ClosedCount)
}
