package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/widya-labs/pustaka-api/internal/dto"
	"github.com/widya-labs/pustaka-api/internal/models"
)

type stubAttendanceRepo struct {
	nextID      uint
	records     map[uint]*models.AttendanceRecord
	closeErrors map[uint]error
	listErr     error
}

func newStubAttendanceRepo() *stubAttendanceRepo {
	return &stubAttendanceRepo{records: map[uint]*models.AttendanceRecord{}, closeErrors: map[uint]error{}}
}

func (s *stubAttendanceRepo) Create(ctx context.Context, record *models.AttendanceRecord) error {
	s.nextID++
	record.ID = s.nextID
	clone := *record
	s.records[record.ID] = &clone
	return nil
}

func (s *stubAttendanceRepo) GetByID(ctx context.Context, id uint) (models.AttendanceRecord, error) {
	record, ok := s.records[id]
	if !ok {
		return models.AttendanceRecord{}, gorm.ErrRecordNotFound
	}
	return *record, nil
}

func (s *stubAttendanceRepo) FindOpenForUser(ctx context.Context, userID uint, dayStart, dayEnd time.Time) (models.AttendanceRecord, error) {
	for _, record := range s.records {
		if record.UserID == userID && record.Status == models.AttendanceCheckedIn &&
			!record.CheckInTime.Before(dayStart) && record.CheckInTime.Before(dayEnd) {
			return *record, nil
		}
	}
	return models.AttendanceRecord{}, gorm.ErrRecordNotFound
}

func (s *stubAttendanceRepo) ListOpenBetween(ctx context.Context, dayStart, dayEnd time.Time) ([]models.AttendanceRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var open []models.AttendanceRecord
	for _, record := range s.records {
		if record.Status == models.AttendanceCheckedIn &&
			!record.CheckInTime.Before(dayStart) && record.CheckInTime.Before(dayEnd) {
			open = append(open, *record)
		}
	}
	return open, nil
}

func (s *stubAttendanceRepo) Close(ctx context.Context, id uint, checkOut time.Time, durationMinutes int, status string) (bool, error) {
	if err := s.closeErrors[id]; err != nil {
		return false, err
	}
	record, ok := s.records[id]
	if !ok || record.Status != models.AttendanceCheckedIn {
		return false, nil
	}
	record.CheckOutTime = &checkOut
	record.DurationMinutes = &durationMinutes
	record.Status = status
	return true, nil
}

func (s *stubAttendanceRepo) ListForUser(ctx context.Context, userID uint, page, pageSize int) ([]models.AttendanceRecord, int64, error) {
	var records []models.AttendanceRecord
	for _, record := range s.records {
		if record.UserID == userID {
			records = append(records, *record)
		}
	}
	return records, int64(len(records)), nil
}

type stubActivityRepo struct {
	activities map[uint]models.Activity
}

func (s *stubActivityRepo) ListActive(ctx context.Context) ([]models.Activity, error) {
	var active []models.Activity
	for _, activity := range s.activities {
		active = append(active, activity)
	}
	return active, nil
}

func (s *stubActivityRepo) GetActiveByIDs(ctx context.Context, ids []uint) ([]models.Activity, error) {
	var found []models.Activity
	for _, id := range ids {
		if activity, ok := s.activities[id]; ok {
			found = append(found, activity)
		}
	}
	return found, nil
}

func (s *stubActivityRepo) SeedDefaults(ctx context.Context, activities []models.Activity) (int64, error) {
	return 0, nil
}

type stubAuditRecorder struct {
	actions []string
}

func (s *stubAuditRecorder) Record(ctx context.Context, actor AuditActor, action, entityType string, entityID *uint, metadata datatypes.JSONMap) {
	s.actions = append(s.actions, action)
}

func newAttendanceServiceForTest(repo *stubAttendanceRepo, now time.Time) (*attendanceService, *stubAuditRecorder) {
	audit := &stubAuditRecorder{}
	activities := &stubActivityRepo{activities: map[uint]models.Activity{
		1: {ID: 1, Name: "Membaca Buku", IsActive: true},
	}}
	svc := NewAttendanceService(repo, activities, audit, validator.New(validator.WithRequiredStructEnabled()), time.UTC, zerolog.Nop()).(*attendanceService)
	svc.now = func() time.Time { return now }
	return svc, audit
}

func TestAttendanceCheckOutComputesDuration(t *testing.T) {
	repo := newStubAttendanceRepo()
	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc, _ := newAttendanceServiceForTest(repo, checkIn)

	created, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{ActivityIDs: []uint{1}})
	require.NoError(t, err)
	require.Equal(t, models.AttendanceCheckedIn, created.Status)

	svc.now = func() time.Time { return checkIn.Add(45 * time.Minute) }

	closed, err := svc.CheckOut(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, models.AttendanceCheckedOut, closed.Status)
	require.NotNil(t, closed.DurationMinutes)
	require.Equal(t, 45, *closed.DurationMinutes)
	require.NotNil(t, closed.CheckOutTime)
	require.Equal(t, checkIn.Add(45*time.Minute), *closed.CheckOutTime)
}

func TestAttendanceCheckOutAtCheckInTimeIsZeroMinutes(t *testing.T) {
	repo := newStubAttendanceRepo()
	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc, _ := newAttendanceServiceForTest(repo, checkIn)

	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{})
	require.NoError(t, err)

	closed, err := svc.CheckOut(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 0, *closed.DurationMinutes)
}

func TestAttendanceSecondCheckInSameDayRejected(t *testing.T) {
	repo := newStubAttendanceRepo()
	checkIn := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	svc, _ := newAttendanceServiceForTest(repo, checkIn)

	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{})
	require.NoError(t, err)

	svc.now = func() time.Time { return checkIn.Add(2 * time.Hour) }

	_, err = svc.CheckIn(context.Background(), 7, dto.CheckInRequest{})
	require.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestAttendanceCheckInAllowedAfterCheckout(t *testing.T) {
	repo := newStubAttendanceRepo()
	checkIn := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	svc, _ := newAttendanceServiceForTest(repo, checkIn)

	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{})
	require.NoError(t, err)

	svc.now = func() time.Time { return checkIn.Add(time.Hour) }
	_, err = svc.CheckOut(context.Background(), 7)
	require.NoError(t, err)

	svc.now = func() time.Time { return checkIn.Add(3 * time.Hour) }
	second, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{})
	require.NoError(t, err)
	require.Equal(t, models.AttendanceCheckedIn, second.Status)
}

func TestAttendanceCheckOutWithoutOpenRecord(t *testing.T) {
	repo := newStubAttendanceRepo()
	svc, _ := newAttendanceServiceForTest(repo, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	_, err := svc.CheckOut(context.Background(), 7)
	require.ErrorIs(t, err, ErrNotCheckedIn)
}

func TestAttendanceCheckInUnknownActivityRejected(t *testing.T) {
	repo := newStubAttendanceRepo()
	svc, _ := newAttendanceServiceForTest(repo, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{ActivityIDs: []uint{1, 99}})
	require.ErrorIs(t, err, ErrUnknownActivity)
}

func TestAttendanceForceCheckOutOnClosedRecord(t *testing.T) {
	repo := newStubAttendanceRepo()
	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc, audit := newAttendanceServiceForTest(repo, checkIn)

	created, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{})
	require.NoError(t, err)

	svc.now = func() time.Time { return checkIn.Add(10 * time.Minute) }
	_, err = svc.CheckOut(context.Background(), 7)
	require.NoError(t, err)

	_, err = svc.ForceCheckOut(context.Background(), created.ID, AuditActor{ID: 3, Role: models.RoleLibrarian})
	require.ErrorIs(t, err, ErrAlreadyClosed)
	require.Empty(t, audit.actions)
}

func TestAttendanceForceCheckOutClosesAndAudits(t *testing.T) {
	repo := newStubAttendanceRepo()
	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc, audit := newAttendanceServiceForTest(repo, checkIn)

	created, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{})
	require.NoError(t, err)

	svc.now = func() time.Time { return checkIn.Add(30 * time.Minute) }

	closed, err := svc.ForceCheckOut(context.Background(), created.ID, AuditActor{ID: 3, Role: models.RoleLibrarian})
	require.NoError(t, err)
	require.Equal(t, models.AttendanceAutoCheckedOut, closed.Status)
	require.Equal(t, 30, *closed.DurationMinutes)
	require.Equal(t, []string{"force_checkout"}, audit.actions)
}

func TestAttendanceActiveReportsMinutesSpent(t *testing.T) {
	repo := newStubAttendanceRepo()
	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc, _ := newAttendanceServiceForTest(repo, checkIn)

	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{})
	require.NoError(t, err)

	svc.now = func() time.Time { return checkIn.Add(25 * time.Minute) }

	active, err := svc.Active(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 25, active.MinutesSpent)
	require.Equal(t, models.AttendanceCheckedIn, active.Status)
}

func TestAttendanceCloseLosingRaceReturnsAlreadyClosed(t *testing.T) {
	repo := newStubAttendanceRepo()
	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc, _ := newAttendanceServiceForTest(repo, checkIn)

	_, err := svc.CheckIn(context.Background(), 7, dto.CheckInRequest{})
	require.NoError(t, err)

	// Simulate the sweep winning between the read and the close.
	record, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	winner, err := repo.Close(context.Background(), record.ID, checkIn.Add(time.Hour), 60, models.AttendanceAutoCheckedOut)
	require.NoError(t, err)
	require.True(t, winner)

	svc.now = func() time.Time { return checkIn.Add(90 * time.Minute) }
	_, err = svc.close(context.Background(), record, svc.now(), models.AttendanceCheckedOut)
	require.ErrorIs(t, err, ErrAlreadyClosed)

	// The winner's checkout time and duration survive.
	stored, err := repo.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	require.Equal(t, 60, *stored.DurationMinutes)
	require.Equal(t, models.AttendanceAutoCheckedOut, stored.Status)
}

func TestDayBoundsUseConfiguredLocation(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 23:30 UTC on March 1st is already March 2nd in Jakarta (UTC+7).
	instant := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	start, end := dayBounds(instant, jakarta)

	require.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, jakarta), start)
	require.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, jakarta), end)
}

func TestErrorVariablesAreDistinct(t *testing.T) {
	sentinels := []error{ErrAlreadyCheckedIn, ErrNotCheckedIn, ErrAlreadyClosed, ErrAttendanceNotFound, ErrUnknownActivity}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				require.False(t, errors.Is(a, b))
			}
		}
	}
}
