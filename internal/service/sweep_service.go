package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/widya-labs/pustaka-api/internal/models"
	"github.com/widya-labs/pustaka-api/internal/observability"
	"github.com/widya-labs/pustaka-api/internal/repository"
)

// SweepResult summarises one auto-checkout sweep execution.
type SweepResult struct {
	ClosedCount int
	Errors      map[uint]error
}

// SweepService force-closes every attendance record still open for the
// current calendar day. Invoked once per day at library closing time by the
// scheduler; safe to run repeatedly.
type SweepService interface {
	RunDailySweep(ctx context.Context, now time.Time) (SweepResult, error)
}

type sweepService struct {
	records  repository.AttendanceRepository
	audit    AuditRecorder
	location *time.Location
	logger   zerolog.Logger
}

// NewSweepService constructs a SweepService sharing the attendance
// repository's conditional-close contract.
func NewSweepService(records repository.AttendanceRepository, audit AuditRecorder, location *time.Location, logger zerolog.Logger) SweepService {
	if location == nil {
		location = time.Local
	}

	return &sweepService{
		records:  records,
		audit:    audit,
		location: location,
		logger:   logger.With().Str("component", "sweep_service").Logger(),
	}
}

// RunDailySweep snapshots the day's open records once, then closes each with
// the auto_checked_out status. A per-record failure is collected and the
// sweep continues; only a failure reading the candidate set fails the sweep.
// Records opened after the snapshot is read are not included.
func (s *sweepService) RunDailySweep(ctx context.Context, now time.Time) (SweepResult, error) {
	observability.SweepRuns().Inc()

	dayStart, dayEnd := dayBounds(now, s.location)

	candidates, err := s.records.ListOpenBetween(ctx, dayStart, dayEnd)
	if err != nil {
		observability.SweepFailures().Inc()
		s.logger.Error().Err(err).Msg("sweep aborted: failed to read open attendance records")
		return SweepResult{}, fmt.Errorf("failed to list open attendance records: %w", err)
	}

	result := SweepResult{Errors: map[uint]error{}}

	for _, record := range candidates {
		duration := models.VisitDuration(record.CheckInTime, now)

		closed, err := s.records.Close(ctx, record.ID, now, duration, models.AttendanceAutoCheckedOut)
		if err != nil {
			result.Errors[record.ID] = err
			s.logger.Error().Err(err).Uint("record_id", record.ID).Msg("failed to auto-close attendance record")
			continue
		}
		if !closed {
			// Lost the race to a concurrent student checkout. Nothing to do.
			continue
		}

		result.ClosedCount++
	}

	observability.SweepRecordsClosed().Add(float64(result.ClosedCount))
	observability.SweepRecordErrors().Add(float64(len(result.Errors)))

	s.logger.Info().
		Time("sweep_time", now).
		Int("candidates", len(candidates)).
		Int("closed", result.ClosedCount).
		Int("errors", len(result.Errors)).
		Msg("auto-checkout sweep completed")

	s.audit.Record(ctx, SystemActor, "auto_checkout_sweep", "attendance_record", nil, datatypes.JSONMap{
		"closed": result.ClosedCount,
		"errors": len(result.Errors),
	})

	return result, nil
}
