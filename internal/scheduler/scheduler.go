package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/widya-labs/pustaka-api/internal/service"
)

const sweepTimeout = 4 * time.Minute

// Scheduler runs the daily closing-time sweep on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	sweeper  service.SweepService
	location *time.Location
	logger   zerolog.Logger
}

// New builds a scheduler. The cron spec is evaluated in the given location
// so the sweep fires at the library's local closing time.
func New(sweeper service.SweepService, location *time.Location, logger zerolog.Logger) *Scheduler {
	if location == nil {
		location = time.Local
	}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		sweeper:  sweeper,
		location: location,
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the sweep job under the given cron spec and begins the
// scheduler in its own goroutine.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		result, err := s.sweeper.RunDailySweep(ctx, time.Now().In(s.location))
		if err != nil {
			s.logger.Error().Err(err).Msg("daily sweep failed")
			return
		}

		s.logger.Info().
			Int("closed", result.ClosedCount).
			Int("record_errors", len(result.Errors)).
			Msg("daily sweep finished")
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().Str("spec", spec).Str("location", s.location.String()).Msg("sweep scheduled")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
