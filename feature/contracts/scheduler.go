package contracts

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Scheduler runs a sync pass for the active season on a fixed interval.
type Scheduler struct {
	scheduler gocron.Scheduler
	engine    *Engine
	service   *Service
	interval  time.Duration
	logger    *zap.Logger
}

// NewScheduler creates a Scheduler. Start must be called to begin ticking.
func NewScheduler(engine *Engine, service *Service, interval time.Duration, logger *zap.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{scheduler: s, engine: engine, service: service, interval: interval, logger: logger}, nil
}

// Start registers the sync job and starts the scheduler. A non-positive
// interval leaves the timer disabled.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("Sync timer disabled")
		return nil
	}

	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.Tick(context.Background()) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("contracts-sync"),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	s.logger.Info("Sync timer started", zap.Duration("interval", s.interval))
	return nil
}

// Tick runs one pass for the active season. A pass already in flight is
// not an error.
func (s *Scheduler) Tick(ctx context.Context) {
	season, err := s.service.ActiveSeason(ctx)
	if err != nil {
		s.logger.Error("Failed to read active season", zap.Error(err))
		return
	}

	_, err = s.engine.Run(ctx, season)
	switch {
	case errors.Is(err, ErrSyncInProgress):
		s.logger.Info("Skipping timed sync, a pass is already running", zap.String("season", season))
	case err != nil:
		s.logger.Error("Timed sync failed", zap.String("season", season), zap.Error(err))
	}
}

// Shutdown stops the timer and waits for a running job to return.
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}
