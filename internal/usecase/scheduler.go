package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/ports"
)

// Scheduler wires the interval driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
	after    []func(context.Context, domain.RunSummary)
}

// NewScheduler returns a helper to start/stop recurring runs. after hooks run once per finished run.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger, after ...func(context.Context, domain.RunSummary)) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger.With("component", "scheduler"), after: after}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	return s.driver.Start(ctx, func(tick time.Time) {
		s.runOnce(ctx, tick)
	})
}

func (s *Scheduler) runOnce(ctx context.Context, tick time.Time) {
	summary, err := s.pipeline.Run(ctx, domain.TriggerScheduled)
	if errors.Is(err, ErrRunInProgress) {
		s.logger.Info("scheduled run skipped, another run is active", "tick", tick)
		return
	}
	for _, hook := range s.after {
		hook(ctx, summary)
	}
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
