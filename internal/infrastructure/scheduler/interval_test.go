package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"RoboticsDaily/internal/config"
)

func TestIntervalSchedulerRunsOnStartAndTicks(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(config.SchedulerConfig{Interval: 10 * time.Millisecond, RunOnStart: true})

	var calls atomic.Int32
	if err := s.Start(context.Background(), func(time.Time) { calls.Add(1) }); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("expected at least 3 runs, got %d", calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}

	after := calls.Load()
	time.Sleep(40 * time.Millisecond)
	if calls.Load() != after {
		t.Fatal("job ran after Stop")
	}
}

func TestIntervalSchedulerRejectsZeroInterval(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(config.SchedulerConfig{})
	if err := s.Start(context.Background(), func(time.Time) {}); err == nil {
		t.Fatal("expected error for zero interval")
	}
}

func TestStopWithoutStart(t *testing.T) {
	t.Parallel()

	if err := NewIntervalScheduler(config.SchedulerConfig{Interval: time.Hour}).Stop(context.Background()); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
}
