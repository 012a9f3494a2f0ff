package usecase

import (
	"context"
	"testing"
	"time"

	"RoboticsDaily/internal/domain"
)

// manualDriver fires the registered job only when tick is called.
type manualDriver struct {
	job     func(time.Time)
	stopped bool
}

func (d *manualDriver) Start(_ context.Context, job func(time.Time)) error {
	d.job = job
	return nil
}

func (d *manualDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

func (d *manualDriver) tick() { d.job(time.Now()) }

func TestSchedulerRunsPipelineAndHooks(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	p := newTestPipeline(&staticSource{batches: fiveSources(1)}, repo, nil)
	driver := &manualDriver{}

	var got []domain.RunSummary
	s := NewScheduler(driver, p, nil, func(_ context.Context, summary domain.RunSummary) {
		got = append(got, summary)
	})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	driver.tick()
	driver.tick()

	if len(got) != 2 || got[0].Trigger != domain.TriggerScheduled {
		t.Fatalf("unexpected hook calls %+v", got)
	}
	if got[0].Totals.New != 5 || got[1].Totals.New != 0 {
		t.Fatalf("unexpected totals %+v / %+v", got[0].Totals, got[1].Totals)
	}
	if err := s.Stop(context.Background()); err != nil || !driver.stopped {
		t.Fatalf("Stop failed: %v", err)
	}
}
