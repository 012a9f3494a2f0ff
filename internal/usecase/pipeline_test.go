package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"RoboticsDaily/internal/domain"
)

var sourceNames = []string{"IEEE Spectrum", "MIT News", "NVIDIA Blog", "TechCrunch", "The Robot Report"}

func fiveSources(perSource int) []domain.SourceBatch {
	batches := make([]domain.SourceBatch, 0, len(sourceNames))
	for i, name := range sourceNames {
		batch := domain.SourceBatch{Source: name, BaseURL: fmt.Sprintf("https://s%d.example", i)}
		for j := 0; j < perSource; j++ {
			batch.Stubs = append(batch.Stubs, domain.Stub{
				Title:   fmt.Sprintf("%s story %d about a humanoid", name, j),
				URL:     fmt.Sprintf("/news/%d", j),
				Excerpt: "Robots everywhere.",
			})
		}
		batches = append(batches, batch)
	}
	return batches
}

func newTestPipeline(source *staticSource, repo *memRepo, ai *fakeAI) *Pipeline {
	var enricher *Enricher
	if ai != nil {
		enricher = NewEnricher(ai, nil, EnricherConfig{CallDelay: time.Second}, nil)
		enricher.sleep = noSleep
	}
	return NewPipeline(PipelineDeps{
		Source:     source,
		Repository: repo,
		Normalizer: NewNormalizer(0),
		Enricher:   enricher,
		Trending:   NewTrendingExtractor(repo, 7, []string{"humanoid"}, nil),
		Now:        func() time.Time { return time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC) },
	})
}

func TestRunPersistsAndEnriches(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	ai := &fakeAI{summary: "Short summary.", categories: []domain.CategoryScore{{Name: "Humanoid Robots", Confidence: 0.9}}}
	p := newTestPipeline(&staticSource{batches: fiveSources(2)}, repo, ai)

	summary, err := p.Run(context.Background(), domain.TriggerAdmin)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if summary.State != domain.StateDone || p.State() != domain.StateDone {
		t.Fatalf("expected done state, got %s / %s", summary.State, p.State())
	}
	if summary.RunID == "" || summary.Trigger != domain.TriggerAdmin {
		t.Fatalf("unexpected run identity %+v", summary)
	}
	want := domain.Totals{Fetched: 10, New: 10, Enriched: 10}
	if summary.Totals != want {
		t.Fatalf("unexpected totals %+v", summary.Totals)
	}
	if repo.count() != 10 {
		t.Fatalf("expected 10 stored articles, got %d", repo.count())
	}
	stored, ok := repo.get("https://s0.example/news/0")
	if !ok || stored.Summary == nil || *stored.Summary != "Short summary." || len(stored.Categories) != 1 {
		t.Fatalf("unexpected stored article %+v", stored)
	}
	if summary.TrendingCount != 1 || summary.TrendingError != "" {
		t.Fatalf("unexpected trending result %d %q", summary.TrendingCount, summary.TrendingError)
	}
	if last, ok := p.LastRun(); !ok || last.RunID != summary.RunID {
		t.Fatal("LastRun does not reflect the finished run")
	}
}

func TestRunIsIdempotentAcrossRuns(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	p := newTestPipeline(&staticSource{batches: fiveSources(3)}, repo, nil)

	first, _ := p.Run(context.Background(), domain.TriggerCLI)
	second, _ := p.Run(context.Background(), domain.TriggerCLI)

	if first.Totals.New != 15 {
		t.Fatalf("expected 15 new articles in the first run, got %d", first.Totals.New)
	}
	if second.Totals.New != 0 || second.Totals.Duplicates != 15 {
		t.Fatalf("expected only duplicates in the second run, got %+v", second.Totals)
	}
	if repo.count() != 15 {
		t.Fatalf("expected one row per distinct url, got %d", repo.count())
	}
}

func TestRunKeepsFirstOccurrenceAcrossSources(t *testing.T) {
	t.Parallel()

	batches := []domain.SourceBatch{
		{Source: "TechCrunch", Stubs: []domain.Stub{
			{Title: "First", URL: "https://shared.example/story"},
			{Title: "Again", URL: "https://shared.example/story/?utm_source=x"},
		}},
		{Source: "The Robot Report", Stubs: []domain.Stub{{Title: "Third", URL: "https://shared.example/story#top"}}},
	}
	repo := newMemRepo()
	p := newTestPipeline(&staticSource{batches: batches}, repo, nil)

	summary, _ := p.Run(context.Background(), domain.TriggerCLI)
	if repo.count() != 1 {
		t.Fatalf("expected a single stored article, got %d", repo.count())
	}
	stored, _ := repo.get("https://shared.example/story")
	if stored.Title != "First" || stored.Source != "TechCrunch" {
		t.Fatalf("expected first-seen article kept, got %+v", stored)
	}
	if summary.Totals.Duplicates != 2 {
		t.Fatalf("expected 2 duplicates, got %d", summary.Totals.Duplicates)
	}
}

func TestRunPersistsWhenEnrichmentAlwaysFails(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	ai := &fakeAI{summaryErr: errors.New("503"), categoryErr: errors.New("503")}
	p := newTestPipeline(&staticSource{batches: fiveSources(1)}, repo, ai)

	summary, err := p.Run(context.Background(), domain.TriggerAdmin)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if repo.count() != 5 {
		t.Fatalf("expected all 5 articles persisted, got %d", repo.count())
	}
	for _, name := range []string{"https://s0.example/news/0", "https://s4.example/news/0"} {
		a, _ := repo.get(name)
		if a.Summary != nil || len(a.Categories) != 0 {
			t.Fatalf("expected unenriched article, got %+v", a)
		}
	}
	if summary.Totals.Enriched != 0 || summary.Totals.Failed != 5 {
		t.Fatalf("unexpected totals %+v", summary.Totals)
	}
	for _, o := range summary.Outcomes {
		var ee *domain.EnrichmentError
		if o.Status != domain.ItemPersisted || o.Enrichment != domain.ItemEnrichFailed || !errors.As(o.Err, &ee) {
			t.Fatalf("unexpected outcome %+v", o)
		}
	}
}

func TestRunIsolatesFailingSource(t *testing.T) {
	t.Parallel()

	batches := fiveSources(2)
	batches[2] = domain.SourceBatch{
		Source: "NVIDIA Blog",
		Err:    &domain.SourceFetchError{Source: "NVIDIA Blog", Err: errors.New("no cards found")},
	}
	repo := newMemRepo()
	p := newTestPipeline(&staticSource{batches: batches}, repo, nil)

	summary, err := p.Run(context.Background(), domain.TriggerScheduled)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if repo.count() != 8 {
		t.Fatalf("expected the other four sources persisted, got %d", repo.count())
	}
	if summary.Sources[2].Status != domain.SourceFailed || summary.Sources[2].Error == "" {
		t.Fatalf("expected failed source report, got %+v", summary.Sources[2])
	}
	if summary.Totals.FailedSources != 1 {
		t.Fatalf("expected one failed source, got %+v", summary.Totals)
	}
	for i, src := range summary.Sources {
		if i != 2 && (src.Status != domain.SourceOK || src.Persisted != 2) {
			t.Fatalf("unexpected report for %s: %+v", src.Source, src)
		}
	}
}

func TestRunRecordsPersistenceAndInvalidOutcomes(t *testing.T) {
	t.Parallel()

	batches := []domain.SourceBatch{{Source: "MIT News", BaseURL: "https://news.mit.edu", Stubs: []domain.Stub{
		{Title: "", URL: "/no-title"},
		{Title: "Broken write", URL: "/broken"},
		{Title: "Fine", URL: "/fine"},
	}}}
	repo := newMemRepo()
	repo.failSave["https://news.mit.edu/broken"] = true
	repo.recentErr = errors.New("relation missing")
	p := newTestPipeline(&staticSource{batches: batches}, repo, nil)

	summary, _ := p.Run(context.Background(), domain.TriggerCLI)

	report := summary.Sources[0]
	if report.Invalid != 1 || report.PersistFailed != 1 || report.Persisted != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if summary.TrendingError == "" {
		t.Fatal("expected trending error recorded")
	}
	var found bool
	for _, o := range summary.Outcomes {
		var pe *domain.PersistenceError
		if errors.As(o.Err, &pe) {
			found = pe.URL == "https://news.mit.edu/broken" && o.Status == domain.ItemPersistFailed
		}
	}
	if !found {
		t.Fatalf("expected persistence failure outcome, got %+v", summary.Outcomes)
	}
}

func TestRunRejectsConcurrentRun(t *testing.T) {
	t.Parallel()

	source := &staticSource{block: make(chan struct{})}
	p := newTestPipeline(source, newMemRepo(), nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.Run(context.Background(), domain.TriggerScheduled)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !p.Running() {
		if time.Now().After(deadline) {
			t.Fatal("first run never started")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := p.Run(context.Background(), domain.TriggerAdmin); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
	close(source.block)
	<-done

	if _, err := p.Run(context.Background(), domain.TriggerAdmin); err != nil {
		t.Fatalf("run after completion failed: %v", err)
	}
}
