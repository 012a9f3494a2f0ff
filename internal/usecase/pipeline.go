package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/ports"
)

// ErrRunInProgress is returned when Run is called while another run is active.
var ErrRunInProgress = errors.New("pipeline run already in progress")

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.SourceFetcher
	Repository ports.ArticleRepository
	Normalizer *Normalizer
	Enricher   *Enricher
	Trending   *TrendingExtractor
	Logger     *slog.Logger
	Now        func() time.Time
}

// Pipeline implements the fetch, normalize, dedup, enrich, persist and trending workflow.
type Pipeline struct {
	source     ports.SourceFetcher
	repository ports.ArticleRepository
	normalizer *Normalizer
	dedup      *Deduplicator
	enricher   *Enricher
	trending   *TrendingExtractor
	logger     *slog.Logger
	now        func() time.Time

	running atomic.Bool
	state   atomic.Value

	mu      sync.RWMutex
	lastRun *domain.RunSummary
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	normalizer := deps.Normalizer
	if normalizer == nil {
		normalizer = NewNormalizer(0)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	p := &Pipeline{
		source:     deps.Source,
		repository: deps.Repository,
		normalizer: normalizer,
		dedup:      NewDeduplicator(deps.Repository, logger),
		enricher:   deps.Enricher,
		trending:   deps.Trending,
		logger:     logger.With("component", "pipeline"),
		now:        now,
	}
	p.state.Store(domain.StateIdle)
	return p
}

// State reports the milestone of the active run, or the last terminal state.
func (p *Pipeline) State() domain.RunState {
	return p.state.Load().(domain.RunState)
}

// Running reports whether a run is active.
func (p *Pipeline) Running() bool {
	return p.running.Load()
}

// LastRun returns the summary of the most recent finished run.
func (p *Pipeline) LastRun() (domain.RunSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.lastRun == nil {
		return domain.RunSummary{}, false
	}
	return *p.lastRun, true
}

// candidate is one article travelling through the stages with its outcome.
type candidate struct {
	article    domain.Article
	enrichment *domain.Enrichment
	outcome    domain.ItemOutcome
	report     *domain.SourceReport
}

// Run executes every stage once. Per-item and per-source failures are recorded in the
// summary; the only error is ErrRunInProgress.
func (p *Pipeline) Run(ctx context.Context, trigger domain.Trigger) (domain.RunSummary, error) {
	if !p.running.CompareAndSwap(false, true) {
		return domain.RunSummary{}, ErrRunInProgress
	}
	defer p.running.Store(false)

	summary := domain.RunSummary{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		StartedAt: p.now().UTC(),
	}
	logger := p.logger.With("run_id", summary.RunID, "trigger", string(trigger))
	logger.Info("run started")

	p.enter(logger, domain.StateFetchingSources)
	var batches []domain.SourceBatch
	if p.source != nil {
		batches = p.source.FetchAll(ctx)
	}

	reports := make([]*domain.SourceReport, len(batches))
	var outcomes []domain.ItemOutcome

	p.enter(logger, domain.StateNormalizing)
	normalized := make([][]domain.Article, len(batches))
	for i, batch := range batches {
		report := &domain.SourceReport{Source: batch.Source, Status: domain.SourceOK, Fetched: len(batch.Stubs)}
		reports[i] = report
		if batch.Err != nil {
			report.Status = domain.SourceFailed
			report.Error = batch.Err.Error()
			logger.Warn("source failed", "source", batch.Source, "error", batch.Err)
		}

		for _, stub := range batch.Stubs {
			article, err := p.normalizer.Normalize(batch.Source, batch.BaseURL, stub)
			if err != nil {
				report.Invalid++
				outcomes = append(outcomes, domain.ItemOutcome{
					Source: batch.Source, URL: stub.URL, Status: domain.ItemInvalid, Reason: err.Error(), Err: err,
				})
				continue
			}
			normalized[i] = append(normalized[i], article)
		}
	}

	p.enter(logger, domain.StateDeduplicating)
	seen := make(map[string]struct{})
	var candidates []*candidate
	for i, batch := range batches {
		fresh, dups := p.dedup.Filter(ctx, batch.Source, normalized[i], seen)
		reports[i].Duplicates += len(dups)
		reports[i].New += len(fresh)
		outcomes = append(outcomes, dups...)
		for _, article := range fresh {
			candidates = append(candidates, &candidate{
				article: article,
				report:  reports[i],
				outcome: domain.ItemOutcome{Source: batch.Source, URL: article.URL, Status: domain.ItemNew},
			})
		}
	}

	p.enter(logger, domain.StateEnriching)
	p.enrich(ctx, logger, candidates)

	p.enter(logger, domain.StatePersisting)
	p.persist(ctx, logger, candidates)
	for _, c := range candidates {
		outcomes = append(outcomes, c.outcome)
	}

	p.enter(logger, domain.StateComputingTrending)
	if p.trending != nil {
		topics, err := p.trending.Compute(ctx, p.now())
		if err != nil {
			summary.TrendingError = err.Error()
			logger.Error("trending failed", "error", err)
		} else {
			summary.TrendingCount = len(topics)
		}
	}

	summary.Sources = make([]domain.SourceReport, len(reports))
	for i, r := range reports {
		summary.Sources[i] = *r
	}
	summary.Outcomes = outcomes
	summary.Tally()
	summary.FinishedAt = p.now().UTC()
	summary.Duration = summary.FinishedAt.Sub(summary.StartedAt).Seconds()
	summary.State = domain.StateDone
	p.enter(logger, domain.StateDone)

	for _, src := range summary.Sources {
		logger.Info("source finished",
			"source", src.Source,
			"status", string(src.Status),
			"fetched", src.Fetched,
			"new", src.New,
			"duplicates", src.Duplicates,
			"persisted", src.Persisted,
		)
	}
	logger.Info("run finished",
		"fetched", summary.Totals.Fetched,
		"new", summary.Totals.New,
		"duplicates", summary.Totals.Duplicates,
		"enriched", summary.Totals.Enriched,
		"failed", summary.Totals.Failed,
		"failed_sources", summary.Totals.FailedSources,
		"trending", summary.TrendingCount,
		"duration", summary.Duration,
	)

	p.mu.Lock()
	p.lastRun = &summary
	p.mu.Unlock()

	return summary, nil
}

func (p *Pipeline) enter(logger *slog.Logger, state domain.RunState) {
	p.state.Store(state)
	logger.Debug("state", "state", string(state))
}

func (p *Pipeline) enrich(ctx context.Context, logger *slog.Logger, candidates []*candidate) {
	for _, c := range candidates {
		if !p.enricher.Enabled() {
			c.outcome.Enrichment = domain.ItemEnrichSkipped
			continue
		}

		enrichment, err := p.enricher.Enrich(ctx, c.article)
		if !enrichment.Empty() {
			c.enrichment = &enrichment
		}
		if err != nil {
			c.outcome.Enrichment = domain.ItemEnrichFailed
			c.outcome.Err = err
			c.outcome.Reason = err.Error()
			c.report.EnrichFailed++
			logger.Warn("enrichment failed", "url", c.article.URL, "error", err)
			continue
		}
		c.outcome.Enrichment = domain.ItemEnriched
		c.report.Enriched++
	}
}

func (p *Pipeline) persist(ctx context.Context, logger *slog.Logger, candidates []*candidate) {
	for _, c := range candidates {
		if p.repository == nil {
			continue
		}

		id, inserted, err := p.repository.SaveArticle(ctx, c.article, c.enrichment)
		if err != nil {
			perr := &domain.PersistenceError{URL: c.article.URL, Op: "save", Err: err}
			c.outcome.Status = domain.ItemPersistFailed
			c.outcome.Err = perr
			c.outcome.Reason = perr.Error()
			c.report.PersistFailed++
			logger.Error("persist failed", "url", c.article.URL, "error", err)
			continue
		}
		if !inserted {
			// Another writer stored the URL between lookup and insert.
			c.outcome.Status = domain.ItemDuplicate
			c.outcome.ArticleID = id
			c.report.New--
			c.report.Duplicates++
			switch c.outcome.Enrichment {
			case domain.ItemEnriched:
				c.report.Enriched--
			case domain.ItemEnrichFailed:
				c.report.EnrichFailed--
			}
			continue
		}
		c.outcome.Status = domain.ItemPersisted
		c.outcome.ArticleID = id
		c.report.Persisted++
	}
}
