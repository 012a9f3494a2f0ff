package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/ports"
)

var (
	// ErrEnrichmentDisabled is returned when no AI client is configured.
	ErrEnrichmentDisabled = errors.New("enrichment disabled")
	ErrEmptySummary       = errors.New("empty summary")
)

const (
	StageSummary    = "summary"
	StageCategorize = "categorize"

	maxCategories = 3
)

// EnricherConfig tunes the AI enrichment stage.
type EnricherConfig struct {
	CallDelay  time.Duration
	Vocabulary []string
}

// Enricher attaches a summary and vocabulary categories to articles, one AI call at a time.
type Enricher struct {
	client     ports.AIClient
	cache      ports.EnrichmentCache
	delay      time.Duration
	vocabulary map[string]string
	logger     *slog.Logger

	sleep func(context.Context, time.Duration) error

	mu       sync.Mutex
	lastCall time.Time
	now      func() time.Time
}

// NewEnricher builds the stage; client may be nil to disable enrichment and cache may be nil.
func NewEnricher(client ports.AIClient, cache ports.EnrichmentCache, cfg EnricherConfig, logger *slog.Logger) *Enricher {
	vocabulary := cfg.Vocabulary
	if len(vocabulary) == 0 {
		vocabulary = domain.CategoryNames()
	}
	lookup := make(map[string]string, len(vocabulary))
	for _, name := range vocabulary {
		lookup[strings.ToLower(name)] = name
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Enricher{
		client:     client,
		cache:      cache,
		delay:      cfg.CallDelay,
		vocabulary: lookup,
		logger:     logger,
		sleep:      sleepContext,
		now:        time.Now,
	}
}

// Enabled reports whether an AI client is configured.
func (e *Enricher) Enabled() bool {
	return e != nil && e.client != nil
}

// Enrich returns whatever succeeded. The error joins one *domain.EnrichmentError per failed stage.
func (e *Enricher) Enrich(ctx context.Context, article domain.Article) (domain.Enrichment, error) {
	if !e.Enabled() {
		return domain.Enrichment{}, ErrEnrichmentDisabled
	}

	if cached, ok := e.fromCache(ctx, article.URL); ok {
		return cached, nil
	}

	result := domain.Enrichment{Model: e.client.Model()}
	var errs []error

	if err := e.wait(ctx); err != nil {
		return result, &domain.EnrichmentError{URL: article.URL, Stage: StageSummary, Err: err}
	}
	summary, err := e.client.Summarize(ctx, article)
	summary = strings.TrimSpace(summary)
	switch {
	case err != nil:
		errs = append(errs, &domain.EnrichmentError{URL: article.URL, Stage: StageSummary, Err: err})
	case summary == "":
		errs = append(errs, &domain.EnrichmentError{URL: article.URL, Stage: StageSummary, Err: ErrEmptySummary})
	default:
		result.Summary = summary
	}

	if err := e.wait(ctx); err != nil {
		errs = append(errs, &domain.EnrichmentError{URL: article.URL, Stage: StageCategorize, Err: err})
		return result, errors.Join(errs...)
	}
	scores, err := e.client.Categorize(ctx, article)
	if err != nil {
		errs = append(errs, &domain.EnrichmentError{URL: article.URL, Stage: StageCategorize, Err: err})
	} else {
		result.Categories = e.filterCategories(article.URL, scores)
	}

	if len(errs) > 0 {
		return result, errors.Join(errs...)
	}

	e.logger.Debug("article enriched", "url", article.URL, "categories", result.CategoryNames())
	if e.cache != nil {
		if err := e.cache.Put(ctx, article.URL, result); err != nil {
			e.logger.Warn("enrichment cache put failed", "url", article.URL, "error", err)
		}
	}
	return result, nil
}

func (e *Enricher) fromCache(ctx context.Context, url string) (domain.Enrichment, bool) {
	if e.cache == nil {
		return domain.Enrichment{}, false
	}
	cached, ok, err := e.cache.Get(ctx, url)
	if err != nil {
		e.logger.Warn("enrichment cache get failed", "url", url, "error", err)
		return domain.Enrichment{}, false
	}
	if ok {
		e.logger.Debug("enrichment cache hit", "url", url)
	}
	return cached, ok
}

// wait holds the next AI call until delay has passed since the previous one.
func (e *Enricher) wait(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.lastCall.IsZero() && e.delay > 0 {
		if remaining := e.delay - e.now().Sub(e.lastCall); remaining > 0 {
			if err := e.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.lastCall = e.now()
	return nil
}

// filterCategories keeps known names in response order, without repeats, capped and clamped.
func (e *Enricher) filterCategories(url string, scores []domain.CategoryScore) []domain.CategoryScore {
	out := make([]domain.CategoryScore, 0, maxCategories)
	seen := make(map[string]struct{}, len(scores))
	for _, s := range scores {
		name, ok := e.vocabulary[strings.ToLower(strings.TrimSpace(s.Name))]
		if !ok {
			e.logger.Warn("dropping unknown category", "url", url, "category", s.Name)
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, domain.CategoryScore{Name: name, Confidence: clamp(s.Confidence, 0, 1)})
		if len(out) == maxCategories {
			break
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
