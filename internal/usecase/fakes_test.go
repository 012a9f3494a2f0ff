package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"RoboticsDaily/internal/domain"
)

// memRepo is an in-memory ArticleRepository keyed by URL.
type memRepo struct {
	mu       sync.Mutex
	nextID   int64
	byURL    map[string]*domain.Article
	trending []domain.TrendingTopic
	replaced int

	failSave  map[string]bool
	lookupErr error
	recentErr error
}

func newMemRepo() *memRepo {
	return &memRepo{byURL: map[string]*domain.Article{}, failSave: map[string]bool{}}
}

func (r *memRepo) ExistingURLs(_ context.Context, urls []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	out := map[string]bool{}
	for _, u := range urls {
		if _, ok := r.byURL[u]; ok {
			out[u] = true
		}
	}
	return out, nil
}

func (r *memRepo) SaveArticle(_ context.Context, a domain.Article, e *domain.Enrichment) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave[a.URL] {
		return 0, false, errors.New("disk full")
	}
	if existing, ok := r.byURL[a.URL]; ok {
		return existing.ID, false, nil
	}
	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a.Categories = []string{}
	if e != nil {
		if e.Summary != "" {
			s := e.Summary
			a.Summary = &s
		}
		a.Categories = e.CategoryNames()
	}
	r.byURL[a.URL] = &a
	return a.ID, true, nil
}

func (r *memRepo) UpdateEnrichment(_ context.Context, id int64, e domain.Enrichment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byURL {
		if a.ID == id {
			if e.Summary != "" {
				s := e.Summary
				a.Summary = &s
			}
			a.Categories = e.CategoryNames()
			return nil
		}
	}
	return errors.New("not found")
}

func (r *memRepo) RecentArticles(_ context.Context, since time.Time) ([]domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recentErr != nil {
		return nil, r.recentErr
	}
	var out []domain.Article
	for _, a := range r.byURL {
		if !a.Timestamp().Before(since) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) ReplaceTrending(_ context.Context, _ domain.Window, topics []domain.TrendingTopic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trending = append([]domain.TrendingTopic(nil), topics...)
	r.replaced++
	return nil
}

func (r *memRepo) ArticlesMissingSummary(_ context.Context, limit int) ([]domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Article
	for _, a := range r.byURL {
		if a.Summary == nil {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byURL)
}

func (r *memRepo) get(url string) (domain.Article, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byURL[url]
	if !ok {
		return domain.Article{}, false
	}
	return *a, true
}

// staticSource replays the same batches on every FetchAll.
type staticSource struct {
	batches []domain.SourceBatch
	block   chan struct{}
}

func (s *staticSource) FetchAll(ctx context.Context) []domain.SourceBatch {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
		}
	}
	return s.batches
}

// fakeAI answers from fixed values; a non-nil error fails that stage every time.
type fakeAI struct {
	mu          sync.Mutex
	summary     string
	categories  []domain.CategoryScore
	summaryErr  error
	categoryErr error
	calls       int
}

func (f *fakeAI) Summarize(context.Context, domain.Article) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.summary, f.summaryErr
}

func (f *fakeAI) Categorize(context.Context, domain.Article) ([]domain.CategoryScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.categoryErr != nil {
		return nil, f.categoryErr
	}
	return f.categories, nil
}

func (f *fakeAI) Model() string { return "fake-model" }

func noSleep(context.Context, time.Duration) error { return nil }
