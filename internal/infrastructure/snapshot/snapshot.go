package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/infrastructure/storage"
	"RoboticsDaily/pkg/pagination"
)

const articleLimit = 100

// Reader is the read-side store surface a snapshot needs.
type Reader interface {
	ListArticles(ctx context.Context, filter storage.ArticleFilter) (pagination.OffsetResult[domain.Article], error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListTrending(ctx context.Context, limit int) ([]domain.TrendingTopic, error)
	SourceCounts(ctx context.Context) (map[string]int64, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// Data is the data.json document served to the static frontend.
type Data struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Articles    []domain.Article       `json:"articles"`
	Categories  []domain.Category      `json:"categories"`
	Trending    []domain.TrendingTopic `json:"trending"`
	Sources     []domain.Source        `json:"sources"`
	Stats       domain.Stats           `json:"stats"`
}

// Exporter writes the static snapshot.
type Exporter struct {
	reader        Reader
	sources       []domain.Source
	trendingLimit int
	now           func() time.Time
}

func NewExporter(reader Reader, sources []domain.Source, trendingLimit int) *Exporter {
	return &Exporter{reader: reader, sources: sources, trendingLimit: trendingLimit, now: time.Now}
}

// Build collects the snapshot document.
func (e *Exporter) Build(ctx context.Context) (Data, error) {
	page, err := e.reader.ListArticles(ctx, storage.ArticleFilter{
		OffsetRequest: pagination.OffsetRequest{Page: 1, Limit: articleLimit},
	})
	if err != nil {
		return Data{}, fmt.Errorf("articles: %w", err)
	}
	categories, err := e.reader.ListCategories(ctx)
	if err != nil {
		return Data{}, fmt.Errorf("categories: %w", err)
	}
	trending, err := e.reader.ListTrending(ctx, e.trendingLimit)
	if err != nil {
		return Data{}, fmt.Errorf("trending: %w", err)
	}
	counts, err := e.reader.SourceCounts(ctx)
	if err != nil {
		return Data{}, fmt.Errorf("sources: %w", err)
	}
	stats, err := e.reader.Stats(ctx)
	if err != nil {
		return Data{}, fmt.Errorf("stats: %w", err)
	}

	return Data{
		GeneratedAt: e.now().UTC(),
		Articles:    page.Items,
		Categories:  categories,
		Trending:    trending,
		Sources:     WithCounts(e.sources, counts),
		Stats:       stats,
	}, nil
}

// Export writes the snapshot to path through a temp file so readers never see a partial document.
func (e *Exporter) Export(ctx context.Context, path string) error {
	data, err := e.Build(ctx)
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".data-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}

// WithCounts copies the configured sources and fills each article count.
func WithCounts(sources []domain.Source, counts map[string]int64) []domain.Source {
	out := make([]domain.Source, len(sources))
	for i, s := range sources {
		s.ArticleCount = counts[s.Name]
		out[i] = s
	}
	return out
}
