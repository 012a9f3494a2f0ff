package ports

//go:generate mockgen -destination=mocks/mock_ports.go -package=mocks RoboticsDaily/internal/ports ArticleRepository,AIClient,EnrichmentCache

import (
	"context"
	"time"

	"RoboticsDaily/internal/domain"
)

// SourceFetcher runs every configured source strategy once.
type SourceFetcher interface {
	FetchAll(ctx context.Context) []domain.SourceBatch
}

// ArticleRepository is the store surface the pipeline writes through.
type ArticleRepository interface {
	ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error)
	SaveArticle(ctx context.Context, article domain.Article, enrichment *domain.Enrichment) (id int64, inserted bool, err error)
	UpdateEnrichment(ctx context.Context, articleID int64, enrichment domain.Enrichment) error
	RecentArticles(ctx context.Context, since time.Time) ([]domain.Article, error)
	ReplaceTrending(ctx context.Context, window domain.Window, topics []domain.TrendingTopic) error
}

// AIClient asks an external text-generation API for article enrichment.
type AIClient interface {
	Summarize(ctx context.Context, article domain.Article) (string, error)
	Categorize(ctx context.Context, article domain.Article) ([]domain.CategoryScore, error)
	Model() string
}

// EnrichmentCache remembers successful enrichments by canonical URL.
type EnrichmentCache interface {
	Get(ctx context.Context, url string) (domain.Enrichment, bool, error)
	Put(ctx context.Context, url string, enrichment domain.Enrichment) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
