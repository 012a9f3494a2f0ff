package domain

import "time"

// Stats is the aggregate view shown on the admin status page and in snapshots.
type Stats struct {
	TotalArticles      int64      `json:"total_articles"`
	ArticlesLast24h    int64      `json:"articles_last_24h"`
	SummarizedCount    int64      `json:"articles_with_summaries"`
	TotalCategories    int64      `json:"total_categories"`
	TotalSources       int64      `json:"total_sources"`
	LastScrapedAt      *time.Time `json:"last_scrape"`
	TrendingTopicCount int64      `json:"trending_topics"`
}
