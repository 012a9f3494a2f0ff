package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/ports"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var articleColumns = []string{
	"a.id", "a.title", "a.url", "a.source", "a.author", "a.published_date",
	"a.excerpt", "a.image_url", "a.read_time_minutes", "a.summary", "a.scraped_date",
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository persists articles, category links and trending topics into Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ ports.ArticleRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a pgx pool implementation.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool, now: time.Now}
}

// Ping checks the database is reachable.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// ExistingURLs returns the subset of urls that already have a row.
func (r *PostgresRepository) ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(urls) == 0 {
		return result, nil
	}

	query, args, err := psql.Select("url").From("articles").Where(sq.Eq{"url": urls}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build existing urls: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query existing urls: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		result[u] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}

// SaveArticle inserts the article if its url is new and, only then, attaches the enrichment.
// Both happen in one transaction. inserted is false when the url already existed.
func (r *PostgresRepository) SaveArticle(ctx context.Context, article domain.Article, enrichment *domain.Enrichment) (int64, bool, error) {
	var (
		id       int64
		inserted bool
	)

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		scraped := article.CreatedAt
		if scraped.IsZero() {
			scraped = r.now().UTC()
		}

		query, args, err := psql.Insert("articles").
			Columns("title", "url", "source", "author", "published_date", "excerpt", "image_url", "read_time_minutes", "scraped_date").
			Values(article.Title, article.URL, article.Source, nullString(article.Author), article.PublishedAt,
				article.Excerpt, nullString(article.ImageURL), article.ReadTimeMinutes, scraped).
			Suffix("ON CONFLICT (url) DO NOTHING RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}

		err = tx.QueryRow(ctx, query, args...).Scan(&id)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if err := tx.QueryRow(ctx, `SELECT id FROM articles WHERE url = $1`, article.URL).Scan(&id); err != nil {
				return fmt.Errorf("load existing id: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("insert article: %w", err)
		}

		inserted = true
		if enrichment == nil || enrichment.Empty() {
			return nil
		}
		return updateEnrichment(ctx, tx, id, *enrichment)
	})
	if err != nil {
		return 0, false, err
	}
	return id, inserted, nil
}

// UpdateEnrichment attaches a summary and categories to a stored article.
func (r *PostgresRepository) UpdateEnrichment(ctx context.Context, articleID int64, enrichment domain.Enrichment) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM articles WHERE id = $1)`, articleID).Scan(&exists); err != nil {
			return fmt.Errorf("check article: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return updateEnrichment(ctx, tx, articleID, enrichment)
	})
}

// updateEnrichment writes only the parts present. Category names missing from the table are skipped.
func updateEnrichment(ctx context.Context, q querier, articleID int64, e domain.Enrichment) error {
	if e.Summary != "" {
		if _, err := q.Exec(ctx, `UPDATE articles SET summary = $1 WHERE id = $2`, e.Summary, articleID); err != nil {
			return fmt.Errorf("update summary: %w", err)
		}
		if _, err := q.Exec(ctx, `
			INSERT INTO ai_summaries (article_id, summary, model)
			VALUES ($1, $2, $3)
			ON CONFLICT (article_id) DO UPDATE SET summary = EXCLUDED.summary, model = EXCLUDED.model, created_at = NOW()`,
			articleID, e.Summary, e.Model,
		); err != nil {
			return fmt.Errorf("upsert ai summary: %w", err)
		}
	}

	if len(e.Categories) == 0 {
		return nil
	}
	if _, err := q.Exec(ctx, `DELETE FROM article_categories WHERE article_id = $1`, articleID); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	for _, c := range e.Categories {
		if _, err := q.Exec(ctx, `
			INSERT INTO article_categories (article_id, category_id, confidence)
			SELECT $1, id, $3 FROM categories WHERE name = $2
			ON CONFLICT DO NOTHING`,
			articleID, c.Name, c.Confidence,
		); err != nil {
			return fmt.Errorf("link category %s: %w", c.Name, err)
		}
	}
	return nil
}

// RecentArticles returns articles whose publish date, or scrape time when unset, is at or after since.
func (r *PostgresRepository) RecentArticles(ctx context.Context, since time.Time) ([]domain.Article, error) {
	query := psql.Select(articleColumns...).
		From("articles a").
		Where(sq.GtOrEq{"COALESCE(a.published_date, a.scraped_date)": since}).
		OrderBy("a.id")
	return r.selectArticles(ctx, query)
}

// ReplaceTrending swaps the stored trending set for the new one in one transaction.
func (r *PostgresRepository) ReplaceTrending(ctx context.Context, window domain.Window, topics []domain.TrendingTopic) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM trending_topics`); err != nil {
			return fmt.Errorf("clear trending: %w", err)
		}
		if len(topics) == 0 {
			return nil
		}

		insert := psql.Insert("trending_topics").
			Columns("topic_name", "mention_count", "window_start", "window_end", "last_seen", "related_articles")
		for _, t := range topics {
			related := t.RelatedArticles
			if related == nil {
				related = []int64{}
			}
			insert = insert.Values(t.Topic, t.MentionCount, window.Start, window.End, t.LastSeen, related)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build trending insert: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert trending: %w", err)
		}
		return nil
	})
}

func (r *PostgresRepository) selectArticles(ctx context.Context, b sq.SelectBuilder) ([]domain.Article, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build article query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	articles := []domain.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	rows.Close()

	if err := r.attachCategories(ctx, articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *PostgresRepository) attachCategories(ctx context.Context, articles []domain.Article) error {
	if len(articles) == 0 {
		return nil
	}
	ids := make([]int64, len(articles))
	index := make(map[int64]int, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
		index[a.ID] = i
	}

	query, args, err := psql.Select("ac.article_id", "c.name").
		From("article_categories ac").
		Join("categories c ON c.id = ac.category_id").
		Where(sq.Eq{"ac.article_id": ids}).
		OrderBy("ac.article_id", "ac.confidence DESC", "c.name").
		ToSql()
	if err != nil {
		return fmt.Errorf("build categories query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return fmt.Errorf("scan category: %w", err)
		}
		if i, ok := index[id]; ok {
			articles[i].Categories = append(articles[i].Categories, name)
		}
	}
	return rows.Err()
}

func scanArticle(row pgx.Row) (domain.Article, error) {
	var (
		a        domain.Article
		author   *string
		imageURL *string
	)
	if err := row.Scan(
		&a.ID, &a.Title, &a.URL, &a.Source, &author, &a.PublishedAt,
		&a.Excerpt, &imageURL, &a.ReadTimeMinutes, &a.Summary, &a.CreatedAt,
	); err != nil {
		return domain.Article{}, err
	}
	if author != nil {
		a.Author = *author
	}
	if imageURL != nil {
		a.ImageURL = *imageURL
	}
	a.Categories = []string{}
	return a, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
