package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"RoboticsDaily/internal/domain"
	"RoboticsDaily/pkg/pagination"
)

const (
	defaultSearchLimit   = 50
	defaultTrendingLimit = 10
)

// ArticleFilter narrows ListArticles. Zero fields do not filter.
type ArticleFilter struct {
	Category string
	Source   string
	From     *time.Time
	To       *time.Time
	pagination.OffsetRequest
}

func (f ArticleFilter) conditions() sq.And {
	conds := sq.And{}
	if f.Category != "" {
		conds = append(conds, sq.Expr(`EXISTS (
			SELECT 1 FROM article_categories ac
			JOIN categories c ON c.id = ac.category_id
			WHERE ac.article_id = a.id AND c.name = ?)`, f.Category))
	}
	if f.Source != "" {
		conds = append(conds, sq.Eq{"a.source": f.Source})
	}
	if f.From != nil {
		conds = append(conds, sq.GtOrEq{"a.published_date": *f.From})
	}
	if f.To != nil {
		conds = append(conds, sq.LtOrEq{"a.published_date": *f.To})
	}
	return conds
}

// ListArticles returns one page, newest first with undated articles last.
func (r *PostgresRepository) ListArticles(ctx context.Context, filter ArticleFilter) (pagination.OffsetResult[domain.Article], error) {
	filter.Normalize(pagination.DefaultLimit, pagination.MaxLimit)
	conds := filter.conditions()

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("articles a").Where(conds).ToSql()
	if err != nil {
		return pagination.OffsetResult[domain.Article]{}, fmt.Errorf("build count: %w", err)
	}
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return pagination.OffsetResult[domain.Article]{}, fmt.Errorf("count articles: %w", err)
	}

	articles, err := r.selectArticles(ctx, psql.Select(articleColumns...).
		From("articles a").
		Where(conds).
		OrderBy("a.published_date DESC NULLS LAST", "a.id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset())))
	if err != nil {
		return pagination.OffsetResult[domain.Article]{}, err
	}

	return pagination.NewOffsetResult(articles, total, filter.OffsetRequest), nil
}

// ArticleByID returns ErrNotFound when no row matches.
func (r *PostgresRepository) ArticleByID(ctx context.Context, id int64) (domain.Article, error) {
	articles, err := r.selectArticles(ctx, psql.Select(articleColumns...).From("articles a").Where(sq.Eq{"a.id": id}))
	if err != nil {
		return domain.Article{}, err
	}
	if len(articles) == 0 {
		return domain.Article{}, ErrNotFound
	}
	return articles[0], nil
}

// SearchArticles matches q case-insensitively against title, excerpt and summary.
func (r *PostgresRepository) SearchArticles(ctx context.Context, q string, limit int) ([]domain.Article, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, pagination.MaxLimit)

	pattern := "%" + escapeLike(q) + "%"
	return r.selectArticles(ctx, psql.Select(articleColumns...).
		From("articles a").
		Where(sq.Or{
			sq.ILike{"a.title": pattern},
			sq.ILike{"a.excerpt": pattern},
			sq.ILike{"a.summary": pattern},
		}).
		OrderBy("a.published_date DESC NULLS LAST", "a.id DESC").
		Limit(uint64(limit)))
}

// ListCategories returns the vocabulary with per-category article counts.
func (r *PostgresRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query, args, err := psql.Select("c.id", "c.name", "c.icon", "c.description", "COUNT(ac.article_id)").
		From("categories c").
		LeftJoin("article_categories ac ON ac.category_id = c.id").
		GroupBy("c.id").
		OrderBy("c.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build categories: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Category, error) {
		var c domain.Category
		err := row.Scan(&c.ID, &c.Name, &c.Icon, &c.Description, &c.ArticleCount)
		return c, err
	})
}

// ListTrending returns the stored trending set, highest count first.
func (r *PostgresRepository) ListTrending(ctx context.Context, limit int) ([]domain.TrendingTopic, error) {
	if limit <= 0 {
		limit = defaultTrendingLimit
	}
	query, args, err := psql.Select("topic_name", "mention_count", "window_start", "window_end", "last_seen", "related_articles").
		From("trending_topics").
		OrderBy("mention_count DESC", "topic_name ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build trending: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trending: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TrendingTopic, error) {
		var t domain.TrendingTopic
		err := row.Scan(&t.Topic, &t.MentionCount, &t.Window.Start, &t.Window.End, &t.LastSeen, &t.RelatedArticles)
		return t, err
	})
}

// SourceCounts maps source name to stored article count.
func (r *PostgresRepository) SourceCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT source, COUNT(*) FROM articles GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("query source counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			name  string
			count int64
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan source count: %w", err)
		}
		counts[name] = count
	}
	return counts, rows.Err()
}

// Stats aggregates counters for the admin status view.
func (r *PostgresRepository) Stats(ctx context.Context) (domain.Stats, error) {
	var s domain.Stats
	since := r.now().UTC().Add(-24 * time.Hour)
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM articles),
			(SELECT COUNT(*) FROM articles WHERE scraped_date >= $1),
			(SELECT COUNT(*) FROM articles WHERE summary IS NOT NULL),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(DISTINCT source) FROM articles),
			(SELECT MAX(scraped_date) FROM articles),
			(SELECT COUNT(*) FROM trending_topics)`, since,
	).Scan(&s.TotalArticles, &s.ArticlesLast24h, &s.SummarizedCount, &s.TotalCategories,
		&s.TotalSources, &s.LastScrapedAt, &s.TrendingTopicCount)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return s, nil
}

// ArticlesMissingSummary lists the newest articles still waiting for enrichment.
func (r *PostgresRepository) ArticlesMissingSummary(ctx context.Context, limit int) ([]domain.Article, error) {
	b := psql.Select(articleColumns...).
		From("articles a").
		Where(sq.Eq{"a.summary": nil}).
		OrderBy("a.id DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return r.selectArticles(ctx, b)
}

// PruneOlderThan deletes articles dated before cutoff. Category links and summaries cascade.
func (r *PostgresRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := psql.Delete("articles").
		Where(sq.Lt{"COALESCE(published_date, scraped_date)": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build prune: %w", err)
	}
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune articles: %w", err)
	}
	return tag.RowsAffected(), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(s))
}
