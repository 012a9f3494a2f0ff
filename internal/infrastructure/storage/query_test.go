package storage

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/require"
)

func TestArticleFilterConditions(t *testing.T) {
	t.Parallel()

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f := ArticleFilter{Category: "Drones & Aerial Systems", Source: "TechCrunch", From: &from}

	query, args, err := psql.Select("COUNT(*)").From("articles a").Where(f.conditions()).ToSql()
	require.NoError(t, err)
	require.Contains(t, query, "c.name = $1")
	require.Contains(t, query, "a.source = $2")
	require.Contains(t, query, "a.published_date >= $3")
	require.Equal(t, []any{"Drones & Aerial Systems", "TechCrunch", from}, args)
}

func TestEmptyFilterMatchesAll(t *testing.T) {
	t.Parallel()

	query, args, err := psql.Select("COUNT(*)").From("articles a").Where(ArticleFilter{}.conditions()).ToSql()
	require.NoError(t, err)
	require.Contains(t, query, "(1=1)")
	require.Empty(t, args)
}

func TestExistingURLsUsesInList(t *testing.T) {
	t.Parallel()

	query, args, err := psql.Select("url").From("articles").Where(sq.Eq{"url": []string{"a", "b"}}).ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT url FROM articles WHERE url IN ($1,$2)", query)
	require.Len(t, args, 2)
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	require.Equal(t, `100\% \_real\_`, escapeLike(" 100% _real_ "))
}
