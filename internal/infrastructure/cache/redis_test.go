package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"RoboticsDaily/internal/domain"
	"RoboticsDaily/pkg/testkit"
)

func TestRedisCacheRoundTrip(t *testing.T) {
	testkit.RequireIntegration(t)

	ctx := context.Background()
	c, err := NewRedisCache(ctx, testkit.NewRedisURLWithCleanup(ctx, t), time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	_, ok, err := c.Get(ctx, "https://a.example/missing")
	require.NoError(t, err)
	require.False(t, ok)

	want := domain.Enrichment{
		Summary:    "NVIDIA releases a new robot foundation model.",
		Categories: []domain.CategoryScore{{Name: "AI & Software", Confidence: 0.9}},
		Model:      "deepseek-chat",
	}
	require.NoError(t, c.Put(ctx, "https://a.example/x", want))

	got, ok, err := c.Get(ctx, "https://a.example/x")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)

	ttl, err := c.rdb.TTL(ctx, c.key("https://a.example/x")).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
}

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := NewRedisCache(context.Background(), "not-a-url", 0)
	require.Error(t, err)
}
