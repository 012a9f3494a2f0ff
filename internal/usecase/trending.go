package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	"RoboticsDaily/internal/domain"
)

// DefaultTrendingKeywords merges company, technology and application vocabularies.
var DefaultTrendingKeywords = []string{
	// companies and platforms
	"boston dynamics", "figure", "tesla", "nvidia", "amazon robotics", "abb", "fanuc",
	"universal robots", "agility robotics", "waymo", "zoox", "optimus", "atlas", "spot", "digit",
	// technologies
	"computer vision", "lidar", "machine learning", "deep learning", "reinforcement learning",
	"slam", "path planning", "grasping", "manipulation", "autonomous navigation", "sensor fusion",
	"foundation model", "simulation",
	// applications
	"humanoid", "drone", "exoskeleton", "cobot", "warehouse automation", "delivery robot",
	"surgical robot", "agricultural robot", "self-driving", "industrial automation",
}

const defaultTrendingWindowDays = 7

type trendingStore interface {
	RecentArticles(ctx context.Context, since time.Time) ([]domain.Article, error)
	ReplaceTrending(ctx context.Context, window domain.Window, topics []domain.TrendingTopic) error
}

type keywordPattern struct {
	topic string
	re    *regexp.Regexp
}

// TrendingExtractor recomputes keyword mention counts over a rolling window.
type TrendingExtractor struct {
	store    trendingStore
	window   time.Duration
	patterns []keywordPattern
	logger   *slog.Logger
}

// NewTrendingExtractor compiles keywords; an empty list selects DefaultTrendingKeywords.
func NewTrendingExtractor(store trendingStore, windowDays int, keywords []string, logger *slog.Logger) *TrendingExtractor {
	if windowDays <= 0 {
		windowDays = defaultTrendingWindowDays
	}
	if len(keywords) == 0 {
		keywords = DefaultTrendingKeywords
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TrendingExtractor{
		store:    store,
		window:   time.Duration(windowDays) * 24 * time.Hour,
		patterns: compileKeywords(keywords),
		logger:   logger,
	}
}

func compileKeywords(keywords []string) []keywordPattern {
	patterns := make([]keywordPattern, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		topic := strings.ToLower(strings.Join(strings.Fields(kw), " "))
		if topic == "" {
			continue
		}
		if _, dup := seen[topic]; dup {
			continue
		}
		seen[topic] = struct{}{}

		words := strings.Fields(topic)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		expr := `(?i)\b` + strings.Join(words, `\s+`) + `s?\b`
		patterns = append(patterns, keywordPattern{topic: topic, re: regexp.MustCompile(expr)})
	}
	return patterns
}

// Window returns the span ending at now.
func (t *TrendingExtractor) Window(now time.Time) domain.Window {
	now = now.UTC()
	return domain.Window{Start: now.Add(-t.window), End: now}
}

// Compute replaces the stored trending set with counts over the window ending at now.
func (t *TrendingExtractor) Compute(ctx context.Context, now time.Time) ([]domain.TrendingTopic, error) {
	window := t.Window(now)

	articles, err := t.store.RecentArticles(ctx, window.Start)
	if err != nil {
		return nil, fmt.Errorf("load recent articles: %w", err)
	}

	topics := t.CountTopics(articles, window)
	if err := t.store.ReplaceTrending(ctx, window, topics); err != nil {
		return nil, fmt.Errorf("replace trending: %w", err)
	}

	t.logger.Info("trending computed", "articles", len(articles), "topics", len(topics))
	return topics, nil
}

// CountTopics is the pure counting step: occurrences per keyword over in-window articles,
// zero counts excluded, sorted by count desc then topic asc.
func (t *TrendingExtractor) CountTopics(articles []domain.Article, window domain.Window) []domain.TrendingTopic {
	byTopic := make(map[string]*domain.TrendingTopic)

	for _, a := range articles {
		ts := a.Timestamp()
		if !window.Contains(ts) {
			continue
		}
		text := trendingText(a)

		for _, p := range t.patterns {
			n := len(p.re.FindAllStringIndex(text, -1))
			if n == 0 {
				continue
			}
			topic, ok := byTopic[p.topic]
			if !ok {
				topic = &domain.TrendingTopic{Topic: p.topic, Window: window}
				byTopic[p.topic] = topic
			}
			topic.MentionCount += n
			if ts.After(topic.LastSeen) {
				topic.LastSeen = ts
			}
			if a.ID != 0 && !slices.Contains(topic.RelatedArticles, a.ID) {
				topic.RelatedArticles = append(topic.RelatedArticles, a.ID)
			}
		}
	}

	out := make([]domain.TrendingTopic, 0, len(byTopic))
	for _, topic := range byTopic {
		slices.Sort(topic.RelatedArticles)
		out = append(out, *topic)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MentionCount != out[j].MentionCount {
			return out[i].MentionCount > out[j].MentionCount
		}
		return out[i].Topic < out[j].Topic
	})
	return out
}

// trendingText is title plus summary, or title plus excerpt while the summary is unset.
func trendingText(a domain.Article) string {
	body := a.Excerpt
	if a.Summary != nil && *a.Summary != "" {
		body = *a.Summary
	}
	return a.Title + "\n" + body
}
