package parser

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/scanner"
)

// FeedScanner reads RSS or Atom feeds (IEEE Spectrum, MIT News).
type FeedScanner struct {
	fetcher PageFetcher
}

// NewFeedScanner wires the shared page fetcher.
func NewFeedScanner(fetcher PageFetcher) *FeedScanner {
	return &FeedScanner{fetcher: fetcher}
}

// Name identifies the strategy inside the registry.
func (s *FeedScanner) Name() string {
	return "rss"
}

// Scan downloads the feed and maps its items to stubs.
func (s *FeedScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Stub, error) {
	body, err := s.fetcher.Get(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	limit := req.MaxItems()
	stubs := make([]domain.Stub, 0, min(limit, len(feed.Items)))
	for _, item := range feed.Items {
		if len(stubs) >= limit {
			break
		}
		stub, ok := feedItemStub(item)
		if !ok {
			continue
		}
		stubs = append(stubs, stub)
	}
	return stubs, nil
}

func feedItemStub(item *gofeed.Item) (domain.Stub, bool) {
	if item == nil {
		return domain.Stub{}, false
	}
	title := cleanText(item.Title)
	link := strings.TrimSpace(item.Link)
	if link == "" {
		link = strings.TrimSpace(item.GUID)
		if !strings.HasPrefix(link, "http") {
			link = ""
		}
	}
	if title == "" || link == "" {
		return domain.Stub{}, false
	}

	stub := domain.Stub{
		Title:    title,
		URL:      link,
		Excerpt:  item.Description,
		ImageURL: feedImage(item),
	}
	if stub.Excerpt == "" {
		stub.Excerpt = item.Content
	}

	switch {
	case item.PublishedParsed != nil:
		published := item.PublishedParsed.UTC()
		stub.PublishedAt = &published
	case item.UpdatedParsed != nil:
		updated := item.UpdatedParsed.UTC()
		stub.PublishedAt = &updated
	default:
		stub.PublishedAt = parseDate(item.Published)
	}

	if len(item.Authors) > 0 && item.Authors[0] != nil {
		stub.Author = strings.TrimSpace(item.Authors[0].Name)
	}
	return stub, true
}

// feedImage prefers media:thumbnail, then media:content, then an image enclosure.
func feedImage(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, key := range []string{"thumbnail", "content"} {
			for _, ext := range media[key] {
				if u := ext.Attrs["url"]; u != "" {
					if t := ext.Attrs["type"]; t != "" && !strings.HasPrefix(t, "image/") {
						continue
					}
					return u
				}
			}
		}
	}
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if enc.Type == "" || strings.HasPrefix(strings.ToLower(enc.Type), "image/") {
			return enc.URL
		}
	}
	if item.Image != nil {
		return item.Image.URL
	}
	return ""
}
