package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/scanner"
)

// TechCrunchScanner extracts post blocks from the TechCrunch robotics category.
type TechCrunchScanner struct {
	fetcher PageFetcher
}

// NewTechCrunchScanner wires the shared page fetcher.
func NewTechCrunchScanner(fetcher PageFetcher) *TechCrunchScanner {
	return &TechCrunchScanner{fetcher: fetcher}
}

func (s *TechCrunchScanner) Name() string {
	return "techcrunch"
}

func (s *TechCrunchScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Stub, error) {
	doc, err := fetchDocument(ctx, s.fetcher, req.URL)
	if err != nil {
		return nil, err
	}

	cards := findCards(doc, req.Option("cards", ".post-block, .wp-block-post"), req.Option("fallbackCards", "article"))
	if cards.Length() == 0 {
		return nil, fmt.Errorf("no post blocks found at %s", req.URL)
	}

	limit := req.MaxItems()
	var stubs []domain.Stub
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if stub, ok := parseTechCrunchCard(card); ok {
			stubs = append(stubs, stub)
		}
		return len(stubs) < limit
	})
	return stubs, nil
}

func parseTechCrunchCard(card *goquery.Selection) (domain.Stub, bool) {
	titleEl := firstMatch(card, "h2", "h3", ".post-block__title", ".post__title")
	if titleEl == nil {
		return domain.Stub{}, false
	}
	title := cleanText(titleEl.Text())

	// The title anchor is the canonical link; other anchors point at authors or tags.
	href, ok := titleEl.Find("a[href]").First().Attr("href")
	if !ok {
		href, _ = card.Find("a[href]").First().Attr("href")
	}
	href = strings.TrimSpace(href)
	if title == "" || href == "" {
		return domain.Stub{}, false
	}

	stub := domain.Stub{
		Title:       title,
		URL:         href,
		ImageURL:    imageSource(card),
		PublishedAt: cardDate(card, ".date", ".published"),
	}
	if el := firstMatch(card, ".post-block__content", ".excerpt", "p"); el != nil {
		stub.Excerpt = cleanText(el.Text())
	}
	if el := firstMatch(card, ".post-block__author", ".author", ".byline"); el != nil {
		stub.Author = strings.TrimPrefix(cleanText(el.Text()), "By ")
	}
	return stub, true
}
