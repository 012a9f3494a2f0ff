package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/scanner"
)

// NvidiaScanner extracts post cards from the NVIDIA blog robotics category page.
type NvidiaScanner struct {
	fetcher PageFetcher
}

// NewNvidiaScanner wires the shared page fetcher.
func NewNvidiaScanner(fetcher PageFetcher) *NvidiaScanner {
	return &NvidiaScanner{fetcher: fetcher}
}

// Name identifies the strategy inside the registry.
func (s *NvidiaScanner) Name() string {
	return "nvidia"
}

// Scan fetches the listing page and returns up to req.Limit stubs.
func (s *NvidiaScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Stub, error) {
	doc, err := fetchDocument(ctx, s.fetcher, req.URL)
	if err != nil {
		return nil, err
	}

	cards := findCards(doc, req.Option("cards", "article"), req.Option("fallbackCards", "div.post, div.entry, div.card"))
	if cards.Length() == 0 {
		return nil, fmt.Errorf("no article cards found at %s", req.URL)
	}

	limit := req.MaxItems()
	var stubs []domain.Stub
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if stub, ok := parseNvidiaCard(card); ok {
			stubs = append(stubs, stub)
		}
		return len(stubs) < limit
	})
	return stubs, nil
}

func parseNvidiaCard(card *goquery.Selection) (domain.Stub, bool) {
	titleEl := firstMatch(card, "h2", "h3", ".title", ".entry-title", ".post-title")
	if titleEl == nil {
		return domain.Stub{}, false
	}
	title := cleanText(titleEl.Text())

	href, _ := card.Find("a[href]").First().Attr("href")
	href = strings.TrimSpace(href)
	if title == "" || href == "" {
		return domain.Stub{}, false
	}

	stub := domain.Stub{
		Title:       title,
		URL:         href,
		ImageURL:    imageSource(card),
		PublishedAt: cardDate(card, ".date", ".published", ".post-date"),
	}
	if el := firstMatch(card, "p", ".excerpt", ".summary", ".description"); el != nil {
		stub.Excerpt = cleanText(el.Text())
	}
	return stub, true
}
