package parser

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PageFetcher returns raw page or feed bytes for a URL.
type PageFetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

var spaceExpr = regexp.MustCompile(`\s+`)

// parseDate tries every known layout; an unparseable value leaves the date unset.
func parseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}

func cleanText(value string) string {
	return strings.TrimSpace(spaceExpr.ReplaceAllString(value, " "))
}

func fetchDocument(ctx context.Context, fetcher PageFetcher, pageURL string) (*goquery.Document, error) {
	body, err := fetcher.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// firstMatch returns the first element matched by any selector, in selector priority order.
func firstMatch(card *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		if found := card.Find(sel).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}

func findCards(doc *goquery.Document, primary, fallback string) *goquery.Selection {
	cards := doc.Find(primary)
	if cards.Length() == 0 && fallback != "" {
		cards = doc.Find(fallback)
	}
	return cards
}

func imageSource(card *goquery.Selection) string {
	img := card.Find("img").First()
	if img.Length() == 0 {
		return ""
	}
	if src, ok := img.Attr("src"); ok && strings.TrimSpace(src) != "" && !strings.HasPrefix(src, "data:") {
		return strings.TrimSpace(src)
	}
	if src, ok := img.Attr("data-src"); ok {
		return strings.TrimSpace(src)
	}
	return ""
}

func cardDate(card *goquery.Selection, fallbackSelectors ...string) *time.Time {
	if t := card.Find("time[datetime]").First(); t.Length() > 0 {
		if published := parseDate(t.AttrOr("datetime", "")); published != nil {
			return published
		}
	}
	if el := firstMatch(card, fallbackSelectors...); el != nil {
		if dt, ok := el.Attr("datetime"); ok {
			if published := parseDate(dt); published != nil {
				return published
			}
		}
		return parseDate(cleanText(el.Text()))
	}
	return nil
}
