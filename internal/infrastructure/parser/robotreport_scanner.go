package parser

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/scanner"
)

// RobotReportScanner walks The Robot Report front page with XPath expressions.
type RobotReportScanner struct {
	fetcher PageFetcher
}

// NewRobotReportScanner wires the shared page fetcher.
func NewRobotReportScanner(fetcher PageFetcher) *RobotReportScanner {
	return &RobotReportScanner{fetcher: fetcher}
}

func (s *RobotReportScanner) Name() string {
	return "robotreport"
}

func (s *RobotReportScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Stub, error) {
	body, err := s.fetcher.Get(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	cards, err := htmlquery.QueryAll(doc, req.Option("cards", "//article"))
	if err != nil {
		return nil, fmt.Errorf("cards xpath: %w", err)
	}
	if len(cards) == 0 {
		fallback := fmt.Sprintf("//div[%s or %s or %s]", hasClass("post"), hasClass("entry"), hasClass("item"))
		cards = htmlquery.Find(doc, fallback)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("no article cards found at %s", req.URL)
	}

	limit := req.MaxItems()
	stubs := make([]domain.Stub, 0, limit)
	for _, card := range cards {
		if len(stubs) >= limit {
			break
		}
		if stub, ok := parseRobotReportCard(card); ok {
			stubs = append(stubs, stub)
		}
	}
	return stubs, nil
}

func hasClass(name string) string {
	return fmt.Sprintf("contains(concat(' ', normalize-space(@class), ' '), ' %s ')", name)
}

func parseRobotReportCard(card *html.Node) (domain.Stub, bool) {
	titleEl := htmlquery.FindOne(card, ".//h1|.//h2|.//h3")
	if titleEl == nil {
		titleEl = htmlquery.FindOne(card, fmt.Sprintf(".//*[%s or %s or %s]", hasClass("title"), hasClass("entry-title"), hasClass("post-title")))
	}
	if titleEl == nil {
		return domain.Stub{}, false
	}
	title := cleanText(htmlquery.InnerText(titleEl))

	var href string
	if link := htmlquery.FindOne(titleEl, ".//a[@href]"); link != nil {
		href = htmlquery.SelectAttr(link, "href")
	}
	if href == "" {
		if link := htmlquery.FindOne(card, ".//a[@href]"); link != nil {
			href = htmlquery.SelectAttr(link, "href")
		}
	}
	href = strings.TrimSpace(href)
	if title == "" || href == "" {
		return domain.Stub{}, false
	}

	stub := domain.Stub{Title: title, URL: href}

	if el := htmlquery.FindOne(card, fmt.Sprintf(".//*[%s or %s or %s]", hasClass("excerpt"), hasClass("summary"), hasClass("entry-content"))); el != nil {
		stub.Excerpt = cleanText(htmlquery.InnerText(el))
	} else {
		for _, p := range htmlquery.Find(card, ".//p") {
			text := cleanText(htmlquery.InnerText(p))
			if utf8.RuneCountInString(text) > 50 {
				stub.Excerpt = text
				break
			}
		}
	}

	if img := htmlquery.FindOne(card, ".//img"); img != nil {
		src := htmlquery.SelectAttr(img, "src")
		if src == "" || strings.HasPrefix(src, "data:") {
			src = htmlquery.SelectAttr(img, "data-src")
		}
		stub.ImageURL = strings.TrimSpace(src)
	}

	if el := htmlquery.FindOne(card, fmt.Sprintf(".//*[%s or %s or %s]|.//a[@rel='author']", hasClass("author"), hasClass("byline"), hasClass("post-author"))); el != nil {
		stub.Author = strings.TrimPrefix(cleanText(htmlquery.InnerText(el)), "By ")
	}

	if t := htmlquery.FindOne(card, ".//time[@datetime]"); t != nil {
		stub.PublishedAt = parseDate(htmlquery.SelectAttr(t, "datetime"))
	}
	if stub.PublishedAt == nil {
		expr := fmt.Sprintf(".//*[%s or %s or %s or %s]", hasClass("date"), hasClass("published"), hasClass("post-date"), hasClass("entry-date"))
		if el := htmlquery.FindOne(card, expr); el != nil {
			stub.PublishedAt = parseDate(cleanText(htmlquery.InnerText(el)))
		}
	}
	return stub, true
}
