package usecase

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"RoboticsDaily/internal/domain"
)

func TestNormalizeResolvesAndStrips(t *testing.T) {
	t.Parallel()

	published := time.Date(2025, 3, 4, 10, 0, 0, 0, time.FixedZone("EST", -5*3600))
	n := NewNormalizer(40)
	article, err := n.Normalize("The Robot Report", "https://www.therobotreport.com/", domain.Stub{
		Title:       "  <b>Atlas</b> learns   parkour ",
		URL:         "/2025/03/atlas/?utm_source=rss&id=7#comments",
		PublishedAt: &published,
		Excerpt:     "<p>Boston Dynamics &amp; friends <script>alert(1)</script>show a humanoid doing flips and more flips.</p>",
		ImageURL:    "//cdn.example.com/atlas.jpg",
	})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if article.Title != "Atlas learns parkour" {
		t.Fatalf("unexpected title %q", article.Title)
	}
	if article.URL != "https://www.therobotreport.com/2025/03/atlas?id=7" {
		t.Fatalf("unexpected url %q", article.URL)
	}
	if article.ImageURL != "https://cdn.example.com/atlas.jpg" {
		t.Fatalf("unexpected image %q", article.ImageURL)
	}
	if strings.Contains(article.Excerpt, "<") || strings.Contains(article.Excerpt, "alert") {
		t.Fatalf("markup left in excerpt: %q", article.Excerpt)
	}
	if !strings.HasPrefix(article.Excerpt, "Boston Dynamics & friends") || !strings.HasSuffix(article.Excerpt, "...") {
		t.Fatalf("unexpected excerpt %q", article.Excerpt)
	}
	if utf8.RuneCountInString(article.Excerpt) > 40 {
		t.Fatalf("excerpt exceeds bound: %d", utf8.RuneCountInString(article.Excerpt))
	}
	if article.PublishedAt == nil || article.PublishedAt.Location() != time.UTC || !article.PublishedAt.Equal(published) {
		t.Fatalf("unexpected publish date %v", article.PublishedAt)
	}
	if article.ReadTimeMinutes != 1 {
		t.Fatalf("expected read time 1, got %d", article.ReadTimeMinutes)
	}
	if article.Source != "The Robot Report" {
		t.Fatalf("unexpected source %q", article.Source)
	}
}

func TestNormalizeLeavesMissingDateUnset(t *testing.T) {
	t.Parallel()

	article, err := NewNormalizer(0).Normalize("MIT News", "", domain.Stub{Title: "Soft grippers", URL: "https://news.mit.edu/2025/soft-grippers/"})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if article.PublishedAt != nil {
		t.Fatalf("expected unset publish date, got %v", article.PublishedAt)
	}
	if article.URL != "https://news.mit.edu/2025/soft-grippers" {
		t.Fatalf("unexpected url %q", article.URL)
	}
}

func TestNormalizeRejectsInvalidStubs(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(0)
	cases := []struct {
		name string
		stub domain.Stub
		base string
		want error
	}{
		{name: "no title", stub: domain.Stub{Title: "  ", URL: "https://a.example/x"}, want: ErrMissingTitle},
		{name: "no url", stub: domain.Stub{Title: "t"}, want: ErrInvalidURL},
		{name: "relative without base", stub: domain.Stub{Title: "t", URL: "/x"}, want: ErrInvalidURL},
		{name: "mailto", stub: domain.Stub{Title: "t", URL: "mailto:a@b.c"}, want: ErrInvalidURL},
		{name: "javascript", stub: domain.Stub{Title: "t", URL: "javascript:void(0)"}, base: "https://a.example", want: ErrInvalidURL},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := n.Normalize("src", tc.base, tc.stub)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCanonicalURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"HTTPS://Example.COM/a/b/":                      "https://example.com/a/b",
		"https://example.com/":                          "https://example.com/",
		"https://example.com/p?b=2&a=1&fbclid=x":        "https://example.com/p?a=1&b=2",
		"https://example.com/p?utm_medium=feed#section": "https://example.com/p",
		"https://example.com/x?":                        "https://example.com/x",
	}
	for in, want := range cases {
		got, err := CanonicalURL(in, "")
		if err != nil {
			t.Fatalf("CanonicalURL(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("CanonicalURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripTagsPlainText(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"robots x<y and more":      "robots x<y and more",
		"R&amp;D robots":           "R&D robots",
		"<p>grip <b>force</b></p>": " grip  force  ",
		"<script>x()</script>arm":  "  arm",
		"a<!-- note -->b":          "ab",
	}
	for in, want := range cases {
		if got := StripTags(in); got != want {
			t.Fatalf("StripTags(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Truncate("роботы повсюду", 9); got != "роботы..." {
		t.Fatalf("unexpected %q", got)
	}
}

func TestReadTime(t *testing.T) {
	t.Parallel()

	if got := readTime(""); got != 1 {
		t.Fatalf("expected floor of 1, got %d", got)
	}
	if got := readTime(strings.Repeat("word ", 500)); got != 3 {
		t.Fatalf("expected 3 minutes, got %d", got)
	}
}
