package usecase

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"RoboticsDaily/internal/domain"
)

var (
	ErrMissingTitle = errors.New("missing title")
	ErrInvalidURL   = errors.New("invalid url")
)

const (
	defaultExcerptLength = 300
	wordsPerMinute       = 200
	ellipsis             = "..."
)

var trackingParams = map[string]struct{}{
	"fbclid": {},
	"gclid":  {},
	"yclid":  {},
	"mc_cid": {},
	"mc_eid": {},
}

// markupPattern matches a tag, comment or doctype; a bare "<" in prose does not.
var markupPattern = regexp.MustCompile(`<[A-Za-z!/][^<>]*>`)

// Normalizer maps source stubs into canonical article records.
type Normalizer struct {
	excerptLength int
}

// NewNormalizer bounds excerpts to excerptLength runes; zero selects the default.
func NewNormalizer(excerptLength int) *Normalizer {
	if excerptLength <= 0 {
		excerptLength = defaultExcerptLength
	}
	return &Normalizer{excerptLength: excerptLength}
}

// Normalize resolves links against baseURL, strips markup and leaves a missing publish date unset.
func (n *Normalizer) Normalize(source, baseURL string, stub domain.Stub) (domain.Article, error) {
	title := collapseSpace(StripTags(stub.Title))
	if title == "" {
		return domain.Article{}, ErrMissingTitle
	}

	link, err := CanonicalURL(stub.URL, baseURL)
	if err != nil {
		return domain.Article{}, err
	}

	excerpt := collapseSpace(StripTags(stub.Excerpt))

	article := domain.Article{
		Title:           title,
		URL:             link,
		Source:          source,
		Author:          collapseSpace(stub.Author),
		Excerpt:         Truncate(excerpt, n.excerptLength),
		ImageURL:        resolveImage(stub.ImageURL, baseURL),
		ReadTimeMinutes: readTime(excerpt),
	}
	if stub.PublishedAt != nil {
		published := stub.PublishedAt.UTC()
		article.PublishedAt = &published
	}
	return article, nil
}

// CanonicalURL resolves raw against base and strips fragments, tracking parameters and trailing slashes.
func CanonicalURL(raw, base string) (string, error) {
	u, err := resolve(raw, base)
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.ForceQuery = false

	if u.RawQuery != "" {
		query := u.Query()
		for key := range query {
			lower := strings.ToLower(key)
			if _, ok := trackingParams[lower]; ok || strings.HasPrefix(lower, "utm_") {
				query.Del(key)
			}
		}
		u.RawQuery = query.Encode()
	}

	if u.Path != "/" {
		u.Path = strings.TrimRight(u.Path, "/")
		u.RawPath = strings.TrimRight(u.RawPath, "/")
	}

	return u.String(), nil
}

func resolve(raw, base string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if !u.IsAbs() {
		if base == "" {
			return nil, fmt.Errorf("%w: relative %q without base", ErrInvalidURL, raw)
		}
		baseURL, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("%w: base %v", ErrInvalidURL, err)
		}
		u = baseURL.ResolveReference(u)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u, nil
}

func resolveImage(raw, base string) string {
	if raw == "" {
		return ""
	}
	u, err := resolve(raw, base)
	if err != nil {
		return ""
	}
	return u.String()
}

// StripTags returns the text content of an HTML fragment; script and style bodies are dropped.
func StripTags(fragment string) string {
	if !markupPattern.MatchString(fragment) {
		if strings.Contains(fragment, "&") {
			return html.UnescapeString(fragment)
		}
		return fragment
	}

	var (
		b    strings.Builder
		skip int
	)
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			name, _ := z.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// Truncate bounds s to limit runes, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	if limit <= len(ellipsis) {
		return string(runes[:limit])
	}
	cut := strings.TrimRight(string(runes[:limit-len(ellipsis)]), " ")
	return cut + ellipsis
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func readTime(text string) int {
	words := len(strings.Fields(text))
	minutes := int(math.Round(float64(words) / wordsPerMinute))
	return max(1, minutes)
}
