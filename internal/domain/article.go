package domain

import "time"

// Stub is the raw article reference a source strategy extracts from a page or feed.
type Stub struct {
	Title       string
	URL         string
	PublishedAt *time.Time
	Excerpt     string
	ImageURL    string
	Author      string
}

// Article is the canonical record stored once per distinct URL.
type Article struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	URL             string     `json:"url"`
	Source          string     `json:"source"`
	Author          string     `json:"author,omitempty"`
	PublishedAt     *time.Time `json:"published_date"`
	Excerpt         string     `json:"excerpt"`
	ImageURL        string     `json:"image_url,omitempty"`
	ReadTimeMinutes int        `json:"read_time_minutes"`
	Summary         *string    `json:"summary"`
	Categories      []string   `json:"categories"`
	CreatedAt       time.Time  `json:"scraped_date"`
}

// Timestamp is the moment used for windowing: publish date when known, creation time otherwise.
func (a Article) Timestamp() time.Time {
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return a.CreatedAt
}

// CategoryScore is one category label with the model's confidence.
type CategoryScore struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Enrichment carries the AI-generated fields attached to an article once.
type Enrichment struct {
	Summary    string          `json:"summary,omitempty"`
	Categories []CategoryScore `json:"categories,omitempty"`
	Model      string          `json:"model,omitempty"`
}

// Empty reports whether nothing was produced.
func (e Enrichment) Empty() bool {
	return e.Summary == "" && len(e.Categories) == 0
}

// CategoryNames lists category names in the stored order.
func (e Enrichment) CategoryNames() []string {
	names := make([]string, 0, len(e.Categories))
	for _, c := range e.Categories {
		names = append(names, c.Name)
	}
	return names
}

// Source describes a configured news source and its derived article count.
type Source struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Strategy     string `json:"strategy"`
	ArticleCount int64  `json:"article_count"`
}
