package domain

import "time"

// Window is the rolling span trending counts are computed over.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// TrendingTopic is a keyword with its mention count inside one window.
// A new computation supersedes the previous set entirely.
type TrendingTopic struct {
	Topic           string    `json:"topic_name"`
	MentionCount    int       `json:"mention_count"`
	Window          Window    `json:"window"`
	LastSeen        time.Time `json:"last_seen"`
	RelatedArticles []int64   `json:"related_articles"`
}
