package usecase

import (
	"context"
	"log/slog"

	"RoboticsDaily/internal/domain"
)

type urlLookup interface {
	ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error)
}

// Deduplicator drops candidates whose URL is already stored or was already seen in this run.
type Deduplicator struct {
	store  urlLookup
	logger *slog.Logger
}

// NewDeduplicator wires the store lookup.
func NewDeduplicator(store urlLookup, logger *slog.Logger) *Deduplicator {
	return &Deduplicator{store: store, logger: logger}
}

// Filter keeps the first occurrence of every URL that is not in the store. seen is shared
// across sources of one run so a URL offered by two sources is kept once; nil starts empty.
func (d *Deduplicator) Filter(ctx context.Context, source string, candidates []domain.Article, seen map[string]struct{}) ([]domain.Article, []domain.ItemOutcome) {
	if seen == nil {
		seen = map[string]struct{}{}
	}

	var (
		unique     = make([]domain.Article, 0, len(candidates))
		duplicates []domain.ItemOutcome
	)
	for _, c := range candidates {
		if _, ok := seen[c.URL]; ok {
			duplicates = append(duplicates, duplicateOutcome(source, c.URL, "repeated in this run"))
			continue
		}
		seen[c.URL] = struct{}{}
		unique = append(unique, c)
	}

	if d.store == nil || len(unique) == 0 {
		return unique, duplicates
	}

	urls := make([]string, len(unique))
	for i, c := range unique {
		urls[i] = c.URL
	}

	existing, err := d.store.ExistingURLs(ctx, urls)
	if err != nil {
		// Insert-if-absent still guards the unique key, so proceed with every candidate.
		if d.logger != nil {
			d.logger.Warn("existing url lookup failed", "source", source, "error", err)
		}
		return unique, duplicates
	}

	fresh := unique[:0]
	for _, c := range unique {
		if existing[c.URL] {
			duplicates = append(duplicates, duplicateOutcome(source, c.URL, "already stored"))
			continue
		}
		fresh = append(fresh, c)
	}
	return fresh, duplicates
}

func duplicateOutcome(source, url, reason string) domain.ItemOutcome {
	return domain.ItemOutcome{Source: source, URL: url, Status: domain.ItemDuplicate, Reason: reason}
}
