package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/ports/mocks"
)

func TestFilterDropsStoredAndRepeated(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockArticleRepository(ctrl)
	repo.EXPECT().
		ExistingURLs(gomock.Any(), []string{"https://a.example/1", "https://a.example/2"}).
		Return(map[string]bool{"https://a.example/2": true}, nil)

	d := NewDeduplicator(repo, nil)
	fresh, dups := d.Filter(context.Background(), "IEEE Spectrum", []domain.Article{
		{Title: "one", URL: "https://a.example/1"},
		{Title: "two", URL: "https://a.example/2"},
		{Title: "one again", URL: "https://a.example/1"},
	}, nil)

	if len(fresh) != 1 || fresh[0].Title != "one" {
		t.Fatalf("unexpected fresh set %+v", fresh)
	}
	if len(dups) != 2 {
		t.Fatalf("expected 2 duplicates, got %+v", dups)
	}
	for _, o := range dups {
		if o.Status != domain.ItemDuplicate || o.Source != "IEEE Spectrum" {
			t.Fatalf("unexpected outcome %+v", o)
		}
	}
}

func TestFilterSharesSeenSet(t *testing.T) {
	t.Parallel()

	d := NewDeduplicator(newMemRepo(), nil)
	seen := map[string]struct{}{}
	first, _ := d.Filter(context.Background(), "a", []domain.Article{{URL: "https://x.example/s"}}, seen)
	second, dups := d.Filter(context.Background(), "b", []domain.Article{{URL: "https://x.example/s"}}, seen)

	if len(first) != 1 || len(second) != 0 || len(dups) != 1 {
		t.Fatalf("unexpected filter results: %v %v %v", first, second, dups)
	}
}

func TestFilterProceedsWhenLookupFails(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	repo.lookupErr = errors.New("connection reset")
	d := NewDeduplicator(repo, nil)

	fresh, dups := d.Filter(context.Background(), "a", []domain.Article{{URL: "https://x.example/1"}, {URL: "https://x.example/2"}}, nil)
	if len(fresh) != 2 || len(dups) != 0 {
		t.Fatalf("expected all candidates kept, got %v %v", fresh, dups)
	}
}
