package parser

import (
	"context"
	"errors"
	"testing"

	"RoboticsDaily/internal/config"
	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/scanner"
)

type funcScanner struct {
	name string
	scan func(req scanner.Request) ([]domain.Stub, error)
}

func (f funcScanner) Name() string { return f.name }

func (f funcScanner) Scan(_ context.Context, req scanner.Request) ([]domain.Stub, error) {
	return f.scan(req)
}

func TestStrategySourceIsolatesFailures(t *testing.T) {
	t.Parallel()

	reg := scanner.NewRegistry()
	reg.Register(funcScanner{name: "ok", scan: func(req scanner.Request) ([]domain.Stub, error) {
		return []domain.Stub{{Title: req.SiteName, URL: req.URL}}, nil
	}})
	reg.Register(funcScanner{name: "broken", scan: func(scanner.Request) ([]domain.Stub, error) {
		return nil, errors.New("connection refused")
	}})
	reg.Register(funcScanner{name: "panicky", scan: func(scanner.Request) ([]domain.Stub, error) {
		panic("nil selection")
	}})

	sources := []config.SourceConfig{
		{Name: "first", Scanner: "ok", URL: "https://a.example/"},
		{Name: "second", Scanner: "broken"},
		{Name: "third", Scanner: "panicky"},
		{Name: "fourth", Scanner: "unknown"},
		{Name: "fifth", Scanner: "ok", URL: "https://e.example/"},
	}

	src := NewStrategySource(reg, sources, config.PipelineConfig{MaxArticlesPerSource: 5}, nil)
	batches := src.FetchAll(context.Background())

	if len(batches) != len(sources) {
		t.Fatalf("expected one batch per source, got %d", len(batches))
	}
	for i, wantErr := range []bool{false, true, true, true, false} {
		if (batches[i].Err != nil) != wantErr {
			t.Fatalf("batch %d (%s): unexpected err %v", i, batches[i].Source, batches[i].Err)
		}
		if wantErr {
			var sfe *domain.SourceFetchError
			if !errors.As(batches[i].Err, &sfe) || sfe.Source != sources[i].Name {
				t.Fatalf("batch %d: expected SourceFetchError, got %T", i, batches[i].Err)
			}
		}
	}
	if len(batches[4].Stubs) != 1 || batches[4].Stubs[0].Title != "fifth" {
		t.Fatalf("last source should still be scanned: %+v", batches[4])
	}
}

func TestStrategySourcePassesLimit(t *testing.T) {
	t.Parallel()

	var got int
	reg := scanner.NewRegistry()
	reg.Register(funcScanner{name: "rss", scan: func(req scanner.Request) ([]domain.Stub, error) {
		got = req.MaxItems()
		return nil, nil
	}})

	src := NewStrategySource(reg, []config.SourceConfig{{Name: "x", Scanner: "rss"}}, config.PipelineConfig{MaxArticlesPerSource: 7}, nil)
	src.FetchAll(context.Background())
	if got != 7 {
		t.Fatalf("expected limit 7, got %d", got)
	}
}
