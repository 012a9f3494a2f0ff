package parser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"RoboticsDaily/internal/config"
	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/ports"
	"RoboticsDaily/internal/scanner"
)

// StrategySource implements ports.SourceFetcher via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	sources  []config.SourceConfig
	limit    int
	timeout  time.Duration
	logger   *slog.Logger
}

var _ ports.SourceFetcher = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined sources.
func NewStrategySource(reg *scanner.Registry, sources []config.SourceConfig, pipeline config.PipelineConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sources:  sources,
		limit:    pipeline.MaxArticlesPerSource,
		timeout:  pipeline.SourceTimeout,
		logger:   log,
	}
}

// FetchAll scans every source in order. A failing source yields a batch with Err set;
// the remaining sources still run.
func (s *StrategySource) FetchAll(ctx context.Context) []domain.SourceBatch {
	batches := make([]domain.SourceBatch, 0, len(s.sources))

	for i, src := range s.sources {
		if i > 0 && s.sources[i-1].Delay > 0 {
			if err := sleep(ctx, s.sources[i-1].Delay); err != nil {
				batches = append(batches, failedBatch(src, err))
				continue
			}
		}

		batch := s.fetchOne(ctx, src)
		if batch.Err != nil {
			s.warn("source failed", "source", src.Name, "error", batch.Err)
		} else {
			s.debug("source produced stubs", "source", src.Name, "count", len(batch.Stubs))
		}
		batches = append(batches, batch)
	}

	return batches
}

func (s *StrategySource) fetchOne(ctx context.Context, src config.SourceConfig) domain.SourceBatch {
	if s.registry == nil {
		return failedBatch(src, fmt.Errorf("scanner registry is not configured"))
	}

	strategy, err := s.registry.Resolve(src.Scanner)
	if err != nil {
		return failedBatch(src, err)
	}

	scanCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		scanCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.debug("scan source", "source", src.Name, "scanner", src.Scanner, "url", src.URL)
	stubs, err := s.scan(scanCtx, strategy, scanner.Request{
		SiteName: src.Name,
		URL:      src.URL,
		BaseURL:  src.BaseURL,
		Limit:    s.limit,
		Options:  src.Options,
	})
	if err != nil {
		return failedBatch(src, err)
	}

	return domain.SourceBatch{Source: src.Name, BaseURL: src.BaseURL, Stubs: stubs}
}

// scan converts a strategy panic into an error so one malformed page cannot stop the run.
func (s *StrategySource) scan(ctx context.Context, strategy scanner.Scanner, req scanner.Request) (stubs []domain.Stub, err error) {
	defer func() {
		if r := recover(); r != nil {
			stubs, err = nil, fmt.Errorf("scanner %s panicked: %v", strategy.Name(), r)
		}
	}()
	return strategy.Scan(ctx, req)
}

func failedBatch(src config.SourceConfig, err error) domain.SourceBatch {
	return domain.SourceBatch{
		Source:  src.Name,
		BaseURL: src.BaseURL,
		Err:     &domain.SourceFetchError{Source: src.Name, Err: err},
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
