package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"RoboticsDaily/internal/domain"
)

type backlogStore interface {
	ArticlesMissingSummary(ctx context.Context, limit int) ([]domain.Article, error)
	UpdateEnrichment(ctx context.Context, articleID int64, enrichment domain.Enrichment) error
}

// ReenrichResult counts what a backlog pass did.
type ReenrichResult struct {
	Candidates int `json:"candidates"`
	Enriched   int `json:"enriched"`
	Failed     int `json:"failed"`
}

// Reenricher retries enrichment for stored articles whose summary is still unset.
type Reenricher struct {
	store    backlogStore
	enricher *Enricher
	logger   *slog.Logger
}

func NewReenricher(store backlogStore, enricher *Enricher, logger *slog.Logger) *Reenricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reenricher{store: store, enricher: enricher, logger: logger.With("component", "reenrich")}
}

// Run enriches up to limit backlog articles with the same delay and failure policy as a pipeline run.
func (r *Reenricher) Run(ctx context.Context, limit int) (ReenrichResult, error) {
	var res ReenrichResult
	if !r.enricher.Enabled() {
		return res, ErrEnrichmentDisabled
	}

	articles, err := r.store.ArticlesMissingSummary(ctx, limit)
	if err != nil {
		return res, fmt.Errorf("load backlog: %w", err)
	}
	res.Candidates = len(articles)

	for _, a := range articles {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		enrichment, err := r.enricher.Enrich(ctx, a)
		if err != nil {
			res.Failed++
			r.logger.Warn("reenrich failed", "id", a.ID, "url", a.URL, "error", err)
		}
		if enrichment.Empty() {
			continue
		}
		if uErr := r.store.UpdateEnrichment(ctx, a.ID, enrichment); uErr != nil {
			if err == nil {
				res.Failed++
			}
			r.logger.Error("store enrichment failed", "id", a.ID, "error", uErr)
			continue
		}
		if err == nil {
			res.Enriched++
		}
	}

	r.logger.Info("reenrich finished", "candidates", res.Candidates, "enriched", res.Enriched, "failed", res.Failed)
	return res, nil
}
