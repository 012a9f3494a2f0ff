package domain

import "time"

// RunState enumerates orchestrator milestones.
type RunState string

const (
	StateIdle              RunState = "idle"
	StateFetchingSources   RunState = "fetching_sources"
	StateNormalizing       RunState = "normalizing"
	StateDeduplicating     RunState = "deduplicating"
	StateEnriching         RunState = "enriching"
	StatePersisting        RunState = "persisting"
	StateComputingTrending RunState = "computing_trending"
	StateDone              RunState = "done"
)

// Trigger names what started a run.
type Trigger string

const (
	TriggerScheduled Trigger = "scheduled"
	TriggerAdmin     Trigger = "admin"
	TriggerCLI       Trigger = "cli"
)

// SourceStatus is the per-source sub-task result.
type SourceStatus string

const (
	SourceOK     SourceStatus = "ok"
	SourceFailed SourceStatus = "failed"
)

// ItemStatus tags what happened to one candidate article.
type ItemStatus string

const (
	ItemInvalid       ItemStatus = "invalid"
	ItemDuplicate     ItemStatus = "duplicate"
	ItemNew           ItemStatus = "new"
	ItemEnriched      ItemStatus = "enriched"
	ItemEnrichFailed  ItemStatus = "enrich_failed"
	ItemEnrichSkipped ItemStatus = "enrich_skipped"
	ItemPersisted     ItemStatus = "persisted"
	ItemPersistFailed ItemStatus = "persist_failed"
)

// SourceBatch is one source's fetch result. Err is set instead of panicking or aborting.
type SourceBatch struct {
	Source  string
	BaseURL string
	Stubs   []Stub
	Err     error
}

// ItemOutcome is an outcome-tagged record for one candidate.
type ItemOutcome struct {
	Source     string     `json:"source"`
	URL        string     `json:"url"`
	Status     ItemStatus `json:"status"`
	Enrichment ItemStatus `json:"enrichment,omitempty"`
	ArticleID  int64      `json:"article_id,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	Err        error      `json:"-"`
}

// SourceReport aggregates outcomes for one source.
type SourceReport struct {
	Source        string       `json:"source"`
	Status        SourceStatus `json:"status"`
	Error         string       `json:"error,omitempty"`
	Fetched       int          `json:"fetched"`
	Invalid       int          `json:"invalid"`
	New           int          `json:"new"`
	Duplicates    int          `json:"duplicates"`
	Enriched      int          `json:"enriched"`
	EnrichFailed  int          `json:"enrich_failed"`
	Persisted     int          `json:"persisted"`
	PersistFailed int          `json:"persist_failed"`
}

// Totals sums counters over all sources.
type Totals struct {
	Fetched       int `json:"fetched"`
	New           int `json:"new"`
	Duplicates    int `json:"duplicates"`
	Enriched      int `json:"enriched"`
	Failed        int `json:"failed"`
	FailedSources int `json:"failed_sources"`
}

// RunSummary is what a run reports once it reaches Done.
type RunSummary struct {
	RunID         string         `json:"run_id"`
	Trigger       Trigger        `json:"trigger"`
	State         RunState       `json:"state"`
	StartedAt     time.Time      `json:"started_at"`
	FinishedAt    time.Time      `json:"finished_at"`
	Duration      float64        `json:"duration_seconds"`
	Sources       []SourceReport `json:"sources"`
	Totals        Totals         `json:"totals"`
	TrendingCount int            `json:"trending_topics"`
	TrendingError string         `json:"trending_error,omitempty"`
	Outcomes      []ItemOutcome  `json:"outcomes,omitempty"`
}

// Tally recomputes Totals from the per-source reports.
func (s *RunSummary) Tally() {
	var t Totals
	for _, src := range s.Sources {
		t.Fetched += src.Fetched
		t.New += src.New
		t.Duplicates += src.Duplicates
		t.Enriched += src.Enriched
		t.Failed += src.EnrichFailed + src.PersistFailed
		if src.Status == SourceFailed {
			t.FailedSources++
			t.Failed++
		}
	}
	s.Totals = t
}
