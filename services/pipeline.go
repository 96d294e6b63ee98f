package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/config"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

// Fetcher runs a batch of fetch tasks. Satisfied by the fetch orchestrator;
// tests supply a fake.
type Fetcher interface {
	FetchAll(ctx context.Context, tasks []models.FetchTask) []*models.FetchResult
}

// TaskBuilder expands one query into per-source fetch tasks.
type TaskBuilder interface {
	BuildTasks(query models.SearchQuery, srcs []config.SourceConfig) ([]models.FetchTask, error)
}

// RawSink receives the raw pre-deduplication records of each run, for
// offline inspection or persistence. Optional.
type RawSink interface {
	WriteRaw(properties []*models.Property) error
}

// Pipeline strings the stages together: build tasks, fetch, deduplicate,
// rank. One Search call is one complete run.
type Pipeline struct {
	builder TaskBuilder
	fetcher Fetcher
	dedup   *Deduplicator
	ranker  *Ranker
	sources []config.SourceConfig
	sink    RawSink
	logger  *utils.Logger
}

func NewPipeline(builder TaskBuilder, fetcher Fetcher, srcs []config.SourceConfig, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		builder: builder,
		fetcher: fetcher,
		dedup:   NewDeduplicator(logger),
		ranker:  NewRanker(logger),
		sources: srcs,
		logger:  logger,
	}
}

// AttachSink enables raw-record persistence for subsequent runs.
func (pl *Pipeline) AttachSink(sink RawSink) {
	pl.sink = sink
}

// Search executes one full run for the query. An empty result set is not an
// error: the report still carries full per-source statistics so a caller
// can tell "no matches" apart from "all sources failed".
func (pl *Pipeline) Search(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	started := time.Now()
	query = NormalizeQuery(query)

	report := models.SearchReport{
		QueryID:   uuid.NewString(),
		Sources:   make(map[string]models.SourceStats),
		StartedAt: started,
	}

	tasks, err := pl.builder.BuildTasks(query, pl.sources)
	if err != nil {
		return nil, fmt.Errorf("pipeline: build tasks: %w", err)
	}
	report.TasksSubmitted = len(tasks)
	pl.logger.Info("[pipeline] Query %s: %d task(s) for suburb %q", report.QueryID, len(tasks), query.Suburb)

	fetchStart := time.Now()
	results := pl.fetcher.FetchAll(ctx, tasks)
	report.FetchElapsed = time.Since(fetchStart)

	var raw []*models.Property
	for _, res := range results {
		stats := report.Sources[res.Task.Source]
		stats.Tasks++
		if res.Success {
			stats.Succeeded++
			stats.PropertiesFound += len(res.Properties)
			raw = append(raw, res.Properties...)
		} else {
			stats.Failed++
		}
		stats.RateLimited += res.RateLimitHits
		report.Sources[res.Task.Source] = stats
	}
	report.RawFound = len(raw)

	if pl.sink != nil && len(raw) > 0 {
		if err := pl.sink.WriteRaw(raw); err != nil {
			pl.logger.Warn("[pipeline] Raw sink write failed: %v", err)
		}
	}

	dedupStart := time.Now()
	dd := pl.dedup.Deduplicate(raw)
	report.DedupElapsed = time.Since(dedupStart)
	report.UniqueFound = len(dd.Unique)
	report.DuplicatesRemoved = dd.DuplicatesFound

	ranked := pl.ranker.Rank(query, dd.Unique)
	report.Ranked = len(ranked)
	report.TotalElapsed = time.Since(started)

	pl.logger.Info("[pipeline] Query %s done: %d raw, %d unique, %d ranked in %v",
		report.QueryID, report.RawFound, report.UniqueFound, report.Ranked, report.TotalElapsed)

	return &models.SearchResult{Ranked: ranked, Report: report}, nil
}
