// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest pulls recent papers from the arXiv feed, embeds them,
// and stores new ones in the vector index. Citation enrichment and the
// SQLite metadata store are optional collaborators; either can be absent
// without changing the control flow.
package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/paper-rag/internal/embedding"
	"github.com/pdiddy/paper-rag/internal/ratelimit"
	"github.com/pdiddy/paper-rag/internal/vectorindex"
	"github.com/pdiddy/paper-rag/pkg/types"
)

// Feed is the paper source the worker pulls from.
type Feed interface {
	Fetch(ctx context.Context, categories []string, maxResults, daysBack int) ([]types.Paper, error)
}

// Embedder is the slice of the embedding client the worker needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// MetadataStore receives a copy of every stored paper's metadata.
type MetadataStore interface {
	SavePaper(ctx context.Context, paper types.Paper) error
}

// BatchResult holds the outcome of one ingestion run.
type BatchResult struct {
	Fetched  int `json:"fetched" yaml:"fetched"`
	Stored   int `json:"stored" yaml:"stored"`
	Skipped  int `json:"skipped" yaml:"skipped"`
	Failed   int `json:"failed" yaml:"failed"`
	Enriched int `json:"enriched" yaml:"enriched"`

	Items []ItemStatus `json:"items,omitempty" yaml:"items,omitempty"`
}

// ItemStatus records the outcome for one paper in a run.
type ItemStatus struct {
	PaperID string `json:"paper_id" yaml:"paper_id"`
	Title   string `json:"title" yaml:"title"`
	Status  string `json:"status" yaml:"status"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// HasFailures reports whether any papers failed.
func (r BatchResult) HasFailures() bool { return r.Failed > 0 }

// Worker runs the ingestion pipeline.
type Worker struct {
	feed     Feed
	embedder Embedder
	index    vectorindex.Index
	enricher Enricher      // nil disables enrichment
	store    MetadataStore // nil disables the metadata store

	feedPipeline   *ratelimit.Pipeline
	enrichPipeline *ratelimit.Pipeline
	embedRetry     *ratelimit.RetryPolicy

	cfg types.FeedConfig
	log *logrus.Entry
}

// NewWorker wires an ingestion worker from its collaborators.
func NewWorker(feed Feed, embedder Embedder, index vectorindex.Index, enricher Enricher,
	store MetadataStore, feedPipeline, enrichPipeline *ratelimit.Pipeline,
	embedRetry *ratelimit.RetryPolicy, cfg types.FeedConfig, log *logrus.Entry) *Worker {
	return &Worker{
		feed:           feed,
		embedder:       embedder,
		index:          index,
		enricher:       enricher,
		store:          store,
		feedPipeline:   feedPipeline,
		enrichPipeline: enrichPipeline,
		embedRetry:     embedRetry,
		cfg:            cfg,
		log:            log,
	}
}

// Run fetches the newest feed papers and ingests each one, printing
// per-item status to out. Individual paper failures are isolated: the run
// continues and the failure is counted, not propagated. Only a feed
// fetch failure aborts the run.
func (w *Worker) Run(ctx context.Context, out io.Writer) (BatchResult, error) {
	var result BatchResult

	var papers []types.Paper
	err := w.feedPipeline.Execute(ctx, func(ctx context.Context) error {
		var fetchErr error
		papers, fetchErr = w.feed.Fetch(ctx, w.cfg.Categories, w.cfg.MaxResults, w.cfg.DaysBack)
		return fetchErr
	})
	if err != nil {
		return result, fmt.Errorf("fetching feed: %w", err)
	}
	result.Fetched = len(papers)
	fmt.Fprintf(out, "fetched %d papers from feed\n", len(papers))

	for _, paper := range papers {
		item := ItemStatus{PaperID: paper.ID, Title: paper.Title}
		stored, enriched, err := w.ingestOne(ctx, &paper)
		switch {
		case err != nil:
			fmt.Fprintf(out, "failed:  %s (%v)\n", paper.ID, err)
			w.log.WithField("paper_id", paper.ID).WithError(err).Warn("paper ingestion failed")
			item.Status = "failed"
			item.Error = err.Error()
			result.Failed++
		case stored:
			fmt.Fprintf(out, "stored:  %s %q\n", paper.ID, paper.Title)
			item.Status = "stored"
			result.Stored++
		default:
			fmt.Fprintf(out, "skipped: %s (already indexed)\n", paper.ID)
			item.Status = "skipped"
			result.Skipped++
		}
		if enriched {
			result.Enriched++
		}
		result.Items = append(result.Items, item)
	}

	fmt.Fprintf(out, "\nIngest summary: %d stored, %d skipped, %d failed, %d enriched (fetched: %d)\n",
		result.Stored, result.Skipped, result.Failed, result.Enriched, result.Fetched)
	return result, nil
}

// ingestOne processes a single paper: enrich, embed, dedupe-check,
// upsert, record metadata. Enrichment failure degrades to zero
// citations instead of failing the paper.
func (w *Worker) ingestOne(ctx context.Context, paper *types.Paper) (stored, enriched bool, err error) {
	if w.enricher != nil {
		enriched = w.enrich(ctx, paper)
	}

	var vector []float64
	text := embedding.PaperText(paper.Title, paper.Abstract)
	err = w.embedRetry.Do(ctx, func(ctx context.Context) error {
		var embedErr error
		vector, embedErr = w.embedder.Embed(ctx, text)
		return embedErr
	})
	if err != nil {
		return false, enriched, fmt.Errorf("embedding paper: %w", err)
	}

	exists, err := w.index.Exists(ctx, paper.ID)
	if err != nil {
		return false, enriched, fmt.Errorf("checking index: %w", err)
	}
	if exists {
		return false, enriched, nil
	}

	if err := w.index.Upsert(ctx, *paper, vector); err != nil {
		return false, enriched, fmt.Errorf("storing vector: %w", err)
	}

	if w.store != nil {
		if err := w.store.SavePaper(ctx, *paper); err != nil {
			// The vector is already stored; losing the metadata row is
			// recoverable on the next run.
			w.log.WithField("paper_id", paper.ID).WithError(err).Warn("metadata save failed")
		}
	}
	return true, enriched, nil
}

// enrich fills in citation count and venue, reporting whether the
// backend knew the paper.
func (w *Worker) enrich(ctx context.Context, paper *types.Paper) bool {
	var enr *Enrichment
	err := w.enrichPipeline.Execute(ctx, func(ctx context.Context) error {
		var lookupErr error
		enr, lookupErr = w.enricher.Lookup(ctx, paper.ID)
		return lookupErr
	})
	if err != nil {
		w.log.WithFields(logrus.Fields{
			"paper_id": paper.ID,
			"backend":  w.enricher.Name(),
		}).WithError(err).Warn("enrichment failed; continuing without citations")
		return false
	}
	if enr == nil {
		return false
	}

	paper.CitationCount = enr.CitationCount
	if enr.Venue != "" {
		paper.Venue = enr.Venue
	}
	return true
}
