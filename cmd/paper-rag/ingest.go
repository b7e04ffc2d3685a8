// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-rag/internal/embedding"
	"github.com/pdiddy/paper-rag/internal/ingest"
	"github.com/pdiddy/paper-rag/internal/metadata"
	"github.com/pdiddy/paper-rag/internal/ratelimit"
	"github.com/pdiddy/paper-rag/internal/vectorindex"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Pull recent arXiv papers into the vector index",
	Long: `Ingest fetches the newest submissions in the configured arXiv
categories, enriches them with citation counts, embeds title and
abstract, and stores papers not already present in the vector index.
Re-running is safe: already-indexed papers are skipped.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSlice("categories", nil, "arXiv categories to pull (default from config)")
	ingestCmd.Flags().Int("max-results", 0, "maximum number of papers to fetch (default from config)")
	ingestCmd.Flags().Int("days-back", 0, "only ingest papers published within the last N days")
	ingestCmd.Flags().String("report", "", "write a YAML run report to this path")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	if cats, _ := cmd.Flags().GetStringSlice("categories"); len(cats) > 0 {
		cfg.Feed.Categories = cats
	}
	if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
		cfg.Feed.MaxResults = n
	}
	if n, _ := cmd.Flags().GetInt("days-back"); n > 0 {
		cfg.Feed.DaysBack = n
	}

	ctx := cmd.Context()

	embedder := embedding.NewClient(cfg.Embedding)

	index := vectorindex.NewQdrant(cfg.VectorIndex)
	if err := index.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("preparing vector index: %w", err)
	}

	var enricher ingest.Enricher
	if cfg.Enrichment.Enabled {
		var err error
		enricher, err = ingest.NewEnricher(cfg.Enrichment)
		if err != nil {
			return err
		}
	}

	store, err := metadata.NewStore(cfg.MetadataStore)
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close()

	// One limiter per external API, shared by everything calling it.
	feedLimiter := ratelimit.NewLimiter(cfg.Feed.RateLimit)
	enrichLimiter := ratelimit.NewLimiter(cfg.Enrichment.RateLimit)

	ingestLog := log.WithField("component", "ingest")
	worker := ingest.NewWorker(
		ingest.NewArxivFeed(cfg.Feed), embedder, index, enricher, store,
		ratelimit.NewPipeline(feedLimiter, cfg.Feed.Retry, ingestLog),
		ratelimit.NewPipeline(enrichLimiter, cfg.Enrichment.Retry, ingestLog),
		ratelimit.NewRetryPolicy(cfg.Embedding.Retry),
		cfg.Feed, ingestLog,
	)

	started := time.Now().UTC()
	result, err := worker.Run(ctx, os.Stdout)
	if err != nil {
		return err
	}

	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		report := ingest.RunReport{
			Categories: cfg.Feed.Categories,
			MaxResults: cfg.Feed.MaxResults,
			DaysBack:   cfg.Feed.DaysBack,
			Result:     result,
			StartedAt:  started,
			FinishedAt: time.Now().UTC(),
		}
		if enricher != nil {
			report.Enrichment = enricher.Name()
		}
		if err := ingest.WriteRunReport(reportPath, report); err != nil {
			return fmt.Errorf("writing run report: %w", err)
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed ingestion", result.Failed)
	}
	return nil
}
