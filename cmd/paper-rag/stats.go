// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-rag/internal/metadata"
	"github.com/pdiddy/paper-rag/internal/vectorindex"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector index and metadata store statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	ctx := cmd.Context()

	index := vectorindex.NewQdrant(cfg.VectorIndex)
	stats, err := index.Stats(ctx)
	if err != nil {
		return fmt.Errorf("reading index stats: %w", err)
	}

	fmt.Printf("Collection: %s\n", stats.Collection)
	fmt.Printf("Indexed papers: %d\n", stats.PointsCount)

	store, err := metadata.NewStore(cfg.MetadataStore)
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close()

	if store.Enabled() {
		n, err := store.Count(ctx)
		if err != nil {
			return fmt.Errorf("counting metadata rows: %w", err)
		}
		fmt.Printf("Metadata rows: %d\n", n)
	} else {
		fmt.Println("Metadata store: disabled")
	}
	return nil
}
