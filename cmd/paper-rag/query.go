// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-rag/internal/answer"
	"github.com/pdiddy/paper-rag/internal/embedding"
	"github.com/pdiddy/paper-rag/internal/retrieval"
	"github.com/pdiddy/paper-rag/internal/vectorindex"
	"github.com/pdiddy/paper-rag/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Answer a research question grounded in indexed papers",
	Long: `Query embeds the question, retrieves the most similar papers from the
vector index, re-ranks them with lexical and citation signals, and asks
a language model for an answer citing the retrieved papers.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().Int("top-k", 0, "number of papers to ground the answer in (default from config)")
	queryCmd.Flags().String("from", "", "only consider papers published on or after this date (YYYY-MM-DD)")
	queryCmd.Flags().String("to", "", "only consider papers published on or before this date (YYYY-MM-DD)")
	queryCmd.Flags().Int("min-citations", 0, "only consider papers with at least this many citations")
	queryCmd.Flags().StringSlice("categories", nil, "only consider papers in these arXiv categories")
	queryCmd.Flags().StringSlice("venues", nil, "only consider papers published in these venues")
	queryCmd.Flags().Bool("json", false, "output the full response as JSON")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a research question")
	}
	question := strings.Join(args, " ")

	cfg := buildConfig()

	topK, _ := cmd.Flags().GetInt("top-k")
	filters := filtersFromFlags(cmd)

	embedder := embedding.NewClient(cfg.Embedding)
	index := vectorindex.NewQdrant(cfg.VectorIndex)

	retriever := retrieval.NewRetriever(embedder, index, cfg.Retrieval,
		log.WithField("component", "retrieval"))
	generator := answer.NewGenerator(cfg.Generation)
	svc := answer.NewService(retriever, generator, cfg.Retrieval.DefaultTopK,
		log.WithField("component", "answer"))

	resp, err := svc.Answer(cmd.Context(), types.QueryRequest{
		Query:   question,
		TopK:    topK,
		Filters: filters,
	})
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printResponse(resp)
	return nil
}

// filtersFromFlags converts query flags into retrieval filters, or nil
// when no filter flags were set.
func filtersFromFlags(cmd *cobra.Command) *types.QueryFilters {
	var f types.QueryFilters
	f.DateFrom, _ = cmd.Flags().GetString("from")
	f.DateTo, _ = cmd.Flags().GetString("to")
	f.MinCitations, _ = cmd.Flags().GetInt("min-citations")
	f.Categories, _ = cmd.Flags().GetStringSlice("categories")
	f.Venues, _ = cmd.Flags().GetStringSlice("venues")
	if f.IsZero() {
		return nil
	}
	return &f
}

func printResponse(resp *types.QueryResponse) {
	fmt.Println(resp.Answer)

	if len(resp.Sources) > 0 {
		fmt.Println("\nSources:")
		for i, s := range resp.Sources {
			fmt.Printf("  [%d] %s (%s, %d citations, relevance %.3f)\n      %s\n",
				i+1, s.Title, s.PublishedDate, s.CitationCount, s.RelevanceScore, s.SourceURL)
		}
	}

	fmt.Printf("\n%d papers retrieved", resp.Metadata.PapersRetrieved)
	if resp.Metadata.Model != "" {
		fmt.Printf(", %d tokens (%s)", resp.Metadata.TokensUsed, resp.Metadata.Model)
	}
	fmt.Printf(", %d ms\n", resp.Metadata.ProcessingTimeMS)
}
