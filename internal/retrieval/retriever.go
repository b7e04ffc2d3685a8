// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieval turns a natural-language query into a ranked list of
// paper sources: embed the query, over-fetch similar papers from the
// vector index, re-rank with lexical and citation signals, and bound the
// result for prompt assembly.
package retrieval

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/paper-rag/internal/vectorindex"
	"github.com/pdiddy/paper-rag/pkg/types"
)

// Embedder is the slice of the embedding client the retriever needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Retriever orchestrates embedding, similarity search, and re-ranking.
// It is stateless per call.
type Retriever struct {
	embedder Embedder
	index    vectorindex.Index
	cfg      types.RetrievalConfig
	log      *logrus.Entry
}

// NewRetriever wires a retriever from its collaborators.
func NewRetriever(embedder Embedder, index vectorindex.Index, cfg types.RetrievalConfig, log *logrus.Entry) *Retriever {
	return &Retriever{embedder: embedder, index: index, cfg: cfg, log: log}
}

// Retrieve returns at most topK ranked sources for the query. Zero
// candidates is a normal outcome and yields an empty, non-error result.
// The index is asked for min(2*topK, cap) candidates: the over-fetch
// gives re-ranking headroom to promote papers that are lexically or
// citation-relevant but not top-similarity.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int, filters *types.QueryFilters) ([]types.RankedSource, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	retrievalK := 2 * topK
	if retrievalK > r.cfg.RetrievalCap {
		retrievalK = r.cfg.RetrievalCap
	}

	candidates, err := r.index.Search(ctx, vector, retrievalK, r.cfg.SimilarityThreshold, filters)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	if len(candidates) == 0 {
		r.log.WithField("query", query).Info("no candidates above similarity threshold")
		return nil, nil
	}

	ranked := r.rerankOrFallback(query, candidates, topK)

	for i := range ranked {
		ranked[i].Abstract = truncate(ranked[i].Abstract, r.cfg.AbstractMaxChars)
		ranked[i].RelevanceScore = round3(ranked[i].FinalScore)
	}
	return ranked, nil
}

// rerankOrFallback applies Rerank but treats it as a best-effort
// enhancement: any panic degrades to the index's similarity order
// instead of failing the query.
func (r *Retriever) rerankOrFallback(query string, candidates []types.RetrievalCandidate, topK int) (ranked []types.RankedSource) {
	defer func() {
		if p := recover(); p != nil {
			r.log.WithField("panic", p).Error("re-ranking failed; falling back to similarity order")
			ranked = similarityOrder(candidates, topK)
		}
	}()
	return Rerank(query, candidates, topK)
}

// truncate bounds s to max characters. The budget is runes, not bytes,
// so a multi-byte rune is never split.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
