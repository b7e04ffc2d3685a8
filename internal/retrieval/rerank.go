// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"sort"
	"strings"

	"github.com/pdiddy/paper-rag/pkg/types"
)

// Citation boost: citations/1000 capped so a handful of very highly
// cited papers cannot dominate results regardless of topical relevance.
const (
	titleOverlapWeight = 0.1
	citationBoostCap   = 0.2
	citationBoostScale = 1000
)

// Rerank adjusts similarity scores with two small additive signals the
// vector search under-weights: exact keyword overlap between query and
// title, and citation count. It returns at most topK sources ordered by
// final score descending; equal final scores fall back to raw similarity
// descending, and the sort is stable, so identical input always yields
// identical output.
func Rerank(query string, candidates []types.RetrievalCandidate, topK int) []types.RankedSource {
	queryTerms := tokenize(query)

	ranked := make([]types.RankedSource, len(candidates))
	for i, c := range candidates {
		score := c.SimilarityScore
		score += titleOverlapWeight * float64(overlap(queryTerms, tokenize(c.Title)))
		if c.CitationCount > 0 {
			boost := float64(c.CitationCount) / citationBoostScale
			if boost > citationBoostCap {
				boost = citationBoostCap
			}
			score += boost
		}
		ranked[i] = types.RankedSource{RetrievalCandidate: c, FinalScore: score}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].FinalScore != ranked[j].FinalScore {
			return ranked[i].FinalScore > ranked[j].FinalScore
		}
		return ranked[i].SimilarityScore > ranked[j].SimilarityScore
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// similarityOrder is the fallback when re-ranking is unavailable: the
// index's own similarity order, truncated to topK, with final score set
// to the raw similarity.
func similarityOrder(candidates []types.RetrievalCandidate, topK int) []types.RankedSource {
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	ranked := make([]types.RankedSource, len(candidates))
	for i, c := range candidates {
		ranked[i] = types.RankedSource{RetrievalCandidate: c, FinalScore: c.SimilarityScore}
	}
	return ranked
}

// tokenize splits on whitespace after lowercasing. No stemming and no
// partial credit: overlap is plain set intersection.
func tokenize(s string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, f := range strings.Fields(strings.ToLower(s)) {
		terms[f] = struct{}{}
	}
	return terms
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for t := range a {
		if _, ok := b[t]; ok {
			n++
		}
	}
	return n
}
