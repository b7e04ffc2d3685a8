// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"

	"github.com/pdiddy/paper-rag/pkg/types"
)

// Enrichment is the citation metadata an enrichment backend returns for
// one paper.
type Enrichment struct {
	Venue         string
	CitationCount int
}

// Enricher looks up citation metadata for a paper by its arXiv ID.
// A nil, nil return means the backend does not know the paper; that is
// not an error.
type Enricher interface {
	Name() string
	Lookup(ctx context.Context, arxivID string) (*Enrichment, error)
}

// NewEnricher selects the configured enrichment backend.
func NewEnricher(cfg types.EnrichmentConfig) (Enricher, error) {
	switch cfg.Backend {
	case "semantic_scholar":
		return NewSemanticScholarEnricher(cfg), nil
	case "openalex":
		return NewOpenAlexEnricher(cfg), nil
	default:
		return nil, fmt.Errorf("unknown enrichment backend %q", cfg.Backend)
	}
}
