// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/paper-rag/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper lookup endpoint.
// Declared as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper"

const semanticFields = "citationCount,venue"

// SemanticScholarEnricher looks up citation counts through the Semantic
// Scholar Graph API.
type SemanticScholarEnricher struct {
	client    *http.Client
	apiKey    string
	userAgent string
}

// NewSemanticScholarEnricher builds an enricher from cfg.
func NewSemanticScholarEnricher(cfg types.EnrichmentConfig) *SemanticScholarEnricher {
	return &SemanticScholarEnricher{
		client:    &http.Client{Timeout: cfg.Timeout},
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
	}
}

// Name returns the backend identifier.
func (e *SemanticScholarEnricher) Name() string { return "semantic_scholar" }

// Lookup fetches citation metadata for an arXiv paper. Unknown papers
// return nil, nil.
func (e *SemanticScholarEnricher) Lookup(ctx context.Context, arxivID string) (*Enrichment, error) {
	url := fmt.Sprintf("%s/arXiv:%s?fields=%s", semanticAPIBase, arxivID, semanticFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	if e.apiKey != "" {
		req.Header.Set("x-api-key", e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &types.ExternalError{Service: "semantic_scholar", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		// Fresh arXiv papers usually aren't indexed yet.
		return nil, nil
	case http.StatusTooManyRequests:
		return nil, &types.ExternalError{
			Service:     "semantic_scholar",
			RateLimited: true,
			Err:         fmt.Errorf("Semantic Scholar API returned HTTP 429"),
		}
	default:
		return nil, &types.ExternalError{
			Service: "semantic_scholar",
			Err:     fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode),
		}
	}

	var sp semanticPaper
	if err := json.NewDecoder(resp.Body).Decode(&sp); err != nil {
		return nil, &types.ExternalError{Service: "semantic_scholar", Err: fmt.Errorf("parsing response: %w", err)}
	}

	return &Enrichment{Venue: sp.Venue, CitationCount: sp.CitationCount}, nil
}

// Semantic Scholar API JSON structure.
type semanticPaper struct {
	PaperID       string `json:"paperId"`
	CitationCount int    `json:"citationCount"`
	Venue         string `json:"venue"`
}
