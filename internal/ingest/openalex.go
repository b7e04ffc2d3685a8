// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/paper-rag/pkg/types"
)

// openAlexAPIBase is the OpenAlex Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works"

// OpenAlexEnricher looks up citation counts through the OpenAlex API.
// OpenAlex needs no API key; arXiv papers are addressable directly by
// their arXiv ID.
type OpenAlexEnricher struct {
	client    *http.Client
	userAgent string
}

// NewOpenAlexEnricher builds an enricher from cfg.
func NewOpenAlexEnricher(cfg types.EnrichmentConfig) *OpenAlexEnricher {
	return &OpenAlexEnricher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
	}
}

// Name returns the backend identifier.
func (e *OpenAlexEnricher) Name() string { return "openalex" }

// Lookup fetches citation metadata for an arXiv paper. Unknown papers
// return nil, nil.
func (e *OpenAlexEnricher) Lookup(ctx context.Context, arxivID string) (*Enrichment, error) {
	url := fmt.Sprintf("%s/https://arxiv.org/abs/%s", openAlexAPIBase, arxivID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &types.ExternalError{Service: "openalex", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	case http.StatusTooManyRequests:
		return nil, &types.ExternalError{
			Service:     "openalex",
			RateLimited: true,
			Err:         fmt.Errorf("OpenAlex API returned HTTP 429"),
		}
	default:
		return nil, &types.ExternalError{
			Service: "openalex",
			Err:     fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode),
		}
	}

	var work openAlexWork
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return nil, &types.ExternalError{Service: "openalex", Err: fmt.Errorf("parsing response: %w", err)}
	}

	venue := work.PrimaryLocation.Source.DisplayName
	return &Enrichment{Venue: venue, CitationCount: work.CitedByCount}, nil
}

// OpenAlex API JSON structures.
type openAlexWork struct {
	ID              string           `json:"id"`
	CitedByCount    int              `json:"cited_by_count"`
	PrimaryLocation openAlexLocation `json:"primary_location"`
}

type openAlexLocation struct {
	Source openAlexSource `json:"source"`
}

type openAlexSource struct {
	DisplayName string `json:"display_name"`
}
