// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/paper-rag/pkg/types"
)

// Qdrant is a minimal REST client for a Qdrant collection using cosine
// distance. It satisfies Index.
type Qdrant struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

var _ Index = (*Qdrant)(nil)

// NewQdrant builds a client from cfg. Call EnsureCollection once at
// startup before issuing upserts or searches.
func NewQdrant(cfg types.VectorIndexConfig) *Qdrant {
	return &Qdrant{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// EnsureCollection creates the collection if it does not exist.
func (q *Qdrant) EnsureCollection(ctx context.Context) error {
	status, err := q.do(ctx, http.MethodGet, q.collectionURL(), nil, nil)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     q.dimension,
			"distance": "Cosine",
		},
	}
	status, err = q.do(ctx, http.MethodPut, q.collectionURL(), body, nil)
	if err != nil {
		return err
	}
	if status >= 300 {
		return &types.ExternalError{Service: "qdrant",
			Err: fmt.Errorf("creating collection %s: HTTP %d", q.collection, status)}
	}
	return nil
}

// Upsert writes one point with the paper's metadata as payload. The
// point ID is derived from the paper ID, so re-upserting the same paper
// overwrites rather than duplicates.
func (q *Qdrant) Upsert(ctx context.Context, paper types.Paper, vector []float64) error {
	body := map[string]any{
		"points": []map[string]any{{
			"id":      PointID(paper.ID),
			"vector":  vector,
			"payload": paper,
		}},
	}
	status, err := q.do(ctx, http.MethodPut, q.collectionURL()+"/points?wait=true", body, nil)
	if err != nil {
		return err
	}
	if status >= 300 {
		return &types.ExternalError{Service: "qdrant",
			RateLimited: status == http.StatusTooManyRequests,
			Err:         fmt.Errorf("upserting %s: HTTP %d", paper.ID, status)}
	}
	return nil
}

// Exists checks for a stored point by exact paper_id payload match.
func (q *Qdrant) Exists(ctx context.Context, paperID string) (bool, error) {
	body := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": "paper_id", "match": map[string]any{"value": paperID}},
			},
		},
		"limit": 1,
	}

	var resp struct {
		Result struct {
			Points []json.RawMessage `json:"points"`
		} `json:"result"`
	}
	status, err := q.do(ctx, http.MethodPost, q.collectionURL()+"/points/scroll", body, &resp)
	if err != nil {
		return false, err
	}
	if status >= 300 {
		return false, &types.ExternalError{Service: "qdrant",
			Err: fmt.Errorf("scrolling for %s: HTTP %d", paperID, status)}
	}
	return len(resp.Result.Points) > 0, nil
}

// Search runs similarity search with the score threshold applied inside
// the index, so candidates below it never reach the caller.
func (q *Qdrant) Search(ctx context.Context, vector []float64, limit int, threshold float64, filters *types.QueryFilters) ([]types.RetrievalCandidate, error) {
	body := map[string]any{
		"vector":          vector,
		"limit":           limit,
		"score_threshold": threshold,
		"with_payload":    true,
	}
	if f := buildFilter(filters); f != nil {
		body["filter"] = f
	}

	var resp struct {
		Result []struct {
			Score   float64     `json:"score"`
			Payload types.Paper `json:"payload"`
		} `json:"result"`
	}
	status, err := q.do(ctx, http.MethodPost, q.collectionURL()+"/points/search", body, &resp)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, &types.ExternalError{Service: "qdrant",
			RateLimited: status == http.StatusTooManyRequests,
			Err:         fmt.Errorf("searching: HTTP %d", status)}
	}

	candidates := make([]types.RetrievalCandidate, 0, len(resp.Result))
	for _, r := range resp.Result {
		candidates = append(candidates, types.RetrievalCandidate{
			Paper:           r.Payload,
			SimilarityScore: r.Score,
		})
	}
	return candidates, nil
}

// Stats returns the collection point count.
func (q *Qdrant) Stats(ctx context.Context) (Stats, error) {
	var resp struct {
		Result struct {
			PointsCount int `json:"points_count"`
		} `json:"result"`
	}
	status, err := q.do(ctx, http.MethodGet, q.collectionURL(), nil, &resp)
	if err != nil {
		return Stats{}, err
	}
	if status >= 300 {
		return Stats{}, &types.ExternalError{Service: "qdrant",
			Err: fmt.Errorf("collection info: HTTP %d", status)}
	}
	return Stats{Collection: q.collection, PointsCount: resp.Result.PointsCount}, nil
}

// buildFilter translates query filters into Qdrant filter conditions.
// Returns nil when no filter is set.
func buildFilter(f *types.QueryFilters) map[string]any {
	if f == nil || f.IsZero() {
		return nil
	}

	var must []map[string]any
	if f.MinCitations > 0 {
		must = append(must, map[string]any{
			"key":   "citation_count",
			"range": map[string]any{"gte": f.MinCitations},
		})
	}
	if f.DateFrom != "" || f.DateTo != "" {
		dateRange := map[string]any{}
		if f.DateFrom != "" {
			dateRange["gte"] = f.DateFrom
		}
		if f.DateTo != "" {
			dateRange["lte"] = f.DateTo
		}
		must = append(must, map[string]any{"key": "published_date", "datetime_range": dateRange})
	}
	if len(f.Categories) > 0 {
		must = append(must, map[string]any{
			"key":   "categories",
			"match": map[string]any{"any": f.Categories},
		})
	}
	if len(f.Venues) > 0 {
		must = append(must, map[string]any{
			"key":   "venue",
			"match": map[string]any{"any": f.Venues},
		})
	}
	if len(must) == 0 {
		return nil
	}
	return map[string]any{"must": must}
}

func (q *Qdrant) collectionURL() string {
	return fmt.Sprintf("%s/collections/%s", q.url, q.collection)
}

// do issues one JSON request and decodes the response into out when the
// status is a success. Transport failures come back as ExternalError;
// HTTP status handling is left to the caller.
func (q *Qdrant) do(ctx context.Context, method, url string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encoding qdrant request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("creating qdrant request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return 0, &types.ExternalError{Service: "qdrant", Err: err}
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, &types.ExternalError{Service: "qdrant",
				Err: fmt.Errorf("parsing response: %w", err)}
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode, nil
}
