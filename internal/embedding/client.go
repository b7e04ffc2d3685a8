// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embedding turns text into fixed-dimension vectors via an
// OpenAI-compatible embeddings endpoint.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/pdiddy/paper-rag/pkg/types"
)

// embeddingsAPIBase is the embeddings endpoint base URL. Declared as a
// var so tests can substitute an httptest server.
var embeddingsAPIBase = "https://api.openai.com/v1"

// Client calls the embeddings API. It performs no retry or rate limiting
// itself; callers compose those around it.
type Client struct {
	apiKey    string
	model     string
	dimension int
	client    *http.Client
}

// NewClient builds a client from cfg.
func NewClient(cfg types.EmbeddingConfig) *Client {
	return &Client{
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		dimension: cfg.Dimension,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Dimension returns the configured vector dimension.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns the embedding vector for one text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in one API call, preserving input order.
// Every returned vector must match the configured dimension; anything
// else is a contract violation, not a retriable failure.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := embeddingsRequest{Input: texts, Model: c.model}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding embeddings request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		embeddingsAPIBase+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating embeddings request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &types.ExternalError{Service: "embedding", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("embeddings API returned HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(body))
		return nil, &types.ExternalError{
			Service:     "embedding",
			RateLimited: resp.StatusCode == http.StatusTooManyRequests,
			Err:         err,
		}
	}

	var er embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, &types.ExternalError{Service: "embedding", Err: fmt.Errorf("parsing response: %w", err)}
	}

	if len(er.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings API returned %d vectors for %d inputs", len(er.Data), len(texts))
	}

	// The API tags each vector with its input index; order by it rather
	// than trusting response order.
	sort.Slice(er.Data, func(i, j int) bool { return er.Data[i].Index < er.Data[j].Index })

	vectors := make([][]float64, len(er.Data))
	for i, d := range er.Data {
		if len(d.Embedding) != c.dimension {
			return nil, fmt.Errorf("embedding dimension mismatch: got %d, model configured for %d",
				len(d.Embedding), c.dimension)
		}
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

// PaperText combines title and abstract into the text that gets embedded
// for a stored paper.
func PaperText(title, abstract string) string {
	return fmt.Sprintf("Title: %s\n\nAbstract: %s", title, abstract)
}

// Embeddings API JSON structures.
type embeddingsRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingsResponse struct {
	Data []embeddingsDatum `json:"data"`
}

type embeddingsDatum struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}
