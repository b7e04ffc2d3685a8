// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/paper-rag/pkg/types"
)

// completionsAPIBase is the chat completions endpoint base URL. Declared
// as a var so tests can substitute an httptest server.
var completionsAPIBase = "https://api.openai.com/v1"

// Completion is the generated answer plus usage metadata.
type Completion struct {
	Text             string
	Model            string
	TotalTokens      int
	PromptTokens     int
	CompletionTokens int
}

// Generator sends assembled prompts to an OpenAI-compatible chat
// completions endpoint.
type Generator struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
}

// NewGenerator builds a generator from cfg.
func NewGenerator(cfg types.GenerationConfig) *Generator {
	return &Generator{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

// Complete sends the system and user prompts and returns the model's
// answer with token usage.
func (g *Generator) Complete(ctx context.Context, system, user string) (Completion, error) {
	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Completion{}, fmt.Errorf("encoding completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		completionsAPIBase+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Completion{}, fmt.Errorf("creating completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return Completion{}, &types.ExternalError{Service: "completion", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Completion{}, &types.ExternalError{
			Service:     "completion",
			RateLimited: resp.StatusCode == http.StatusTooManyRequests,
			Err:         fmt.Errorf("completions API returned HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(body)),
		}
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return Completion{}, &types.ExternalError{Service: "completion", Err: fmt.Errorf("parsing response: %w", err)}
	}
	if len(cr.Choices) == 0 {
		return Completion{}, &types.ExternalError{Service: "completion", Err: fmt.Errorf("response contains no choices")}
	}

	return Completion{
		Text:             strings.TrimSpace(cr.Choices[0].Message.Content),
		Model:            cr.Model,
		TotalTokens:      cr.Usage.TotalTokens,
		PromptTokens:     cr.Usage.PromptTokens,
		CompletionTokens: cr.Usage.CompletionTokens,
	}, nil
}

// Chat completions API JSON structures.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens      int `json:"total_tokens"`
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}
