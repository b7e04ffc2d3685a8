// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package answer turns a natural-language question into a grounded
// answer: retrieve relevant papers, assemble them into a context block,
// pick a prompt template, and call the completion service.
package answer

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/paper-rag/pkg/types"
)

const (
	minQueryLength = 3
	maxTopK        = 20

	noResultsAnswer = "I could not find any relevant papers for your question. " +
		"Try rephrasing it or broadening the topic."
)

// Retriever is the retrieval stage the service depends on.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int, filters *types.QueryFilters) ([]types.RankedSource, error)
}

// Completer generates the final answer from assembled prompts.
type Completer interface {
	Complete(ctx context.Context, system, user string) (Completion, error)
}

// Service runs the full question-answering pipeline.
type Service struct {
	retriever   Retriever
	completer   Completer
	defaultTopK int
	log         *logrus.Entry
}

// NewService wires the retrieval and generation stages together.
func NewService(retriever Retriever, completer Completer, defaultTopK int, log *logrus.Entry) *Service {
	return &Service{
		retriever:   retriever,
		completer:   completer,
		defaultTopK: defaultTopK,
		log:         log,
	}
}

// Answer validates the request, retrieves sources, and generates a
// grounded answer. A query with no matching papers is not an error: the
// response carries a polite explanation and an empty source list.
func (s *Service) Answer(ctx context.Context, req types.QueryRequest) (*types.QueryResponse, error) {
	start := time.Now()

	if err := validate(&req, s.defaultTopK); err != nil {
		return nil, err
	}

	sources, err := s.retriever.Retrieve(ctx, req.Query, req.TopK, req.Filters)
	if err != nil {
		return nil, fmt.Errorf("retrieving sources: %w", err)
	}

	if len(sources) == 0 {
		s.log.WithField("query", req.Query).Info("no sources above threshold")
		return &types.QueryResponse{
			Query:   req.Query,
			Answer:  noResultsAnswer,
			Sources: []types.RankedSource{},
			Metadata: types.QueryMetadata{
				PapersRetrieved:  0,
				ProcessingTimeMS: time.Since(start).Milliseconds(),
			},
		}, nil
	}

	contextBlock := BuildContext(sources)
	prompt, kind, err := buildPrompt(req.Query, contextBlock)
	if err != nil {
		return nil, fmt.Errorf("building prompt: %w", err)
	}

	completion, err := s.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"sources":  len(sources),
		"template": string(kind),
		"tokens":   completion.TotalTokens,
	}).Debug("answer generated")

	return &types.QueryResponse{
		Query:   req.Query,
		Answer:  completion.Text,
		Sources: sources,
		Metadata: types.QueryMetadata{
			Model:            completion.Model,
			TokensUsed:       completion.TotalTokens,
			PromptTokens:     completion.PromptTokens,
			CompletionTokens: completion.CompletionTokens,
			PapersRetrieved:  len(sources),
			ProcessingTimeMS: time.Since(start).Milliseconds(),
		},
	}, nil
}

// validate normalizes the request in place and rejects malformed input.
func validate(req *types.QueryRequest, defaultTopK int) error {
	req.Query = strings.TrimSpace(req.Query)
	// Length is measured in runes so non-ASCII queries are not
	// over-counted.
	if utf8.RuneCountInString(req.Query) < minQueryLength {
		return &types.ValidationError{Field: "query", Reason: fmt.Sprintf("must be at least %d characters", minQueryLength)}
	}
	if req.TopK == 0 {
		req.TopK = defaultTopK
	}
	if req.TopK < 1 || req.TopK > maxTopK {
		return &types.ValidationError{Field: "top_k", Reason: fmt.Sprintf("must be between 1 and %d", maxTopK)}
	}
	return nil
}
