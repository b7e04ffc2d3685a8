// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-rag/pkg/types"
)

type mockRetriever struct {
	gotQuery string
	gotTopK  int
	sources  []types.RankedSource
	err      error
}

func (m *mockRetriever) Retrieve(_ context.Context, query string, topK int, _ *types.QueryFilters) ([]types.RankedSource, error) {
	m.gotQuery = query
	m.gotTopK = topK
	return m.sources, m.err
}

type mockCompleter struct {
	gotSystem string
	gotUser   string
	result    Completion
	err       error
}

func (m *mockCompleter) Complete(_ context.Context, system, user string) (Completion, error) {
	m.gotSystem = system
	m.gotUser = user
	return m.result, m.err
}

func testService(retriever Retriever, completer Completer) *Service {
	logger, _ := logrustest.NewNullLogger()
	return NewService(retriever, completer, 5, logger.WithField("component", "answer"))
}

func TestAnswer(t *testing.T) {
	retriever := &mockRetriever{sources: []types.RankedSource{
		rankedSource("Vision Transformers", []string{"A. Author"}),
	}}
	completer := &mockCompleter{result: Completion{
		Text:             "ViTs split images into patches.",
		Model:            "gpt-4-0613",
		TotalTokens:      200,
		PromptTokens:     160,
		CompletionTokens: 40,
	}}
	svc := testService(retriever, completer)

	resp, err := svc.Answer(context.Background(), types.QueryRequest{Query: "How do vision transformers work?"})
	require.NoError(t, err)

	assert.Equal(t, "ViTs split images into patches.", resp.Answer)
	assert.Len(t, resp.Sources, 1)
	assert.Equal(t, "gpt-4-0613", resp.Metadata.Model)
	assert.Equal(t, 200, resp.Metadata.TokensUsed)
	assert.Equal(t, 1, resp.Metadata.PapersRetrieved)
	assert.GreaterOrEqual(t, resp.Metadata.ProcessingTimeMS, int64(0))

	assert.Equal(t, systemPrompt, completer.gotSystem)
	assert.True(t, strings.Contains(completer.gotUser, "Vision Transformers"))
	assert.Equal(t, 5, retriever.gotTopK, "zero TopK takes the default")
}

func TestAnswerNoSources(t *testing.T) {
	completer := &mockCompleter{}
	svc := testService(&mockRetriever{}, completer)

	resp, err := svc.Answer(context.Background(), types.QueryRequest{Query: "obscure niche topic"})
	require.NoError(t, err)

	assert.Contains(t, resp.Answer, "could not find any relevant papers")
	assert.Empty(t, resp.Sources)
	assert.Equal(t, 0, resp.Metadata.PapersRetrieved)
	assert.Empty(t, completer.gotUser, "no completion call without sources")
}

func TestAnswerValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   types.QueryRequest
		field string
	}{
		{"query too short", types.QueryRequest{Query: "hi"}, "query"},
		{"two-rune query counted in runes not bytes", types.QueryRequest{Query: "你好"}, "query"},
		{"whitespace-only query", types.QueryRequest{Query: "   \t  "}, "query"},
		{"top_k above cap", types.QueryRequest{Query: "valid query", TopK: 21}, "top_k"},
		{"negative top_k", types.QueryRequest{Query: "valid query", TopK: -1}, "top_k"},
	}

	svc := testService(&mockRetriever{}, &mockCompleter{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Answer(context.Background(), tt.req)
			require.Error(t, err)

			var vErr *types.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestAnswerAcceptsShortNonASCIIQuery(t *testing.T) {
	retriever := &mockRetriever{}
	svc := testService(retriever, &mockCompleter{})

	// Three runes, nine bytes. Passes the minimum length.
	_, err := svc.Answer(context.Background(), types.QueryRequest{Query: "变分自"})
	require.NoError(t, err)
	assert.Equal(t, "变分自", retriever.gotQuery)
}

func TestAnswerRetrieverError(t *testing.T) {
	wantErr := errors.New("index unreachable")
	svc := testService(&mockRetriever{err: wantErr}, &mockCompleter{})

	_, err := svc.Answer(context.Background(), types.QueryRequest{Query: "valid query"})
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}

func TestAnswerCompleterError(t *testing.T) {
	retriever := &mockRetriever{sources: []types.RankedSource{rankedSource("P", nil)}}
	wantErr := &types.ExternalError{Service: "completion", Err: errors.New("boom")}
	svc := testService(retriever, &mockCompleter{err: wantErr})

	_, err := svc.Answer(context.Background(), types.QueryRequest{Query: "valid query"})
	require.Error(t, err)

	var extErr *types.ExternalError
	assert.ErrorAs(t, err, &extErr)
}
