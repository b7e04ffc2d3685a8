// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// QueryFilters narrows retrieval to papers matching structured criteria.
// All fields are optional; zero values impose no constraint.
type QueryFilters struct {
	// DateFrom and DateTo bound the publication date (ISO-8601 strings,
	// inclusive).
	DateFrom string `json:"date_from,omitempty" yaml:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty" yaml:"date_to,omitempty"`

	// MinCitations excludes papers with fewer citations.
	MinCitations int `json:"min_citations,omitempty" yaml:"min_citations,omitempty"`

	// Categories restricts to papers carrying any of these categories.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Venues restricts to papers published in any of these venues.
	Venues []string `json:"venues,omitempty" yaml:"venues,omitempty"`
}

// IsZero reports whether no filter is set.
func (f QueryFilters) IsZero() bool {
	return f.DateFrom == "" && f.DateTo == "" && f.MinCitations == 0 &&
		len(f.Categories) == 0 && len(f.Venues) == 0
}

// QueryRequest is what a caller of the query pipeline sends. Query must be
// at least three characters; TopK must lie in [1, 20] (zero selects the
// configured default).
type QueryRequest struct {
	Query   string        `json:"query" yaml:"query"`
	TopK    int           `json:"top_k" yaml:"top_k"`
	Filters *QueryFilters `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// QueryMetadata describes how an answer was produced.
type QueryMetadata struct {
	// Model is the completion model that generated the answer.
	Model string `json:"model" yaml:"model"`

	// TokensUsed is the total token count reported by the completion
	// service; PromptTokens and CompletionTokens are its split.
	TokensUsed       int `json:"tokens_used" yaml:"tokens_used"`
	PromptTokens     int `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens" yaml:"completion_tokens"`

	// PapersRetrieved is the number of sources supplied to the model.
	PapersRetrieved int `json:"papers_retrieved" yaml:"papers_retrieved"`

	// ProcessingTimeMS is the end-to-end query latency in milliseconds.
	ProcessingTimeMS int64 `json:"processing_time_ms" yaml:"processing_time_ms"`
}

// QueryResponse is the answer returned to the caller. A query that finds
// no relevant papers is a normal response with an empty Sources list, not
// an error.
type QueryResponse struct {
	Query    string         `json:"query" yaml:"query"`
	Answer   string         `json:"answer" yaml:"answer"`
	Sources  []RankedSource `json:"sources" yaml:"sources"`
	Metadata QueryMetadata  `json:"metadata" yaml:"metadata"`
}
