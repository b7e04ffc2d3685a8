// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-rag/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RateLimitConfig holds settings for one sliding-window rate limiter.
// Each external API gets its own limiter instance, constructed once at
// process start and passed by reference to every component calling that
// API.
type RateLimitConfig struct {
	// MaxRequests is the maximum number of calls allowed inside a rolling
	// TimeWindow. Must be > 0.
	MaxRequests int `json:"max_requests" yaml:"max_requests"`

	// TimeWindow is the width of the sliding window.
	TimeWindow time.Duration `json:"time_window" yaml:"time_window"`

	// MinDelay is the minimum spacing between consecutive calls. Zero
	// disables the spacing check.
	MinDelay time.Duration `json:"min_delay" yaml:"min_delay"`
}

// RetryConfig holds settings for bounded exponential-backoff retry.
type RetryConfig struct {
	// MaxRetries is the number of additional attempts after the first.
	// Zero means exactly one attempt.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// BackoffBase is the exponential base in seconds: the wait before
	// retry n is BackoffBase^(n-1) seconds. Must be > 1.
	BackoffBase float64 `json:"backoff_base" yaml:"backoff_base"`
}

// EmbeddingConfig holds settings for the embedding service client.
type EmbeddingConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the embedding service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Model is the embedding model identifier (default
	// "text-embedding-3-small").
	Model string `json:"model" yaml:"model"`

	// Dimension is the expected vector dimension (default 1536). A
	// response vector of any other length is a contract violation.
	Dimension int `json:"dimension" yaml:"dimension"`

	// Retry governs embedding API calls. The embedding service is not
	// rate-limited locally, so retry is its only failure handling.
	Retry RetryConfig `json:"retry" yaml:"retry"`
}

// VectorIndexConfig holds settings for the vector index service.
type VectorIndexConfig struct {
	HTTPConfig `yaml:",inline"`

	// URL is the index base URL (default "http://localhost:6333").
	URL string `json:"url" yaml:"url"`

	// APIKey is an optional index API key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Collection is the collection name (default "papers").
	Collection string `json:"collection" yaml:"collection"`

	// Dimension is the stored vector dimension, matching the embedding
	// model (default 1536).
	Dimension int `json:"dimension" yaml:"dimension"`
}

// RetrievalConfig holds settings for the retrieval pipeline.
type RetrievalConfig struct {
	// RetrievalCap bounds the candidate over-fetch: the index is asked
	// for min(2*top_k, RetrievalCap) candidates (default 10).
	RetrievalCap int `json:"retrieval_cap" yaml:"retrieval_cap"`

	// SimilarityThreshold is the minimum cosine similarity for a
	// candidate to be considered relevant (default 0.7). Filtering
	// happens inside the index, not post-hoc.
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`

	// DefaultTopK is used when a request leaves TopK at zero (default 5).
	DefaultTopK int `json:"default_top_k" yaml:"default_top_k"`

	// AbstractMaxChars bounds each returned abstract to cap prompt size
	// (default 500).
	AbstractMaxChars int `json:"abstract_max_chars" yaml:"abstract_max_chars"`
}

// GenerationConfig holds settings for the completion service client.
type GenerationConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the completion service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Model is the chat model identifier (default "gpt-4").
	Model string `json:"model" yaml:"model"`

	// MaxTokens caps the generated answer length (default 2000).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// FeedConfig holds settings for the external paper feed.
type FeedConfig struct {
	HTTPConfig `yaml:",inline"`

	// Categories are the feed subject categories to pull from (default
	// cs.AI, cs.LG, cs.CL).
	Categories []string `json:"categories" yaml:"categories"`

	// MaxResults is the maximum number of papers per fetch (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// DaysBack restricts the fetch to papers published within the last
	// N days. Zero disables the cutoff.
	DaysBack int `json:"days_back" yaml:"days_back"`

	// RateLimit and Retry govern feed API access. The feed asks for a
	// 3-second spacing between requests, so the defaults are
	// conservative: 20 requests/minute with a 3s minimum delay, 3
	// retries at backoff base 2.
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
	Retry     RetryConfig     `json:"retry" yaml:"retry"`
}

// EnrichmentConfig holds settings for the citation enrichment service.
type EnrichmentConfig struct {
	HTTPConfig `yaml:",inline"`

	// Enabled toggles citation enrichment during ingestion.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Backend selects the enrichment source: "semantic_scholar" (default)
	// or "openalex".
	Backend string `json:"backend" yaml:"backend"`

	// APIKey is an optional Semantic Scholar API key for higher limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// RateLimit and Retry govern enrichment API access. Defaults match
	// the free tier: 100 requests per 5 minutes with a 3s minimum delay.
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
	Retry     RetryConfig     `json:"retry" yaml:"retry"`
}

// MetadataStoreConfig holds settings for the optional SQLite metadata
// store. An empty Path disables the store; the disabled store is a no-op
// collaborator so calling code never branches on configuration.
type MetadataStoreConfig struct {
	// Path is the SQLite database file path (e.g. "data/papers.db").
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// PipelineConfig groups all component configurations.
type PipelineConfig struct {
	Embedding     EmbeddingConfig     `json:"embedding" yaml:"embedding"`
	VectorIndex   VectorIndexConfig   `json:"vector_index" yaml:"vector_index"`
	Retrieval     RetrievalConfig     `json:"retrieval" yaml:"retrieval"`
	Generation    GenerationConfig    `json:"generation" yaml:"generation"`
	Feed          FeedConfig          `json:"feed" yaml:"feed"`
	Enrichment    EnrichmentConfig    `json:"enrichment" yaml:"enrichment"`
	MetadataStore MetadataStoreConfig `json:"metadata_store" yaml:"metadata_store"`
}

// DefaultConfig returns a PipelineConfig with every documented default
// filled in. Callers overlay file, environment, and flag values on top.
func DefaultConfig() PipelineConfig {
	httpDefaults := HTTPConfig{
		Timeout:   30 * time.Second,
		UserAgent: "paper-rag/0.1",
	}
	return PipelineConfig{
		Embedding: EmbeddingConfig{
			HTTPConfig: httpDefaults,
			Model:      "text-embedding-3-small",
			Dimension:  1536,
			Retry: RetryConfig{
				MaxRetries:  3,
				BackoffBase: 2,
			},
		},
		VectorIndex: VectorIndexConfig{
			HTTPConfig: httpDefaults,
			URL:        "http://localhost:6333",
			Collection: "papers",
			Dimension:  1536,
		},
		Retrieval: RetrievalConfig{
			RetrievalCap:        10,
			SimilarityThreshold: 0.7,
			DefaultTopK:         5,
			AbstractMaxChars:    500,
		},
		Generation: GenerationConfig{
			HTTPConfig:  httpDefaults,
			Model:       "gpt-4",
			MaxTokens:   2000,
			Temperature: 0.7,
		},
		Feed: FeedConfig{
			HTTPConfig: httpDefaults,
			Categories: []string{"cs.AI", "cs.LG", "cs.CL"},
			MaxResults: 50,
			RateLimit: RateLimitConfig{
				MaxRequests: 20,
				TimeWindow:  time.Minute,
				MinDelay:    3 * time.Second,
			},
			Retry: RetryConfig{MaxRetries: 3, BackoffBase: 2},
		},
		Enrichment: EnrichmentConfig{
			HTTPConfig: httpDefaults,
			Enabled:    true,
			Backend:    "semantic_scholar",
			RateLimit: RateLimitConfig{
				MaxRequests: 100,
				TimeWindow:  5 * time.Minute,
				MinDelay:    3 * time.Second,
			},
			Retry: RetryConfig{MaxRetries: 3, BackoffBase: 2},
		},
	}
}
