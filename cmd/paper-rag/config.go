// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-rag/internal/secrets"
	"github.com/pdiddy/paper-rag/pkg/types"
)

// buildConfig assembles the pipeline configuration: documented defaults,
// overlaid with config file and environment values, overlaid with API
// keys from the secrets directory. Every component reads from the
// result; nothing else consults viper.
func buildConfig() types.PipelineConfig {
	cfg := types.DefaultConfig()

	overlayDuration("embedding.timeout", &cfg.Embedding.Timeout)
	overlayString("embedding.model", &cfg.Embedding.Model)
	overlayInt("embedding.dimension", &cfg.Embedding.Dimension)
	overlayInt("embedding.retry.max_retries", &cfg.Embedding.Retry.MaxRetries)
	overlayFloat("embedding.retry.backoff_base", &cfg.Embedding.Retry.BackoffBase)

	overlayString("vector_index.url", &cfg.VectorIndex.URL)
	overlayString("vector_index.collection", &cfg.VectorIndex.Collection)
	overlayInt("vector_index.dimension", &cfg.VectorIndex.Dimension)

	overlayInt("retrieval.retrieval_cap", &cfg.Retrieval.RetrievalCap)
	overlayFloat("retrieval.similarity_threshold", &cfg.Retrieval.SimilarityThreshold)
	overlayInt("retrieval.default_top_k", &cfg.Retrieval.DefaultTopK)
	overlayInt("retrieval.abstract_max_chars", &cfg.Retrieval.AbstractMaxChars)

	overlayString("generation.model", &cfg.Generation.Model)
	overlayInt("generation.max_tokens", &cfg.Generation.MaxTokens)
	overlayFloat("generation.temperature", &cfg.Generation.Temperature)

	overlayStringSlice("feed.categories", &cfg.Feed.Categories)
	overlayInt("feed.max_results", &cfg.Feed.MaxResults)
	overlayInt("feed.days_back", &cfg.Feed.DaysBack)
	overlayInt("feed.rate_limit.max_requests", &cfg.Feed.RateLimit.MaxRequests)
	overlayDuration("feed.rate_limit.time_window", &cfg.Feed.RateLimit.TimeWindow)
	overlayDuration("feed.rate_limit.min_delay", &cfg.Feed.RateLimit.MinDelay)
	overlayInt("feed.retry.max_retries", &cfg.Feed.Retry.MaxRetries)
	overlayFloat("feed.retry.backoff_base", &cfg.Feed.Retry.BackoffBase)

	overlayBool("enrichment.enabled", &cfg.Enrichment.Enabled)
	overlayString("enrichment.backend", &cfg.Enrichment.Backend)
	overlayInt("enrichment.rate_limit.max_requests", &cfg.Enrichment.RateLimit.MaxRequests)
	overlayDuration("enrichment.rate_limit.time_window", &cfg.Enrichment.RateLimit.TimeWindow)
	overlayDuration("enrichment.rate_limit.min_delay", &cfg.Enrichment.RateLimit.MinDelay)
	overlayInt("enrichment.retry.max_retries", &cfg.Enrichment.Retry.MaxRetries)
	overlayFloat("enrichment.retry.backoff_base", &cfg.Enrichment.Retry.BackoffBase)

	overlayString("metadata_store.path", &cfg.MetadataStore.Path)

	cfg.Embedding.APIKey = secretDefault(secrets.OpenAIAPIKey, viper.GetString("embedding.api_key"))
	cfg.Generation.APIKey = secretDefault(secrets.OpenAIAPIKey, viper.GetString("generation.api_key"))
	cfg.VectorIndex.APIKey = secretDefault(secrets.QdrantAPIKey, viper.GetString("vector_index.api_key"))
	cfg.Enrichment.APIKey = secretDefault(secrets.SemanticScholarAPIKey, viper.GetString("enrichment.api_key"))

	return cfg
}

func overlayString(key string, dst *string) {
	if viper.IsSet(key) {
		*dst = viper.GetString(key)
	}
}

func overlayStringSlice(key string, dst *[]string) {
	if viper.IsSet(key) {
		*dst = viper.GetStringSlice(key)
	}
}

func overlayInt(key string, dst *int) {
	if viper.IsSet(key) {
		*dst = viper.GetInt(key)
	}
}

func overlayFloat(key string, dst *float64) {
	if viper.IsSet(key) {
		*dst = viper.GetFloat64(key)
	}
}

func overlayBool(key string, dst *bool) {
	if viper.IsSet(key) {
		*dst = viper.GetBool(key)
	}
}

func overlayDuration(key string, dst *time.Duration) {
	if viper.IsSet(key) {
		*dst = viper.GetDuration(key)
	}
}
