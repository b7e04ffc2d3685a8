// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-rag pipeline:
// the Paper record produced by ingestion, the transient candidate and
// ranked-source types flowing through retrieval, and the query-side
// request/response contract.
package types

// Paper is the canonical unit of knowledge: metadata for one research
// paper, keyed by a stable identifier with any version suffix stripped
// (e.g. "2301.12345", never "2301.12345v2"). A Paper is created by the
// ingestion worker from a feed record, optionally enriched with citation
// data before its first store, and immutable thereafter.
type Paper struct {
	// ID is the globally unique paper identifier (arXiv ID without version).
	ID string `json:"paper_id" yaml:"paper_id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract with newlines collapsed.
	Abstract string `json:"abstract" yaml:"abstract"`

	// PublishedDate is the publication date as an ISO-8601 string.
	PublishedDate string `json:"published_date" yaml:"published_date"`

	// SourceURL is the canonical abstract page URL.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// PDFURL is the direct PDF link, when the feed provides one.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// Categories holds the feed's subject classifications (e.g. "cs.AI").
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// CitationCount is the number of citations known at ingestion time.
	// Zero when enrichment is disabled or the paper was not found.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// Venue is the publication venue from enrichment, empty if unknown.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`
}

// RetrievalCandidate is a paper returned by vector similarity search,
// before re-ranking. SimilarityScore is the cosine similarity reported by
// the index, in [-1, 1].
type RetrievalCandidate struct {
	Paper
	SimilarityScore float64 `json:"similarity_score" yaml:"similarity_score"`
}

// RankedSource is a retrieval candidate after re-ranking. FinalScore is
// the adjusted score that determines result order; RelevanceScore is
// FinalScore rounded to three decimals for the response contract.
type RankedSource struct {
	RetrievalCandidate
	FinalScore     float64 `json:"final_score" yaml:"final_score"`
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}
