// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vectorindex stores paper vectors with metadata and answers
// nearest-neighbor queries. The similarity engine itself is an external
// service; this package is its boundary.
package vectorindex

import (
	"context"

	"github.com/google/uuid"

	"github.com/pdiddy/paper-rag/pkg/types"
)

// Index is the four-operation contract the pipeline consumes. Upserts
// are visible to subsequent searches in the same process.
type Index interface {
	// Upsert stores a paper's vector and metadata under its point ID.
	Upsert(ctx context.Context, paper types.Paper, vector []float64) error

	// Exists reports whether a paper with this exact ID is stored.
	Exists(ctx context.Context, paperID string) (bool, error)

	// Search returns candidates ordered by similarity, at most limit,
	// excluding anything below threshold. Filters may be nil.
	Search(ctx context.Context, vector []float64, limit int, threshold float64, filters *types.QueryFilters) ([]types.RetrievalCandidate, error)

	// Stats returns collection-level counts.
	Stats(ctx context.Context) (Stats, error)
}

// Stats holds collection counters.
type Stats struct {
	Collection  string `json:"collection" yaml:"collection"`
	PointsCount int    `json:"points_count" yaml:"points_count"`
}

// pointNamespace seeds deterministic point IDs. Fixed forever: changing
// it would orphan every stored vector.
var pointNamespace = uuid.MustParse("8f3c1d2e-5a74-4b0b-9c66-2d1f8e4a7b53")

// PointID derives the index point ID for a paper. A UUIDv5 of the full
// paper ID keeps the mapping stable and collision-free, unlike a
// truncated integer hash.
func PointID(paperID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(paperID)).String()
}
