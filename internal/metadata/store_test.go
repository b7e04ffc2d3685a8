// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-rag/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.MetadataStoreConfig{
		Path: filepath.Join(t.TempDir(), "papers.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePaper() types.Paper {
	return types.Paper{
		ID:            "2301.07041",
		Title:         "Scaling Laws for Sparse Models",
		Authors:       []string{"A. Author", "B. Writer"},
		Abstract:      "We study scaling behavior.",
		PublishedDate: "2023-01-17",
		SourceURL:     "https://arxiv.org/abs/2301.07041",
		PDFURL:        "https://arxiv.org/pdf/2301.07041",
		Categories:    []string{"cs.LG", "cs.AI"},
		CitationCount: 12,
		Venue:         "NeurIPS",
	}
}

func TestSaveAndGetPaper(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePaper(ctx, samplePaper()))

	got, err := s.GetPaper(ctx, "2301.07041")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, samplePaper(), *got)
}

func TestGetPaperNotFound(t *testing.T) {
	s := testStore(t)

	got, err := s.GetPaper(context.Background(), "9999.00000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSavePaperUpsert(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p := samplePaper()
	require.NoError(t, s.SavePaper(ctx, p))

	p.CitationCount = 500
	p.Venue = "ICML"
	require.NoError(t, s.SavePaper(ctx, p))

	got, err := s.GetPaper(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 500, got.CitationCount)
	assert.Equal(t, "ICML", got.Venue)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "re-saving does not duplicate the row")
}

func TestCount(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	p := samplePaper()
	require.NoError(t, s.SavePaper(ctx, p))
	p.ID = "2301.07042"
	require.NoError(t, s.SavePaper(ctx, p))

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDisabledStore(t *testing.T) {
	s, err := NewStore(types.MetadataStoreConfig{})
	require.NoError(t, err)

	assert.False(t, s.Enabled())

	ctx := context.Background()
	assert.NoError(t, s.SavePaper(ctx, samplePaper()))

	got, err := s.GetPaper(ctx, "2301.07041")
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.NoError(t, s.Close())
}
