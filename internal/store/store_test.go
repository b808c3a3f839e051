// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logan-lin/pubsummarizer/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "papers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testPaper(id string) *types.Paper {
	return &types.Paper{
		ID:         id,
		Collection: "ICLR2025-Oral",
		Title:      "Paper " + id,
		Platform:   types.PlatformOpenReview,
		SourceURL:  "https://openreview.net/pdf?id=" + id,
		PDFPath:    "/tmp/" + id + ".pdf",
	}
}

func TestInsertAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testPaper("abc")))

	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Paper abc", got.Title)
	assert.Nil(t, got.Content)
	assert.Nil(t, got.Summary)
	assert.Equal(t, types.PhaseFetched, got.Phase())
}

func TestGet_NotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPhaseTransitions(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testPaper("p1")))

	require.NoError(t, s.SetContent(ctx, "p1", "extracted text"))
	got, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got.Content)
	assert.Equal(t, "extracted text", *got.Content)
	assert.Equal(t, types.PhaseExtracted, got.Phase())
	assert.True(t, got.HasContent())

	require.NoError(t, s.SetSummary(ctx, "p1", "[Topics:] a, b"))
	got, err = s.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got.Summary)
	assert.Equal(t, types.PhaseSummarized, got.Phase())
}

func TestSetContent_EmptyIsDistinguishable(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testPaper("empty")))
	require.NoError(t, s.SetContent(ctx, "empty", ""))

	got, err := s.Get(ctx, "empty")
	require.NoError(t, err)
	// Extracted-but-empty: content is non-nil but "".
	require.NotNil(t, got.Content)
	assert.Empty(t, *got.Content)
	assert.Equal(t, types.PhaseExtracted, got.Phase())
	assert.False(t, got.HasContent())
}

func TestUpdate_MissingRow(t *testing.T) {
	s := testStore(t)
	err := s.SetContent(context.Background(), "ghost", "text")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_Idempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testPaper("gone")))
	require.NoError(t, s.Delete(ctx, "gone"))
	_, err := s.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is not an error.
	assert.NoError(t, s.Delete(ctx, "gone"))
}

func TestList_Filters(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := testPaper("a")
	b := testPaper("b")
	c := testPaper("c")
	c.Collection = "NeurIPS2025-Poster"

	for _, p := range []*types.Paper{a, b, c} {
		require.NoError(t, s.Insert(ctx, p))
	}
	require.NoError(t, s.SetContent(ctx, "a", "text a"))
	require.NoError(t, s.SetContent(ctx, "b", "text b"))
	require.NoError(t, s.SetSummary(ctx, "a", "[Summary:] done"))

	pending, err := s.List(ctx, Filter{Collection: "ICLR2025-Oral", MissingSummary: true})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].ID)

	unfetched, err := s.List(ctx, Filter{MissingContent: true})
	require.NoError(t, err)
	require.Len(t, unfetched, 1)
	assert.Equal(t, "c", unfetched[0].ID)

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	n, err := s.Count(ctx, "ICLR2025-Oral")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestList_OrderedByTitle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	z := testPaper("z1")
	z.Title = "zeta"
	a := testPaper("a1")
	a.Title = "Alpha"
	for _, p := range []*types.Paper{z, a} {
		require.NoError(t, s.Insert(ctx, p))
	}

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha", all[0].Title)
	assert.Equal(t, "zeta", all[1].Title)
}
