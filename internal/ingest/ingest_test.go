package ingest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logan-lin/pubsummarizer/internal/discover"
	"github.com/logan-lin/pubsummarizer/internal/identity"
	"github.com/logan-lin/pubsummarizer/internal/pdftext"
	"github.com/logan-lin/pubsummarizer/internal/store"
	"github.com/logan-lin/pubsummarizer/pkg/types"
)

// fakeStore is an in-memory PaperStore.
type fakeStore struct {
	papers  map[string]*types.Paper
	deletes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{papers: make(map[string]*types.Paper)}
}

func (f *fakeStore) Insert(_ context.Context, p *types.Paper) error {
	cp := *p
	f.papers[p.ID] = &cp
	return nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*types.Paper, error) {
	p, ok := f.papers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) SetContent(_ context.Context, id, content string) error {
	p, ok := f.papers[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Content = &content
	return nil
}

func (f *fakeStore) SetSummary(_ context.Context, id, summary string) error {
	p, ok := f.papers[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Summary = &summary
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	delete(f.papers, id)
	f.deletes++
	return nil
}

func (f *fakeStore) List(_ context.Context, fl store.Filter) ([]*types.Paper, error) {
	var out []*types.Paper
	for _, p := range f.papers {
		if fl.Collection != "" && p.Collection != fl.Collection {
			continue
		}
		if fl.MissingSummary && p.Summary != nil {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// fakeFetcher writes canned bytes to the destination.
type fakeFetcher struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeFetcher) Download(_ context.Context, _ string, destPath string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return false, err
	}
	return false, os.WriteFile(destPath, f.data, 0o644)
}

// fakeExtractor returns a fixed outcome.
type fakeExtractor struct {
	outcome pdftext.Outcome
	calls   int
}

func (f *fakeExtractor) Extract(_ []byte) pdftext.Outcome {
	f.calls++
	return f.outcome
}

// fakeSummarizer records prompts.
type fakeSummarizer struct {
	summary string
	err     error
	prompts []string
}

func (f *fakeSummarizer) Summarize(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

func testItem() discover.Item {
	return discover.Item{
		Key: identity.SourceKey{
			Platform:   types.PlatformOpenReview,
			Conference: "ICLR",
			Year:       2025,
			Track:      "Conference",
			Title:      "Attention Is Enough",
		},
		Title:  "Attention Is Enough",
		PDFURL: "https://openreview.net/pdf/x.pdf",
	}
}

func testRunner(t *testing.T, st *fakeStore, fetcher *fakeFetcher, ex *fakeExtractor) *Runner {
	t.Helper()
	return &Runner{
		Cfg: types.ScrapeConfig{
			Conference: "ICLR",
			Year:       2025,
			Track:      "Conference",
			OutputDir:  t.TempDir(),
		},
		Store:     st,
		Fetcher:   fetcher,
		Extractor: ex,
	}
}

func TestRun_NewPaperEndToEnd(t *testing.T) {
	st := newFakeStore()
	fetcher := &fakeFetcher{data: []byte("%PDF-1.7")}
	ex := &fakeExtractor{outcome: pdftext.Outcome{Text: "  the   paper   text ", Strategy: "embedded"}}
	r := testRunner(t, st, fetcher, ex)

	var out bytes.Buffer
	result, err := r.Run(context.Background(), []discover.Item{testItem()}, &out)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 0, result.OCRFallbacks)

	id := identity.ComputeID(testItem().Key)
	p := st.papers[id]
	require.NotNil(t, p)
	assert.Equal(t, "ICLR2025-Conference", p.Collection)
	assert.Equal(t, types.PhaseExtracted, p.Phase())
	require.NotNil(t, p.Content)
	assert.Equal(t, "the paper text", *p.Content)

	// Sidecar written next to the PDF.
	sidecars, err := filepath.Glob(filepath.Join(r.Cfg.OutputDir, "metadata", "*.yaml"))
	require.NoError(t, err)
	assert.Len(t, sidecars, 1)
}

func TestRun_SkipsIngestedPaper(t *testing.T) {
	st := newFakeStore()
	id := identity.ComputeID(testItem().Key)
	content := "already extracted"
	st.papers[id] = &types.Paper{ID: id, Title: "Attention Is Enough", Content: &content}

	fetcher := &fakeFetcher{data: []byte("%PDF")}
	ex := &fakeExtractor{}
	r := testRunner(t, st, fetcher, ex)

	result, err := r.Run(context.Background(), []discover.Item{testItem()}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, fetcher.calls, "skip must not touch the network")
	assert.Equal(t, 0, ex.calls)
}

func TestRun_ForceRescrapeReprocesses(t *testing.T) {
	st := newFakeStore()
	id := identity.ComputeID(testItem().Key)
	oldContent := "stale"
	oldSummary := "stale summary"
	st.papers[id] = &types.Paper{ID: id, Content: &oldContent, Summary: &oldSummary}

	fetcher := &fakeFetcher{data: []byte("%PDF")}
	ex := &fakeExtractor{outcome: pdftext.Outcome{Text: "fresh text", Strategy: "embedded"}}
	r := testRunner(t, st, fetcher, ex)
	r.Cfg.ForceRescrape = true

	result, err := r.Run(context.Background(), []discover.Item{testItem()}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, st.deletes)
	p := st.papers[id]
	require.NotNil(t, p.Content)
	assert.Equal(t, "fresh text", *p.Content)
	assert.Nil(t, p.Summary, "rescrape starts over from scratch")
}

func TestRun_DownloadFailurePersistsNothing(t *testing.T) {
	st := newFakeStore()
	fetcher := &fakeFetcher{err: errors.New("after 5 attempts: HTTP 404")}
	r := testRunner(t, st, fetcher, &fakeExtractor{})

	result, err := r.Run(context.Background(), []discover.Item{testItem()}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, st.papers)
}

func TestRun_EmptyExtractionStoredNotSummarized(t *testing.T) {
	st := newFakeStore()
	fetcher := &fakeFetcher{data: []byte("scanned junk")}
	ex := &fakeExtractor{outcome: pdftext.Outcome{Text: "", Strategy: ""}}
	sum := &fakeSummarizer{summary: "unwanted"}

	r := testRunner(t, st, fetcher, ex)
	r.Cfg.SummarizeInline = true
	r.Summarizer = sum

	result, err := r.Run(context.Background(), []discover.Item{testItem()}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Summarized)
	assert.Empty(t, sum.prompts)

	id := identity.ComputeID(testItem().Key)
	p := st.papers[id]
	require.NotNil(t, p.Content, "empty extraction is still recorded")
	assert.Equal(t, "", *p.Content)
	assert.Equal(t, types.PhaseExtracted, p.Phase())
}

func TestRun_InlineSummarizeFailureKeepsContent(t *testing.T) {
	st := newFakeStore()
	fetcher := &fakeFetcher{data: []byte("%PDF")}
	ex := &fakeExtractor{outcome: pdftext.Outcome{Text: "body", Strategy: "embedded"}}
	sum := &fakeSummarizer{err: errors.New("after 5 attempts: rate limited")}

	r := testRunner(t, st, fetcher, ex)
	r.Cfg.SummarizeInline = true
	r.Summarizer = sum

	result, err := r.Run(context.Background(), []discover.Item{testItem()}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed, "summarize failure does not fail the item")
	assert.Equal(t, 0, result.Summarized)

	id := identity.ComputeID(testItem().Key)
	p := st.papers[id]
	assert.Equal(t, types.PhaseExtracted, p.Phase())
	assert.Nil(t, p.Summary)
}

func TestRun_InlineSummarizeSuccess(t *testing.T) {
	st := newFakeStore()
	fetcher := &fakeFetcher{data: []byte("%PDF")}
	ex := &fakeExtractor{outcome: pdftext.Outcome{
		Text:     "body",
		Strategy: "ocr",
		Attempts: []pdftext.Attempt{{Strategy: "embedded"}, {Strategy: "layout"}, {Strategy: "ocr"}},
	}}
	sum := &fakeSummarizer{summary: "[Topics: t] [TL;DR: d] [Summary: s]"}

	r := testRunner(t, st, fetcher, ex)
	r.Cfg.SummarizeInline = true
	r.SumCfg = types.SummarizeConfig{Prefix: "Summarize this paper:"}
	r.Summarizer = sum

	result, err := r.Run(context.Background(), []discover.Item{testItem()}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Summarized)
	assert.Equal(t, 1, result.OCRFallbacks)
	require.Len(t, sum.prompts, 1)
	assert.Equal(t, "Summarize this paper:\n\nbody", sum.prompts[0])

	id := identity.ComputeID(testItem().Key)
	p := st.papers[id]
	assert.Equal(t, types.PhaseSummarized, p.Phase())
}

func TestSummarizeBatch(t *testing.T) {
	st := newFakeStore()
	withContent := "interesting findings"
	empty := ""
	done := "done already"
	existing := "old summary"
	st.papers["a"] = &types.Paper{ID: "a", Title: "A", Content: &withContent}
	st.papers["b"] = &types.Paper{ID: "b", Title: "B", Content: &empty}
	st.papers["c"] = &types.Paper{ID: "c", Title: "C", Content: &done, Summary: &existing}

	sum := &fakeSummarizer{summary: "fresh summary"}
	result, err := SummarizeBatch(context.Background(), st, sum, types.SummarizeConfig{}, "", &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Summarized)
	assert.Equal(t, 1, result.Skipped, "empty content rows are skipped")
	assert.Equal(t, 0, result.Failed)

	require.NotNil(t, st.papers["a"].Summary)
	assert.Equal(t, "fresh summary", *st.papers["a"].Summary)
	assert.Equal(t, "old summary", *st.papers["c"].Summary, "already summarized rows untouched")
}

func TestSummarizeBatch_FailureLeavesRowUnsummarized(t *testing.T) {
	st := newFakeStore()
	content := "text"
	st.papers["a"] = &types.Paper{ID: "a", Title: "A", Content: &content}

	sum := &fakeSummarizer{err: errors.New("after 5 attempts: boom")}
	result, err := SummarizeBatch(context.Background(), st, sum, types.SummarizeConfig{}, "", &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Nil(t, st.papers["a"].Summary)
	assert.Equal(t, types.PhaseExtracted, st.papers["a"].Phase())
}

func TestCollectionName(t *testing.T) {
	cfg := types.ScrapeConfig{Conference: "NeurIPS", Year: 2024, Track: "Datasets"}
	assert.Equal(t, "NeurIPS2024-Datasets", CollectionName(cfg))

	cfg.Collection = "my-picks"
	assert.Equal(t, "my-picks", CollectionName(cfg))
}
