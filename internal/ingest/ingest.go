// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest drives a scrape run: for each discovered paper it
// downloads the PDF, extracts and normalizes the text, and records the
// result. Every step is keyed by the paper's content-derived ID, so
// re-running a scrape converges instead of duplicating work.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"go.yaml.in/yaml/v3"

	"github.com/logan-lin/pubsummarizer/internal/discover"
	"github.com/logan-lin/pubsummarizer/internal/identity"
	"github.com/logan-lin/pubsummarizer/internal/pdftext"
	"github.com/logan-lin/pubsummarizer/internal/store"
	"github.com/logan-lin/pubsummarizer/internal/summarize"
	"github.com/logan-lin/pubsummarizer/pkg/types"
)

const (
	pdfDir      = "pdfs"
	metadataDir = "metadata"
)

// PaperStore is the persistence surface ingestion needs.
type PaperStore interface {
	Insert(ctx context.Context, p *types.Paper) error
	Get(ctx context.Context, id string) (*types.Paper, error)
	SetContent(ctx context.Context, id, content string) error
	SetSummary(ctx context.Context, id, summary string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f store.Filter) ([]*types.Paper, error)
}

// Downloader fetches one URL to a local path, skipping files that are
// already on disk.
type Downloader interface {
	Download(ctx context.Context, url, destPath string) (skipped bool, err error)
}

// Extractor runs the text extraction cascade over raw PDF bytes.
type Extractor interface {
	Extract(data []byte) pdftext.Outcome
}

// RunResult holds the outcome of one scrape run.
type RunResult struct {
	Processed    int
	Skipped      int
	Failed       int
	Summarized   int
	OCRFallbacks int
}

// Total returns the number of discovered items handled.
func (r RunResult) Total() int {
	return r.Processed + r.Skipped + r.Failed
}

// HasFailures reports whether any items failed.
func (r RunResult) HasFailures() bool {
	return r.Failed > 0
}

// Runner wires the stages of a scrape run together. Summarizer may be nil
// when inline summarization is off.
type Runner struct {
	Cfg        types.ScrapeConfig
	SumCfg     types.SummarizeConfig
	Store      PaperStore
	Fetcher    Downloader
	Extractor  Extractor
	Normalizer pdftext.Normalizer
	Summarizer summarize.Summarizer
}

// CollectionName returns the collection label for a run, defaulting to
// "<conference><year>-<track>" when none is configured.
func CollectionName(cfg types.ScrapeConfig) string {
	if cfg.Collection != "" {
		return cfg.Collection
	}
	return fmt.Sprintf("%s%d-%s", cfg.Conference, cfg.Year, cfg.Track)
}

// Run processes the discovered items in order, printing per-item status
// and returning a summary. It continues after individual failures and
// applies a fixed delay between consecutive items.
func (r *Runner) Run(ctx context.Context, items []discover.Item, w io.Writer) (RunResult, error) {
	var result RunResult
	for i, item := range items {
		if i > 0 && r.Cfg.Delay > 0 {
			if err := sleep(ctx, r.Cfg.Delay); err != nil {
				return result, err
			}
		}

		outcome, err := r.processItem(ctx, item)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", itemLabel(item), err)
			result.Failed++
			continue
		}
		switch {
		case outcome.skipped:
			fmt.Fprintf(w, "skipped: %s (%s)\n", itemLabel(item), outcome.reason)
			result.Skipped++
		default:
			fmt.Fprintf(w, "processed: %s (via %s)\n", itemLabel(item), outcome.strategy)
			result.Processed++
		}
		if outcome.ocrUsed {
			result.OCRFallbacks++
		}
		if outcome.summarized {
			result.Summarized++
		}
	}
	fmt.Fprintf(w, "\nScrape summary: %d processed, %d skipped, %d failed, %d summarized (total: %d)\n",
		result.Processed, result.Skipped, result.Failed, result.Summarized, result.Total())
	return result, nil
}

type itemOutcome struct {
	skipped    bool
	reason     string
	strategy   string
	ocrUsed    bool
	summarized bool
}

// processItem advances one paper as far as it can get: absent rows are
// fetched, fetched rows are extracted, and extracted rows are summarized
// when inline summarization is on. A paper that already has content is
// left alone unless force-rescrape is set.
func (r *Runner) processItem(ctx context.Context, item discover.Item) (itemOutcome, error) {
	id := identity.ComputeID(item.Key)

	existing, err := r.Store.Get(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return itemOutcome{}, fmt.Errorf("looking up paper %s: %w", id, err)
	}
	if existing != nil {
		if r.Cfg.ForceRescrape {
			if err := r.Store.Delete(ctx, id); err != nil {
				return itemOutcome{}, fmt.Errorf("deleting paper %s for rescrape: %w", id, err)
			}
			log.Info().Str("id", id).Msg("force rescrape, existing row deleted")
			existing = nil
		} else if existing.HasContent() {
			return itemOutcome{skipped: true, reason: "already ingested"}, nil
		}
	}

	pdfPath := filepath.Join(r.Cfg.OutputDir, pdfDir, id[:16]+".pdf")
	if _, err := r.Fetcher.Download(ctx, item.PDFURL, pdfPath); err != nil {
		return itemOutcome{}, fmt.Errorf("downloading %s: %w", item.PDFURL, err)
	}

	if err := r.writeSidecar(item, id, pdfPath); err != nil {
		return itemOutcome{}, err
	}

	// Persist the fetched state before extraction so an extraction crash
	// leaves a resumable row instead of nothing.
	if existing == nil {
		p := &types.Paper{
			ID:         id,
			Collection: CollectionName(r.Cfg),
			Title:      item.Title,
			Platform:   item.Key.Platform,
			SourceURL:  item.PDFURL,
			PDFPath:    pdfPath,
		}
		if err := r.Store.Insert(ctx, p); err != nil {
			return itemOutcome{}, fmt.Errorf("inserting paper %s: %w", id, err)
		}
	}

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return itemOutcome{}, fmt.Errorf("reading downloaded pdf: %w", err)
	}
	extracted := r.Extractor.Extract(data)
	content := r.Normalizer.Normalize(extracted.Text)

	if err := r.Store.SetContent(ctx, id, content); err != nil {
		return itemOutcome{}, fmt.Errorf("storing content for %s: %w", id, err)
	}

	out := itemOutcome{strategy: extracted.Strategy, ocrUsed: extracted.OCRUsed()}
	if out.strategy == "" {
		out.strategy = "none"
	}

	if r.Cfg.SummarizeInline && r.Summarizer != nil && content != "" {
		summary, err := r.Summarizer.Summarize(ctx, summarize.PreparePrompt(r.SumCfg, content))
		if err != nil {
			// The row stays content-extracted; a later summarize pass
			// picks it up.
			log.Warn().Err(err).Str("id", id).Msg("inline summarization failed")
			return out, nil
		}
		if err := r.Store.SetSummary(ctx, id, summary); err != nil {
			return itemOutcome{}, fmt.Errorf("storing summary for %s: %w", id, err)
		}
		out.summarized = true
	}
	return out, nil
}

// sidecar is the YAML metadata record written next to each PDF. It is a
// human-browsable mirror of the database row, not an input to the
// pipeline.
type sidecar struct {
	ID             string    `yaml:"id"`
	Title          string    `yaml:"title"`
	Collection     string    `yaml:"collection"`
	Platform       string    `yaml:"platform"`
	Conference     string    `yaml:"conference,omitempty"`
	Year           int       `yaml:"year,omitempty"`
	Track          string    `yaml:"track,omitempty"`
	SubmissionType string    `yaml:"submission_type,omitempty"`
	SourceURL      string    `yaml:"source_url"`
	PDFPath        string    `yaml:"pdf_path"`
	ScrapedAt      time.Time `yaml:"scraped_at"`
}

func (r *Runner) writeSidecar(item discover.Item, id, pdfPath string) error {
	dir := filepath.Join(r.Cfg.OutputDir, metadataDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating metadata directory: %w", err)
	}

	data, err := yaml.Marshal(sidecar{
		ID:             id,
		Title:          item.Title,
		Collection:     CollectionName(r.Cfg),
		Platform:       string(item.Key.Platform),
		Conference:     item.Key.Conference,
		Year:           item.Key.Year,
		Track:          item.Key.Track,
		SubmissionType: item.Key.SubmissionType,
		SourceURL:      item.PDFURL,
		PDFPath:        pdfPath,
		ScrapedAt:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, id[:16]+".yaml"), data, 0o644)
}

func itemLabel(item discover.Item) string {
	if item.Title != "" {
		return item.Title
	}
	return item.PDFURL
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
