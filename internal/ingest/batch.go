// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/logan-lin/pubsummarizer/internal/store"
	"github.com/logan-lin/pubsummarizer/internal/summarize"
	"github.com/logan-lin/pubsummarizer/pkg/types"
)

// SummarizeResult holds the outcome of a standalone summarize pass.
type SummarizeResult struct {
	Summarized int
	Skipped    int
	Failed     int
}

// Total returns the number of candidate rows handled.
func (r SummarizeResult) Total() int {
	return r.Summarized + r.Skipped + r.Failed
}

// HasFailures reports whether any rows failed.
func (r SummarizeResult) HasFailures() bool {
	return r.Failed > 0
}

// SummarizeBatch summarizes every stored paper that has content but no
// summary yet, optionally restricted to one collection. Rows whose
// extraction produced empty text are skipped; they would only prompt the
// model with the framing text. Failures leave the row unsummarized for
// the next pass.
func SummarizeBatch(ctx context.Context, st PaperStore, s summarize.Summarizer, cfg types.SummarizeConfig, collection string, w io.Writer) (SummarizeResult, error) {
	papers, err := st.List(ctx, store.Filter{Collection: collection, MissingSummary: true})
	if err != nil {
		return SummarizeResult{}, fmt.Errorf("listing unsummarized papers: %w", err)
	}

	var result SummarizeResult
	for i, p := range papers {
		if i > 0 && cfg.Delay > 0 {
			if err := sleep(ctx, cfg.Delay); err != nil {
				return result, err
			}
		}

		if p.Content == nil || *p.Content == "" {
			fmt.Fprintf(w, "skipped: %s (no extracted text)\n", p.Title)
			result.Skipped++
			continue
		}

		summary, err := s.Summarize(ctx, summarize.PreparePrompt(cfg, *p.Content))
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", p.Title, err)
			log.Warn().Err(err).Str("id", p.ID).Msg("summarization failed")
			result.Failed++
			continue
		}
		if err := st.SetSummary(ctx, p.ID, summary); err != nil {
			return result, fmt.Errorf("storing summary for %s: %w", p.ID, err)
		}
		fmt.Fprintf(w, "summarized: %s\n", p.Title)
		result.Summarized++
	}
	fmt.Fprintf(w, "\nSummarize summary: %d summarized, %d skipped, %d failed (total: %d)\n",
		result.Summarized, result.Skipped, result.Failed, result.Total())
	return result, nil
}
