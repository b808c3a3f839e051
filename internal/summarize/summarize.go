// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize turns extracted paper text into model-written
// summaries. The backends sit behind a small Summarizer interface so the
// ingest stage never sees provider SDKs; retries and prompt assembly are
// handled here.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/logan-lin/pubsummarizer/internal/pdftext"
	"github.com/logan-lin/pubsummarizer/internal/retry"
	"github.com/logan-lin/pubsummarizer/pkg/types"
)

// Summarizer produces one summary for one paper's text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// New builds the configured provider. Unknown providers are a
// configuration error and abort the run before any paper is touched.
func New(ctx context.Context, cfg types.SummarizeConfig) (Summarizer, error) {
	switch cfg.Provider {
	case types.ProviderOpenAI:
		return newOpenAI(cfg), nil
	case types.ProviderGemini:
		return newGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %q", cfg.Provider)
	}
}

// BuildPrompt frames the paper text between the configured prefix and
// suffix, separated by blank lines. Empty prefix or suffix segments are
// dropped rather than producing stray separators.
func BuildPrompt(prefix, text, suffix string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{prefix, text, suffix} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}

// PreparePrompt applies the input cap and assembles the final prompt for
// one paper. The stored content stays untruncated; the cap only limits
// what the model sees.
func PreparePrompt(cfg types.SummarizeConfig, text string) string {
	return BuildPrompt(cfg.Prefix, pdftext.Truncate(text, cfg.CapMarker), cfg.Suffix)
}

// WithRetry wraps a Summarizer so every call runs under the given backoff
// policy. Both provider adapters are wrapped this way by the ingest and
// summarize commands.
func WithRetry(s Summarizer, p retry.Policy) Summarizer {
	return &retrying{inner: s, policy: p}
}

type retrying struct {
	inner  Summarizer
	policy retry.Policy
}

func (r *retrying) Summarize(ctx context.Context, text string) (string, error) {
	var out string
	err := retry.Do(ctx, r.policy, func(ctx context.Context) error {
		var err error
		out, err = r.inner.Summarize(ctx, text)
		return err
	})
	if err != nil {
		return "", err
	}
	return out, nil
}
