// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders stored papers into shareable documents. Both
// formats read the same parsed summary sections; only the rendering
// differs.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/logan-lin/pubsummarizer/internal/store"
	"github.com/logan-lin/pubsummarizer/pkg/types"
)

// Sections is a model summary split into its tagged parts. Models are
// prompted to answer as "[Topics:] ... [TL;DR:] ... [Summary:] ...";
// parts the model omitted are empty strings.
type Sections struct {
	Topics  string
	TLDR    string
	Summary string
}

// ParseSummary splits a raw model summary into sections. Bold markers the
// model sometimes wraps section tags in are stripped first, and the tags
// are matched case-insensitively. Text before the first tag is dropped.
func ParseSummary(raw string) Sections {
	clean := strings.NewReplacer("**", "", "__", "").Replace(raw)

	var s Sections
	for _, part := range strings.Split(clean, "[") {
		lower := strings.ToLower(part)
		switch {
		case strings.HasPrefix(lower, "topics:]"):
			s.Topics = strings.TrimSpace(part[len("topics:]"):])
		case strings.HasPrefix(lower, "tl;dr:]"):
			s.TLDR = strings.TrimSpace(part[len("tl;dr:]"):])
		case strings.HasPrefix(lower, "summary:]"):
			s.Summary = strings.TrimSpace(part[len("summary:]"):])
		}
	}
	return s
}

// TopicList splits the topics section into individual trimmed topics.
func (s Sections) TopicList() []string {
	if strings.TrimSpace(s.Topics) == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(s.Topics, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Run exports papers matching the configured collection to the output
// path. An export with no matching papers is an error, not an empty file.
func Run(ctx context.Context, st *store.Store, cfg types.ExportConfig) (int, error) {
	papers, err := st.List(ctx, store.Filter{Collection: cfg.Collection})
	if err != nil {
		return 0, fmt.Errorf("listing papers: %w", err)
	}
	if len(papers) == 0 {
		return 0, fmt.Errorf("no papers found for export")
	}

	var doc string
	switch cfg.Format {
	case types.ExportMarkdown:
		doc = RenderMarkdown(papers, cfg.Title)
	case types.ExportHTML:
		doc, err = RenderHTML(papers, cfg.Title)
		if err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("unsupported export format: %q", cfg.Format)
	}

	if dir := filepath.Dir(cfg.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(cfg.OutputPath, []byte(doc), 0o644); err != nil {
		return 0, fmt.Errorf("writing export: %w", err)
	}
	return len(papers), nil
}
