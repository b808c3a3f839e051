// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover lists the papers a scrape run should process. Each
// listing site gets one Source implementation; the ingest stage consumes
// the discovered items in order and dedups them downstream by ID, so a
// re-run of discovery is harmless.
package discover

import (
	"context"
	"fmt"

	"github.com/logan-lin/pubsummarizer/internal/fetch"
	"github.com/logan-lin/pubsummarizer/internal/identity"
	"github.com/logan-lin/pubsummarizer/pkg/types"
)

// Item is one discovered paper: its canonical source key plus what is
// needed to fetch it.
type Item struct {
	Key    identity.SourceKey
	Title  string
	PDFURL string
}

// Source produces the finite sequence of items for one run. Discovery is
// not restartable mid-sequence; callers re-run it from scratch and rely on
// ID-based dedup.
type Source interface {
	Name() string
	Discover(ctx context.Context) ([]Item, error)
}

// ForPlatform builds the Source for the configured platform. An unknown
// platform is a configuration error and aborts the run.
func ForPlatform(cfg types.ScrapeConfig, client *fetch.Client) (Source, error) {
	switch cfg.Platform {
	case types.PlatformOpenReview:
		return &openReviewSource{cfg: cfg, client: client}, nil
	case types.PlatformFileList:
		return &fileListSource{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("unsupported platform: %q", cfg.Platform)
	}
}
