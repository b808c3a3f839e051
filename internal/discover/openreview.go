// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/logan-lin/pubsummarizer/internal/identity"
	"github.com/logan-lin/pubsummarizer/pkg/types"
)

// openReviewAPIBase is overridable in tests.
var openReviewAPIBase = "https://api2.openreview.net"

const openReviewPageSize = 1000

// openReviewSource pages through the OpenReview notes API for one venue.
// The venue ID follows OpenReview's "<conference>.cc/<year>/<track>"
// convention; the optional submission type is matched against the note's
// venue string (e.g. "ICLR 2025 Oral").
type openReviewSource struct {
	cfg    types.ScrapeConfig
	client jsonGetter
}

// jsonGetter is the slice of fetch.Client discovery needs; tests supply
// their own.
type jsonGetter interface {
	GetJSON(ctx context.Context, url string) ([]byte, error)
}

func (s *openReviewSource) Name() string { return "openreview" }

// Note payload shapes for the OpenReview API v2, where every content field
// is wrapped in a {"value": ...} object.
type orNotesResponse struct {
	Notes []orNote `json:"notes"`
	Count int      `json:"count"`
}

type orNote struct {
	ID      string `json:"id"`
	Content struct {
		Title orStringField `json:"title"`
		Venue orStringField `json:"venue"`
		PDF   orStringField `json:"pdf"`
	} `json:"content"`
}

type orStringField struct {
	Value string `json:"value"`
}

func (s *openReviewSource) Discover(ctx context.Context) ([]Item, error) {
	venueID := fmt.Sprintf("%s.cc/%d/%s", s.cfg.Conference, s.cfg.Year, s.cfg.Track)

	var items []Item
	for offset := 0; ; offset += openReviewPageSize {
		q := url.Values{}
		q.Set("content.venueid", venueID)
		q.Set("limit", fmt.Sprint(openReviewPageSize))
		q.Set("offset", fmt.Sprint(offset))

		body, err := s.client.GetJSON(ctx, openReviewAPIBase+"/notes?"+q.Encode())
		if err != nil {
			return nil, fmt.Errorf("querying openreview notes: %w", err)
		}

		var page orNotesResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("parsing openreview response: %w", err)
		}
		if len(page.Notes) == 0 {
			break
		}

		for _, note := range page.Notes {
			title := strings.TrimSpace(note.Content.Title.Value)
			if title == "" || note.Content.PDF.Value == "" {
				log.Debug().Str("note", note.ID).Msg("skipping note without title or pdf")
				continue
			}
			if s.cfg.SubmissionType != "" &&
				!strings.Contains(strings.ToLower(note.Content.Venue.Value), strings.ToLower(s.cfg.SubmissionType)) {
				continue
			}

			items = append(items, Item{
				Key: identity.SourceKey{
					Platform:       types.PlatformOpenReview,
					Conference:     s.cfg.Conference,
					Year:           s.cfg.Year,
					Track:          s.cfg.Track,
					SubmissionType: s.cfg.SubmissionType,
					Title:          title,
					URL:            pdfURL(note),
				},
				Title:  title,
				PDFURL: pdfURL(note),
			})
			if s.cfg.MaxPapers > 0 && len(items) >= s.cfg.MaxPapers {
				return items, nil
			}
		}

		if len(page.Notes) < openReviewPageSize {
			break
		}
	}

	log.Info().Int("papers", len(items)).Str("venue", venueID).Msg("discovery complete")
	return items, nil
}

// pdfURL resolves the note's pdf field, which is a site-relative path like
// "/pdf/abcd1234.pdf".
func pdfURL(note orNote) string {
	p := note.Content.PDF.Value
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return "https://openreview.net" + p
}
