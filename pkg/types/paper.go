// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Phase names one stage of the ingestion state machine. A paper's phase is
// derived from its persisted row, never stored directly: no row means
// pending, a row without content means fetched, non-null content means
// extracted, and a non-null summary means summarized.
type Phase string

const (
	PhasePending    Phase = "pending"
	PhaseFetched    Phase = "content-fetched"
	PhaseExtracted  Phase = "content-extracted"
	PhaseSummarized Phase = "summarized"
)

// Paper holds one ingested conference paper and its processing artifacts.
// The ingest stage is the sole writer; exporters only read.
type Paper struct {
	// ID is the content-addressed identifier: the SHA-256 hex digest of the
	// canonical source key (platform/venue/track/title, or the source URL
	// when no title is known). Identical source items always collapse to
	// the same ID, which makes re-runs idempotent.
	ID string `json:"id" yaml:"id"`

	// Collection is the run label grouping papers (e.g. "ICLR2025-Oral").
	Collection string `json:"collection" yaml:"collection"`

	// Title is the paper title as discovered.
	Title string `json:"title" yaml:"title"`

	// Platform identifies the listing site the paper came from.
	Platform Platform `json:"platform" yaml:"platform"`

	// SourceURL is the PDF URL the paper was downloaded from.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// PDFPath is the local filesystem path of the downloaded PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// Content is the normalized extracted text. Nil until extraction has
	// run; a non-nil empty string records "extracted but empty" so repeated
	// runs do not re-download a PDF no strategy could read.
	Content *string `json:"content,omitempty" yaml:"content,omitempty"`

	// Summary is the raw summarization output, containing the bracketed
	// [Topics:] / [TL;DR:] / [Summary:] section markers the exporters
	// consume. Nil until summarization has succeeded.
	Summary *string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Phase reports the paper's position in the ingestion state machine.
func (p *Paper) Phase() Phase {
	switch {
	case p == nil:
		return PhasePending
	case p.Summary != nil:
		return PhaseSummarized
	case p.Content != nil:
		return PhaseExtracted
	default:
		return PhaseFetched
	}
}

// HasContent reports whether extraction produced non-empty text.
func (p *Paper) HasContent() bool {
	return p != nil && p.Content != nil && *p.Content != ""
}
