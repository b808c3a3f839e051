// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"regexp"
	"strings"
)

// markupRe matches embedded TeX-style environments that some extraction
// paths leave inline (figure and tikzpicture blocks, mostly).
var markupRe = regexp.MustCompile(`\\begin\{[a-zA-Z*]+\}(?s:.*?)\\end\{[a-zA-Z*]+\}`)

// dehyphenRe matches a line-wrap hyphenation artifact: a word broken by a
// hyphen followed by whitespace.
var dehyphenRe = regexp.MustCompile(`(\pL)-\s+(\pL)`)

// Normalizer canonicalizes raw extracted text. Steps run in a fixed order:
// markup removal, de-hyphenation, whitespace collapse, non-ASCII strip, and
// cap-marker truncation. Each optional step is off unless enabled. The
// collapse and strip steps are idempotent, so normalizing already-normalized
// text is a no-op.
type Normalizer struct {
	// StripMarkup removes embedded TeX-style environment blocks before
	// whitespace collapse.
	StripMarkup bool

	// Dehyphenate rejoins words split across line wraps ("Self-\n supervised"
	// becomes "Selfsupervised").
	Dehyphenate bool

	// CapMarker truncates the text at its first occurrence when non-empty.
	CapMarker string
}

// Normalize applies the configured steps to raw and returns the clean text.
func (n Normalizer) Normalize(raw string) string {
	s := raw

	if n.StripMarkup {
		s = markupRe.ReplaceAllString(s, " ")
	}
	if n.Dehyphenate {
		s = dehyphenRe.ReplaceAllString(s, "$1$2")
	}

	// Collapse all whitespace runs, newlines included, to single spaces.
	s = strings.Join(strings.Fields(s), " ")

	// Drop code points outside 0-127: ligature and glyph artifacts from PDF
	// extraction that are not portable downstream.
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	s = b.String()

	if n.CapMarker != "" {
		s = Truncate(s, n.CapMarker)
	}
	return s
}

// Truncate cuts text at the first occurrence of marker, excluding the
// marker itself and everything after it. Used to keep bibliographies and
// appendices out of summarization input. Text without the marker is
// returned unchanged.
func Truncate(text, marker string) string {
	if marker == "" {
		return text
	}
	if idx := strings.Index(text, marker); idx >= 0 {
		return text[:idx]
	}
	return text
}
