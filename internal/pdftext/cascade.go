// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext turns PDF bytes into clean plain text.
//
// Extraction runs as a cascade of strategies ordered from cheapest to most
// expensive: the embedded text layer first, then a layout-aware pass for
// PDFs the native reader cannot parse (double-column academic layouts tend
// to come out interleaved or empty), and finally OCR for scanned documents.
// A strategy failure never surfaces to the caller; the cascade simply moves
// on, and when every strategy fails the result is empty text.
package pdftext

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Strategy is one way of pulling text out of a PDF. Implementations must be
// safe to call with arbitrary malformed input; returning an error (or
// panicking) counts as a miss and the cascade proceeds.
type Strategy interface {
	Name() string
	Extract(data []byte) (string, error)
}

// Attempt records the outcome of one strategy trial. Err is nil only for
// the winning strategy.
type Attempt struct {
	Strategy string
	Err      error
}

// Outcome is the tagged result of one cascade run. Strategy is the name of
// the winner, or empty when every strategy failed. Text is never mixed
// across strategies: it comes wholly from the winner or is empty.
type Outcome struct {
	Text     string
	Strategy string
	Attempts []Attempt
}

// OCRUsed reports whether the slow OCR path produced the text. Operators
// watch this: it signals a scanned or malformed source PDF.
func (o Outcome) OCRUsed() bool {
	return o.Strategy == ocrStrategyName
}

// Cascade tries its strategies in order until one yields non-empty text.
type Cascade struct {
	strategies []Strategy
}

// NewCascade builds the standard three-step cascade. When disableOCR is set
// the OCR fallback is omitted entirely.
func NewCascade(disableOCR bool) *Cascade {
	s := []Strategy{
		&embeddedStrategy{},
		&layoutStrategy{},
	}
	if !disableOCR {
		s = append(s, &ocrStrategy{})
	}
	return &Cascade{strategies: s}
}

// NewCascadeWith builds a cascade over explicit strategies, in order.
// Used by tests and by callers that need a custom chain.
func NewCascadeWith(strategies ...Strategy) *Cascade {
	return &Cascade{strategies: strategies}
}

// Extract runs the cascade over the PDF bytes. It never returns an error:
// a zero-page, encrypted, or corrupt PDF yields an Outcome with empty Text
// and the per-strategy errors recorded in Attempts.
func (c *Cascade) Extract(data []byte) Outcome {
	var out Outcome

	for _, s := range c.strategies {
		if s.Name() == ocrStrategyName {
			log.Info().Msg("embedded text extraction failed, falling back to OCR")
		}

		text, err := tryStrategy(s, data)
		if err != nil {
			out.Attempts = append(out.Attempts, Attempt{Strategy: s.Name(), Err: err})
			log.Debug().Str("strategy", s.Name()).Err(err).Msg("extraction strategy failed")
			continue
		}

		out.Attempts = append(out.Attempts, Attempt{Strategy: s.Name()})
		out.Text = text
		out.Strategy = s.Name()
		return out
	}

	return out
}

// errEmptyText marks a strategy that ran without error but produced nothing
// usable, e.g. an image-only PDF read by a text-layer parser.
var errEmptyText = fmt.Errorf("no extractable text")

// tryStrategy runs one strategy in a failure-isolating scope. Panics from
// the underlying PDF parsers (malformed xref tables are a known trigger)
// are converted to errors so the cascade can continue.
func tryStrategy(s Strategy, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%s strategy panicked: %v", s.Name(), r)
		}
	}()

	text, err = s.Extract(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", s.Name(), err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", s.Name(), errEmptyText)
	}
	return text, nil
}
