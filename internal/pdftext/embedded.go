// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// embeddedStrategy reads the PDF's embedded text objects page by page with
// the pure-Go parser. Fast, but defeated by non-conformant files and by
// scanned documents.
type embeddedStrategy struct{}

func (embeddedStrategy) Name() string { return "embedded" }

func (embeddedStrategy) Extract(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	numPages := r.NumPage()
	fonts := make(map[string]*pdf.Font)
	var parts []string

	for i := 1; i <= numPages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}

		text, pageErr := p.GetPlainText(fonts)
		if pageErr != nil {
			return "", fmt.Errorf("reading page %d: %w", i, pageErr)
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	return strings.Join(parts, "\n\n"), nil
}
