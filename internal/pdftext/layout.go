// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"fmt"

	"code.sajari.com/docconv"
)

// layoutStrategy extracts text through docconv's layout-aware PDF
// conversion. Slower than the embedded reader, but it copes with the
// double-column layouts and structurally odd files the native parser
// mangles into interleaved garbage.
type layoutStrategy struct{}

func (layoutStrategy) Name() string { return "layout" }

func (layoutStrategy) Extract(data []byte) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(data), "application/pdf", false)
	if err != nil {
		return "", fmt.Errorf("docconv: %w", err)
	}
	return res.Body, nil
}
