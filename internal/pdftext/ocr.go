// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const ocrStrategyName = "ocr"

// ocrStrategy handles scanned PDFs: it pulls the page images out with
// pdfcpu and runs tesseract over each. This is the slow path; the cascade
// only reaches it when both text-layer readers came up empty.
type ocrStrategy struct{}

func (ocrStrategy) Name() string { return ocrStrategyName }

func (ocrStrategy) Extract(data []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "pubsummarizer-ocr-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return "", fmt.Errorf("writing temp pdf: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageCount, err := api.PageCountFile(pdfPath)
	if err != nil {
		return "", fmt.Errorf("counting pages: %w", err)
	}
	if pageCount == 0 {
		return "", nil
	}

	imgDir := filepath.Join(tmpDir, "images")
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		return "", fmt.Errorf("creating image dir: %w", err)
	}
	if err := api.ExtractImagesFile(pdfPath, imgDir, nil, conf); err != nil {
		return "", fmt.Errorf("extracting page images: %w", err)
	}

	images, err := listImages(imgDir)
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", fmt.Errorf("no page images found")
	}

	client := gosseract.NewClient()
	defer client.Close()

	var parts []string
	for _, img := range images {
		if err := client.SetImage(img); err != nil {
			return "", fmt.Errorf("loading image %s: %w", filepath.Base(img), err)
		}
		text, err := client.Text()
		if err != nil {
			return "", fmt.Errorf("ocr on %s: %w", filepath.Base(img), err)
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	return strings.Join(parts, "\n\n"), nil
}

// listImages returns the extracted image paths in page order. pdfcpu names
// them <base>_<page>_<obj>.<ext>, so a lexical sort keeps pages in sequence.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading image dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
