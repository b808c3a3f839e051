// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/logan-lin/pubsummarizer/internal/identity"
	"github.com/logan-lin/pubsummarizer/pkg/types"
)

// fileListSource reads papers from a local text file, one per line, as
// either "title<TAB>url" or a bare PDF URL. Lines starting with # are
// comments. Useful for one-off lists and for venues without an API.
type fileListSource struct {
	cfg types.ScrapeConfig
}

func (s *fileListSource) Name() string { return "filelist" }

func (s *fileListSource) Discover(ctx context.Context) ([]Item, error) {
	f, err := os.Open(s.cfg.ListFile)
	if err != nil {
		return nil, fmt.Errorf("opening list file: %w", err)
	}
	defer f.Close()

	var items []Item
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var title, pdfURL string
		if tab := strings.IndexByte(line, '\t'); tab >= 0 {
			title = strings.TrimSpace(line[:tab])
			pdfURL = strings.TrimSpace(line[tab+1:])
		} else {
			pdfURL = line
		}
		if pdfURL == "" {
			return nil, fmt.Errorf("line %d: missing URL", lineNo)
		}

		items = append(items, Item{
			Key: identity.SourceKey{
				Platform: types.PlatformFileList,
				Title:    title,
				URL:      pdfURL,
			},
			Title:  title,
			PDFURL: pdfURL,
		})
		if s.cfg.MaxPapers > 0 && len(items) >= s.cfg.MaxPapers {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading list file: %w", err)
	}
	return items, nil
}
