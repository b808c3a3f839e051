// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/logan-lin/pubsummarizer/pkg/types"
)

// now is overridable in tests for stable generated-on lines.
var now = time.Now

// RenderMarkdown renders papers as one markdown document, one section per
// paper. Papers arrive already title-sorted from the store.
func RenderMarkdown(papers []*types.Paper, title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "*Generated on %s by [pubsummarizer](https://github.com/logan-lin/pubsummarizer)*\n\n",
		now().Format("2006-01-02 15:04:05"))

	for _, p := range papers {
		writePaperMarkdown(&b, p)
	}
	return b.String()
}

func writePaperMarkdown(b *strings.Builder, p *types.Paper) {
	fmt.Fprintf(b, "## %s\n\n", p.Title)

	if p.Summary != nil {
		s := ParseSummary(*p.Summary)
		if s.Topics != "" {
			fmt.Fprintf(b, "### Topics\n\n%s\n\n", s.Topics)
		}
		if s.TLDR != "" {
			fmt.Fprintf(b, "### TL;DR\n\n%s\n\n", s.TLDR)
		}
		if s.Summary != "" {
			fmt.Fprintf(b, "### Summary\n\n%s\n\n", s.Summary)
		}
	}

	if p.SourceURL != "" {
		fmt.Fprintf(b, "**Paper URL**: [%s](%s)\n\n", p.SourceURL, p.SourceURL)
	}
	b.WriteString("---\n\n")
}
