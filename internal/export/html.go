// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/logan-lin/pubsummarizer/pkg/types"
)

// htmlPage is a self-contained Bootstrap page with one card per paper,
// laid out with masonry so cards of uneven height pack together.
const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>pubsummarizer - {{.Title}}</title>
    <link href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist/css/bootstrap.min.css" rel="stylesheet">
    <script src="https://unpkg.com/masonry-layout@4/dist/masonry.pkgd.min.js"></script>
</head>
<body>
    <div class="container py-4">
        <h1 class="mb-4">{{.Title}}</h1>
        <p class="text-muted"><em>Generated on {{.Date}} by <a href="https://github.com/logan-lin/pubsummarizer">pubsummarizer</a></em></p>
        <div class="row" data-masonry='{"percentPosition": true }'>
{{range .Papers}}            <div class="col-sm-12 col-lg-6 col-xl-4 mb-4">
                <div class="card shadow-sm">
                    <div class="card-body">
                        <h3 class="card-title h4">{{.Title}}</h3>
{{if .Topics}}                        <div class="mb-3">
                            <div class="d-flex gap-2 flex-wrap">
{{range .Topics}}                                <span class="badge bg-primary">{{.}}</span>
{{end}}                            </div>
                        </div>
{{end}}{{if .TLDR}}                        <div class="mb-3">
                            <h3 class="h5">TL;DR</h3>
                            <p class="card-text">{{.TLDR}}</p>
                        </div>
{{end}}{{if .Summary}}                        <div class="mb-3">
                            <h3 class="h5">Summary</h3>
                            <p class="card-text">{{.Summary}}</p>
                        </div>
{{end}}{{if .SourceURL}}                        <p class="card-text"><strong>Paper URL:</strong> <a href="{{.SourceURL}}" class="link-primary">{{.SourceURL}}</a></p>
{{end}}                    </div>
                </div>
            </div>
{{end}}        </div>
    </div>
    <script src="https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist/js/bootstrap.bundle.min.js"></script>
</body>
</html>
`

var htmlTmpl = template.Must(template.New("page").Parse(htmlPage))

type htmlCard struct {
	Title     string
	Topics    []string
	TLDR      string
	Summary   string
	SourceURL string
}

type htmlPageData struct {
	Title  string
	Date   string
	Papers []htmlCard
}

// RenderHTML renders papers as a standalone Bootstrap card page. Template
// escaping covers titles and summaries that contain markup.
func RenderHTML(papers []*types.Paper, title string) (string, error) {
	data := htmlPageData{
		Title: title,
		Date:  now().Format("2006-01-02 15:04:05"),
	}
	for _, p := range papers {
		card := htmlCard{Title: p.Title, SourceURL: p.SourceURL}
		if p.Summary != nil {
			s := ParseSummary(*p.Summary)
			card.Topics = s.TopicList()
			card.TLDR = s.TLDR
			card.Summary = s.Summary
		}
		data.Papers = append(data.Papers, card)
	}

	var b strings.Builder
	if err := htmlTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering html export: %w", err)
	}
	return b.String(), nil
}
