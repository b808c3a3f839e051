// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/logan-lin/pubsummarizer/pkg/types"
)

// fakeGetter serves canned JSON keyed by a substring of the request URL.
type fakeGetter struct {
	pages map[string]string
	calls []string
}

func (f *fakeGetter) GetJSON(_ context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	for marker, body := range f.pages {
		if strings.Contains(url, marker) {
			return []byte(body), nil
		}
	}
	return []byte(`{"notes":[],"count":0}`), nil
}

func orCfg() types.ScrapeConfig {
	return types.ScrapeConfig{
		Platform:   types.PlatformOpenReview,
		Conference: "ICLR",
		Year:       2025,
		Track:      "Conference",
	}
}

func TestOpenReview_Discover(t *testing.T) {
	getter := &fakeGetter{pages: map[string]string{
		"offset=0": `{"notes":[
			{"id":"n1","content":{"title":{"value":"Paper One"},"venue":{"value":"ICLR 2025 Oral"},"pdf":{"value":"/pdf/n1.pdf"}}},
			{"id":"n2","content":{"title":{"value":"Paper Two"},"venue":{"value":"ICLR 2025 Poster"},"pdf":{"value":"https://host/n2.pdf"}}},
			{"id":"n3","content":{"title":{"value":""},"venue":{"value":"ICLR 2025 Oral"},"pdf":{"value":"/pdf/n3.pdf"}}}
		],"count":3}`,
	}}

	src := &openReviewSource{cfg: orCfg(), client: getter}
	items, err := src.Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (untitled note skipped)", len(items))
	}
	if items[0].PDFURL != "https://openreview.net/pdf/n1.pdf" {
		t.Errorf("relative pdf not resolved: %q", items[0].PDFURL)
	}
	if items[1].PDFURL != "https://host/n2.pdf" {
		t.Errorf("absolute pdf mangled: %q", items[1].PDFURL)
	}
	if items[0].Key.Conference != "ICLR" || items[0].Key.Year != 2025 {
		t.Errorf("source key not populated: %+v", items[0].Key)
	}

	if !strings.Contains(getter.calls[0], "content.venueid=ICLR.cc%2F2025%2FConference") {
		t.Errorf("venue id missing from query: %s", getter.calls[0])
	}
}

func TestOpenReview_SubmissionTypeFilter(t *testing.T) {
	getter := &fakeGetter{pages: map[string]string{
		"offset=0": `{"notes":[
			{"id":"n1","content":{"title":{"value":"Oral Paper"},"venue":{"value":"ICLR 2025 Oral"},"pdf":{"value":"/pdf/n1.pdf"}}},
			{"id":"n2","content":{"title":{"value":"Poster Paper"},"venue":{"value":"ICLR 2025 Poster"},"pdf":{"value":"/pdf/n2.pdf"}}}
		],"count":2}`,
	}}

	cfg := orCfg()
	cfg.SubmissionType = "Oral"
	src := &openReviewSource{cfg: cfg, client: getter}

	items, err := src.Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Title != "Oral Paper" {
		t.Fatalf("filter failed: %+v", items)
	}
}

func TestOpenReview_MaxPapersCap(t *testing.T) {
	var notes string
	for i := 0; i < 5; i++ {
		if i > 0 {
			notes += ","
		}
		notes += fmt.Sprintf(`{"id":"n%d","content":{"title":{"value":"Paper %d"},"venue":{"value":"ICLR 2025"},"pdf":{"value":"/pdf/n%d.pdf"}}}`, i, i, i)
	}
	getter := &fakeGetter{pages: map[string]string{"offset=0": `{"notes":[` + notes + `],"count":5}`}}

	cfg := orCfg()
	cfg.MaxPapers = 3
	src := &openReviewSource{cfg: cfg, client: getter}

	items, err := src.Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want cap of 3", len(items))
	}
}

func TestFileList_Discover(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.txt")
	content := "# comment line\n" +
		"A Great Paper\thttps://host/a.pdf\n" +
		"\n" +
		"https://host/bare.pdf\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	src := &fileListSource{cfg: types.ScrapeConfig{Platform: types.PlatformFileList, ListFile: path}}
	items, err := src.Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Title != "A Great Paper" || items[0].PDFURL != "https://host/a.pdf" {
		t.Errorf("tab line parsed wrong: %+v", items[0])
	}
	if items[1].Title != "" || items[1].PDFURL != "https://host/bare.pdf" {
		t.Errorf("bare url parsed wrong: %+v", items[1])
	}
}

func TestForPlatform_Unknown(t *testing.T) {
	_, err := ForPlatform(types.ScrapeConfig{Platform: "selenium"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown platform")
	}
}
