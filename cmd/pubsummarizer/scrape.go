package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/logan-lin/pubsummarizer/internal/discover"
	"github.com/logan-lin/pubsummarizer/internal/fetch"
	"github.com/logan-lin/pubsummarizer/internal/ingest"
	"github.com/logan-lin/pubsummarizer/internal/pdftext"
	"github.com/logan-lin/pubsummarizer/internal/retry"
	"github.com/logan-lin/pubsummarizer/internal/store"
	"github.com/logan-lin/pubsummarizer/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "pubsummarizer/0.1"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Discover papers from a listing site and ingest them",
	Long: `Scrape discovers papers on the configured platform, downloads each PDF,
extracts and cleans its text, and records the result in the database.
Papers that already have extracted content are skipped, so re-running a
scrape only does the remaining work.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().String("platform", "openreview", "listing platform: openreview or filelist")
	scrapeCmd.Flags().String("conference", "", "conference name (e.g. ICLR)")
	scrapeCmd.Flags().Int("year", 0, "conference year")
	scrapeCmd.Flags().String("track", "Conference", "conference track")
	scrapeCmd.Flags().String("submission-type", "", "filter by submission type (e.g. Oral)")
	scrapeCmd.Flags().String("list-file", "", "input file for the filelist platform")
	scrapeCmd.Flags().String("collection", "", "collection label (default: <conference><year>-<track>)")
	scrapeCmd.Flags().String("output-dir", "papers", "base directory for PDFs and metadata")
	scrapeCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	scrapeCmd.Flags().Duration("delay", 0, "delay between consecutive papers (default 1s)")
	scrapeCmd.Flags().Int("max-papers", 0, "maximum number of papers to process (0 = no cap)")
	scrapeCmd.Flags().Bool("force-rescrape", false, "reprocess papers that are already in the database")
	scrapeCmd.Flags().Bool("summarize", false, "summarize each paper inline after extraction")
	scrapeCmd.Flags().Bool("disable-ocr", false, "skip the OCR fallback for scanned PDFs")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	platform, _ := cmd.Flags().GetString("platform")
	conference, _ := cmd.Flags().GetString("conference")
	year, _ := cmd.Flags().GetInt("year")
	track, _ := cmd.Flags().GetString("track")
	submissionType, _ := cmd.Flags().GetString("submission-type")
	listFile, _ := cmd.Flags().GetString("list-file")
	collection, _ := cmd.Flags().GetString("collection")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	maxPapers, _ := cmd.Flags().GetInt("max-papers")
	forceRescrape, _ := cmd.Flags().GetBool("force-rescrape")
	inline, _ := cmd.Flags().GetBool("summarize")
	disableOCR, _ := cmd.Flags().GetBool("disable-ocr")

	cfg := types.ScrapeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Platform:        types.Platform(platform),
		Conference:      conference,
		Year:            year,
		Track:           track,
		SubmissionType:  submissionType,
		ListFile:        listFile,
		Collection:      collection,
		OutputDir:       outputDir,
		Delay:           delay,
		MaxPapers:       maxPapers,
		ForceRescrape:   forceRescrape,
		SummarizeInline: inline,
		DisableOCR:      disableOCR,
	}

	if cfg.Platform == types.PlatformOpenReview && (cfg.Conference == "" || cfg.Year == 0) {
		return fmt.Errorf("openreview scraping needs --conference and --year")
	}
	if cfg.Platform == types.PlatformFileList && cfg.ListFile == "" {
		return fmt.Errorf("filelist scraping needs --list-file")
	}

	st, err := store.Open(dbPath(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	client := &fetch.Client{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		UserAgent:  cfg.UserAgent,
		Policy:     retry.Default,
	}

	source, err := discover.ForPlatform(cfg, client)
	if err != nil {
		return err
	}
	items, err := source.Discover(cmd.Context())
	if err != nil {
		return fmt.Errorf("discovering papers: %w", err)
	}
	if len(items) == 0 {
		fmt.Fprintln(os.Stdout, "no papers discovered")
		return nil
	}

	runner := &ingest.Runner{
		Cfg:       cfg,
		Store:     st,
		Fetcher:   client,
		Extractor: pdftext.NewCascade(cfg.DisableOCR),
		Normalizer: pdftext.Normalizer{
			StripMarkup: true,
			Dehyphenate: true,
		},
	}
	if inline {
		sumCfg, summarizer, err := buildSummarizer(cmd)
		if err != nil {
			return err
		}
		runner.SumCfg = sumCfg
		runner.Summarizer = summarizer
	}

	result, err := runner.Run(cmd.Context(), items, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed ingestion", result.Failed)
	}
	return nil
}
