package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/logan-lin/pubsummarizer/internal/ingest"
	"github.com/logan-lin/pubsummarizer/internal/retry"
	"github.com/logan-lin/pubsummarizer/internal/secrets"
	"github.com/logan-lin/pubsummarizer/internal/store"
	"github.com/logan-lin/pubsummarizer/internal/summarize"
	"github.com/logan-lin/pubsummarizer/pkg/types"
)

const (
	defaultPrefix = "Summarize the following research paper."
	defaultSuffix = "Answer with exactly three tagged sections: [Topics:] a short " +
		"comma-separated topic list, [TL;DR:] one sentence, and [Summary:] one paragraph."
	defaultCapMarker = "References"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize stored papers that have no summary yet",
	Long: `Summarize walks the database for papers whose text has been extracted but
not yet summarized, prompts the configured model for each, and stores the
results. Failed papers keep their extracted text and are retried on the
next run.`,
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().String("provider", "", "summarization backend: openai or gemini (default openai)")
	summarizeCmd.Flags().String("model", "", "model identifier (default gpt-4o-mini)")
	summarizeCmd.Flags().String("base-url", "", "OpenAI-compatible endpoint override")
	summarizeCmd.Flags().String("api-key", "", "provider API key (default: .secrets/ or config file)")
	summarizeCmd.Flags().String("prefix", "", "prompt text placed before the paper")
	summarizeCmd.Flags().String("suffix", "", "prompt text placed after the paper")
	summarizeCmd.Flags().String("cap-marker", "", `truncate paper text at this marker (default "References")`)
	summarizeCmd.Flags().String("collection", "", "restrict to one collection")
	summarizeCmd.Flags().Duration("delay", 0, "delay between consecutive API calls (default 1s)")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	st, err := store.Open(dbPath(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	cfg, summarizer, err := buildSummarizer(cmd)
	if err != nil {
		return err
	}
	collection := stringSetting(cmd, "collection", "summarize.collection", "")

	result, err := ingest.SummarizeBatch(cmd.Context(), st, summarizer, cfg, collection, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed summarization", result.Failed)
	}
	return nil
}

// stringSetting resolves a setting as flag > config file > default. The
// flag may not exist on every command; scrape reuses the summarize
// settings through the config file alone.
func stringSetting(cmd *cobra.Command, flag, key, def string) string {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		return f.Value.String()
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return def
}

// buildSummarizer assembles the configured provider with retries. The API
// key falls back from flag to config file to .secrets/.
func buildSummarizer(cmd *cobra.Command) (types.SummarizeConfig, summarize.Summarizer, error) {
	cfg := types.SummarizeConfig{
		Provider:  types.Provider(stringSetting(cmd, "provider", "summarize.provider", string(types.ProviderOpenAI))),
		Model:     stringSetting(cmd, "model", "summarize.model", "gpt-4o-mini"),
		BaseURL:   stringSetting(cmd, "base-url", "summarize.base_url", ""),
		APIKey:    stringSetting(cmd, "api-key", "summarize.api_key", ""),
		Prefix:    stringSetting(cmd, "prefix", "summarize.prefix", defaultPrefix),
		Suffix:    stringSetting(cmd, "suffix", "summarize.suffix", defaultSuffix),
		CapMarker: stringSetting(cmd, "cap-marker", "summarize.cap_marker", defaultCapMarker),
		Delay:     viper.GetDuration("summarize.delay"),
	}
	if cfg.APIKey == "" {
		cfg.APIKey = secrets.APIKey(loadedSecrets, cfg.Provider)
	}
	if f := cmd.Flags().Lookup("delay"); f != nil && f.Changed {
		if d, err := time.ParseDuration(f.Value.String()); err == nil {
			cfg.Delay = d
		}
	}
	if cfg.Delay == 0 {
		cfg.Delay = defaultDelay
	}

	if cfg.APIKey == "" {
		return cfg, nil, fmt.Errorf("no API key for provider %q: set --api-key, summarize.api_key, or .secrets/", cfg.Provider)
	}

	summarizer, err := summarize.New(cmd.Context(), cfg)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, summarize.WithRetry(summarizer, retry.FromConfig(cfg.Retry)), nil
}
