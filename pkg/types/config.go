package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubsummarizer/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RetryConfig parameterizes bounded exponential backoff for external calls.
// The same policy shape is shared by downloads and summarization requests.
type RetryConfig struct {
	// MaxAttempts is the total attempt ceiling, including the first try (default 5).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// BaseDelay is the wait before the second attempt; it doubles per attempt (default 4s).
	BaseDelay time.Duration `json:"base_delay" yaml:"base_delay"`

	// MaxDelay caps the per-attempt wait (default 60s).
	MaxDelay time.Duration `json:"max_delay" yaml:"max_delay"`
}

// Platform identifies a paper listing site the scraper knows how to discover from.
type Platform string

const (
	// PlatformOpenReview discovers papers through the OpenReview REST API.
	PlatformOpenReview Platform = "openreview"
	// PlatformFileList reads title/URL pairs from a local file.
	PlatformFileList Platform = "filelist"
)

// ScrapeConfig holds settings for the scrape stage: discovery, download,
// text extraction, and ingestion bookkeeping.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// Platform selects the discovery source.
	Platform Platform `json:"platform" yaml:"platform"`

	// Conference, Year, Track, and SubmissionType scope the discovery query
	// (e.g. "ICLR", 2025, "Conference", "Oral").
	Conference     string `json:"conference" yaml:"conference"`
	Year           int    `json:"year" yaml:"year"`
	Track          string `json:"track" yaml:"track"`
	SubmissionType string `json:"submission_type,omitempty" yaml:"submission_type,omitempty"`

	// ListFile is the input path for the filelist platform.
	ListFile string `json:"list_file,omitempty" yaml:"list_file,omitempty"`

	// Collection labels every row written during this run. Empty means
	// "<conference><year>-<track>".
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`

	// OutputDir is the directory for downloaded PDFs and metadata sidecars.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Delay is the fixed pause between consecutive items; it is the only
	// rate limiting applied (default 1s).
	Delay time.Duration `json:"delay" yaml:"delay"`

	// MaxPapers caps the number of discovered items processed (0 = no cap).
	MaxPapers int `json:"max_papers,omitempty" yaml:"max_papers,omitempty"`

	// ForceRescrape deletes any existing row for an item and reprocesses it
	// from scratch.
	ForceRescrape bool `json:"force_rescrape,omitempty" yaml:"force_rescrape,omitempty"`

	// SummarizeInline runs summarization immediately after extraction for
	// each item, instead of leaving it to a later summarize pass.
	SummarizeInline bool `json:"summarize_inline,omitempty" yaml:"summarize_inline,omitempty"`

	// Retry is the download backoff policy.
	Retry RetryConfig `json:"retry" yaml:"retry"`

	// DisableOCR skips the OCR fallback strategy. Useful on hosts without
	// a tesseract installation.
	DisableOCR bool `json:"disable_ocr,omitempty" yaml:"disable_ocr,omitempty"`
}

// Provider identifies the summarization backend.
type Provider string

const (
	// ProviderOpenAI uses the OpenAI chat completions API, or any
	// API-compatible server when BaseURL is set.
	ProviderOpenAI Provider = "openai"
	// ProviderGemini uses the Google Gemini API.
	ProviderGemini Provider = "gemini"
)

// SummarizeConfig holds settings for the summarization stage.
type SummarizeConfig struct {
	// Provider selects the backend; unknown values abort the run.
	Provider Provider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "gpt-4o-mini", "gemini-1.5-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates with the provider. Usually loaded from .secrets/.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the OpenAI endpoint for API-compatible local servers.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Prefix and Suffix frame the paper text in the prompt. The prompt is
	// prefix + text + suffix with blank lines between.
	Prefix string `json:"prefix" yaml:"prefix"`
	Suffix string `json:"suffix" yaml:"suffix"`

	// CapMarker truncates paper text at its first occurrence before
	// prompting (e.g. "References"), keeping bibliography noise out of the
	// summarization input. Empty disables truncation.
	CapMarker string `json:"cap_marker,omitempty" yaml:"cap_marker,omitempty"`

	// Delay is the fixed pause between consecutive API calls (default 1s).
	Delay time.Duration `json:"delay" yaml:"delay"`

	// Retry is the API call backoff policy.
	Retry RetryConfig `json:"retry" yaml:"retry"`
}

// ExportFormat selects the export output format.
type ExportFormat string

const (
	ExportMarkdown ExportFormat = "markdown"
	ExportHTML     ExportFormat = "html"
)

// ExportConfig holds settings for the export stage.
type ExportConfig struct {
	// Format selects markdown or html output.
	Format ExportFormat `json:"format" yaml:"format"`

	// OutputPath is where the rendered document is written.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Title is the document heading.
	Title string `json:"title" yaml:"title"`

	// Collection restricts the export to one collection. Empty exports everything.
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	// DBPath is the SQLite file path (default "papers.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}

// PipelineConfig groups all stage configurations. It is built once per run
// from flags, config file, and secrets, and passed by value into the stages.
type PipelineConfig struct {
	Scrape    ScrapeConfig    `json:"scrape" yaml:"scrape"`
	Summarize SummarizeConfig `json:"summarize" yaml:"summarize"`
	Export    ExportConfig    `json:"export" yaml:"export"`
	Store     StoreConfig     `json:"store" yaml:"store"`
}
