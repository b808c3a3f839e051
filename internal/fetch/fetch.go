// Package fetch downloads PDFs and queries listing APIs with bounded retry.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/logan-lin/pubsummarizer/internal/retry"
)

// Client performs HTTP fetches on behalf of the pipeline. All requests
// carry the configured User-Agent and retry per the policy; retriable
// failures include transport errors, HTTP 429, and 5xx responses.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	Policy     retry.Policy
}

// Download fetches url into destPath. The body is written to a temp file
// in the destination directory and renamed on success, so an interrupted
// download never leaves a partial PDF behind. If destPath already exists
// the download is skipped.
func (c *Client) Download(ctx context.Context, url, destPath string) (skipped bool, err error) {
	if _, statErr := os.Stat(destPath); statErr == nil {
		return true, nil
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return false, fmt.Errorf("creating directory %s: %w", filepath.Dir(destPath), err)
	}

	err = retry.Do(ctx, c.Policy, func(ctx context.Context) error {
		return c.downloadOnce(ctx, url, destPath)
	})
	if err != nil {
		return false, fmt.Errorf("downloading %s: %w", url, err)
	}
	return false, nil
}

func (c *Client) downloadOnce(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		if resp.StatusCode == http.StatusTooManyRequests {
			log.Warn().Str("url", url).Msg("rate limited by source")
		}
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// GetJSON fetches url and returns the response body, retrying per the
// policy. Used by discovery sources that page through listing APIs.
func (c *Client) GetJSON(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := retry.Do(ctx, c.Policy, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", c.UserAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return fmt.Errorf("HTTP request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		return nil
	})
	return body, err
}
