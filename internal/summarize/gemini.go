// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/logan-lin/pubsummarizer/pkg/types"
)

type geminiSummarizer struct {
	client *genai.Client
	model  string
}

func newGemini(ctx context.Context, cfg types.SummarizeConfig) (*geminiSummarizer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiSummarizer{client: client, model: cfg.Model}, nil
}

func (s *geminiSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	m := s.client.GenerativeModel(s.model)
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini generate: empty response")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// Close releases the underlying gRPC connection.
func (s *geminiSummarizer) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
