// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/logan-lin/pubsummarizer/pkg/types"
)

// chatClient is the slice of the OpenAI SDK we call. Tests supply fakes;
// production wraps *openai.Client, which also covers any API-compatible
// local server via the BaseURL override.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type openAISummarizer struct {
	client chatClient
	model  string
}

func newOpenAI(cfg types.SummarizeConfig) *openAISummarizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &openAISummarizer{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

func (s *openAISummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
