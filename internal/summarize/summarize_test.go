package summarize

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logan-lin/pubsummarizer/internal/retry"
	"github.com/logan-lin/pubsummarizer/pkg/types"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name                 string
		prefix, text, suffix string
		want                 string
	}{
		{"all parts", "Summarize:", "paper text", "Be brief.", "Summarize:\n\npaper text\n\nBe brief."},
		{"no suffix", "Summarize:", "paper text", "", "Summarize:\n\npaper text"},
		{"no prefix", "", "paper text", "Be brief.", "paper text\n\nBe brief."},
		{"text only", "", "paper text", "", "paper text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildPrompt(tt.prefix, tt.text, tt.suffix))
		})
	}
}

func TestPreparePrompt_CapsInput(t *testing.T) {
	cfg := types.SummarizeConfig{
		Prefix:    "Summarize:",
		CapMarker: "References",
	}
	got := PreparePrompt(cfg, "Introduction and findings. References [1] Smith 2020.")
	assert.Equal(t, "Summarize:\n\nIntroduction and findings. ", got)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), types.SummarizeConfig{Provider: "bedrock"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}

func TestNew_OpenAI(t *testing.T) {
	s, err := New(context.Background(), types.SummarizeConfig{
		Provider: types.ProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
	})
	require.NoError(t, err)
	require.NotNil(t, s)
}

type fakeChat struct {
	failures int
	calls    int
	content  string
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	if f.calls <= f.failures {
		return openai.ChatCompletionResponse{}, errors.New("rate limited")
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func TestOpenAISummarizer(t *testing.T) {
	s := &openAISummarizer{client: &fakeChat{content: "  [Topics: ml] summary  "}, model: "gpt-4o-mini"}
	got, err := s.Summarize(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "[Topics: ml] summary", got)
}

func TestOpenAISummarizer_EmptyResponse(t *testing.T) {
	s := &openAISummarizer{client: &fakeChat{content: ""}, model: "gpt-4o-mini"}
	// A choice with empty content is still a response; only a choiceless
	// payload is an error.
	got, err := s.Summarize(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestWithRetry_RecoversTransientFailures(t *testing.T) {
	fake := &fakeChat{failures: 2, content: "done"}
	inner := &openAISummarizer{client: fake, model: "m"}
	s := WithRetry(inner, retry.Policy{MaxAttempts: 5, BaseDelay: time.Microsecond, MaxDelay: time.Microsecond})

	got, err := s.Summarize(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "done", got)
	assert.Equal(t, 3, fake.calls)
}

func TestWithRetry_Exhausts(t *testing.T) {
	fake := &fakeChat{failures: 100}
	inner := &openAISummarizer{client: fake, model: "m"}
	s := WithRetry(inner, retry.Policy{MaxAttempts: 3, BaseDelay: time.Microsecond, MaxDelay: time.Microsecond})

	_, err := s.Summarize(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, 3, fake.calls)
}
