package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/relcorpus/internal/cache"
	"github.com/ppiankov/relcorpus/internal/model"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
	}{
		{"openai", "openai"},
		{"OpenAI", "openai"},
		{"google", "google"},
		{"gemini", "google"},
		{"anthropic", "anthropic"},
		{"claude", "anthropic"},
		{"ollama", "ollama"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			p, err := NewProvider(Config{Provider: tt.provider, APIKey: "k", Model: "m"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(Config{Provider: "bard"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnknownEngine))
}

func TestAPIKeyEnv(t *testing.T) {
	assert.Equal(t, "OPENAI_API_KEY", APIKeyEnv("openai"))
	assert.Equal(t, "GOOGLE_API_KEY", APIKeyEnv("gemini"))
	assert.Equal(t, "ANTHROPIC_API_KEY", APIKeyEnv("claude"))
	assert.Empty(t, APIKeyEnv("ollama"))
}

type countingProvider struct {
	calls int
	reply string
}

func (c *countingProvider) Name() string                       { return "counting" }
func (c *countingProvider) IsAvailable(ctx context.Context) bool { return true }
func (c *countingProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	c.calls++
	return &CompletionResponse{Content: c.reply, Model: "m"}, nil
}

func TestCachedProvider(t *testing.T) {
	inner := &countingProvider{reply: "cached reply"}
	p := NewCachedProvider(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Hour)

	req := CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "same text"}}}
	for i := 0; i < 3; i++ {
		resp, err := p.Complete(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "cached reply", resp.Content)
		assert.Equal(t, i > 0, resp.Cached)
	}
	assert.Equal(t, 1, inner.calls)

	_, err := p.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "other"}}})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedProviderNilCache(t *testing.T) {
	inner := &countingProvider{}
	assert.Same(t, Provider(inner), NewCachedProvider(inner, nil, time.Hour))
}
