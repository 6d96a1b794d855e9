package llm

import (
	"context"
	"strings"
)

// Chat roles understood by every provider
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider defines the interface for generation services
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a chat conversation and returns the reply text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Message is one chat turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest contains the input for a chat completion
type CompletionRequest struct {
	// Messages in conversation order; system messages may appear anywhere
	Messages []Message

	// Model overrides the configured model when set
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature overrides the configured temperature when non-zero
	Temperature float32
}

// CompletionResponse contains the generated reply
type CompletionResponse struct {
	// Content is the reply text, surrounding whitespace trimmed
	Content string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int

	// Cached is set when the reply came from the response cache
	Cached bool `json:"-"`
}

// Config holds generation service configuration
type Config struct {
	// Provider name: "openai", "google", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, proxies)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for sampling; zero leaves the provider default
	Temperature float32

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Model:     "gpt-4-turbo-preview",
		Timeout:   120,
		MaxTokens: 4096,
	}
}

// splitSystem separates system turns from the conversation, for APIs that
// take the system prompt as a separate field
func splitSystem(messages []Message) (string, []Message) {
	var system []string
	var rest []Message
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}

func (c Config) maxTokens(req CompletionRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 4096
}

func (c Config) temperature(req CompletionRequest) float32 {
	if req.Temperature != 0 {
		return req.Temperature
	}
	return c.Temperature
}
