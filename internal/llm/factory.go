package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/relcorpus/internal/model"
)

// Engines lists the accepted provider names
var Engines = []string{"openai", "google", "anthropic", "ollama"}

// NewProvider creates a new generation provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "google", "gemini":
		return NewGeminiProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", model.ErrUnknownEngine, config.Provider, strings.Join(Engines, ", "))
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig, gen model.GenerationConfig) Config {
	return Config{
		Provider:    modelConfig.Provider,
		Model:       modelConfig.Model,
		APIKey:      modelConfig.APIKey,
		BaseURL:     modelConfig.BaseURL,
		Timeout:     modelConfig.Timeout,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
		HTTPProxy:   gen.HTTPProxy,
		HTTPSProxy:  gen.HTTPSProxy,
	}
}

// APIKeyEnv returns the environment variable holding the API key for a
// provider, or "" when the provider needs none
func APIKeyEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return "OPENAI_API_KEY"
	case "google", "gemini":
		return "GOOGLE_API_KEY"
	case "anthropic", "claude":
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return "gpt-4-turbo-preview"
	case "google", "gemini":
		return "gemini-pro"
	case "anthropic", "claude":
		return "claude-3-5-sonnet-20241022"
	case "ollama":
		return "llama3.1:8b"
	default:
		return ""
	}
}
