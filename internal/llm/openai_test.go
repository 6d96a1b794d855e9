package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
)

func TestOpenAIProvider_Complete_Success(t *testing.T) {
	var got openai.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}

		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-123",
			Object: "chat.completion",
			Model:  "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: "  {\"sentence\": \"a\", \"head\": \"a\", \"tail\": \"b\", \"relation\": \"r\"}\n",
					},
					FinishReason: "stop",
				},
			},
			Usage: openai.Usage{TotalTokens: 100},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "instructions"},
			{Role: RoleUser, Content: "text"},
		},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if !strings.HasPrefix(resp.Content, "{") || strings.HasSuffix(resp.Content, "\n") {
		t.Errorf("Expected trimmed content, got %q", resp.Content)
	}
	if resp.TokensUsed != 100 {
		t.Errorf("Expected 100 tokens, got %d", resp.TokensUsed)
	}
	if got.Model != "gpt-4o-mini" {
		t.Errorf("Expected model gpt-4o-mini, got %s", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != RoleSystem || got.Messages[1].Content != "text" {
		t.Errorf("Unexpected messages sent: %+v", got.Messages)
	}
}

func TestOpenAIProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid API key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "bad-key", BaseURL: server.URL, Timeout: 5})

	_, err := provider.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "openai API error") {
		t.Errorf("Expected provider-prefixed error, got %v", err)
	}
}

func TestOpenAIProvider_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{Model: "gpt-4o-mini"})
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "k", BaseURL: server.URL, Timeout: 5})

	_, err := provider.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	if err == nil || !strings.Contains(err.Error(), "no response") {
		t.Errorf("Expected no response error, got %v", err)
	}
}

func TestOpenAIProvider_Complete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "k", BaseURL: server.URL, Timeout: 5})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := provider.Complete(ctx, CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	if err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
}

func TestOpenAIProvider_MissingKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("Expected error for missing API key")
	}
	if _, err := NewGeminiProvider(Config{}); err == nil {
		t.Error("Expected error for missing Google API key")
	}
}

func TestGeminiProvider_Defaults(t *testing.T) {
	p, err := NewGeminiProvider(Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}
	if p.Name() != "google" {
		t.Errorf("Expected name google, got %s", p.Name())
	}
	if p.config.BaseURL != geminiBaseURL {
		t.Errorf("Expected Gemini base URL, got %s", p.config.BaseURL)
	}
	if p.config.Model != "gemini-pro" {
		t.Errorf("Expected default model gemini-pro, got %s", p.config.Model)
	}
}

func TestOpenAIProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" {
			_ = json.NewEncoder(w).Encode(openai.ModelsList{Models: []openai.Model{{ID: "gpt-4o-mini"}}})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "k", BaseURL: server.URL})
	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be available")
	}
}
