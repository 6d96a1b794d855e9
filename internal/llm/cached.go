package llm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ppiankov/relcorpus/internal/cache"
)

// CachedProvider serves repeated requests from a cache. Identical source
// text, vocabulary and model yield the stored reply instead of a new call.
type CachedProvider struct {
	inner Provider
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedProvider wraps p; a nil cache returns p unchanged
func NewCachedProvider(p Provider, c cache.Cache, ttl time.Duration) Provider {
	if c == nil {
		return p
	}
	return &CachedProvider{inner: p, cache: c, ttl: ttl}
}

// Name returns the wrapped provider name
func (c *CachedProvider) Name() string {
	return c.inner.Name()
}

// IsAvailable delegates to the wrapped provider
func (c *CachedProvider) IsAvailable(ctx context.Context) bool {
	return c.inner.IsAvailable(ctx)
}

// Complete returns a cached reply when one exists, otherwise calls through
// and stores the result
func (c *CachedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	key := c.key(req)

	if data, ok := c.cache.Get(key); ok {
		var resp CompletionResponse
		if err := json.Unmarshal(data, &resp); err == nil {
			resp.Cached = true
			resp.TokensUsed = 0
			return &resp, nil
		}
	}

	resp, err := c.inner.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err == nil {
		_ = c.cache.Set(key, data, c.ttl)
	}
	return resp, nil
}

func (c *CachedProvider) key(req CompletionRequest) string {
	parts := []string{c.inner.Name(), req.Model}
	for _, m := range req.Messages {
		parts = append(parts, m.Role, m.Content)
	}
	return cache.Key(parts...)
}
