package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:3128", "", "internal.example")

	req, _ := http.NewRequest(http.MethodGet, "https://example.com/page", nil)
	u, err := proxy(req)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "proxy.local:3128", u.Host, "http proxy also serves https when no https proxy is set")

	req, _ = http.NewRequest(http.MethodGet, "http://internal.example/x", nil)
	u, err = proxy(req)
	require.NoError(t, err)
	assert.Nil(t, u, "NO_PROXY hosts bypass the proxy")
}

func TestNewProxyFuncSeparateSchemes(t *testing.T) {
	proxy := NewProxyFunc("http://plain:80", "http://secure:443", "")

	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	u, err := proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "secure:443", u.Host)
}

func TestRobotsChecker(t *testing.T) {
	var fetches int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		atomic.AddInt32(&fetches, 1)
		_, _ = w.Write([]byte("User-agent: relcorpus\nDisallow: /private\nCrawl-delay: 2\n\nUser-agent: *\nDisallow: /\n"))
	}))
	defer server.Close()

	checker := NewRobotsChecker("relcorpus/0.1 (+https://example.com)", time.Second, nil)
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/articles/1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2*time.Second, delay)

	allowed, _, err = checker.CanFetch(ctx, server.URL+"/private/doc")
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches), "robots.txt is cached per host")

	checker.Clear()
	_, _, _ = checker.CanFetch(ctx, server.URL+"/")
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetches))
}

func TestRobotsCheckerMissingFileAllows(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	checker := NewRobotsChecker("relcorpus", time.Second, nil)
	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/anything")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRobotsCheckerUnreachableAllows(t *testing.T) {
	checker := NewRobotsChecker("relcorpus", 100*time.Millisecond, nil)
	allowed, _, err := checker.CanFetch(context.Background(), "http://127.0.0.1:1/page")
	assert.Error(t, err)
	assert.True(t, allowed)
}

func TestNormalizeUserAgent(t *testing.T) {
	assert.Equal(t, "relcorpus", NormalizeUserAgent("relcorpus/0.1 (+https://github.com/ppiankov/relcorpus)"))
	assert.Equal(t, "bot", NormalizeUserAgent("bot"))
	assert.Equal(t, "", NormalizeUserAgent(""))
}
