package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/relcorpus/internal/model"
)

func TestKey(t *testing.T) {
	k := Key("openai", "gpt-4", "text")
	assert.True(t, strings.HasPrefix(k, "relcorpus:v1:"))
	assert.Equal(t, k, Key("openai", "gpt-4", "text"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
	assert.NotEqual(t, k, Key("openai", "gpt-4", "other"))
}

func TestNewDisabled(t *testing.T) {
	assert.Nil(t, New(model.CacheConfig{Enabled: false}))
	assert.NotNil(t, New(model.CacheConfig{Enabled: true, Dir: t.TempDir(), MemoryTTL: time.Minute}))
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	require.NoError(t, c.Set("k", []byte("v"), 0))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestDiskCacheRoundTripAndExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := Key("page")

	require.NoError(t, c.Set(key, []byte("body"), 0))
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte("body"), got)

	require.NoError(t, c.Set(key, []byte("stale"), time.Nanosecond))
	time.Sleep(5 * time.Millisecond)
	_, ok = c.Get(key)
	assert.False(t, ok)

	assert.NoError(t, c.Delete(key), "deleting an absent key is not an error")
}

func TestLayeredCachePromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	key := Key("reply")

	first := NewLayeredCache(time.Minute, dir, time.Hour)
	require.NoError(t, first.Set(key, []byte("cached"), 0))

	// A fresh instance has an empty memory layer but shares the disk
	second := NewLayeredCache(time.Minute, dir, time.Hour)
	got, ok := second.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte("cached"), got)

	mem, ok := second.memory.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte("cached"), mem)

	require.NoError(t, second.Clear())
	_, ok = second.Get(key)
	assert.False(t, ok)
}
