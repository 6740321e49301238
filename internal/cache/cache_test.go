package cache

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/anchora/internal/model"
)

func TestKey(t *testing.T) {
	k1 := Key("locate", "ab", "c")
	k2 := Key("locate", "a", "bc")

	assert.True(t, strings.HasPrefix(k1, "anchora:v1:"))
	assert.NotEqual(t, k1, k2, "length prefixing must separate part boundaries")
	assert.Equal(t, k1, Key("locate", "ab", "c"))
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_, found := c.Get("missing")
	assert.False(t, found)

	require.NoError(t, c.Set("k", []byte("v"), 0))
	val, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, []byte("v"), val)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete("k"))
	_, found = c.Get("k")
	assert.False(t, found)

	require.NoError(t, c.Set("a", []byte("1"), 0))
	require.NoError(t, c.Clear())
	assert.Equal(t, 0, c.Len())
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := Key("doc", "query")

	require.NoError(t, c.Set(key, []byte(`{"found":true}`), 0))
	val, found := c.Get(key)
	require.True(t, found)
	assert.Equal(t, `{"found":true}`, string(val))

	matches, err := filepath.Glob(filepath.Join(dir, "*", "*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	require.NoError(t, c.Set(key, []byte("stale"), -time.Second))
	_, found = c.Get(key)
	assert.False(t, found, "expired entry must not be served")

	assert.NoError(t, c.Delete(key), "deleting a missing entry is not an error")
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	layered := NewLayeredCache(time.Minute, dir, time.Hour)

	// Write straight to disk, bypassing memory
	disk := NewDiskCache(dir, time.Hour)
	require.NoError(t, disk.Set("k", []byte("v"), 0))

	val, found := layered.Get("k")
	require.True(t, found)
	assert.Equal(t, []byte("v"), val)

	val, found = layered.memory.Get("k")
	require.True(t, found, "disk hit should be promoted to memory")
	assert.Equal(t, []byte("v"), val)

	require.NoError(t, layered.Clear())
	_, found = layered.Get("k")
	assert.False(t, found)
}

func TestNew(t *testing.T) {
	assert.Nil(t, New(model.CacheConfig{Enabled: false}))

	_, isMemory := New(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute}).(*MemoryCache)
	assert.True(t, isMemory)

	_, isLayered := New(model.CacheConfig{Enabled: true, Dir: t.TempDir()}).(*LayeredCache)
	assert.True(t, isLayered)
}
