package locate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/anchora/internal/cache"
	"github.com/ppiankov/anchora/internal/model"
)

type countingLocator struct {
	calls int
}

func (c *countingLocator) Locate(document, query string, opts Options) model.MatchResult {
	c.calls++
	return Locate(document, query, opts)
}

func TestCached_ReusesResults(t *testing.T) {
	inner := &countingLocator{}
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	loc := NewCached(inner, store, 0, nil)

	first := loc.Locate(greetingDoc, "Greet the users warmly", ValidationOptions())
	second := loc.Locate(greetingDoc, "Greet the users warmly", ValidationOptions())

	require.True(t, first.Found)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)

	// Different options are a different key
	loc.Locate(greetingDoc, "Greet the users warmly", DefaultOptions())
	assert.Equal(t, 2, inner.calls)
}

func TestCached_CorruptEntryIsRecomputed(t *testing.T) {
	inner := &countingLocator{}
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	loc := NewCached(inner, store, 0, nil)

	key := cacheKey(greetingDoc, "Ask", DefaultOptions())
	require.NoError(t, store.Set(key, []byte("not json"), 0))

	m := loc.Locate(greetingDoc, "Ask", DefaultOptions())
	assert.True(t, m.Found)
	assert.Equal(t, 1, inner.calls)
}

func TestNewCached_NilStore(t *testing.T) {
	inner := &countingLocator{}
	assert.Same(t, inner, NewCached(inner, nil, 0, nil))
}
