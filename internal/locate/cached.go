package locate

import (
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/anchora/internal/cache"
	"github.com/ppiankov/anchora/internal/model"
)

// Cached memoizes another Locator. Results are a pure function of (document, query, options),
// so a cached value is always valid for the same key.
type Cached struct {
	next   Locator
	store  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached wraps next with store. A nil store returns next unchanged.
func NewCached(next Locator, store cache.Cache, ttl time.Duration, logger *zap.Logger) Locator {
	if store == nil {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{next: next, store: store, ttl: ttl, logger: logger}
}

// Locate implements Locator
func (c *Cached) Locate(document, query string, opts Options) model.MatchResult {
	key := cacheKey(document, query, opts)

	if raw, found := c.store.Get(key); found {
		var result model.MatchResult
		if err := json.Unmarshal(raw, &result); err == nil {
			return result
		}
		_ = c.store.Delete(key)
	}

	result := c.next.Locate(document, query, opts)

	raw, err := json.Marshal(result)
	if err != nil {
		return result
	}
	if err := c.store.Set(key, raw, c.ttl); err != nil {
		c.logger.Warn("cache locate result", zap.Error(err))
	}
	return result
}

func cacheKey(document, query string, opts Options) string {
	return cache.Key(
		"locate",
		document,
		query,
		strconv.FormatBool(opts.EnableFuzzy),
		strconv.FormatFloat(opts.FuzzyThreshold, 'g', -1, 64),
		strconv.Itoa(opts.MaxFuzzyRunes),
	)
}
