package marketdata

import (
	"context"
	"strings"
	"time"

	"finadvisor/internal/domain/market_data"
	"finadvisor/internal/metrics"
	"finadvisor/pkg/errors"
	"finadvisor/pkg/logger"
)

const keyPrefix = "finadvisor:marketdata:"

// Cache is the subset of the Redis client the decorator needs
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
}

// CachedProvider serves repeated lookups within a turn from Redis. Cache
// failures fall through to the wrapped provider.
type CachedProvider struct {
	next  market_data.Provider
	cache Cache
	ttl   time.Duration
	log   *logger.Logger
}

var _ market_data.Provider = (*CachedProvider)(nil)

// cachedQuote distinguishes "no history" from a cache miss
type cachedQuote struct {
	Found bool              `json:"found"`
	Quote market_data.Quote `json:"quote"`
}

// NewCachedProvider wraps next with a Redis read-through cache
func NewCachedProvider(next market_data.Provider, cache Cache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   logger.Get().With("component", "marketdata_cache"),
	}
}

// LastClose implements market_data.Provider
func (p *CachedProvider) LastClose(ctx context.Context, symbol string) (*market_data.Quote, error) {
	key := cacheKey("last_close", symbol)

	var hit cachedQuote
	if p.lookup(ctx, key, &hit) {
		metrics.RecordMarketDataRequest("chart", "cache_hit", 0)
		if !hit.Found {
			return nil, nil
		}
		return &hit.Quote, nil
	}

	q, err := p.next.LastClose(ctx, symbol)
	if err != nil {
		return nil, err
	}

	entry := cachedQuote{Found: q != nil}
	if q != nil {
		entry.Quote = *q
	}
	p.store(ctx, key, entry)
	return q, nil
}

// Profile implements market_data.Provider
func (p *CachedProvider) Profile(ctx context.Context, symbol string) (*market_data.Profile, error) {
	key := cacheKey("profile", symbol)

	var hit market_data.Profile
	if p.lookup(ctx, key, &hit) {
		metrics.RecordMarketDataRequest("quote_summary", "cache_hit", 0)
		return &hit, nil
	}

	profile, err := p.next.Profile(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		p.store(ctx, key, profile)
	}
	return profile, nil
}

func (p *CachedProvider) lookup(ctx context.Context, key string, dest interface{}) bool {
	err := p.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, errors.ErrNotFound) {
		p.log.Warnw("Market data cache read failed", "key", key, "error", err)
	}
	return false
}

func (p *CachedProvider) store(ctx context.Context, key string, value interface{}) {
	if err := p.cache.Set(ctx, key, value, p.ttl); err != nil {
		p.log.Warnw("Market data cache write failed", "key", key, "error", err)
	}
}

func cacheKey(kind, symbol string) string {
	return keyPrefix + kind + ":" + strings.ToUpper(strings.TrimSpace(symbol))
}
