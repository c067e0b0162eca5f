package cache

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/pkg/logger"
)

// QuoteCache serves recent quotes from memory and fetches the rest upstream
// ⭐ SSOT: 호가 캐싱은 이 구조체에서만
type QuoteCache struct {
	mu       sync.RWMutex
	upstream contracts.QuoteSource
	quotes   map[string]entry
	ttl      time.Duration
	logger   *logger.Logger
	now      func() time.Time

	hits   int
	misses int
}

type entry struct {
	quote     contracts.Quote
	fetchedAt time.Time
}

var _ contracts.QuoteSource = (*QuoteCache)(nil)

// NewQuoteCache creates a cache in front of upstream (ttl <= 0 disables caching)
func NewQuoteCache(upstream contracts.QuoteSource, ttl time.Duration, log *logger.Logger) *QuoteCache {
	return &QuoteCache{
		upstream: upstream,
		quotes:   make(map[string]entry),
		ttl:      ttl,
		logger:   log,
		now:      time.Now,
	}
}

// FetchQuotes returns fresh cached quotes and fetches the missing symbols in one call.
// Symbols the upstream does not return are not cached.
func (c *QuoteCache) FetchQuotes(ctx context.Context, symbols []string) (map[string]contracts.Quote, error) {
	out := make(map[string]contracts.Quote, len(symbols))
	missing := make([]string, 0, len(symbols))

	c.mu.Lock()
	now := c.now()
	for _, symbol := range symbols {
		if e, ok := c.quotes[symbol]; ok && c.fresh(e, now) {
			out[symbol] = e.quote
			c.hits++
			continue
		}
		missing = append(missing, symbol)
		c.misses++
	}
	c.mu.Unlock()

	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := c.upstream.FetchQuotes(ctx, missing)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now = c.now()
	for symbol, quote := range fetched {
		out[symbol] = quote
		if c.ttl > 0 {
			c.quotes[symbol] = entry{quote: quote, fetchedAt: now}
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"requested": len(symbols),
		"fetched":   len(missing),
	}).Debug("Quote cache miss")

	return out, nil
}

func (c *QuoteCache) fresh(e entry, now time.Time) bool {
	return c.ttl > 0 && now.Sub(e.fetchedAt) <= c.ttl
}

// Len returns the number of cached quotes, stale included
func (c *QuoteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.quotes)
}

// Clear drops every cached quote
func (c *QuoteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.quotes = make(map[string]entry)
	c.logger.Info("Cleared quote cache")
}

// CleanStale removes quotes older than the TTL
func (c *QuoteCache) CleanStale() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	count := 0

	for symbol, e := range c.quotes {
		if !c.fresh(e, now) {
			delete(c.quotes, symbol)
			count++
		}
	}

	if count > 0 {
		c.logger.WithField("count", count).Info("Cleaned stale quotes from cache")
	}

	return count
}

// Stats returns cache statistics
func (c *QuoteCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CacheStats{
		TotalCount: len(c.quotes),
		Hits:       c.hits,
		Misses:     c.misses,
	}

	now := c.now()
	for _, e := range c.quotes {
		if !c.fresh(e, now) {
			stats.StaleCount++
		}
	}
	stats.FreshCount = stats.TotalCount - stats.StaleCount

	return stats
}

// CacheStats represents cache statistics
type CacheStats struct {
	TotalCount int `json:"total_count"`
	FreshCount int `json:"fresh_count"`
	StaleCount int `json:"stale_count"`
	Hits       int `json:"hits"`
	Misses     int `json:"misses"`
}
