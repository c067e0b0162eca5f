package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/pkg/logger"
)

type countingSource struct {
	requests [][]string
	price    int64
	err      error
}

func (s *countingSource) FetchQuotes(ctx context.Context, symbols []string) (map[string]contracts.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.requests = append(s.requests, append([]string(nil), symbols...))

	out := make(map[string]contracts.Quote)
	for _, symbol := range symbols {
		if symbol == "NOPE" {
			continue
		}
		out[symbol] = contracts.Quote{LatestPrice: decimal.NewNullDecimal(decimal.NewFromInt(s.price))}
	}
	return out, nil
}

func newTestCache(src contracts.QuoteSource, ttl time.Duration) (*QuoteCache, *time.Time) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c := NewQuoteCache(src, ttl, logger.NewNop())
	c.now = func() time.Time { return now }
	return c, &now
}

func TestQuoteCache_HitAndMiss(t *testing.T) {
	src := &countingSource{price: 100}
	c, now := newTestCache(src, time.Minute)
	ctx := context.Background()

	quotes, err := c.FetchQuotes(ctx, []string{"XOM", "CVX"})
	require.NoError(t, err)
	assert.Len(t, quotes, 2)

	// 캐시 적중: upstream에는 누락분만 요청
	quotes, err = c.FetchQuotes(ctx, []string{"XOM", "DUK"})
	require.NoError(t, err)
	assert.Len(t, quotes, 2)
	assert.Equal(t, [][]string{{"XOM", "CVX"}, {"DUK"}}, src.requests)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 3, stats.Misses)
	assert.Equal(t, 3, stats.FreshCount)

	// TTL 경과 후 재요청
	*now = now.Add(2 * time.Minute)
	src.price = 110
	quotes, err = c.FetchQuotes(ctx, []string{"XOM"})
	require.NoError(t, err)
	assert.True(t, quotes["XOM"].LatestPrice.Decimal.Equal(decimal.NewFromInt(110)))
	assert.Len(t, src.requests, 3)
}

func TestQuoteCache_MissingSymbolNotCached(t *testing.T) {
	src := &countingSource{price: 100}
	c, _ := newTestCache(src, time.Minute)

	quotes, err := c.FetchQuotes(context.Background(), []string{"NOPE"})
	require.NoError(t, err)
	assert.Empty(t, quotes)
	assert.Equal(t, 0, c.Len())
}

func TestQuoteCache_Error(t *testing.T) {
	src := &countingSource{err: errors.New("upstream down")}
	c, _ := newTestCache(src, time.Minute)

	_, err := c.FetchQuotes(context.Background(), []string{"XOM"})
	assert.EqualError(t, err, "upstream down")
}

func TestQuoteCache_Disabled(t *testing.T) {
	src := &countingSource{price: 100}
	c, _ := newTestCache(src, 0)
	ctx := context.Background()

	_, err := c.FetchQuotes(ctx, []string{"XOM"})
	require.NoError(t, err)
	_, err = c.FetchQuotes(ctx, []string{"XOM"})
	require.NoError(t, err)

	assert.Len(t, src.requests, 2)
	assert.Equal(t, 0, c.Len())
}

func TestQuoteCache_CleanStale(t *testing.T) {
	src := &countingSource{price: 100}
	c, now := newTestCache(src, time.Minute)
	ctx := context.Background()

	_, err := c.FetchQuotes(ctx, []string{"XOM"})
	require.NoError(t, err)
	*now = now.Add(30 * time.Second)
	_, err = c.FetchQuotes(ctx, []string{"CVX"})
	require.NoError(t, err)

	*now = now.Add(45 * time.Second)
	assert.Equal(t, 1, c.Stats().StaleCount)
	assert.Equal(t, 1, c.CleanStale())
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}
