package yahoo

import (
	"context"
	"fmt"

	"github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/pkg/logger"
)

// equityIter is the iterator returned by equity.List
type equityIter interface {
	Next() bool
	Equity() *finance.Equity
	Err() error
}

// Client serves quotes and key stats from Yahoo Finance.
// Statements and sector collections are not available here.
// ⭐ SSOT: Yahoo Finance 호출은 이 클라이언트에서만
type Client struct {
	logger *logger.Logger
	list   func(symbols []string) equityIter
}

var _ contracts.QuoteSource = (*Client)(nil)

// NewClient creates a Yahoo Finance client
func NewClient(log *logger.Logger) *Client {
	return &Client{
		logger: log,
		list: func(symbols []string) equityIter {
			return equity.List(symbols)
		},
	}
}

// fetch collects one equity per requested symbol
func (c *Client) fetch(ctx context.Context, symbols []string) (map[string]*finance.Equity, error) {
	out := make(map[string]*finance.Equity, len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}

	iter := c.list(symbols)
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e := iter.Equity()
		if e == nil || e.Symbol == "" {
			continue
		}
		out[e.Symbol] = e
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo equity list: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"requested": len(symbols),
		"received":  len(out),
	}).Debug("Fetched Yahoo equities")

	return out, nil
}

// FetchQuotes returns price, market cap and trailing PE per symbol.
// Yahoo reports unknown numbers as zero; those become null.
func (c *Client) FetchQuotes(ctx context.Context, symbols []string) (map[string]contracts.Quote, error) {
	equities, err := c.fetch(ctx, symbols)
	if err != nil {
		return nil, err
	}

	out := make(map[string]contracts.Quote, len(equities))
	for symbol, e := range equities {
		out[symbol] = contracts.Quote{
			LatestPrice: nonZero(decimal.NewFromFloat(e.RegularMarketPrice)),
			MarketCap:   nonZero(decimal.NewFromInt(e.MarketCap)),
			PERatio:     nonZero(decimal.NewFromFloat(e.TrailingPE)),
		}
	}

	return out, nil
}

// FetchKeyStats returns shares outstanding per symbol
func (c *Client) FetchKeyStats(ctx context.Context, symbols []string) (map[string]contracts.KeyStats, error) {
	equities, err := c.fetch(ctx, symbols)
	if err != nil {
		return nil, err
	}

	out := make(map[string]contracts.KeyStats, len(equities))
	for symbol, e := range equities {
		out[symbol] = contracts.KeyStats{SharesOutstanding: int64(e.SharesOutstanding)}
	}

	return out, nil
}

func nonZero(d decimal.Decimal) decimal.NullDecimal {
	if d.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
