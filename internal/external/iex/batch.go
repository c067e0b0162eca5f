package iex

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/graham/internal/contracts"
)

// batch requests one data type for up to contracts.MaxBatchSize symbols
func (c *Client) batch(ctx context.Context, symbols []string, dataType string) (map[string]batchEntry, error) {
	if len(symbols) == 0 {
		return map[string]batchEntry{}, nil
	}
	if len(symbols) > contracts.MaxBatchSize {
		return nil, fmt.Errorf("batch of %d symbols exceeds limit %d", len(symbols), contracts.MaxBatchSize)
	}

	params := url.Values{}
	params.Set("symbols", strings.Join(symbols, ","))
	params.Set("types", dataType)

	var resp map[string]batchEntry
	if err := c.getJSON(ctx, "/stock/market/batch", params, &resp); err != nil {
		return nil, fmt.Errorf("fetch %s batch: %w", dataType, err)
	}

	return resp, nil
}

// FetchFinancials returns each symbol's statements, most recent first.
// Symbols the provider omits are absent from the map.
func (c *Client) FetchFinancials(ctx context.Context, symbols []string) (map[string][]contracts.Statement, error) {
	resp, err := c.batch(ctx, symbols, "financials")
	if err != nil {
		return nil, err
	}

	out := make(map[string][]contracts.Statement, len(resp))
	for symbol, entry := range resp {
		if entry.Financials == nil {
			out[symbol] = nil
			continue
		}
		statements := make([]contracts.Statement, len(entry.Financials.Financials))
		for i, s := range entry.Financials.Financials {
			statements[i] = s.toContract()
		}
		out[symbol] = statements
	}

	return out, nil
}

// FetchQuotes returns the latest quote per symbol
func (c *Client) FetchQuotes(ctx context.Context, symbols []string) (map[string]contracts.Quote, error) {
	resp, err := c.batch(ctx, symbols, "quote")
	if err != nil {
		return nil, err
	}

	out := make(map[string]contracts.Quote, len(resp))
	for symbol, entry := range resp {
		if entry.Quote == nil {
			continue
		}
		out[symbol] = entry.Quote.toContract()
	}

	return out, nil
}

// FetchKeyStats returns the share count per symbol
func (c *Client) FetchKeyStats(ctx context.Context, symbols []string) (map[string]contracts.KeyStats, error) {
	resp, err := c.batch(ctx, symbols, "stats")
	if err != nil {
		return nil, err
	}

	out := make(map[string]contracts.KeyStats, len(resp))
	for symbol, entry := range resp {
		if entry.Stats == nil {
			continue
		}
		out[symbol] = entry.Stats.toContract()
	}

	return out, nil
}
