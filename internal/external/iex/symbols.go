package iex

import (
	"context"
	"fmt"

	"github.com/wonny/graham/internal/contracts"
)

// FetchSymbols returns the provider's reference symbol directory
func (c *Client) FetchSymbols(ctx context.Context) ([]contracts.SymbolInfo, error) {
	var rows []symbolJSON
	if err := c.getJSON(ctx, "/ref-data/symbols", nil, &rows); err != nil {
		return nil, fmt.Errorf("fetch symbol directory: %w", err)
	}

	out := make([]contracts.SymbolInfo, 0, len(rows))
	for _, r := range rows {
		out = append(out, contracts.SymbolInfo{
			Symbol:    r.Symbol,
			Name:      r.Name,
			Exchange:  r.Exchange,
			Type:      r.Type,
			IsEnabled: r.IsEnabled,
		})
	}

	c.logger.WithField("count", len(out)).Info("Fetched symbol directory")

	return out, nil
}
