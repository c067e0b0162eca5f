package iex

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wonny/graham/internal/contracts"
)

// FetchSectorMembers returns the quotes of every symbol in the sector collection.
// An unknown sector yields an empty list; the caller decides whether that is an error.
func (c *Client) FetchSectorMembers(ctx context.Context, sector string) ([]contracts.SectorMember, error) {
	params := url.Values{}
	params.Set("collectionName", sector)

	var entries []collectionEntry
	if err := c.getJSON(ctx, "/stock/market/collection/sector", params, &entries); err != nil {
		return nil, fmt.Errorf("fetch sector %q: %w", sector, err)
	}

	members := make([]contracts.SectorMember, 0, len(entries))
	for _, e := range entries {
		if e.Symbol == "" {
			continue
		}
		members = append(members, contracts.SectorMember{
			Symbol:  e.Symbol,
			PERatio: e.PERatio,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"sector":  sector,
		"members": len(members),
	}).Debug("Fetched sector collection")

	return members, nil
}
