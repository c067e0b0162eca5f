package external

import (
	"context"

	"github.com/wonny/graham/internal/contracts"
)

// StatsSource serves quotes and key stats
type StatsSource interface {
	FetchQuotes(ctx context.Context, symbols []string) (map[string]contracts.Quote, error)
	FetchKeyStats(ctx context.Context, symbols []string) (map[string]contracts.KeyStats, error)
}

// Composite takes sector members and statements from Primary and
// quotes and key stats from Stats.
type Composite struct {
	Primary contracts.DataProvider
	Stats   StatsSource
}

var _ contracts.DataProvider = (*Composite)(nil)

func (c *Composite) FetchSectorMembers(ctx context.Context, sector string) ([]contracts.SectorMember, error) {
	return c.Primary.FetchSectorMembers(ctx, sector)
}

func (c *Composite) FetchFinancials(ctx context.Context, symbols []string) (map[string][]contracts.Statement, error) {
	return c.Primary.FetchFinancials(ctx, symbols)
}

func (c *Composite) FetchQuotes(ctx context.Context, symbols []string) (map[string]contracts.Quote, error) {
	return c.Stats.FetchQuotes(ctx, symbols)
}

func (c *Composite) FetchKeyStats(ctx context.Context, symbols []string) (map[string]contracts.KeyStats, error) {
	return c.Stats.FetchKeyStats(ctx, symbols)
}
