package external

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/graham/internal/contracts"
)

type stubProvider struct {
	name  string
	calls []string
}

func (s *stubProvider) FetchSectorMembers(ctx context.Context, sector string) ([]contracts.SectorMember, error) {
	s.calls = append(s.calls, "members")
	return []contracts.SectorMember{{Symbol: s.name}}, nil
}

func (s *stubProvider) FetchFinancials(ctx context.Context, symbols []string) (map[string][]contracts.Statement, error) {
	s.calls = append(s.calls, "financials")
	return map[string][]contracts.Statement{s.name: {}}, nil
}

func (s *stubProvider) FetchQuotes(ctx context.Context, symbols []string) (map[string]contracts.Quote, error) {
	s.calls = append(s.calls, "quotes")
	return map[string]contracts.Quote{
		s.name: {LatestPrice: decimal.NewNullDecimal(decimal.NewFromInt(1))},
	}, nil
}

func (s *stubProvider) FetchKeyStats(ctx context.Context, symbols []string) (map[string]contracts.KeyStats, error) {
	s.calls = append(s.calls, "stats")
	return map[string]contracts.KeyStats{s.name: {SharesOutstanding: 1}}, nil
}

func TestComposite_RoutesCalls(t *testing.T) {
	ctx := context.Background()
	primary := &stubProvider{name: "primary"}
	stats := &stubProvider{name: "stats"}
	c := &Composite{Primary: primary, Stats: stats}

	members, err := c.FetchSectorMembers(ctx, "Energy")
	require.NoError(t, err)
	assert.Equal(t, "primary", members[0].Symbol)

	financials, err := c.FetchFinancials(ctx, []string{"XOM"})
	require.NoError(t, err)
	assert.Contains(t, financials, "primary")

	quotes, err := c.FetchQuotes(ctx, []string{"XOM"})
	require.NoError(t, err)
	assert.Contains(t, quotes, "stats")

	keyStats, err := c.FetchKeyStats(ctx, []string{"XOM"})
	require.NoError(t, err)
	assert.Contains(t, keyStats, "stats")

	assert.Equal(t, []string{"members", "financials"}, primary.calls)
	assert.Equal(t, []string{"quotes", "stats"}, stats.calls)
}
