package fundamentals

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wonny/graham/internal/contracts"
)

// fakeProvider serves canned records and counts batch calls
type fakeProvider struct {
	members    map[string][]contracts.SectorMember
	financials map[string][]contracts.Statement
	quotes     map[string]contracts.Quote
	stats      map[string]contracts.KeyStats
	batches    [][]string
	err        error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		members:    make(map[string][]contracts.SectorMember),
		financials: make(map[string][]contracts.Statement),
		quotes:     make(map[string]contracts.Quote),
		stats:      make(map[string]contracts.KeyStats),
	}
}

// add registers a symbol that passes every guard
func (f *fakeProvider) add(sector, symbol string, price, marketCap, pe float64, shares int64, st contracts.Statement) {
	f.members[sector] = append(f.members[sector], contracts.SectorMember{Symbol: symbol, PERatio: num(pe)})
	f.financials[symbol] = []contracts.Statement{st}
	f.quotes[symbol] = contracts.Quote{LatestPrice: num(price), MarketCap: num(marketCap), PERatio: num(pe)}
	f.stats[symbol] = contracts.KeyStats{SharesOutstanding: shares}
}

func (f *fakeProvider) FetchSectorMembers(ctx context.Context, sector string) ([]contracts.SectorMember, error) {
	return f.members[sector], nil
}

func (f *fakeProvider) FetchFinancials(ctx context.Context, symbols []string) (map[string][]contracts.Statement, error) {
	f.batches = append(f.batches, append([]string(nil), symbols...))
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string][]contracts.Statement)
	for _, s := range symbols {
		if st, ok := f.financials[s]; ok {
			out[s] = st
		}
	}
	return out, nil
}

func (f *fakeProvider) FetchQuotes(ctx context.Context, symbols []string) (map[string]contracts.Quote, error) {
	out := make(map[string]contracts.Quote)
	for _, s := range symbols {
		if q, ok := f.quotes[s]; ok {
			out[s] = q
		}
	}
	return out, nil
}

func (f *fakeProvider) FetchKeyStats(ctx context.Context, symbols []string) (map[string]contracts.KeyStats, error) {
	out := make(map[string]contracts.KeyStats)
	for _, s := range symbols {
		if st, ok := f.stats[s]; ok {
			out[s] = st
		}
	}
	return out, nil
}

func num(v float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

func statement(assets, liabilities, currentAssets, currentDebt float64) contracts.Statement {
	return contracts.Statement{
		TotalAssets:      num(assets),
		TotalLiabilities: num(liabilities),
		CurrentAssets:    num(currentAssets),
		CurrentDebt:      num(currentDebt),
	}
}
