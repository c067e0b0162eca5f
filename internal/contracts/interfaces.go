package contracts

import "context"

// DataProvider fetches sector membership and per-symbol fundamentals.
// Batch calls accept at most 99 symbols.
// ⭐ SSOT: 외부 데이터 제공자 인터페이스
type DataProvider interface {
	FetchSectorMembers(ctx context.Context, sector string) ([]SectorMember, error)
	FetchFinancials(ctx context.Context, symbols []string) (map[string][]Statement, error)
	FetchQuotes(ctx context.Context, symbols []string) (map[string]Quote, error)
	FetchKeyStats(ctx context.Context, symbols []string) (map[string]KeyStats, error)
}

// QuoteSource is the subset of DataProvider needed to price orders
type QuoteSource interface {
	FetchQuotes(ctx context.Context, symbols []string) (map[string]Quote, error)
}

// TradingEngine is the order-placement side of the host runtime
// ⭐ SSOT: 트레이딩 엔진 인터페이스
type TradingEngine interface {
	CurrentPositions(ctx context.Context) (map[string]int64, error)
	CurrentOpenOrders(ctx context.Context) ([]Order, error)
	// SubmitTargetPercentOrder moves the position toward targetWeight of
	// portfolio value. A nil order means no shares needed to change.
	SubmitTargetPercentOrder(ctx context.Context, symbol string, targetWeight float64) (*Order, error)
	ResolveSymbol(ctx context.Context, ticker string) (string, error)
}

// SectorBuilder builds the fundamentals table of one sector
type SectorBuilder interface {
	Build(ctx context.Context, sector string) (*SectorTable, error)
}
