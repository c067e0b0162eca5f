package execution

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/internal/portfolio"
	"github.com/wonny/graham/pkg/logger"
)

// call is one engine request seen by recordingEngine
type call struct {
	Method string
	Symbol string
	Weight float64
}

type recordingEngine struct {
	positions map[string]int64
	calls     []call
	failOn    string // symbol whose submit fails
	resolve   map[string]string
}

func (e *recordingEngine) CurrentPositions(ctx context.Context) (map[string]int64, error) {
	e.calls = append(e.calls, call{Method: "positions"})
	return e.positions, nil
}

func (e *recordingEngine) CurrentOpenOrders(ctx context.Context) ([]contracts.Order, error) {
	e.calls = append(e.calls, call{Method: "open_orders"})
	return nil, nil
}

func (e *recordingEngine) SubmitTargetPercentOrder(ctx context.Context, symbol string, w float64) (*contracts.Order, error) {
	e.calls = append(e.calls, call{Method: "submit", Symbol: symbol, Weight: w})
	if symbol == e.failOn {
		return nil, errors.New("engine rejected order")
	}
	return &contracts.Order{Symbol: symbol, TargetWeight: w}, nil
}

func (e *recordingEngine) ResolveSymbol(ctx context.Context, ticker string) (string, error) {
	e.calls = append(e.calls, call{Method: "resolve", Symbol: ticker})
	if s, ok := e.resolve[ticker]; ok {
		return s, nil
	}
	return ticker, nil
}

func submits(calls []call) []call {
	out := make([]call, 0)
	for _, c := range calls {
		if c.Method == "submit" {
			out = append(out, c)
		}
	}
	return out
}

func targetFor(symbols ...string) *contracts.TargetPortfolio {
	return portfolio.NewConstructor(logger.NewNop()).Construct(&contracts.SelectionSet{Symbols: symbols})
}

func TestRebalance_SellsBeforeBuys(t *testing.T) {
	engine := &recordingEngine{positions: map[string]int64{"ZZZ": 10, "AAA": 5, "XOM": 3}}
	r := NewRebalancer(engine, logger.NewNop())

	result, err := r.Rebalance(context.Background(), targetFor("XOM", "CVX"))
	require.NoError(t, err)

	assert.Equal(t, []call{
		{Method: "submit", Symbol: "AAA", Weight: 0},
		{Method: "submit", Symbol: "ZZZ", Weight: 0},
		{Method: "submit", Symbol: "XOM", Weight: 0.5},
		{Method: "submit", Symbol: "CVX", Weight: 0.5},
	}, submits(engine.calls))

	assert.Len(t, result.Closed, 2)
	assert.Len(t, result.Submitted, 2)
	assert.Equal(t, "open_orders", engine.calls[len(engine.calls)-1].Method)
}

func TestRebalance_EmptySelection(t *testing.T) {
	engine := &recordingEngine{positions: map[string]int64{"XOM": 3}}
	r := NewRebalancer(engine, logger.NewNop())

	result, err := r.Rebalance(context.Background(), targetFor())
	require.NoError(t, err)

	// only the close order; no buys at weight 0
	assert.Equal(t, []call{{Method: "submit", Symbol: "XOM", Weight: 0}}, submits(engine.calls))
	assert.Empty(t, result.Submitted)
	for _, c := range engine.calls {
		assert.NotEqual(t, "resolve", c.Method)
	}
}

func TestRebalance_ResolvesTickers(t *testing.T) {
	engine := &recordingEngine{
		positions: map[string]int64{},
		resolve:   map[string]string{"brk.b": "BRK.B"},
	}
	r := NewRebalancer(engine, logger.NewNop())

	_, err := r.Rebalance(context.Background(), targetFor("brk.b"))
	require.NoError(t, err)

	assert.Equal(t, []call{{Method: "submit", Symbol: "BRK.B", Weight: 1}}, submits(engine.calls))
}

func TestRebalance_HeldResolvedSymbolIsKept(t *testing.T) {
	engine := &recordingEngine{
		positions: map[string]int64{"BRK.B": 10, "OLD": 1},
		resolve:   map[string]string{"brk.b": "BRK.B"},
	}
	r := NewRebalancer(engine, logger.NewNop())

	result, err := r.Rebalance(context.Background(), targetFor("brk.b"))
	require.NoError(t, err)

	// 변환된 심볼로 비교하므로 BRK.B는 청산되지 않음
	assert.Equal(t, []call{
		{Method: "submit", Symbol: "OLD", Weight: 0},
		{Method: "submit", Symbol: "BRK.B", Weight: 1},
	}, submits(engine.calls))
	require.Len(t, result.Closed, 1)
	assert.Equal(t, "OLD", result.Closed[0].Symbol)
}

func TestRebalance_ErrorPropagates(t *testing.T) {
	engine := &recordingEngine{positions: map[string]int64{}, failOn: "CVX"}
	r := NewRebalancer(engine, logger.NewNop())

	_, err := r.Rebalance(context.Background(), targetFor("CVX", "XOM"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "engine rejected order")

	// no retry, no further submissions
	assert.Len(t, submits(engine.calls), 1)
}

func TestRebalance_DryRun(t *testing.T) {
	engine := NewDryRunEngine(map[string]int64{"OLD": 1})
	r := NewRebalancer(engine, logger.NewNop())

	result, err := r.Rebalance(context.Background(), targetFor("xom", "cvx"))
	require.NoError(t, err)

	requests := engine.Requests()
	require.Len(t, requests, 3)
	assert.Equal(t, contracts.OrderSideSell, requests[0].Side)
	assert.Equal(t, "XOM", requests[1].Symbol)
	assert.Equal(t, 0.5, requests[2].TargetWeight)
	assert.Len(t, result.OpenOrders, 3)

	positions, _ := engine.CurrentPositions(context.Background())
	assert.Equal(t, map[string]int64{"OLD": 1}, positions)
}
