package paper

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/pkg/logger"
)

// Config holds simulated engine settings
type Config struct {
	AccountID    string
	StartingCash float64
}

// DefaultConfig returns default engine config
func DefaultConfig() Config {
	return Config{
		AccountID:    "paper",
		StartingCash: 1_000_000,
	}
}

// Directory answers whether a ticker is tradable
type Directory interface {
	Contains(symbol string) (bool, error)
}

// Engine is a simulated trading engine. Orders are submitted at the latest
// quote and filled on the next Settle call.
// ⭐ SSOT: 모의 주문 체결은 여기서만
type Engine struct {
	mu        sync.Mutex
	config    Config
	account   *Account
	orders    []contracts.Order
	quotes    contracts.QuoteSource
	directory Directory
	ledger    Ledger
	logger    *logger.Logger
	now       func() time.Time
	newID     func() string
}

var _ contracts.TradingEngine = (*Engine)(nil)

// Snapshot is a point-in-time view of the account
type Snapshot struct {
	AccountID  string            `json:"account_id"`
	Cash       float64           `json:"cash"`
	Value      float64           `json:"value"`
	Positions  []Position        `json:"positions"`
	OpenOrders []contracts.Order `json:"open_orders"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NewEngine loads the account from the ledger, creating it with the
// starting cash when it does not exist yet
func NewEngine(ctx context.Context, config Config, quotes contracts.QuoteSource, ledger Ledger, logger *logger.Logger) (*Engine, error) {
	if config.AccountID == "" {
		config.AccountID = DefaultConfig().AccountID
	}

	e := &Engine{
		config: config,
		quotes: quotes,
		ledger: ledger,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}

	account, err := ledger.LoadAccount(ctx, config.AccountID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if account == nil {
		account = NewAccount(config.AccountID, config.StartingCash, e.now())
		if err := ledger.SaveAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("create account: %w", err)
		}
		logger.WithFields(map[string]interface{}{
			"account_id": account.ID,
			"cash":       account.Cash,
		}).Info("Paper account created")
	}
	e.account = account

	open, err := ledger.LoadOpenOrders(ctx, config.AccountID)
	if err != nil {
		return nil, fmt.Errorf("load open orders: %w", err)
	}
	e.orders = open

	return e, nil
}

// WithDirectory makes ResolveSymbol reject tickers missing from d
func (e *Engine) WithDirectory(d Directory) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.directory = d
	return e
}

// CurrentPositions returns filled holdings by symbol
func (e *Engine) CurrentPositions(ctx context.Context) (map[string]int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]int64, len(e.account.Positions))
	for symbol, pos := range e.account.Positions {
		out[symbol] = pos.Qty
	}
	return out, nil
}

// CurrentOpenOrders returns orders waiting for settlement
func (e *Engine) CurrentOpenOrders(ctx context.Context) ([]contracts.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.openOrders(), nil
}

// SubmitTargetPercentOrder orders the share delta that moves the symbol
// (including pending orders) to targetWeight of account value
func (e *Engine) SubmitTargetPercentOrder(ctx context.Context, symbol string, targetWeight float64) (*contracts.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	price, err := e.price(ctx, symbol, targetWeight)
	if err != nil {
		return nil, err
	}

	if pos, ok := e.account.Positions[symbol]; ok {
		pos.Mark = price
	}

	target := int64(math.Floor(targetWeight * e.account.Value() / price))
	delta := target - e.projected(symbol)
	if delta == 0 {
		return nil, nil
	}

	side := contracts.OrderSideBuy
	qty := delta
	if delta < 0 {
		side = contracts.OrderSideSell
		qty = -delta
	}

	now := e.now()
	order := contracts.Order{
		ID:           e.newID(),
		Symbol:       symbol,
		Side:         side,
		Qty:          qty,
		Price:        price,
		TargetWeight: targetWeight,
		OrderType:    contracts.OrderTypeMarket,
		Status:       contracts.StatusSubmitted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := e.ledger.SaveOrder(ctx, e.account.ID, &order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	e.orders = append(e.orders, order)

	e.logger.WithFields(map[string]interface{}{
		"order_id": order.ID,
		"symbol":   symbol,
		"side":     side,
		"qty":      qty,
		"price":    price,
		"weight":   targetWeight,
	}).Info("Order submitted")

	return &order, nil
}

// ResolveSymbol normalizes the ticker and checks it against the directory
func (e *Engine) ResolveSymbol(ctx context.Context, ticker string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return "", ErrUnknownSymbol
	}

	e.mu.Lock()
	directory := e.directory
	e.mu.Unlock()

	if directory == nil {
		return symbol, nil
	}

	ok, err := directory.Contains(symbol)
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", symbol, err)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return symbol, nil
}

// Settle fills every open order at its submission price, sells first.
// Fills are booked on a copy and swapped in only after the ledger
// stored them; a failed save leaves the engine unchanged.
func (e *Engine) Settle(ctx context.Context) ([]contracts.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	filled := make([]contracts.Order, 0)
	now := e.now()

	account := e.account.Clone()
	orders := append([]contracts.Order(nil), e.orders...)

	for _, side := range []contracts.OrderSide{contracts.OrderSideSell, contracts.OrderSideBuy} {
		for i := range orders {
			order := &orders[i]
			if !order.IsOpen() || order.Side != side {
				continue
			}

			account.apply(order)
			order.Status = contracts.StatusFilled
			order.UpdatedAt = now
			filled = append(filled, *order)
		}
	}

	if len(filled) == 0 {
		return filled, nil
	}

	account.UpdatedAt = now
	if err := e.ledger.SaveSettlement(ctx, account, filled); err != nil {
		return nil, fmt.Errorf("save settlement: %w", err)
	}

	e.account = account
	e.orders = orders

	e.logger.WithFields(map[string]interface{}{
		"filled": len(filled),
		"cash":   e.account.Cash,
		"value":  e.account.Value(),
	}).Info("Orders settled")

	return filled, nil
}

// Orders returns the most recent orders, oldest first (limit <= 0 means all)
func (e *Engine) Orders(limit int) []contracts.Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := 0
	if limit > 0 && len(e.orders) > limit {
		start = len(e.orders) - limit
	}
	return append([]contracts.Order(nil), e.orders[start:]...)
}

// Snapshot returns a copy of the account state
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Snapshot{
		AccountID:  e.account.ID,
		Cash:       e.account.Cash,
		Value:      e.account.Value(),
		Positions:  e.account.SortedPositions(),
		OpenOrders: e.openOrders(),
		UpdatedAt:  e.account.UpdatedAt,
	}
}

func (e *Engine) openOrders() []contracts.Order {
	open := make([]contracts.Order, 0)
	for _, o := range e.orders {
		if o.IsOpen() {
			open = append(open, o)
		}
	}
	return open
}

// projected is the held quantity plus pending orders
func (e *Engine) projected(symbol string) int64 {
	var qty int64
	if pos, ok := e.account.Positions[symbol]; ok {
		qty = pos.Qty
	}
	for _, o := range e.orders {
		if o.IsOpen() && o.Symbol == symbol {
			qty += o.SignedQty()
		}
	}
	return qty
}

// price returns the latest quote; closing orders fall back to the last mark
func (e *Engine) price(ctx context.Context, symbol string, targetWeight float64) (float64, error) {
	quotes, err := e.quotes.FetchQuotes(ctx, []string{symbol})
	if err != nil {
		return 0, fmt.Errorf("fetch quote %s: %w", symbol, err)
	}

	if q, ok := quotes[symbol]; ok && q.LatestPrice.Valid && q.LatestPrice.Decimal.IsPositive() {
		return q.LatestPrice.Decimal.InexactFloat64(), nil
	}

	if pos, ok := e.account.Positions[symbol]; ok && targetWeight == 0 && pos.Mark > 0 {
		return pos.Mark, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrNoPrice, symbol)
}
