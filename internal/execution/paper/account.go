package paper

import (
	"sort"
	"time"

	"github.com/wonny/graham/internal/contracts"
)

// Account is the simulated brokerage account
type Account struct {
	ID        string               `json:"id"`
	Cash      float64              `json:"cash"`
	Positions map[string]*Position `json:"positions"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Position is a filled holding marked at the last known price
type Position struct {
	Symbol string  `json:"symbol"`
	Qty    int64   `json:"qty"`
	Mark   float64 `json:"mark"`
}

// NewAccount creates an account holding only cash
func NewAccount(id string, cash float64, now time.Time) *Account {
	return &Account{
		ID:        id,
		Cash:      cash,
		Positions: make(map[string]*Position),
		UpdatedAt: now,
	}
}

// Value returns cash plus marked positions
func (a *Account) Value() float64 {
	value := a.Cash
	for _, pos := range a.Positions {
		value += float64(pos.Qty) * pos.Mark
	}
	return value
}

// Clone returns a deep copy
func (a *Account) Clone() *Account {
	c := &Account{
		ID:        a.ID,
		Cash:      a.Cash,
		Positions: make(map[string]*Position, len(a.Positions)),
		UpdatedAt: a.UpdatedAt,
	}
	for symbol, pos := range a.Positions {
		p := *pos
		c.Positions[symbol] = &p
	}
	return c
}

// SortedPositions returns the positions ordered by symbol
func (a *Account) SortedPositions() []Position {
	out := make([]Position, 0, len(a.Positions))
	for _, pos := range a.Positions {
		out = append(out, *pos)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// apply books a fill against the account
func (a *Account) apply(order *contracts.Order) {
	signed := order.SignedQty()
	a.Cash -= float64(signed) * order.Price

	pos, ok := a.Positions[order.Symbol]
	if !ok {
		pos = &Position{Symbol: order.Symbol}
		a.Positions[order.Symbol] = pos
	}
	pos.Qty += signed
	pos.Mark = order.Price

	if pos.Qty == 0 {
		delete(a.Positions, order.Symbol)
	}
}
