package paper

import (
	"context"
	"sync"

	"github.com/wonny/graham/internal/contracts"
)

// Ledger persists the simulated account and its orders
// ⭐ SSOT: 모의 계좌 저장소 인터페이스
type Ledger interface {
	// LoadAccount returns nil, nil when the account does not exist yet
	LoadAccount(ctx context.Context, accountID string) (*Account, error)
	SaveAccount(ctx context.Context, account *Account) error
	SaveOrder(ctx context.Context, accountID string, order *contracts.Order) error
	// SaveSettlement stores the filled orders and the resulting account
	// together: either all of it is persisted or none of it
	SaveSettlement(ctx context.Context, account *Account, fills []contracts.Order) error
	LoadOpenOrders(ctx context.Context, accountID string) ([]contracts.Order, error)
}

// MemoryLedger keeps everything in process memory
type MemoryLedger struct {
	mu       sync.Mutex
	accounts map[string]*Account
	orders   map[string][]contracts.Order
}

var _ Ledger = (*MemoryLedger)(nil)

// NewMemoryLedger creates an empty in-memory ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		accounts: make(map[string]*Account),
		orders:   make(map[string][]contracts.Order),
	}
}

// LoadAccount returns a copy of the stored account
func (l *MemoryLedger) LoadAccount(ctx context.Context, accountID string) (*Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[accountID]
	if !ok {
		return nil, nil
	}
	return account.Clone(), nil
}

// SaveAccount stores a copy of the account
func (l *MemoryLedger) SaveAccount(ctx context.Context, account *Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.accounts[account.ID] = account.Clone()
	return nil
}

// SaveOrder inserts or replaces the order by ID
func (l *MemoryLedger) SaveOrder(ctx context.Context, accountID string, order *contracts.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.putOrder(accountID, *order)
	return nil
}

// SaveSettlement stores the fills and the account under one lock
func (l *MemoryLedger) SaveSettlement(ctx context.Context, account *Account, fills []contracts.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, order := range fills {
		l.putOrder(account.ID, order)
	}
	l.accounts[account.ID] = account.Clone()
	return nil
}

func (l *MemoryLedger) putOrder(accountID string, order contracts.Order) {
	orders := l.orders[accountID]
	for i := range orders {
		if orders[i].ID == order.ID {
			orders[i] = order
			return
		}
	}
	l.orders[accountID] = append(orders, order)
}

// LoadOpenOrders returns submitted orders in creation order
func (l *MemoryLedger) LoadOpenOrders(ctx context.Context, accountID string) ([]contracts.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	open := make([]contracts.Order, 0)
	for _, o := range l.orders[accountID] {
		if o.IsOpen() {
			open = append(open, o)
		}
	}
	return open, nil
}
