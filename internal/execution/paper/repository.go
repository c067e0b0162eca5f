package paper

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/graham/internal/contracts"
)

//go:embed schema.sql
var schemaSQL string

// execer is satisfied by both the pool and a transaction
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Repository is a PostgreSQL ledger
// ⭐ SSOT: 모의 계좌 DB 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

var _ Ledger = (*Repository)(nil)

// NewRepository creates a new ledger repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the paper schema if missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create paper schema: %w", err)
	}
	return nil
}

// LoadAccount reads the account and its positions
func (r *Repository) LoadAccount(ctx context.Context, accountID string) (*Account, error) {
	account := &Account{Positions: make(map[string]*Position)}

	err := r.pool.QueryRow(ctx,
		`SELECT id, cash, updated_at FROM paper.accounts WHERE id = $1`,
		accountID,
	).Scan(&account.ID, &account.Cash, &account.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT symbol, qty, mark FROM paper.positions WHERE account_id = $1 ORDER BY symbol`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pos Position
		if err := rows.Scan(&pos.Symbol, &pos.Qty, &pos.Mark); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		account.Positions[pos.Symbol] = &pos
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate positions: %w", err)
	}

	return account, nil
}

// SaveAccount upserts the account and replaces its positions
func (r *Repository) SaveAccount(ctx context.Context, account *Account) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := saveAccount(ctx, tx, account); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit account: %w", err)
	}

	return nil
}

// SaveSettlement writes the fills and the account in one transaction
func (r *Repository) SaveSettlement(ctx context.Context, account *Account, fills []contracts.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range fills {
		if err := saveOrder(ctx, tx, account.ID, &fills[i]); err != nil {
			return err
		}
	}

	if err := saveAccount(ctx, tx, account); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}

	return nil
}

// SaveOrder saves an order, updating status on conflict
func (r *Repository) SaveOrder(ctx context.Context, accountID string, order *contracts.Order) error {
	return saveOrder(ctx, r.pool, accountID, order)
}

func saveAccount(ctx context.Context, tx pgx.Tx, account *Account) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO paper.accounts (id, cash, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			cash = EXCLUDED.cash,
			updated_at = EXCLUDED.updated_at
	`, account.ID, account.Cash, account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM paper.positions WHERE account_id = $1`, account.ID); err != nil {
		return fmt.Errorf("failed to clear positions: %w", err)
	}

	for _, pos := range account.SortedPositions() {
		_, err := tx.Exec(ctx,
			`INSERT INTO paper.positions (account_id, symbol, qty, mark) VALUES ($1, $2, $3, $4)`,
			account.ID, pos.Symbol, pos.Qty, pos.Mark,
		)
		if err != nil {
			return fmt.Errorf("failed to save position %s: %w", pos.Symbol, err)
		}
	}

	return nil
}

func saveOrder(ctx context.Context, db execer, accountID string, order *contracts.Order) error {
	query := `
		INSERT INTO paper.orders (
			order_id, account_id, symbol, side, qty, price, target_weight,
			order_type, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (order_id) DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`

	_, err := db.Exec(ctx, query,
		order.ID, accountID, order.Symbol, string(order.Side), order.Qty, order.Price,
		order.TargetWeight, string(order.OrderType), string(order.Status),
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	return nil
}

// LoadOpenOrders returns submitted orders in creation order
func (r *Repository) LoadOpenOrders(ctx context.Context, accountID string) ([]contracts.Order, error) {
	query := `
		SELECT order_id, symbol, side, qty, price, target_weight,
		       order_type, status, created_at, updated_at
		FROM paper.orders
		WHERE account_id = $1 AND status = $2
		ORDER BY created_at ASC, order_id ASC
	`

	rows, err := r.pool.Query(ctx, query, accountID, string(contracts.StatusSubmitted))
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]contracts.Order, 0)

	for rows.Next() {
		var (
			order                   contracts.Order
			side, orderType, status string
		)
		err := rows.Scan(
			&order.ID, &order.Symbol, &side, &order.Qty, &order.Price, &order.TargetWeight,
			&orderType, &status, &order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		order.Side = contracts.OrderSide(side)
		order.OrderType = contracts.OrderType(orderType)
		order.Status = contracts.Status(status)
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, nil
}
