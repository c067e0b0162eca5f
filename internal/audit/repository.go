package audit

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// Repository handles audit data persistence
// ⭐ SSOT: Audit 데이터 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

var _ Store = (*Repository)(nil)

// NewRepository creates a new audit repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the audit schema if missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create audit schema: %w", err)
	}
	return nil
}

const snapshotColumns = `date, total_value, cash, positions, stocks, config_hash, strategy_id, config_yaml, daily_return, cum_return`

// SaveSnapshot saves daily snapshot to database
func (r *Repository) SaveSnapshot(ctx context.Context, snapshot *DailySnapshot) error {
	positionsJSON, err := json.Marshal(snapshot.Positions)
	if err != nil {
		return fmt.Errorf("failed to marshal positions: %w", err)
	}

	query := `
		INSERT INTO audit.daily_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (date) DO UPDATE SET
			total_value = EXCLUDED.total_value,
			cash = EXCLUDED.cash,
			positions = EXCLUDED.positions,
			stocks = EXCLUDED.stocks,
			config_hash = EXCLUDED.config_hash,
			strategy_id = EXCLUDED.strategy_id,
			config_yaml = EXCLUDED.config_yaml,
			daily_return = EXCLUDED.daily_return,
			cum_return = EXCLUDED.cum_return
	`

	stocks := snapshot.Stocks
	if stocks == nil {
		stocks = []string{}
	}

	_, err = r.pool.Exec(ctx, query,
		snapshot.Date, snapshot.TotalValue, snapshot.Cash, positionsJSON,
		stocks, snapshot.ConfigHash, snapshot.StrategyID, snapshot.ConfigYAML,
		snapshot.DailyReturn, snapshot.CumReturn,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// GetPreviousSnapshot retrieves the latest snapshot before date
func (r *Repository) GetPreviousSnapshot(ctx context.Context, date time.Time) (*DailySnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM audit.daily_snapshots
		WHERE date < $1
		ORDER BY date DESC
		LIMIT 1
	`

	snapshot, err := scanSnapshot(r.pool.QueryRow(ctx, query, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get previous snapshot: %w", err)
	}
	return snapshot, nil
}

// GetSnapshotHistory retrieves snapshots for a period, oldest first
func (r *Repository) GetSnapshotHistory(ctx context.Context, start, end time.Time) ([]DailySnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM audit.daily_snapshots
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`

	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]DailySnapshot, 0)
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, *snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return snapshots, nil
}

func scanSnapshot(row pgx.Row) (*DailySnapshot, error) {
	var (
		s             DailySnapshot
		positionsJSON []byte
	)

	err := row.Scan(&s.Date, &s.TotalValue, &s.Cash, &positionsJSON,
		&s.Stocks, &s.ConfigHash, &s.StrategyID, &s.ConfigYAML, &s.DailyReturn, &s.CumReturn)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(positionsJSON, &s.Positions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal positions: %w", err)
	}

	return &s, nil
}
