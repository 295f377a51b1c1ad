package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"finance/internal/domain"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const holdingColumns = `user_id, symbol, name, shares, price, avg_cost, total_value, updated_at`

// LedgerRepositoryImpl implements the LedgerRepository interface
type LedgerRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) domain.LedgerRepository {
	return &LedgerRepositoryImpl{db: db}
}

// WithinTx runs fn in a read-committed transaction
func (r *LedgerRepositoryImpl) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.LedgerTx) error) error {
	return pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(ctx, &ledgerTx{q: tx})
	})
}

// GetCash returns the user's cash balance
func (r *LedgerRepositoryImpl) GetCash(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return getCash(ctx, r.db, userID, false)
}

// GetHolding retrieves one holding of a user
func (r *LedgerRepositoryImpl) GetHolding(ctx context.Context, userID uuid.UUID, symbol string) (*domain.Holding, error) {
	return getHolding(ctx, r.db, userID, symbol)
}

// ListHoldings retrieves all holdings of a user
func (r *LedgerRepositoryImpl) ListHoldings(ctx context.Context, userID uuid.UUID) ([]*domain.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holdings WHERE user_id = $1 ORDER BY symbol ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]*domain.Holding, 0)
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// ListTransactions retrieves the history of a user, oldest first
func (r *LedgerRepositoryImpl) ListTransactions(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, symbol, shares, price, executed_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY executed_at ASC, seq ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]*domain.Transaction, 0)
	for rows.Next() {
		t := &domain.Transaction{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.Symbol, &t.Shares, &t.Price, &t.ExecutedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}

// ListSymbols retrieves the distinct symbols held by any user
func (r *LedgerRepositoryImpl) ListSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT symbol FROM holdings ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list symbols: %w", err)
	}

	symbols, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect symbols: %w", err)
	}

	return symbols, nil
}

// ledgerTx implements domain.LedgerTx on top of a pgx transaction
type ledgerTx struct {
	q querier
}

func (t *ledgerTx) LockCash(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return getCash(ctx, t.q, userID, true)
}

func (t *ledgerTx) SetCash(ctx context.Context, userID uuid.UUID, cash decimal.Decimal) error {
	tag, err := t.q.Exec(ctx, `UPDATE users SET cash = $1 WHERE id = $2`, cash, userID)
	if err != nil {
		return fmt.Errorf("failed to update cash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *ledgerTx) GetHolding(ctx context.Context, userID uuid.UUID, symbol string) (*domain.Holding, error) {
	return getHolding(ctx, t.q, userID, symbol)
}

func (t *ledgerTx) UpsertHolding(ctx context.Context, h *domain.Holding) error {
	query := `
		INSERT INTO holdings (` + holdingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, symbol) DO UPDATE SET
			name = EXCLUDED.name,
			shares = EXCLUDED.shares,
			price = EXCLUDED.price,
			avg_cost = EXCLUDED.avg_cost,
			total_value = EXCLUDED.total_value,
			updated_at = EXCLUDED.updated_at
	`

	_, err := t.q.Exec(ctx, query,
		h.UserID,
		h.Symbol,
		h.Name,
		h.Shares,
		h.Price,
		h.AvgCost,
		h.TotalValue,
		h.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}

	return nil
}

func (t *ledgerTx) DeleteHolding(ctx context.Context, userID uuid.UUID, symbol string) error {
	tag, err := t.q.Exec(ctx, `DELETE FROM holdings WHERE user_id = $1 AND symbol = $2`, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *ledgerTx) AppendTransaction(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, symbol, shares, price, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := t.q.Exec(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Symbol,
		tx.Shares,
		tx.Price,
		tx.ExecutedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	return nil
}

func getCash(ctx context.Context, q querier, userID uuid.UUID, forUpdate bool) (decimal.Decimal, error) {
	query := `SELECT cash FROM users WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var cash decimal.Decimal
	if err := q.QueryRow(ctx, query, userID).Scan(&cash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to get cash: %w", err)
	}

	return cash, nil
}

func getHolding(ctx context.Context, q querier, userID uuid.UUID, symbol string) (*domain.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holdings WHERE user_id = $1 AND symbol = $2`

	h, err := scanHolding(q.QueryRow(ctx, query, userID, symbol))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}

	return h, nil
}

func scanHolding(row pgx.Row) (*domain.Holding, error) {
	h := &domain.Holding{}
	err := row.Scan(
		&h.UserID,
		&h.Symbol,
		&h.Name,
		&h.Shares,
		&h.Price,
		&h.AvgCost,
		&h.TotalValue,
		&h.UpdatedAt,
	)
	return h, err
}
