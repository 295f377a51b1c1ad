package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/internal/database"
	"finance/internal/domain"
)

// setupPool connects to TEST_DATABASE_URL and empties the ledger tables
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.RunMigrations(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE users, holdings, transactions CASCADE`)
	require.NoError(t, err)

	return pool
}

func newUser(t *testing.T, repo domain.UserRepository, username string) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: "hash",
		Cash:         decimal.NewFromInt(10000),
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepository(t *testing.T) {
	pool := setupPool(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	user := newUser(t, repo, "alice")

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.True(t, got.Cash.Equal(user.Cash))

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Create(ctx, &domain.User{ID: uuid.New(), Username: "alice", PasswordHash: "x", Cash: decimal.Zero, CreatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestLedgerRepository_WithinTx(t *testing.T) {
	pool := setupPool(t)
	users := NewUserRepository(pool)
	ledger := NewLedgerRepository(pool)
	ctx := context.Background()

	user := newUser(t, users, "bob")
	now := time.Now().UTC().Truncate(time.Microsecond)

	err := ledger.WithinTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
		cash, err := tx.LockCash(ctx, user.ID)
		if err != nil {
			return err
		}

		h := domain.NewHolding(user.ID, "AAPL", "Apple Inc.")
		h.ApplyBuy(5, decimal.NewFromInt(100), now)
		if err := tx.UpsertHolding(ctx, h); err != nil {
			return err
		}
		if err := tx.SetCash(ctx, user.ID, cash.Sub(decimal.NewFromInt(500))); err != nil {
			return err
		}
		return tx.AppendTransaction(ctx, &domain.Transaction{
			ID: uuid.New(), UserID: user.ID, Symbol: "AAPL", Shares: 5, Price: decimal.NewFromInt(100), ExecutedAt: now,
		})
	})
	require.NoError(t, err)

	cash, err := ledger.GetCash(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, cash.Equal(decimal.NewFromInt(9500)))

	h, err := ledger.GetHolding(ctx, user.ID, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(5), h.Shares)

	symbols, err := ledger.ListSymbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, symbols)

	txs, err := ledger.ListTransactions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(5), txs[0].Shares)
}

func TestLedgerRepository_WithinTxRollsBack(t *testing.T) {
	pool := setupPool(t)
	users := NewUserRepository(pool)
	ledger := NewLedgerRepository(pool)
	ctx := context.Background()

	user := newUser(t, users, "carol")

	err := ledger.WithinTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
		if err := tx.SetCash(ctx, user.ID, decimal.Zero); err != nil {
			return err
		}
		return tx.DeleteHolding(ctx, user.ID, "MSFT")
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cash, err := ledger.GetCash(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, cash.Equal(decimal.NewFromInt(10000)))
}
