package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/configs"
	"finance/internal/domain"
	"finance/internal/store"
)

// setupLedger points the commands at a shared in-memory database seeded with one trade
func setupLedger(t *testing.T) *bytes.Buffer {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	t.Setenv("STORE_DRIVER", configs.DriverSQLite)
	t.Setenv("SQLITE_PATH", dsn)
	t.Setenv("STARTING_BALANCE", "10000")

	// Held open so the in-memory database outlives each command's own connection.
	st, err := store.Open(ctx, configs.DatabaseConfig{Driver: configs.DriverSQLite, SQLitePath: dsn})
	require.NoError(t, err)
	t.Cleanup(st.Close)

	user := &domain.User{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: "x",
		Cash:         decimal.NewFromInt(10000),
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, st.Users.Create(ctx, user))

	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	price := decimal.NewFromInt(500)
	err = st.Ledger.WithinTx(ctx, func(ctx context.Context, tx domain.LedgerTx) error {
		h := domain.NewHolding(user.ID, "NFLX", "Netflix Inc.")
		h.ApplyBuy(2, price, at)
		if err := tx.SetCash(ctx, user.ID, decimal.NewFromInt(9000)); err != nil {
			return err
		}
		if err := tx.UpsertHolding(ctx, h); err != nil {
			return err
		}
		return tx.AppendTransaction(ctx, &domain.Transaction{
			ID: uuid.New(), UserID: user.ID, Symbol: "NFLX", Shares: 2, Price: price, ExecutedAt: at,
		})
	})
	require.NoError(t, err)

	var out bytes.Buffer
	prev := stdout
	stdout = &out
	*rawOutput = true
	t.Cleanup(func() {
		stdout = prev
		*rawOutput = false
	})
	return &out
}

func TestPortfolioCmd(t *testing.T) {
	out := setupLedger(t)

	status := (&portfolioCmd{username: "alice"}).Execute(context.Background(), flag.NewFlagSet("portfolio", flag.ContinueOnError))

	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out.String(), "| NFLX | Netflix Inc. | 2 | $500.00 | $500.00 | $1,000.00 |")
	assert.Contains(t, out.String(), "| Cash | $9,000.00 |")
}

func TestPortfolioCmd_UnknownUser(t *testing.T) {
	setupLedger(t)

	status := (&portfolioCmd{username: "nobody"}).Execute(context.Background(), flag.NewFlagSet("portfolio", flag.ContinueOnError))
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestPortfolioCmd_MissingUser(t *testing.T) {
	status := (&portfolioCmd{}).Execute(context.Background(), flag.NewFlagSet("portfolio", flag.ContinueOnError))
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestHistoryCmd(t *testing.T) {
	out := setupLedger(t)

	status := (&historyCmd{username: "alice", symbol: "nflx"}).Execute(context.Background(), flag.NewFlagSet("history", flag.ContinueOnError))

	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out.String(), "| 2024-03-01 09:30:00 | BUY | NFLX | 2 | $500.00 |")
}

func TestHistoryCmd_FilterExcludesOtherSymbols(t *testing.T) {
	out := setupLedger(t)

	status := (&historyCmd{username: "alice", symbol: "AAPL"}).Execute(context.Background(), flag.NewFlagSet("history", flag.ContinueOnError))

	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out.String(), "_No transactions._")
}

func TestMigrateCmd(t *testing.T) {
	out := setupLedger(t)

	status := (&migrateCmd{}).Execute(context.Background(), flag.NewFlagSet("migrate", flag.ContinueOnError))

	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out.String(), "schema is up to date")
}
