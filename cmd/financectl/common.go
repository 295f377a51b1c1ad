package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"finance/configs"
	"finance/internal/adapter/kafka"
	"finance/internal/domain"
	"finance/internal/infra"
	"finance/internal/store"
	"finance/internal/usecase"
)

var rawOutput = flag.Bool("raw", false, "print reports as plain markdown")

var stdout io.Writer = os.Stdout

// openLedger loads the store settings and opens the configured backend
func openLedger(ctx context.Context) (*store.Store, decimal.Decimal, error) {
	cfg, err := configs.LoadStore()
	if err != nil {
		return nil, decimal.Zero, err
	}

	if err := infra.SetupLogging(cfg.Log.Level, false); err != nil {
		return nil, decimal.Zero, err
	}

	balance, err := cfg.Trading.Balance()
	if err != nil {
		return nil, decimal.Zero, err
	}

	st, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to open store: %w", err)
	}
	return st, balance, nil
}

// lookupUser resolves a username for the report commands
func lookupUser(ctx context.Context, st *store.Store, username string, balance decimal.Decimal) (*domain.User, *usecase.TradingService, error) {
	user, err := st.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("user %q: %w", username, err)
	}

	// Reports only read the ledger, so no quote provider is needed.
	trading := usecase.NewTradingService(st.Ledger, nil, kafka.NoopPublisher{}, balance)
	return user, trading, nil
}

// printMarkdown writes md styled for the terminal, or as-is with -raw
func printMarkdown(md string) {
	if *rawOutput {
		fmt.Fprint(stdout, md)
		return
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}

	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
