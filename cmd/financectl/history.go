package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"finance/internal/domain"
	"finance/internal/report"
)

type historyCmd struct {
	username string
	symbol   string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display a user's transactions" }
func (*historyCmd) Usage() string {
	return `history -u <username> [-s <symbol>]

  Displays every buy and sell of one user, oldest first.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "username to report on")
	f.StringVar(&c.symbol, "s", "", "only show trades of this symbol")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.username == "" {
		fmt.Fprintln(os.Stderr, "-u is required")
		return subcommands.ExitUsageError
	}

	st, balance, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	user, trading, err := lookupUser(ctx, st, c.username, balance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	txs, err := trading.GetHistory(ctx, user.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading history: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.symbol != "" {
		symbol := domain.NormalizeSymbol(c.symbol)
		filtered := txs[:0]
		for _, tx := range txs {
			if tx.Symbol == symbol {
				filtered = append(filtered, tx)
			}
		}
		txs = filtered
	}

	printMarkdown(report.History(user.Username, txs))
	return subcommands.ExitSuccess
}
