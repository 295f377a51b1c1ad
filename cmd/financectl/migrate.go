package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "create or update the ledger schema" }
func (*migrateCmd) Usage() string {
	return `migrate

  Opens the store selected by STORE_DRIVER and brings its schema up to date.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, _, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error migrating store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	if err := st.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error reaching store: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintln(stdout, "schema is up to date")
	return subcommands.ExitSuccess
}
