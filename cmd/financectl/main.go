// Command financectl inspects and maintains the trading ledger offline.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// register adds the ledger subcommands
func register(c *subcommands.Commander) {
	c.Register(&migrateCmd{}, "store")

	c.Register(&portfolioCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
}
