// Package main is the entry point for the "wt" binary, a short alias of
// "wtd" that invokes the same root command (SPEC_FULL.md §6).
package main

import (
	"github.com/mmr-tortoise/wtd/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	root := cli.NewRootCommand()
	root.Use = "wt"
	cli.Execute(root)
}
