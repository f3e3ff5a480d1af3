// Package main is the entry point for the wtd binary.
//
// It delegates all functionality to internal/cli, which defines the root
// cobra command. The "wt" binary (cmd/wt) wires the same root command
// under a shorter alias name.
package main

import (
	"github.com/mmr-tortoise/wtd/internal/cli"
)

// version, commit, and date are set by GoReleaser at build time via
// ldflags. They default to these values during local development.
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
	cli.Execute(root)
}
