// Package main provides the lispy command.
package main

import (
	"os"

	"github.com/leapstack-labs/lispy/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
