// Package main provides the leapdplyr command, a dplyr to SQL transpiler.
package main

import (
	"os"

	"github.com/leapstack-labs/leapdplyr/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
