// Package main provides the cncc naming convention checker.
package main

import (
	"os"

	"github.com/leapstack-labs/cncc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
