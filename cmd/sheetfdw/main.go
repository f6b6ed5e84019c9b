// Package main provides the sheetfdw CLI.
package main

import (
	"os"

	"github.com/ideamans/go-sheetfdw/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
