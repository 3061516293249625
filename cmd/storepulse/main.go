// Package main is the storepulse CLI: serve runs the HTTP API, ingest and
// audit run offline scoring passes over raw exports, seed loads demo data,
// and token mints development bearer tokens.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "storepulse",
	Short:   "Evaluation scoring and action-plan lifecycle engine",
	Version: Version,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
