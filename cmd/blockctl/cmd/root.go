// Package cmd implements the blockctl CLI commands using Cobra.
//
// blockctl inspects saved extraction payloads offline: the same
// flattening and projection the server runs, without standing one up.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blockctl",
	Short: "blockctl — inspect extracted block structures offline",
	Long: `blockctl flattens a saved extraction payload (the JSON the Marker API
returns, or a cached entry from the server's cache directory) and prints
the page-indexed block table or the overlay rectangles for one page.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
