// Package main provides the CLI entry point for xltutor.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xltutor",
		Short: "Practice spreadsheet formulas and lookups",
		Long: `xltutor evaluates practice sheets, simulates XLOOKUP/VLOOKUP searches,
serves the tutor API and runs an interactive terminal sandbox.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newEvalCmd(),
		newLookupCmd(),
		newSandboxCmd(),
		newImportCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
