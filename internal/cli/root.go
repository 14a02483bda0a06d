package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "synheart-hrv",
	Short: "Synheart HRV - heart rate variability analysis engine",
	Long: `Synheart HRV analyzes R-R interval streams into heart rate
variability metrics: time-domain statistics, spectral band powers,
confidence classification, and flow-state assessment.

It works on recorded sessions, vendor exports, and live synthetic
streams for local SDK development.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(receiverCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}
