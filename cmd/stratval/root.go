package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stratval",
	Short: "Strategy Candidate Validation Engine",
	Long: `Stratval validates batches of generated trading strategy candidates,
scores their quality, and optionally repairs flawed narratives through a
single bounded regeneration round-trip.

Core capabilities:
- Structural syntax checks on weights, logic trees, and asset references
- Threshold hygiene classification of entry/exit conditions
- Archetype, frequency, and thesis coherence checks
- Leveraged-ETF thesis justification requirements
- Concentration warnings and a five-dimension quality score`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(versionCmd)
}
