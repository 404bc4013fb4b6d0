package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/benredmond/stratval/internal/config"
)

var policyForce bool

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage validation policy tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var policyInitCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Write the default policy tables to .stratval/policy.yaml",
	Long: `Write the compiled-in policy tables (instrument allowlists, keyword
lists, and the sector table) to .stratval/policy.yaml so they can be
audited and overridden without a rebuild.

The directory argument is optional and defaults to the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPolicyInit,
}

func init() {
	policyInitCmd.Flags().BoolVar(&policyForce, "force", false, "Overwrite an existing policy file")
	policyCmd.AddCommand(policyInitCmd)
}

func runPolicyInit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}
	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("resolving absolute path: %w", err)
	}

	path := filepath.Join(absPath, ".stratval", "policy.yaml")
	if _, err := os.Stat(path); err == nil && !policyForce {
		fmt.Printf("Policy file already exists at %s. Use --force to overwrite.\n", path)
		return nil
	}

	if err := config.SeedPolicyFile(path); err != nil {
		return err
	}
	printStatus("✓", fmt.Sprintf("Wrote default policy tables to %s", path), color.FgGreen)
	return nil
}
