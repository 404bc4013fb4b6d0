package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/benredmond/stratval/internal/state"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "Show recorded validation runs",
	Long: `Display validation runs recorded with --record.

With no arguments, lists the most recent runs. With a run ID, shows
the findings and scores recorded for that run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")
}

func runRuns(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	dbPath := state.ProjectDBPath(cwd)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No recorded runs. Run 'stratval validate --record' first.")
		return nil
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	if len(args) == 1 {
		return showRun(db, args[0])
	}
	return listRuns(db)
}

func listRuns(db *state.DB) error {
	runs, err := db.ListRuns(runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs. Run 'stratval validate --record' first.")
		return nil
	}

	fmt.Println("Recent runs:")
	for _, r := range runs {
		verdict := "clean"
		if r.BlockingCount > 0 {
			verdict = fmt.Sprintf("%d blocking", r.BlockingCount)
		}
		if r.Repaired {
			verdict += ", repaired"
		}
		fmt.Printf("  %s  %s  %d candidates  %s  (%s ago)\n",
			r.ID, r.Source, r.CandidateCount, verdict,
			formatDuration(time.Since(r.StartedAt)))
	}
	return nil
}

func showRun(db *state.DB, runID string) error {
	findings, err := db.RunFindings(runID)
	if err != nil {
		return err
	}
	scores, err := db.RunScores(runID)
	if err != nil {
		return err
	}

	if len(findings) == 0 && len(scores) == 0 {
		fmt.Printf("No data recorded for run %s.\n", runID)
		return nil
	}

	fmt.Printf("Run %s\n\nFindings:\n", runID)
	if len(findings) == 0 {
		fmt.Println("  none")
	}
	for _, f := range findings {
		fmt.Printf("  %s\n", f)
	}

	fmt.Println("\nScores:")
	for _, s := range scores {
		gate := "fail"
		if s.PassesGate {
			gate = "pass"
		}
		fmt.Printf("  %s: %.2f (%s)\n", s.CandidateRef, s.Overall, gate)
	}
	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	days := int(d.Hours()) / 24
	return fmt.Sprintf("%dd", days)
}
