package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/benredmond/stratval/internal/config"
	"github.com/benredmond/stratval/internal/generate"
	"github.com/benredmond/stratval/internal/repair"
	"github.com/benredmond/stratval/internal/scoring"
	"github.com/benredmond/stratval/internal/sector"
	"github.com/benredmond/stratval/internal/state"
	"github.com/benredmond/stratval/internal/validation"
	"github.com/benredmond/stratval/pkg/models"
)

var (
	validateRepair  bool
	validateRecord  bool
	validateJSON    bool
	validateConfig  string
	validateTimeout time.Duration
)

var validateCmd = &cobra.Command{
	Use:   "validate <candidates.json>",
	Short: "Validate a candidate batch",
	Long: `Validate a batch of strategy candidates from a JSON file.

Runs the full validator suite, scores every candidate, and prints a
report. With --repair, blocking findings trigger a single regeneration
round-trip through the Anthropic API; if the repaired batch violates
any structural invariant the original batch is kept and the findings
are reported as warnings.

Examples:
  stratval validate candidates.json
  stratval validate candidates.json --repair
  stratval validate candidates.json --record --json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateRepair, "repair", false, "Attempt one repair round-trip for blocking findings")
	validateCmd.Flags().BoolVar(&validateRecord, "record", false, "Record the run in the project history database")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Emit the report as JSON instead of text")
	validateCmd.Flags().StringVar(&validateConfig, "config", "", "Path to a config file (overrides discovery)")
	validateCmd.Flags().DurationVar(&validateTimeout, "timeout", 2*time.Minute, "Timeout for the repair round-trip")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig(validateConfig)
	if err != nil {
		return err
	}

	batch, err := readBatch(args[0])
	if err != nil {
		return err
	}

	var regen repair.Regenerator
	var client *generate.Client
	if validateRepair {
		client, err = generate.NewClient(cfg.Anthropic)
		if err != nil {
			return fmt.Errorf("configuring repair: %w", err)
		}
		regen = client
	}

	started := time.Now()
	outcome, scores, err := runPipeline(cmd.Context(), cfg, regen, batch)
	if err != nil {
		return err
	}

	if client != nil && client.Tracker().Calls() > 0 {
		in, out := client.Tracker().Total()
		fmt.Fprintf(os.Stderr, "repair used %d input / %d output tokens over %d call(s)\n",
			in, out, client.Tracker().Calls())
	}

	if validateJSON {
		if err := printJSONReport(outcome, scores); err != nil {
			return err
		}
	} else {
		printReport(outcome, scores)
	}

	if validateRecord {
		runID, err := recordRun(args[0], started, time.Since(started), outcome, scores)
		if err != nil {
			return fmt.Errorf("recording run: %w", err)
		}
		fmt.Fprintf(os.Stderr, "recorded run %s\n", runID)
	}

	if models.HasBlocking(outcome.Findings) {
		return fmt.Errorf("batch rejected: blocking findings remain")
	}
	return nil
}

// runPipeline wires the engine, orchestrator, and scorer together and
// runs one validation pass with the optional repair round-trip.
func runPipeline(ctx context.Context, cfg *config.Config, regen repair.Regenerator, batch []*models.Candidate) (repair.Outcome, []models.QualityScore, error) {
	engine := validation.NewEngine(cfg.Policy, sector.NewStaticLookup(cfg.Policy.Sectors))
	orch := repair.New(regen, engine.Validate)

	if regen != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, validateTimeout)
		defer cancel()
	}

	outcome, err := orch.Run(ctx, batch)
	if err != nil {
		return repair.Outcome{}, nil, fmt.Errorf("validating batch: %w", err)
	}

	scorer := scoring.New(cfg.Gate)
	scores := scorer.ScoreBatch(outcome.Batch, outcome.Findings)
	return outcome, scores, nil
}

// loadConfig loads an explicit --config file or walks the discovery
// chain.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// readBatch reads and unmarshals a candidate batch file.
func readBatch(path string) ([]*models.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading candidates: %w", err)
	}
	var batch []*models.Candidate
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parsing candidates: %w", err)
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("candidate file %s is empty", path)
	}
	return batch, nil
}

// recordRun persists the pass to the project history database.
func recordRun(source string, started time.Time, elapsed time.Duration, outcome repair.Outcome, scores []models.QualityScore) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	db, err := state.OpenProject(cwd)
	if err != nil {
		return "", err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return "", fmt.Errorf("migrate database: %w", err)
	}

	return db.RecordRun(state.RunRecord{
		Source:         source,
		Repaired:       outcome.Repaired,
		FallbackReason: outcome.FallbackReason,
		StartedAt:      started,
		Duration:       elapsed,
		Batch:          outcome.Batch,
		Findings:       outcome.Findings,
		Scores:         scores,
	})
}
