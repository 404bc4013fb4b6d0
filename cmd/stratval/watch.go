package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchConfig string

var watchCmd = &cobra.Command{
	Use:   "watch <candidates.json>",
	Short: "Re-validate a candidate file on every change",
	Long: `Watch a candidate JSON file and re-run validation whenever it is
written. Repair is disabled in watch mode; the report shows what the
current file contents would produce.

Press Ctrl-C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchConfig, "config", "", "Path to a config file (overrides discovery)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	cfg, err := loadConfig(watchConfig)
	if err != nil {
		return err
	}

	revalidate := func() {
		batch, err := readBatch(path)
		if err != nil {
			printStatusErr(err)
			return
		}
		outcome, scores, err := runPipeline(cmd.Context(), cfg, nil, batch)
		if err != nil {
			printStatusErr(err)
			return
		}
		fmt.Printf("\n--- %s at %s ---\n", filepath.Base(path), time.Now().Format("15:04:05"))
		printReport(outcome, scores)
	}

	revalidate()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file by rename,
	// which drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	fmt.Printf("watching %s for changes...\n", path)

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Let the writer finish before reading the file back.
			time.Sleep(100 * time.Millisecond)
			revalidate()
		case <-watcher.Errors:
			// Ignore errors, keep watching
		}
	}
}

func printStatusErr(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}
