package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docpipe/config"
	"docpipe/internal/adapter/store"
	"docpipe/internal/domain"
)

var runsRunID string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show pipeline execution logs",
	Long: `Print per-step execution records for pipeline runs.

Examples:
  docpipe runs
  docpipe runs --run-id 3f2a...`,
	RunE: runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().StringVar(&runsRunID, "run-id", "", "show only this run")
}

func runRuns(cmd *cobra.Command, args []string) error {
	rootDir := GetRootDir()

	dbPath := config.DBPath(rootDir)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("no document store found. Run 'docpipe ingest' first")
	}

	db, err := store.OpenBolt(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	execLog, err := store.NewBoltExecutionLog(db)
	if err != nil {
		return err
	}

	var entries []domain.StepLog
	if runsRunID != "" {
		entries, err = execLog.ByRun(runsRunID)
	} else {
		entries, err = execLog.All()
	}
	if err != nil {
		return fmt.Errorf("failed to read execution log: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No execution records found.")
		return nil
	}

	lastRun := ""
	for _, e := range entries {
		if e.RunID != lastRun {
			fmt.Printf("run %s (document %s)\n", e.RunID, e.DocumentID)
			lastRun = e.RunID
		}
		line := fmt.Sprintf("  %s  %-9s %-8s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Step, e.Status)
		if e.Message != "" {
			line += "  " + e.Message
		}
		fmt.Println(line)
	}

	return nil
}
