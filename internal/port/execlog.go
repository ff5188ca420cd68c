package port

import "docpipe/internal/domain"

// ExecutionLog records per-step pipeline execution metadata.
type ExecutionLog interface {
	Append(entry domain.StepLog) error

	// ByRun returns the entries for one run in chronological order.
	ByRun(runID string) ([]domain.StepLog, error)

	// All returns every entry, grouped by run and chronological within a run.
	All() ([]domain.StepLog, error)
}
