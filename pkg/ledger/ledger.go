// Package ledger records the history of pipeline runs and of every task
// they executed.
package ledger

import (
	"context"
	"time"
)

// Status of a run or a task.
type Status string

const (
	Running   Status = "running"
	Succeeded Status = "succeeded"
	Failed    Status = "failed"
)

// RunRecord is one execution of a command.
type RunRecord struct {
	ID         string
	Command    string
	Status     Status
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
}

// TaskRecord is the final outcome of a task of a run.
type TaskRecord struct {
	// ID identifies the task within its run. Recording the same ID twice
	// replaces the first outcome.
	ID       string
	RunID    string
	Flow     string
	Task     string
	Status   Status
	Attempts int
	Duration time.Duration
	Error    string
	At       time.Time
}

// Recorder persists run history. Implementations are safe for concurrent
// use.
type Recorder interface {
	// RecordRun inserts or updates a run by its ID.
	RecordRun(ctx context.Context, r RunRecord) error

	// RecordTask inserts or updates a task outcome by its ID.
	RecordTask(ctx context.Context, t TaskRecord) error

	// Recent returns the last n runs, newest first.
	Recent(ctx context.Context, n int) ([]RunRecord, error)

	// Tasks returns task outcomes of a run in the order they finished.
	Tasks(ctx context.Context, runID string) ([]TaskRecord, error)

	// Close releases the storage.
	Close() error
}
