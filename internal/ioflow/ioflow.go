// Package ioflow assembles the silver, gold and export flows as task
// graphs over the object store and the serving document store, and runs
// them one after another.
package ioflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
	"github.com/kpilake/kpilake/internal/ioexport"
	"github.com/kpilake/kpilake/internal/iolayer"
	"github.com/kpilake/kpilake/internal/iometrics"
	"github.com/kpilake/kpilake/pkg/config"
	"github.com/kpilake/kpilake/pkg/dag"
	"github.com/kpilake/kpilake/pkg/errcode"
	"github.com/kpilake/kpilake/pkg/ledger"
	"github.com/kpilake/kpilake/pkg/store"
)

// Flow names a group of tasks executed as one graph.
type Flow string

const (
	Silver Flow = "silver"
	Gold   Flow = "gold"
	Export Flow = "export"
)

// AllFlows is the order of a full pipeline run.
var AllFlows = []Flow{Silver, Gold, Export}

// ParseFlow converts a flow name.
func ParseFlow(s string) (Flow, error) {
	switch f := Flow(s); f {
	case Silver, Gold, Export:
		return f, nil
	default:
		return "", UnknownFlowError(s)
	}
}

// ioRetries is the number of extra attempts of tasks that talk to a
// store.
const ioRetries = 2

// retryable keeps failures of the object and document stores eligible
// for another attempt. Any other error, like a malformed object, is
// permanent.
func retryable(err error) error {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		switch gnErr.Code {
		case errcode.ObjectStoreConnectionError,
			errcode.ObjectStoreBucketError,
			errcode.ObjectStoreReadError,
			errcode.ObjectStoreWriteError,
			errcode.ObjectStoreListError,
			errcode.DocumentStoreConnectionError,
			errcode.DocumentStoreWriteError,
			errcode.DocumentStoreReadError:
			return err
		}
	}
	return dag.Permanent(err)
}

// Pipeline runs flows and records their history.
type Pipeline struct {
	cfg      *config.Config
	layer    *iolayer.Layer
	exporter *ioexport.Exporter
	ledger   ledger.Recorder
	metrics  *iometrics.Metrics
	datasets []Dataset
	runID    string

	docs     store.DocumentStore
	progress io.Writer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// OptDocumentStore sets the serving store. Without it the export flow
// cannot run.
func OptDocumentStore(docs store.DocumentStore) Option {
	return func(p *Pipeline) {
		p.docs = docs
	}
}

// OptLedger sets where runs and tasks are recorded.
func OptLedger(rec ledger.Recorder) Option {
	return func(p *Pipeline) {
		if rec != nil {
			p.ledger = rec
		}
	}
}

// OptMetrics sets the metrics collector.
func OptMetrics(m *iometrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// OptExportProgress draws export progress bars to w.
func OptExportProgress(w io.Writer) Option {
	return func(p *Pipeline) {
		p.progress = w
	}
}

// OptDatasets replaces the datasets of the silver flow.
func OptDatasets(ds ...Dataset) Option {
	return func(p *Pipeline) {
		p.datasets = ds
	}
}

// New creates a Pipeline reading and writing the layers of the object
// store. Every Pipeline gets its own run ID.
func New(
	cfg *config.Config,
	objects store.ObjectStore,
	opts ...Option,
) *Pipeline {
	res := &Pipeline{
		cfg:      cfg,
		layer:    iolayer.New(objects),
		ledger:   noLedger{},
		datasets: Datasets,
		runID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(res)
	}
	if res.docs != nil {
		res.exporter = ioexport.New(res.docs, cfg.Export,
			ioexport.OptProgress(res.progress))
	}
	return res
}

// RunID identifies the run in the ledger.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Run executes flows in order under the command name and stops at the
// first failing flow. Artifacts written before the failure stay in place.
func (p *Pipeline) Run(ctx context.Context, command string, flows ...Flow) error {
	run := ledger.RunRecord{
		ID:        p.runID,
		Command:   command,
		Status:    ledger.Running,
		StartedAt: time.Now().UTC(),
	}
	p.recordRun(ctx, run)

	var err error
	for _, f := range flows {
		if err = p.RunFlow(ctx, f); err != nil {
			break
		}
	}

	run.FinishedAt = time.Now().UTC()
	run.Status = ledger.Succeeded
	if err != nil {
		run.Status = ledger.Failed
		run.Error = err.Error()
	}
	p.recordRun(ctx, run)

	dur := run.FinishedAt.Sub(run.StartedAt)
	slog.Info("Run finished",
		"run_id", p.runID,
		"command", command,
		"status", run.Status,
		"duration", gnfmt.TimeString(dur.Seconds()),
	)
	return err
}

// RunFlow builds the graph of a flow and executes it.
func (p *Pipeline) RunFlow(ctx context.Context, f Flow) error {
	tasks, err := p.Tasks(f)
	if err != nil {
		return err
	}
	g, err := dag.New(tasks...)
	if err != nil {
		return err
	}

	gn.Info("Running <em>%s</em> flow (%d tasks)", f, g.Len())
	start := time.Now()
	exec := dag.NewExecutor(g,
		dag.WithWorkers(p.cfg.JobsNumber),
		dag.WithRetryDelay(p.cfg.RetryDelay),
		dag.WithObserver(p.observer(ctx, f)),
	)
	if err = exec.Run(ctx); err != nil {
		slog.Error("Flow failed", "flow", f, "error", err)
		return err
	}

	dur := gnfmt.TimeString(time.Since(start).Seconds())
	slog.Info("Flow finished", "flow", f, "duration", dur)
	gn.Info("Finished <em>%s</em> flow in %s", f, dur)
	return nil
}

// Tasks returns the tasks of a flow.
func (p *Pipeline) Tasks(f Flow) ([]dag.Task, error) {
	switch f {
	case Silver:
		return p.silverTasks(), nil
	case Gold:
		return p.goldTasks(), nil
	case Export:
		if p.exporter == nil {
			return nil, NoDocumentStoreError()
		}
		return p.exportTasks(), nil
	default:
		return nil, UnknownFlowError(string(f))
	}
}

func (p *Pipeline) observer(ctx context.Context, f Flow) func(dag.Result) {
	// history must be written even when the run is cancelled
	ctx = context.WithoutCancel(ctx)
	return func(r dag.Result) {
		rec := ledger.TaskRecord{
			ID:       taskID(p.runID, f, r.Name),
			RunID:    p.runID,
			Flow:     string(f),
			Task:     r.Name,
			Status:   ledger.Succeeded,
			Attempts: r.Attempts,
			Duration: r.Duration,
			At:       time.Now().UTC(),
		}
		attrs := []any{
			"flow", f,
			"task", r.Name,
			"attempts", r.Attempts,
			"duration", gnfmt.TimeString(r.Duration.Seconds()),
		}
		if r.Err != nil {
			rec.Status = ledger.Failed
			rec.Error = r.Err.Error()
			slog.Warn("Task failed", append(attrs, "error", r.Err)...)
		} else {
			slog.Info("Task finished", attrs...)
		}

		p.metrics.ObserveTask(string(f), r)
		if err := p.ledger.RecordTask(ctx, rec); err != nil {
			slog.Warn("Cannot record task", "task", r.Name, "error", err)
		}
	}
}

func (p *Pipeline) recordRun(ctx context.Context, r ledger.RunRecord) {
	if err := p.ledger.RecordRun(context.WithoutCancel(ctx), r); err != nil {
		slog.Warn("Cannot record run", "run_id", r.ID, "error", err)
	}
}

// taskID is stable for a task of a run.
func taskID(runID string, f Flow, task string) string {
	return gnuuid.New(fmt.Sprintf("%s/%s/%s", runID, f, task)).String()
}

// noLedger is used when no ledger is configured.
type noLedger struct{}

func (noLedger) RecordRun(context.Context, ledger.RunRecord) error { return nil }

func (noLedger) RecordTask(context.Context, ledger.TaskRecord) error { return nil }

func (noLedger) Recent(context.Context, int) ([]ledger.RunRecord, error) {
	return nil, nil
}

func (noLedger) Tasks(context.Context, string) ([]ledger.TaskRecord, error) {
	return nil, nil
}

func (noLedger) Close() error { return nil }
