// Package ioledger persists the run history of the pipeline. It
// implements ledger.Recorder on SQLite, on PostgreSQL, or not at all.
package ioledger

import (
	"context"
	"time"

	"github.com/kpilake/kpilake/pkg/config"
	"github.com/kpilake/kpilake/pkg/ledger"
)

// New opens the ledger backend selected by the configuration.
func New(ctx context.Context, cfg config.LedgerConfig) (ledger.Recorder, error) {
	switch cfg.Backend {
	case "none":
		return Noop{}, nil
	case "postgres":
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return OpenSQLite(ctx, cfg.Path)
	}
}

// Noop discards the history.
type Noop struct{}

var _ ledger.Recorder = Noop{}

func (Noop) RecordRun(context.Context, ledger.RunRecord) error { return nil }

func (Noop) RecordTask(context.Context, ledger.TaskRecord) error { return nil }

func (Noop) Close() error { return nil }

func (Noop) Recent(context.Context, int) ([]ledger.RunRecord, error) {
	return nil, nil
}

func (Noop) Tasks(context.Context, string) ([]ledger.TaskRecord, error) {
	return nil, nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.UnixMilli(v).UTC()
}
