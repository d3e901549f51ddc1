package ioledger

import (
	"context"
	"database/sql"
	"path/filepath"
	"time"

	"github.com/kpilake/kpilake/internal/iofs"
	"github.com/kpilake/kpilake/pkg/ledger"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    command TEXT NOT NULL,
    status TEXT NOT NULL,
    started_at INTEGER NOT NULL,
    finished_at INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS tasks (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    run_id TEXT NOT NULL,
    flow TEXT NOT NULL,
    task TEXT NOT NULL,
    status TEXT NOT NULL,
    attempts INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS tasks_run_id_idx ON tasks (run_id);
`

type sqliteLedger struct {
	db *sql.DB
}

// OpenSQLite opens or creates the ledger file and its tables.
func OpenSQLite(ctx context.Context, path string) (ledger.Recorder, error) {
	path = filepath.Clean(path)
	if err := iofs.EnsureParentDir(path); err != nil {
		return nil, err
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, OpenError(path, err)
	}
	// one writer at a time, sqlite locks the whole file anyway
	db.SetMaxOpenConns(1)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, OpenError(path, err)
	}
	if _, err = db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, MigrateError(err)
	}
	return &sqliteLedger{db: db}, nil
}

func (l *sqliteLedger) RecordRun(ctx context.Context, r ledger.RunRecord) error {
	q := `
INSERT INTO runs (id, command, status, started_at, finished_at, error)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    status = excluded.status,
    finished_at = excluded.finished_at,
    error = excluded.error`
	_, err := l.db.ExecContext(ctx, q,
		r.ID, r.Command, string(r.Status),
		toMillis(r.StartedAt), toMillis(r.FinishedAt), r.Error,
	)
	if err != nil {
		return WriteError("runs", err)
	}
	return nil
}

func (l *sqliteLedger) RecordTask(ctx context.Context, t ledger.TaskRecord) error {
	q := `
INSERT INTO tasks
    (id, run_id, flow, task, status, attempts, duration_ms, error, at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    status = excluded.status,
    attempts = excluded.attempts,
    duration_ms = excluded.duration_ms,
    error = excluded.error,
    at = excluded.at`
	_, err := l.db.ExecContext(ctx, q,
		t.ID, t.RunID, t.Flow, t.Task, string(t.Status), t.Attempts,
		t.Duration.Milliseconds(), t.Error, toMillis(t.At),
	)
	if err != nil {
		return WriteError("tasks", err)
	}
	return nil
}

func (l *sqliteLedger) Recent(ctx context.Context, n int) ([]ledger.RunRecord, error) {
	q := `
SELECT id, command, status, started_at, finished_at, error
FROM runs
ORDER BY started_at DESC, rowid DESC
LIMIT ?`
	rows, err := l.db.QueryContext(ctx, q, n)
	if err != nil {
		return nil, ReadError("runs", err)
	}
	defer rows.Close()

	var res []ledger.RunRecord
	for rows.Next() {
		var r ledger.RunRecord
		var status string
		var started, finished int64
		err = rows.Scan(&r.ID, &r.Command, &status, &started, &finished, &r.Error)
		if err != nil {
			return nil, ReadError("runs", err)
		}
		r.Status = ledger.Status(status)
		r.StartedAt = fromMillis(started)
		r.FinishedAt = fromMillis(finished)
		res = append(res, r)
	}
	if err = rows.Err(); err != nil {
		return nil, ReadError("runs", err)
	}
	return res, nil
}

func (l *sqliteLedger) Tasks(ctx context.Context, runID string) ([]ledger.TaskRecord, error) {
	q := `
SELECT id, run_id, flow, task, status, attempts, duration_ms, error, at
FROM tasks
WHERE run_id = ?
ORDER BY at, seq`
	rows, err := l.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, ReadError("tasks", err)
	}
	defer rows.Close()

	var res []ledger.TaskRecord
	for rows.Next() {
		var t ledger.TaskRecord
		var status string
		var dur, at int64
		err = rows.Scan(
			&t.ID, &t.RunID, &t.Flow, &t.Task, &status,
			&t.Attempts, &dur, &t.Error, &at,
		)
		if err != nil {
			return nil, ReadError("tasks", err)
		}
		t.Status = ledger.Status(status)
		t.Duration = time.Duration(dur) * time.Millisecond
		t.At = fromMillis(at)
		res = append(res, t)
	}
	if err = rows.Err(); err != nil {
		return nil, ReadError("tasks", err)
	}
	return res, nil
}

func (l *sqliteLedger) Close() error {
	return l.db.Close()
}
