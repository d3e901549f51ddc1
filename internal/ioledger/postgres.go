package ioledger

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/kpilake/kpilake/pkg/ledger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// runModel and taskModel define the PostgreSQL schema. They are used only
// by AutoMigrate, reads and writes go through pgxpool.
type runModel struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	Command    string    `gorm:"type:varchar(50);not null"`
	Status     string    `gorm:"type:varchar(20);not null"`
	StartedAt  time.Time `gorm:"not null;index"`
	FinishedAt *time.Time
	Error      string `gorm:"type:text;not null;default:''"`
}

func (runModel) TableName() string { return "runs" }

type taskModel struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	RunID      string    `gorm:"type:varchar(36);not null;index"`
	Flow       string    `gorm:"type:varchar(50);not null"`
	Task       string    `gorm:"type:varchar(100);not null"`
	Status     string    `gorm:"type:varchar(20);not null"`
	Attempts   int       `gorm:"not null"`
	DurationMs int64     `gorm:"not null"`
	Error      string    `gorm:"type:text;not null;default:''"`
	At         time.Time `gorm:"not null;index"`
}

func (taskModel) TableName() string { return "tasks" }

type pgLedger struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to PostgreSQL and migrates the ledger tables.
func OpenPostgres(ctx context.Context, dsn string) (ledger.Recorder, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, OpenError("postgres", err)
	}
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, OpenError("postgres", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, OpenError(poolConfig.ConnConfig.Host, err)
	}

	db := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: db}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		pool.Close()
		return nil, MigrateError(err)
	}
	if err = gormDB.WithContext(ctx).AutoMigrate(&runModel{}, &taskModel{}); err != nil {
		pool.Close()
		return nil, MigrateError(err)
	}

	return &pgLedger{pool: pool}, nil
}

func (l *pgLedger) RecordRun(ctx context.Context, r ledger.RunRecord) error {
	q := `
INSERT INTO runs (id, command, status, started_at, finished_at, error)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    status = EXCLUDED.status,
    finished_at = EXCLUDED.finished_at,
    error = EXCLUDED.error`
	var finished *time.Time
	if !r.FinishedAt.IsZero() {
		f := r.FinishedAt.UTC()
		finished = &f
	}
	_, err := l.pool.Exec(ctx, q,
		r.ID, r.Command, string(r.Status), r.StartedAt.UTC(), finished, r.Error,
	)
	if err != nil {
		return WriteError("runs", err)
	}
	return nil
}

func (l *pgLedger) RecordTask(ctx context.Context, t ledger.TaskRecord) error {
	q := `
INSERT INTO tasks
    (id, run_id, flow, task, status, attempts, duration_ms, error, at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    status = EXCLUDED.status,
    attempts = EXCLUDED.attempts,
    duration_ms = EXCLUDED.duration_ms,
    error = EXCLUDED.error,
    at = EXCLUDED.at`
	_, err := l.pool.Exec(ctx, q,
		t.ID, t.RunID, t.Flow, t.Task, string(t.Status), t.Attempts,
		t.Duration.Milliseconds(), t.Error, t.At.UTC(),
	)
	if err != nil {
		return WriteError("tasks", err)
	}
	return nil
}

func (l *pgLedger) Recent(ctx context.Context, n int) ([]ledger.RunRecord, error) {
	q := `
SELECT id, command, status, started_at, finished_at, error
FROM runs
ORDER BY started_at DESC
LIMIT $1`
	rows, err := l.pool.Query(ctx, q, n)
	if err != nil {
		return nil, ReadError("runs", err)
	}
	defer rows.Close()

	var res []ledger.RunRecord
	for rows.Next() {
		var r ledger.RunRecord
		var status string
		var finished *time.Time
		err = rows.Scan(&r.ID, &r.Command, &status, &r.StartedAt, &finished, &r.Error)
		if err != nil {
			return nil, ReadError("runs", err)
		}
		r.Status = ledger.Status(status)
		r.StartedAt = r.StartedAt.UTC()
		if finished != nil {
			r.FinishedAt = finished.UTC()
		}
		res = append(res, r)
	}
	if err = rows.Err(); err != nil {
		return nil, ReadError("runs", err)
	}
	return res, nil
}

func (l *pgLedger) Tasks(ctx context.Context, runID string) ([]ledger.TaskRecord, error) {
	q := `
SELECT id, run_id, flow, task, status, attempts, duration_ms, error, at
FROM tasks
WHERE run_id = $1
ORDER BY at, id`
	rows, err := l.pool.Query(ctx, q, runID)
	if err != nil {
		return nil, ReadError("tasks", err)
	}
	defer rows.Close()

	var res []ledger.TaskRecord
	for rows.Next() {
		var t ledger.TaskRecord
		var status string
		var dur int64
		err = rows.Scan(
			&t.ID, &t.RunID, &t.Flow, &t.Task, &status,
			&t.Attempts, &dur, &t.Error, &t.At,
		)
		if err != nil {
			return nil, ReadError("tasks", err)
		}
		t.Status = ledger.Status(status)
		t.Duration = time.Duration(dur) * time.Millisecond
		t.At = t.At.UTC()
		res = append(res, t)
	}
	if err = rows.Err(); err != nil {
		return nil, ReadError("tasks", err)
	}
	return res, nil
}

func (l *pgLedger) Close() error {
	l.pool.Close()
	return nil
}
