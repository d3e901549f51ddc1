// Package ioexport publishes gold tables to the serving document store.
// Every export replaces the whole collection.
package ioexport

import (
	"context"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/kpilake/kpilake/pkg/config"
	"github.com/kpilake/kpilake/pkg/store"
	"github.com/kpilake/kpilake/pkg/table"
)

const (
	// StrategySwap writes a staging collection and renames it over the
	// target, so readers never see an empty collection.
	StrategySwap = "swap"

	// StrategyDrop drops the target and inserts the new documents.
	StrategyDrop = "drop"

	stagingSuffix = "__staging"
)

// Exporter writes tables to a document store.
type Exporter struct {
	docs      store.DocumentStore
	strategy  string
	batchSize int
	progress  io.Writer
}

// Option configures an Exporter.
type Option func(*Exporter)

// OptProgress sets where the progress bar is drawn. Nil disables it.
func OptProgress(w io.Writer) Option {
	return func(e *Exporter) {
		e.progress = w
	}
}

// New creates an Exporter with the strategy and batch size of the
// configuration.
func New(
	docs store.DocumentStore,
	cfg config.ExportConfig,
	opts ...Option,
) *Exporter {
	res := &Exporter{
		docs:      docs,
		strategy:  cfg.Strategy,
		batchSize: cfg.BatchSize,
	}
	if res.strategy != StrategyDrop {
		res.strategy = StrategySwap
	}
	if res.batchSize <= 0 {
		res.batchSize = 1000
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// ExportToServing replaces the content of the collection by the rows of
// the table and returns the number of exported documents. An empty table
// leaves an empty collection, never a missing one.
func (e *Exporter) ExportToServing(
	ctx context.Context,
	t *table.Table,
	coll string,
) (int, error) {
	docs := Documents(t)

	var err error
	switch e.strategy {
	case StrategyDrop:
		err = e.dropInsert(ctx, docs, coll)
	default:
		err = e.swap(ctx, docs, coll)
	}
	if err != nil {
		return 0, ExportError(coll, err)
	}

	slog.Info("Exported collection",
		"collection", coll,
		"documents", humanize.Comma(int64(len(docs))),
		"strategy", e.strategy,
	)
	return len(docs), nil
}

func (e *Exporter) swap(
	ctx context.Context,
	docs []store.Document,
	coll string,
) error {
	staging := coll + stagingSuffix
	if err := e.docs.Drop(ctx, staging); err != nil {
		return err
	}
	if err := e.fill(ctx, docs, staging); err != nil {
		return err
	}
	return e.docs.Rename(ctx, staging, coll)
}

func (e *Exporter) dropInsert(
	ctx context.Context,
	docs []store.Document,
	coll string,
) error {
	if err := e.docs.Drop(ctx, coll); err != nil {
		return err
	}
	return e.fill(ctx, docs, coll)
}

// fill writes documents to a collection. Without documents the collection
// is created empty, so it exists after every export.
func (e *Exporter) fill(
	ctx context.Context,
	docs []store.Document,
	coll string,
) error {
	if len(docs) == 0 {
		return e.docs.Create(ctx, coll)
	}
	return e.insert(ctx, docs, coll)
}

func (e *Exporter) insert(
	ctx context.Context,
	docs []store.Document,
	coll string,
) error {
	if len(docs) == 0 {
		return nil
	}

	var bar *pb.ProgressBar
	if e.progress != nil {
		bar = pb.Full.New(len(docs))
		bar.SetWriter(e.progress)
		bar.Set("prefix", coll+" ")
		bar.Set(pb.CleanOnFinish, true)
		bar.Start()
		defer bar.Finish()
	}

	for start := 0; start < len(docs); start += e.batchSize {
		end := min(start+e.batchSize, len(docs))
		if err := e.docs.InsertMany(ctx, coll, docs[start:end]); err != nil {
			return err
		}
		if bar != nil {
			bar.Add(end - start)
		}
	}
	return nil
}

// Documents converts the rows of a table to documents. Times become UTC,
// NaN and infinite floats become null.
func Documents(t *table.Table) []store.Document {
	cols := t.Columns()
	res := make([]store.Document, t.Len())
	for i, row := range t.Rows() {
		doc := make(store.Document, len(cols))
		for ci, c := range cols {
			doc[c.Name] = docValue(row[ci])
		}
		res[i] = doc
	}
	return res
}

func docValue(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return x
	case time.Time:
		return x.UTC()
	default:
		return v
	}
}
