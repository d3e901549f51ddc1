package ioflow

import (
	"context"
	"log/slog"

	"github.com/kpilake/kpilake/pkg/dag"
	"github.com/kpilake/kpilake/pkg/silver"
	"github.com/kpilake/kpilake/pkg/table"
)

// Dataset ties a cleaning policy to its bronze and silver objects.
type Dataset struct {
	Policy silver.Policy

	// Source is the CSV object in the bronze bucket.
	Source string

	// Target is the Parquet object in the silver bucket.
	Target string
}

// Datasets are cleaned by the silver flow.
var Datasets = []Dataset{
	{Policy: silver.Clients, Source: "clients.csv", Target: "clients.parquet"},
	{Policy: silver.Purchases, Source: "achats.csv", Target: "achats.parquet"},
}

// silverTasks builds read, clean, check and write for every dataset.
// Datasets do not depend on each other.
func (p *Pipeline) silverTasks() []dag.Task {
	bronze := p.cfg.ObjectStore.BronzeBucket
	silverBucket := p.cfg.ObjectStore.SilverBucket

	var res []dag.Task
	for _, ds := range p.datasets {
		name := ds.Policy.Name
		read, clean := "read_"+name, "clean_"+name
		check, write := "check_"+name, "write_"+name

		var raw, cleaned *table.Table
		res = append(res,
			dag.Task{
				Name:    read,
				Retries: ioRetries,
				Run: func(ctx context.Context) error {
					t, err := p.layer.Read(ctx, bronze, ds.Source)
					if err != nil {
						return retryable(err)
					}
					raw = t
					return nil
				},
			},
			dag.Task{
				Name: clean,
				Deps: []string{read},
				Run: func(context.Context) error {
					var rep silver.Report
					cleaned, rep = silver.Clean(raw, ds.Policy)
					p.report(rep)
					return nil
				},
			},
			dag.Task{
				Name: check,
				Deps: []string{clean},
				Run: func(context.Context) error {
					return silver.Check(cleaned, name)
				},
			},
			p.writeTask(write, []string{check}, silverBucket, ds.Target,
				func() *table.Table { return cleaned }),
		)
	}
	return res
}

func (p *Pipeline) report(rep silver.Report) {
	slog.Info("Dataset cleaned",
		"dataset", rep.Dataset,
		"input_rows", rep.InputRows,
		"empty_rows", rep.EmptyRows,
		"duplicate_keys", rep.DuplicateKeys,
		"duplicate_rows", rep.DuplicateRows,
		"output_rows", rep.OutputRows,
	)
	for col, n := range rep.DateNulls {
		p.metrics.DateParseNulls(rep.Dataset, col, n)
		if n > 0 {
			slog.Warn("Unparsable dates set to null",
				"dataset", rep.Dataset, "column", col, "count", n)
		}
	}
}

// writeTask stores the table returned by get once the dependencies are
// done.
func (p *Pipeline) writeTask(
	name string,
	deps []string,
	bucket, key string,
	get func() *table.Table,
) dag.Task {
	return dag.Task{
		Name:    name,
		Deps:    deps,
		Retries: ioRetries,
		Run: func(ctx context.Context) error {
			t := get()
			if err := p.layer.Write(ctx, t, bucket, key); err != nil {
				return retryable(err)
			}
			p.metrics.RowsWritten(bucket, key, t.Len())
			return nil
		},
	}
}
