package ioexport_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/internal/ioexport"
	"github.com/kpilake/kpilake/internal/iotesting"
	"github.com/kpilake/kpilake/pkg/config"
	"github.com/kpilake/kpilake/pkg/errcode"
	"github.com/kpilake/kpilake/pkg/store"
	"github.com/kpilake/kpilake/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthly(rows ...[]any) *table.Table {
	t := table.New(
		table.Column{Name: "mois", Kind: table.String},
		table.Column{Name: "ca_total", Kind: table.Float},
	)
	for _, r := range rows {
		t.Append(r...)
	}
	return t
}

func TestDocuments(t *testing.T) {
	paris := time.FixedZone("CET", 3600)
	at := time.Date(2024, 3, 1, 1, 0, 0, 0, paris)
	tbl := table.New(
		table.Column{Name: "date", Kind: table.Time},
		table.Column{Name: "v", Kind: table.Float},
		table.Column{Name: "n", Kind: table.Int},
	)
	tbl.Append(at, math.NaN(), int64(1))
	tbl.Append(nil, math.Inf(1), nil)
	tbl.Append(nil, 2.5, int64(3))

	docs := ioexport.Documents(tbl)
	require.Len(t, docs, 3)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), docs[0]["date"])
	assert.Nil(t, docs[0]["v"])
	assert.Nil(t, docs[1]["v"])
	assert.Contains(t, docs[1], "n", "null cells are kept as fields")
	assert.Equal(t, 2.5, docs[2]["v"])
	assert.Equal(t, int64(3), docs[2]["n"])
}

func TestExportSwap(t *testing.T) {
	ctx := context.Background()
	docs := iotesting.NewDocumentStore()
	exp := ioexport.New(docs, config.ExportConfig{Strategy: "swap", BatchSize: 2})

	// a previous export with a different schema
	require.NoError(t, docs.InsertMany(ctx, "kpi_croissance",
		[]store.Document{{"old": 1}, {"old": 2}, {"old": 3}}))
	docs.Ops = nil

	n, err := exp.ExportToServing(ctx, monthly(
		[]any{"2024-01", 100.0},
		[]any{"2024-02", 150.0},
		[]any{"2024-03", 120.0},
	), "kpi_croissance")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	res, err := docs.Find(ctx, "kpi_croissance")
	require.NoError(t, err)
	require.Len(t, res, 3)
	for _, d := range res {
		assert.NotContains(t, d, "old")
	}
	assert.Equal(t, "2024-01", res[0]["mois"])
	assert.False(t, docs.Has("kpi_croissance__staging"))

	assert.Equal(t, []string{
		"drop kpi_croissance__staging",
		"insert kpi_croissance__staging 2",
		"insert kpi_croissance__staging 1",
		"rename kpi_croissance__staging kpi_croissance",
	}, docs.Ops)
}

func TestExportDrop(t *testing.T) {
	ctx := context.Background()
	docs := iotesting.NewDocumentStore()
	exp := ioexport.New(docs, config.ExportConfig{Strategy: "drop", BatchSize: 10})

	require.NoError(t, docs.InsertMany(ctx, "kpi", []store.Document{{"old": 1}}))
	docs.Ops = nil

	n, err := exp.ExportToServing(ctx, monthly([]any{"2024-01", 1.0}), "kpi")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"drop kpi", "insert kpi 1"}, docs.Ops)

	count, err := docs.Count(ctx, "kpi")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestExportEmpty(t *testing.T) {
	ctx := context.Background()
	for _, strategy := range []string{"swap", "drop"} {
		t.Run(strategy, func(t *testing.T) {
			docs := iotesting.NewDocumentStore()
			exp := ioexport.New(docs, config.ExportConfig{Strategy: strategy})
			require.NoError(t, docs.InsertMany(ctx, "kpi", []store.Document{{"a": 1}}))

			n, err := exp.ExportToServing(ctx, monthly(), "kpi")
			require.NoError(t, err)
			assert.Equal(t, 0, n)

			count, err := docs.Count(ctx, "kpi")
			require.NoError(t, err)
			assert.Equal(t, int64(0), count)
			assert.True(t, docs.Has("kpi"), "collection exists")
			assert.False(t, docs.Has("kpi__staging"))
		})
	}

	t.Run("swap ops", func(t *testing.T) {
		docs := iotesting.NewDocumentStore()
		exp := ioexport.New(docs, config.ExportConfig{Strategy: "swap"})
		_, err := exp.ExportToServing(ctx, monthly(), "kpi")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"drop kpi__staging",
			"create kpi__staging",
			"rename kpi__staging kpi",
		}, docs.Ops)
	})
}

func TestExportTwiceIsStable(t *testing.T) {
	ctx := context.Background()
	docs := iotesting.NewDocumentStore()
	exp := ioexport.New(docs, config.ExportConfig{})
	tbl := monthly([]any{"2024-01", 1.0}, []any{"2024-02", 2.0})

	for range 2 {
		_, err := exp.ExportToServing(ctx, tbl, "kpi")
		require.NoError(t, err)
	}
	count, err := docs.Count(ctx, "kpi")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestExportError(t *testing.T) {
	ctx := context.Background()
	docs := iotesting.NewDocumentStore()
	exp := ioexport.New(docs, config.ExportConfig{Strategy: "swap"})
	require.NoError(t, docs.InsertMany(ctx, "kpi", []store.Document{{"a": 1}}))
	docs.FailNext("rename", 1)

	_, err := exp.ExportToServing(ctx, monthly([]any{"2024-01", 1.0}), "kpi")
	require.Error(t, err)

	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.DocumentStoreWriteError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, iotesting.ErrInjected)

	res, err := docs.Find(ctx, "kpi")
	require.NoError(t, err)
	assert.Equal(t, []store.Document{{"a": 1}}, res,
		"a failed swap leaves the previous export in place")
}
