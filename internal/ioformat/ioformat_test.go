package ioformat_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/internal/ioformat"
	"github.com/kpilake/kpilake/pkg/errcode"
	"github.com/kpilake/kpilake/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clientsCSV = "\ufeffid_client,nom,date_inscription,pays,score\n" +
	"1,Alice,2023-01-15,France,1.5\n" +
	"2, Bob ,,Germany,2\n" +
	"3,\"Chloé, Jr\",NA,,\n"

func TestFormatOf(t *testing.T) {
	tests := []struct {
		key string
		f   ioformat.Format
	}{
		{"clients.csv", ioformat.CSV},
		{"dir/achats.CSV", ioformat.CSV},
		{"kpi.parquet", ioformat.Parquet},
		{"x.json", ioformat.JSON},
		{"x.jsonl", ioformat.JSON},
		{"README", ioformat.Unknown},
		{"x.txt", ioformat.Unknown},
	}
	for _, v := range tests {
		assert.Equal(t, v.f, ioformat.FormatOf(v.key), v.key)
	}
	assert.Equal(t, ioformat.Parquet, ioformat.ParseFormat("parquet"))
	assert.Equal(t, ".csv", ioformat.CSV.Ext())
}

func TestReadCSV(t *testing.T) {
	res, err := ioformat.ReadCSV([]byte(clientsCSV))
	require.NoError(t, err)
	require.Equal(t, 3, res.Len())
	assert.Equal(t,
		[]string{"id_client", "nom", "date_inscription", "pays", "score"},
		res.ColumnNames())

	kinds := make([]table.Kind, res.Width())
	for i, c := range res.Columns() {
		kinds[i] = c.Kind
	}
	assert.Equal(t,
		[]table.Kind{table.Int, table.String, table.String, table.String, table.Float},
		kinds)

	assert.Equal(t, int64(1), res.Value(0, "id_client"))
	assert.Equal(t, " Bob ", res.Value(1, "nom"), "cleaning is not a decoding job")
	assert.Equal(t, "Chloé, Jr", res.Value(2, "nom"))
	assert.Nil(t, res.Value(1, "date_inscription"))
	assert.Nil(t, res.Value(2, "date_inscription"))
	assert.Nil(t, res.Value(2, "pays"))
	assert.Equal(t, 2.0, res.Value(1, "score"))
	assert.Nil(t, res.Value(2, "score"))
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		msg  string
		data string
	}{
		{"empty", ""},
		{"unterminated quote", "a,b\n1,\"x\n"},
	}
	for _, v := range tests {
		_, err := ioformat.ReadCSV([]byte(v.data))
		require.Error(t, err, v.msg)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, errcode.FormatCSVError, gnErr.Code, v.msg)
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	res, err := ioformat.ReadCSV([]byte("a,,a\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())
	assert.Equal(t, []string{"a", "Unnamed: 1", "a.1"}, res.ColumnNames())
}

func TestCSVRoundTrip(t *testing.T) {
	src, err := ioformat.ReadCSV([]byte(clientsCSV))
	require.NoError(t, err)
	data, err := ioformat.WriteCSV(src)
	require.NoError(t, err)
	res, err := ioformat.ReadCSV(data)
	require.NoError(t, err)
	assert.Equal(t, src.Rows(), res.Rows())
}

func sample() *table.Table {
	t := table.New(
		table.Column{Name: "id", Kind: table.Int},
		table.Column{Name: "name", Kind: table.String},
		table.Column{Name: "amount", Kind: table.Float},
		table.Column{Name: "at", Kind: table.Time},
		table.Column{Name: "ok", Kind: table.Bool},
	)
	at := time.Date(2024, 3, 1, 10, 30, 15, 123456000, time.UTC)
	t.Append(int64(1), "Alice", 12.5, at, true)
	t.Append(nil, nil, nil, nil, nil)
	t.Append(int64(3), "Zoé", math.Inf(1), at.Add(time.Hour), false)
	return t
}

func TestParquet(t *testing.T) {
	src := sample()
	data, err := ioformat.WriteParquet(src)
	require.NoError(t, err)
	assert.Equal(t, "PAR1", string(data[:4]))

	res, err := ioformat.ReadParquet(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, src.Columns(), res.Columns())
	assert.Equal(t, src.Rows(), res.Rows())

	t.Run("empty table keeps schema", func(t *testing.T) {
		empty := table.New(
			table.Column{Name: "mois", Kind: table.String},
			table.Column{Name: "ca_total", Kind: table.Float},
		)
		data, err := ioformat.WriteParquet(empty)
		require.NoError(t, err)
		res, err := ioformat.ReadParquet(context.Background(), data)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Len())
		assert.Equal(t, empty.Columns(), res.Columns())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ioformat.ReadParquet(context.Background(), []byte("nope"))
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.FormatParquetError, gnErr.Code)
	})
}

func TestReadJSON(t *testing.T) {
	tests := []struct {
		msg  string
		data string
	}{
		{"array", `[{"id":1,"v":1.5,"s":"a","b":true},{"id":2,"v":2,"s":null,"x":{"k":1}}]`},
		{"lines", "{\"id\":1,\"v\":1.5,\"s\":\"a\",\"b\":true}\n\n" +
			"{\"id\":2,\"v\":2,\"s\":null,\"x\":{\"k\":1}}\n"},
	}
	for _, v := range tests {
		res, err := ioformat.ReadJSON([]byte(v.data))
		require.NoError(t, err, v.msg)
		require.Equal(t, 2, res.Len(), v.msg)
		assert.Equal(t, []string{"b", "id", "s", "v", "x"}, res.ColumnNames(), v.msg)
		assert.Equal(t, int64(2), res.Value(1, "id"), v.msg)
		assert.Equal(t, 2.0, res.Value(1, "v"), v.msg)
		assert.Equal(t, true, res.Value(0, "b"), v.msg)
		assert.Nil(t, res.Value(1, "b"), v.msg)
		assert.Nil(t, res.Value(1, "s"), v.msg)
		assert.Equal(t, `{"k":1}`, res.Value(1, "x"), v.msg)
	}

	_, err := ioformat.ReadJSON([]byte(`[{"a":`))
	require.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	ctx := context.Background()
	src := table.New(
		table.Column{Name: "id", Kind: table.Int},
		table.Column{Name: "name", Kind: table.String},
	)
	src.Append(int64(1), "a")
	src.Append(int64(2), nil)

	for _, f := range []ioformat.Format{ioformat.CSV, ioformat.JSON, ioformat.Parquet} {
		data, err := ioformat.Encode(f, src)
		require.NoError(t, err, f)
		res, err := ioformat.Decode(ctx, f, data)
		require.NoError(t, err, f)
		assert.Equal(t, src.Rows(), res.Rows(), f)
	}

	_, err := ioformat.Decode(ctx, ioformat.Unknown, nil)
	assert.Error(t, err)
}
