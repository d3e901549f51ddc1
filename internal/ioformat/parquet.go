package ioformat

import (
	"bytes"
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/kpilake/kpilake/pkg/table"
)

var timestampType = &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}

// WriteParquet encodes a table as a Snappy compressed Parquet file.
// Every column is nullable, times are stored as UTC microseconds.
func WriteParquet(t *table.Table) ([]byte, error) {
	mem := memory.NewGoAllocator()
	schema := arrowSchema(t)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	for ci, c := range t.Columns() {
		fb := b.Field(ci)
		fb.Reserve(t.Len())
		for _, row := range t.Rows() {
			appendValue(fb, c.Kind, row[ci])
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	var buf bytes.Buffer
	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
	)
	w, err := pqarrow.NewFileWriter(
		schema, &buf, props, pqarrow.DefaultWriterProps(),
	)
	if err != nil {
		return nil, ParquetError(err)
	}
	if err = w.Write(rec); err != nil {
		_ = w.Close()
		return nil, ParquetError(err)
	}
	if err = w.Close(); err != nil {
		return nil, ParquetError(err)
	}
	return buf.Bytes(), nil
}

// ReadParquet decodes a Parquet file. Types without a table kind are read
// as strings.
func ReadParquet(ctx context.Context, data []byte) (*table.Table, error) {
	mem := memory.NewGoAllocator()
	tbl, err := pqarrow.ReadTable(
		ctx,
		bytes.NewReader(data),
		parquet.NewReaderProperties(mem),
		pqarrow.ArrowReadProperties{},
		mem,
	)
	if err != nil {
		return nil, ParquetError(err)
	}
	defer tbl.Release()

	schema := tbl.Schema()
	cols := make([]table.Column, schema.NumFields())
	for i, f := range schema.Fields() {
		cols[i] = table.Column{Name: f.Name, Kind: kindOf(f.Type)}
	}

	rows := make([][]any, tbl.NumRows())
	for i := range rows {
		rows[i] = make([]any, len(cols))
	}
	for ci := range cols {
		var r int
		for _, arr := range tbl.Column(ci).Data().Chunks() {
			for i := 0; i < arr.Len(); i++ {
				rows[r][ci] = valueAt(arr, i)
				r++
			}
		}
	}

	res := table.New(cols...)
	for _, row := range rows {
		res.Append(row...)
	}
	return res, nil
}

func arrowSchema(t *table.Table) *arrow.Schema {
	fields := make([]arrow.Field, t.Width())
	for i, c := range t.Columns() {
		fields[i] = arrow.Field{Name: c.Name, Type: arrowType(c.Kind), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(k table.Kind) arrow.DataType {
	switch k {
	case table.Int:
		return arrow.PrimitiveTypes.Int64
	case table.Float:
		return arrow.PrimitiveTypes.Float64
	case table.Bool:
		return arrow.FixedWidthTypes.Boolean
	case table.Time:
		return timestampType
	default:
		return arrow.BinaryTypes.String
	}
}

func kindOf(dt arrow.DataType) table.Kind {
	switch dt.ID() {
	case arrow.INT64, arrow.INT32:
		return table.Int
	case arrow.FLOAT64, arrow.FLOAT32:
		return table.Float
	case arrow.BOOL:
		return table.Bool
	case arrow.TIMESTAMP, arrow.DATE32:
		return table.Time
	default:
		return table.String
	}
}

func appendValue(b array.Builder, k table.Kind, v any) {
	if v == nil {
		b.AppendNull()
		return
	}
	switch k {
	case table.Int:
		switch x := v.(type) {
		case int64:
			b.(*array.Int64Builder).Append(x)
		case float64:
			b.(*array.Int64Builder).Append(int64(x))
		default:
			b.AppendNull()
		}
	case table.Float:
		if f, ok := table.AsFloat(v); ok {
			b.(*array.Float64Builder).Append(f)
		} else {
			b.AppendNull()
		}
	case table.Bool:
		if x, ok := v.(bool); ok {
			b.(*array.BooleanBuilder).Append(x)
		} else {
			b.AppendNull()
		}
	case table.Time:
		if t, ok := table.AsTime(v); ok {
			b.(*array.TimestampBuilder).Append(arrow.Timestamp(t.UnixMicro()))
		} else {
			b.AppendNull()
		}
	default:
		b.(*array.StringBuilder).Append(table.Format(v))
	}
}

func valueAt(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Int64:
		return a.Value(i)
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Boolean:
		return a.Value(i)
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit).UTC()
	case *array.Date32:
		return a.Value(i).ToTime().UTC()
	default:
		return arr.ValueStr(i)
	}
}
