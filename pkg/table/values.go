package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Format renders a cell as text. Null becomes an empty string, integral
// floats lose their fraction so that 5.0 and 5 render the same, times use
// RFC 3339.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// KeyOf is the canonical form of a cell used for key comparison. String
// keys are trimmed, so " C1" and "C1" are the same key. Null keys are
// equal to each other and different from every non-null key.
func KeyOf(v any) string {
	if v == nil {
		return "\x00"
	}
	return strings.TrimSpace(Format(v))
}

// RowKey is the canonical form of a whole row used for full-row
// duplicate detection.
func RowKey(row []any) string {
	var sb strings.Builder
	for i, v := range row {
		if i > 0 {
			sb.WriteByte('\x1f')
		}
		sb.WriteString(KeyOf(v))
	}
	return sb.String()
}

// AsFloat converts a numeric cell to float64.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

// AsTime returns the time of a time cell.
func AsTime(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

// Concat stacks tables on top of each other. The result has the union of
// all columns in first-seen order, cells missing from a source table are
// null. When the same column has different kinds, int and float become
// float, any other mix becomes string.
func Concat(tables ...*Table) *Table {
	var cols []Column
	pos := make(map[string]int)
	for _, t := range tables {
		for _, c := range t.cols {
			i, ok := pos[c.Name]
			if !ok {
				pos[c.Name] = len(cols)
				cols = append(cols, c)
				continue
			}
			cols[i].Kind = mergeKinds(cols[i].Kind, c.Kind)
		}
	}

	res := New(cols...)
	for _, t := range tables {
		for _, row := range t.rows {
			out := make([]any, len(cols))
			for ci, c := range t.cols {
				i := pos[c.Name]
				out[i] = convert(row[ci], cols[i].Kind)
			}
			res.rows = append(res.rows, out)
		}
	}
	return res
}

func mergeKinds(a, b Kind) Kind {
	switch {
	case a == b:
		return a
	case (a == Int && b == Float) || (a == Float && b == Int):
		return Float
	default:
		return String
	}
}

func convert(v any, k Kind) any {
	if v == nil {
		return nil
	}
	switch k {
	case Float:
		if f, ok := AsFloat(v); ok {
			return f
		}
		return nil
	case String:
		if s, ok := v.(string); ok {
			return s
		}
		return Format(v)
	default:
		return v
	}
}
