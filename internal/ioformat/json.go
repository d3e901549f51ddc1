package ioformat

import (
	"bufio"
	"bytes"
	"encoding/json"
	"math"
	"slices"
	"time"

	"github.com/kpilake/kpilake/pkg/table"
)

// noKind marks a column that only had null values so far.
const noKind = table.Kind(-1)

// ReadJSON reads an array of objects or newline delimited objects.
// Columns are sorted by name. Whole numbers become Int columns, mixed
// numbers Float columns, booleans Bool columns, anything else String.
func ReadJSON(data []byte) (*table.Table, error) {
	docs, err := decodeDocs(data)
	if err != nil {
		return nil, JSONError(err)
	}

	var names []string
	kinds := make(map[string]table.Kind)
	for _, d := range docs {
		for k, v := range d {
			vk, ok := jsonKind(v)
			prev, seen := kinds[k]
			if !seen {
				names = append(names, k)
				kinds[k] = noKind
				prev = noKind
			}
			if !ok {
				continue
			}
			if prev == noKind {
				kinds[k] = vk
				continue
			}
			kinds[k] = mergeJSONKinds(prev, vk)
		}
	}
	slices.Sort(names)

	cols := make([]table.Column, len(names))
	for i, n := range names {
		k := kinds[n]
		if k == noKind {
			k = table.String
		}
		cols[i] = table.Column{Name: n, Kind: k}
	}

	res := table.New(cols...)
	for _, d := range docs {
		row := make([]any, len(cols))
		for i, c := range cols {
			row[i] = jsonCell(d[c.Name], c.Kind)
		}
		res.Append(row...)
	}
	return res, nil
}

// WriteJSON encodes a table as an array of objects. Times use RFC 3339,
// NaN and infinities become null.
func WriteJSON(t *table.Table) ([]byte, error) {
	docs := make([]map[string]any, t.Len())
	names := t.ColumnNames()
	for i, row := range t.Rows() {
		d := make(map[string]any, len(names))
		for ci, v := range row {
			if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
				v = nil
			}
			if tm, ok := v.(time.Time); ok {
				v = tm.UTC().Format(time.RFC3339Nano)
			}
			d[names[ci]] = v
		}
		docs[i] = d
	}
	res, err := json.Marshal(docs)
	if err != nil {
		return nil, JSONError(err)
	}
	return res, nil
}

func decodeDocs(data []byte) ([]map[string]any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var res []map[string]any
		if err := dec.Decode(&res); err != nil {
			return nil, err
		}
		return res, nil
	}

	var res []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		var d map[string]any
		if err := dec.Decode(&d); err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, sc.Err()
}

func jsonKind(v any) (table.Kind, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case json.Number:
		if _, err := x.Int64(); err == nil {
			return table.Int, true
		}
		return table.Float, true
	case bool:
		return table.Bool, true
	default:
		return table.String, true
	}
}

func mergeJSONKinds(a, b table.Kind) table.Kind {
	switch {
	case a == b:
		return a
	case (a == table.Int && b == table.Float) || (a == table.Float && b == table.Int):
		return table.Float
	default:
		return table.String
	}
}

func jsonCell(v any, k table.Kind) any {
	if v == nil {
		return nil
	}
	switch k {
	case table.Int:
		if n, ok := v.(json.Number); ok {
			i, _ := n.Int64()
			return i
		}
	case table.Float:
		if n, ok := v.(json.Number); ok {
			f, _ := n.Float64()
			return f
		}
	case table.Bool:
		if b, ok := v.(bool); ok {
			return b
		}
	}
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}
