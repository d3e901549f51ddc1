package ioformat

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/kpilake/kpilake/pkg/table"
)

// nullTokens are cell values read as null.
var nullTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {},
	"null": {}, "NULL": {}, "None": {}, "<NA>": {},
}

// ReadCSV reads a CSV with a header line. Column kinds are inferred from
// the values: Int when every non-null value is an integer, Float when
// every one is a number, String otherwise. Null tokens like "" or "NA"
// become null.
func ReadCSV(data []byte) (*table.Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = false

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, CSVError(errors.New("no header line"))
	}
	if err != nil {
		return nil, CSVError(err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	names, err := columnNames(header)
	if err != nil {
		return nil, CSVError(err)
	}

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, CSVError(err)
		}
		records = append(records, rec)
	}

	cols := make([]table.Column, len(names))
	for ci, name := range names {
		cols[ci] = table.Column{Name: name, Kind: inferKind(records, ci)}
	}

	res := table.New(cols...)
	for _, rec := range records {
		row := make([]any, len(cols))
		for ci, c := range cols {
			if ci < len(rec) {
				row[ci] = parseCell(rec[ci], c.Kind)
			}
		}
		res.Append(row...)
	}
	return res, nil
}

// WriteCSV writes a table with a header line. Nulls are empty cells.
func WriteCSV(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.ColumnNames()); err != nil {
		return nil, CSVError(err)
	}
	rec := make([]string, t.Width())
	for _, row := range t.Rows() {
		for i, v := range row {
			rec[i] = table.Format(v)
		}
		if err := w.Write(rec); err != nil {
			return nil, CSVError(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, CSVError(err)
	}
	return buf.Bytes(), nil
}

// columnNames makes header names unique and non-empty.
func columnNames(header []string) ([]string, error) {
	if len(header) == 0 {
		return nil, errors.New("empty header")
	}
	res := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n)
		} else {
			seen[name] = 1
		}
		res[i] = name
	}
	return res, nil
}

func isNullToken(s string) bool {
	_, ok := nullTokens[strings.TrimSpace(s)]
	return ok
}

func inferKind(records [][]string, ci int) table.Kind {
	res := table.Int
	var values int
	for _, rec := range records {
		if ci >= len(rec) || isNullToken(rec[ci]) {
			continue
		}
		values++
		s := strings.TrimSpace(rec[ci])
		if res == table.Int {
			if _, err := strconv.ParseInt(s, 10, 64); err == nil {
				continue
			}
			res = table.Float
		}
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			continue
		}
		return table.String
	}
	if values == 0 {
		return table.String
	}
	return res
}

func parseCell(s string, k table.Kind) any {
	if isNullToken(s) {
		return nil
	}
	switch k {
	case table.Int:
		v, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return v
	case table.Float:
		v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return v
	default:
		return s
	}
}
