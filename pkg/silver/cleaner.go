package silver

import (
	"strings"

	"github.com/kpilake/kpilake/pkg/table"
)

// Report summarizes what Clean did to a dataset.
type Report struct {
	// Dataset is the policy name.
	Dataset string

	// InputRows is the number of raw rows.
	InputRows int

	// EmptyRows counts rows dropped because every cell was null.
	EmptyRows int

	// DuplicateKeys counts rows dropped because their key was seen before.
	DuplicateKeys int

	// DuplicateRows counts rows dropped by the final full-row pass.
	DuplicateRows int

	// DateNulls maps date columns to the number of values that could not
	// be parsed and became null.
	DateNulls map[string]int

	// OutputRows is the number of cleaned rows.
	OutputRows int
}

// ParseFailures is the total of unparsable date values.
func (r Report) ParseFailures() int {
	var res int
	for _, v := range r.DateNulls {
		res += v
	}
	return res
}

// Clean normalizes a raw table into a silver table. The input is not
// modified. Bad individual values never cause an error, they become null.
//
// Steps:
//  1. drop rows where every cell is null;
//  2. drop rows repeating an already seen primary key, first one wins;
//  3. parse date columns, unparsable values become null and are counted;
//  4. trim whitespace of string columns;
//  5. drop rows that became entirely null and full-row duplicates.
//
// Clean is idempotent: cleaning its own output removes nothing.
func Clean(raw *table.Table, p Policy) (*table.Table, Report) {
	rep := Report{
		Dataset:   p.Name,
		InputRows: raw.Len(),
		DateNulls: make(map[string]int),
	}

	res := raw.Filter(func(row []any) bool {
		return !table.IsNullRow(row)
	})
	rep.EmptyRows = raw.Len() - res.Len()

	if ki := res.ColumnIndex(p.KeyColumn); p.KeyColumn != "" && ki >= 0 {
		n := res.Len()
		res = dedup(res, func(row []any) string {
			return table.KeyOf(row[ki])
		})
		rep.DuplicateKeys = n - res.Len()
	}

	for ci, c := range res.Columns() {
		if !p.IsDateColumn(c.Name) {
			continue
		}
		rep.DateNulls[c.Name] = parseDates(res, ci)
	}

	for ci, c := range res.Columns() {
		if c.Kind != table.String {
			continue
		}
		for _, row := range res.Rows() {
			if s, ok := row[ci].(string); ok {
				row[ci] = strings.TrimSpace(s)
			}
		}
	}

	n := res.Len()
	res = res.Filter(func(row []any) bool {
		return !table.IsNullRow(row)
	})
	rep.EmptyRows += n - res.Len()

	n = res.Len()
	res = dedup(res, table.RowKey)
	rep.DuplicateRows = n - res.Len()

	rep.OutputRows = res.Len()
	return res, rep
}

// parseDates converts the column ci to time in place and returns the
// number of values that failed to parse.
func parseDates(t *table.Table, ci int) int {
	var failed int
	for _, row := range t.Rows() {
		v, ok := parseDate(row[ci])
		if !ok {
			failed++
		}
		row[ci] = v
	}
	t.SetKind(ci, table.Time)
	return failed
}

// dedup keeps the first row for every distinct key.
func dedup(t *table.Table, key func(row []any) string) *table.Table {
	seen := make(map[string]struct{}, t.Len())
	return t.Filter(func(row []any) bool {
		k := key(row)
		if _, ok := seen[k]; ok {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}
