package gold

import "github.com/kpilake/kpilake/pkg/table"

// Fact left-joins purchases to clients on the client key and projects the
// client country onto every purchase. Every purchase row is kept, so the
// result always has as many rows as purchases. Unmatched purchases get a
// null country. If a client key repeats, its first row is used.
func Fact(purchases, clients *table.Table) *table.Table {
	countries := make(map[string]any)
	ki := clients.ColumnIndex(ColClientID)
	ci := clients.ColumnIndex(ColCountry)
	if ki >= 0 && ci >= 0 {
		for _, row := range clients.Rows() {
			if row[ki] == nil {
				continue
			}
			k := table.KeyOf(row[ki])
			if _, ok := countries[k]; !ok {
				countries[k] = row[ci]
			}
		}
	}

	res := purchases.Clone()
	pk := res.ColumnIndex(ColClientID)
	country := func(row []any) any {
		if pk < 0 || row[pk] == nil {
			return nil
		}
		return countries[table.KeyOf(row[pk])]
	}

	if pi := res.ColumnIndex(ColCountry); pi >= 0 {
		for _, row := range res.Rows() {
			row[pi] = country(row)
		}
		res.SetKind(pi, table.String)
		return res
	}
	res.AddColumn(table.Column{Name: ColCountry, Kind: table.String}, country)
	return res
}
