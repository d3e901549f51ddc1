package gold

import "github.com/kpilake/kpilake/pkg/table"

// RevenueByCountry groups purchases by client country with the number of
// purchases, total amount and average basket. Purchases of unknown country
// are left out. Rows are sorted by country.
func RevenueByCountry(fact *table.Table) *table.Table {
	res := table.New(
		table.Column{Name: ColCountry, Kind: table.String},
		table.Column{Name: ColCount, Kind: table.Int},
		table.Column{Name: ColRevenue, Kind: table.Float},
		table.Column{Name: ColBasketMean, Kind: table.Float},
	)

	ci := fact.ColumnIndex(ColCountry)
	if ci < 0 {
		return res
	}
	ai := fact.ColumnIndex(ColAmount)

	groups := make(map[string]*aggregate)
	for _, row := range fact.Rows() {
		if row[ci] == nil {
			continue
		}
		k := table.Format(row[ci])
		g, ok := groups[k]
		if !ok {
			g = &aggregate{}
			groups[k] = g
		}
		g.add(amountOf(row, ai))
	}

	for _, k := range sortedKeys(groups) {
		g := groups[k]
		res.Append(k, g.count, g.sum.InexactFloat64(), g.mean())
	}
	return res
}
