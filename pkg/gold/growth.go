package gold

import (
	"cmp"
	"slices"

	"github.com/kpilake/kpilake/pkg/table"
	"github.com/shopspring/decimal"
)

// Growth orders monthly volumes by month and adds the previous month
// revenue and the month-over-month change in percent. The first month has
// neither. The change is null when the previous revenue is null or zero.
// The input table is not modified.
func Growth(monthly *table.Table) *table.Table {
	res := monthly.Clone()
	mi := res.ColumnIndex(ColMonth)
	if mi >= 0 {
		rows := res.Rows()
		slices.SortStableFunc(rows, func(a, b []any) int {
			return cmp.Compare(table.KeyOf(a[mi]), table.KeyOf(b[mi]))
		})
	}

	ri := res.ColumnIndex(ColRevenue)
	var prev any
	prevs := make([]any, res.Len())
	pcts := make([]any, res.Len())
	for i, row := range res.Rows() {
		prevs[i] = prev
		cur, ok := revenueOf(row, ri)
		if p, isNum := prev.(float64); ok && isNum {
			pcts[i] = growthPct(cur, p)
		}
		prev = nil
		if ok {
			prev = cur
		}
	}

	res.AddColumn(
		table.Column{Name: ColPrevRevenue, Kind: table.Float},
		nth(prevs),
	)
	res.AddColumn(
		table.Column{Name: ColGrowth, Kind: table.Float},
		nth(pcts),
	)
	return res
}

// growthPct returns the rounded change from prev to cur in percent, or nil
// when prev is zero or either value is not finite.
func growthPct(cur, prev float64) any {
	if prev == 0 || isInf(cur) || isInf(prev) {
		return nil
	}
	c := decimal.NewFromFloat(cur)
	p := decimal.NewFromFloat(prev)
	return c.Sub(p).Div(p).Mul(decimal.NewFromInt(100)).
		Round(2).InexactFloat64()
}

func revenueOf(row []any, ri int) (float64, bool) {
	if ri < 0 {
		return 0, false
	}
	return table.AsFloat(row[ri])
}

// nth returns a column generator yielding vals in row order.
func nth(vals []any) func([]any) any {
	var i int
	return func([]any) any {
		v := vals[i]
		i++
		return v
	}
}
