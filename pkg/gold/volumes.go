package gold

import (
	"fmt"
	"slices"
	"time"

	"github.com/kpilake/kpilake/pkg/table"
	"github.com/shopspring/decimal"
)

// Period key columns of the volume tables.
const (
	ColDay   = "jour"
	ColWeek  = "semaine"
	ColMonth = "mois"
)

// Volumes holds purchase counts and revenue per calendar period.
type Volumes struct {
	Day   *table.Table
	Week  *table.Table
	Month *table.Table
}

// Period describes how a date is bucketed.
type Period struct {
	// Column is the name of the key column.
	Column string

	// Key renders the period of a date. Keys sort in calendar order.
	Key func(time.Time) string
}

var (
	// Daily groups by calendar day, "2024-03-01".
	Daily = Period{Column: ColDay, Key: func(t time.Time) string {
		return t.UTC().Format("2006-01-02")
	}}

	// Weekly groups by ISO week, "2024-W09".
	Weekly = Period{Column: ColWeek, Key: func(t time.Time) string {
		y, w := t.UTC().ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	}}

	// Monthly groups by calendar month, "2024-03".
	Monthly = Period{Column: ColMonth, Key: func(t time.Time) string {
		return t.UTC().Format("2006-01")
	}}
)

// VolumesByPeriod computes day, week and month volumes of the fact table.
func VolumesByPeriod(fact *table.Table) Volumes {
	return Volumes{
		Day:   VolumesBy(fact, Daily),
		Week:  VolumesBy(fact, Weekly),
		Month: VolumesBy(fact, Monthly),
	}
}

// VolumesBy groups purchases by period and returns the number of purchases
// and the total amount of every period, sorted by period key. Purchases
// without a date are left out. Null amounts count as purchases but add
// nothing to the revenue.
func VolumesBy(fact *table.Table, p Period) *table.Table {
	res := table.New(
		table.Column{Name: p.Column, Kind: table.String},
		table.Column{Name: ColCount, Kind: table.Int},
		table.Column{Name: ColRevenue, Kind: table.Float},
	)

	di := fact.ColumnIndex(ColDate)
	if di < 0 {
		return res
	}
	ai := fact.ColumnIndex(ColAmount)

	groups := make(map[string]*aggregate)
	for _, row := range fact.Rows() {
		t, ok := table.AsTime(row[di])
		if !ok {
			continue
		}
		k := p.Key(t)
		g, ok := groups[k]
		if !ok {
			g = &aggregate{}
			groups[k] = g
		}
		g.add(amountOf(row, ai))
	}

	for _, k := range sortedKeys(groups) {
		g := groups[k]
		res.Append(k, g.count, g.sum.InexactFloat64())
	}
	return res
}

type aggregate struct {
	count   int64
	amounts int64
	sum     decimal.Decimal
}

func (a *aggregate) add(v *decimal.Decimal) {
	a.count++
	if v == nil {
		return
	}
	a.amounts++
	a.sum = a.sum.Add(*v)
}

// mean is the average of non-null amounts, nil if there were none.
func (a *aggregate) mean() any {
	if a.amounts == 0 {
		return nil
	}
	return a.sum.Div(decimal.NewFromInt(a.amounts)).Round(2).InexactFloat64()
}

// amountOf returns the amount cell of a row as decimal, nil when the cell
// is null, missing or not a finite number.
func amountOf(row []any, ai int) *decimal.Decimal {
	if ai < 0 {
		return nil
	}
	f, ok := table.AsFloat(row[ai])
	if !ok || isInf(f) {
		return nil
	}
	d := decimal.NewFromFloat(f)
	return &d
}

func sortedKeys[V any](m map[string]V) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}
