package gold

import (
	"slices"
	"time"

	"github.com/kpilake/kpilake/pkg/table"
)

// Columns of the time dimension.
const (
	ColDimDate    = "date"
	ColDimYear    = "annee"
	ColDimMonth   = "mois"
	ColDimDay     = "jour"
	ColDimWeek    = "semaine"
	ColDimWeekday = "jour_semaine"
)

// ClientDimension copies the cleaned clients and adds the signup year.
// The year is null when the signup date is null or missing.
func ClientDimension(clients *table.Table) *table.Table {
	res := clients.Clone()
	di := res.ColumnIndex(ColSignupDate)
	res.AddColumn(
		table.Column{Name: ColSignupYear, Kind: table.Int},
		func(row []any) any {
			if di < 0 {
				return nil
			}
			if t, ok := table.AsTime(row[di]); ok {
				return int64(t.Year())
			}
			return nil
		},
	)
	return res
}

// TimeDimension has one row per distinct purchase day, sorted ascending,
// with calendar attributes. Null dates are skipped.
func TimeDimension(purchases *table.Table) *table.Table {
	res := table.New(
		table.Column{Name: ColDimDate, Kind: table.Time},
		table.Column{Name: ColDimYear, Kind: table.Int},
		table.Column{Name: ColDimMonth, Kind: table.Int},
		table.Column{Name: ColDimDay, Kind: table.Int},
		table.Column{Name: ColDimWeek, Kind: table.Int},
		table.Column{Name: ColDimWeekday, Kind: table.String},
	)

	di := purchases.ColumnIndex(ColDate)
	if di < 0 {
		return res
	}

	seen := make(map[time.Time]struct{})
	var days []time.Time
	for _, row := range purchases.Rows() {
		t, ok := table.AsTime(row[di])
		if !ok {
			continue
		}
		day := truncateDay(t)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	for _, d := range days {
		_, week := d.ISOWeek()
		res.Append(
			d,
			int64(d.Year()),
			int64(d.Month()),
			int64(d.Day()),
			int64(week),
			d.Weekday().String(),
		)
	}
	return res
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
