package gold

import (
	"math"

	"github.com/kpilake/kpilake/pkg/table"
	"github.com/montanaflynn/stats"
)

// Columns of the distribution summary.
const (
	ColMean      = "montant_moyen"
	ColMedian    = "montant_median"
	ColMin       = "montant_min"
	ColMax       = "montant_max"
	ColStdDev    = "ecart_type"
	ColStdDevPop = "ecart_type_population"
)

// Distribution summarizes all purchase amounts in a single row. The count
// is the number of purchases, like nb_achats of the other KPIs. Statistics
// ignore null amounts. They are null when there is no amount, the
// sample standard deviation is null for fewer than two amounts. Every
// statistic is rounded to 2 decimals.
func Distribution(fact *table.Table) *table.Table {
	res := table.New(
		table.Column{Name: ColCount, Kind: table.Int},
		table.Column{Name: ColMean, Kind: table.Float},
		table.Column{Name: ColMedian, Kind: table.Float},
		table.Column{Name: ColMin, Kind: table.Float},
		table.Column{Name: ColMax, Kind: table.Float},
		table.Column{Name: ColStdDev, Kind: table.Float},
		table.Column{Name: ColStdDevPop, Kind: table.Float},
	)

	var data stats.Float64Data
	if ai := fact.ColumnIndex(ColAmount); ai >= 0 {
		for _, row := range fact.Rows() {
			if f, ok := table.AsFloat(row[ai]); ok && !isInf(f) {
				data = append(data, f)
			}
		}
	}

	if len(data) == 0 {
		res.Append(int64(fact.Len()), nil, nil, nil, nil, nil, nil)
		return res
	}

	res.Append(
		int64(fact.Len()),
		stat(data.Mean),
		stat(data.Median),
		stat(data.Min),
		stat(data.Max),
		sampleStdDev(data),
		stat(data.StandardDeviationPopulation),
	)
	return res
}

func sampleStdDev(data stats.Float64Data) any {
	if len(data) < 2 {
		return nil
	}
	return stat(data.StandardDeviationSample)
}

func stat(fn func() (float64, error)) any {
	v, err := fn()
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return Round(v)
}

func isInf(f float64) bool {
	return math.IsInf(f, 0)
}
