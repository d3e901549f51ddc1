package gold_test

import (
	"testing"
	"time"

	"github.com/kpilake/kpilake/pkg/gold"
	"github.com/kpilake/kpilake/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clients() *table.Table {
	t := table.New(
		table.Column{Name: "id_client", Kind: table.Int},
		table.Column{Name: "nom", Kind: table.String},
		table.Column{Name: "date_inscription", Kind: table.Time},
		table.Column{Name: "pays", Kind: table.String},
	)
	t.Append(int64(1), "Alice", day(2022, 5, 1), "FR")
	t.Append(int64(2), "Bob", nil, "DE")
	t.Append(int64(3), "Chloé", day(2023, 1, 9), nil)
	return t
}

func purchases() *table.Table {
	t := table.New(
		table.Column{Name: "id_achat", Kind: table.String},
		table.Column{Name: "id_client", Kind: table.Int},
		table.Column{Name: "date_achat", Kind: table.Time},
		table.Column{Name: "montant", Kind: table.Float},
	)
	t.Append("A1", int64(1), time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), 100.0)
	t.Append("A2", int64(1), day(2024, 1, 1), 200.0)
	t.Append("A3", int64(2), day(2024, 2, 5), 50.0)
	t.Append("A4", int64(9), day(2024, 2, 6), 25.5)
	t.Append("A5", int64(3), nil, 10.0)
	return t
}

func TestRound(t *testing.T) {
	tests := []struct {
		in, out float64
	}{
		{2.675, 2.68},
		{0.125, 0.13},
		{-0.125, -0.13},
		{1.005, 1.01},
		{2.5, 2.5},
		{10.0 / 3, 3.33},
	}
	for _, v := range tests {
		assert.Equal(t, v.out, gold.Round(v.in), v.in)
	}
}

func TestClientDimension(t *testing.T) {
	src := clients()
	res := gold.ClientDimension(src)
	require.Equal(t, 3, res.Len())
	assert.Equal(t, int64(2022), res.Value(0, "annee_inscription"))
	assert.Nil(t, res.Value(1, "annee_inscription"))
	assert.Equal(t, int64(2023), res.Value(2, "annee_inscription"))
	assert.False(t, src.HasColumn("annee_inscription"))
}

func TestTimeDimension(t *testing.T) {
	res := gold.TimeDimension(purchases())
	require.Equal(t, 3, res.Len(), "distinct days without null")
	assert.Equal(t,
		[]string{"date", "annee", "mois", "jour", "semaine", "jour_semaine"},
		res.ColumnNames())
	assert.Equal(t, day(2024, 1, 1), res.Value(0, "date"))
	assert.Equal(t, int64(2024), res.Value(0, "annee"))
	assert.Equal(t, int64(1), res.Value(0, "semaine"))
	assert.Equal(t, "Monday", res.Value(0, "jour_semaine"))
	assert.Equal(t, day(2024, 2, 6), res.Value(2, "date"))
	assert.Equal(t, int64(2), res.Value(2, "mois"))
	assert.Equal(t, int64(6), res.Value(2, "jour"))
	assert.Equal(t, "Tuesday", res.Value(2, "jour_semaine"))
}

func TestFact(t *testing.T) {
	p := purchases()
	c := clients()
	c.Append(int64(1), "Alice dup", nil, "IT")

	res := gold.Fact(p, c)
	assert.Equal(t, p.Len(), res.Len(), "one fact row per purchase")
	assert.Equal(t, "FR", res.Value(0, "pays"))
	assert.Equal(t, "FR", res.Value(1, "pays"), "first client row wins")
	assert.Equal(t, "DE", res.Value(2, "pays"))
	assert.Nil(t, res.Value(3, "pays"), "unknown client")
	assert.Nil(t, res.Value(4, "pays"), "client without country")
	assert.False(t, p.HasColumn("pays"))

	t.Run("keys of different kinds match", func(t *testing.T) {
		cs := table.New(
			table.Column{Name: "id_client", Kind: table.String},
			table.Column{Name: "pays", Kind: table.String},
		)
		cs.Append(" 2", "DE")
		res := gold.Fact(purchases(), cs)
		assert.Equal(t, "DE", res.Value(2, "pays"))
	})

	t.Run("clients without country", func(t *testing.T) {
		cs := table.New(table.Column{Name: "id_client", Kind: table.Int})
		cs.Append(int64(1))
		res := gold.Fact(purchases(), cs)
		assert.Equal(t, 5, res.Len())
		assert.Nil(t, res.Value(0, "pays"))
	})
}

func TestVolumesByPeriod(t *testing.T) {
	vol := gold.VolumesByPeriod(purchases())

	t.Run("day", func(t *testing.T) {
		require.Equal(t, 3, vol.Day.Len())
		assert.Equal(t, "2024-01-01", vol.Day.Value(0, "jour"))
		assert.Equal(t, int64(2), vol.Day.Value(0, "nb_achats"))
		assert.Equal(t, 300.0, vol.Day.Value(0, "ca_total"))
	})

	t.Run("week", func(t *testing.T) {
		require.Equal(t, 2, vol.Week.Len())
		assert.Equal(t, "2024-W01", vol.Week.Value(0, "semaine"))
		assert.Equal(t, "2024-W06", vol.Week.Value(1, "semaine"))
		assert.Equal(t, 75.5, vol.Week.Value(1, "ca_total"))
	})

	t.Run("month", func(t *testing.T) {
		require.Equal(t, 2, vol.Month.Len())
		assert.Equal(t, "2024-01", vol.Month.Value(0, "mois"))
		assert.Equal(t, "2024-02", vol.Month.Value(1, "mois"))
		assert.Equal(t, int64(2), vol.Month.Value(1, "nb_achats"))
	})

	t.Run("iso week crosses year", func(t *testing.T) {
		p := table.New(
			table.Column{Name: "date_achat", Kind: table.Time},
			table.Column{Name: "montant", Kind: table.Float},
		)
		p.Append(day(2024, 12, 30), 1.0)
		res := gold.VolumesBy(p, gold.Weekly)
		assert.Equal(t, "2025-W01", res.Value(0, "semaine"))
	})
}

func TestVolumesOrderIndependent(t *testing.T) {
	amounts := []float64{0.1, 0.2, 0.3, 1e-3, 7.77}
	build := func(order []int) *table.Table {
		p := table.New(
			table.Column{Name: "date_achat", Kind: table.Time},
			table.Column{Name: "montant", Kind: table.Float},
		)
		for _, i := range order {
			p.Append(day(2024, 3, 1), amounts[i])
		}
		return p
	}
	a := gold.VolumesBy(build([]int{0, 1, 2, 3, 4}), gold.Monthly)
	b := gold.VolumesBy(build([]int{4, 3, 2, 1, 0}), gold.Monthly)
	assert.Equal(t, a.Rows(), b.Rows())
	assert.Equal(t, 8.371, a.Value(0, "ca_total"))
}

func TestRevenueByCountry(t *testing.T) {
	fact := table.New(
		table.Column{Name: "pays", Kind: table.String},
		table.Column{Name: "montant", Kind: table.Float},
	)
	fact.Append("FR", 100.0)
	fact.Append("DE", 50.0)
	fact.Append("FR", 200.0)
	fact.Append(nil, 1000.0)

	res := gold.RevenueByCountry(fact)
	require.Equal(t, 2, res.Len())
	assert.Equal(t, []any{"DE", int64(1), 50.0, 50.0}, res.Row(0))
	assert.Equal(t, []any{"FR", int64(2), 300.0, 150.0}, res.Row(1))

	t.Run("mean is rounded", func(t *testing.T) {
		f := table.New(
			table.Column{Name: "pays", Kind: table.String},
			table.Column{Name: "montant", Kind: table.Float},
		)
		f.Append("FR", 10.0)
		f.Append("FR", 10.0)
		f.Append("FR", 0.01)
		res := gold.RevenueByCountry(f)
		assert.Equal(t, 6.67, res.Value(0, "panier_moyen"))
		assert.Equal(t, 20.01, res.Value(0, "ca_total"))
	})
}

func TestGrowth(t *testing.T) {
	monthly := table.New(
		table.Column{Name: "mois", Kind: table.String},
		table.Column{Name: "nb_achats", Kind: table.Int},
		table.Column{Name: "ca_total", Kind: table.Float},
	)
	monthly.Append("2024-03", int64(1), 0.0)
	monthly.Append("2024-01", int64(2), 100.0)
	monthly.Append("2024-02", int64(3), 150.0)
	monthly.Append("2024-04", int64(1), 10.0)

	res := gold.Growth(monthly)
	require.Equal(t, 4, res.Len())
	assert.Equal(t, "2024-03", monthly.Value(0, "mois"), "input unchanged")

	tests := []struct {
		mois string
		prev any
		pct  any
	}{
		{"2024-01", nil, nil},
		{"2024-02", 100.0, 50.0},
		{"2024-03", 150.0, -100.0},
		{"2024-04", 0.0, nil},
	}
	for i, v := range tests {
		assert.Equal(t, v.mois, res.Value(i, "mois"))
		assert.Equal(t, v.prev, res.Value(i, "ca_mois_precedent"), v.mois)
		assert.Equal(t, v.pct, res.Value(i, "croissance_pct"), v.mois)
	}

	t.Run("rounded", func(t *testing.T) {
		m := table.New(
			table.Column{Name: "mois", Kind: table.String},
			table.Column{Name: "ca_total", Kind: table.Float},
		)
		m.Append("2024-01", 3.0)
		m.Append("2024-02", 4.0)
		res := gold.Growth(m)
		assert.Equal(t, 33.33, res.Value(1, "croissance_pct"))
	})
}

func TestDistribution(t *testing.T) {
	fact := table.New(table.Column{Name: "montant", Kind: table.Float})
	fact.Append(30.0)
	fact.Append(10.0)
	fact.Append(nil)
	fact.Append(20.0)

	res := gold.Distribution(fact)
	require.Equal(t, 1, res.Len())
	assert.Equal(t, int64(4), res.Value(0, "nb_achats"),
		"purchases without amount are counted")
	assert.Equal(t, 20.0, res.Value(0, "montant_moyen"))
	assert.Equal(t, 20.0, res.Value(0, "montant_median"))
	assert.Equal(t, 10.0, res.Value(0, "montant_min"))
	assert.Equal(t, 30.0, res.Value(0, "montant_max"))
	assert.Equal(t, 10.0, res.Value(0, "ecart_type"))
	assert.Equal(t, 8.16, res.Value(0, "ecart_type_population"))

	t.Run("single amount", func(t *testing.T) {
		f := table.New(table.Column{Name: "montant", Kind: table.Float})
		f.Append(5.0)
		res := gold.Distribution(f)
		assert.Equal(t, 5.0, res.Value(0, "montant_median"))
		assert.Nil(t, res.Value(0, "ecart_type"))
		assert.Equal(t, 0.0, res.Value(0, "ecart_type_population"))
	})

	t.Run("no amount", func(t *testing.T) {
		res := gold.Distribution(table.New(
			table.Column{Name: "montant", Kind: table.Float}))
		require.Equal(t, 1, res.Len())
		assert.Equal(t, int64(0), res.Value(0, "nb_achats"))
		assert.Nil(t, res.Value(0, "montant_moyen"))
	})

	t.Run("only null amounts", func(t *testing.T) {
		f := table.New(table.Column{Name: "montant", Kind: table.Float})
		f.Append(nil)
		f.Append(nil)
		res := gold.Distribution(f)
		assert.Equal(t, int64(2), res.Value(0, "nb_achats"))
		assert.Nil(t, res.Value(0, "montant_moyen"))
	})
}

func TestDistributionCountMatchesVolumes(t *testing.T) {
	fact := table.New(
		table.Column{Name: "id_achat", Kind: table.String},
		table.Column{Name: "date_achat", Kind: table.Time},
		table.Column{Name: "montant", Kind: table.Float},
	)
	fact.Append("A1", day(2024, 1, 1), 10.0)
	fact.Append("A2", day(2024, 1, 1), nil)
	fact.Append("A3", day(2024, 1, 1), 30.0)
	fact.Append("A4", day(2024, 2, 3), nil)

	months := gold.VolumesBy(fact, gold.Monthly)
	var total int64
	for i := range months.Len() {
		total += months.Value(i, "nb_achats").(int64)
	}

	dist := gold.Distribution(fact)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, total, dist.Value(0, "nb_achats"))
	assert.Equal(t, 20.0, dist.Value(0, "montant_moyen"))
}
