package silver_test

import (
	"testing"
	"time"

	"github.com/kpilake/kpilake/pkg/silver"
	"github.com/kpilake/kpilake/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawClients() *table.Table {
	t := table.New(
		table.Column{Name: "id_client", Kind: table.Int},
		table.Column{Name: "nom", Kind: table.String},
		table.Column{Name: "date_inscription", Kind: table.String},
		table.Column{Name: "pays", Kind: table.String},
	)
	t.Append(int64(1), " Alice ", "2023-01-15", "France")
	t.Append(nil, nil, nil, nil)
	t.Append(int64(2), "Bob", "not a date", "Germany ")
	t.Append(int64(1), "Alice again", "2023-02-01", "France")
	t.Append(int64(3), "Chloé", "03/04/2023", "France")
	return t
}

func TestClean(t *testing.T) {
	raw := rawClients()
	res, rep := silver.Clean(raw, silver.Clients)

	require.Equal(t, 3, res.Len())
	assert.Equal(t, 5, rep.InputRows)
	assert.Equal(t, 1, rep.EmptyRows)
	assert.Equal(t, 1, rep.DuplicateKeys)
	assert.Equal(t, 0, rep.DuplicateRows)
	assert.Equal(t, 3, rep.OutputRows)
	assert.Equal(t, map[string]int{"date_inscription": 1}, rep.DateNulls)
	assert.Equal(t, 1, rep.ParseFailures())

	t.Run("first key occurrence wins", func(t *testing.T) {
		assert.Equal(t, "Alice", res.Value(0, "nom"))
	})

	t.Run("strings are trimmed", func(t *testing.T) {
		assert.Equal(t, "Germany", res.Value(1, "pays"))
	})

	t.Run("dates are parsed", func(t *testing.T) {
		ci := res.ColumnIndex("date_inscription")
		assert.Equal(t, table.Time, res.Column(ci).Kind)
		assert.Equal(t,
			time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
			res.Value(0, "date_inscription"))
		assert.Nil(t, res.Value(1, "date_inscription"))
		assert.Equal(t,
			time.Date(2023, 3, 4, 0, 0, 0, 0, time.UTC),
			res.Value(2, "date_inscription"))
	})

	t.Run("input is untouched", func(t *testing.T) {
		assert.Equal(t, 5, raw.Len())
		assert.Equal(t, " Alice ", raw.Value(0, "nom"))
		assert.Equal(t, "2023-01-15", raw.Value(0, "date_inscription"))
	})
}

func TestCleanIdempotent(t *testing.T) {
	once, _ := silver.Clean(rawClients(), silver.Clients)
	twice, rep := silver.Clean(once, silver.Clients)
	assert.Equal(t, once.Len(), twice.Len())
	assert.Equal(t, 0, rep.EmptyRows+rep.DuplicateKeys+rep.DuplicateRows)
	assert.Equal(t, 0, rep.ParseFailures())
	assert.Equal(t, once.Rows(), twice.Rows())
}

func TestCleanDedupByKey(t *testing.T) {
	raw := table.New(
		table.Column{Name: "id_achat", Kind: table.String},
		table.Column{Name: "montant", Kind: table.Float},
	)
	ids := []string{"A1", "A2", "A1", " A2", "A3", "A1"}
	for i, id := range ids {
		raw.Append(id, float64(i))
	}

	res, rep := silver.Clean(raw, silver.Purchases)
	assert.Equal(t, 3, res.Len(), "one row per distinct key")
	assert.Equal(t, 3, rep.DuplicateKeys)
	assert.Equal(t, 0.0, res.Value(0, "montant"))
	assert.Equal(t, 1.0, res.Value(1, "montant"))
	assert.Equal(t, 4.0, res.Value(2, "montant"))
}

func TestCleanFullDuplicates(t *testing.T) {
	raw := table.New(
		table.Column{Name: "a", Kind: table.String},
		table.Column{Name: "b", Kind: table.Int},
	)
	raw.Append("x ", int64(1))
	raw.Append("x", int64(1))
	raw.Append("y", int64(1))

	res, rep := silver.Clean(raw, silver.Policy{Name: "nokey"})
	assert.Equal(t, 2, res.Len())
	assert.Equal(t, 1, rep.DuplicateRows)
	assert.Equal(t, 0, rep.DuplicateKeys)
}

func TestCleanRowNullAfterParsing(t *testing.T) {
	raw := table.New(
		table.Column{Name: "id", Kind: table.Int},
		table.Column{Name: "Date_Event", Kind: table.String},
	)
	raw.Append(int64(1), "2024-05-01 10:30:00")
	raw.Append(nil, "garbage")

	res, rep := silver.Clean(raw, silver.Policy{Name: "events"})
	require.Equal(t, 1, res.Len())
	assert.Equal(t, 1, rep.EmptyRows)
	assert.Equal(t, 1, rep.DateNulls["Date_Event"])
	assert.Equal(t,
		time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		res.Value(0, "Date_Event"))
}

func TestPolicyDateColumns(t *testing.T) {
	p := silver.Policy{Name: "x", DateColumns: []string{"created"}}
	assert.True(t, p.IsDateColumn("created"))
	assert.True(t, p.IsDateColumn("DATE_ACHAT"))
	assert.True(t, p.IsDateColumn("update_date"))
	assert.False(t, p.IsDateColumn("montant"))
}
