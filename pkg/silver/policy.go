// Package silver turns raw bronze tables into canonical silver tables and
// guards them with a quality gate. It is a pure package: no I/O.
package silver

import (
	"slices"
	"strings"
)

// Policy tells the cleaner how to treat one dataset. New datasets get a
// new Policy instead of new branches in the cleaner.
type Policy struct {
	// Name identifies the dataset in logs, reports and errors.
	Name string

	// KeyColumn is the primary key. Rows repeating an already seen key are
	// dropped. Empty means the dataset has no declared key.
	KeyColumn string

	// DateColumns lists columns parsed as dates in addition to every
	// column whose name contains "date".
	DateColumns []string
}

var (
	// Clients is the policy of the client dataset.
	Clients = Policy{Name: "clients", KeyColumn: "id_client"}

	// Purchases is the policy of the purchase dataset.
	Purchases = Policy{Name: "achats", KeyColumn: "id_achat"}
)

// IsDateColumn reports if the column must be parsed into timestamps.
func (p Policy) IsDateColumn(name string) bool {
	if strings.Contains(strings.ToLower(name), "date") {
		return true
	}
	return slices.Contains(p.DateColumns, name)
}
