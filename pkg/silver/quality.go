package silver

import "github.com/kpilake/kpilake/pkg/table"

// Check is the quality gate of the silver layer. It fails when the table
// has no rows or when any column is entirely null. It never repairs data.
func Check(t *table.Table, dataset string) error {
	if t.Len() == 0 {
		return EmptyDatasetError(dataset)
	}
	for ci := range t.Width() {
		if t.IsNullColumn(ci) {
			return AllNullColumnError(dataset, t.Column(ci).Name)
		}
	}
	return nil
}
