package silver

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/pkg/errcode"
)

var (
	// ErrEmptyDataset is wrapped by errors of EmptyDatasetError.
	ErrEmptyDataset = errors.New("dataset is empty")

	// ErrAllNullColumn is wrapped by errors of AllNullColumnError.
	ErrAllNullColumn = errors.New("column has only null values")
)

// EmptyDatasetError is returned by the quality gate for a table
// without rows.
func EmptyDatasetError(dataset string) error {
	msg := `[Data Quality] dataset <em>%s</em> is empty

<em>Possible causes:</em>
  - the bronze extract has only a header
  - every row was empty or a duplicate`

	return &gn.Error{
		Code: errcode.QualityEmptyDatasetError,
		Msg:  msg,
		Vars: []any{dataset},
		Err:  fmt.Errorf("%s: %w", dataset, ErrEmptyDataset),
	}
}

// AllNullColumnError is returned by the quality gate for a table with a
// column where every value is null.
func AllNullColumnError(dataset, column string) error {
	msg := `[Data Quality] dataset <em>%s</em> has column <em>%s</em> with only null values

<em>Possible causes:</em>
  - the column is missing from the extract
  - no value of a date column could be parsed`

	return &gn.Error{
		Code: errcode.QualityAllNullColumnError,
		Msg:  msg,
		Vars: []any{dataset, column},
		Err:  fmt.Errorf("%s.%s: %w", dataset, column, ErrAllNullColumn),
	}
}
