package ioformat

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/pkg/errcode"
)

func CSVError(err error) error {
	msg := "Cannot process CSV data"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FormatCSVError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: csv: %w", fn.Name(), err),
	}
}

func ParquetError(err error) error {
	msg := "Cannot process Parquet data"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FormatParquetError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: parquet: %w", fn.Name(), err),
	}
}

func JSONError(err error) error {
	msg := "Cannot process JSON data"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FormatJSONError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: json: %w", fn.Name(), err),
	}
}

func UnknownFormatError(f Format) error {
	msg := "Unsupported data format <em>%s</em>"
	return &gn.Error{
		Code: errcode.UnknownError,
		Msg:  msg,
		Vars: []any{f},
		Err:  fmt.Errorf("unsupported format %s", f),
	}
}
