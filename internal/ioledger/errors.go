package ioledger

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/pkg/errcode"
)

func OpenError(location string, err error) error {
	msg := `Cannot open run ledger at <em>%s</em>

<em>How to fix:</em>
  1. Check <em>ledger.path</em> or <em>ledger.dsn</em> in the config file
  2. Set <em>ledger.backend</em> to <em>none</em> to run without history`
	vars := []any{location}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LedgerOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: open %s: %w", fn.Name(), location, err),
	}
}

func MigrateError(err error) error {
	msg := "Cannot create run ledger tables"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LedgerMigrateError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: migrate: %w", fn.Name(), err),
	}
}

func WriteError(table string, err error) error {
	msg := "Cannot record to run ledger table <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LedgerWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: write %s: %w", fn.Name(), table, err),
	}
}

func ReadError(table string, err error) error {
	msg := "Cannot read run ledger table <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LedgerReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: read %s: %w", fn.Name(), table, err),
	}
}
