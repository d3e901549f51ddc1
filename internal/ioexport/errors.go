package ioexport

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/pkg/errcode"
)

func ExportError(coll string, err error) error {
	msg := "Cannot export to collection <em>%s</em>"
	vars := []any{coll}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DocumentStoreWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: export %s: %w", fn.Name(), coll, err),
	}
}
