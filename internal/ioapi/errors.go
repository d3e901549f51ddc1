package ioapi

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/pkg/errcode"
)

func ServeError(addr string, err error) error {
	msg := `Cannot serve the API on <em>%s</em>

<em>Possible causes:</em>
  - the port is already in use
  - the address is malformed`
	vars := []any{addr}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.APIServeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: serve %s: %w", fn.Name(), addr, err),
	}
}
