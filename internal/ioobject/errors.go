package ioobject

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/pkg/errcode"
)

func ConnectionError(endpoint string, err error) error {
	msg := `Cannot connect to object store at <em>%s</em>

<em>Possible causes:</em>
  - endpoint must be host:port without scheme
  - wrong access or secret key`
	vars := []any{endpoint}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ObjectStoreConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: connect %s: %w", fn.Name(), endpoint, err),
	}
}
