package iomongo

import (
	"fmt"
	"net/url"
	"runtime"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/pkg/errcode"
)

func ConnectionError(uri string, err error) error {
	msg := `Cannot connect to document store <em>%s</em>

<em>Possible causes:</em>
  - MongoDB is not running
  - the URI or credentials are wrong`
	vars := []any{redact(uri)}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DocumentStoreConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: connect: %w", fn.Name(), err),
	}
}

func WriteError(coll string, err error) error {
	msg := "Cannot write collection <em>%s</em>"
	vars := []any{coll}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DocumentStoreWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: write %s: %w", fn.Name(), coll, err),
	}
}

func ReadError(coll string, err error) error {
	msg := "Cannot read collection <em>%s</em>"
	vars := []any{coll}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DocumentStoreReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: read %s: %w", fn.Name(), coll, err),
	}
}

// redact hides the password of a connection string.
func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<invalid uri>"
	}
	return u.Redacted()
}
