package ioflow

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/pkg/errcode"
)

// ErrNoDocumentStore means the export flow was requested without a
// serving store.
var ErrNoDocumentStore = errors.New("document store is not configured")

func UnknownFlowError(name string) error {
	msg := "Unknown flow <em>%s</em>, use silver, gold or export"
	vars := []any{name}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FlowGraphError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown flow %q", fn.Name(), name),
	}
}

func NoDocumentStoreError() error {
	msg := "Export flow needs a document store"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FlowGraphError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), ErrNoDocumentStore),
	}
}
