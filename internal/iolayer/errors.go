package iolayer

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/pkg/errcode"
)

func ObjectStoreReadError(bucket, key string, err error) error {
	msg := "Cannot read <em>%s/%s</em>"
	vars := []any{bucket, key}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ObjectStoreReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: get %s/%s: %w", fn.Name(), bucket, key, err),
	}
}

func ObjectStoreWriteError(bucket, key string, err error) error {
	msg := "Cannot write <em>%s/%s</em>"
	vars := []any{bucket, key}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ObjectStoreWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: put %s/%s: %w", fn.Name(), bucket, key, err),
	}
}

func ObjectStoreBucketError(bucket string, err error) error {
	msg := "Cannot create bucket <em>%s</em>"
	vars := []any{bucket}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ObjectStoreBucketError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: bucket %s: %w", fn.Name(), bucket, err),
	}
}

func ObjectStoreListError(bucket string, err error) error {
	msg := "Cannot list objects of bucket <em>%s</em>"
	vars := []any{bucket}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ObjectStoreListError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: list %s: %w", fn.Name(), bucket, err),
	}
}
