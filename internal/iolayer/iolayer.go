// Package iolayer reads and writes tables in the bronze, silver and gold
// layers of the object store.
package iolayer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/kpilake/kpilake/internal/ioformat"
	"github.com/kpilake/kpilake/pkg/store"
	"github.com/kpilake/kpilake/pkg/table"
)

// Layer gives table access to an object store.
type Layer struct {
	store store.ObjectStore
}

// New creates a Layer on top of an object store.
func New(s store.ObjectStore) *Layer {
	return &Layer{store: s}
}

// ObjectError tells why an object could not be read.
type ObjectError struct {
	Key string
	Err error
}

func (e ObjectError) Error() string {
	return fmt.Sprintf("%s: %v", e.Key, e.Err)
}

func (e ObjectError) Unwrap() error {
	return e.Err
}

// Read loads an object as a table. The format comes from the key
// extension.
func (l *Layer) Read(
	ctx context.Context,
	bucket, key string,
) (*table.Table, error) {
	f := ioformat.FormatOf(key)
	if f == ioformat.Unknown {
		return nil, ioformat.UnknownFormatError(f)
	}

	data, err := l.store.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, ObjectStoreReadError(bucket, key, err)
	}

	res, err := ioformat.Decode(ctx, f, data)
	if err != nil {
		return nil, err
	}
	slog.Info("Object read",
		"bucket", bucket, "object", key,
		"rows", res.Len(), "size", humanize.Bytes(uint64(len(data))),
	)
	return res, nil
}

// Write stores a table under the key, creating the bucket if needed and
// replacing the previous object. The format comes from the key
// extension, keys without a known extension are written as Parquet.
func (l *Layer) Write(
	ctx context.Context,
	t *table.Table,
	bucket, key string,
) error {
	f := ioformat.FormatOf(key)
	if f == ioformat.Unknown {
		f = ioformat.Parquet
	}

	data, err := ioformat.Encode(f, t)
	if err != nil {
		return err
	}

	if err = l.store.EnsureBucket(ctx, bucket); err != nil {
		return ObjectStoreBucketError(bucket, err)
	}

	if err = l.store.PutObject(ctx, bucket, key, data); err != nil {
		return ObjectStoreWriteError(bucket, key, err)
	}

	slog.Info("Object written",
		"bucket", bucket, "object", key,
		"rows", t.Len(), "size", humanize.Bytes(uint64(len(data))),
	)
	return nil
}

// Put stores raw bytes, creating the bucket if needed.
func (l *Layer) Put(
	ctx context.Context,
	bucket, key string,
	data []byte,
) error {
	if err := l.store.EnsureBucket(ctx, bucket); err != nil {
		return ObjectStoreBucketError(bucket, err)
	}
	if err := l.store.PutObject(ctx, bucket, key, data); err != nil {
		return ObjectStoreWriteError(bucket, key, err)
	}
	return nil
}

// List returns the objects of a bucket with the given key prefix.
func (l *Layer) List(
	ctx context.Context,
	bucket, prefix string,
) ([]store.ObjectInfo, error) {
	res, err := l.store.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return nil, ObjectStoreListError(bucket, err)
	}
	return res, nil
}

// ReadAll reads every CSV, JSON and Parquet object of a bucket whose key
// starts with prefix and stacks them into one table. Objects of other
// formats are ignored. An object that cannot be read is skipped and
// reported in the returned list. Only a failure to list the bucket is
// returned as an error.
func (l *Layer) ReadAll(
	ctx context.Context,
	bucket, prefix string,
) (*table.Table, []ObjectError, error) {
	objs, err := l.List(ctx, bucket, prefix)
	if err != nil {
		return nil, nil, err
	}

	var tables []*table.Table
	var errs []ObjectError
	for _, o := range objs {
		if ioformat.FormatOf(o.Key) == ioformat.Unknown {
			continue
		}
		t, err := l.Read(ctx, bucket, o.Key)
		if err != nil {
			slog.Warn("Cannot read object, skipping",
				"bucket", bucket, "object", o.Key, "error", err)
			errs = append(errs, ObjectError{Key: o.Key, Err: err})
			continue
		}
		tables = append(tables, t)
	}
	return table.Concat(tables...), errs, nil
}
