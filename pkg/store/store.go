// Package store declares the storage the pipeline depends on: an
// S3-compatible object store holding the bronze, silver and gold layers,
// and a document store serving the KPIs.
package store

import (
	"context"
	"time"
)

// ObjectInfo describes an object of a bucket.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStore stores immutable byte blobs in buckets.
type ObjectStore interface {
	// EnsureBucket creates the bucket if it does not exist.
	EnsureBucket(ctx context.Context, bucket string) error

	// PutObject writes data under the key, replacing any previous object.
	PutObject(ctx context.Context, bucket, key string, data []byte) error

	// GetObject returns the content of an object.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)

	// ListObjects returns objects of the bucket whose keys start with
	// prefix, sorted by key.
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)

	// Close releases resources of the client.
	Close() error
}

// Document is a record of a collection.
type Document = map[string]any

// DocumentStore keeps collections of documents.
type DocumentStore interface {
	// Drop removes a collection. Dropping a missing collection is not an
	// error.
	Drop(ctx context.Context, collection string) error

	// Create makes an empty collection. Creating an existing collection
	// is not an error.
	Create(ctx context.Context, collection string) error

	// InsertMany adds documents to a collection, creating it if needed.
	InsertMany(ctx context.Context, collection string, docs []Document) error

	// Rename replaces the target collection by the source one.
	Rename(ctx context.Context, source, target string) error

	// Find returns every document of a collection without the internal id.
	Find(ctx context.Context, collection string) ([]Document, error)

	// Count returns the number of documents of a collection.
	Count(ctx context.Context, collection string) (int64, error)

	// Close disconnects from the store.
	Close(ctx context.Context) error
}
