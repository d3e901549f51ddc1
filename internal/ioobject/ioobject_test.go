package ioobject_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/internal/ioobject"
	"github.com/kpilake/kpilake/internal/iotesting"
	"github.com/kpilake/kpilake/pkg/config"
	"github.com/kpilake/kpilake/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBadEndpoint(t *testing.T) {
	cfg := config.New().ObjectStore
	cfg.Endpoint = "http://localhost:9000/path"

	_, err := ioobject.New(cfg)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ObjectStoreConnectionError, gnErr.Code)
}

// TestMinio runs against a live MinIO given as KPILAKE_TEST_MINIO, for
// example "localhost:9000" with minioadmin credentials.
func TestMinio(t *testing.T) {
	endpoint := iotesting.EnvOrSkip(t, "KPILAKE_TEST_MINIO")
	cfg := config.New().ObjectStore
	cfg.Endpoint = endpoint

	s, err := ioobject.New(cfg)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	bucket := fmt.Sprintf("kpilake-test-%d", time.Now().UnixNano())
	require.NoError(t, s.EnsureBucket(ctx, bucket))
	require.NoError(t, s.EnsureBucket(ctx, bucket), "idempotent")

	require.NoError(t, s.PutObject(ctx, bucket, "a/x.csv", []byte("id\n1\n")))
	require.NoError(t, s.PutObject(ctx, bucket, "a/x.csv", []byte("id\n2\n")))
	require.NoError(t, s.PutObject(ctx, bucket, "b/y.csv", []byte("id\n3\n")))

	data, err := s.GetObject(ctx, bucket, "a/x.csv")
	require.NoError(t, err)
	assert.Equal(t, "id\n2\n", string(data), "overwritten")

	objs, err := s.ListObjects(ctx, bucket, "a/")
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "a/x.csv", objs[0].Key)
	assert.Equal(t, int64(5), objs[0].Size)

	_, err = s.GetObject(ctx, bucket, "missing.csv")
	assert.Error(t, err)
}
