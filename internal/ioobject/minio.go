package ioobject

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/kpilake/kpilake/pkg/config"
	"github.com/kpilake/kpilake/pkg/store"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type minioStore struct {
	client *minio.Client
	region string
}

// NewMinio creates a client of MinIO or any S3 compatible service.
func NewMinio(cfg config.ObjectStoreConfig) (store.ObjectStore, error) {
	cl, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, ConnectionError(cfg.Endpoint, err)
	}
	slog.Info("Object store client created",
		"backend", "minio", "endpoint", cfg.Endpoint, "secure", cfg.Secure)
	return &minioStore{client: cl, region: cfg.Region}, nil
}

func (m *minioStore) EnsureBucket(ctx context.Context, bucket string) error {
	ok, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	err = m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: m.region})
	if err != nil {
		// another writer may have created it in the meantime
		if minio.ToErrorResponse(err).Code == "BucketAlreadyOwnedByYou" {
			return nil
		}
		return err
	}
	slog.Info("Bucket created", "bucket", bucket)
	return nil
}

func (m *minioStore) PutObject(
	ctx context.Context,
	bucket, key string,
	data []byte,
) error {
	_, err := m.client.PutObject(
		ctx, bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType(key)},
	)
	return err
}

func (m *minioStore) GetObject(
	ctx context.Context,
	bucket, key string,
) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

func (m *minioStore) ListObjects(
	ctx context.Context,
	bucket, prefix string,
) ([]store.ObjectInfo, error) {
	var res []store.ObjectInfo
	opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: true}
	for o := range m.client.ListObjects(ctx, bucket, opts) {
		if o.Err != nil {
			return nil, o.Err
		}
		res = append(res, store.ObjectInfo{
			Key:          o.Key,
			Size:         o.Size,
			LastModified: o.LastModified,
		})
	}
	slices.SortFunc(res, func(a, b store.ObjectInfo) int {
		return strings.Compare(a.Key, b.Key)
	})
	return res, nil
}

func (m *minioStore) Close() error {
	return nil
}

func contentType(key string) string {
	switch {
	case strings.HasSuffix(key, ".csv"):
		return "text/csv"
	case strings.HasSuffix(key, ".json"):
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
