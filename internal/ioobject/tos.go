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
	"github.com/volcengine/ve-tos-golang-sdk/v2/tos"
)

type tosStore struct {
	client *tos.ClientV2
}

// NewTOS creates a client of Volcengine TOS.
func NewTOS(cfg config.ObjectStoreConfig) (store.ObjectStore, error) {
	credential := tos.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey)
	cl, err := tos.NewClientV2(cfg.Endpoint,
		tos.WithCredentials(credential),
		tos.WithRegion(cfg.Region))
	if err != nil {
		return nil, ConnectionError(cfg.Endpoint, err)
	}
	slog.Info("Object store client created",
		"backend", "tos", "endpoint", cfg.Endpoint, "region", cfg.Region)
	return &tosStore{client: cl}, nil
}

func (t *tosStore) EnsureBucket(ctx context.Context, bucket string) error {
	_, err := t.client.HeadBucket(ctx, &tos.HeadBucketInput{Bucket: bucket})
	if err == nil {
		return nil
	}
	_, err = t.client.CreateBucketV2(ctx, &tos.CreateBucketV2Input{Bucket: bucket})
	if err != nil {
		return err
	}
	slog.Info("Bucket created", "bucket", bucket)
	return nil
}

func (t *tosStore) PutObject(
	ctx context.Context,
	bucket, key string,
	data []byte,
) error {
	input := &tos.PutObjectV2Input{
		PutObjectBasicInput: tos.PutObjectBasicInput{
			Bucket: bucket,
			Key:    key,
		},
		Content: bytes.NewReader(data),
	}
	_, err := t.client.PutObjectV2(ctx, input)
	return err
}

func (t *tosStore) GetObject(
	ctx context.Context,
	bucket, key string,
) ([]byte, error) {
	out, err := t.client.GetObjectV2(ctx, &tos.GetObjectV2Input{
		Bucket: bucket,
		Key:    key,
	})
	if err != nil {
		return nil, err
	}
	defer out.Content.Close()
	return io.ReadAll(out.Content)
}

func (t *tosStore) ListObjects(
	ctx context.Context,
	bucket, prefix string,
) ([]store.ObjectInfo, error) {
	var res []store.ObjectInfo
	var marker string
	for {
		out, err := t.client.ListObjectsV2(ctx, &tos.ListObjectsV2Input{
			Bucket: bucket,
			ListObjectsInput: tos.ListObjectsInput{
				Prefix: prefix,
				Marker: marker,
			},
		})
		if err != nil {
			return nil, err
		}
		for _, o := range out.Contents {
			if !strings.HasPrefix(o.Key, prefix) {
				continue
			}
			res = append(res, store.ObjectInfo{
				Key:          o.Key,
				Size:         o.Size,
				LastModified: o.LastModified,
			})
		}
		if !out.IsTruncated || out.NextMarker == "" {
			break
		}
		marker = out.NextMarker
	}
	slices.SortFunc(res, func(a, b store.ObjectInfo) int {
		return strings.Compare(a.Key, b.Key)
	})
	return res, nil
}

func (t *tosStore) Close() error {
	t.client.Close()
	return nil
}
