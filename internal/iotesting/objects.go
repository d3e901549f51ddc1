package iotesting

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/kpilake/kpilake/pkg/store"
)

// ErrInjected is returned by memory stores when a failure was requested.
var ErrInjected = errors.New("injected failure")

// ObjectStore keeps buckets in memory.
type ObjectStore struct {
	mu      sync.Mutex
	buckets map[string]map[string]object
	fails   map[string]int
	Puts    int
	Closed  bool
}

type object struct {
	data []byte
	at   time.Time
}

var _ store.ObjectStore = (*ObjectStore)(nil)

// NewObjectStore creates an empty ObjectStore.
func NewObjectStore() *ObjectStore {
	return &ObjectStore{
		buckets: make(map[string]map[string]object),
		fails:   make(map[string]int),
	}
}

// FailNext makes the next n calls of the method ("put", "get", "list")
// fail with ErrInjected.
func (s *ObjectStore) FailNext(method string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fails[method] = n
}

func (s *ObjectStore) injected(method string) error {
	if s.fails[method] > 0 {
		s.fails[method]--
		return fmt.Errorf("%s: %w", method, ErrInjected)
	}
	return nil
}

// EnsureBucket implements store.ObjectStore.
func (s *ObjectStore) EnsureBucket(_ context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[bucket]; !ok {
		s.buckets[bucket] = make(map[string]object)
	}
	return nil
}

// PutObject implements store.ObjectStore.
func (s *ObjectStore) PutObject(
	_ context.Context,
	bucket, key string,
	data []byte,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("put"); err != nil {
		return err
	}
	b, ok := s.buckets[bucket]
	if !ok {
		return fmt.Errorf("bucket %s does not exist", bucket)
	}
	b[key] = object{data: slices.Clone(data), at: time.Now()}
	s.Puts++
	return nil
}

// GetObject implements store.ObjectStore.
func (s *ObjectStore) GetObject(
	_ context.Context,
	bucket, key string,
) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("get"); err != nil {
		return nil, err
	}
	o, ok := s.buckets[bucket][key]
	if !ok {
		return nil, fmt.Errorf("object %s/%s does not exist", bucket, key)
	}
	return slices.Clone(o.data), nil
}

// ListObjects implements store.ObjectStore.
func (s *ObjectStore) ListObjects(
	_ context.Context,
	bucket, prefix string,
) ([]store.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("list"); err != nil {
		return nil, err
	}
	b, ok := s.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}
	var res []store.ObjectInfo
	for k, o := range b {
		if strings.HasPrefix(k, prefix) {
			res = append(res, store.ObjectInfo{
				Key:          k,
				Size:         int64(len(o.data)),
				LastModified: o.at,
			})
		}
	}
	slices.SortFunc(res, func(a, b store.ObjectInfo) int {
		return strings.Compare(a.Key, b.Key)
	})
	return res, nil
}

// Has reports if an object exists.
func (s *ObjectStore) Has(bucket, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.buckets[bucket][key]
	return ok
}

// Close implements store.ObjectStore.
func (s *ObjectStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}
