package iotesting

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/kpilake/kpilake/pkg/store"
)

// DocumentStore keeps collections in memory.
type DocumentStore struct {
	mu    sync.Mutex
	colls map[string][]store.Document
	fails map[string]int

	// Ops is the log of mutating calls, like "drop kpi" or "rename a b".
	Ops []string
}

var _ store.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates an empty DocumentStore.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		colls: make(map[string][]store.Document),
		fails: make(map[string]int),
	}
}

// FailNext makes the next n calls of the method ("create", "insert",
// "drop", "rename", "find") fail with ErrInjected.
func (s *DocumentStore) FailNext(method string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fails[method] = n
}

func (s *DocumentStore) injected(method string) error {
	if s.fails[method] > 0 {
		s.fails[method]--
		return fmt.Errorf("%s: %w", method, ErrInjected)
	}
	return nil
}

// Drop implements store.DocumentStore.
func (s *DocumentStore) Drop(_ context.Context, coll string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("drop"); err != nil {
		return err
	}
	delete(s.colls, coll)
	s.Ops = append(s.Ops, "drop "+coll)
	return nil
}

// Create implements store.DocumentStore.
func (s *DocumentStore) Create(_ context.Context, coll string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("create"); err != nil {
		return err
	}
	if _, ok := s.colls[coll]; !ok {
		s.colls[coll] = []store.Document{}
	}
	s.Ops = append(s.Ops, "create "+coll)
	return nil
}

// InsertMany implements store.DocumentStore.
func (s *DocumentStore) InsertMany(
	_ context.Context,
	coll string,
	docs []store.Document,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("insert"); err != nil {
		return err
	}
	for _, d := range docs {
		s.colls[coll] = append(s.colls[coll], maps.Clone(d))
	}
	s.Ops = append(s.Ops, fmt.Sprintf("insert %s %d", coll, len(docs)))
	return nil
}

// Rename implements store.DocumentStore.
func (s *DocumentStore) Rename(_ context.Context, source, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("rename"); err != nil {
		return err
	}
	docs, ok := s.colls[source]
	if !ok {
		return fmt.Errorf("source namespace %s does not exist", source)
	}
	s.colls[target] = docs
	delete(s.colls, source)
	s.Ops = append(s.Ops, "rename "+source+" "+target)
	return nil
}

// Find implements store.DocumentStore.
func (s *DocumentStore) Find(
	_ context.Context,
	coll string,
) ([]store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("find"); err != nil {
		return nil, err
	}
	res := make([]store.Document, len(s.colls[coll]))
	for i, d := range s.colls[coll] {
		res[i] = maps.Clone(d)
	}
	return res, nil
}

// Count implements store.DocumentStore.
func (s *DocumentStore) Count(_ context.Context, coll string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.colls[coll])), nil
}

// Has reports if a collection exists.
func (s *DocumentStore) Has(coll string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.colls[coll]
	return ok
}

// Close implements store.DocumentStore.
func (s *DocumentStore) Close(context.Context) error {
	return nil
}
