package treestore

import (
	"context"
	"sync"

	"github.com/carverauto/kioskradar/pkg/models"
)

// MemoryStore is an in-process tree store used in tests and local
// development. All reads return deep copies, so callers can never mutate
// the stored tree through a returned node.
type MemoryStore struct {
	mu   sync.RWMutex
	root models.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{root: models.Record{}}
}

var _ Store = (*MemoryStore)(nil)

// Seed replaces the entire tree. Intended for test fixtures.
func (s *MemoryStore) Seed(root models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.root = models.NormalizeRecord(copyNode(root))
}

func (s *MemoryStore) Get(_ context.Context, path string) (models.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	segments := splitPath(path)

	var node models.Node = s.root

	for _, seg := range segments {
		rec, ok := node.(models.Record)
		if !ok {
			return nil, nil
		}

		node, ok = rec[seg]
		if !ok {
			return nil, nil
		}
	}

	return copyNode(node), nil
}

func (s *MemoryStore) Set(_ context.Context, path string, value models.Node) error {
	segments := splitPath(path)
	if len(segments) == 0 {
		return errEmptyPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.root

	for _, seg := range segments[:len(segments)-1] {
		child, ok := current[seg].(models.Record)
		if !ok {
			child = models.Record{}
			current[seg] = child
		}

		current = child
	}

	current[segments[len(segments)-1]] = copyNode(value)

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, path string) error {
	segments := splitPath(path)
	if len(segments) == 0 {
		return errEmptyPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deleteIn(s.root, segments)

	return nil
}

func (s *MemoryStore) Root(_ context.Context) (models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.NormalizeRecord(copyNode(s.root)), nil
}

func (*MemoryStore) Close() error {
	return nil
}

// deleteIn removes the node at segments and prunes record parents left
// empty, matching how Firebase drops empty branches.
func deleteIn(rec models.Record, segments []string) {
	if len(segments) == 1 {
		delete(rec, segments[0])
		return
	}

	child, ok := rec[segments[0]].(models.Record)
	if !ok {
		return
	}

	deleteIn(child, segments[1:])

	if len(child) == 0 {
		delete(rec, segments[0])
	}
}

func copyNode(n models.Node) models.Node {
	rec, ok := n.(models.Record)
	if !ok {
		return n
	}

	out := make(models.Record, len(rec))
	for k, v := range rec {
		out[k] = copyNode(v)
	}

	return out
}
