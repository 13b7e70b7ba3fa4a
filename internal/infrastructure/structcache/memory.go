package structcache

import (
	"context"
	"sync"

	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/pkg/errors"
)

// MemoryStore is a Provider backed by an in-process map.  It is the write
// side for pipelines that parse structures up front and hold them for the
// lifetime of the run.
type MemoryStore struct {
	mu    sync.RWMutex
	atoms map[structure.StructureID]structure.AtomArray
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{atoms: make(map[structure.StructureID]structure.AtomArray)}
}

// Put stores arr under id, replacing any previous entry.  The array is
// shared, not copied; callers must treat it as immutable afterwards.
func (s *MemoryStore) Put(id structure.StructureID, arr structure.AtomArray) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.atoms[id] = arr
}

// Resolve implements structure.Provider.
func (s *MemoryStore) Resolve(_ context.Context, id structure.StructureID) (structure.AtomArray, error) {
	if id.IsZero() {
		return nil, errors.New(errors.ErrCodeValidation, "structure id is empty")
	}

	s.mu.RLock()
	arr, ok := s.atoms[id]
	s.mu.RUnlock()

	if !ok {
		return nil, errors.New(errors.ErrCodeStructureNotFound, "structure not found").
			WithDetail(id.String())
	}
	return arr, nil
}

func (s *MemoryStore) Delete(id structure.StructureID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.atoms, id)
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.atoms)
}
