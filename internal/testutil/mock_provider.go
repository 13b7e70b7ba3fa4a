package testutil

import (
	"context"
	"sync"

	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/pkg/errors"
)

// MockProvider is an in-memory structure.Provider: atom arrays are served
// from a map, individual identifiers can be scripted to fail, and every
// Resolve call is recorded.
type MockProvider struct {
	mu       sync.Mutex
	atoms    map[structure.StructureID]structure.AtomArray
	failures map[structure.StructureID]error
	calls    []structure.StructureID
}

// NewMockProvider creates an empty MockProvider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		atoms:    make(map[structure.StructureID]structure.AtomArray),
		failures: make(map[structure.StructureID]error),
	}
}

// Put registers the atom array served for id.
func (p *MockProvider) Put(id structure.StructureID, arr structure.AtomArray) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.atoms[id] = arr
}

// FailWith makes Resolve return err for id; a nil err clears the failure.
func (p *MockProvider) FailWith(id structure.StructureID, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		delete(p.failures, id)
		return
	}
	p.failures[id] = err
}

// Resolve serves the registered atom array for id, or the scripted failure.
// Unknown identifiers fail with STR_001.
func (p *MockProvider) Resolve(_ context.Context, id structure.StructureID) (structure.AtomArray, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, id)
	if err, ok := p.failures[id]; ok {
		return nil, err
	}
	arr, ok := p.atoms[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeStructureNotFound, "structure not found").
			WithDetail(string(id))
	}
	return arr, nil
}

// Calls returns the resolved identifiers in call order.
func (p *MockProvider) Calls() []structure.StructureID {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]structure.StructureID, len(p.calls))
	copy(out, p.calls)
	return out
}

// CallCount returns how many times Resolve ran.
func (p *MockProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}
