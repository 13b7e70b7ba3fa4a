package align

import (
	"context"
	"fmt"

	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/pkg/errors"
)

// MultipleAlignment is one alignment solution over the structures of an
// Ensemble: an ordered list of BlockSets plus a cache of named scores.  The
// ensemble back-reference is non-owning; a freshly constructed or cloned
// alignment is detached (nil ensemble) until Ensemble.AddMultipleAlignment
// attaches it, and ensemble-delegating operations fail with ENS_003 while
// detached.
type MultipleAlignment struct {
	ScoresCache

	ensemble  *Ensemble
	blockSets []*BlockSet

	length  int
	coreLen int
}

// NewMultipleAlignment creates an empty, detached alignment.
func NewMultipleAlignment() *MultipleAlignment {
	return &MultipleAlignment{length: coreLengthUnset, coreLen: coreLengthUnset}
}

// Ensemble returns the owning ensemble, or nil while detached.
func (a *MultipleAlignment) Ensemble() *Ensemble { return a.ensemble }

func (a *MultipleAlignment) setEnsemble(e *Ensemble) { a.ensemble = e }

// BlockSets returns the owned block sets in order.
func (a *MultipleAlignment) BlockSets() []*BlockSet { return a.blockSets }

// BlockSet returns the block set at index i.
func (a *MultipleAlignment) BlockSet(i int) (*BlockSet, bool) {
	if i < 0 || i >= len(a.blockSets) {
		return nil, false
	}
	return a.blockSets[i], true
}

func (a *MultipleAlignment) appendBlockSet(bs *BlockSet) {
	bs.setMultipleAlignment(a)
	a.blockSets = append(a.blockSets, bs)
	a.length = coreLengthUnset
	a.coreLen = coreLengthUnset
}

// Blocks returns all blocks of all block sets, flattened in order.
func (a *MultipleAlignment) Blocks() []*Block {
	var out []*Block
	for _, bs := range a.blockSets {
		out = append(out, bs.blocks...)
	}
	return out
}

// Size returns the number of structures, delegated to the owning ensemble.
func (a *MultipleAlignment) Size() (int, error) {
	if a.ensemble == nil {
		return 0, errors.New(errors.ErrCodeAlignmentDetached, "alignment is not attached to an ensemble")
	}
	return a.ensemble.Size()
}

// AtomArrays returns the atom arrays of the owning ensemble, resolving them
// lazily if needed.
func (a *MultipleAlignment) AtomArrays(ctx context.Context) ([]structure.AtomArray, error) {
	if a.ensemble == nil {
		return nil, errors.New(errors.ErrCodeAlignmentDetached, "alignment is not attached to an ensemble")
	}
	return a.ensemble.AtomArrays(ctx)
}

// Length returns the total number of alignment columns across all block
// sets, cached until Clear.
func (a *MultipleAlignment) Length() int {
	if a.length != coreLengthUnset {
		return a.length
	}
	sum := 0
	for _, bs := range a.blockSets {
		sum += bs.Length()
	}
	a.length = sum
	return sum
}

// CoreLength returns the number of gap-free columns across all block sets,
// cached until Clear.
func (a *MultipleAlignment) CoreLength() int {
	if a.coreLen != coreLengthUnset {
		return a.coreLen
	}
	sum := 0
	for _, bs := range a.blockSets {
		sum += bs.CoreLength()
	}
	a.coreLen = sum
	return sum
}

// Clear discards the score cache and every cached length down the tree.
// Residue rows and transformations are kept.
func (a *MultipleAlignment) Clear() {
	a.ClearScores()
	a.length = coreLengthUnset
	a.coreLen = coreLengthUnset
	for _, bs := range a.blockSets {
		bs.Clear()
	}
}

// Clone returns a detached deep copy: block sets are duplicated recursively
// and the score cache is copied; the ensemble pointer is nil until the copy
// is attached.
func (a *MultipleAlignment) Clone() *MultipleAlignment {
	clone := NewMultipleAlignment()
	clone.ScoresCache = a.cloneScores()
	for _, bs := range a.blockSets {
		clone.appendBlockSet(bs.Clone())
	}
	clone.length = a.length
	clone.coreLen = a.coreLen
	return clone
}

func (a *MultipleAlignment) String() string {
	return fmt.Sprintf("MultipleAlignment[%d block sets, length %d]",
		len(a.blockSets), a.Length())
}
