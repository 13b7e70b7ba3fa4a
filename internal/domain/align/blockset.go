package align

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/turtacn/StructAlign/internal/domain/geometry"
	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/pkg/errors"
)

// BlockSet groups the Blocks that share one rigid-body superposition: one
// 4x4 transformation per structure, applied to every residue the set's
// blocks cover.  By convention the transformation of structure 0 is the
// identity, making structure 0 the reference frame.  A BlockSet is owned by
// exactly one MultipleAlignment.
type BlockSet struct {
	alignment  *MultipleAlignment
	blocks     []*Block
	transforms []*mat.Dense

	length  int
	coreLen int
}

// NewBlockSet creates an empty BlockSet attached to parent.  Passing nil
// creates a detached BlockSet, used by clone paths before re-parenting.
func NewBlockSet(parent *MultipleAlignment) *BlockSet {
	bs := &BlockSet{length: coreLengthUnset, coreLen: coreLengthUnset}
	if parent != nil {
		parent.appendBlockSet(bs)
	}
	return bs
}

// MultipleAlignment returns the owning alignment, or nil while detached.
func (bs *BlockSet) MultipleAlignment() *MultipleAlignment { return bs.alignment }

func (bs *BlockSet) setMultipleAlignment(a *MultipleAlignment) { bs.alignment = a }

// Blocks returns the owned blocks in order.
func (bs *BlockSet) Blocks() []*Block { return bs.blocks }

func (bs *BlockSet) appendBlock(b *Block) {
	b.setBlockSet(bs)
	bs.blocks = append(bs.blocks, b)
	bs.length = coreLengthUnset
	bs.coreLen = coreLengthUnset
}

// Size returns the number of structures the set spans, taken from its first
// block.  An empty set spans no structures.
func (bs *BlockSet) Size() int {
	if len(bs.blocks) == 0 {
		return 0
	}
	return bs.blocks[0].Size()
}

// Length returns the total number of alignment columns across all blocks,
// cached until Clear.
func (bs *BlockSet) Length() int {
	if bs.length != coreLengthUnset {
		return bs.length
	}
	sum := 0
	for _, b := range bs.blocks {
		sum += b.Length()
	}
	bs.length = sum
	return sum
}

// CoreLength returns the number of gap-free columns across all blocks,
// cached until Clear.
func (bs *BlockSet) CoreLength() int {
	if bs.coreLen != coreLengthUnset {
		return bs.coreLen
	}
	sum := 0
	for _, b := range bs.blocks {
		sum += b.CoreLength()
	}
	bs.coreLen = sum
	return sum
}

// Transformations returns the per-structure transformations, or nil while
// unset.  Index i superposes structure i onto the reference frame.
func (bs *BlockSet) Transformations() []*mat.Dense { return bs.transforms }

// SetTransformations replaces the per-structure transformations.  The count
// must equal Size() and every matrix must be 4x4; on violation the set is
// left unchanged and an ALN_* or GEO_* error is returned.
func (bs *BlockSet) SetTransformations(ts []*mat.Dense) error {
	if len(ts) != bs.Size() {
		return errors.New(errors.ErrCodeTransformCountMismatch,
			"transformation count differs from the structure count").
			WithDetailf("%d transformations for %d structures", len(ts), bs.Size())
	}
	for i, t := range ts {
		if t == nil {
			return errors.New(errors.ErrCodeMalformedTransform, "malformed transformation").
				WithDetailf("structure %d has a nil transformation", i)
		}
		if r, c := t.Dims(); r != 4 || c != 4 {
			return errors.New(errors.ErrCodeMalformedTransform, "malformed transformation").
				WithDetailf("structure %d has a %dx%d matrix, want 4x4", i, r, c)
		}
	}
	bs.transforms = ts
	return nil
}

// TransformFor returns the transformation of structure i.  While the
// transformations are unset, structure 0 yields the identity (it is the
// reference frame) and every other structure yields ok=false; once set,
// ok is false only when i is out of range.
func (bs *BlockSet) TransformFor(i int) (*mat.Dense, bool) {
	if bs.transforms == nil {
		if i == 0 && bs.Size() > 0 {
			return geometry.IdentityTransform(), true
		}
		return nil, false
	}
	if i < 0 || i >= len(bs.transforms) {
		return nil, false
	}
	return bs.transforms[i], true
}

// Superpose applies each structure's transformation to the corresponding
// atom array and returns the superposed copies.  The input arrays are not
// modified.  It fails when the transformations are unset or when the array
// count does not match the structure count.
func (bs *BlockSet) Superpose(arrays []structure.AtomArray) ([]structure.AtomArray, error) {
	if bs.transforms == nil {
		return nil, errors.InvalidState("block set has no transformations")
	}
	if len(arrays) != bs.Size() {
		return nil, errors.New(errors.ErrCodeStructureCountMismatch,
			"structure count differs from the ensemble size").
			WithDetailf("%d atom arrays for %d structures", len(arrays), bs.Size())
	}
	out := make([]structure.AtomArray, len(arrays))
	for i, arr := range arrays {
		transformed, err := geometry.ApplyTransform(bs.transforms[i], arr)
		if err != nil {
			return nil, err
		}
		out[i] = transformed
	}
	return out, nil
}

// Clear drops the cached lengths of the set and its blocks.  Residue rows
// and transformations are kept.
func (bs *BlockSet) Clear() {
	bs.length = coreLengthUnset
	bs.coreLen = coreLengthUnset
	for _, b := range bs.blocks {
		b.Clear()
	}
}

// Clone returns a detached deep copy: blocks and transformations are
// duplicated, the owner pointer is nil until the copy is attached.
func (bs *BlockSet) Clone() *BlockSet {
	clone := NewBlockSet(nil)
	for _, b := range bs.blocks {
		clone.appendBlock(b.Clone())
	}
	clone.length = bs.length
	clone.coreLen = bs.coreLen
	if bs.transforms != nil {
		clone.transforms = make([]*mat.Dense, len(bs.transforms))
		for i, t := range bs.transforms {
			clone.transforms[i] = geometry.CloneTransform(t)
		}
	}
	return clone
}

// Equal reports whether both sets hold equal blocks and equal
// transformations.  Ownership is not compared.
func (bs *BlockSet) Equal(o *BlockSet) bool {
	if bs == nil || o == nil {
		return bs == o
	}
	if len(bs.blocks) != len(o.blocks) {
		return false
	}
	for i, b := range bs.blocks {
		if !b.Equal(o.blocks[i]) {
			return false
		}
	}
	if (bs.transforms == nil) != (o.transforms == nil) {
		return false
	}
	if len(bs.transforms) != len(o.transforms) {
		return false
	}
	for i, t := range bs.transforms {
		if !mat.Equal(t, o.transforms[i]) {
			return false
		}
	}
	return true
}

func (bs *BlockSet) String() string {
	return fmt.Sprintf("BlockSet[%d blocks, %d structures, length %d]",
		len(bs.blocks), bs.Size(), bs.Length())
}
