package align

import (
	"fmt"

	"github.com/turtacn/StructAlign/pkg/errors"
)

// GapResidue marks an alignment column in which a structure contributes no
// residue.  Every other value in a block row is an index into that
// structure's atom array.
const GapResidue = -1

// coreLengthUnset marks the cached core length as not yet computed.
const coreLengthUnset = -1

// Block is the atomic unit of an alignment: one row of residue indices per
// structure, all rows the same length.  Column k of every row is aligned
// against column k of every other row.  A Block is owned by exactly one
// BlockSet.
type Block struct {
	set      *BlockSet
	alignRes [][]int
	coreLen  int
}

// NewBlock creates an empty Block attached to parent.  Passing nil creates a
// detached Block, used by clone paths before re-parenting.
func NewBlock(parent *BlockSet) *Block {
	b := &Block{coreLen: coreLengthUnset}
	if parent != nil {
		parent.appendBlock(b)
	}
	return b
}

// BlockSet returns the owning BlockSet, or nil while detached.
func (b *Block) BlockSet() *BlockSet { return b.set }

func (b *Block) setBlockSet(bs *BlockSet) { b.set = bs }

// AlignRes returns the residue rows, one per structure.  The returned slices
// are the block's own state; callers must treat them as read-only and go
// through SetAlignRes for modifications.
func (b *Block) AlignRes() [][]int { return b.alignRes }

// SetAlignRes replaces the residue rows.  All rows must have equal length,
// and entries must be either GapResidue or a non-negative residue index;
// on violation the block is left unchanged and an ALN_* error is returned.
func (b *Block) SetAlignRes(rows [][]int) error {
	for i, row := range rows {
		if len(row) != len(rows[0]) {
			return errors.New(errors.ErrCodeBlockRowMismatch, "block rows have unequal lengths").
				WithDetailf("row 0 has %d columns, row %d has %d", len(rows[0]), i, len(row))
		}
		for k, res := range row {
			if res < GapResidue {
				return errors.New(errors.ErrCodeValidation, "residue index must be non-negative or the gap marker").
					WithDetailf("row %d column %d holds %d", i, k, res)
			}
		}
	}
	b.alignRes = rows
	b.coreLen = coreLengthUnset
	return nil
}

// Size returns the number of structures the block spans.
func (b *Block) Size() int { return len(b.alignRes) }

// Length returns the number of alignment columns.
func (b *Block) Length() int {
	if len(b.alignRes) == 0 {
		return 0
	}
	return len(b.alignRes[0])
}

// CoreLength returns the number of columns in which no structure has a gap.
// The value is computed on first use and cached until Clear or SetAlignRes.
func (b *Block) CoreLength() int {
	if b.coreLen != coreLengthUnset {
		return b.coreLen
	}
	core := 0
	for col := 0; col < b.Length(); col++ {
		gapped := false
		for _, row := range b.alignRes {
			if row[col] == GapResidue {
				gapped = true
				break
			}
		}
		if !gapped {
			core++
		}
	}
	b.coreLen = core
	return core
}

// ResidueAt returns the residue index of structure str at column col, with
// ok false when the position is a gap.  Indices outside the block panic.
func (b *Block) ResidueAt(str, col int) (res int, ok bool) {
	res = b.alignRes[str][col]
	return res, res != GapResidue
}

// Clear drops the cached core length.  The residue rows are kept.
func (b *Block) Clear() {
	b.coreLen = coreLengthUnset
}

// Clone returns a detached deep copy: the rows are duplicated and the owner
// pointer is nil until the copy is attached to a BlockSet.
func (b *Block) Clone() *Block {
	clone := &Block{coreLen: b.coreLen}
	if b.alignRes != nil {
		clone.alignRes = make([][]int, len(b.alignRes))
		for i, row := range b.alignRes {
			clone.alignRes[i] = make([]int, len(row))
			copy(clone.alignRes[i], row)
		}
	}
	return clone
}

// Equal reports whether both blocks hold identical residue rows.  Ownership
// is not compared.
func (b *Block) Equal(o *Block) bool {
	if b == nil || o == nil {
		return b == o
	}
	if len(b.alignRes) != len(o.alignRes) {
		return false
	}
	for i, row := range b.alignRes {
		if len(row) != len(o.alignRes[i]) {
			return false
		}
		for k, res := range row {
			if res != o.alignRes[i][k] {
				return false
			}
		}
	}
	return true
}

func (b *Block) String() string {
	return fmt.Sprintf("Block[%d structures x %d columns]", b.Size(), b.Length())
}
