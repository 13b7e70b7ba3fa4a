package align_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/StructAlign/internal/domain/align"
	"github.com/turtacn/StructAlign/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Construction and residue rows
// ─────────────────────────────────────────────────────────────────────────────

func TestNewBlock_Detached(t *testing.T) {
	t.Parallel()

	b := align.NewBlock(nil)
	assert.Nil(t, b.BlockSet())
	assert.Equal(t, 0, b.Size())
	assert.Equal(t, 0, b.Length())
	assert.Equal(t, 0, b.CoreLength())
}

func TestNewBlock_AttachesToParent(t *testing.T) {
	t.Parallel()

	bs := align.NewBlockSet(nil)
	b := align.NewBlock(bs)

	require.Len(t, bs.Blocks(), 1)
	assert.Same(t, b, bs.Blocks()[0])
	assert.Same(t, bs, b.BlockSet())
}

func TestBlock_SetAlignRes(t *testing.T) {
	t.Parallel()

	b := align.NewBlock(nil)
	require.NoError(t, b.SetAlignRes([][]int{
		{0, 1, 2, align.GapResidue},
		{4, align.GapResidue, 5, 6},
		{7, 8, align.GapResidue, 9},
	}))

	assert.Equal(t, 3, b.Size())
	assert.Equal(t, 4, b.Length())
	// only column 0 is gap-free
	assert.Equal(t, 1, b.CoreLength())
}

func TestBlock_SetAlignRes_UnequalRows(t *testing.T) {
	t.Parallel()

	b := align.NewBlock(nil)
	err := b.SetAlignRes([][]int{
		{0, 1, 2},
		{3, 4},
	})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBlockRowMismatch))
	assert.True(t, errors.IsInvariantViolation(err))
	// the rows stay untouched
	assert.Equal(t, 0, b.Size())
}

func TestBlock_SetAlignRes_RejectsResiduesBelowGapMarker(t *testing.T) {
	t.Parallel()

	b := align.NewBlock(nil)
	err := b.SetAlignRes([][]int{{0, -2}})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestBlock_ResidueAt(t *testing.T) {
	t.Parallel()

	b := align.NewBlock(nil)
	require.NoError(t, b.SetAlignRes([][]int{
		{10, align.GapResidue},
		{20, 21},
	}))

	res, ok := b.ResidueAt(0, 0)
	assert.True(t, ok)
	assert.Equal(t, 10, res)

	_, ok = b.ResidueAt(0, 1)
	assert.False(t, ok)

	res, ok = b.ResidueAt(1, 1)
	assert.True(t, ok)
	assert.Equal(t, 21, res)
}

// ─────────────────────────────────────────────────────────────────────────────
// Caching and lifecycle
// ─────────────────────────────────────────────────────────────────────────────

func TestBlock_CoreLengthRecomputedAfterSetAlignRes(t *testing.T) {
	t.Parallel()

	b := align.NewBlock(nil)
	require.NoError(t, b.SetAlignRes([][]int{{0, align.GapResidue}, {1, 2}}))
	assert.Equal(t, 1, b.CoreLength())

	require.NoError(t, b.SetAlignRes([][]int{{0, 1}, {2, 3}}))
	assert.Equal(t, 2, b.CoreLength())
}

func TestBlock_ClearKeepsRows(t *testing.T) {
	t.Parallel()

	b := align.NewBlock(nil)
	require.NoError(t, b.SetAlignRes([][]int{{0, 1}, {2, align.GapResidue}}))
	assert.Equal(t, 1, b.CoreLength())

	b.Clear()

	assert.Equal(t, 2, b.Size())
	assert.Equal(t, 2, b.Length())
	assert.Equal(t, 1, b.CoreLength())
}

func TestBlock_CloneIsDeep(t *testing.T) {
	t.Parallel()

	bs := align.NewBlockSet(nil)
	b := align.NewBlock(bs)
	require.NoError(t, b.SetAlignRes([][]int{{0, 1}, {2, 3}}))

	clone := b.Clone()
	assert.Nil(t, clone.BlockSet())
	assert.True(t, b.Equal(clone))

	clone.AlignRes()[0][0] = 99
	res, _ := b.ResidueAt(0, 0)
	assert.Equal(t, 0, res)
	assert.False(t, b.Equal(clone))
}

func TestBlock_Equal(t *testing.T) {
	t.Parallel()

	a := align.NewBlock(nil)
	require.NoError(t, a.SetAlignRes([][]int{{0, 1}}))
	b := align.NewBlock(nil)
	require.NoError(t, b.SetAlignRes([][]int{{0, 1}}))
	c := align.NewBlock(nil)
	require.NoError(t, c.SetAlignRes([][]int{{0, 2}}))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestBlock_String(t *testing.T) {
	t.Parallel()

	b := align.NewBlock(nil)
	require.NoError(t, b.SetAlignRes([][]int{{0, 1, 2}, {3, 4, 5}}))
	assert.Equal(t, "Block[2 structures x 3 columns]", b.String())
}
