package align_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/turtacn/StructAlign/internal/domain/align"
	"github.com/turtacn/StructAlign/internal/domain/geometry"
	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/internal/testutil"
	"github.com/turtacn/StructAlign/pkg/errors"
)

func TestMultipleAlignment_DetachedErrors(t *testing.T) {
	t.Parallel()

	a := align.NewMultipleAlignment()
	assert.Nil(t, a.Ensemble())

	_, err := a.Size()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAlignmentDetached))

	_, err = a.AtomArrays(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAlignmentDetached))
}

func TestMultipleAlignment_SizeDelegatesToEnsemble(t *testing.T) {
	t.Parallel()

	e := align.NewEnsemble()
	e.SetAtomArrays([]structure.AtomArray{testutil.CATrace(3), testutil.CATrace(3)})

	a := align.NewMultipleAlignment()
	bs := align.NewBlockSet(a)
	b := align.NewBlock(bs)
	require.NoError(t, b.SetAlignRes([][]int{{0, 1}, {0, 2}}))
	require.NoError(t, e.AddMultipleAlignment(a))

	size, err := a.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)
	assert.Equal(t, 2, bs.Size())
	assert.Equal(t, 2, b.Size())

	arrays, err := a.AtomArrays(context.Background())
	require.NoError(t, err)
	assert.Len(t, arrays, 2)
}

func TestMultipleAlignment_BlockSetAccessor(t *testing.T) {
	t.Parallel()

	a := align.NewMultipleAlignment()
	bs := align.NewBlockSet(a)

	got, ok := a.BlockSet(0)
	require.True(t, ok)
	assert.Same(t, bs, got)

	_, ok = a.BlockSet(1)
	assert.False(t, ok)
	_, ok = a.BlockSet(-1)
	assert.False(t, ok)
}

func TestMultipleAlignment_BlocksFlattened(t *testing.T) {
	t.Parallel()

	a := align.NewMultipleAlignment()
	bs1 := align.NewBlockSet(a)
	b1 := align.NewBlock(bs1)
	require.NoError(t, b1.SetAlignRes([][]int{{0, 1}, {2, 3}}))
	bs2 := align.NewBlockSet(a)
	b2 := align.NewBlock(bs2)
	require.NoError(t, b2.SetAlignRes([][]int{{4}, {5}}))
	b3 := align.NewBlock(bs2)
	require.NoError(t, b3.SetAlignRes([][]int{{6}, {7}}))

	blocks := a.Blocks()
	require.Len(t, blocks, 3)
	assert.Same(t, b1, blocks[0])
	assert.Same(t, b2, blocks[1])
	assert.Same(t, b3, blocks[2])

	assert.Equal(t, 4, a.Length())
	assert.Equal(t, 4, a.CoreLength())
}

func TestMultipleAlignment_ClearDropsScoresKeepsStructure(t *testing.T) {
	t.Parallel()

	a := align.NewMultipleAlignment()
	bs := align.NewBlockSet(a)
	b := align.NewBlock(bs)
	require.NoError(t, b.SetAlignRes([][]int{{0, align.GapResidue}, {1, 2}}))
	a.PutScore(align.ScoreRMSD, 1.2)
	assert.Equal(t, 2, a.Length())

	a.Clear()

	_, ok := a.Score(align.ScoreRMSD)
	assert.False(t, ok)
	assert.Len(t, a.BlockSets(), 1)
	assert.Equal(t, 2, a.Length())
	assert.Equal(t, 1, a.CoreLength())
}

func TestMultipleAlignment_CloneIsDeep(t *testing.T) {
	t.Parallel()

	a := align.NewMultipleAlignment()
	a.PutScore(align.ScoreProbability, 0.87)
	bs := align.NewBlockSet(a)
	b := align.NewBlock(bs)
	require.NoError(t, b.SetAlignRes([][]int{{0, 1}, {2, 3}}))
	require.NoError(t, bs.SetTransformations([]*mat.Dense{
		geometry.IdentityTransform(), geometry.IdentityTransform(),
	}))

	clone := a.Clone()
	assert.Nil(t, clone.Ensemble())
	require.Len(t, clone.BlockSets(), 1)
	assert.True(t, bs.Equal(clone.BlockSets()[0]))

	v, ok := clone.Score(align.ScoreProbability)
	require.True(t, ok)
	assert.Equal(t, 0.87, v)

	// rows are independent of the original
	clone.BlockSets()[0].Blocks()[0].AlignRes()[0][0] = 42
	res, _ := b.ResidueAt(0, 0)
	assert.Equal(t, 0, res)

	// scores are independent of the original
	clone.PutScore(align.ScoreProbability, 0.1)
	v, _ = a.Score(align.ScoreProbability)
	assert.Equal(t, 0.87, v)
}

func TestMultipleAlignment_String(t *testing.T) {
	t.Parallel()

	a := align.NewMultipleAlignment()
	bs := align.NewBlockSet(a)
	b := align.NewBlock(bs)
	require.NoError(t, b.SetAlignRes([][]int{{0, 1, 2}, {3, 4, 5}}))

	assert.Equal(t, "MultipleAlignment[1 block sets, length 3]", a.String())
}
