package align_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/turtacn/StructAlign/internal/domain/align"
	"github.com/turtacn/StructAlign/internal/domain/geometry"
	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/StructAlign/internal/testutil"
	"github.com/turtacn/StructAlign/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Conversion shapes
// ─────────────────────────────────────────────────────────────────────────────

func TestConverter_Rigid(t *testing.T) {
	t.Parallel()

	res := testutil.PairwiseFixture()
	e, err := align.NewConverter(nil).Convert(res, align.ModeRigid)
	require.NoError(t, err)

	size, err := e.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	// one alignment, one block set, one block per segment
	require.Len(t, e.MultipleAlignments(), 1)
	a := e.MultipleAlignments()[0]
	assert.Same(t, e, a.Ensemble())
	require.Len(t, a.BlockSets(), 1)

	bs := a.BlockSets()[0]
	require.Len(t, bs.Blocks(), 2)
	assert.Equal(t, 2, bs.Size())
	assert.Equal(t, 9, a.Length())
	assert.Equal(t, 9, a.CoreLength())

	// the single superposition comes from segment 0
	require.Len(t, bs.Transformations(), 2)
	assert.True(t, geometry.IsIdentity(bs.Transformations()[0]))
	want, ok := res.TransformFor(0)
	require.True(t, ok)
	assert.True(t, mat.Equal(want, bs.Transformations()[1]))

	// block rows mirror the segments
	first := bs.Blocks()[0]
	r0, _ := first.ResidueAt(0, 0)
	assert.Equal(t, 0, r0)
	second := bs.Blocks()[1]
	r1, _ := second.ResidueAt(1, 0)
	assert.Equal(t, 5, r1)
}

func TestConverter_Flexible(t *testing.T) {
	t.Parallel()

	res := testutil.PairwiseFixture()
	e, err := align.NewConverter(nil).Convert(res, align.ModeFlexible)
	require.NoError(t, err)

	a := e.MultipleAlignments()[0]
	require.Len(t, a.BlockSets(), 2)

	for i, bs := range a.BlockSets() {
		require.Len(t, bs.Blocks(), 1, "block set %d", i)
		require.Len(t, bs.Transformations(), 2, "block set %d", i)
		assert.True(t, geometry.IsIdentity(bs.Transformations()[0]))

		want, ok := res.TransformFor(i)
		require.True(t, ok)
		assert.True(t, mat.Equal(want, bs.Transformations()[1]), "block set %d", i)
	}
	assert.Equal(t, 9, a.Length())
}

// ─────────────────────────────────────────────────────────────────────────────
// Carried-over state
// ─────────────────────────────────────────────────────────────────────────────

func TestConverter_Scores(t *testing.T) {
	t.Parallel()

	e, err := align.NewConverter(nil).Convert(testutil.PairwiseFixture(), align.ModeRigid)
	require.NoError(t, err)

	a := e.MultipleAlignments()[0]
	for _, tc := range []struct {
		name string
		want float64
	}{
		{align.ScoreProbability, 0.87},
		{align.ScoreAvgTMScore, 0.91},
		{align.ScoreCEScore, 1234.5},
		{align.ScoreRMSD, 1.2},
	} {
		got, ok := a.Score(tc.name)
		require.True(t, ok, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestConverter_Metadata(t *testing.T) {
	t.Parallel()

	res := testutil.PairwiseFixture()
	e, err := align.NewConverter(nil).Convert(res, align.ModeRigid)
	require.NoError(t, err)

	assert.Equal(t, "jFatCat_rigid", e.Algorithm())
	assert.Equal(t, "1.0", e.Version())
	assert.Equal(t, 1500*time.Millisecond, e.CalculationTime())
	// conversion performs no I/O, so no I/O time is claimed
	assert.Zero(t, e.IOTime())
	assert.Equal(t,
		[]structure.StructureID{"4HHB.A", "1MBN.A"},
		e.StructureIdentifiers())

	// atom arrays are shared with the input, not copied
	arrays, err := e.AtomArrays(context.Background())
	require.NoError(t, err)
	require.Len(t, arrays, 2)
	assert.Same(t, &res.Atoms1[0], &arrays[0][0])
}

func TestConverter_NamelessStructuresGetNoIdentifiers(t *testing.T) {
	t.Parallel()

	res := testutil.PairwiseFixture()
	res.Name2 = ""
	e, err := align.NewConverter(nil).Convert(res, align.ModeRigid)
	require.NoError(t, err)

	assert.Nil(t, e.StructureIdentifiers())
	size, err := e.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)
}

func TestConverter_RowsCopiedFromInput(t *testing.T) {
	t.Parallel()

	res := testutil.PairwiseFixture()
	e, err := align.NewConverter(nil).Convert(res, align.ModeRigid)
	require.NoError(t, err)

	res.Segments[0].Res1[0] = 99

	b := e.MultipleAlignments()[0].BlockSets()[0].Blocks()[0]
	got, ok := b.ResidueAt(0, 0)
	require.True(t, ok)
	assert.Equal(t, 0, got)
}

// ─────────────────────────────────────────────────────────────────────────────
// Identity fallback
// ─────────────────────────────────────────────────────────────────────────────

func TestConverter_IdentityFallbackIsLogged(t *testing.T) {
	t.Parallel()

	res := testutil.PairwiseFixture()
	res.Rotations[1] = nil

	log := testutil.NewMockLogger()
	e, err := align.NewConverter(log).Convert(res, align.ModeFlexible)
	require.NoError(t, err)

	sets := e.MultipleAlignments()[0].BlockSets()
	assert.False(t, geometry.IsIdentity(sets[0].Transformations()[1]))
	assert.True(t, geometry.IsIdentity(sets[1].Transformations()[0]))
	assert.True(t, geometry.IsIdentity(sets[1].Transformations()[1]))

	warns := log.MessagesAt("warn")
	require.Len(t, warns, 1)
	assert.Equal(t,
		"segment superposition missing or malformed, substituting identity",
		warns[0].Message)
	require.NotEmpty(t, warns[0].Fields)
	assert.Equal(t, logging.Int("segment", 1), warns[0].Fields[0])
}

func TestConverter_RigidFallbackUsesIdentity(t *testing.T) {
	t.Parallel()

	res := testutil.PairwiseFixture()
	res.Rotations = nil
	res.Shifts = nil

	log := testutil.NewMockLogger()
	e, err := align.NewConverter(log).Convert(res, align.ModeRigid)
	require.NoError(t, err)

	bs := e.MultipleAlignments()[0].BlockSets()[0]
	assert.True(t, geometry.IsIdentity(bs.Transformations()[1]))
	assert.True(t, log.HasMessage("warn",
		"segment superposition missing or malformed, substituting identity"))
}

// ─────────────────────────────────────────────────────────────────────────────
// Input rejection
// ─────────────────────────────────────────────────────────────────────────────

func TestConverter_InvalidInputs(t *testing.T) {
	t.Parallel()

	conv := align.NewConverter(nil)

	_, err := conv.Convert(nil, align.ModeRigid)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptyPairwiseResult))

	_, err = conv.Convert(testutil.PairwiseFixture(), align.Mode("bent"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeModeInvalid))

	res := testutil.PairwiseFixture()
	res.Segments = nil
	_, err = conv.Convert(res, align.ModeRigid)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptyPairwiseResult))

	res = testutil.PairwiseFixture()
	res.Segments[1].Res2 = res.Segments[1].Res2[:3]
	_, err = conv.Convert(res, align.ModeFlexible)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSegmentLengthMismatch))
}
