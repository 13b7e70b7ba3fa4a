package align_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/turtacn/StructAlign/internal/domain/align"
	"github.com/turtacn/StructAlign/internal/testutil"
	"github.com/turtacn/StructAlign/pkg/errors"
)

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    align.Mode
		wantErr bool
	}{
		{"rigid", align.ModeRigid, false},
		{"flexible", align.ModeFlexible, false},
		{"RIGID", "", true},
		{"bent", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run("input "+tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := align.ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrCodeModeInvalid))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestPairwiseResult_SegmentCount(t *testing.T) {
	t.Parallel()

	res := testutil.PairwiseFixture()
	assert.Equal(t, 2, res.SegmentCount())
	assert.Equal(t, 0, (&align.PairwiseResult{}).SegmentCount())
}

func TestPairwiseResult_TransformFor(t *testing.T) {
	t.Parallel()

	res := testutil.PairwiseFixture()

	tr, ok := res.TransformFor(0)
	require.True(t, ok)
	r, c := tr.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 4, c)

	// rotation block holds the 90 degree z rotation
	assert.InDelta(t, 0, tr.At(0, 0), 1e-12)
	assert.InDelta(t, -1, tr.At(0, 1), 1e-12)
	assert.InDelta(t, 1, tr.At(1, 0), 1e-12)

	// shift fills the last column
	assert.InDelta(t, 1, tr.At(0, 3), 1e-12)
	assert.InDelta(t, 2, tr.At(1, 3), 1e-12)
	assert.InDelta(t, 3, tr.At(2, 3), 1e-12)

	// homogeneous bottom row
	for j, want := range []float64{0, 0, 0, 1} {
		assert.Equal(t, want, tr.At(3, j))
	}
}

func TestPairwiseResult_TransformFor_Absent(t *testing.T) {
	t.Parallel()

	res := testutil.PairwiseFixture()

	_, ok := res.TransformFor(-1)
	assert.False(t, ok)
	_, ok = res.TransformFor(2)
	assert.False(t, ok)

	res.Rotations[0] = nil
	_, ok = res.TransformFor(0)
	assert.False(t, ok)

	res = testutil.PairwiseFixture()
	res.Shifts[1] = nil
	_, ok = res.TransformFor(1)
	assert.False(t, ok)

	// malformed parts fail closed instead of producing a bad matrix
	res = testutil.PairwiseFixture()
	res.Rotations[0] = mat.NewDense(2, 2, nil)
	_, ok = res.TransformFor(0)
	assert.False(t, ok)

	res = testutil.PairwiseFixture()
	res.Shifts[0] = []float64{1, 2}
	_, ok = res.TransformFor(0)
	assert.False(t, ok)
}

func TestPairwiseResult_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, testutil.PairwiseFixture().Validate())
}

func TestPairwiseResult_Validate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*align.PairwiseResult)
		wantCode errors.ErrorCode
	}{
		{
			"missing atoms",
			func(r *align.PairwiseResult) { r.Atoms1 = nil },
			errors.ErrCodeValidation,
		},
		{
			"no segments",
			func(r *align.PairwiseResult) { r.Segments = nil },
			errors.ErrCodeEmptyPairwiseResult,
		},
		{
			"unequal segment lists",
			func(r *align.PairwiseResult) { r.Segments[1].Res2 = r.Segments[1].Res2[:3] },
			errors.ErrCodeSegmentLengthMismatch,
		},
		{
			"empty segment",
			func(r *align.PairwiseResult) { r.Segments[0] = align.Segment{} },
			errors.ErrCodeValidation,
		},
		{
			"residue beyond structure 1",
			func(r *align.PairwiseResult) { r.Segments[0].Res1[2] = 12 },
			errors.ErrCodeValidation,
		},
		{
			"negative residue",
			func(r *align.PairwiseResult) { r.Segments[1].Res2[0] = -1 },
			errors.ErrCodeValidation,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := testutil.PairwiseFixture()
			tt.mutate(res)
			err := res.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.wantCode),
				"got %v, want code %s", err, tt.wantCode)
		})
	}
}

func TestPairwiseResult_Validate_MismatchNeverTruncates(t *testing.T) {
	t.Parallel()

	res := testutil.PairwiseFixture()
	res.Segments[1].Res1 = append(res.Segments[1].Res1, 10)

	err := res.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))
	// the input is left exactly as handed in
	assert.Len(t, res.Segments[1].Res1, 5)
	assert.Len(t, res.Segments[1].Res2, 4)
}
