package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/StructAlign/internal/domain/structure"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b [3]float64
		want float64
	}{
		{"same point", [3]float64{1, 2, 3}, [3]float64{1, 2, 3}, 0},
		{"axis aligned", [3]float64{0, 0, 0}, [3]float64{3.8, 0, 0}, 3.8},
		{"3-4-5 triangle", [3]float64{0, 0, 0}, [3]float64{3, 4, 0}, 5},
		{"negative coords", [3]float64{-1, -1, -1}, [3]float64{1, 1, 1}, 3.4641016151377544},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Distance(tt.a, tt.b), testEpsilon)
			assert.InDelta(t, tt.want, Distance(tt.b, tt.a), testEpsilon)
		})
	}
}

// fixtureArray is a short helix-like trace used by the matrix tests.
func fixtureArray() structure.AtomArray {
	return structure.AtomArray{
		{Name: "CA", ResSeq: 1, Coords: [3]float64{0, 0, 0}},
		{Name: "CA", ResSeq: 2, Coords: [3]float64{3.8, 0, 0}},
		{Name: "CA", ResSeq: 3, Coords: [3]float64{5.1, 3.2, 0.4}},
		{Name: "CA", ResSeq: 4, Coords: [3]float64{4.9, 6.4, 2.1}},
	}
}

func TestNewDistanceMatrix_EmptyArray(t *testing.T) {
	assert.Equal(t, 0, NewDistanceMatrix(structure.AtomArray{}).Size())

	var nilArr structure.AtomArray
	assert.Equal(t, 0, NewDistanceMatrix(nilArr).Size())
}

func TestNewDistanceMatrix_SizeMatchesAtomCount(t *testing.T) {
	m := NewDistanceMatrix(fixtureArray())
	assert.Equal(t, 4, m.Size())
}

func TestNewDistanceMatrix_KnownDistances(t *testing.T) {
	m := NewDistanceMatrix(fixtureArray())
	assert.InDelta(t, 3.8, m.At(0, 1), testEpsilon)
	assert.InDelta(t, 5.0, NewDistanceMatrix(structure.AtomArray{
		{Coords: [3]float64{0, 0, 0}},
		{Coords: [3]float64{3, 4, 0}},
	}).At(0, 1), testEpsilon)
}

func TestDistanceMatrix_SymmetricWithZeroDiagonal(t *testing.T) {
	m := NewDistanceMatrix(fixtureArray())
	for i := 0; i < m.Size(); i++ {
		assert.Equal(t, 0.0, m.At(i, i), "diagonal at %d", i)
		for j := 0; j < m.Size(); j++ {
			assert.Equal(t, m.At(i, j), m.At(j, i), "symmetry at (%d,%d)", i, j)
			if i != j {
				assert.Positive(t, m.At(i, j), "distinct residues at (%d,%d)", i, j)
			}
		}
	}
}

func TestDistanceMatrix_RowIsACopy(t *testing.T) {
	m := NewDistanceMatrix(fixtureArray())
	row := m.Row(0)
	row[1] = -1
	assert.InDelta(t, 3.8, m.At(0, 1), testEpsilon, "mutating a returned row must not affect the matrix")
}

func TestDistanceMatrix_Clone(t *testing.T) {
	m := NewDistanceMatrix(fixtureArray())
	clone := m.Clone()
	require.True(t, m.Equal(clone))

	clone.d[0][1] = -1
	assert.False(t, m.Equal(clone))
	assert.InDelta(t, 3.8, m.At(0, 1), testEpsilon)
}

func TestDistanceMatrix_Clone_Nil(t *testing.T) {
	var m *DistanceMatrix
	assert.Nil(t, m.Clone())
}

func TestDistanceMatrix_Equal(t *testing.T) {
	a := NewDistanceMatrix(fixtureArray())
	b := NewDistanceMatrix(fixtureArray())
	assert.True(t, a.Equal(b))

	short := NewDistanceMatrix(fixtureArray()[:2])
	assert.False(t, a.Equal(short))

	var nilMatrix *DistanceMatrix
	assert.False(t, a.Equal(nilMatrix))
	assert.True(t, nilMatrix.Equal(nil))
}
