package geometry

import (
	"math"

	"github.com/turtacn/StructAlign/internal/domain/structure"
)

// Distance returns the Euclidean distance between two coordinate triples.
func Distance(a, b [3]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// DistanceMatrix holds the pairwise distances between the representative
// atoms of one structure.  It is square, symmetric, and zero on the diagonal
// by construction; the builder is the only writer, so holders may share a
// matrix read-only or Clone it first.
type DistanceMatrix struct {
	n int
	d [][]float64
}

// NewDistanceMatrix computes the full pairwise distance matrix of arr.
// Runs in O(N^2) time and space; an empty or nil array yields the empty
// matrix.
func NewDistanceMatrix(arr structure.AtomArray) *DistanceMatrix {
	n := arr.Len()
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := Distance(arr[i].Coords, arr[j].Coords)
			d[i][j] = v
			d[j][i] = v
		}
	}
	return &DistanceMatrix{n: n, d: d}
}

// Size returns the matrix order, which equals the atom count it was built from.
func (m *DistanceMatrix) Size() int { return m.n }

// At returns the distance between residues i and j.  Indices must be in
// [0, Size).
func (m *DistanceMatrix) At(i, j int) float64 { return m.d[i][j] }

// Row returns a copy of row i.
func (m *DistanceMatrix) Row(i int) []float64 {
	out := make([]float64, m.n)
	copy(out, m.d[i])
	return out
}

// Clone returns an independent copy of the matrix.
func (m *DistanceMatrix) Clone() *DistanceMatrix {
	if m == nil {
		return nil
	}
	d := make([][]float64, m.n)
	for i := range d {
		d[i] = make([]float64, m.n)
		copy(d[i], m.d[i])
	}
	return &DistanceMatrix{n: m.n, d: d}
}

// Equal reports whether both matrices have the same order and identical
// entries.
func (m *DistanceMatrix) Equal(o *DistanceMatrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.n != o.n {
		return false
	}
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			if m.d[i][j] != o.d[i][j] {
				return false
			}
		}
	}
	return true
}
