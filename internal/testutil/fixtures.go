package testutil

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/turtacn/StructAlign/internal/domain/align"
	"github.com/turtacn/StructAlign/internal/domain/structure"
	alignTypes "github.com/turtacn/StructAlign/pkg/types/align"
)

// CATrace returns n alpha-carbon atoms along an ideal alpha helix
// (2.3 A radius, 1.5 A rise and 100 degrees of turn per residue).
func CATrace(n int) structure.AtomArray {
	arr := make(structure.AtomArray, n)
	for i := 0; i < n; i++ {
		theta := float64(i) * 100 * math.Pi / 180
		arr[i] = structure.Atom{
			Name:   "CA",
			ResSeq: i + 1,
			Coords: [3]float64{2.3 * math.Cos(theta), 2.3 * math.Sin(theta), 1.5 * float64(i)},
		}
	}
	return arr
}

// RotationZ returns the 3x3 rotation matrix about the z axis.
func RotationZ(degrees float64) *mat.Dense {
	rad := degrees * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

// PairwiseFixture returns a valid two-segment pairwise result between two
// 12-residue traces, with per-segment superpositions and the usual figures
// of merit filled in.
func PairwiseFixture() *align.PairwiseResult {
	return &align.PairwiseResult{
		Name1:  "4HHB.A",
		Name2:  "1MBN.A",
		Atoms1: CATrace(12),
		Atoms2: CATrace(12),
		Segments: []align.Segment{
			{Res1: []int{0, 1, 2, 3, 4}, Res2: []int{0, 1, 2, 3, 4}},
			{Res1: []int{6, 7, 8, 9}, Res2: []int{5, 6, 7, 8}},
		},
		Rotations: []*mat.Dense{RotationZ(90), RotationZ(45)},
		Shifts:    [][]float64{{1, 2, 3}, {0, 0, 1.5}},

		Algorithm:       "jFatCat_rigid",
		Version:         "1.0",
		CalculationTime: 1500 * time.Millisecond,

		Probability: 0.87,
		TMScore:     0.91,
		AlignScore:  1234.5,
		RMSD:        1.2,
	}
}

// PairwiseDocument returns the document form of PairwiseFixture, atom arrays
// inlined.
func PairwiseDocument() *alignTypes.PairwiseResultDTO {
	res := PairwiseFixture()
	doc := &alignTypes.PairwiseResultDTO{
		Name1:             res.Name1,
		Name2:             res.Name2,
		Shifts:            res.Shifts,
		Algorithm:         res.Algorithm,
		Version:           res.Version,
		CalculationTimeMS: res.CalculationTime.Milliseconds(),
		Probability:       res.Probability,
		TMScore:           res.TMScore,
		AlignScore:        res.AlignScore,
		RMSD:              res.RMSD,
	}
	for _, a := range res.Atoms1 {
		doc.Atoms1 = append(doc.Atoms1, alignTypes.AtomDTO{Name: a.Name, ResSeq: a.ResSeq, Coords: a.Coords})
	}
	for _, a := range res.Atoms2 {
		doc.Atoms2 = append(doc.Atoms2, alignTypes.AtomDTO{Name: a.Name, ResSeq: a.ResSeq, Coords: a.Coords})
	}
	for _, seg := range res.Segments {
		doc.Segments = append(doc.Segments, alignTypes.SegmentDTO{Res1: seg.Res1, Res2: seg.Res2})
	}
	for _, rot := range res.Rotations {
		doc.Rotations = append(doc.Rotations, alignTypes.RowsFromDense(rot))
	}
	return doc
}
