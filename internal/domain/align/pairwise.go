package align

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/turtacn/StructAlign/internal/domain/geometry"
	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/pkg/errors"
)

// Mode selects how a pairwise result is lifted into the multiple-alignment
// model.
type Mode string

const (
	// ModeRigid produces a single BlockSet whose one superposition (taken
	// from segment 0) covers all segments.
	ModeRigid Mode = "rigid"

	// ModeFlexible produces one BlockSet per segment, each carrying that
	// segment's own superposition.
	ModeFlexible Mode = "flexible"
)

// IsValid reports whether m is a known conversion mode.
func (m Mode) IsValid() bool {
	return m == ModeRigid || m == ModeFlexible
}

// ParseMode converts a string into a Mode, failing with ALN_005 on unknown
// input.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.IsValid() {
		return "", errors.New(errors.ErrCodeModeInvalid, "unknown conversion mode").WithDetail(s)
	}
	return m, nil
}

// Segment is one locally aligned fragment of a pairwise alignment: the
// residue indices it covers in each structure, pairing Res1[k] with Res2[k].
type Segment struct {
	Res1 []int `json:"res1"`
	Res2 []int `json:"res2"`
}

// PairwiseResult carries everything a pairwise structure alignment produced:
// the two structures, the aligned segments with their per-segment
// superpositions, and the figures of merit.  It is the converter's input.
//
// Rotations and Shifts are indexed by segment and are allowed to be shorter
// than Segments or to hold nil entries; TransformFor treats such entries as
// absent.
type PairwiseResult struct {
	Name1 string
	Name2 string

	Atoms1 structure.AtomArray
	Atoms2 structure.AtomArray

	Segments  []Segment
	Rotations []*mat.Dense
	Shifts    [][]float64

	Algorithm       string
	Version         string
	CalculationTime time.Duration

	Probability float64
	TMScore     float64
	AlignScore  float64
	RMSD        float64
}

// SegmentCount returns the number of aligned segments.
func (r *PairwiseResult) SegmentCount() int { return len(r.Segments) }

// TransformFor assembles the 4x4 superposition of segment i from the
// rotation and shift data.  ok is false when either part is absent, out of
// range, or malformed; the caller decides whether to substitute the
// identity.
func (r *PairwiseResult) TransformFor(i int) (*mat.Dense, bool) {
	if i < 0 || i >= len(r.Rotations) || i >= len(r.Shifts) {
		return nil, false
	}
	rot, shift := r.Rotations[i], r.Shifts[i]
	if rot == nil || shift == nil {
		return nil, false
	}
	t, err := geometry.NewTransform(rot, shift)
	if err != nil {
		return nil, false
	}
	return t, true
}

// Validate checks the structural preconditions for conversion: both atom
// arrays present, at least one segment, equal residue-list lengths per
// segment, and every residue index within its atom array.  Unequal segment
// lists are an invariant violation, never silently truncated.
func (r *PairwiseResult) Validate() error {
	if r.Atoms1.Len() == 0 || r.Atoms2.Len() == 0 {
		return errors.New(errors.ErrCodeValidation, "pairwise result requires both atom arrays").
			WithDetailf("atoms1=%d, atoms2=%d", r.Atoms1.Len(), r.Atoms2.Len())
	}
	if len(r.Segments) == 0 {
		return errors.New(errors.ErrCodeEmptyPairwiseResult, "pairwise result has no aligned segments")
	}
	for i, seg := range r.Segments {
		if len(seg.Res1) != len(seg.Res2) {
			return errors.New(errors.ErrCodeSegmentLengthMismatch,
				"aligned segment lists have unequal lengths").
				WithDetailf("segment %d: %d vs %d residues", i, len(seg.Res1), len(seg.Res2))
		}
		if len(seg.Res1) == 0 {
			return errors.New(errors.ErrCodeValidation, "aligned segment is empty").
				WithDetailf("segment %d", i)
		}
		for k := range seg.Res1 {
			if seg.Res1[k] < 0 || seg.Res1[k] >= r.Atoms1.Len() {
				return errors.New(errors.ErrCodeValidation, "residue index out of range").
					WithDetailf("segment %d, structure 1, column %d holds %d (atoms: %d)",
						i, k, seg.Res1[k], r.Atoms1.Len())
			}
			if seg.Res2[k] < 0 || seg.Res2[k] >= r.Atoms2.Len() {
				return errors.New(errors.ErrCodeValidation, "residue index out of range").
					WithDetailf("segment %d, structure 2, column %d holds %d (atoms: %d)",
						i, k, seg.Res2[k], r.Atoms2.Len())
			}
		}
	}
	return nil
}
