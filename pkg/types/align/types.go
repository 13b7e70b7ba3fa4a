// Package align defines the alignment-domain Data Transfer Objects exchanged
// at the library's boundaries: pairwise alignment results read from JSON
// files or upstream services, and the flat form ensembles serialize to.  No
// domain logic lives here, only plain data types that any layer can import
// without creating dependency cycles, plus the row helpers needed to decode
// matrix-valued fields safely.
package align

import (
	"gonum.org/v1/gonum/mat"

	"github.com/turtacn/StructAlign/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Shared leaf types
// ─────────────────────────────────────────────────────────────────────────────

// AtomDTO is one representative atom of a residue.  Its JSON shape matches
// the structure-store format, so atoms round-trip between store files and
// alignment documents unchanged.
type AtomDTO struct {
	// Name is the PDB atom name, "CA" for the usual alpha-carbon traces.
	Name string `json:"name"`

	// ResSeq is the residue sequence number the atom belongs to.
	ResSeq int `json:"res_seq"`

	// Coords holds the x, y, z position in angstroms.
	Coords [3]float64 `json:"coords"`
}

// SegmentDTO is one locally aligned fragment of a pairwise alignment.
// Res1[k] is paired with Res2[k]; both lists must have equal length.
type SegmentDTO struct {
	Res1 []int `json:"res1"`
	Res2 []int `json:"res2"`
}

// ─────────────────────────────────────────────────────────────────────────────
// PairwiseResultDTO — input document for conversion
// ─────────────────────────────────────────────────────────────────────────────

// PairwiseResultDTO is the wire form of a pairwise structure alignment as
// produced by an external aligner.  It is the input of the pairwise-to-multiple
// conversion service.
//
// Atom arrays are optional: when Atoms1 or Atoms2 is absent, the corresponding
// name is resolved against the configured structure store instead.
type PairwiseResultDTO struct {
	// Name1 and Name2 identify the two aligned structures, typically
	// "<pdb>.<chain>" like "4hhb.A".  Required when the matching atom array
	// is omitted.
	Name1 string `json:"name1"`
	Name2 string `json:"name2"`

	// Atoms1 and Atoms2 are optional inline atom arrays.  When present they
	// take precedence over store resolution.
	Atoms1 []AtomDTO `json:"atoms1,omitempty"`
	Atoms2 []AtomDTO `json:"atoms2,omitempty"`

	// Segments lists the locally aligned fragments in structure order.
	Segments []SegmentDTO `json:"segments"`

	// Rotations holds one 3x3 rotation per segment as row-major rows, and
	// Shifts the matching translation vectors.  Both lists may be shorter
	// than Segments or hold null entries; a segment without a complete
	// superposition falls back to the identity during conversion.
	Rotations [][][]float64 `json:"rotations,omitempty"`
	Shifts    [][]float64   `json:"shifts,omitempty"`

	// Algorithm and Version record the aligner that produced the result.
	Algorithm string `json:"algorithm,omitempty"`
	Version   string `json:"version,omitempty"`

	// CalculationTimeMS is the aligner's reported runtime in milliseconds.
	CalculationTimeMS int64 `json:"calculation_time_ms,omitempty"`

	// Figures of merit reported by the aligner.
	Probability float64 `json:"probability,omitempty"`
	TMScore     float64 `json:"tm_score,omitempty"`
	AlignScore  float64 `json:"align_score,omitempty"`
	RMSD        float64 `json:"rmsd,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Ensemble document — serialized multiple-alignment tree
// ─────────────────────────────────────────────────────────────────────────────

// BlockDTO is one contiguously aligned block: one row of residue indices per
// structure, all rows the same length.  An entry of -1 marks a gap; every
// other entry indexes into that structure's atom array.
type BlockDTO struct {
	AlignRes [][]int `json:"align_res"`
}

// BlockSetDTO groups the blocks that share one superposition per structure.
type BlockSetDTO struct {
	// Transformations holds one 4x4 homogeneous transformation per structure
	// as row-major rows.  Absent when the block set has not been superposed.
	Transformations [][][]float64 `json:"transformations,omitempty"`

	// Blocks lists the aligned blocks, in alignment order.
	Blocks []BlockDTO `json:"blocks"`
}

// MultipleAlignmentDTO is one alternative alignment of the ensemble's
// structures.
type MultipleAlignmentDTO struct {
	// Scores maps score names to values for this alignment.
	Scores map[string]float64 `json:"scores,omitempty"`

	// BlockSets lists the flexible parts of the alignment; a rigid alignment
	// has exactly one.
	BlockSets []BlockSetDTO `json:"block_sets"`
}

// EnsembleDTO is the serialized form of an alignment ensemble: the compared
// structures, creation metadata, and the alternative alignments over them.
//
// Index i refers to the same structure in StructureIdentifiers, AtomArrays,
// and every per-structure list inside the alignments.
type EnsembleDTO struct {
	// ID is the identity of the exporting ensemble.  It is informational:
	// importing a document mints a fresh identity.
	ID string `json:"id,omitempty"`

	// StructureIdentifiers names the compared structures.  Documents without
	// inline atom arrays need these to re-resolve atoms from a store.
	StructureIdentifiers []string `json:"structure_identifiers,omitempty"`

	// Algorithm and Version record the algorithm that created the contained
	// alignments.
	Algorithm string `json:"algorithm,omitempty"`
	Version   string `json:"version,omitempty"`

	// IOTimeMS and CalculationTimeMS are the recorded load and computation
	// times in milliseconds.
	IOTimeMS          int64 `json:"io_time_ms,omitempty"`
	CalculationTimeMS int64 `json:"calculation_time_ms,omitempty"`

	// AtomArrays optionally inlines the structures' atom arrays, one per
	// structure.  When absent, consumers resolve StructureIdentifiers
	// against a structure store.
	AtomArrays [][]AtomDTO `json:"atom_arrays,omitempty"`

	// Scores maps ensemble-level score names to values.
	Scores map[string]float64 `json:"scores,omitempty"`

	// Alignments lists the alternative multiple alignments.
	Alignments []MultipleAlignmentDTO `json:"alignments"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Matrix rows
// ─────────────────────────────────────────────────────────────────────────────

// DenseFromRows builds a dense matrix from row-major JSON rows.  Nil or empty
// input means "absent" and maps to a nil matrix.  Rows of unequal or zero
// width cannot form a matrix and fail with GEO_004; shape requirements beyond
// rectangularity (3x3 rotations, 4x4 superpositions) are enforced where the
// matrix is consumed.
func DenseFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, errors.New(errors.ErrCodeDimensionMismatch, "matrix rows must not be empty")
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, errors.New(errors.ErrCodeDimensionMismatch, "matrix rows have unequal widths").
				WithDetailf("row 0 has %d values, row %d has %d", cols, i, len(row))
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

// RowsFromDense is the inverse of DenseFromRows; a nil matrix maps to nil.
func RowsFromDense(m *mat.Dense) [][]float64 {
	if m == nil {
		return nil
	}
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = make([]float64, c)
		mat.Row(rows[i], i, m)
	}
	return rows
}
