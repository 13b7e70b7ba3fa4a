package alignment

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/turtacn/StructAlign/internal/domain/align"
	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/pkg/errors"
	alignTypes "github.com/turtacn/StructAlign/pkg/types/align"
)

// ─────────────────────────────────────────────────────────────────────────────
// Atoms
// ─────────────────────────────────────────────────────────────────────────────

func atomsFromDTO(in []alignTypes.AtomDTO) structure.AtomArray {
	out := make(structure.AtomArray, len(in))
	for i, a := range in {
		out[i] = structure.Atom{Name: a.Name, ResSeq: a.ResSeq, Coords: a.Coords}
	}
	return out
}

func atomsToDTO(arr structure.AtomArray) []alignTypes.AtomDTO {
	out := make([]alignTypes.AtomDTO, arr.Len())
	for i, a := range arr {
		out[i] = alignTypes.AtomDTO{Name: a.Name, ResSeq: a.ResSeq, Coords: a.Coords}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Pairwise result
// ─────────────────────────────────────────────────────────────────────────────

// pairwiseFromDTO maps the wire form onto the domain input.  The resolved
// atom arrays come from the caller, which decides between inline atoms and
// store resolution.  Null rotation and shift entries stay nil; the converter
// substitutes the identity for those segments.
func pairwiseFromDTO(dto *alignTypes.PairwiseResultDTO, atoms1, atoms2 structure.AtomArray) (*align.PairwiseResult, error) {
	rotations := make([]*mat.Dense, len(dto.Rotations))
	for i, rows := range dto.Rotations {
		m, err := alignTypes.DenseFromRows(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "invalid rotation matrix").
				WithDetailf("segment %d", i)
		}
		rotations[i] = m
	}
	shifts := make([][]float64, len(dto.Shifts))
	for i, row := range dto.Shifts {
		if row != nil {
			shifts[i] = append([]float64(nil), row...)
		}
	}
	segments := make([]align.Segment, len(dto.Segments))
	for i, seg := range dto.Segments {
		segments[i] = align.Segment{
			Res1: append([]int(nil), seg.Res1...),
			Res2: append([]int(nil), seg.Res2...),
		}
	}
	return &align.PairwiseResult{
		Name1:           dto.Name1,
		Name2:           dto.Name2,
		Atoms1:          atoms1,
		Atoms2:          atoms2,
		Segments:        segments,
		Rotations:       rotations,
		Shifts:          shifts,
		Algorithm:       dto.Algorithm,
		Version:         dto.Version,
		CalculationTime: time.Duration(dto.CalculationTimeMS) * time.Millisecond,
		Probability:     dto.Probability,
		TMScore:         dto.TMScore,
		AlignScore:      dto.AlignScore,
		RMSD:            dto.RMSD,
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Ensemble documents
// ─────────────────────────────────────────────────────────────────────────────

// ensembleToDTO flattens the domain tree into its document form.  arrays, when
// non-nil, is inlined as the per-structure atom arrays; passing nil produces a
// document that relies on the structure identifiers.
func ensembleToDTO(e *align.Ensemble, arrays []structure.AtomArray) *alignTypes.EnsembleDTO {
	dto := &alignTypes.EnsembleDTO{
		ID:                e.ID(),
		Algorithm:         e.Algorithm(),
		Version:           e.Version(),
		IOTimeMS:          e.IOTime().Milliseconds(),
		CalculationTimeMS: e.CalculationTime().Milliseconds(),
		Scores:            scoresToMap(&e.ScoresCache),
	}
	for _, id := range e.StructureIdentifiers() {
		dto.StructureIdentifiers = append(dto.StructureIdentifiers, id.String())
	}
	for _, arr := range arrays {
		dto.AtomArrays = append(dto.AtomArrays, atomsToDTO(arr))
	}
	for _, a := range e.MultipleAlignments() {
		maDTO := alignTypes.MultipleAlignmentDTO{Scores: scoresToMap(&a.ScoresCache)}
		for _, bs := range a.BlockSets() {
			bsDTO := alignTypes.BlockSetDTO{}
			for _, t := range bs.Transformations() {
				bsDTO.Transformations = append(bsDTO.Transformations, alignTypes.RowsFromDense(t))
			}
			for _, b := range bs.Blocks() {
				bsDTO.Blocks = append(bsDTO.Blocks, alignTypes.BlockDTO{AlignRes: copyRows(b.AlignRes())})
			}
			maDTO.BlockSets = append(maDTO.BlockSets, bsDTO)
		}
		dto.Alignments = append(dto.Alignments, maDTO)
	}
	return dto
}

// ensembleFromDTO rebuilds the domain tree from a document, running the full
// set of structural checks on the way: block row lengths, transformation
// counts and shapes, and the structure-count match at attach time.  The
// returned ensemble carries a fresh identity and no provider.
func ensembleFromDTO(dto *alignTypes.EnsembleDTO) (*align.Ensemble, error) {
	if dto == nil {
		return nil, errors.InvalidParam("document must not be nil")
	}
	e := align.NewEnsemble()
	e.SetAlgorithm(dto.Algorithm)
	e.SetVersion(dto.Version)
	e.SetIOTime(time.Duration(dto.IOTimeMS) * time.Millisecond)
	e.SetCalculationTime(time.Duration(dto.CalculationTimeMS) * time.Millisecond)

	if len(dto.StructureIdentifiers) > 0 {
		ids := make([]structure.StructureID, len(dto.StructureIdentifiers))
		for i, raw := range dto.StructureIdentifiers {
			ids[i] = structure.StructureID(raw)
		}
		e.SetStructureIdentifiers(ids)
	}
	if len(dto.AtomArrays) > 0 {
		arrays := make([]structure.AtomArray, len(dto.AtomArrays))
		for i, atoms := range dto.AtomArrays {
			arrays[i] = atomsFromDTO(atoms)
		}
		e.SetAtomArrays(arrays)
	}
	for name, v := range dto.Scores {
		e.PutScore(name, v)
	}

	for ai, maDTO := range dto.Alignments {
		a := align.NewMultipleAlignment()
		for name, v := range maDTO.Scores {
			a.PutScore(name, v)
		}
		for si, bsDTO := range maDTO.BlockSets {
			bs := align.NewBlockSet(a)
			for bi, bDTO := range bsDTO.Blocks {
				b := align.NewBlock(bs)
				if err := b.SetAlignRes(copyRows(bDTO.AlignRes)); err != nil {
					return nil, errors.Wrap(err, errors.CodeUnknown, "invalid block").
						WithDetailf("alignment %d, block set %d, block %d", ai, si, bi)
				}
			}
			if len(bsDTO.Transformations) > 0 {
				ts := make([]*mat.Dense, len(bsDTO.Transformations))
				for ti, rows := range bsDTO.Transformations {
					m, err := alignTypes.DenseFromRows(rows)
					if err != nil {
						return nil, errors.Wrap(err, errors.CodeUnknown, "invalid transformation").
							WithDetailf("alignment %d, block set %d, transformation %d", ai, si, ti)
					}
					ts[ti] = m
				}
				if err := bs.SetTransformations(ts); err != nil {
					return nil, errors.Wrap(err, errors.CodeUnknown, "invalid transformations").
						WithDetailf("alignment %d, block set %d", ai, si)
				}
			}
		}
		if err := e.AddMultipleAlignment(a); err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "invalid alignment").
				WithDetailf("alignment %d", ai)
		}
	}
	return e, nil
}

func scoresToMap(c *align.ScoresCache) map[string]float64 {
	names := c.ScoreNames()
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]float64, len(names))
	for _, name := range names {
		v, _ := c.Score(name)
		out[name] = v
	}
	return out
}

func copyRows(rows [][]int) [][]int {
	if rows == nil {
		return nil
	}
	out := make([][]int, len(rows))
	for i, row := range rows {
		out[i] = append([]int(nil), row...)
	}
	return out
}
