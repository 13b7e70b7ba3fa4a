package align

import (
	"gonum.org/v1/gonum/mat"

	"github.com/turtacn/StructAlign/internal/domain/geometry"
	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/StructAlign/pkg/errors"
)

// Converter lifts pairwise alignment results into the multiple-alignment
// model.  A converter is stateless apart from its logger and safe for
// concurrent use.
type Converter struct {
	log logging.Logger
}

// NewConverter creates a converter.  A nil logger is replaced by a no-op
// logger.
func NewConverter(log logging.Logger) *Converter {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Converter{log: log.Named("converter")}
}

// Convert builds a fresh two-structure ensemble from a pairwise result.
//
// In rigid mode all segments share one BlockSet and the superposition of
// segment 0; in flexible mode each segment becomes its own BlockSet with
// its own superposition.  Either way a BlockSet carries two
// transformations: the identity for the reference structure and the
// segment's superposition for the second.  A missing or malformed segment
// transformation is replaced by the identity and logged at Warn level, so
// a partial result still yields a usable ensemble.
//
// The creation metadata (algorithm, version, calculation time) is carried
// over; I/O time is not, since the conversion performs no I/O of its own.
// The atom arrays are shared with the input, not copied.
func (c *Converter) Convert(res *PairwiseResult, mode Mode) (*Ensemble, error) {
	if res == nil {
		return nil, errors.New(errors.ErrCodeEmptyPairwiseResult, "pairwise result is nil")
	}
	if !mode.IsValid() {
		return nil, errors.New(errors.ErrCodeModeInvalid, "unknown conversion mode").
			WithDetail(string(mode))
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}

	e := NewEnsemble()
	e.SetAtomArrays([]structure.AtomArray{res.Atoms1, res.Atoms2})
	if res.Name1 != "" && res.Name2 != "" {
		e.SetStructureIdentifiers([]structure.StructureID{
			structure.StructureID(res.Name1),
			structure.StructureID(res.Name2),
		})
	}
	e.SetAlgorithm(res.Algorithm)
	e.SetVersion(res.Version)
	e.SetCalculationTime(res.CalculationTime)

	a := NewMultipleAlignment()
	switch mode {
	case ModeRigid:
		bs := NewBlockSet(a)
		for _, seg := range res.Segments {
			if err := addSegmentBlock(bs, seg); err != nil {
				return nil, err
			}
		}
		if err := bs.SetTransformations(c.blockSetTransforms(res, 0)); err != nil {
			return nil, err
		}
	case ModeFlexible:
		for i, seg := range res.Segments {
			bs := NewBlockSet(a)
			if err := addSegmentBlock(bs, seg); err != nil {
				return nil, err
			}
			if err := bs.SetTransformations(c.blockSetTransforms(res, i)); err != nil {
				return nil, err
			}
		}
	}

	a.PutScore(ScoreProbability, res.Probability)
	a.PutScore(ScoreAvgTMScore, res.TMScore)
	a.PutScore(ScoreCEScore, res.AlignScore)
	a.PutScore(ScoreRMSD, res.RMSD)

	if err := e.AddMultipleAlignment(a); err != nil {
		return nil, err
	}

	c.log.Info("converted pairwise result",
		logging.String("mode", string(mode)),
		logging.Int("segments", res.SegmentCount()),
		logging.Int("block_sets", len(a.BlockSets())),
	)
	return e, nil
}

// addSegmentBlock turns one segment into a two-row block under bs.  The
// residue lists are copied so later mutation of the input cannot reach the
// block.
func addSegmentBlock(bs *BlockSet, seg Segment) error {
	b := NewBlock(bs)
	rows := [][]int{
		append([]int(nil), seg.Res1...),
		append([]int(nil), seg.Res2...),
	}
	return b.SetAlignRes(rows)
}

// blockSetTransforms builds the transformation pair for one BlockSet: the
// identity for the reference structure and segment i's superposition for
// the moving one, falling back to the identity when the segment data is
// unusable.
func (c *Converter) blockSetTransforms(res *PairwiseResult, i int) []*mat.Dense {
	t, ok := res.TransformFor(i)
	if !ok {
		c.log.Warn("segment superposition missing or malformed, substituting identity",
			logging.Int("segment", i))
		t = geometry.IdentityTransform()
	}
	return []*mat.Dense{geometry.IdentityTransform(), t}
}
