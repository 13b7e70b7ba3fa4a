package align

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/StructAlign/internal/domain/geometry"
	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/pkg/errors"
)

// Ensemble is the aggregate root of the alignment model.  It holds the
// structures under comparison (identifiers, lazily resolved atom arrays,
// lazily computed distance matrices), creation metadata, and the owned
// MultipleAlignments over those structures.
//
// Index i refers to the same structure in every per-structure list the
// ensemble and its alignments hold.
//
// The lazy caches follow a uniform contract: nil means unset, a failed
// population attempt leaves the cache unset, and a successful attempt stores
// the complete value.  First access to a lazy cache must not race; callers
// serialize or pre-populate before sharing read-only.
type Ensemble struct {
	ScoresCache

	id        string
	algorithm string
	version   string
	ioTime    time.Duration
	calcTime  time.Duration

	provider     structure.Provider
	identifiers  []structure.StructureID
	atomArrays   []structure.AtomArray
	distMatrices []*geometry.DistanceMatrix

	alignments []*MultipleAlignment
}

// NewEnsemble creates an empty ensemble with a fresh identity.
func NewEnsemble() *Ensemble {
	return &Ensemble{id: uuid.NewString()}
}

// ID returns the ensemble's unique identity.
func (e *Ensemble) ID() string { return e.id }

// ─────────────────────────────────────────────────────────────────────────────
// Creation metadata
// ─────────────────────────────────────────────────────────────────────────────

// Algorithm returns the name of the algorithm that created the contained
// alignments.
func (e *Ensemble) Algorithm() string { return e.algorithm }

// SetAlgorithm records the creating algorithm's name.
func (e *Ensemble) SetAlgorithm(name string) { e.algorithm = name }

// Version returns the version of the creating algorithm.
func (e *Ensemble) Version() string { return e.version }

// SetVersion records the version of the creating algorithm.
func (e *Ensemble) SetVersion(v string) { e.version = v }

// IOTime returns the time spent loading structure data.
func (e *Ensemble) IOTime() time.Duration { return e.ioTime }

// SetIOTime records the time spent loading structure data.
func (e *Ensemble) SetIOTime(d time.Duration) { e.ioTime = d }

// CalculationTime returns the time the algorithm spent computing.
func (e *Ensemble) CalculationTime() time.Duration { return e.calcTime }

// SetCalculationTime records the time the algorithm spent computing.
func (e *Ensemble) SetCalculationTime(d time.Duration) { e.calcTime = d }

// Provider returns the structure provider used for lazy resolution, or nil.
func (e *Ensemble) Provider() structure.Provider { return e.provider }

// SetProvider installs the structure provider used for lazy resolution.
func (e *Ensemble) SetProvider(p structure.Provider) { e.provider = p }

// ─────────────────────────────────────────────────────────────────────────────
// Structures
// ─────────────────────────────────────────────────────────────────────────────

// StructureIdentifiers returns the structure identifiers, or nil while
// unset.
func (e *Ensemble) StructureIdentifiers() []structure.StructureID { return e.identifiers }

// SetStructureIdentifiers replaces the structure identifiers.  Atom arrays
// and distance matrices already present are kept; callers that change the
// structure list wholesale should follow up with UpdateAtomArrays.
func (e *Ensemble) SetStructureIdentifiers(ids []structure.StructureID) {
	e.identifiers = ids
}

// Size returns the number of structures: the identifier count when
// identifiers are set, otherwise the atom-array count.  An ensemble with
// neither fails with ENS_001.
func (e *Ensemble) Size() (int, error) {
	if e.identifiers != nil {
		return len(e.identifiers), nil
	}
	if e.atomArrays != nil {
		return len(e.atomArrays), nil
	}
	return 0, errors.New(errors.ErrCodeEnsembleEmpty,
		"ensemble has neither structure identifiers nor atom arrays")
}

// AtomArrays returns the per-structure atom arrays, resolving them through
// the provider on first use.  A failed resolution leaves the cache unset, so
// the call can be retried safely.
func (e *Ensemble) AtomArrays(ctx context.Context) ([]structure.AtomArray, error) {
	if e.atomArrays != nil {
		return e.atomArrays, nil
	}
	if err := e.UpdateAtomArrays(ctx); err != nil {
		return nil, err
	}
	return e.atomArrays, nil
}

// SetAtomArrays supplies the atom arrays directly, bypassing resolution.
// The arrays are shared, not copied; they must not be mutated afterwards.
func (e *Ensemble) SetAtomArrays(arrays []structure.AtomArray) {
	e.atomArrays = arrays
}

// UpdateAtomArrays resolves every structure identifier through the provider
// and replaces the atom-array cache.  It requires identifiers and a
// provider; the cache is only written when every structure resolved.
func (e *Ensemble) UpdateAtomArrays(ctx context.Context) error {
	if e.identifiers == nil {
		return errors.InvalidState("ensemble has no structure identifiers to resolve")
	}
	if e.provider == nil {
		return errors.New(errors.ErrCodeNoStructureProvider, "no structure provider configured")
	}
	arrays := make([]structure.AtomArray, len(e.identifiers))
	for i, id := range e.identifiers {
		arr, err := e.provider.Resolve(ctx, id)
		if err != nil {
			return errors.Wrap(err, errors.CodeUnknown, "failed to resolve structure").
				WithDetailf("structure %d (%s)", i, id)
		}
		arrays[i] = arr
	}
	e.atomArrays = arrays
	return nil
}

// DistanceMatrices returns the per-structure distance matrices, computing
// them from the atom arrays on first use.  Resolution errors from the lazy
// atom-array path propagate unchanged.
func (e *Ensemble) DistanceMatrices(ctx context.Context) ([]*geometry.DistanceMatrix, error) {
	if e.distMatrices != nil {
		return e.distMatrices, nil
	}
	if err := e.UpdateDistanceMatrices(ctx); err != nil {
		return nil, err
	}
	return e.distMatrices, nil
}

// UpdateDistanceMatrices recomputes every distance matrix from the current
// atom arrays, resolving them first if needed.
func (e *Ensemble) UpdateDistanceMatrices(ctx context.Context) error {
	arrays, err := e.AtomArrays(ctx)
	if err != nil {
		return err
	}
	matrices := make([]*geometry.DistanceMatrix, len(arrays))
	for i, arr := range arrays {
		matrices[i] = geometry.NewDistanceMatrix(arr)
	}
	e.distMatrices = matrices
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Alignments
// ─────────────────────────────────────────────────────────────────────────────

// MultipleAlignments returns the owned alignments in order.
func (e *Ensemble) MultipleAlignments() []*MultipleAlignment { return e.alignments }

// MultipleAlignment returns the alignment at index i.
func (e *Ensemble) MultipleAlignment(i int) (*MultipleAlignment, bool) {
	if i < 0 || i >= len(e.alignments) {
		return nil, false
	}
	return e.alignments[i], true
}

// AddMultipleAlignment attaches a to the ensemble.  When the ensemble
// already knows its structure count, every block of a must span exactly that
// many structures; a violation fails with ENS_002 and leaves both objects
// unchanged.
func (e *Ensemble) AddMultipleAlignment(a *MultipleAlignment) error {
	if a == nil {
		return errors.InvalidParam("alignment must not be nil")
	}
	if err := e.checkAlignmentSize(a); err != nil {
		return err
	}
	a.setEnsemble(e)
	e.alignments = append(e.alignments, a)
	return nil
}

// SetMultipleAlignments replaces the owned alignments, re-parenting each.
// Validation runs over the whole list before anything is attached.
func (e *Ensemble) SetMultipleAlignments(alignments []*MultipleAlignment) error {
	for _, a := range alignments {
		if a == nil {
			return errors.InvalidParam("alignment must not be nil")
		}
		if err := e.checkAlignmentSize(a); err != nil {
			return err
		}
	}
	e.alignments = make([]*MultipleAlignment, 0, len(alignments))
	for _, a := range alignments {
		a.setEnsemble(e)
		e.alignments = append(e.alignments, a)
	}
	return nil
}

func (e *Ensemble) checkAlignmentSize(a *MultipleAlignment) error {
	size, err := e.Size()
	if err != nil {
		// An empty ensemble accepts any alignment; the count is checked
		// once structures are known.
		return nil
	}
	for _, b := range a.Blocks() {
		if b.Size() != size {
			return errors.New(errors.ErrCodeStructureCountMismatch,
				"structure count differs from the ensemble size").
				WithDetailf("block spans %d structures, ensemble has %d", b.Size(), size)
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Lifecycle
// ─────────────────────────────────────────────────────────────────────────────

// Clear discards all derived state: the ensemble's score cache, the distance
// matrices, and every alignment's scores and cached lengths.  Structure
// identifiers and atom arrays are kept, so cleared state can be recomputed.
func (e *Ensemble) Clear() {
	e.ClearScores()
	e.distMatrices = nil
	for _, a := range e.alignments {
		a.Clear()
	}
}

// DeepCopy returns an independent ensemble with a fresh identity.
// Alignments, block sets, blocks, and distance matrices are duplicated
// recursively; the identifier and atom-array containers are copied while
// their immutable elements stay shared; the provider is shared.
func (e *Ensemble) DeepCopy() *Ensemble {
	c := &Ensemble{
		id:        uuid.NewString(),
		algorithm: e.algorithm,
		version:   e.version,
		ioTime:    e.ioTime,
		calcTime:  e.calcTime,
		provider:  e.provider,
	}
	c.ScoresCache = e.cloneScores()

	if e.identifiers != nil {
		c.identifiers = make([]structure.StructureID, len(e.identifiers))
		copy(c.identifiers, e.identifiers)
	}
	if e.atomArrays != nil {
		c.atomArrays = make([]structure.AtomArray, len(e.atomArrays))
		copy(c.atomArrays, e.atomArrays)
	}
	if e.distMatrices != nil {
		c.distMatrices = make([]*geometry.DistanceMatrix, len(e.distMatrices))
		for i, m := range e.distMatrices {
			c.distMatrices[i] = m.Clone()
		}
	}
	for _, a := range e.alignments {
		clone := a.Clone()
		clone.setEnsemble(c)
		c.alignments = append(c.alignments, clone)
	}
	return c
}

func (e *Ensemble) String() string {
	size, err := e.Size()
	if err != nil {
		return fmt.Sprintf("Ensemble[%s, empty]", e.id)
	}
	return fmt.Sprintf("Ensemble[%s, %d structures, %d alignments, algorithm=%s]",
		e.id, size, len(e.alignments), e.algorithm)
}
