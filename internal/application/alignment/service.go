// Package alignment provides the application-level service over the
// multiple-alignment model.  It converts pairwise results into ensemble
// documents, summarizes and scores documents, computes distance matrices,
// and loads ensembles straight from the structure store, translating
// between wire DTOs and the domain types on the way.
package alignment

import (
	"context"
	"time"

	"github.com/turtacn/StructAlign/internal/domain/align"
	"github.com/turtacn/StructAlign/internal/domain/geometry"
	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/internal/infrastructure/monitoring/logging"
	metrics "github.com/turtacn/StructAlign/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/StructAlign/pkg/errors"
	alignTypes "github.com/turtacn/StructAlign/pkg/types/align"
)

// Service defines the alignment application operations.
type Service interface {
	// ConvertPairwise lifts a pairwise alignment result into an ensemble
	// document.
	ConvertPairwise(ctx context.Context, in *ConvertInput) (*alignTypes.EnsembleDTO, error)

	// Describe validates an ensemble document and returns its summary.
	Describe(ctx context.Context, doc *alignTypes.EnsembleDTO) (*EnsembleSummary, error)

	// DistanceMatrices computes the per-structure distance matrices of an
	// ensemble document, resolving atoms from the structure store when the
	// document does not inline them.
	DistanceMatrices(ctx context.Context, doc *alignTypes.EnsembleDTO) (*DistanceMatrixResult, error)

	// Score returns the named score from the document, searching the
	// ensemble scores first and each alignment's scores after.
	Score(doc *alignTypes.EnsembleDTO, name string) (float64, error)

	// LoadEnsemble resolves the named structures from the store into a
	// fresh ensemble and computes its distance matrices.
	LoadEnsemble(ctx context.Context, ids []string) (*LoadResult, error)
}

// ConvertInput carries the pairwise result to convert and how to convert it.
type ConvertInput struct {
	// Result is the pairwise alignment to lift.
	Result *alignTypes.PairwiseResultDTO

	// Mode selects rigid or flexible conversion.
	Mode string

	// InlineAtoms requests atom arrays inline in the output document.
	// Documents of unnamed structures inline them regardless, since there
	// is no identifier to re-resolve the atoms from.
	InlineAtoms bool
}

// EnsembleSummary is the inspection view of an ensemble document.
type EnsembleSummary struct {
	ID                string             `json:"id"`
	Algorithm         string             `json:"algorithm,omitempty"`
	Version           string             `json:"version,omitempty"`
	Size              int                `json:"size"`
	IOTimeMS          int64              `json:"io_time_ms"`
	CalculationTimeMS int64              `json:"calculation_time_ms"`
	Scores            map[string]float64 `json:"scores,omitempty"`
	Alignments        []AlignmentSummary `json:"alignments"`
}

// AlignmentSummary summarizes one multiple alignment of the ensemble.
type AlignmentSummary struct {
	BlockSets  int                `json:"block_sets"`
	Blocks     int                `json:"blocks"`
	Length     int                `json:"length"`
	CoreLength int                `json:"core_length"`
	Scores     map[string]float64 `json:"scores,omitempty"`
}

// DistanceMatrixResult carries one intramolecular distance matrix per
// structure, in ensemble order.
type DistanceMatrixResult struct {
	// Identifiers names the structures when the document names them.
	Identifiers []string `json:"identifiers,omitempty"`

	// Source records where the atoms came from: "inline" for documents
	// carrying their atom arrays, "store" for resolution through the
	// structure store.
	Source string `json:"source"`

	// Matrices[i] holds structure i's matrix as row-major rows.
	Matrices [][][]float64 `json:"matrices"`
}

// LoadResult reports an ensemble freshly loaded from the structure store:
// resolution is recorded as I/O time, matrix computation as calculation
// time.
type LoadResult struct {
	ID                string        `json:"id"`
	Identifiers       []string      `json:"identifiers"`
	IOTimeMS          int64         `json:"io_time_ms"`
	CalculationTimeMS int64         `json:"calculation_time_ms"`
	Matrices          [][][]float64 `json:"matrices"`
}

type serviceImpl struct {
	provider  structure.Provider
	converter *align.Converter
	metrics   *metrics.AlignMetrics
	log       logging.Logger
}

// NewService creates the alignment service.  The provider may be nil when
// every document inlines its atoms; metrics and logger fall back to no-op
// implementations.
func NewService(provider structure.Provider, m *metrics.AlignMetrics, log logging.Logger) Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if m == nil {
		m = metrics.NewNopMetrics()
	}
	return &serviceImpl{
		provider:  provider,
		converter: align.NewConverter(log),
		metrics:   m,
		log:       log.Named("alignment"),
	}
}

func (s *serviceImpl) ConvertPairwise(ctx context.Context, in *ConvertInput) (*alignTypes.EnsembleDTO, error) {
	if in == nil || in.Result == nil {
		return nil, errors.InvalidParam("pairwise result must not be nil")
	}
	mode, err := align.ParseMode(in.Mode)
	if err != nil {
		return nil, err
	}

	timer := metrics.NewTimer(s.metrics.ConversionDuration.WithLabelValues(string(mode)))
	defer timer.ObserveDuration()
	outcome := "error"
	defer func() {
		s.metrics.ConversionsTotal.WithLabelValues(string(mode), outcome).Inc()
	}()

	ioStart := time.Now()
	atoms1, err := s.atomsFor(ctx, in.Result.Atoms1, in.Result.Name1)
	if err != nil {
		return nil, err
	}
	atoms2, err := s.atomsFor(ctx, in.Result.Atoms2, in.Result.Name2)
	if err != nil {
		return nil, err
	}
	ioTime := time.Since(ioStart)

	res, err := pairwiseFromDTO(in.Result, atoms1, atoms2)
	if err != nil {
		return nil, err
	}
	e, err := s.converter.Convert(res, mode)
	if err != nil {
		return nil, err
	}
	e.SetIOTime(ioTime)
	outcome = "ok"

	inline := in.InlineAtoms
	if in.Result.Name1 == "" || in.Result.Name2 == "" {
		if !inline {
			s.log.Warn("structures are unnamed, inlining atom arrays")
		}
		inline = true
	}
	var arrays []structure.AtomArray
	if inline {
		arrays = []structure.AtomArray{atoms1, atoms2}
	}

	s.log.Info("pairwise result converted",
		logging.String("mode", string(mode)),
		logging.Int("segments", len(in.Result.Segments)),
		logging.Duration("io_time", ioTime),
	)
	return ensembleToDTO(e, arrays), nil
}

// atomsFor returns the inline atoms when present, otherwise resolves name
// through the structure store.
func (s *serviceImpl) atomsFor(ctx context.Context, inline []alignTypes.AtomDTO, name string) (structure.AtomArray, error) {
	if len(inline) > 0 {
		return atomsFromDTO(inline), nil
	}
	if name == "" {
		return nil, errors.New(errors.ErrCodeValidation,
			"pairwise result needs inline atoms or a structure name")
	}
	if s.provider == nil {
		return nil, errors.New(errors.ErrCodeNoStructureProvider,
			"no structure provider configured").WithDetail(name)
	}
	arr, err := s.provider.Resolve(ctx, structure.StructureID(name))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to resolve structure").
			WithDetail(name)
	}
	return arr, nil
}

func (s *serviceImpl) Describe(_ context.Context, doc *alignTypes.EnsembleDTO) (*EnsembleSummary, error) {
	e, err := ensembleFromDTO(doc)
	if err != nil {
		return nil, err
	}
	size, err := e.Size()
	if err != nil {
		return nil, err
	}

	summary := &EnsembleSummary{
		ID:                e.ID(),
		Algorithm:         e.Algorithm(),
		Version:           e.Version(),
		Size:              size,
		IOTimeMS:          e.IOTime().Milliseconds(),
		CalculationTimeMS: e.CalculationTime().Milliseconds(),
		Scores:            scoresToMap(&e.ScoresCache),
	}
	for _, a := range e.MultipleAlignments() {
		summary.Alignments = append(summary.Alignments, AlignmentSummary{
			BlockSets:  len(a.BlockSets()),
			Blocks:     len(a.Blocks()),
			Length:     a.Length(),
			CoreLength: a.CoreLength(),
			Scores:     scoresToMap(&a.ScoresCache),
		})
	}
	return summary, nil
}

func (s *serviceImpl) DistanceMatrices(ctx context.Context, doc *alignTypes.EnsembleDTO) (*DistanceMatrixResult, error) {
	e, err := ensembleFromDTO(doc)
	if err != nil {
		return nil, err
	}

	source := "inline"
	if len(doc.AtomArrays) == 0 {
		source = "store"
		e.SetProvider(s.provider)
	}

	timer := metrics.NewTimer(s.metrics.DistanceMatrixDuration.WithLabelValues(source))
	matrices, err := e.DistanceMatrices(ctx)
	timer.ObserveDuration()
	if err != nil {
		return nil, err
	}

	out := &DistanceMatrixResult{
		Identifiers: append([]string(nil), doc.StructureIdentifiers...),
		Source:      source,
		Matrices:    matrixRows(matrices),
	}
	s.log.Debug("distance matrices computed",
		logging.Int("structures", len(matrices)),
		logging.String("source", source),
	)
	return out, nil
}

func (s *serviceImpl) Score(doc *alignTypes.EnsembleDTO, name string) (float64, error) {
	if doc == nil {
		return 0, errors.InvalidParam("document must not be nil")
	}
	if v, ok := doc.Scores[name]; ok {
		return v, nil
	}
	for _, a := range doc.Alignments {
		if v, ok := a.Scores[name]; ok {
			return v, nil
		}
	}
	return 0, errors.New(errors.ErrCodeScoreNotFound, "score not recorded").WithDetail(name)
}

func (s *serviceImpl) LoadEnsemble(ctx context.Context, ids []string) (*LoadResult, error) {
	if len(ids) == 0 {
		return nil, errors.InvalidParam("at least one structure identifier is required")
	}
	if s.provider == nil {
		return nil, errors.New(errors.ErrCodeNoStructureProvider, "no structure provider configured")
	}

	identifiers := make([]structure.StructureID, len(ids))
	for i, id := range ids {
		identifiers[i] = structure.StructureID(id)
	}
	e := align.NewEnsemble()
	e.SetStructureIdentifiers(identifiers)
	e.SetProvider(s.provider)

	ioStart := time.Now()
	if err := e.UpdateAtomArrays(ctx); err != nil {
		return nil, err
	}
	e.SetIOTime(time.Since(ioStart))

	timer := metrics.NewTimer(s.metrics.DistanceMatrixDuration.WithLabelValues("store"))
	calcStart := time.Now()
	err := e.UpdateDistanceMatrices(ctx)
	timer.ObserveDuration()
	if err != nil {
		return nil, err
	}
	e.SetCalculationTime(time.Since(calcStart))

	matrices, err := e.DistanceMatrices(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info("structures loaded",
		logging.Int("structures", len(ids)),
		logging.Duration("io_time", e.IOTime()),
		logging.Duration("calculation_time", e.CalculationTime()),
	)
	return &LoadResult{
		ID:                e.ID(),
		Identifiers:       append([]string(nil), ids...),
		IOTimeMS:          e.IOTime().Milliseconds(),
		CalculationTimeMS: e.CalculationTime().Milliseconds(),
		Matrices:          matrixRows(matrices),
	}, nil
}

// matrixRows flattens domain distance matrices into row slices.
func matrixRows(matrices []*geometry.DistanceMatrix) [][][]float64 {
	out := make([][][]float64, len(matrices))
	for i, m := range matrices {
		rows := make([][]float64, m.Size())
		for r := 0; r < m.Size(); r++ {
			rows[r] = m.Row(r)
		}
		out[i] = rows
	}
	return out
}
