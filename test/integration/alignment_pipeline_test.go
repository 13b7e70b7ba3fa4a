// Package integration exercises the full pipeline: structure store,
// application service, document round trips, and the model's copy and
// clear semantics, with no mocks between the layers.
package integration

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/StructAlign/internal/application/alignment"
	"github.com/turtacn/StructAlign/internal/domain/align"
	"github.com/turtacn/StructAlign/internal/infrastructure/structcache"
	"github.com/turtacn/StructAlign/internal/testutil"
	alignTypes "github.com/turtacn/StructAlign/pkg/types/align"
)

// seedStore fills a memory store with the fixture's atom arrays under the
// fixture's structure names.
func seedStore(t *testing.T) *structcache.MemoryStore {
	t.Helper()
	fix := testutil.PairwiseFixture()
	store := structcache.NewMemoryStore()
	store.Put("4HHB.A", fix.Atoms1)
	store.Put("1MBN.A", fix.Atoms2)
	return store
}

func TestConvertDescribeScorePipeline(t *testing.T) {
	store := seedStore(t)
	svc := alignment.NewService(store, nil, testutil.NewMockLogger())
	ctx := context.Background()

	input := testutil.PairwiseDocument()
	input.Atoms1 = nil
	input.Atoms2 = nil

	doc, err := svc.ConvertPairwise(ctx, &alignment.ConvertInput{Result: input, Mode: "flexible"})
	require.NoError(t, err)
	assert.Equal(t, []string{"4HHB.A", "1MBN.A"}, doc.StructureIdentifiers)
	assert.Empty(t, doc.AtomArrays)

	summary, err := svc.Describe(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Size)
	require.Len(t, summary.Alignments, 1)
	assert.Equal(t, 2, summary.Alignments[0].BlockSets)
	assert.Equal(t, 9, summary.Alignments[0].Length)

	probability, err := svc.Score(doc, "Probability")
	require.NoError(t, err)
	assert.InDelta(t, 0.87, probability, 1e-12)
}

// A converted document survives serialization and feeds every read
// operation back in, resolving atoms through the store.
func TestDocumentRoundTripThroughStore(t *testing.T) {
	store := seedStore(t)
	svc := alignment.NewService(store, nil, testutil.NewMockLogger())
	ctx := context.Background()

	input := testutil.PairwiseDocument()
	input.Atoms1 = nil
	input.Atoms2 = nil
	doc, err := svc.ConvertPairwise(ctx, &alignment.ConvertInput{Result: input, Mode: "rigid"})
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	var decoded alignTypes.EnsembleDTO
	require.NoError(t, json.Unmarshal(data, &decoded))

	matrices, err := svc.DistanceMatrices(ctx, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "store", matrices.Source)
	require.Len(t, matrices.Matrices, 2)
	assert.Len(t, matrices.Matrices[0], 12)

	loaded, err := svc.LoadEnsemble(ctx, decoded.StructureIdentifiers)
	require.NoError(t, err)
	require.Len(t, loaded.Matrices, 2)
	assert.Equal(t, matrices.Matrices[0][0][5], loaded.Matrices[0][0][5])
}

// The same pipeline holds with the file-backed store.
func TestFileStorePipeline(t *testing.T) {
	fix := testutil.PairwiseFixture()
	store := structcache.NewFileStore(t.TempDir(), testutil.NewMockLogger())
	require.NoError(t, store.Save("4HHB.A", fix.Atoms1))
	require.NoError(t, store.Save("1MBN.A", fix.Atoms2))

	svc := alignment.NewService(store, nil, testutil.NewMockLogger())
	input := testutil.PairwiseDocument()
	input.Atoms1 = nil
	input.Atoms2 = nil

	doc, err := svc.ConvertPairwise(context.Background(),
		&alignment.ConvertInput{Result: input, Mode: "rigid"})
	require.NoError(t, err)

	loaded, err := svc.LoadEnsemble(context.Background(), doc.StructureIdentifiers)
	require.NoError(t, err)
	require.Len(t, loaded.Matrices, 2)
	assert.Len(t, loaded.Matrices[1], 12)
}

// Deep copies are fully detached; Clear drops every derived value but
// leaves the alignments intact.
func TestDeepCopyAndClear(t *testing.T) {
	converter := align.NewConverter(testutil.NewMockLogger())
	ensemble, err := converter.Convert(testutil.PairwiseFixture(), align.ModeFlexible)
	require.NoError(t, err)
	ensemble.PutScore("Probability", 0.87)

	copied := ensemble.DeepCopy()
	assert.NotEqual(t, ensemble.ID(), copied.ID())
	require.Len(t, copied.MultipleAlignments(), 1)

	ensemble.PutScore("Probability", 0.5)
	v, ok := copied.Score("Probability")
	require.True(t, ok)
	assert.InDelta(t, 0.87, v, 1e-12)

	ctx := context.Background()
	_, err = copied.DistanceMatrices(ctx)
	require.NoError(t, err)

	copied.Clear()
	_, ok = copied.Score("Probability")
	assert.False(t, ok)
	require.Len(t, copied.MultipleAlignments(), 1)
	assert.Equal(t, 9, copied.MultipleAlignments()[0].Length())

	recomputed, err := copied.DistanceMatrices(ctx)
	require.NoError(t, err)
	assert.Len(t, recomputed, 2)
}
