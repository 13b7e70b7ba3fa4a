package structcache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/internal/infrastructure/structcache"
	"github.com/turtacn/StructAlign/internal/testutil"
	"github.com/turtacn/StructAlign/pkg/errors"
)

var _ structure.Provider = (*structcache.FileStore)(nil)

func TestFileStore_SaveAndResolve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := structcache.NewFileStore(dir, nil)
	atoms := testutil.CATrace(8)

	require.NoError(t, store.Save("4hhb.A", atoms))

	_, err := os.Stat(filepath.Join(dir, "4hhb.A.json"))
	require.NoError(t, err)

	got, err := store.Resolve(context.Background(), "4hhb.A")
	require.NoError(t, err)
	assert.Equal(t, atoms, got)
}

func TestFileStore_MissingFile(t *testing.T) {
	t.Parallel()

	store := structcache.NewFileStore(t.TempDir(), nil)

	_, err := store.Resolve(context.Background(), "1mbn")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureNotFound))
	assert.False(t, errors.IsRetryable(errors.GetCode(err)))
}

func TestFileStore_CorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))

	store := structcache.NewFileStore(dir, nil)

	_, err := store.Resolve(context.Background(), "bad")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureParseFailed))
}

func TestFileStore_MissingDirectory(t *testing.T) {
	t.Parallel()

	store := structcache.NewFileStore(filepath.Join(t.TempDir(), "nope"), nil)

	_, err := store.Resolve(context.Background(), "4hhb.A")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureStoreUnavailable))
	assert.True(t, errors.IsRetryable(errors.GetCode(err)))
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	t.Parallel()

	store := structcache.NewFileStore(t.TempDir(), nil)

	for _, id := range []structure.StructureID{
		"../etc/passwd",
		"a/b",
		`a\b`,
		"",
	} {
		_, err := store.Resolve(context.Background(), id)
		require.Error(t, err, "id %q", id)
		assert.True(t, errors.IsCode(err, errors.ErrCodeValidation), "id %q", id)

		err = store.Save(id, testutil.CATrace(1))
		require.Error(t, err, "id %q", id)
		assert.True(t, errors.IsCode(err, errors.ErrCodeValidation), "id %q", id)
	}
}

func TestFileStore_SaveToMissingDirectory(t *testing.T) {
	t.Parallel()

	store := structcache.NewFileStore(filepath.Join(t.TempDir(), "nope"), nil)

	err := store.Save("4hhb.A", testutil.CATrace(2))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureStoreUnavailable))
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	t.Parallel()

	store := structcache.NewFileStore(t.TempDir(), nil)
	require.NoError(t, store.Save("x", testutil.CATrace(3)))
	require.NoError(t, store.Save("x", testutil.CATrace(9)))

	got, err := store.Resolve(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Len())
}
