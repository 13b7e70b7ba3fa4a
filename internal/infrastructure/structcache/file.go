// Package structcache provides the structure.Provider implementations that
// feed atom arrays into ensembles: an in-process map, a directory of JSON
// files, a Redis read-through layer and a metrics decorator.  Providers
// compose, so a file store can sit behind Redis with instrumentation on top.
package structcache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/StructAlign/pkg/errors"
)

// FileStore resolves structures from a directory of <id>.json files, each
// holding one serialized atom array.
type FileStore struct {
	dir string
	log logging.Logger
}

func NewFileStore(dir string, log logging.Logger) *FileStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &FileStore{dir: dir, log: log.Named("filestore")}
}

// Resolve implements structure.Provider.
func (s *FileStore) Resolve(_ context.Context, id structure.StructureID) (structure.AtomArray, error) {
	path, err := s.pathFor(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if _, statErr := os.Stat(s.dir); statErr != nil {
				return nil, errors.New(errors.ErrCodeStructureStoreUnavailable, "structure store directory unavailable").
					WithDetail(s.dir).WithCause(statErr)
			}
			return nil, errors.New(errors.ErrCodeStructureNotFound, "structure not found").
				WithDetail(id.String())
		}
		return nil, errors.New(errors.ErrCodeStructureResolveFailed, "failed to read structure file").
			WithDetail(path).WithCause(err)
	}

	var arr structure.AtomArray
	if err := json.Unmarshal(data, &arr); err != nil {
		return nil, errors.New(errors.ErrCodeStructureParseFailed, "failed to parse structure file").
			WithDetail(path).WithCause(err)
	}
	return arr, nil
}

// Save writes arr under id, replacing any previous file.
func (s *FileStore) Save(id structure.StructureID, arr structure.AtomArray) error {
	path, err := s.pathFor(id)
	if err != nil {
		return err
	}

	data, err := json.Marshal(arr)
	if err != nil {
		return errors.New(errors.ErrCodeSerialization, "failed to encode structure").
			WithDetail(id.String()).WithCause(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(errors.ErrCodeStructureStoreUnavailable, "failed to write structure file").
			WithDetail(path).WithCause(err)
	}

	s.log.Debug("structure saved",
		logging.String("id", id.String()),
		logging.Int("atoms", arr.Len()),
	)
	return nil
}

// pathFor rejects identifiers that would escape the store directory.
func (s *FileStore) pathFor(id structure.StructureID) (string, error) {
	if id.IsZero() {
		return "", errors.New(errors.ErrCodeValidation, "structure id is empty")
	}
	raw := id.String()
	if strings.ContainsAny(raw, `/\`) || strings.Contains(raw, "..") {
		return "", errors.New(errors.ErrCodeValidation, "structure id must not contain path separators").
			WithDetail(raw)
	}
	return filepath.Join(s.dir, raw+".json"), nil
}
