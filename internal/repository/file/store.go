package file

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/vytor/linkpuzzle/internal/logger"
	"github.com/vytor/linkpuzzle/internal/repository"
)

// Store keeps one file per key under a directory. Writes go through a
// temporary file and a rename so a crash never leaves a half-written record.
type Store struct {
	dir string
}

var _ repository.KeyValueStore = (*Store)(nil)

// New creates dir if needed and returns a store rooted there.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir %s: %w", dir, err)
	}
	logger.Default().WithPrefix("file_store").Debug("using directory %s", dir)
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("file_store").Error("failed to read %s: %v", key, err)
		return nil, false, err
	}
	return b, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	log := logger.FromContext(ctx).WithPrefix("file_store")

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		log.Error("failed to create temp file: %v", err)
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		log.Error("failed to move %s into place: %v", key, err)
		return err
	}
	log.Debug("wrote %s (%d bytes)", key, len(value))
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
