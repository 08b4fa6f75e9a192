package memory

import (
	"context"
	"sync"

	"github.com/vytor/linkpuzzle/internal/repository"
)

// Store keeps values in process memory. Values are copied on the way in and
// out so callers cannot alias stored bytes.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ repository.KeyValueStore = (*Store)(nil)

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
