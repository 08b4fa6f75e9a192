package api

import (
	"context"
	"encoding/json"

	"github.com/vytor/linkpuzzle/internal/judge"
	"github.com/vytor/linkpuzzle/internal/logger"
	"github.com/vytor/linkpuzzle/internal/repository"
)

// SessionStore keeps per-session tallies in a KeyValueStore.
type SessionStore struct {
	kv repository.KeyValueStore
}

func NewSessionStore(kv repository.KeyValueStore) *SessionStore {
	return &SessionStore{kv: kv}
}

func sessionKey(id string) string {
	return "linkpuzzle:tally:" + id
}

// Load returns the tally for id. Missing or unreadable tallies come back
// empty.
func (s *SessionStore) Load(ctx context.Context, id string) *judge.Tally {
	log := logger.FromContext(ctx).WithPrefix("sessions")

	t := &judge.Tally{}
	raw, found, err := s.kv.Get(ctx, sessionKey(id))
	if err != nil {
		log.Warn("failed to read tally: %v", err)
		return t
	}
	if !found {
		return t
	}
	if err := json.Unmarshal(raw, t); err != nil {
		log.Warn("discarding malformed tally: %v", err)
		return &judge.Tally{}
	}
	return t
}

// Save stores t under id.
func (s *SessionStore) Save(ctx context.Context, id string, t *judge.Tally) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, sessionKey(id), raw)
}
