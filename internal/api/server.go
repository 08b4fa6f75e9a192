package api

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/linkpuzzle/internal/catalog"
)

// Server is the reference puzzle service. It judges guesses server-side and
// keeps one tally per session cookie.
type Server struct {
	Catalog    *catalog.Catalog
	Sessions   *SessionStore
	MaxGuesses int
	// Limiter throttles requests per client IP. Nil disables throttling.
	Limiter *IPRateLimiter
	// Now defaults to time.Now.
	Now func() time.Time
	// Ready reports backend health for /readyz. Nil means always ready.
	Ready func(ctx context.Context) error

	// mu serializes load-modify-save of tallies.
	mu sync.Mutex
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
