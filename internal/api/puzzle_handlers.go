package api

import (
	"encoding/json"
	"net/http"

	"github.com/vytor/linkpuzzle/internal/errors"
	"github.com/vytor/linkpuzzle/internal/judge"
	"github.com/vytor/linkpuzzle/internal/logger"
	"github.com/vytor/linkpuzzle/internal/models"
)

const noHint = "No hint available"

// loadTally returns the caller's tally for today, resetting it on a new day.
// Callers hold s.mu.
func (s *Server) loadTally(r *http.Request, day int) (*judge.Tally, error) {
	ctx := r.Context()
	id := sessionFromContext(ctx)
	t := s.Sessions.Load(ctx, id)
	if t.ResetFor(day) {
		logger.FromContext(ctx).Debug("starting day %d", day)
		if err := s.Sessions.Save(ctx, id, t); err != nil {
			return nil, errors.NewInternalError(err)
		}
	}
	return t, nil
}

func (s *Server) handlePuzzle(w http.ResponseWriter, r *http.Request) {
	day := s.Catalog.DayIndex(s.now())
	entry := s.Catalog.For(day)

	s.mu.Lock()
	t, err := s.loadTally(r, day)
	s.mu.Unlock()
	if err != nil {
		handleError(w, r, err)
		return
	}

	hints := entry.Synonyms
	if len(hints) == 0 {
		hints = []string{noHint}
	}
	count := t.GuessCount

	writeJSON(w, http.StatusOK, models.PuzzleResponse{
		DayIndex:       day,
		Pairs:          entry.Pairs,
		MaxGuesses:     s.MaxGuesses,
		CurrentGuesses: &count,
		History:        t.History,
		Solved:         t.Solved,
		ExtraRevealed:  t.ExtraRevealed,
		Synonyms:       hints,
	})
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req models.GuessRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	if req.Guess == "" {
		handleError(w, r, errors.NewValidationError("guess", "is required"))
		return
	}

	day := s.Catalog.DayIndex(s.now())
	entry := s.Catalog.For(day)

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.loadTally(r, day)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if t.Over(s.MaxGuesses) {
		handleError(w, r, errors.NewConflictError("today's puzzle is already finished"))
		return
	}

	resp := judge.Play(entry, t, req.Guess, s.MaxGuesses)
	if resp.Status.Counts() {
		if err := s.Sessions.Save(r.Context(), sessionFromContext(r.Context()), t); err != nil {
			handleError(w, r, errors.NewInternalError(err))
			return
		}
	}

	log.Info("day %d guess %d/%d judged %s", day, t.GuessCount, s.MaxGuesses, resp.Status)
	writeJSON(w, http.StatusOK, resp)
}
