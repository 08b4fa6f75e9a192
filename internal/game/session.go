// Package game reconciles a fetched puzzle with saved progress and applies
// judged guesses to it.
package game

import (
	"context"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/vytor/linkpuzzle/internal/errors"
	"github.com/vytor/linkpuzzle/internal/logger"
	"github.com/vytor/linkpuzzle/internal/models"
)

// State is the position of a session in its lifecycle.
type State int

const (
	Active State = iota
	Solved
	Failed
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Solved:
		return "solved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrGameOver is returned by ProcessGuess once the session is Solved or
// Failed.
var ErrGameOver = errors.NewConflictError("game is already over")

// ProgressSaver receives the full progress after every counted guess.
type ProgressSaver interface {
	SaveProgress(ctx context.Context, progress models.GameProgress) error
}

// Session is the state of one day's game. It is not safe for concurrent use;
// the owning controller serializes calls.
type Session struct {
	puzzle   models.Puzzle
	history  []models.GuessRecord
	solved   bool
	failed   bool
	extra    map[int]struct{}
	revealed int
	saver    ProgressSaver
}

// Initialize builds a session for puzzle. Saved progress from another day is
// discarded.
func Initialize(ctx context.Context, puzzle models.Puzzle, saved *models.GameProgress, saver ProgressSaver) *Session {
	log := logger.FromContext(ctx).WithPrefix("game")

	s := &Session{
		puzzle:  puzzle,
		history: []models.GuessRecord{},
		extra:   make(map[int]struct{}),
		saver:   saver,
	}

	switch {
	case saved == nil:
		log.Debug("no saved progress for day %d", puzzle.DayIndex)
	case saved.DayIndex != puzzle.DayIndex:
		log.Debug("discarding stale progress from day %d (puzzle is day %d)", saved.DayIndex, puzzle.DayIndex)
	default:
		s.history = append(s.history, saved.History...)
		s.solved = saved.Solved
		s.setExtra(saved.ExtraRevealed)
		if n := len(s.history); !s.solved && n > 0 && s.history[n-1].Status == models.StatusFail {
			s.failed = true
		}
		log.Debug("restored %d guesses for day %d (solved=%t)", len(s.history), puzzle.DayIndex, s.solved)
	}

	s.revealed = min(len(s.history)+1, len(puzzle.Pairs))
	return s
}

func (s *Session) setExtra(indices []int) {
	s.extra = make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(s.puzzle.Pairs) {
			s.extra[i] = struct{}{}
		}
	}
}

// State reports whether the game is still being played.
func (s *Session) State() State {
	switch {
	case s.solved:
		return Solved
	case s.failed, len(s.history) >= s.puzzle.MaxGuesses:
		return Failed
	default:
		return Active
	}
}

// Over reports whether no further guesses are accepted.
func (s *Session) Over() bool {
	return s.State() != Active
}

// Puzzle returns the board this session plays.
func (s *Session) Puzzle() models.Puzzle {
	return s.puzzle
}

// History returns a copy of the counted guesses in order.
func (s *Session) History() []models.GuessRecord {
	return append([]models.GuessRecord(nil), s.history...)
}

// GuessesUsed is the number of counted guesses.
func (s *Session) GuessesUsed() int {
	return len(s.history)
}

// GuessesLeft is the number of guesses still available.
func (s *Session) GuessesLeft() int {
	if s.Over() {
		return 0
	}
	return max(s.puzzle.MaxGuesses-len(s.history), 0)
}

// RevealedCount is the number of pairs shown by sequential reveal.
func (s *Session) RevealedCount() int {
	return s.revealed
}

// ExtraRevealed returns the server-driven reveals in ascending order.
func (s *Session) ExtraRevealed() []int {
	out := lo.Keys(s.extra)
	sort.Ints(out)
	return out
}

// IsRevealed reports whether pair i is shown.
func (s *Session) IsRevealed(i int) bool {
	if i < 0 || i >= len(s.puzzle.Pairs) {
		return false
	}
	if s.solved || i < s.revealed {
		return true
	}
	_, ok := s.extra[i]
	return ok
}

// Answer returns the revealed answer carried by the last record, if any.
func (s *Session) Answer() string {
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].Answer != "" {
			return s.history[i].Answer
		}
	}
	return ""
}

// Progress is the persisted form of the session.
func (s *Session) Progress() models.GameProgress {
	return models.GameProgress{
		DayIndex:      s.puzzle.DayIndex,
		History:       s.History(),
		Solved:        s.solved,
		ExtraRevealed: s.ExtraRevealed(),
	}
}

// OutcomeKind classifies the effect of a guess.
type OutcomeKind int

const (
	// OutcomeIgnored means the input was blank and nothing happened.
	OutcomeIgnored OutcomeKind = iota
	// OutcomeInvalid means the server rejected the word; nothing was counted.
	OutcomeInvalid
	// OutcomeContinued means the guess was counted and the game goes on.
	OutcomeContinued
	OutcomeSolved
	OutcomeFailed
)

// Outcome is the result of ProcessGuess.
type Outcome struct {
	Kind   OutcomeKind
	Record models.GuessRecord
	// Revealed is the sequential reveal count after the guess.
	Revealed int
}

// Terminal reports whether the guess ended the game.
func (o Outcome) Terminal() bool {
	return o.Kind == OutcomeSolved || o.Kind == OutcomeFailed
}

// Normalize trims raw guess input. An empty result means the input is
// ignored.
func Normalize(raw string) string {
	return strings.TrimSpace(raw)
}

// ProcessGuess applies the server's judgment of raw to the session and
// persists the result before returning. Persistence failures are logged and
// do not fail the guess.
func (s *Session) ProcessGuess(ctx context.Context, raw string, resp models.GuessResponse) (Outcome, error) {
	log := logger.FromContext(ctx).WithPrefix("game").WithField("day", s.puzzle.DayIndex)

	if s.Over() {
		return Outcome{}, ErrGameOver
	}

	guess := Normalize(raw)
	if guess == "" {
		return Outcome{Kind: OutcomeIgnored, Revealed: s.revealed}, nil
	}

	if !resp.Status.Counts() {
		log.Debug("guess %q rejected as invalid", guess)
		return Outcome{Kind: OutcomeInvalid, Revealed: s.revealed}, nil
	}

	rec := models.GuessRecord{Guess: guess, Status: resp.Status, Answer: resp.Answer}
	s.history = append(s.history, rec)

	if resp.ExtraRevealed != nil {
		s.setExtra(resp.ExtraRevealed)
	}

	kind := OutcomeContinued
	switch {
	case resp.Advance && resp.Status == models.StatusCorrect:
		s.solved = true
		kind = OutcomeSolved
	case resp.Advance:
		s.failed = true
		kind = OutcomeFailed
	default:
		s.revealed = min(s.revealed+1, len(s.puzzle.Pairs))
		if s.State() == Failed {
			kind = OutcomeFailed
		}
	}

	log.Debug("guess %d/%d %q -> %s (revealed=%d)", len(s.history), s.puzzle.MaxGuesses, guess, resp.Status, s.revealed)

	if s.saver != nil {
		if err := s.saver.SaveProgress(ctx, s.Progress()); err != nil {
			log.Warn("failed to persist progress: %v", err)
		}
	}

	return Outcome{Kind: kind, Record: rec, Revealed: s.revealed}, nil
}
