package services

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/linkpuzzle/internal/errors"
	"github.com/vytor/linkpuzzle/internal/game"
	"github.com/vytor/linkpuzzle/internal/logger"
	"github.com/vytor/linkpuzzle/internal/models"
	"github.com/vytor/linkpuzzle/internal/puzzleclient"
	"github.com/vytor/linkpuzzle/internal/repository"
	"github.com/vytor/linkpuzzle/internal/stats"
)

// Store is the persistence the controller needs.
type Store interface {
	repository.ProgressStore
	repository.StatsStore
	ClearProgress(ctx context.Context) error
	ClearSession(ctx context.Context) error
	LoadSession(ctx context.Context) string
	SaveSession(ctx context.Context, value string) error
}

// SubmitResult is the outcome of one guess plus the statistics after it.
type SubmitResult struct {
	Outcome game.Outcome
	Stats   models.UserStatistics
	// Recorded is true when this guess ended the game and was counted.
	Recorded bool
}

// GameService owns the single game session of a player.
type GameService interface {
	Load(ctx context.Context) (*game.Session, models.UserStatistics, error)
	Submit(ctx context.Context, raw string) (SubmitResult, error)
	Session() *game.Session
	Stats(ctx context.Context) models.UserStatistics
	Reset(ctx context.Context) error
}

type gameService struct {
	mu      sync.Mutex
	client  puzzleclient.ClientInterface
	store   Store
	stats   *stats.Engine
	session *game.Session
}

// NewGameService creates a new GameService
func NewGameService(client puzzleclient.ClientInterface, store Store) GameService {
	return &gameService{
		client: client,
		store:  store,
		stats:  stats.NewEngine(store),
	}
}

// Load fetches today's puzzle and reconciles it with saved progress. Local
// progress for the same day wins unless the server's copy is further along.
func (s *gameService) Load(ctx context.Context) (*game.Session, models.UserStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// serverAhead reports whether the server holds guesses missing from the
// local copy of the same day.
func serverAhead(local, remote *models.GameProgress) bool {
	if remote.Solved && !local.Solved {
		return true
	}
	return len(remote.History) > len(local.History)
}

func (s *gameService) load(ctx context.Context) (*game.Session, models.UserStatistics, error) {
	log := logger.FromContext(ctx).WithPrefix("game_service")

	start := time.Now()
	resp, err := s.client.FetchPuzzle(ctx)
	log.Since(start, "puzzle fetched")
	if err != nil {
		log.Error("failed to fetch puzzle: %v", err)
		return nil, models.UserStatistics{}, err
	}
	puzzle := resp.Puzzle()
	log = log.WithField("day", puzzle.DayIndex)

	st, err := s.stats.ValidateStreak(ctx, puzzle.DayIndex, puzzle.MaxGuesses)
	if err != nil {
		log.Warn("streak validation not persisted: %v", err)
	}

	saved := s.store.LoadProgress(ctx)
	adoptServer := false
	if remote := resp.ServerProgress(); remote != nil {
		switch {
		case saved == nil || saved.DayIndex != puzzle.DayIndex:
			log.Debug("using server progress (%d guesses)", len(remote.History))
			adoptServer = true
		case serverAhead(saved, remote):
			log.Warn("local progress is behind the server (%d vs %d guesses); using the server's", len(saved.History), len(remote.History))
			adoptServer = true
		}
		if adoptServer {
			saved = remote
		}
	}

	s.session = game.Initialize(ctx, puzzle, saved, s.store)
	if adoptServer {
		if err := s.store.SaveProgress(ctx, s.session.Progress()); err != nil {
			log.Warn("failed to persist server progress: %v", err)
		}
	}
	s.rememberSession(ctx)

	if s.session.Over() {
		// A crash between saving progress and recording stats is repaired here;
		// RecordOutcome ignores days already counted.
		st = s.record(ctx)
	}

	log.Info("loaded day %d: state=%s guesses=%d/%d", puzzle.DayIndex, s.session.State(), s.session.GuessesUsed(), puzzle.MaxGuesses)
	return s.session, st, nil
}

// Submit sends raw to the server and applies the judgment.
func (s *gameService) Submit(ctx context.Context, raw string) (SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx).WithPrefix("game_service")

	if s.session == nil {
		return SubmitResult{}, errors.NewBadRequestError("no puzzle loaded")
	}
	if s.session.Over() {
		return SubmitResult{}, game.ErrGameOver
	}

	guess := game.Normalize(raw)
	if guess == "" {
		return SubmitResult{Outcome: game.Outcome{Kind: game.OutcomeIgnored, Revealed: s.session.RevealedCount()}}, nil
	}

	resp, err := s.client.SubmitGuess(ctx, guess)
	if err != nil {
		log.Warn("guess %q not submitted: %v", guess, err)
		if appErr, ok := errors.As(err); ok && appErr.Code == errors.ErrCodeConflict {
			return s.resync(ctx, err)
		}
		return SubmitResult{}, err
	}

	out, err := s.session.ProcessGuess(ctx, guess, *resp)
	if err != nil {
		return SubmitResult{}, err
	}
	s.rememberSession(ctx)

	result := SubmitResult{Outcome: out}
	if out.Terminal() {
		var changed bool
		result.Stats, changed = s.recordChanged(ctx)
		result.Recorded = changed
	} else {
		result.Stats = s.stats.Load(ctx, s.session.Puzzle().MaxGuesses)
	}
	return result, nil
}

// resync reloads after the server refused a guess because the day is over
// there. It returns game.ErrGameOver once the local session agrees.
func (s *gameService) resync(ctx context.Context, cause error) (SubmitResult, error) {
	session, st, err := s.load(ctx)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("game_service").Warn("failed to reload after conflict: %v", err)
		return SubmitResult{}, cause
	}
	if !session.Over() {
		return SubmitResult{}, cause
	}
	return SubmitResult{Stats: st}, game.ErrGameOver
}

func (s *gameService) record(ctx context.Context) models.UserStatistics {
	st, _ := s.recordChanged(ctx)
	return st
}

func (s *gameService) recordChanged(ctx context.Context) (models.UserStatistics, bool) {
	p := s.session.Puzzle()
	st, changed, err := s.stats.RecordOutcome(ctx, p.DayIndex, s.session.State() == game.Solved, s.session.GuessesUsed(), p.MaxGuesses)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("game_service").Warn("statistics not persisted: %v", err)
	}
	return st, changed
}

func (s *gameService) rememberSession(ctx context.Context) {
	id := s.client.SessionID()
	if id == "" || id == s.store.LoadSession(ctx) {
		return
	}
	if err := s.store.SaveSession(ctx, id); err != nil {
		logger.FromContext(ctx).WithPrefix("game_service").Warn("failed to persist session id: %v", err)
	}
}

// Session returns the loaded session, or nil before Load.
func (s *gameService) Session() *game.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Stats returns the stored statistics sized for the loaded puzzle.
func (s *gameService) Stats(ctx context.Context) models.UserStatistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	maxGuesses := 6
	if s.session != nil {
		maxGuesses = s.session.Puzzle().MaxGuesses
	}
	return s.stats.Load(ctx, maxGuesses)
}

// Reset discards progress for the current day and the server session
// holding it, so the next Load starts a fresh game. Statistics are kept, and
// a day already counted is not counted again.
func (s *gameService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.ClearProgress(ctx); err != nil {
		return errors.NewInternalError(err)
	}
	if err := s.store.ClearSession(ctx); err != nil {
		return errors.NewInternalError(err)
	}
	s.client.ResetSession()
	s.session = nil
	return nil
}
