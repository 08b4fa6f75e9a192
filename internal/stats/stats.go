// Package stats keeps cross-day play statistics.
package stats

import (
	"context"

	"github.com/vytor/linkpuzzle/internal/logger"
	"github.com/vytor/linkpuzzle/internal/models"
	"github.com/vytor/linkpuzzle/internal/repository"
)

// Slots is the distribution length for a puzzle allowing maxGuesses: one
// slot per winning guess count plus one for losses.
func Slots(maxGuesses int) int {
	return maxGuesses + 1
}

// Apply records the outcome of dayIndex into s. It returns false and leaves
// s untouched when that day was already recorded.
func Apply(s *models.UserStatistics, dayIndex int, isWin bool, guessesUsed, maxGuesses int) bool {
	if s.LastPlayedIndex == dayIndex {
		return false
	}
	s.PadDistribution(Slots(maxGuesses))

	s.GamesPlayed++
	s.LastPlayedIndex = dayIndex

	if isWin {
		s.GamesWon++
		s.CurrentStreak++
		s.MaxStreak = max(s.MaxStreak, s.CurrentStreak)
		used := min(max(guessesUsed, 1), maxGuesses)
		s.GuessDistribution[used-1]++
		return true
	}

	// Losses go in the final slot, which may sit past maxGuesses when the
	// stored distribution came from a longer puzzle.
	s.CurrentStreak = 0
	s.GuessDistribution[len(s.GuessDistribution)-1]++
	return true
}

// ResetIfStale zeroes the current streak when at least one whole day passed
// since the last recorded game. lastPlayedIndex is never changed.
func ResetIfStale(s *models.UserStatistics, currentDayIndex int) bool {
	if currentDayIndex-s.LastPlayedIndex <= 1 || s.CurrentStreak == 0 {
		return false
	}
	s.CurrentStreak = 0
	return true
}

// Engine applies statistics transitions against a store, persisting after
// every mutation.
type Engine struct {
	store repository.StatsStore
}

func NewEngine(store repository.StatsStore) *Engine {
	return &Engine{store: store}
}

// Load returns the current statistics for a puzzle allowing maxGuesses.
func (e *Engine) Load(ctx context.Context, maxGuesses int) models.UserStatistics {
	return e.store.LoadStats(ctx, Slots(maxGuesses))
}

// ValidateStreak resets a streak broken by a skipped day. It must run before
// RecordOutcome on each load.
func (e *Engine) ValidateStreak(ctx context.Context, currentDayIndex, maxGuesses int) (models.UserStatistics, error) {
	log := logger.FromContext(ctx).WithPrefix("stats")

	s := e.Load(ctx, maxGuesses)
	if !ResetIfStale(&s, currentDayIndex) {
		return s, nil
	}

	log.Info("streak reset: last played day %d, today is day %d", s.LastPlayedIndex, currentDayIndex)
	if err := e.store.SaveStats(ctx, s); err != nil {
		log.Warn("failed to persist streak reset: %v", err)
		return s, err
	}
	return s, nil
}

// RecordOutcome counts the finished game of dayIndex once. The returned bool
// is false when the day had already been counted.
func (e *Engine) RecordOutcome(ctx context.Context, dayIndex int, isWin bool, guessesUsed, maxGuesses int) (models.UserStatistics, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("stats").WithField("day", dayIndex)

	s := e.Load(ctx, maxGuesses)
	if !Apply(&s, dayIndex, isWin, guessesUsed, maxGuesses) {
		log.Debug("outcome already recorded")
		return s, false, nil
	}

	log.Info("recorded %s in %d guesses (streak=%d)", winLoss(isWin), guessesUsed, s.CurrentStreak)
	if err := e.store.SaveStats(ctx, s); err != nil {
		log.Warn("failed to persist statistics: %v", err)
		return s, true, err
	}
	return s, true, nil
}

func winLoss(isWin bool) string {
	if isWin {
		return "win"
	}
	return "loss"
}
