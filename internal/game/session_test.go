package game_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/linkpuzzle/internal/game"
	"github.com/vytor/linkpuzzle/internal/models"
	"github.com/vytor/linkpuzzle/internal/repository"
	"github.com/vytor/linkpuzzle/internal/repository/memory"
	"github.com/vytor/linkpuzzle/internal/testutil"
)

type recordingSaver struct {
	saves []models.GameProgress
	err   error
}

func (r *recordingSaver) SaveProgress(_ context.Context, p models.GameProgress) error {
	r.saves = append(r.saves, p)
	return r.err
}

func wrong() models.GuessResponse {
	return models.GuessResponse{Status: models.StatusWrong}
}

func TestInitialize_EmptyHistoryRevealsFirstPair(t *testing.T) {
	s := game.Initialize(context.Background(), testutil.FivePairPuzzle(1), nil, nil)

	assert.Equal(t, 1, s.RevealedCount())
	assert.Equal(t, game.Active, s.State())
	assert.True(t, s.IsRevealed(0))
	assert.False(t, s.IsRevealed(1))
	assert.Equal(t, 6, s.GuessesLeft())
}

func TestInitialize_RevealedCountFormula(t *testing.T) {
	tests := []struct {
		name    string
		guesses int
		want    int
	}{
		{name: "no guesses", guesses: 0, want: 1},
		{name: "two guesses", guesses: 2, want: 3},
		{name: "four guesses", guesses: 4, want: 5},
		{name: "capped at pair count", guesses: 5, want: 5},
		{name: "exhausted", guesses: 6, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := &models.GameProgress{DayIndex: 3}
			for i := 0; i < tt.guesses; i++ {
				saved.History = append(saved.History, models.GuessRecord{Guess: "x", Status: models.StatusWrong})
			}
			s := game.Initialize(context.Background(), testutil.FivePairPuzzle(3), saved, nil)
			assert.Equal(t, tt.want, s.RevealedCount())
		})
	}
}

func TestInitialize_StaleDayIsDiscarded(t *testing.T) {
	saved := &models.GameProgress{
		DayIndex:      9,
		History:       []models.GuessRecord{{Guess: "mark", Status: models.StatusCorrect, Answer: "mark"}},
		Solved:        true,
		ExtraRevealed: []int{3},
	}

	s := game.Initialize(context.Background(), testutil.FivePairPuzzle(10), saved, nil)

	assert.Empty(t, s.History())
	assert.Equal(t, game.Active, s.State())
	assert.Empty(t, s.ExtraRevealed())
	assert.False(t, s.IsRevealed(3))
	assert.Equal(t, 1, s.RevealedCount())
}

func TestInitialize_SolvedRevealsEverything(t *testing.T) {
	saved := &models.GameProgress{
		DayIndex: 2,
		History:  []models.GuessRecord{{Guess: "mark", Status: models.StatusCorrect, Answer: "mark"}},
		Solved:   true,
	}
	s := game.Initialize(context.Background(), testutil.FivePairPuzzle(2), saved, nil)

	assert.Equal(t, game.Solved, s.State())
	for i := 0; i < 5; i++ {
		assert.True(t, s.IsRevealed(i), "pair %d", i)
	}
	assert.Equal(t, "mark", s.Answer())
	assert.Equal(t, 0, s.GuessesLeft())
}

func TestInitialize_ServerEndedGameStaysFailed(t *testing.T) {
	saved := &models.GameProgress{
		DayIndex: 2,
		History: []models.GuessRecord{
			{Guess: "a", Status: models.StatusWrong},
			{Guess: "b", Status: models.StatusFail, Answer: "mark"},
		},
	}
	s := game.Initialize(context.Background(), testutil.FivePairPuzzle(2), saved, nil)

	assert.Equal(t, game.Failed, s.State())
	_, err := s.ProcessGuess(context.Background(), "c", wrong())
	assert.ErrorIs(t, err, game.ErrGameOver)
}

func TestInitialize_OutOfRangeExtraRevealsAreDropped(t *testing.T) {
	saved := &models.GameProgress{DayIndex: 1, ExtraRevealed: []int{-1, 4, 99}}
	s := game.Initialize(context.Background(), testutil.FivePairPuzzle(1), saved, nil)

	assert.Equal(t, []int{4}, s.ExtraRevealed())
	assert.True(t, s.IsRevealed(4))
	assert.False(t, s.IsRevealed(99))
}

func TestProcessGuess_WrongAdvancesReveal(t *testing.T) {
	saver := &recordingSaver{}
	s := game.Initialize(context.Background(), testutil.FivePairPuzzle(1), nil, saver)

	out, err := s.ProcessGuess(context.Background(), "  wood ", wrong())
	require.NoError(t, err)

	assert.Equal(t, game.OutcomeContinued, out.Kind)
	assert.Equal(t, "wood", out.Record.Guess)
	assert.Equal(t, 2, s.RevealedCount())
	assert.Len(t, s.History(), 1)
	require.Len(t, saver.saves, 1)
	assert.Equal(t, 1, saver.saves[0].DayIndex)
	assert.Len(t, saver.saves[0].History, 1)
}

func TestProcessGuess_RevealIsMonotonic(t *testing.T) {
	s := game.Initialize(context.Background(), testutil.FivePairPuzzle(1), nil, nil)

	prev := s.RevealedCount()
	for i := 0; i < 5; i++ {
		_, err := s.ProcessGuess(context.Background(), "nope", models.GuessResponse{Status: models.StatusClose})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, s.RevealedCount(), prev)
		assert.LessOrEqual(t, s.RevealedCount()-prev, 1)
		assert.LessOrEqual(t, s.RevealedCount(), 5)
		prev = s.RevealedCount()
	}
}

func TestProcessGuess_InvalidIsANoOp(t *testing.T) {
	store := repository.NewStore(memory.New())
	ctx := context.Background()
	s := game.Initialize(ctx, testutil.FivePairPuzzle(1), nil, store)

	_, err := s.ProcessGuess(ctx, "tree", wrong())
	require.NoError(t, err)
	before := store.LoadProgress(ctx)

	out, err := s.ProcessGuess(ctx, "zzqx", models.GuessResponse{Status: models.StatusInvalid, ExtraRevealed: []int{4}})
	require.NoError(t, err)

	assert.Equal(t, game.OutcomeInvalid, out.Kind)
	assert.Len(t, s.History(), 1)
	assert.Equal(t, 2, s.RevealedCount())
	assert.False(t, s.IsRevealed(4))
	assert.Equal(t, before, store.LoadProgress(ctx))
}

func TestProcessGuess_BlankInputIsIgnored(t *testing.T) {
	saver := &recordingSaver{}
	s := game.Initialize(context.Background(), testutil.FivePairPuzzle(1), nil, saver)

	out, err := s.ProcessGuess(context.Background(), "   \t", wrong())
	require.NoError(t, err)
	assert.Equal(t, game.OutcomeIgnored, out.Kind)
	assert.Empty(t, s.History())
	assert.Empty(t, saver.saves)
}

func TestProcessGuess_CorrectSolves(t *testing.T) {
	s := game.Initialize(context.Background(), testutil.FivePairPuzzle(1), nil, nil)
	ctx := context.Background()

	for _, g := range []string{"wood", "ink"} {
		_, err := s.ProcessGuess(ctx, g, wrong())
		require.NoError(t, err)
	}
	out, err := s.ProcessGuess(ctx, "mark", models.GuessResponse{Status: models.StatusCorrect, Answer: "Mark", Advance: true})
	require.NoError(t, err)

	assert.Equal(t, game.OutcomeSolved, out.Kind)
	assert.True(t, out.Terminal())
	assert.Equal(t, game.Solved, s.State())
	assert.Equal(t, 3, s.GuessesUsed())
	assert.Equal(t, "Mark", s.Answer())
	for i := 0; i < 5; i++ {
		assert.True(t, s.IsRevealed(i))
	}

	_, err = s.ProcessGuess(ctx, "again", wrong())
	assert.ErrorIs(t, err, game.ErrGameOver)
	assert.Equal(t, 3, s.GuessesUsed())
}

func TestProcessGuess_LastGuessFails(t *testing.T) {
	s := game.Initialize(context.Background(), testutil.FivePairPuzzle(1), nil, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.ProcessGuess(ctx, "wrong", wrong())
		require.NoError(t, err)
	}
	out, err := s.ProcessGuess(ctx, "still wrong", models.GuessResponse{Status: models.StatusFail, Answer: "mark", Advance: true})
	require.NoError(t, err)

	assert.Equal(t, game.OutcomeFailed, out.Kind)
	assert.Equal(t, game.Failed, s.State())
	assert.Equal(t, "mark", s.Answer())
	assert.False(t, s.IsRevealed(5))
}

func TestProcessGuess_ExhaustionWithoutAdvanceFails(t *testing.T) {
	p := testutil.FivePairPuzzle(1)
	p.MaxGuesses = 2
	s := game.Initialize(context.Background(), p, nil, nil)

	_, err := s.ProcessGuess(context.Background(), "a", wrong())
	require.NoError(t, err)
	out, err := s.ProcessGuess(context.Background(), "b", wrong())
	require.NoError(t, err)

	assert.Equal(t, game.OutcomeFailed, out.Kind)
	assert.True(t, s.Over())
}

func TestProcessGuess_ServerExtraRevealReplacesSet(t *testing.T) {
	saved := &models.GameProgress{DayIndex: 1, ExtraRevealed: []int{2}}
	s := game.Initialize(context.Background(), testutil.FivePairPuzzle(1), saved, nil)
	ctx := context.Background()

	_, err := s.ProcessGuess(ctx, "birth", models.GuessResponse{Status: models.StatusWrong, ExtraRevealed: []int{2, 3}})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, s.ExtraRevealed())
	assert.True(t, s.IsRevealed(3))
	assert.False(t, s.IsRevealed(4))

	// Absent extra_revealed keeps the local set.
	_, err = s.ProcessGuess(ctx, "other", wrong())
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, s.ExtraRevealed())
}

func TestProcessGuess_ReloadMidGameReproducesState(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(memory.New())
	puzzle := testutil.FivePairPuzzle(4)

	s := game.Initialize(ctx, puzzle, store.LoadProgress(ctx), store)
	for _, g := range []string{"one", "two"} {
		_, err := s.ProcessGuess(ctx, g, wrong())
		require.NoError(t, err)
	}

	reloaded := game.Initialize(ctx, puzzle, store.LoadProgress(ctx), store)
	assert.Equal(t, s.History(), reloaded.History())
	assert.Equal(t, 3, reloaded.RevealedCount())
	assert.Equal(t, game.Active, reloaded.State())
	assert.Equal(t, 4, reloaded.GuessesLeft())
}

func TestProcessGuess_SaveFailureDoesNotFailGuess(t *testing.T) {
	saver := &recordingSaver{err: stderrors.New("disk full")}
	s := game.Initialize(context.Background(), testutil.FivePairPuzzle(1), nil, saver)

	out, err := s.ProcessGuess(context.Background(), "tree", wrong())
	require.NoError(t, err)
	assert.Equal(t, game.OutcomeContinued, out.Kind)
	assert.Len(t, saver.saves, 1)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "active", game.Active.String())
	assert.Equal(t, "solved", game.Solved.String())
	assert.Equal(t, "failed", game.Failed.String())
}
