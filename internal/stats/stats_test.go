package stats_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/linkpuzzle/internal/models"
	"github.com/vytor/linkpuzzle/internal/repository"
	"github.com/vytor/linkpuzzle/internal/repository/memory"
	"github.com/vytor/linkpuzzle/internal/stats"
)

func newEngine() (*stats.Engine, *repository.Store) {
	store := repository.NewStore(memory.New())
	return stats.NewEngine(store), store
}

func TestApply_Win(t *testing.T) {
	s := models.NewUserStatistics(7)
	s.CurrentStreak = 2
	s.MaxStreak = 2
	s.LastPlayedIndex = 4

	changed := stats.Apply(&s, 5, true, 3, 6)

	require.True(t, changed)
	assert.Equal(t, 1, s.GamesPlayed)
	assert.Equal(t, 1, s.GamesWon)
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 3, s.MaxStreak)
	assert.Equal(t, 5, s.LastPlayedIndex)
	assert.Equal(t, []int{0, 0, 1, 0, 0, 0, 0}, s.GuessDistribution)
}

func TestApply_Loss(t *testing.T) {
	s := models.NewUserStatistics(7)
	s.CurrentStreak = 4
	s.MaxStreak = 6

	stats.Apply(&s, 2, false, 6, 6)

	assert.Equal(t, 0, s.CurrentStreak)
	assert.Equal(t, 6, s.MaxStreak)
	assert.Equal(t, 0, s.GamesWon)
	assert.Equal(t, 1, s.GuessDistribution[6])
}

func TestApply_GuessesAreClamped(t *testing.T) {
	s := models.NewUserStatistics(7)
	stats.Apply(&s, 1, true, 0, 6)
	stats.Apply(&s, 2, true, 9, 6)

	assert.Equal(t, 1, s.GuessDistribution[0])
	assert.Equal(t, 1, s.GuessDistribution[5])
	assert.Equal(t, 0, s.GuessDistribution[6])
}

func TestApply_PadsShortDistribution(t *testing.T) {
	s := models.UserStatistics{GuessDistribution: []int{2}}
	stats.Apply(&s, 1, false, 6, 6)
	assert.Equal(t, []int{2, 0, 0, 0, 0, 0, 1}, s.GuessDistribution)
}

func TestApply_LossUsesFinalSlotOfLongerDistribution(t *testing.T) {
	// Stored with eight guesses allowed, now playing with six.
	s := models.NewUserStatistics(9)

	stats.Apply(&s, 1, false, 6, 6)
	stats.Apply(&s, 2, true, 6, 6)

	assert.Len(t, s.GuessDistribution, 9)
	assert.Equal(t, 1, s.GuessDistribution[8])
	assert.Equal(t, 0, s.GuessDistribution[6])
	assert.Equal(t, 1, s.GuessDistribution[5])
}

func TestRecordOutcome_Idempotent(t *testing.T) {
	ctx := context.Background()
	engine, store := newEngine()

	first, changed, err := engine.RecordOutcome(ctx, 8, true, 2, 6)
	require.NoError(t, err)
	assert.True(t, changed)

	second, changed, err := engine.RecordOutcome(ctx, 8, true, 2, 6)
	require.NoError(t, err)
	assert.False(t, changed)

	assert.Equal(t, first, second)
	assert.Equal(t, first, store.LoadStats(ctx, 7))
}

func TestRecordOutcome_Scenarios(t *testing.T) {
	ctx := context.Background()
	engine, _ := newEngine()

	s, _, err := engine.RecordOutcome(ctx, 1, true, 3, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, s.GuessDistribution[2])
	assert.Equal(t, 1, s.CurrentStreak)

	s, _, err = engine.RecordOutcome(ctx, 2, true, 1, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, 2, s.MaxStreak)

	s, _, err = engine.RecordOutcome(ctx, 3, false, 6, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, s.GuessDistribution[6])
	assert.Equal(t, 0, s.CurrentStreak)
	assert.Equal(t, 2, s.MaxStreak)
	assert.Equal(t, 3, s.GamesPlayed)
	assert.Equal(t, 2, s.GamesWon)
	assert.Equal(t, 66, s.WinRate())
}

func TestValidateStreak(t *testing.T) {
	tests := []struct {
		name       string
		lastPlayed int
		today      int
		wantStreak int
	}{
		{name: "played yesterday", lastPlayed: 12, today: 13, wantStreak: 4},
		{name: "played today", lastPlayed: 13, today: 13, wantStreak: 4},
		{name: "skipped two days", lastPlayed: 10, today: 13, wantStreak: 0},
		{name: "skipped one day", lastPlayed: 11, today: 13, wantStreak: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			engine, store := newEngine()
			require.NoError(t, store.SaveStats(ctx, models.UserStatistics{
				GamesPlayed:       4,
				GamesWon:          4,
				CurrentStreak:     4,
				MaxStreak:         4,
				LastPlayedIndex:   tt.lastPlayed,
				GuessDistribution: []int{1, 1, 1, 1, 0, 0, 0},
			}))

			s, err := engine.ValidateStreak(ctx, tt.today, 6)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStreak, s.CurrentStreak)
			assert.Equal(t, tt.lastPlayed, s.LastPlayedIndex)
			assert.Equal(t, 4, s.MaxStreak)
			assert.Equal(t, s, store.LoadStats(ctx, 7))
		})
	}
}

func TestValidateStreak_BeforeRecord(t *testing.T) {
	ctx := context.Background()
	engine, store := newEngine()
	require.NoError(t, store.SaveStats(ctx, models.UserStatistics{
		CurrentStreak: 5, MaxStreak: 5, LastPlayedIndex: 10, GamesPlayed: 5, GamesWon: 5,
	}))

	_, err := engine.ValidateStreak(ctx, 13, 6)
	require.NoError(t, err)
	s, _, err := engine.RecordOutcome(ctx, 13, true, 2, 6)
	require.NoError(t, err)

	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 5, s.MaxStreak)
	assert.Equal(t, 13, s.LastPlayedIndex)
}

func TestValidateStreak_NeverPlayed(t *testing.T) {
	engine, _ := newEngine()
	s, err := engine.ValidateStreak(context.Background(), 40, 6)
	require.NoError(t, err)
	assert.Equal(t, models.NewUserStatistics(7), s)
}
