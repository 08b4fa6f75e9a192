package judge

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/vytor/linkpuzzle/internal/models"
)

// Tally is one player's server-side progress for a day.
type Tally struct {
	DayIndex      int                  `json:"day_index"`
	GuessCount    int                  `json:"guess_count"`
	History       []models.GuessRecord `json:"history"`
	Solved        bool                 `json:"solved"`
	ExtraRevealed []int                `json:"extra_revealed"`
}

// Over reports whether the tally accepts no more guesses.
func (t *Tally) Over(maxGuesses int) bool {
	return t.Solved || t.GuessCount >= maxGuesses
}

// ResetFor clears the tally when it belongs to another day.
func (t *Tally) ResetFor(day int) bool {
	if t.DayIndex == day {
		return false
	}
	*t = Tally{DayIndex: day, History: []models.GuessRecord{}, ExtraRevealed: []int{}}
	return true
}

// Play judges guess and folds it into t. Invalid guesses leave t unchanged.
// Callers check Over first.
func Play(e Entry, t *Tally, guess string, maxGuesses int) models.GuessResponse {
	v := Judge(e, guess)
	if !v.Status.Counts() {
		return models.GuessResponse{Status: models.StatusInvalid, ExtraRevealed: t.extra()}
	}

	resp := models.GuessResponse{Status: v.Status}
	if v.Status == models.StatusCorrect {
		t.Solved = true
		resp.Advance = true
		resp.Answer = e.Answer
	}

	t.ExtraRevealed = lo.Union(t.ExtraRevealed, v.Matches)
	sort.Ints(t.ExtraRevealed)

	t.GuessCount++
	if !t.Solved && t.GuessCount >= maxGuesses {
		resp.Status = models.StatusFail
		resp.Advance = true
		resp.Answer = e.Answer
	}

	t.History = append(t.History, models.GuessRecord{
		Guess:  strings.ToLower(strings.TrimSpace(guess)),
		Status: resp.Status,
		Answer: resp.Answer,
	})
	resp.ExtraRevealed = t.extra()
	return resp
}

func (t *Tally) extra() []int {
	return append([]int{}, t.ExtraRevealed...)
}
