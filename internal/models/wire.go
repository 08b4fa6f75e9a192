package models

// PuzzleResponse is the body of GET /puzzle.
type PuzzleResponse struct {
	DayIndex       int           `json:"day_index"`
	Pairs          []Pair        `json:"pairs"`
	MaxGuesses     int           `json:"max_guesses"`
	History        []GuessRecord `json:"history,omitempty"`
	Solved         bool          `json:"solved,omitempty"`
	CurrentGuesses *int          `json:"current_guesses,omitempty"`
	Synonym        string        `json:"synonym,omitempty"`
	Synonyms       []string      `json:"synonyms,omitempty"`
	ExtraRevealed  []int         `json:"extra_revealed,omitempty"`
}

// Puzzle extracts the immutable board from the response.
func (r PuzzleResponse) Puzzle() Puzzle {
	hints := r.Synonyms
	if len(hints) == 0 && r.Synonym != "" {
		hints = []string{r.Synonym}
	}
	return Puzzle{
		DayIndex:   r.DayIndex,
		Pairs:      r.Pairs,
		MaxGuesses: r.MaxGuesses,
		Hints:      hints,
	}
}

// ServerProgress returns the session progress the server reported, or nil
// when it sent no history.
func (r PuzzleResponse) ServerProgress() *GameProgress {
	if r.History == nil && !r.Solved {
		return nil
	}
	return &GameProgress{
		DayIndex:      r.DayIndex,
		History:       r.History,
		Solved:        r.Solved,
		ExtraRevealed: r.ExtraRevealed,
	}
}

// GuessRequest is the body of POST /guess.
type GuessRequest struct {
	Guess string `json:"guess"`
}

// GuessResponse is the server's judgment of a guess. A nil ExtraRevealed
// means the server sent none.
type GuessResponse struct {
	Status        GuessStatus `json:"status"`
	Answer        string      `json:"answer,omitempty"`
	Advance       bool        `json:"advance"`
	ExtraRevealed []int       `json:"extra_revealed,omitempty"`
}
