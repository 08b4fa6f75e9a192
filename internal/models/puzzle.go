package models

// Pair is one hidden word pair. On the wire it is a two element array.
type Pair [2]string

// Puzzle is the server-sourced board for one day. Pair order is the reveal
// order.
type Puzzle struct {
	DayIndex   int
	Pairs      []Pair
	MaxGuesses int
	Hints      []string
}

// GuessRecord is one entry of a game's history.
type GuessRecord struct {
	Guess  string      `json:"guess"`
	Status GuessStatus `json:"status"`
	Answer string      `json:"answer,omitempty"`
}

// GameProgress is the day-scoped progress blob.
type GameProgress struct {
	DayIndex      int           `json:"day_index"`
	History       []GuessRecord `json:"history"`
	Solved        bool          `json:"solved"`
	ExtraRevealed []int         `json:"extra_revealed"`
}
