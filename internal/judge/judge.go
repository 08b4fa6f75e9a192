// Package judge decides the status of a guess against a catalog puzzle.
package judge

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
	"github.com/vytor/linkpuzzle/internal/models"
)

// MaxGuessLength bounds accepted guesses.
const MaxGuessLength = 40

// Entry is one catalog puzzle, including the fields the client never sees.
type Entry struct {
	Pairs    []models.Pair `json:"pairs"`
	Answer   string        `json:"answer"`
	Synonyms []string      `json:"synonyms,omitempty"`
}

// Normalize lowercases word and strips one common English suffix so that
// inflected forms compare equal to their stem.
func Normalize(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	switch {
	case strings.HasSuffix(w, "ing"):
		base := w[:len(w)-3]
		if n := len(base); n >= 2 && base[n-1] == base[n-2] {
			base = base[:n-1]
		}
		return base
	case strings.HasSuffix(w, "e"):
		return w[:len(w)-1]
	case strings.HasSuffix(w, "ed"):
		base := w[:len(w)-2]
		if strings.HasSuffix(base, "i") {
			base = base[:len(base)-1] + "y"
		}
		return base
	case strings.HasSuffix(w, "es"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "s"):
		return w[:len(w)-1]
	}
	return w
}

// Valid reports whether guess looks like a word or short phrase.
func Valid(guess string) bool {
	g := strings.TrimSpace(guess)
	if g == "" || len(g) > MaxGuessLength {
		return false
	}
	hasLetter := false
	for _, r := range g {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case r == ' ' || r == '-' || r == '\'':
		default:
			return false
		}
	}
	return hasLetter
}

// Verdict is the judgment of one guess before the guess limit is applied.
type Verdict struct {
	Status models.GuessStatus
	// Matches lists pair indices whose words match the guess.
	Matches []int
}

// Judge compares guess with e. It does not know about guess limits.
func Judge(e Entry, guess string) Verdict {
	if !Valid(guess) {
		return Verdict{Status: models.StatusInvalid}
	}

	g := strings.ToLower(strings.TrimSpace(guess))
	answer := strings.ToLower(e.Answer)
	norm := Normalize(g)

	v := Verdict{Status: models.StatusWrong}
	switch {
	case g == answer:
		v.Status = models.StatusCorrect
	case lo.ContainsBy(e.Synonyms, func(s string) bool { return strings.ToLower(s) == g }):
		v.Status = models.StatusClose
	case norm == Normalize(answer):
		v.Status = models.StatusClose
	}

	for i, p := range e.Pairs {
		if norm == Normalize(p[0]) || norm == Normalize(p[1]) {
			v.Matches = append(v.Matches, i)
		}
	}
	return v
}
