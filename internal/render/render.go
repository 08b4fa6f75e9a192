// Package render draws the board, guess history and statistics for a
// terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vytor/linkpuzzle/internal/game"
	"github.com/vytor/linkpuzzle/internal/models"
)

var (
	styleCorrect  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true) // Green
	styleWrong    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)  // Red
	styleClose    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true) // Yellow
	styleSubtle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleHeader   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleRevealed = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	styleBar      = lipgloss.NewStyle().Background(lipgloss.Color("10")).Foreground(lipgloss.Color("0"))
	styleBarDim   = lipgloss.NewStyle().Background(lipgloss.Color("8")).Foreground(lipgloss.Color("0"))
)

const link = "🔗"

// Header is the title line for a day.
func Header(day int) string {
	return styleHeader.Render(fmt.Sprintf("The Daily Link Puzzle #%d", day))
}

// Board lists every pair, masking the ones not yet revealed.
func Board(s *game.Session) string {
	p := s.Puzzle()
	var b strings.Builder
	for i, pair := range p.Pairs {
		line := fmt.Sprintf("%d. ? %s ?", i+1, link)
		style := styleSubtle
		if s.IsRevealed(i) {
			line = fmt.Sprintf("%d. %s %s %s", i+1, pair[0], link, pair[1])
			style = styleRevealed
			if s.State() == game.Solved {
				style = styleCorrect
			}
		}
		b.WriteString("  ")
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func statusStyle(st models.GuessStatus) lipgloss.Style {
	switch st {
	case models.StatusCorrect:
		return styleCorrect
	case models.StatusClose:
		return styleClose
	default:
		return styleWrong
	}
}

// Guess describes a single counted guess.
func Guess(rec models.GuessRecord) string {
	switch rec.Status {
	case models.StatusCorrect:
		return styleCorrect.Render(fmt.Sprintf("✔ %s is the link!", rec.Guess))
	case models.StatusClose:
		return styleClose.Render(fmt.Sprintf("~ %s is close", rec.Guess))
	case models.StatusFail:
		return styleWrong.Render(fmt.Sprintf("✘ %s, out of guesses", rec.Guess))
	default:
		return styleWrong.Render(fmt.Sprintf("✘ %s", rec.Guess))
	}
}

// History lists the counted guesses in order.
func History(records []models.GuessRecord) string {
	if len(records) == 0 {
		return ""
	}
	var b strings.Builder
	for i, rec := range records {
		num := styleSubtle.Render(fmt.Sprintf("%d.", i+1))
		fmt.Fprintf(&b, "  %s %s\n", num, statusStyle(rec.Status).Render(rec.Guess))
	}
	return b.String()
}

// Status is the line under the board: guesses left, or how the game ended.
func Status(s *game.Session) string {
	switch s.State() {
	case game.Solved:
		return styleCorrect.Render(fmt.Sprintf("Solved in %d/%d! The link was %q.", s.GuessesUsed(), s.Puzzle().MaxGuesses, s.Answer()))
	case game.Failed:
		msg := "Out of guesses."
		if a := s.Answer(); a != "" {
			msg = fmt.Sprintf("Out of guesses. The link was %q.", a)
		}
		return styleWrong.Render(msg)
	default:
		return styleSubtle.Render(fmt.Sprintf("%d guesses left. Type ? for a hint.", s.GuessesLeft()))
	}
}

// Invalid tells the player a word was not counted.
func Invalid(word string) string {
	return styleClose.Render(fmt.Sprintf("%q is not a valid word; it was not counted.", word))
}

// Hints lists the hint words, or a notice when there are none.
func Hints(hints []string) string {
	if len(hints) == 0 {
		return styleSubtle.Render("No hint available.")
	}
	return styleClose.Render("Hint: " + strings.Join(hints, ", "))
}

// Stats renders the totals and the guess distribution as a bar chart. Slot
// k holds wins in k+1 guesses; the last slot holds losses. highlight is the
// guess count of today's win, or 0.
func Stats(st models.UserStatistics, highlight int) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("Statistics"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Played %d   Win %% %d   Streak %d   Max streak %d\n",
		st.GamesPlayed, st.WinRate(), st.CurrentStreak, st.MaxStreak)

	dist := st.GuessDistribution
	if len(dist) < 2 {
		return b.String()
	}

	most := 0
	for _, n := range dist {
		most = max(most, n)
	}
	const width = 20
	b.WriteString(styleSubtle.Render("  Guess distribution"))
	b.WriteString("\n")
	for k, n := range dist {
		name := fmt.Sprintf("%d", k+1)
		if k == len(dist)-1 {
			name = "X"
		}
		w := 1
		if most > 0 {
			w = max(1, n*width/most)
		}
		bar := styleBarDim
		if k == highlight-1 {
			bar = styleBar
		}
		label := fmt.Sprintf("%d", n)
		fmt.Fprintf(&b, "  %s %s\n", name, bar.Render(label+strings.Repeat(" ", max(w-len(label), 0))))
	}
	return b.String()
}
