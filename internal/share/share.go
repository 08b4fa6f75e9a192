// Package share formats a finished board for posting elsewhere.
package share

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/vytor/linkpuzzle/internal/models"
)

// DefaultURL is the public play link.
const DefaultURL = "https://www.dailylinkpuzzle.com"

// Result is what gets shared about one day's game.
type Result struct {
	DayIndex   int
	History    []models.GuessRecord
	Solved     bool
	MaxGuesses int
}

func square(s models.GuessStatus) string {
	switch s {
	case models.StatusCorrect:
		return "🟩"
	case models.StatusClose:
		return "🟨"
	default:
		return "⬜"
	}
}

// Text renders r the same way every time: a header, one square per guess and
// the play link.
func Text(r Result, playURL string) string {
	if playURL == "" {
		playURL = DefaultURL
	}
	score := "X"
	if r.Solved {
		score = fmt.Sprintf("%d", len(r.History))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "The Daily Link Puzzle #%d %s/%d\n\n", r.DayIndex, score, r.MaxGuesses)
	for _, g := range r.History {
		sb.WriteString(square(g.Status))
		sb.WriteString("\n")
	}
	sb.WriteString("\nPlay here: ")
	sb.WriteString(playURL)
	return sb.String()
}

// WriteQR writes a PNG QR code for content to path.
func WriteQR(content, path string, size int) error {
	if size <= 0 {
		size = 256
	}
	if err := qrcode.WriteFile(content, qrcode.Medium, size, path); err != nil {
		return fmt.Errorf("write qr code: %w", err)
	}
	return nil
}

// TerminalQR renders content as a QR code made of block characters.
func TerminalQR(content string) (string, error) {
	q, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "", fmt.Errorf("build qr code: %w", err)
	}
	return q.ToSmallString(false), nil
}
