package puzzleclient

import (
	"context"

	"github.com/vytor/linkpuzzle/internal/models"
)

// ClientInterface is the puzzle service contract the game controller needs.
type ClientInterface interface {
	FetchPuzzle(ctx context.Context) (*models.PuzzleResponse, error)
	SubmitGuess(ctx context.Context, guess string) (*models.GuessResponse, error)
	SessionID() string
	ResetSession()
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
