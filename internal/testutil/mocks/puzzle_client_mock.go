package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/linkpuzzle/internal/models"
)

// MockPuzzleClient is a mock implementation of puzzleclient.ClientInterface
type MockPuzzleClient struct {
	mock.Mock
}

func (m *MockPuzzleClient) FetchPuzzle(ctx context.Context) (*models.PuzzleResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PuzzleResponse), args.Error(1)
}

func (m *MockPuzzleClient) SubmitGuess(ctx context.Context, guess string) (*models.GuessResponse, error) {
	args := m.Called(ctx, guess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuessResponse), args.Error(1)
}

func (m *MockPuzzleClient) ResetSession() {
	m.Called()
}

func (m *MockPuzzleClient) SessionID() string {
	args := m.Called()
	return args.String(0)
}
