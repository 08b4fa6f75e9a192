package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/linkpuzzle/internal/db"
	"github.com/vytor/linkpuzzle/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	// A second connection would see a different in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB))
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// FivePairPuzzle is a six-guess board used across package tests.
func FivePairPuzzle(day int) models.Puzzle {
	return models.Puzzle{
		DayIndex: day,
		Pairs: []models.Pair{
			{"fire", "place"},
			{"book", "mark"},
			{"land", "mark"},
			{"birth", "mark"},
			{"trade", "mark"},
		},
		MaxGuesses: 6,
	}
}
