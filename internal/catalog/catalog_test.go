package catalog_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/linkpuzzle/internal/catalog"
	"github.com/vytor/linkpuzzle/internal/judge"
	"github.com/vytor/linkpuzzle/internal/models"
)

var start = time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)

func TestLoad_Embedded(t *testing.T) {
	c, err := catalog.Load("", start)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())
	assert.Equal(t, "mark", c.For(1).Answer)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "puzzles.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"pairs":[["a","b"]],"answer":"c"}]`), 0o644))

	c, err := catalog.Load(path, start)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = catalog.Load(filepath.Join(t.TempDir(), "missing.json"), start)
	assert.Error(t, err)
}

func TestNew_Validation(t *testing.T) {
	_, err := catalog.New(nil, start)
	assert.Error(t, err)
	_, err = catalog.New([]judge.Entry{{Pairs: []models.Pair{{"a", "b"}}}}, start)
	assert.ErrorContains(t, err, "no answer")
	_, err = catalog.New([]judge.Entry{{Answer: "x"}}, start)
	assert.ErrorContains(t, err, "no pairs")
}

func TestDayIndexAndRotation(t *testing.T) {
	c, err := catalog.Load("", start)
	require.NoError(t, err)

	assert.Equal(t, 1, c.DayIndex(start.Add(10*time.Hour)))
	assert.Equal(t, 1, c.DayIndex(start.AddDate(0, 0, -3)))
	assert.Equal(t, 2, c.DayIndex(start.AddDate(0, 0, 1)))
	assert.Equal(t, 13, c.DayIndex(start.AddDate(0, 0, 12).Add(23*time.Hour)))

	assert.Equal(t, c.For(1), c.For(6))
	assert.Equal(t, "light", c.For(2).Answer)
}
