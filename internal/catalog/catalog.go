// Package catalog holds the rotating set of daily puzzles served by the
// reference server.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/vytor/linkpuzzle/internal/judge"
)

//go:embed puzzles.json
var defaultPuzzles []byte

// Catalog maps calendar days onto puzzles. Day 1 is the start date.
type Catalog struct {
	entries []judge.Entry
	start   time.Time
}

// Load reads puzzles from path, or the built-in set when path is empty.
func Load(path string, start time.Time) (*Catalog, error) {
	raw := defaultPuzzles
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read puzzles: %w", err)
		}
		raw = b
	}

	var entries []judge.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse puzzles: %w", err)
	}
	return New(entries, start)
}

// New validates entries and builds a catalog.
func New(entries []judge.Entry, start time.Time) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog has no puzzles")
	}
	for i, e := range entries {
		if e.Answer == "" {
			return nil, fmt.Errorf("puzzle %d has no answer", i)
		}
		if len(e.Pairs) == 0 {
			return nil, fmt.Errorf("puzzle %d has no pairs", i)
		}
	}
	y, m, d := start.Date()
	return &Catalog{entries: entries, start: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}, nil
}

// Len is the number of puzzles in rotation.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// DayIndex is the 1-based day number of now. Days before the start date
// count as day 1.
func (c *Catalog) DayIndex(now time.Time) int {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	days := int(today.Sub(c.start).Hours() / 24)
	return max(days, 0) + 1
}

// For returns the puzzle served on day.
func (c *Catalog) For(day int) judge.Entry {
	return c.entries[(max(day, 1)-1)%len(c.entries)]
}
