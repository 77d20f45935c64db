package staircase

import "fmt"

// Score is the clinical value a level maps to: a Snellen fraction label for
// acuity tests, or a log contrast sensitivity for contrast tests. Exactly one
// of the two fields is meaningful per test type; the engine never interprets
// either.
type Score struct {
	Snellen string  `json:"snellen,omitempty"`
	LogCS   float64 `json:"logCS,omitempty"`
}

// Level is one difficulty step of a staircase test, easiest at index 0.
// RenderParam is opaque to the engine; the UI reads it as an optotype size,
// a stimulus opacity, or whatever the test's renderer needs.
type Level struct {
	Index       int     `json:"index"`
	RenderParam float64 `json:"renderParam"`
	Score       Score   `json:"score"`
}

// LevelTable is the ordered, immutable set of levels for one test type.
type LevelTable struct {
	levels []Level
}

// NewLevelTable validates and copies the given levels. Indices must be
// contiguous and 0-based; an empty or misnumbered table is a configuration
// error, never a runtime one.
func NewLevelTable(levels []Level) (*LevelTable, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: level table is empty", ErrBadConfig)
	}
	for i, lvl := range levels {
		if lvl.Index != i {
			return nil, fmt.Errorf("%w: level at position %d has index %d, want contiguous 0-based indices", ErrBadConfig, i, lvl.Index)
		}
	}
	out := make([]Level, len(levels))
	copy(out, levels)
	return &LevelTable{levels: out}, nil
}

// Count returns the number of levels in the table.
func (t *LevelTable) Count() int { return len(t.levels) }

// LevelAt returns the level at the given 0-based index.
func (t *LevelTable) LevelAt(i int) Level { return t.levels[i] }
