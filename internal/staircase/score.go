package staircase

import "fmt"

// ScoreValue is the mapped clinical score of a completed eye test.
// Determined is false when the user never passed a single level; the Score
// field is only meaningful when Determined is true.
type ScoreValue struct {
	Determined bool  `json:"determined"`
	Score      Score `json:"score,omitempty"`
}

// MapScore converts a levels-passed count into the reported score.
// A count of 0 maps to the undetermined sentinel. Otherwise the score is that
// of the LAST LEVEL PASSED: levelsPassed is a 1-based count while the table is
// 0-indexed, hence the -1. A count outside 0..Count() is a programming error.
func MapScore(levelsPassed int, table *LevelTable) ScoreValue {
	if levelsPassed < 0 || levelsPassed > table.Count() {
		panic(fmt.Sprintf("staircase: levelsPassed %d out of range 0..%d", levelsPassed, table.Count()))
	}
	if levelsPassed == 0 {
		return ScoreValue{}
	}
	return ScoreValue{Determined: true, Score: table.LevelAt(levelsPassed - 1).Score}
}
