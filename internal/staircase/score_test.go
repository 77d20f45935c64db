package staircase

import "testing"

func contrastTable(t *testing.T) *LevelTable {
	t.Helper()
	values := []float64{0.15, 0.30, 0.45, 0.60, 0.75, 0.90}
	levels := make([]Level, len(values))
	for i, v := range values {
		levels[i] = Level{Index: i, Score: Score{LogCS: v}}
	}
	table, err := NewLevelTable(levels)
	if err != nil {
		t.Fatalf("NewLevelTable: %v", err)
	}
	return table
}

func TestMapScore_ZeroIsUndetermined(t *testing.T) {
	got := MapScore(0, contrastTable(t))
	if got.Determined {
		t.Errorf("got determined score %+v, want undetermined", got)
	}
}

func TestMapScore_CountToIndexConversion(t *testing.T) {
	table := contrastTable(t)
	// levelsPassed is a 1-based count; the score is the LAST LEVEL PASSED.
	cases := []struct {
		levelsPassed int
		want         float64
	}{
		{1, 0.15},
		{2, 0.30},
		{6, 0.90},
	}
	for _, tc := range cases {
		got := MapScore(tc.levelsPassed, table)
		if !got.Determined {
			t.Errorf("levelsPassed %d: got undetermined, want determined", tc.levelsPassed)
			continue
		}
		if got.Score.LogCS != tc.want {
			t.Errorf("levelsPassed %d: got logCS %.2f, want %.2f", tc.levelsPassed, got.Score.LogCS, tc.want)
		}
	}
}

func TestMapScore_OutOfRangePanics(t *testing.T) {
	table := contrastTable(t)
	for _, levelsPassed := range []int{-1, 7} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("levelsPassed %d: expected panic", levelsPassed)
				}
			}()
			MapScore(levelsPassed, table)
		}()
	}
}
