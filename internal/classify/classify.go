package classify

import (
	"math"

	"ocucheck/internal/staircase"
)

// Severity is the screening recommendation band for one eye's result.
type Severity string

const (
	SeverityNormal       Severity = "normal"
	SeverityFollowUp     Severity = "follow_up"
	SeveritySeeDoctor    Severity = "see_doctor"
	SeverityUndetermined Severity = "undetermined"
)

// Metric selects which measurement the bands apply to.
type Metric string

const (
	// MetricLevels bands on the count of levels passed (acuity tests).
	MetricLevels Metric = "levels"
	// MetricScore bands on the mapped numeric score (contrast tests).
	MetricScore Metric = "score"
)

// Rules are the per-test classification constants. They come from the test
// definition file; nothing here is derived.
type Rules struct {
	Metric       Metric
	NormalMin    float64 // inclusive lower bound for Normal
	FollowUpMin  float64 // inclusive lower bound for FollowUp; below is SeeDoctor
	AsymmetryGap float64 // minimum inter-eye gap that flags asymmetry
}

// EyeScore is the finalized per-eye measurement classification operates on,
// whether it comes straight from the engine or from a stored result row.
type EyeScore struct {
	LevelsPassed int
	Score        staircase.ScoreValue
}

// FromResult adapts an engine result for classification.
func FromResult(r *staircase.EyeResult) EyeScore {
	return EyeScore{LevelsPassed: r.LevelsPassed, Score: r.Score}
}

// Classify assigns a severity band to one eye's result. An undetermined score
// (no level ever passed) always maps to SeverityUndetermined.
func Classify(e EyeScore, rules Rules) Severity {
	if !e.Score.Determined {
		return SeverityUndetermined
	}
	v := metricValue(e, rules.Metric)
	switch {
	case v >= rules.NormalMin:
		return SeverityNormal
	case v >= rules.FollowUpMin:
		return SeverityFollowUp
	default:
		return SeveritySeeDoctor
	}
}

// gapTolerance absorbs float64 representation error when the inter-eye gap
// lands exactly on the threshold. Ladder steps like 1.20-0.90 come out a hair
// under 0.3 in float64 and must still count as meeting an inclusive bound.
const gapTolerance = 1e-9

// DetectAsymmetry reports whether the two eyes differ by at least the test's
// asymmetry gap. It is only meaningful when both eyes have a determined
// score; with either eye missing or undetermined it returns false, which
// means "cannot compare", not "measured and symmetric" — callers that need
// the distinction must check eye completeness themselves.
func DetectAsymmetry(left, right *EyeScore, rules Rules) bool {
	if left == nil || right == nil {
		return false
	}
	if !left.Score.Determined || !right.Score.Determined {
		return false
	}
	gap := math.Abs(metricValue(*left, rules.Metric) - metricValue(*right, rules.Metric))
	return gap >= rules.AsymmetryGap-gapTolerance
}

func metricValue(e EyeScore, m Metric) float64 {
	if m == MetricScore {
		return e.Score.Score.LogCS
	}
	return float64(e.LevelsPassed)
}
