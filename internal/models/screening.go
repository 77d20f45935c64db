package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ocucheck/internal/classify"
	"ocucheck/internal/staircase"
)

// TestKind selects which score field a level carries and which classification
// metric applies.
type TestKind string

const (
	TestKindAcuity   TestKind = "acuity"
	TestKindContrast TestKind = "contrast"
)

// LevelDefinition is one difficulty step as declared in the YAML file.
// Snellen is set for acuity tests, LogCS for contrast tests.
type LevelDefinition struct {
	RenderParam float64 `yaml:"render_param"`
	Snellen     string  `yaml:"snellen,omitempty"`
	LogCS       float64 `yaml:"log_cs,omitempty"`
}

// ClassificationDefinition holds the per-test severity and asymmetry
// constants. For acuity tests the bounds apply to levels passed; for
// contrast tests, to the mapped log contrast sensitivity.
type ClassificationDefinition struct {
	NormalMin    float64 `yaml:"normal_min"`
	FollowUpMin  float64 `yaml:"follow_up_min"`
	AsymmetryGap float64 `yaml:"asymmetry_gap"`
}

// TestDefinition declares one screening test: its stimulus alphabet, level
// table, staircase constants, and classification thresholds.
type TestDefinition struct {
	ID               string                   `yaml:"id"`
	Title            string                   `yaml:"title"`
	Kind             TestKind                 `yaml:"kind"`
	Alphabet         []string                 `yaml:"alphabet"`
	TrialsPerLevel   int                      `yaml:"trials_per_level"`
	MinCorrectToPass int                      `yaml:"min_correct_to_pass"`
	Levels           []LevelDefinition        `yaml:"levels"`
	Classification   ClassificationDefinition `yaml:"classification"`
}

// Screening holds all test definitions, in battery order.
type Screening struct {
	Tests []TestDefinition `yaml:"tests"`
}

// LoadScreening reads and validates the tests.yaml definition file. A
// malformed definition is a startup configuration error, never silently
// corrected.
func LoadScreening(path string) (*Screening, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read screening definition file: %w", err)
	}

	var screening Screening
	if err := yaml.Unmarshal(data, &screening); err != nil {
		return nil, fmt.Errorf("failed to unmarshal screening YAML: %w", err)
	}

	if len(screening.Tests) == 0 {
		return nil, fmt.Errorf("screening definition declares no tests")
	}
	seen := make(map[string]bool)
	for i := range screening.Tests {
		if err := screening.Tests[i].validate(); err != nil {
			return nil, err
		}
		if seen[screening.Tests[i].ID] {
			return nil, fmt.Errorf("duplicate test id %q", screening.Tests[i].ID)
		}
		seen[screening.Tests[i].ID] = true
	}
	return &screening, nil
}

func (d *TestDefinition) validate() error {
	if d.ID == "" {
		return fmt.Errorf("test definition missing id")
	}
	if d.Kind != TestKindAcuity && d.Kind != TestKindContrast {
		return fmt.Errorf("test %q: unknown kind %q", d.ID, d.Kind)
	}
	if len(d.Alphabet) == 0 {
		return fmt.Errorf("test %q: empty stimulus alphabet", d.ID)
	}
	if len(d.Levels) == 0 {
		return fmt.Errorf("test %q: no levels", d.ID)
	}
	if d.TrialsPerLevel < 1 {
		return fmt.Errorf("test %q: trials_per_level must be at least 1", d.ID)
	}
	if d.MinCorrectToPass < 1 || d.MinCorrectToPass > d.TrialsPerLevel {
		return fmt.Errorf("test %q: min_correct_to_pass %d must be in 1..%d",
			d.ID, d.MinCorrectToPass, d.TrialsPerLevel)
	}
	for i, lvl := range d.Levels {
		switch d.Kind {
		case TestKindAcuity:
			if lvl.Snellen == "" {
				return fmt.Errorf("test %q: level %d missing snellen score", d.ID, i)
			}
		case TestKindContrast:
			// Scores must improve with difficulty; easiest level first.
			if i > 0 && lvl.LogCS <= d.Levels[i-1].LogCS {
				return fmt.Errorf("test %q: level %d log_cs %.2f not above previous level's %.2f",
					d.ID, i, lvl.LogCS, d.Levels[i-1].LogCS)
			}
		}
	}
	return nil
}

// TestByID returns the definition with the given id, along with its position
// in battery order.
func (s *Screening) TestByID(id string) (*TestDefinition, int, bool) {
	for i := range s.Tests {
		if s.Tests[i].ID == id {
			return &s.Tests[i], i, true
		}
	}
	return nil, 0, false
}

// LevelTable converts the definition's levels into an engine level table.
func (d *TestDefinition) LevelTable() (*staircase.LevelTable, error) {
	levels := make([]staircase.Level, len(d.Levels))
	for i, ld := range d.Levels {
		levels[i] = staircase.Level{
			Index:       i,
			RenderParam: ld.RenderParam,
			Score:       staircase.Score{Snellen: ld.Snellen, LogCS: ld.LogCS},
		}
	}
	return staircase.NewLevelTable(levels)
}

// EngineConfig returns the staircase constants for this test.
func (d *TestDefinition) EngineConfig() staircase.Config {
	return staircase.Config{
		TrialsPerLevel:   d.TrialsPerLevel,
		MinCorrectToPass: d.MinCorrectToPass,
	}
}

// Rules returns the classification rules for this test.
func (d *TestDefinition) Rules() classify.Rules {
	metric := classify.MetricLevels
	if d.Kind == TestKindContrast {
		metric = classify.MetricScore
	}
	return classify.Rules{
		Metric:       metric,
		NormalMin:    d.Classification.NormalMin,
		FollowUpMin:  d.Classification.FollowUpMin,
		AsymmetryGap: d.Classification.AsymmetryGap,
	}
}
