package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocucheck/internal/classify"
)

const validScreeningYAML = `
tests:
  - id: "acuity"
    title: "Visual Acuity"
    kind: "acuity"
    alphabet: ["up", "down", "left", "right"]
    trials_per_level: 3
    min_correct_to_pass: 2
    levels:
      - { render_param: 50.0, snellen: "20/200" }
      - { render_param: 25.0, snellen: "20/100" }
      - { render_param: 5.0, snellen: "20/20" }
    classification:
      normal_min: 3
      follow_up_min: 2
      asymmetry_gap: 2
  - id: "contrast"
    title: "Contrast Sensitivity"
    kind: "contrast"
    alphabet: ["C", "D", "H"]
    trials_per_level: 3
    min_correct_to_pass: 2
    levels:
      - { render_param: 0.71, log_cs: 0.15 }
      - { render_param: 0.25, log_cs: 0.60 }
      - { render_param: 0.13, log_cs: 0.90 }
    classification:
      normal_min: 0.9
      follow_up_min: 0.6
      asymmetry_gap: 0.3
`

func writeScreeningFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tests.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScreening_Valid(t *testing.T) {
	screening, err := LoadScreening(writeScreeningFile(t, validScreeningYAML))
	require.NoError(t, err)
	require.Len(t, screening.Tests, 2)

	acuity, index, found := screening.TestByID("acuity")
	require.True(t, found)
	assert.Equal(t, 0, index)
	assert.Equal(t, TestKindAcuity, acuity.Kind)
	assert.Equal(t, []string{"up", "down", "left", "right"}, acuity.Alphabet)
	assert.Equal(t, 3, acuity.TrialsPerLevel)
	assert.Equal(t, 2, acuity.MinCorrectToPass)

	_, _, found = screening.TestByID("peripheral")
	assert.False(t, found)
}

func TestLoadScreening_MissingFile(t *testing.T) {
	_, err := LoadScreening(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadScreening_InvalidDefinitions(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"no tests", `tests: []`},
		{"unknown kind", `
tests:
  - id: "x"
    kind: "peripheral"
    alphabet: ["a"]
    trials_per_level: 3
    min_correct_to_pass: 2
    levels: [{ snellen: "20/20" }]
`},
		{"empty alphabet", `
tests:
  - id: "x"
    kind: "acuity"
    alphabet: []
    trials_per_level: 3
    min_correct_to_pass: 2
    levels: [{ snellen: "20/20" }]
`},
		{"no levels", `
tests:
  - id: "x"
    kind: "acuity"
    alphabet: ["a"]
    trials_per_level: 3
    min_correct_to_pass: 2
    levels: []
`},
		{"min correct above trials", `
tests:
  - id: "x"
    kind: "acuity"
    alphabet: ["a"]
    trials_per_level: 3
    min_correct_to_pass: 4
    levels: [{ snellen: "20/20" }]
`},
		{"acuity level missing snellen", `
tests:
  - id: "x"
    kind: "acuity"
    alphabet: ["a"]
    trials_per_level: 3
    min_correct_to_pass: 2
    levels: [{ render_param: 1.0 }]
`},
		{"contrast scores not increasing", `
tests:
  - id: "x"
    kind: "contrast"
    alphabet: ["a"]
    trials_per_level: 3
    min_correct_to_pass: 2
    levels:
      - { log_cs: 0.60 }
      - { log_cs: 0.45 }
`},
		{"duplicate ids", `
tests:
  - id: "x"
    kind: "acuity"
    alphabet: ["a"]
    trials_per_level: 3
    min_correct_to_pass: 2
    levels: [{ snellen: "20/20" }]
  - id: "x"
    kind: "acuity"
    alphabet: ["a"]
    trials_per_level: 3
    min_correct_to_pass: 2
    levels: [{ snellen: "20/20" }]
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadScreening(writeScreeningFile(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestTestDefinition_LevelTable(t *testing.T) {
	screening, err := LoadScreening(writeScreeningFile(t, validScreeningYAML))
	require.NoError(t, err)

	acuity, _, _ := screening.TestByID("acuity")
	table, err := acuity.LevelTable()
	require.NoError(t, err)
	assert.Equal(t, 3, table.Count())
	assert.Equal(t, "20/200", table.LevelAt(0).Score.Snellen)
	assert.Equal(t, "20/20", table.LevelAt(2).Score.Snellen)
	assert.Equal(t, 50.0, table.LevelAt(0).RenderParam)

	contrast, _, _ := screening.TestByID("contrast")
	table, err = contrast.LevelTable()
	require.NoError(t, err)
	assert.Equal(t, 0.90, table.LevelAt(2).Score.LogCS)
}

func TestTestDefinition_Rules(t *testing.T) {
	screening, err := LoadScreening(writeScreeningFile(t, validScreeningYAML))
	require.NoError(t, err)

	acuity, _, _ := screening.TestByID("acuity")
	rules := acuity.Rules()
	assert.Equal(t, classify.MetricLevels, rules.Metric)
	assert.Equal(t, 3.0, rules.NormalMin)
	assert.Equal(t, 2.0, rules.AsymmetryGap)

	contrast, _, _ := screening.TestByID("contrast")
	rules = contrast.Rules()
	assert.Equal(t, classify.MetricScore, rules.Metric)
	assert.Equal(t, 0.9, rules.NormalMin)
	assert.Equal(t, 0.6, rules.FollowUpMin)
	assert.Equal(t, 0.3, rules.AsymmetryGap)
}

func TestTestDefinition_EngineConfig(t *testing.T) {
	screening, err := LoadScreening(writeScreeningFile(t, validScreeningYAML))
	require.NoError(t, err)

	acuity, _, _ := screening.TestByID("acuity")
	cfg := acuity.EngineConfig()
	assert.Equal(t, 3, cfg.TrialsPerLevel)
	assert.Equal(t, 2, cfg.MinCorrectToPass)
}
