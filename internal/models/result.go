package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// EyeResult holds the summary of one completed staircase test for one eye.
// The granular trials are stored both as rows (for queries) and as the raw
// jsonb payload (for audit/replay).
type EyeResult struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"index"`
	User   User `gorm:"foreignKey:UserID"`

	TestID string `gorm:"index"` // e.g. "acuity", "contrast"
	Eye    string // "left" or "right"

	Status          string // terminal session status
	LevelsPassed    int
	MaxLevel        int
	ScoreDetermined bool
	ScoreLabel      string  // Snellen fraction, acuity tests
	ScoreValue      float64 // log contrast sensitivity, contrast tests
	Severity        string

	// Correct answers per level visited, bottom level first.
	CorrectPerLevel pq.Int64Array   `gorm:"type:integer[]"`
	RawTrials       json.RawMessage `gorm:"type:jsonb"`

	CompletedAt time.Time
	CreatedAt   time.Time
}

// TrialRecord is a single stimulus/response pair within a result.
type TrialRecord struct {
	ID         uint `gorm:"primaryKey"`
	ResultID   uint `gorm:"index"`
	Ordinal    int
	LevelIndex int
	Expected   string
	Observed   string
	IsCorrect  bool
}

// ScreeningState tracks a user's progress through the battery of screens.
// CompletedTests holds definition-order indexes of the screens finished so
// far, in completion order.
type ScreeningState struct {
	ID             uint `gorm:"primaryKey"`
	UserID         uint `gorm:"index"`
	User           User `gorm:"foreignKey:UserID"`
	IsComplete     bool
	CompletedTests pq.Int64Array `gorm:"type:integer[]"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
