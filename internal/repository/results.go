package repository

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"ocucheck/internal/database"
	"ocucheck/internal/models"
	"ocucheck/internal/staircase"
)

// BuildEyeResult converts a finalized engine result into a summary row.
// Severity is classified by the caller, which knows the test's rules.
func BuildEyeResult(userID uint, testID string, r *staircase.EyeResult, severity string) (*models.EyeResult, error) {
	raw, err := json.Marshal(r.Trials)
	if err != nil {
		return nil, err
	}

	correctPerLevel := make([]int64, 0)
	for _, trial := range r.Trials {
		for trial.LevelIndex >= len(correctPerLevel) {
			correctPerLevel = append(correctPerLevel, 0)
		}
		if trial.Correct {
			correctPerLevel[trial.LevelIndex]++
		}
	}

	return &models.EyeResult{
		UserID:          userID,
		TestID:          testID,
		Eye:             string(r.Eye),
		Status:          string(r.Status),
		LevelsPassed:    r.LevelsPassed,
		MaxLevel:        r.MaxLevel,
		ScoreDetermined: r.Score.Determined,
		ScoreLabel:      r.Score.Score.Snellen,
		ScoreValue:      r.Score.Score.LogCS,
		Severity:        severity,
		CorrectPerLevel: correctPerLevel,
		RawTrials:       raw,
		CompletedAt:     r.CompletedAt,
	}, nil
}

// SaveEyeResultTx saves the summary row and all granular trial rows in a
// single transaction.
func SaveEyeResultTx(ctx context.Context, summary *models.EyeResult, trials []staircase.Trial) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(summary).Error; err != nil {
			return err
		}
		for i, trial := range trials {
			record := models.TrialRecord{
				ResultID:   summary.ID,
				Ordinal:    i,
				LevelIndex: trial.LevelIndex,
				Expected:   trial.Expected,
				Observed:   trial.Observed,
				IsCorrect:  trial.Correct,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetLatestEyeResult returns the newest result for a user+test+eye, or
// gorm.ErrRecordNotFound.
func GetLatestEyeResult(ctx context.Context, userID uint, testID, eye string) (*models.EyeResult, error) {
	var result models.EyeResult
	err := database.DB.WithContext(ctx).
		Where("user_id = ? AND test_id = ? AND eye = ?", userID, testID, eye).
		Order("completed_at DESC").
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTrialsForResult returns the granular trials of a result, in order.
func GetTrialsForResult(ctx context.Context, resultID uint) ([]models.TrialRecord, error) {
	var trials []models.TrialRecord
	err := database.DB.WithContext(ctx).
		Where("result_id = ?", resultID).
		Order("ordinal ASC").
		Find(&trials).Error
	return trials, err
}
