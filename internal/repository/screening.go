package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ocucheck/internal/database"
	"ocucheck/internal/models"
)

// GetOrCreateScreeningState returns the user's current screening run,
// creating a fresh one if none exists or the last one is complete.
func GetOrCreateScreeningState(ctx context.Context, userID uint) (*models.ScreeningState, error) {
	var state models.ScreeningState
	err := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		First(&state).Error

	if err == nil && !state.IsComplete {
		return &state, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	newState := models.ScreeningState{UserID: userID, CompletedTests: []int64{}}
	if err := database.DB.WithContext(ctx).Create(&newState).Error; err != nil {
		return nil, err
	}
	return &newState, nil
}

// MarkTestCompleted appends a screen (by definition-order index) to the
// state's completion list and closes the run once every screen is done.
// Retesting an already-completed screen leaves the list unchanged.
func MarkTestCompleted(ctx context.Context, state *models.ScreeningState, testIndex, totalTests int) error {
	for _, done := range state.CompletedTests {
		if done == int64(testIndex) {
			return nil
		}
	}
	state.CompletedTests = append(state.CompletedTests, int64(testIndex))
	state.IsComplete = len(state.CompletedTests) >= totalTests
	return database.DB.WithContext(ctx).Save(state).Error
}

// HasCompletedScreeningToday checks if a user finished a screening run on the
// current day; the reminder scheduler skips those users.
func HasCompletedScreeningToday(userID uint) (bool, error) {
	var count int64
	err := database.DB.Model(&models.ScreeningState{}).
		Where("user_id = ? AND is_complete = ? AND updated_at >= CURRENT_DATE", userID, true).
		Count(&count).Error
	return count > 0, err
}

// GetUsersForReminder finds users who have reminders enabled for a specific
// UTC "HH:MM" time.
func GetUsersForReminder(reminderTime string) ([]models.User, error) {
	var users []models.User
	err := database.DB.
		Where("email_notifications_enabled = ? AND reminder_time = ?", true, reminderTime).
		Find(&users).Error
	return users, err
}
