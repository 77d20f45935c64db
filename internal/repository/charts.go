package repository

import (
	"context"
	"time"

	"ocucheck/internal/database"
)

type TimelineDataPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// GetTimelineData returns levels-passed over time for one user, test, and
// eye, oldest first. It feeds the results-page charts.
func GetTimelineData(ctx context.Context, userID uint, testID, eye string) ([]TimelineDataPoint, error) {
	var data []TimelineDataPoint
	query := `
		SELECT completed_at AS date, levels_passed::float AS value
		FROM eye_results
		WHERE user_id = ? AND test_id = ? AND eye = ?
		ORDER BY completed_at;
	`
	err := database.DB.WithContext(ctx).Raw(query, userID, testID, eye).Scan(&data).Error
	return data, err
}
