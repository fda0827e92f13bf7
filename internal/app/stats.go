package app

import (
	"time"

	"assessment-service/internal/domain"
)

// ComputeStats derives a user's statistics from their full set of attempts.
// Open attempts are ignored; with no completed attempts the average is 0.
// Recomputing from source keeps overlapping submissions convergent, which an
// incrementally patched counter would not be.
func ComputeStats(userID string, attempts []domain.Attempt, now time.Time) domain.UserStats {
	stats := domain.UserStats{UserID: userID, UpdatedAt: now}
	sum := 0
	for _, a := range attempts {
		if !a.Completed() {
			continue
		}
		stats.TotalAttempts++
		sum += a.Score
	}
	if stats.TotalAttempts > 0 {
		stats.AverageScore = float64(sum) / float64(stats.TotalAttempts)
	}
	return stats
}
