package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"assessment-service/internal/domain"
)

// LeaderboardSource ranks completed attempts in SQL: score descending, then
// elapsed time ascending. Ties beyond that keep Postgres's row order, which
// matches the unspecified-but-stable contract of the in-process ranker.
type LeaderboardSource struct {
	pool *pgxpool.Pool
}

func NewLeaderboardSource(pool *pgxpool.Pool) *LeaderboardSource {
	return &LeaderboardSource{pool: pool}
}

func (s *LeaderboardSource) TopAttempts(ctx context.Context, quizID string, limit int) ([]domain.LeaderboardEntry, error) {
	const stmt = `
SELECT id, user_id, score, started_at, completed_at
FROM attempts
WHERE quiz_id = $1 AND completed_at IS NOT NULL
ORDER BY score DESC, (completed_at - started_at) ASC
LIMIT $2;`

	rows, err := s.pool.Query(ctx, stmt, quizID, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var (
			entry     domain.LeaderboardEntry
			startedAt time.Time
		)
		if err := rows.Scan(&entry.AttemptID, &entry.UserID, &entry.Score, &startedAt, &entry.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		entry.Duration = entry.CompletedAt.Sub(startedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read leaderboard rows: %w", err)
	}
	return entries, nil
}
