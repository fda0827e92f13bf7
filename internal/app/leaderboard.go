package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"assessment-service/internal/domain"
)

const (
	// DefaultTopCount is used when the caller does not ask for a size.
	DefaultTopCount = 10
	// MaxTopCount bounds how many rows a leaderboard query may request.
	MaxTopCount = 100
)

// NormalizeTopCount validates the requested leaderboard size. Zero selects
// the default; out-of-range values are a caller error, never clamped.
func NormalizeTopCount(topCount int) (int, error) {
	if topCount == 0 {
		return DefaultTopCount, nil
	}
	if topCount < 1 || topCount > MaxTopCount {
		return 0, fmt.Errorf("%w: %d not in 1..%d", domain.ErrInvalidTopCount, topCount, MaxTopCount)
	}
	return topCount, nil
}

// RankAttempts orders completed attempts by score descending, then duration
// ascending. Attempts equal on both keys keep their incoming relative order.
// Open attempts are skipped.
func RankAttempts(attempts []domain.Attempt) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(attempts))
	for _, a := range attempts {
		if !a.Completed() {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			AttemptID:   a.ID,
			UserID:      a.UserID,
			Score:       a.Score,
			Duration:    a.Duration(),
			CompletedAt: a.CompletedAt,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Duration < entries[j].Duration
	})
	return entries
}

// LeaderboardService serves ranked views of completed attempts. It never
// mutates state.
type LeaderboardService struct {
	source LeaderboardSource
	now    func() time.Time
}

func NewLeaderboardService(source LeaderboardSource) *LeaderboardService {
	return &LeaderboardService{source: source, now: time.Now}
}

// NewLeaderboardServiceWithClock is test-only for deterministic timestamps.
func NewLeaderboardServiceWithClock(source LeaderboardSource, now func() time.Time) *LeaderboardService {
	s := NewLeaderboardService(source)
	s.now = now
	return s
}

// GetLeaderboard returns the top completed attempts for a quiz.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, quizID string, topCount int) (domain.Leaderboard, error) {
	limit, err := NormalizeTopCount(topCount)
	if err != nil {
		return domain.Leaderboard{}, err
	}

	entries, err := s.source.TopAttempts(ctx, quizID, limit)
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("leaderboard for quiz %s: %w", quizID, err)
	}
	return domain.Leaderboard{
		QuizID:    quizID,
		Entries:   entries,
		UpdatedAt: s.now().UTC(),
	}, nil
}

// RankingSource derives leaderboard rows from any AttemptRepository by
// ranking in process. SQL-backed stores can push the same ordering into the
// query instead.
type RankingSource struct {
	attempts AttemptRepository
}

func NewRankingSource(attempts AttemptRepository) *RankingSource {
	return &RankingSource{attempts: attempts}
}

func (s *RankingSource) TopAttempts(ctx context.Context, quizID string, limit int) ([]domain.LeaderboardEntry, error) {
	completed, err := s.attempts.ListCompletedByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	entries := RankAttempts(completed)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
