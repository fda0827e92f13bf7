package app

import (
	"context"
	"time"

	"assessment-service/internal/domain"
)

// QuizReader loads quiz aggregates (possibly through a cache).
type QuizReader interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizRepository stores the authoring aggregate. GetQuiz returns the whole
// aggregate in one read; SaveQuiz overwrites it as one unit.
type QuizRepository interface {
	QuizReader
	CreateQuiz(ctx context.Context, quiz domain.Quiz) error
	SaveQuiz(ctx context.Context, quiz domain.Quiz) error
	DeleteQuiz(ctx context.Context, quizID string) error
}

// AttemptRepository stores attempts and their answers.
//
// CompleteAttempt must be atomic: the transition from open to completed and
// the answer writes happen as one unit, and a second call for the same
// attempt fails with domain.ErrAttemptCompleted. GetAttempt folds ownership
// into the lookup so foreign attempts are indistinguishable from missing ones.
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt domain.Attempt) error
	GetAttempt(ctx context.Context, attemptID, userID string) (domain.Attempt, error)
	CompleteAttempt(ctx context.Context, attemptID string, completedAt time.Time, score int, answers []domain.Answer) error
	ListAnswers(ctx context.Context, attemptID string) ([]domain.Answer, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Attempt, error)
	ListByQuiz(ctx context.Context, quizID string) ([]domain.Attempt, error)
	ListCompletedByUser(ctx context.Context, userID string) ([]domain.Attempt, error)
	ListCompletedByQuiz(ctx context.Context, quizID string) ([]domain.Attempt, error)
}

// StatsRepository stores the derived per-user statistics. GetUserStats
// returns zero-valued stats (not an error) for users with no history.
type StatsRepository interface {
	SaveUserStats(ctx context.Context, stats domain.UserStats) error
	GetUserStats(ctx context.Context, userID string) (domain.UserStats, error)
}

// LeaderboardSource yields the top completed attempts for a quiz, already
// ordered by score descending then duration ascending.
type LeaderboardSource interface {
	TopAttempts(ctx context.Context, quizID string, limit int) ([]domain.LeaderboardEntry, error)
}
