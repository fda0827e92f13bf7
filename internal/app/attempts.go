package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"assessment-service/internal/domain"
)

// AttemptService drives the attempt lifecycle: Open on start, Completed on
// submit, no other states.
type AttemptService struct {
	attempts AttemptRepository
	quizzes  QuizReader
	stats    StatsRepository
	now      func() time.Time
	newID    func() string
}

func NewAttemptService(attempts AttemptRepository, quizzes QuizReader, stats StatsRepository) *AttemptService {
	return &AttemptService{
		attempts: attempts,
		quizzes:  quizzes,
		stats:    stats,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// NewAttemptServiceWithClock is test-only for deterministic timestamps.
func NewAttemptServiceWithClock(attempts AttemptRepository, quizzes QuizReader, stats StatsRepository, now func() time.Time) *AttemptService {
	s := NewAttemptService(attempts, quizzes, stats)
	s.now = now
	return s
}

// Start opens a new attempt. The quiz must exist, be active, and have at
// least one question; a user may hold any number of open attempts.
func (s *AttemptService) Start(ctx context.Context, quizID, userID string) (domain.Attempt, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Attempt{}, err
	}
	if !quiz.Active {
		return domain.Attempt{}, domain.ErrQuizInactive
	}
	if len(quiz.Questions) == 0 {
		return domain.Attempt{}, domain.ErrQuizEmpty
	}

	attempt := domain.Attempt{
		ID:        s.newID(),
		QuizID:    quiz.ID,
		UserID:    userID,
		StartedAt: s.now().UTC(),
	}
	if err := s.attempts.CreateAttempt(ctx, attempt); err != nil {
		return domain.Attempt{}, fmt.Errorf("start attempt: %w", err)
	}
	return attempt, nil
}

// Submit scores the submission, completes the attempt and stores its
// answers atomically, then refreshes the user's statistics.
//
// Submissions referencing questions outside the quiz, or choices outside
// their question, are dropped from scoring rather than rejected; the
// submission count must still match the quiz's question count exactly.
func (s *AttemptService) Submit(ctx context.Context, attemptID, userID string, submissions []domain.AnswerSubmission) (domain.AttemptResult, error) {
	attempt, err := s.attempts.GetAttempt(ctx, attemptID, userID)
	if err != nil {
		return domain.AttemptResult{}, err
	}
	if attempt.Completed() {
		return domain.AttemptResult{}, domain.ErrAttemptCompleted
	}

	quiz, err := s.quizzes.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		return domain.AttemptResult{}, err
	}
	if len(submissions) != len(quiz.Questions) {
		return domain.AttemptResult{}, domain.ErrAnswerCountMismatch
	}

	score, correctCount, results := EvaluateAnswers(quiz, submissions)
	completedAt := s.now().UTC()

	// Only answers with a resolved selection survived reference validation.
	answers := make([]domain.Answer, 0, len(results))
	for _, r := range results {
		if r.SelectedChoiceID == "" {
			continue
		}
		answers = append(answers, domain.Answer{
			ID:         s.newID(),
			AttemptID:  attempt.ID,
			QuestionID: r.QuestionID,
			ChoiceID:   r.SelectedChoiceID,
			AnsweredAt: completedAt,
		})
	}

	// The repository enforces the open->completed transition atomically; a
	// concurrent submit loses here with ErrAttemptCompleted.
	if err := s.attempts.CompleteAttempt(ctx, attempt.ID, completedAt, score, answers); err != nil {
		return domain.AttemptResult{}, err
	}
	s.refreshStats(ctx, userID)

	return domain.AttemptResult{
		AttemptID:      attempt.ID,
		QuizID:         quiz.ID,
		UserID:         userID,
		Score:          score,
		CorrectAnswers: correctCount,
		TotalQuestions: len(quiz.Questions),
		StartedAt:      attempt.StartedAt,
		CompletedAt:    completedAt,
		Questions:      results,
	}, nil
}

// GetResult rebuilds the breakdown of a completed attempt from its stored
// answers. Open attempts have no result and report ErrAttemptNotFound.
//
// The breakdown reflects the quiz as it exists now, while Score keeps the
// value fixed at submission, so the fields can drift apart after the owner
// edits the quiz.
func (s *AttemptService) GetResult(ctx context.Context, attemptID, userID string) (domain.AttemptResult, error) {
	attempt, err := s.attempts.GetAttempt(ctx, attemptID, userID)
	if err != nil {
		return domain.AttemptResult{}, err
	}
	if !attempt.Completed() {
		return domain.AttemptResult{}, domain.ErrAttemptNotFound
	}

	quiz, err := s.quizzes.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		return domain.AttemptResult{}, err
	}
	answers, err := s.attempts.ListAnswers(ctx, attempt.ID)
	if err != nil {
		return domain.AttemptResult{}, fmt.Errorf("load answers: %w", err)
	}

	submissions := make([]domain.AnswerSubmission, 0, len(answers))
	for _, a := range answers {
		submissions = append(submissions, domain.AnswerSubmission{
			QuestionID: a.QuestionID,
			ChoiceID:   a.ChoiceID,
		})
	}
	_, correctCount, results := EvaluateAnswers(quiz, submissions)

	return domain.AttemptResult{
		AttemptID:      attempt.ID,
		QuizID:         quiz.ID,
		UserID:         userID,
		Score:          attempt.Score,
		CorrectAnswers: correctCount,
		TotalQuestions: len(quiz.Questions),
		StartedAt:      attempt.StartedAt,
		CompletedAt:    attempt.CompletedAt,
		Questions:      results,
	}, nil
}

// ListUserAttempts returns all attempts of one user, open and completed.
func (s *AttemptService) ListUserAttempts(ctx context.Context, userID string) ([]domain.Attempt, error) {
	return s.attempts.ListByUser(ctx, userID)
}

// ListQuizAttempts returns all attempts against one quiz.
func (s *AttemptService) ListQuizAttempts(ctx context.Context, quizID string) ([]domain.Attempt, error) {
	return s.attempts.ListByQuiz(ctx, quizID)
}

// GetUserStats returns the derived statistics; zero-valued for new users.
func (s *AttemptService) GetUserStats(ctx context.Context, userID string) (domain.UserStats, error) {
	return s.stats.GetUserStats(ctx, userID)
}

// refreshStats recomputes the user's statistics from their completed
// attempts. Best-effort: a failed refresh converges on the next submit.
func (s *AttemptService) refreshStats(ctx context.Context, userID string) {
	completed, err := s.attempts.ListCompletedByUser(ctx, userID)
	if err != nil {
		log.Printf("stats refresh: list attempts for user %s: %v", userID, err)
		return
	}
	stats := ComputeStats(userID, completed, s.now().UTC())
	if err := s.stats.SaveUserStats(ctx, stats); err != nil {
		log.Printf("stats refresh: save stats for user %s: %v", userID, err)
	}
}
