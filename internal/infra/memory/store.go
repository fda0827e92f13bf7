package memory

import (
	"context"
	"sync"
	"time"

	"assessment-service/internal/domain"
)

// Store is an in-memory implementation of the app repositories (quizzes,
// attempts, statistics). It backs unit tests and demo setups.
type Store struct {
	mu       sync.RWMutex
	quizzes  map[string]domain.Quiz
	attempts map[string]domain.Attempt
	answers  map[string][]domain.Answer
	stats    map[string]domain.UserStats
}

func NewStore() *Store {
	return &Store{
		quizzes:  make(map[string]domain.Quiz),
		attempts: make(map[string]domain.Attempt),
		answers:  make(map[string][]domain.Answer),
		stats:    make(map[string]domain.UserStats),
	}
}

func (s *Store) CreateQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = cloneQuiz(quiz)
	return nil
}

func (s *Store) GetQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return cloneQuiz(quiz), nil
}

func (s *Store) SaveQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quiz.ID]; !ok {
		return domain.ErrQuizNotFound
	}
	s.quizzes[quiz.ID] = cloneQuiz(quiz)
	return nil
}

func (s *Store) DeleteQuiz(_ context.Context, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quizID]; !ok {
		return domain.ErrQuizNotFound
	}
	delete(s.quizzes, quizID)
	return nil
}

// LoadQuiz makes the store usable as a QuizLoader behind the caches.
func (s *Store) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.GetQuiz(ctx, quizID)
}

func (s *Store) CreateAttempt(_ context.Context, attempt domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attempt.ID] = attempt
	return nil
}

func (s *Store) GetAttempt(_ context.Context, attemptID, userID string) (domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempt, ok := s.attempts[attemptID]
	if !ok || attempt.UserID != userID {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	return attempt, nil
}

func (s *Store) CompleteAttempt(_ context.Context, attemptID string, completedAt time.Time, score int, answers []domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt, ok := s.attempts[attemptID]
	if !ok {
		return domain.ErrAttemptNotFound
	}
	if attempt.Completed() {
		return domain.ErrAttemptCompleted
	}
	attempt.CompletedAt = completedAt
	attempt.Score = score
	s.attempts[attemptID] = attempt
	s.answers[attemptID] = append([]domain.Answer(nil), answers...)
	return nil
}

func (s *Store) ListAnswers(_ context.Context, attemptID string) ([]domain.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Answer(nil), s.answers[attemptID]...), nil
}

func (s *Store) ListByUser(_ context.Context, userID string) ([]domain.Attempt, error) {
	return s.listAttempts(func(a domain.Attempt) bool { return a.UserID == userID }), nil
}

func (s *Store) ListByQuiz(_ context.Context, quizID string) ([]domain.Attempt, error) {
	return s.listAttempts(func(a domain.Attempt) bool { return a.QuizID == quizID }), nil
}

func (s *Store) ListCompletedByUser(_ context.Context, userID string) ([]domain.Attempt, error) {
	return s.listAttempts(func(a domain.Attempt) bool { return a.UserID == userID && a.Completed() }), nil
}

func (s *Store) ListCompletedByQuiz(_ context.Context, quizID string) ([]domain.Attempt, error) {
	return s.listAttempts(func(a domain.Attempt) bool { return a.QuizID == quizID && a.Completed() }), nil
}

func (s *Store) listAttempts(keep func(domain.Attempt) bool) []domain.Attempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Attempt
	for _, attempt := range s.attempts {
		if keep(attempt) {
			out = append(out, attempt)
		}
	}
	return out
}

func (s *Store) SaveUserStats(_ context.Context, stats domain.UserStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[stats.UserID] = stats
	return nil
}

func (s *Store) GetUserStats(_ context.Context, userID string) (domain.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[userID]
	if !ok {
		return domain.UserStats{UserID: userID}, nil
	}
	return stats, nil
}

func cloneQuiz(quiz domain.Quiz) domain.Quiz {
	out := quiz
	out.Questions = make([]domain.Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		cq := q
		cq.Choices = append([]domain.Choice(nil), q.Choices...)
		out.Questions[i] = cq
	}
	return out
}
