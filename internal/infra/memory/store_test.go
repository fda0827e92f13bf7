package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"assessment-service/internal/domain"
)

func TestGetAttemptFoldsOwnership(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	attempt := domain.Attempt{ID: "a1", QuizID: "quiz-1", UserID: "u1", StartedAt: time.Now()}
	if err := store.CreateAttempt(ctx, attempt); err != nil {
		t.Fatalf("create attempt: %v", err)
	}

	if _, err := store.GetAttempt(ctx, "a1", "u1"); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if _, err := store.GetAttempt(ctx, "a1", "u2"); !errors.Is(err, domain.ErrAttemptNotFound) {
		t.Fatalf("foreign lookup must report not-found, got %v", err)
	}
}

func TestCompleteAttemptOnce(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	attempt := domain.Attempt{ID: "a1", QuizID: "quiz-1", UserID: "u1", StartedAt: time.Now()}
	_ = store.CreateAttempt(ctx, attempt)

	completedAt := attempt.StartedAt.Add(time.Minute)
	answers := []domain.Answer{{ID: "ans1", AttemptID: "a1", QuestionID: "q1", ChoiceID: "c1", AnsweredAt: completedAt}}
	if err := store.CompleteAttempt(ctx, "a1", completedAt, 100, answers); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := store.CompleteAttempt(ctx, "a1", completedAt.Add(time.Minute), 0, nil); !errors.Is(err, domain.ErrAttemptCompleted) {
		t.Fatalf("expected ErrAttemptCompleted, got %v", err)
	}

	got, _ := store.GetAttempt(ctx, "a1", "u1")
	if got.Score != 100 || !got.CompletedAt.Equal(completedAt) {
		t.Fatalf("first completion must stick: %+v", got)
	}
	stored, _ := store.ListAnswers(ctx, "a1")
	if len(stored) != 1 {
		t.Fatalf("expected answers preserved, got %d", len(stored))
	}

	if err := store.CompleteAttempt(ctx, "missing", completedAt, 0, nil); !errors.Is(err, domain.ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound, got %v", err)
	}
}

func TestCompleteAttemptConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	_ = store.CreateAttempt(ctx, domain.Attempt{ID: "a1", QuizID: "quiz-1", UserID: "u1", StartedAt: time.Now()})

	const racers = 16
	var wg sync.WaitGroup
	wins := make(chan int, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			if err := store.CompleteAttempt(ctx, "a1", time.Now(), score, nil); err == nil {
				wins <- score
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var winners []int
	for s := range wins {
		winners = append(winners, s)
	}
	if len(winners) != 1 {
		t.Fatalf("exactly one concurrent completion may win, got %d", len(winners))
	}
	got, _ := store.GetAttempt(ctx, "a1", "u1")
	if got.Score != winners[0] {
		t.Fatalf("stored score %d does not match the winner %d", got.Score, winners[0])
	}
}

func TestQuizAggregateIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	quiz := domain.Quiz{
		ID: "quiz-1", OwnerID: "author", Title: "Sample", Active: true,
		Questions: []domain.Question{{
			ID: "q1", QuizID: "quiz-1", Text: "?",
			Choices: []domain.Choice{{ID: "c1", Text: "a", Correct: true}, {ID: "c2", Text: "b"}},
		}},
	}
	_ = store.CreateQuiz(ctx, quiz)

	loaded, _ := store.GetQuiz(ctx, "quiz-1")
	loaded.Questions[0].Text = "mutated"

	again, _ := store.GetQuiz(ctx, "quiz-1")
	if again.Questions[0].Text != "?" {
		t.Fatalf("callers must not be able to mutate stored state")
	}
}
