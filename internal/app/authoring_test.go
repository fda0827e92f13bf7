package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"assessment-service/internal/app"
	"assessment-service/internal/domain"
	"assessment-service/internal/infra/memory"
)

func validDraft() app.CreateQuizRequest {
	return app.CreateQuizRequest{
		Title:       "Geography",
		Description: "Capitals of Europe",
		Questions: []app.QuestionDraft{
			{
				Text: "Capital of France?",
				Choices: []app.ChoiceDraft{
					{Text: "Paris", Correct: true},
					{Text: "Lyon"},
				},
			},
			{
				Text: "Capital of Spain?",
				Choices: []app.ChoiceDraft{
					{Text: "Barcelona"},
					{Text: "Madrid", Correct: true},
				},
			},
		},
	}
}

func TestCreateQuiz(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	service := app.NewAuthoringServiceWithClock(store, func() time.Time { return now })

	quiz, err := service.CreateQuiz(ctx, "author-1", validDraft())
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	if quiz.OwnerID != "author-1" || !quiz.Active || !quiz.CreatedAt.Equal(now) {
		t.Fatalf("unexpected quiz metadata: %+v", quiz)
	}
	if len(quiz.Questions) != 2 || len(quiz.Questions[0].Choices) != 2 {
		t.Fatalf("aggregate not fully built: %+v", quiz)
	}

	stored, err := store.GetQuiz(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("reload quiz: %v", err)
	}
	if stored.Questions[1].Choices[1].Correct != true {
		t.Fatalf("correct flag lost on persist: %+v", stored.Questions[1])
	}
}

func TestCreateQuizAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewAuthoringService(store)

	draft := validDraft()
	draft.Questions[1].Choices[1].Correct = false // second question now has no correct choice

	if _, err := service.CreateQuiz(ctx, "author-1", draft); !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}

	empty := validDraft()
	empty.Questions = nil
	if _, err := service.CreateQuiz(ctx, "author-1", empty); !errors.Is(err, domain.ErrInvalidQuiz) {
		t.Fatalf("expected ErrInvalidQuiz for empty draft, got %v", err)
	}
}

func TestUpdateQuizOwnershipAndPatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewAuthoringService(store)

	quiz, err := service.CreateQuiz(ctx, "author-1", validDraft())
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	if _, err := service.UpdateQuiz(ctx, "missing", "author-1", app.UpdateQuizRequest{}); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
	if _, err := service.UpdateQuiz(ctx, quiz.ID, "intruder", app.UpdateQuizRequest{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	title := "World geography"
	active := false
	updated, err := service.UpdateQuiz(ctx, quiz.ID, "author-1", app.UpdateQuizRequest{Title: &title, Active: &active})
	if err != nil {
		t.Fatalf("update quiz: %v", err)
	}
	if updated.Title != title || updated.Active {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Description != quiz.Description {
		t.Fatalf("nil fields must stay untouched, got %q", updated.Description)
	}
	if len(updated.Questions) != len(quiz.Questions) {
		t.Fatalf("update must never touch questions")
	}
}

func TestAddQuestionValidatesLikeCreate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewAuthoringService(store)

	quiz, _ := service.CreateQuiz(ctx, "author-1", validDraft())

	bad := app.QuestionDraft{Text: "Odd one", Choices: []app.ChoiceDraft{{Text: "only", Correct: true}}}
	if _, err := service.AddQuestion(ctx, quiz.ID, "author-1", bad); !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}

	good := app.QuestionDraft{
		Text:    "Capital of Italy?",
		Choices: []app.ChoiceDraft{{Text: "Rome", Correct: true}, {Text: "Milan"}},
	}
	refreshed, err := service.AddQuestion(ctx, quiz.ID, "author-1", good)
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if len(refreshed.Questions) != 3 {
		t.Fatalf("expected 3 questions after add, got %d", len(refreshed.Questions))
	}

	if _, err := service.AddQuestion(ctx, quiz.ID, "intruder", good); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner add, got %v", err)
	}
}

func TestRemoveQuestion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewAuthoringService(store)

	quiz, _ := service.CreateQuiz(ctx, "author-1", validDraft())
	questionID := quiz.Questions[0].ID

	refreshed, err := service.RemoveQuestion(ctx, quiz.ID, questionID, "author-1")
	if err != nil {
		t.Fatalf("remove question: %v", err)
	}
	if len(refreshed.Questions) != 1 || refreshed.Questions[0].ID == questionID {
		t.Fatalf("question not removed: %+v", refreshed.Questions)
	}

	if _, err := service.RemoveQuestion(ctx, quiz.ID, questionID, "author-1"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound on second removal, got %v", err)
	}
}

func TestToggleActiveAndDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewAuthoringService(store)

	quiz, _ := service.CreateQuiz(ctx, "author-1", validDraft())

	toggled, err := service.ToggleActive(ctx, quiz.ID, "author-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.Active {
		t.Fatalf("expected quiz deactivated")
	}

	if err := service.DeleteQuiz(ctx, quiz.ID, "intruder"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := service.DeleteQuiz(ctx, quiz.ID, "author-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := service.GetQuiz(ctx, quiz.ID); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz gone, got %v", err)
	}
}
