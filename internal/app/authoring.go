package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"assessment-service/internal/domain"
)

// ChoiceDraft is author input for a single choice.
type ChoiceDraft struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// QuestionDraft is author input for a single question.
type QuestionDraft struct {
	Text        string        `json:"text"`
	Explanation string        `json:"explanation,omitempty"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	Choices     []ChoiceDraft `json:"choices"`
}

// CreateQuizRequest is the full draft for a new quiz.
type CreateQuizRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Questions   []QuestionDraft `json:"questions"`
}

// UpdateQuizRequest patches quiz metadata. Nil fields are left untouched;
// questions are never mutated through this path.
type UpdateQuizRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// AuthoringService contains the quiz authoring use cases. Every mutation
// requires the caller to be the quiz owner.
type AuthoringService struct {
	quizzes QuizRepository
	now     func() time.Time
	newID   func() string
}

func NewAuthoringService(quizzes QuizRepository) *AuthoringService {
	return &AuthoringService{
		quizzes: quizzes,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// NewAuthoringServiceWithClock is test-only for deterministic timestamps.
func NewAuthoringServiceWithClock(quizzes QuizRepository, now func() time.Time) *AuthoringService {
	s := NewAuthoringService(quizzes)
	s.now = now
	return s
}

// CreateQuiz validates and persists a new quiz aggregate. The write is
// all-or-nothing: a draft failing validation leaves no partial state.
func (s *AuthoringService) CreateQuiz(ctx context.Context, authorID string, req CreateQuizRequest) (domain.Quiz, error) {
	quiz := domain.Quiz{
		ID:          s.newID(),
		OwnerID:     authorID,
		Title:       req.Title,
		Description: req.Description,
		Active:      true,
		CreatedAt:   s.now().UTC(),
	}
	for _, qd := range req.Questions {
		quiz.Questions = append(quiz.Questions, s.buildQuestion(quiz.ID, qd))
	}

	if err := domain.ValidateQuiz(quiz); err != nil {
		return domain.Quiz{}, err
	}
	if err := s.quizzes.CreateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	return quiz, nil
}

// GetQuiz loads the whole aggregate in one read.
func (s *AuthoringService) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

// UpdateQuiz applies a metadata patch (title, description, active flag).
func (s *AuthoringService) UpdateQuiz(ctx context.Context, quizID, callerID string, req UpdateQuizRequest) (domain.Quiz, error) {
	quiz, err := s.ownedQuiz(ctx, quizID, callerID)
	if err != nil {
		return domain.Quiz{}, err
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.Active != nil {
		quiz.Active = *req.Active
	}
	if quiz.Title == "" {
		return domain.Quiz{}, fmt.Errorf("%w: title is required", domain.ErrInvalidQuiz)
	}

	if err := s.quizzes.SaveQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("update quiz: %w", err)
	}
	return quiz, nil
}

// DeleteQuiz removes the quiz and cascades to its questions and choices.
// Historical attempts stay behind as orphaned history.
func (s *AuthoringService) DeleteQuiz(ctx context.Context, quizID, callerID string) error {
	if _, err := s.ownedQuiz(ctx, quizID, callerID); err != nil {
		return err
	}
	if err := s.quizzes.DeleteQuiz(ctx, quizID); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return nil
}

// AddQuestion validates and appends a question to an existing quiz.
func (s *AuthoringService) AddQuestion(ctx context.Context, quizID, callerID string, req QuestionDraft) (domain.Quiz, error) {
	quiz, err := s.ownedQuiz(ctx, quizID, callerID)
	if err != nil {
		return domain.Quiz{}, err
	}

	question := s.buildQuestion(quiz.ID, req)
	if err := domain.ValidateQuestion(question); err != nil {
		return domain.Quiz{}, err
	}

	quiz.Questions = append(quiz.Questions, question)
	if err := s.quizzes.SaveQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("add question: %w", err)
	}
	return quiz, nil
}

// RemoveQuestion drops a question (and its choices) from the quiz. Answers
// of historical attempts keep referencing the removed question.
func (s *AuthoringService) RemoveQuestion(ctx context.Context, quizID, questionID, callerID string) (domain.Quiz, error) {
	quiz, err := s.ownedQuiz(ctx, quizID, callerID)
	if err != nil {
		return domain.Quiz{}, err
	}

	kept := quiz.Questions[:0]
	found := false
	for _, q := range quiz.Questions {
		if q.ID == questionID {
			found = true
			continue
		}
		kept = append(kept, q)
	}
	if !found {
		return domain.Quiz{}, domain.ErrQuestionNotFound
	}

	quiz.Questions = kept
	if err := s.quizzes.SaveQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("remove question: %w", err)
	}
	return quiz, nil
}

// ToggleActive flips the active flag. Completeness is not rechecked here;
// attempts against an empty reactivated quiz are rejected at start time.
func (s *AuthoringService) ToggleActive(ctx context.Context, quizID, callerID string) (domain.Quiz, error) {
	quiz, err := s.ownedQuiz(ctx, quizID, callerID)
	if err != nil {
		return domain.Quiz{}, err
	}

	quiz.Active = !quiz.Active
	if err := s.quizzes.SaveQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("toggle active: %w", err)
	}
	return quiz, nil
}

func (s *AuthoringService) ownedQuiz(ctx context.Context, quizID, callerID string) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if quiz.OwnerID != callerID {
		return domain.Quiz{}, domain.ErrForbidden
	}
	return quiz, nil
}

func (s *AuthoringService) buildQuestion(quizID string, req QuestionDraft) domain.Question {
	question := domain.Question{
		ID:          s.newID(),
		QuizID:      quizID,
		Text:        req.Text,
		Explanation: req.Explanation,
		ImageURL:    req.ImageURL,
	}
	for _, cd := range req.Choices {
		question.Choices = append(question.Choices, domain.Choice{
			ID:         s.newID(),
			QuestionID: question.ID,
			Text:       cd.Text,
			Correct:    cd.Correct,
		})
	}
	return question
}
