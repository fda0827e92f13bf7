package domain

import "fmt"

const (
	// MinChoices and MaxChoices bound the choice set of a single question.
	MinChoices = 2
	MaxChoices = 6
)

// ValidateChoices enforces the structural rules for one question's choice
// set: 2..6 choices, exactly one flagged correct, all with text.
func ValidateChoices(choices []Choice) error {
	if len(choices) < MinChoices || len(choices) > MaxChoices {
		return fmt.Errorf("%w: question must have between %d and %d choices, got %d",
			ErrInvalidQuestion, MinChoices, MaxChoices, len(choices))
	}
	correct := 0
	for _, c := range choices {
		if c.Text == "" {
			return fmt.Errorf("%w: choice text is required", ErrInvalidQuestion)
		}
		if c.Correct {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("%w: question must have exactly one correct choice, got %d",
			ErrInvalidQuestion, correct)
	}
	return nil
}

// ValidateQuestion checks a single question. The same check runs at quiz
// creation and when a question is added to an existing quiz.
func ValidateQuestion(q Question) error {
	if q.Text == "" {
		return fmt.Errorf("%w: question text is required", ErrInvalidQuestion)
	}
	return ValidateChoices(q.Choices)
}

// ValidateQuiz checks the whole authoring aggregate.
func ValidateQuiz(quiz Quiz) error {
	if quiz.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidQuiz)
	}
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("%w: quiz must have at least one question", ErrInvalidQuiz)
	}
	for i, q := range quiz.Questions {
		if err := ValidateQuestion(q); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}
