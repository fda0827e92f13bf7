package domain

import "errors"

var (
	// ErrInvalidQuiz indicates a quiz draft that violates authoring rules.
	ErrInvalidQuiz = errors.New("invalid quiz")
	// ErrInvalidQuestion indicates a question with a malformed choice set.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrQuizNotFound indicates the quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates the question does not exist in the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAttemptNotFound indicates the attempt does not exist for the caller.
	// Attempts owned by another user report the same error as missing ones.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrForbidden is returned when a non-owner mutates a quiz.
	ErrForbidden = errors.New("forbidden")
	// ErrQuizInactive is returned when starting an attempt on a deactivated quiz.
	ErrQuizInactive = errors.New("quiz is inactive")
	// ErrQuizEmpty is returned when starting an attempt on a quiz with no questions.
	ErrQuizEmpty = errors.New("quiz has no questions")
	// ErrAttemptCompleted is returned on a second submission of the same attempt.
	ErrAttemptCompleted = errors.New("attempt already completed")
	// ErrAnswerCountMismatch is returned when the submission does not cover
	// exactly the quiz's question count.
	ErrAnswerCountMismatch = errors.New("answer count mismatch")
	// ErrInvalidTopCount is returned for leaderboard sizes outside 1..100.
	ErrInvalidTopCount = errors.New("top count out of range")
)
