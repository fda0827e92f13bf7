package domain

import "time"

// Choice represents a possible answer for a question.
type Choice struct {
	ID         string `json:"id"`
	QuestionID string `json:"questionId"`
	Text       string `json:"text"`
	Correct    bool   `json:"correct"`
}

// Question models an MCQ question with exactly one correct choice.
type Question struct {
	ID          string   `json:"id"`
	QuizID      string   `json:"quizId"`
	Text        string   `json:"text"`
	Explanation string   `json:"explanation,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Choices     []Choice `json:"choices"`
}

// CorrectChoice returns the choice flagged correct, or nil when the
// question is malformed.
func (q Question) CorrectChoice() *Choice {
	for i := range q.Choices {
		if q.Choices[i].Correct {
			return &q.Choices[i]
		}
	}
	return nil
}

// Quiz is the authoring aggregate: a quiz with its nested questions and
// choices, treated as one consistency unit.
type Quiz struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"ownerId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"createdAt"`
	Questions   []Question `json:"questions"`
}

// Question returns the question with the given ID, or nil.
func (q Quiz) Question(questionID string) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID == questionID {
			return &q.Questions[i]
		}
	}
	return nil
}

// Attempt is one learner's pass at a quiz. A zero CompletedAt means the
// attempt is still open; Score is meaningful only once completed.
type Attempt struct {
	ID          string    `json:"id"`
	QuizID      string    `json:"quizId"`
	UserID      string    `json:"userId"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt,omitempty"`
	Score       int       `json:"score"`
}

// Completed reports whether the attempt reached its terminal state.
func (a Attempt) Completed() bool {
	return !a.CompletedAt.IsZero()
}

// Duration is the elapsed time between start and completion. It is the
// leaderboard tie-break key and is zero for open attempts.
func (a Attempt) Duration() time.Duration {
	if !a.Completed() {
		return 0
	}
	return a.CompletedAt.Sub(a.StartedAt)
}

// Answer records a single (question, chosen choice) pair of an attempt.
type Answer struct {
	ID         string    `json:"id"`
	AttemptID  string    `json:"attemptId"`
	QuestionID string    `json:"questionId"`
	ChoiceID   string    `json:"choiceId"`
	AnsweredAt time.Time `json:"answeredAt"`
}

// AnswerSubmission models a learner's answer as received at submit time,
// before it has been validated against the quiz.
type AnswerSubmission struct {
	QuestionID string `json:"questionId"`
	ChoiceID   string `json:"choiceId"`
}

// QuestionResult is the per-question line of a scored attempt.
type QuestionResult struct {
	QuestionID         string `json:"questionId"`
	QuestionText       string `json:"questionText"`
	Explanation        string `json:"explanation,omitempty"`
	SelectedChoiceID   string `json:"selectedChoiceId,omitempty"`
	SelectedChoiceText string `json:"selectedChoiceText,omitempty"`
	CorrectChoiceID    string `json:"correctChoiceId"`
	CorrectChoiceText  string `json:"correctChoiceText"`
	Correct            bool   `json:"correct"`
}

// AttemptResult is the full outcome of a completed attempt.
type AttemptResult struct {
	AttemptID      string           `json:"attemptId"`
	QuizID         string           `json:"quizId"`
	UserID         string           `json:"userId"`
	Score          int              `json:"score"`
	CorrectAnswers int              `json:"correctAnswers"`
	TotalQuestions int              `json:"totalQuestions"`
	StartedAt      time.Time        `json:"startedAt"`
	CompletedAt    time.Time        `json:"completedAt"`
	Questions      []QuestionResult `json:"questions"`
}

// LeaderboardEntry is one ranked row of a quiz leaderboard.
type LeaderboardEntry struct {
	AttemptID   string        `json:"attemptId"`
	UserID      string        `json:"userId"`
	Score       int           `json:"score"`
	Duration    time.Duration `json:"duration"`
	CompletedAt time.Time     `json:"completedAt"`
}

// Leaderboard captures the ordered top attempts for a quiz.
type Leaderboard struct {
	QuizID    string             `json:"quizId"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// UserStats is the derived per-user view recomputed after each completed
// attempt; it is never incrementally patched.
type UserStats struct {
	UserID        string    `json:"userId"`
	TotalAttempts int       `json:"totalAttempts"`
	AverageScore  float64   `json:"averageScore"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
