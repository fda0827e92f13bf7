package app

import (
	"math"

	"assessment-service/internal/domain"
)

// EvaluateAnswers scores a set of submissions against the quiz's answer key.
//
// The denominator is always the quiz's full question count: unanswered
// questions and submissions referencing foreign questions or choices count
// as incorrect, they never abort scoring. The score is
// round-half-up(100 * correct / total), an integer in [0, 100].
func EvaluateAnswers(quiz domain.Quiz, submissions []domain.AnswerSubmission) (score, correctCount int, results []domain.QuestionResult) {
	// One answer per question; the first submission for a question wins.
	byQuestion := make(map[string]domain.AnswerSubmission, len(submissions))
	for _, sub := range submissions {
		if _, ok := byQuestion[sub.QuestionID]; !ok {
			byQuestion[sub.QuestionID] = sub
		}
	}

	results = make([]domain.QuestionResult, 0, len(quiz.Questions))
	for _, question := range quiz.Questions {
		result := domain.QuestionResult{
			QuestionID:   question.ID,
			QuestionText: question.Text,
			Explanation:  question.Explanation,
		}
		correct := question.CorrectChoice()
		if correct != nil {
			result.CorrectChoiceID = correct.ID
			result.CorrectChoiceText = correct.Text
		}

		if sub, ok := byQuestion[question.ID]; ok {
			if selected := findChoice(question, sub.ChoiceID); selected != nil {
				result.SelectedChoiceID = selected.ID
				result.SelectedChoiceText = selected.Text
				result.Correct = correct != nil && selected.ID == correct.ID
			}
		}
		if result.Correct {
			correctCount++
		}
		results = append(results, result)
	}

	if total := len(quiz.Questions); total > 0 {
		score = int(math.Round(float64(correctCount) / float64(total) * 100))
	}
	return score, correctCount, results
}

func findChoice(question domain.Question, choiceID string) *domain.Choice {
	for i := range question.Choices {
		if question.Choices[i].ID == choiceID {
			return &question.Choices[i]
		}
	}
	return nil
}
