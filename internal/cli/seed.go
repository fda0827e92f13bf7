package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"assessment-service/internal/app"
	"assessment-service/internal/config"
	"assessment-service/internal/domain"
)

// NewSeedCmd inserts a sample quiz and one completed attempt through the
// full service stack, which is handy for demos and for smoke-testing a
// fresh database together with whatever cache layer the config selects.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert a sample quiz and attempt into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			if err := runMigrations(cmd.Context(), cfg); err != nil {
				return err
			}

			svc, err := buildServices(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer svc.close()

			quiz, err := svc.authoring.CreateQuiz(cmd.Context(), "seed-author", sampleQuizDraft())
			if err != nil {
				return err
			}
			log.Printf("seeded quiz %s (%d questions)", quiz.ID, len(quiz.Questions))

			attempt, err := svc.attempts.Start(cmd.Context(), quiz.ID, "seed-learner")
			if err != nil {
				return err
			}
			result, err := svc.attempts.Submit(cmd.Context(), attempt.ID, "seed-learner", sampleSubmissions(quiz))
			if err != nil {
				return err
			}
			log.Printf("seeded attempt %s scored %d", attempt.ID, result.Score)

			board, err := svc.leaderboard.GetLeaderboard(cmd.Context(), quiz.ID, 0)
			if err != nil {
				return err
			}
			log.Printf("leaderboard for quiz %s has %d entries", quiz.ID, len(board.Entries))
			return nil
		},
	}
}

func sampleQuizDraft() app.CreateQuizRequest {
	return app.CreateQuizRequest{
		Title:       "Basic arithmetic",
		Description: "Warm-up quiz for new learners",
		Questions: []app.QuestionDraft{
			{
				Text: "What is 2 + 2?",
				Choices: []app.ChoiceDraft{
					{Text: "3"},
					{Text: "4", Correct: true},
					{Text: "5"},
				},
			},
			{
				Text:        "What is 9 / 3?",
				Explanation: "Nine splits into three equal groups of three.",
				Choices: []app.ChoiceDraft{
					{Text: "3", Correct: true},
					{Text: "6"},
				},
			},
		},
	}
}

// sampleSubmissions answers every question with its correct choice.
func sampleSubmissions(quiz domain.Quiz) []domain.AnswerSubmission {
	subs := make([]domain.AnswerSubmission, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		if c := q.CorrectChoice(); c != nil {
			subs = append(subs, domain.AnswerSubmission{QuestionID: q.ID, ChoiceID: c.ID})
		}
	}
	return subs
}
