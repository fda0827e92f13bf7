package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"assessment-service/internal/domain"
)

// Store is the durable implementation of the app repositories. Quiz
// aggregates live as one JSONB document per row (owner and active flag
// promoted to columns); attempts, answers and user statistics are
// relational because completion atomicity and leaderboard ordering are
// SQL-level concerns.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

type attemptRow struct {
	bun.BaseModel `bun:"table:attempts,alias:a"`

	ID          string    `bun:"id,pk"`
	QuizID      string    `bun:"quiz_id"`
	UserID      string    `bun:"user_id"`
	StartedAt   time.Time `bun:"started_at"`
	CompletedAt time.Time `bun:"completed_at,nullzero"`
	Score       int       `bun:"score"`
}

type answerRow struct {
	bun.BaseModel `bun:"table:answers,alias:ans"`

	ID         string    `bun:"id,pk"`
	AttemptID  string    `bun:"attempt_id"`
	QuestionID string    `bun:"question_id"`
	ChoiceID   string    `bun:"choice_id"`
	AnsweredAt time.Time `bun:"answered_at"`
}

type statsRow struct {
	bun.BaseModel `bun:"table:user_stats,alias:us"`

	UserID        string    `bun:"user_id,pk"`
	TotalAttempts int       `bun:"total_attempts"`
	AverageScore  float64   `bun:"average_score"`
	UpdatedAt     time.Time `bun:"updated_at"`
}

func (s *Store) CreateQuiz(ctx context.Context, quiz domain.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quizzes (id, owner_id, active, created_at, data) VALUES (?, ?, ?, ?, ?::jsonb)`,
		quiz.ID, quiz.OwnerID, quiz.Active, quiz.CreatedAt, string(data))
	if err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}

func (s *Store) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM quizzes WHERE id = ?`, quizID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("select quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}

func (s *Store) SaveQuiz(ctx context.Context, quiz domain.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE quizzes SET owner_id = ?, active = ?, data = ?::jsonb WHERE id = ?`,
		quiz.OwnerID, quiz.Active, string(data), quiz.ID)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *Store) DeleteQuiz(ctx context.Context, quizID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, quizID)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *Store) CreateAttempt(ctx context.Context, attempt domain.Attempt) error {
	row := attemptRowFromDomain(attempt)
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (s *Store) GetAttempt(ctx context.Context, attemptID, userID string) (domain.Attempt, error) {
	var row attemptRow
	err := s.db.NewSelect().Model(&row).
		Where("id = ?", attemptID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("select attempt: %w", err)
	}
	return row.toDomain(), nil
}

// CompleteAttempt transitions the attempt to completed and writes its
// answers in one transaction. The conditional update is the double-submit
// guard: a concurrent submit sees zero affected rows.
func (s *Store) CompleteAttempt(ctx context.Context, attemptID string, completedAt time.Time, score int, answers []domain.Answer) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*attemptRow)(nil)).
			Set("completed_at = ?", completedAt).
			Set("score = ?", score).
			Where("id = ?", attemptID).
			Where("completed_at IS NULL").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("complete attempt: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			exists, err := tx.NewSelect().Model((*attemptRow)(nil)).
				Where("id = ?", attemptID).
				Exists(ctx)
			if err != nil {
				return fmt.Errorf("check attempt: %w", err)
			}
			if !exists {
				return domain.ErrAttemptNotFound
			}
			return domain.ErrAttemptCompleted
		}

		if len(answers) == 0 {
			return nil
		}
		rows := make([]answerRow, 0, len(answers))
		for _, a := range answers {
			rows = append(rows, answerRow{
				ID:         a.ID,
				AttemptID:  a.AttemptID,
				QuestionID: a.QuestionID,
				ChoiceID:   a.ChoiceID,
				AnsweredAt: a.AnsweredAt,
			})
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert answers: %w", err)
		}
		return nil
	})
}

func (s *Store) ListAnswers(ctx context.Context, attemptID string) ([]domain.Answer, error) {
	var rows []answerRow
	err := s.db.NewSelect().Model(&rows).
		Where("attempt_id = ?", attemptID).
		Order("answered_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select answers: %w", err)
	}
	answers := make([]domain.Answer, 0, len(rows))
	for _, r := range rows {
		answers = append(answers, domain.Answer{
			ID:         r.ID,
			AttemptID:  r.AttemptID,
			QuestionID: r.QuestionID,
			ChoiceID:   r.ChoiceID,
			AnsweredAt: r.AnsweredAt,
		})
	}
	return answers, nil
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]domain.Attempt, error) {
	return s.listAttempts(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("user_id = ?", userID)
	})
}

func (s *Store) ListByQuiz(ctx context.Context, quizID string) ([]domain.Attempt, error) {
	return s.listAttempts(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("quiz_id = ?", quizID)
	})
}

func (s *Store) ListCompletedByUser(ctx context.Context, userID string) ([]domain.Attempt, error) {
	return s.listAttempts(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("user_id = ?", userID).Where("completed_at IS NOT NULL")
	})
}

func (s *Store) ListCompletedByQuiz(ctx context.Context, quizID string) ([]domain.Attempt, error) {
	return s.listAttempts(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("quiz_id = ?", quizID).Where("completed_at IS NOT NULL")
	})
}

func (s *Store) listAttempts(ctx context.Context, apply func(*bun.SelectQuery) *bun.SelectQuery) ([]domain.Attempt, error) {
	var rows []attemptRow
	err := apply(s.db.NewSelect().Model(&rows)).
		Order("started_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select attempts: %w", err)
	}
	attempts := make([]domain.Attempt, 0, len(rows))
	for _, r := range rows {
		attempts = append(attempts, r.toDomain())
	}
	return attempts, nil
}

func (s *Store) SaveUserStats(ctx context.Context, stats domain.UserStats) error {
	row := statsRow{
		UserID:        stats.UserID,
		TotalAttempts: stats.TotalAttempts,
		AverageScore:  stats.AverageScore,
		UpdatedAt:     stats.UpdatedAt,
	}
	_, err := s.db.NewInsert().Model(&row).
		On("CONFLICT (user_id) DO UPDATE").
		Set("total_attempts = EXCLUDED.total_attempts").
		Set("average_score = EXCLUDED.average_score").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert stats: %w", err)
	}
	return nil
}

func (s *Store) GetUserStats(ctx context.Context, userID string) (domain.UserStats, error) {
	var row statsRow
	err := s.db.NewSelect().Model(&row).Where("user_id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("select stats: %w", err)
	}
	return domain.UserStats{
		UserID:        row.UserID,
		TotalAttempts: row.TotalAttempts,
		AverageScore:  row.AverageScore,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

func attemptRowFromDomain(a domain.Attempt) attemptRow {
	return attemptRow{
		ID:          a.ID,
		QuizID:      a.QuizID,
		UserID:      a.UserID,
		StartedAt:   a.StartedAt,
		CompletedAt: a.CompletedAt,
		Score:       a.Score,
	}
}

func (r attemptRow) toDomain() domain.Attempt {
	return domain.Attempt{
		ID:          r.ID,
		QuizID:      r.QuizID,
		UserID:      r.UserID,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		Score:       r.Score,
	}
}
