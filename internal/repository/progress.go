package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/berean-study/trivia-api/internal/domain/entities"
)

// ProgressRepository persists per-answer progress events and the per-user
// aggregate counters in PostgreSQL.
type ProgressRepository struct {
	db *pgxpool.Pool
}

func NewProgressRepository(db *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// CorrectQuestionIDs returns the distinct question IDs a user has ever
// answered correctly within one book. Used to build the session exclusion set.
func (r *ProgressRepository) CorrectQuestionIDs(ctx context.Context, userID, book string) ([]string, error) {
	query := `
		SELECT DISTINCT question_id
		FROM quiz_answers
		WHERE user_id = $1 AND book = $2 AND is_correct
	`

	rows, err := r.db.Query(ctx, query, userID, book)
	if err != nil {
		return nil, fmt.Errorf("correct question ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("correct question ids: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("correct question ids: %w", err)
	}

	return ids, nil
}

// RecordAnswer writes one progress event.
func (r *ProgressRepository) RecordAnswer(ctx context.Context, e entities.AnswerEvent) error {
	query := `
		INSERT INTO quiz_answers (user_id, book, question_id, username, is_correct, answered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(
		ctx, query,
		e.UserID,
		e.Book,
		e.QuestionID,
		e.Username,
		e.IsCorrect,
		e.AnsweredAt,
	)
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}

	return nil
}

// IncrementAnswered bumps the per-user answered counter by one. The upsert is
// a single atomic statement, so concurrent sessions cannot lose increments.
func (r *ProgressRepository) IncrementAnswered(ctx context.Context, userID string) error {
	query := `
		INSERT INTO user_stats (user_id, questions_answered, updated_at)
		VALUES ($1, 1, now())
		ON CONFLICT (user_id)
		DO UPDATE SET
			questions_answered = user_stats.questions_answered + 1,
			updated_at = now()
	`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("increment answered: %w", err)
	}

	return nil
}

// Stats returns the aggregate counters for a user. A user with no answers
// yet gets a zero-valued record rather than an error.
func (r *ProgressRepository) Stats(ctx context.Context, userID string) (*entities.UserStats, error) {
	query := `
		SELECT user_id, questions_answered, updated_at
		FROM user_stats
		WHERE user_id = $1
	`

	var stats entities.UserStats
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.UserID,
		&stats.QuestionsAnswered,
		&stats.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entities.UserStats{UserID: userID}, nil
		}
		return nil, fmt.Errorf("stats: %w", err)
	}

	return &stats, nil
}
