// Package postgres offers an alternative durable question store backed by
// JSONB rows, for deployments that outgrow the flat file.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quizbot/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionStore implements app.QuestionStore on a questions table
// (id bigint primary key, data jsonb).
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) List(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: list questions: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%w: scan question: %v", domain.ErrStoreUnavailable, err)
		}
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("%w: decode question: %v", domain.ErrStoreUnavailable, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list questions: %v", domain.ErrStoreUnavailable, err)
	}
	return questions, nil
}

func (s *QuestionStore) Get(ctx context.Context, id int64) (domain.Question, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM questions WHERE id=$1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("%w: get question: %v", domain.ErrStoreUnavailable, err)
	}
	var q domain.Question
	if err := json.Unmarshal(raw, &q); err != nil {
		return domain.Question{}, fmt.Errorf("%w: decode question: %v", domain.ErrStoreUnavailable, err)
	}
	return q, nil
}

func (s *QuestionStore) Append(ctx context.Context, q domain.Question) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("%w: encode question: %v", domain.ErrStoreUnavailable, err)
	}
	if _, err := s.pool.Exec(ctx, `INSERT INTO questions (id, data) VALUES ($1, $2)`, q.ID, data); err != nil {
		return fmt.Errorf("%w: insert question: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *QuestionStore) Update(ctx context.Context, id int64, q domain.Question) error {
	q.ID = id
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("%w: encode question: %v", domain.ErrStoreUnavailable, err)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE questions SET data=$2 WHERE id=$1`, id, data)
	if err != nil {
		return fmt.Errorf("%w: update question: %v", domain.ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *QuestionStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete question: %v", domain.ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}
