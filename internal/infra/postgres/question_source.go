package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-skill/internal/domain"
)

// Source loads the question pools from Postgres (questions and
// flag_questions tables; see the migrations package for the schema).
type Source struct {
	pool *pgxpool.Pool
}

func NewSource(pool *pgxpool.Pool) *Source {
	return &Source{pool: pool}
}

func (s *Source) Load(ctx context.Context) (domain.QuestionSet, error) {
	set := domain.QuestionSet{ByCategory: make(map[string][]domain.SimpleQuestion)}

	rows, err := s.pool.Query(ctx, `SELECT category, prompt, answer, COALESCE(comment, '') FROM questions`)
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var q domain.SimpleQuestion
		if err := rows.Scan(&q.Category, &q.Prompt, &q.Answer, &q.Comment); err != nil {
			return domain.QuestionSet{}, fmt.Errorf("scan question: %w", err)
		}
		set.ByCategory[q.Category] = append(set.ByCategory[q.Category], q)
	}
	if err := rows.Err(); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("read questions: %w", err)
	}

	frows, err := s.pool.Query(ctx, `SELECT country_code, name FROM flag_questions`)
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("load flag questions: %w", err)
	}
	defer frows.Close()
	for frows.Next() {
		var q domain.FlagQuestion
		if err := frows.Scan(&q.CountryCode, &q.Name); err != nil {
			return domain.QuestionSet{}, fmt.Errorf("scan flag question: %w", err)
		}
		set.Flags = append(set.Flags, q)
	}
	if err := frows.Err(); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("read flag questions: %w", err)
	}

	return set, nil
}
