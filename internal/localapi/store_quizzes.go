package localapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/quizdeck/quizdeck/internal/api"
)

func (s *SQLStore) CreateQuiz(ctx context.Context, in api.CreateQuizInput) (api.Quiz, error) {
	now := time.Now().Unix()
	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quizzes (id,title,description,duration_minutes,created_at,updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		id, in.Title, in.Description, in.DurationMinutes, now, now)
	if err != nil {
		return api.Quiz{}, err
	}
	return api.Quiz{
		ID: id, Title: in.Title, Description: in.Description,
		DurationMinutes: in.DurationMinutes,
		CreatedAt:       fmtTime(now), UpdatedAt: fmtTime(now),
	}, nil
}

func (s *SQLStore) UpdateQuiz(ctx context.Context, id string, in api.UpdateQuizInput) (api.Quiz, error) {
	q, err := s.getQuizRow(ctx, id)
	if err != nil {
		return api.Quiz{}, err
	}
	if in.Title != "" {
		q.Title = in.Title
	}
	if in.Description != "" {
		q.Description = in.Description
	}
	if in.DurationMinutes != nil {
		q.DurationMinutes = *in.DurationMinutes
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE quizzes SET title=$1, description=$2, duration_minutes=$3, updated_at=$4 WHERE id=$5`,
		q.Title, q.Description, q.DurationMinutes, time.Now().Unix(), id)
	if err != nil {
		return api.Quiz{}, err
	}
	return q, nil
}

func (s *SQLStore) DeleteQuiz(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) getQuizRow(ctx context.Context, id string) (api.Quiz, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,description,duration_minutes,created_at,updated_at FROM quizzes WHERE id=$1`, id)
	var q api.Quiz
	var created, updated int64
	if err := row.Scan(&q.ID, &q.Title, &q.Description, &q.DurationMinutes, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.Quiz{}, ErrNotFound
		}
		return api.Quiz{}, err
	}
	q.CreatedAt = fmtTime(created)
	q.UpdatedAt = fmtTime(updated)
	return q, nil
}

// GetQuiz returns the quiz with its questions in order. When forExam is set
// the answer correctness flags are stripped, matching what the production
// backend serves to takers.
func (s *SQLStore) GetQuiz(ctx context.Context, id string, forExam bool) (api.Quiz, error) {
	q, err := s.getQuizRow(ctx, id)
	if err != nil {
		return api.Quiz{}, err
	}
	qs, err := s.QuizQuestions(ctx, id)
	if err != nil {
		return api.Quiz{}, err
	}
	if forExam {
		for i := range qs {
			for j := range qs[i].Answers {
				qs[i].Answers[j].IsCorrect = nil
			}
		}
	}
	q.Questions = qs
	return q, nil
}

func (s *SQLStore) ListQuizzes(ctx context.Context, page, size int) (api.Page[api.Quiz], error) {
	out := api.Page[api.Quiz]{Page: page, Size: size, Content: []api.Quiz{}}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quizzes`).Scan(&out.TotalElements); err != nil {
		return out, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,title,description,duration_minutes,created_at,updated_at
		 FROM quizzes ORDER BY created_at LIMIT $1 OFFSET $2`, size, page*size)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var q api.Quiz
		var created, updated int64
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.DurationMinutes, &created, &updated); err != nil {
			return out, err
		}
		q.CreatedAt = fmtTime(created)
		q.UpdatedAt = fmtTime(updated)
		out.Content = append(out.Content, q)
	}
	out.TotalPages = pages(out.TotalElements, size)
	return out, rows.Err()
}

func (s *SQLStore) AttachQuestion(ctx context.Context, quizID, questionID string) error {
	if _, err := s.getQuizRow(ctx, quizID); err != nil {
		return err
	}
	if _, err := s.GetQuestion(ctx, questionID); err != nil {
		return err
	}
	var next int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(ord),0)+1 FROM quiz_questions WHERE quiz_id=$1`, quizID).Scan(&next); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quiz_questions (quiz_id,question_id,ord) VALUES ($1,$2,$3)
		 ON CONFLICT (quiz_id,question_id) DO NOTHING`,
		quizID, questionID, next)
	return err
}

func (s *SQLStore) DetachQuestion(ctx context.Context, quizID, questionID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM quiz_questions WHERE quiz_id=$1 AND question_id=$2`, quizID, questionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// QuizQuestions returns the quiz's questions ordered by their position.
func (s *SQLStore) QuizQuestions(ctx context.Context, quizID string) ([]api.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT q.id, q.content, q.type, qq.ord, q.answers_json
		 FROM questions q JOIN quiz_questions qq ON qq.question_id = q.id
		 WHERE qq.quiz_id=$1 ORDER BY qq.ord`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []api.Question{}
	for rows.Next() {
		var q api.Question
		var answers string
		if err := rows.Scan(&q.ID, &q.Content, &q.Type, &q.Order, &answers); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(answers), &q.Answers); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
