package localapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/quizdeck/quizdeck/internal/api"
)

func (s *SQLStore) CreateQuestion(ctx context.Context, in api.CreateQuestionInput) (api.Question, error) {
	now := time.Now().Unix()
	id := newID()
	answers := make([]api.Answer, len(in.Answers))
	for i, a := range in.Answers {
		answers[i] = a
		if answers[i].ID == "" {
			answers[i].ID = newID()
		}
	}
	aj, err := json.Marshal(answers)
	if err != nil {
		return api.Question{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO questions (id,content,type,ord,answers_json,created_at,updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, in.Content, in.Type, in.Order, string(aj), now, now)
	if err != nil {
		return api.Question{}, err
	}
	return api.Question{ID: id, Content: in.Content, Type: in.Type, Order: in.Order, Answers: answers}, nil
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (api.Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,content,type,ord,answers_json FROM questions WHERE id=$1`, id)
	return scanQuestion(row)
}

func scanQuestion(row interface{ Scan(...any) error }) (api.Question, error) {
	var q api.Question
	var answers string
	if err := row.Scan(&q.ID, &q.Content, &q.Type, &q.Order, &answers); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.Question{}, ErrNotFound
		}
		return api.Question{}, err
	}
	if err := json.Unmarshal([]byte(answers), &q.Answers); err != nil {
		return api.Question{}, err
	}
	return q, nil
}

func (s *SQLStore) UpdateQuestion(ctx context.Context, id string, in api.UpdateQuestionInput) (api.Question, error) {
	q, err := s.GetQuestion(ctx, id)
	if err != nil {
		return api.Question{}, err
	}
	if in.Content != "" {
		q.Content = in.Content
	}
	if in.Type != "" {
		q.Type = in.Type
	}
	if in.Order != nil {
		q.Order = *in.Order
	}
	if in.Answers != nil {
		for i := range in.Answers {
			if in.Answers[i].ID == "" {
				in.Answers[i].ID = newID()
			}
		}
		q.Answers = in.Answers
	}
	aj, err := json.Marshal(q.Answers)
	if err != nil {
		return api.Question{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE questions SET content=$1, type=$2, ord=$3, answers_json=$4, updated_at=$5 WHERE id=$6`,
		q.Content, q.Type, q.Order, string(aj), time.Now().Unix(), id)
	if err != nil {
		return api.Question{}, err
	}
	return q, nil
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) ListQuestions(ctx context.Context, page, size int, content, typ string) (api.Page[api.Question], error) {
	out := api.Page[api.Question]{Page: page, Size: size, Content: []api.Question{}}

	where := ` WHERE 1=1`
	args := []any{}
	n := 1
	if content != "" {
		where += ` AND content LIKE '%' || $` + strconv.Itoa(n) + ` || '%'`
		args = append(args, content)
		n++
	}
	if typ != "" {
		where += ` AND type = $` + strconv.Itoa(n)
		args = append(args, typ)
		n++
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`+where, args...).Scan(&out.TotalElements); err != nil {
		return out, err
	}
	args = append(args, size, page*size)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,content,type,ord,answers_json FROM questions`+where+
			` ORDER BY created_at LIMIT $`+strconv.Itoa(n)+` OFFSET $`+strconv.Itoa(n+1), args...)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return out, err
		}
		out.Content = append(out.Content, q)
	}
	out.TotalPages = pages(out.TotalElements, size)
	return out, rows.Err()
}
