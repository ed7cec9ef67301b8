package localapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/quizdeck/quizdeck/internal/api"
)

func (s *SQLStore) SaveSubmission(ctx context.Context, userID string, quiz api.Quiz, answers []api.AnswerPair, res api.ExamResult, timeSpent int) (api.ExamResult, error) {
	aj, err := json.Marshal(answers)
	if err != nil {
		return api.ExamResult{}, err
	}
	res.ID = newID()
	res.QuizTitle = quiz.Title
	now := time.Now().Unix()
	res.SubmittedAt = fmtTime(now)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions (id,user_id,quiz_id,quiz_title,score,total_questions,correct_answers,answers_json,time_spent_sec,submitted_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		res.ID, userID, quiz.ID, quiz.Title, res.Score, res.TotalQuestions, res.CorrectAnswers, string(aj), timeSpent, now)
	if err != nil {
		return api.ExamResult{}, err
	}
	return res, nil
}

const submissionCols = `id,quiz_title,score,total_questions,correct_answers,submitted_at`

func scanSubmission(row interface{ Scan(...any) error }) (api.ExamResult, error) {
	var r api.ExamResult
	var submitted int64
	if err := row.Scan(&r.ID, &r.QuizTitle, &r.Score, &r.TotalQuestions, &r.CorrectAnswers, &submitted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.ExamResult{}, ErrNotFound
		}
		return api.ExamResult{}, err
	}
	r.IncorrectAnswers = r.TotalQuestions - r.CorrectAnswers
	r.SubmittedAt = fmtTime(submitted)
	return r, nil
}

func (s *SQLStore) Submission(ctx context.Context, id string) (api.ExamResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+submissionCols+` FROM submissions WHERE id=$1`, id)
	return scanSubmission(row)
}

func (s *SQLStore) listSubmissions(ctx context.Context, where string, arg any) ([]api.ExamResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+submissionCols+` FROM submissions WHERE `+where+` ORDER BY submitted_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []api.ExamResult{}
	for rows.Next() {
		r, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) QuizSubmissions(ctx context.Context, quizID string) ([]api.ExamResult, error) {
	return s.listSubmissions(ctx, `quiz_id=$1`, quizID)
}

func (s *SQLStore) UserSubmissions(ctx context.Context, userID string) ([]api.ExamResult, error) {
	return s.listSubmissions(ctx, `user_id=$1`, userID)
}
