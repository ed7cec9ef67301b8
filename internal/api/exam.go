package api

import (
	"context"
	"net/http"
	"net/url"
)

// SubmitExam posts a finished exam session for scoring. The submission is
// assembled once by the exam engine; unanswered questions are simply absent
// from Answers.
func (c *Client) SubmitExam(ctx context.Context, sub ExamSubmission) (ExamResult, error) {
	path := "/exam/submit/" + url.PathEscape(sub.UserID) + "/" + url.PathEscape(sub.QuizID)
	body := struct {
		Answers   []AnswerPair `json:"answers"`
		TimeSpent int          `json:"timeSpent,omitempty"`
	}{Answers: sub.Answers, TimeSpent: sub.TimeSpent}

	var out ExamResult
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return ExamResult{}, err
	}
	return out, nil
}

func (c *Client) QuizSubmissions(ctx context.Context, quizID string) ([]ExamResult, error) {
	var out []ExamResult
	if err := c.do(ctx, http.MethodGet, "/exam/quizzes/"+url.PathEscape(quizID)+"/submissions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Submission(ctx context.Context, id string) (ExamResult, error) {
	var out ExamResult
	if err := c.do(ctx, http.MethodGet, "/exam/submissions/"+url.PathEscape(id), nil, &out); err != nil {
		return ExamResult{}, err
	}
	return out, nil
}

func (c *Client) UserSubmissions(ctx context.Context, userID string) ([]ExamResult, error) {
	var out []ExamResult
	if err := c.do(ctx, http.MethodGet, "/exam/users/"+url.PathEscape(userID)+"/submissions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
