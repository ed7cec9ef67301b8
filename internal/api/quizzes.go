package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type ListOpts struct {
	Page int
	Size int
}

func (o ListOpts) query() string {
	q := url.Values{}
	q.Set("page", fmt.Sprint(o.Page))
	size := o.Size
	if size <= 0 {
		size = 10
	}
	q.Set("size", fmt.Sprint(size))
	return q.Encode()
}

func (c *Client) ListQuizzes(ctx context.Context, opts ListOpts) (Page[Quiz], error) {
	var out Page[Quiz]
	if err := c.do(ctx, http.MethodGet, "/quizzes?"+opts.query(), nil, &out); err != nil {
		return Page[Quiz]{}, err
	}
	return out, nil
}

// GetQuiz returns a quiz with nested questions and answers. This is the exam
// engine's primary input; answer correctness is never present in the payload.
func (c *Client) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	var out Quiz
	if err := c.do(ctx, http.MethodGet, "/quizzes/"+url.PathEscape(id), nil, &out); err != nil {
		return Quiz{}, err
	}
	return out, nil
}

func (c *Client) CreateQuiz(ctx context.Context, in CreateQuizInput) (Quiz, error) {
	var out Quiz
	if err := c.do(ctx, http.MethodPost, "/quizzes", in, &out); err != nil {
		return Quiz{}, err
	}
	return out, nil
}

func (c *Client) UpdateQuiz(ctx context.Context, id string, in UpdateQuizInput) (Quiz, error) {
	var out Quiz
	if err := c.do(ctx, http.MethodPut, "/quizzes/"+url.PathEscape(id), in, &out); err != nil {
		return Quiz{}, err
	}
	return out, nil
}

func (c *Client) DeleteQuiz(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/quizzes/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListQuizQuestions(ctx context.Context, quizID string) ([]Question, error) {
	var out []Question
	if err := c.do(ctx, http.MethodGet, "/quizzes/"+url.PathEscape(quizID)+"/questions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddQuestionToQuiz(ctx context.Context, quizID, questionID string) error {
	path := "/quizzes/" + url.PathEscape(quizID) + "/questions/" + url.PathEscape(questionID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) RemoveQuestionFromQuiz(ctx context.Context, quizID, questionID string) error {
	path := "/quizzes/" + url.PathEscape(quizID) + "/questions/" + url.PathEscape(questionID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
