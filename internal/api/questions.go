package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type QuestionFilter struct {
	Page    int
	Size    int
	Content string
	Type    string
}

func (f QuestionFilter) query() string {
	q := url.Values{}
	q.Set("page", fmt.Sprint(f.Page))
	size := f.Size
	if size <= 0 {
		size = 10
	}
	q.Set("size", fmt.Sprint(size))
	if f.Content != "" {
		q.Set("content", f.Content)
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	return q.Encode()
}

func (c *Client) ListQuestions(ctx context.Context, f QuestionFilter) (Page[Question], error) {
	var out Page[Question]
	if err := c.do(ctx, http.MethodGet, "/questions?"+f.query(), nil, &out); err != nil {
		return Page[Question]{}, err
	}
	return out, nil
}

func (c *Client) GetQuestion(ctx context.Context, id string) (Question, error) {
	var out Question
	if err := c.do(ctx, http.MethodGet, "/questions/"+url.PathEscape(id), nil, &out); err != nil {
		return Question{}, err
	}
	return out, nil
}

func (c *Client) CreateQuestion(ctx context.Context, in CreateQuestionInput) (Question, error) {
	var out Question
	if err := c.do(ctx, http.MethodPost, "/questions", in, &out); err != nil {
		return Question{}, err
	}
	return out, nil
}

func (c *Client) UpdateQuestion(ctx context.Context, id string, in UpdateQuestionInput) (Question, error) {
	var out Question
	if err := c.do(ctx, http.MethodPut, "/questions/"+url.PathEscape(id), in, &out); err != nil {
		return Question{}, err
	}
	return out, nil
}

func (c *Client) DeleteQuestion(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/questions/"+url.PathEscape(id), nil, nil)
}
