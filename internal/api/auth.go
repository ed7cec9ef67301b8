package api

import (
	"context"
	"net/http"
)

func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}
