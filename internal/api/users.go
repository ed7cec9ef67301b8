package api

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListUsers(ctx context.Context, opts ListOpts) (Page[User], error) {
	var out Page[User]
	if err := c.do(ctx, http.MethodGet, "/users?"+opts.query(), nil, &out); err != nil {
		return Page[User]{}, err
	}
	return out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, u User) (User, error) {
	var out User
	if err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), u, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListRoles(ctx context.Context) ([]Role, error) {
	var out []Role
	if err := c.do(ctx, http.MethodGet, "/roles", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AssignRole(ctx context.Context, userID, role string) error {
	path := "/users/" + url.PathEscape(userID) + "/roles/" + url.PathEscape(role)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) RevokeRole(ctx context.Context, userID, role string) error {
	path := "/users/" + url.PathEscape(userID) + "/roles/" + url.PathEscape(role)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
