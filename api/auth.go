package api

import (
	"context"

	"miniverse/domain"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	var resp domain.AuthResponse
	err := c.post(ctx, "/auth/login", req, &resp)
	return resp, err
}

// Register creates an account. A successful registration also returns a
// token, so the caller is logged in immediately.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	var resp domain.AuthResponse
	err := c.post(ctx, "/auth/register", req, &resp)
	return resp, err
}
