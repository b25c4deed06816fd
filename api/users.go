package api

import (
	"context"

	"miniverse/domain"
)

// CurrentProfile fetches the authenticated user's profile.
func (c *Client) CurrentProfile(ctx context.Context) (domain.UserProfile, error) {
	var resp domain.UserProfile
	err := c.get(ctx, "/users/me", nil, &resp)
	return resp, err
}

// UpdateProfile edits the profile fields other than username/id.
func (c *Client) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) (domain.UserProfile, error) {
	var resp domain.UserProfile
	err := c.put(ctx, "/users/me", req, &resp)
	return resp, err
}

// UpdatePassword changes the account password.
func (c *Client) UpdatePassword(ctx context.Context, req domain.UpdatePasswordRequest) error {
	return c.put(ctx, "/users/me/password", req, nil)
}

// DeleteAccount removes the account permanently.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.delete(ctx, "/users/me")
}
