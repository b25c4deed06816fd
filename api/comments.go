package api

import (
	"context"
	"net/url"

	"miniverse/domain"
)

// Comments lists the comments of a post.
func (c *Client) Comments(ctx context.Context, postId string) ([]domain.Comment, error) {
	var resp []domain.Comment
	err := c.get(ctx, "/posts/"+url.PathEscape(postId)+"/comments", nil, &resp)
	return resp, err
}

// AddComment creates a comment under a post.
func (c *Client) AddComment(ctx context.Context, postId string, req domain.CommentRequest) (domain.Comment, error) {
	var resp domain.Comment
	err := c.post(ctx, "/posts/"+url.PathEscape(postId)+"/comments", req, &resp)
	return resp, err
}

// DeleteComment removes a comment. Author-only, enforced server-side.
func (c *Client) DeleteComment(ctx context.Context, commentId string) error {
	return c.delete(ctx, "/posts/comments/"+url.PathEscape(commentId))
}
