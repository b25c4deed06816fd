package api

import (
	"context"
	"net/url"

	"miniverse/domain"
)

// MyPostsScope selects which slice of the caller's own posts to list.
type MyPostsScope string

const (
	ScopeAll     MyPostsScope = "all"
	ScopePublic  MyPostsScope = "public"
	ScopePrivate MyPostsScope = "private"
)

// PublicPosts lists the public feed, newest first.
func (c *Client) PublicPosts(ctx context.Context, page, size int) (domain.Page[domain.BlogPost], error) {
	var resp domain.Page[domain.BlogPost]
	err := c.get(ctx, "/posts/public", pageQuery(page, size), &resp)
	return resp, err
}

// MyPosts lists the authenticated user's posts under the given scope. The
// listing is owner-filtered server-side, which is why the my-posts view may
// assume ownership of every item.
func (c *Client) MyPosts(ctx context.Context, scope MyPostsScope, page, size int) (domain.Page[domain.BlogPost], error) {
	path := "/posts/me"
	switch scope {
	case ScopePublic:
		path = "/posts/me/public"
	case ScopePrivate:
		path = "/posts/me/private"
	}
	var resp domain.Page[domain.BlogPost]
	err := c.get(ctx, path, pageQuery(page, size), &resp)
	return resp, err
}

// TimeCapsules lists the authenticated user's scheduled posts.
func (c *Client) TimeCapsules(ctx context.Context, page, size int) (domain.Page[domain.BlogPost], error) {
	var resp domain.Page[domain.BlogPost]
	err := c.get(ctx, "/posts/time-capsules", pageQuery(page, size), &resp)
	return resp, err
}

// Post fetches a single post by id. Missing posts yield ErrNotFound.
func (c *Client) Post(ctx context.Context, id string) (domain.BlogPost, error) {
	var resp domain.BlogPost
	err := c.get(ctx, "/posts/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

// CreatePost publishes or schedules a new post.
func (c *Client) CreatePost(ctx context.Context, req domain.PostRequest) (domain.BlogPost, error) {
	var resp domain.BlogPost
	err := c.post(ctx, "/posts", req, &resp)
	return resp, err
}

// UpdatePost edits an existing post. Owner-only, enforced server-side.
func (c *Client) UpdatePost(ctx context.Context, id string, req domain.PostRequest) (domain.BlogPost, error) {
	var resp domain.BlogPost
	err := c.put(ctx, "/posts/"+url.PathEscape(id), req, &resp)
	return resp, err
}

// DeletePost permanently removes a post and (server-side) its comments.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.delete(ctx, "/posts/"+url.PathEscape(id))
}

// LikePost toggles the caller's like and returns the updated post.
func (c *Client) LikePost(ctx context.Context, id string) (domain.BlogPost, error) {
	var resp domain.BlogPost
	err := c.post(ctx, "/posts/"+url.PathEscape(id)+"/like", nil, &resp)
	return resp, err
}
