package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniverse/domain"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestPublicPostsQuery(t *testing.T) {
	var gotPath, gotSort, gotPage, gotSize string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSort = r.URL.Query().Get("sort")
		gotPage = r.URL.Query().Get("page")
		gotSize = r.URL.Query().Get("size")
		json.NewEncoder(w).Encode(domain.Page[domain.BlogPost]{TotalPages: 1})
	})

	_, err := c.PublicPosts(context.Background(), 2, 9)
	require.NoError(t, err)
	assert.Equal(t, "/posts/public", gotPath)
	assert.Equal(t, "createdAt,desc", gotSort)
	assert.Equal(t, "2", gotPage)
	assert.Equal(t, "9", gotSize)
}

func TestMyPostsScopePaths(t *testing.T) {
	tests := []struct {
		scope MyPostsScope
		want  string
	}{
		{ScopeAll, "/posts/me"},
		{ScopePublic, "/posts/me/public"},
		{ScopePrivate, "/posts/me/private"},
	}
	for _, tt := range tests {
		var gotPath string
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			json.NewEncoder(w).Encode(domain.Page[domain.BlogPost]{})
		})
		_, err := c.MyPosts(context.Background(), tt.scope, 0, 9)
		require.NoError(t, err)
		assert.Equal(t, tt.want, gotPath)
	}
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(domain.UserProfile{Username: "mira"})
	})
	c.SetTokenSource(func() string { return "tok-123" })

	profile, err := c.CurrentProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "mira", profile.Username)
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(domain.Page[domain.BlogPost]{})
	})
	c.SetTokenSource(func() string { return "" })

	_, err := c.PublicPosts(context.Background(), 0, 9)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedTriggersHook(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
	})
	hookCalls := 0
	c.OnUnauthorized(func() { hookCalls++ })

	_, err := c.CurrentProfile(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, 1, hookCalls)
	assert.Contains(t, err.Error(), "token expired")
}

func TestNotFoundSentinel(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	hookCalls := 0
	c.OnUnauthorized(func() { hookCalls++ })

	_, err := c.Post(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, 0, hookCalls, "only 401 should trigger the unauthorized hook")
}

func TestCreatePostSendsJSON(t *testing.T) {
	var gotContentType string
	var gotReq domain.PostRequest
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(domain.BlogPost{Id: "p1", Title: gotReq.Title})
	})

	post, err := c.CreatePost(context.Background(), domain.PostRequest{
		Title:   "Hello",
		Content: "world",
		Status:  domain.StatusPublished,
	})
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Hello", gotReq.Title)
	assert.Equal(t, domain.StatusPublished, gotReq.Status)
	assert.Equal(t, "p1", post.Id)
}

func TestDeleteNoContent(t *testing.T) {
	var gotMethod, gotPath string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeletePost(context.Background(), "p1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/posts/p1", gotPath)
}

func TestRequestIdHeader(t *testing.T) {
	var gotId string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotId = r.Header.Get("X-Request-Id")
		json.NewEncoder(w).Encode(domain.Page[domain.BlogPost]{})
	})

	_, err := c.PublicPosts(context.Background(), 0, 9)
	require.NoError(t, err)
	assert.NotEmpty(t, gotId)
}

func TestLikePostPath(t *testing.T) {
	var gotPath string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(domain.BlogPost{Id: "p1", LikesCount: 4})
	})

	post, err := c.LikePost(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "/posts/p1/like", gotPath)
	assert.Equal(t, 4, post.LikesCount)
}

func TestErrorMessageFallsBackToErrorField(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "title too short"})
	})

	_, err := c.CreatePost(context.Background(), domain.PostRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title too short")
}
