package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"miniverse/api"
	"miniverse/domain"
	"miniverse/session"
	"miniverse/util"
)

// mockBackend implements cli.Backend for testing
type mockBackend struct {
	feed        []domain.BlogPost
	capsules    []domain.BlogPost
	posts       map[string]domain.BlogPost
	comments    map[string][]domain.Comment
	createError error
	created     *domain.PostRequest
}

func (m *mockBackend) PublicPosts(ctx context.Context, page, size int) (domain.Page[domain.BlogPost], error) {
	posts := m.feed
	if len(posts) > size {
		posts = posts[:size]
	}
	return domain.Page[domain.BlogPost]{Content: posts, TotalPages: 1}, nil
}

func (m *mockBackend) TimeCapsules(ctx context.Context, page, size int) (domain.Page[domain.BlogPost], error) {
	return domain.Page[domain.BlogPost]{Content: m.capsules, TotalPages: 1}, nil
}

func (m *mockBackend) Post(ctx context.Context, id string) (domain.BlogPost, error) {
	post, ok := m.posts[id]
	if !ok {
		return domain.BlogPost{}, &api.Error{StatusCode: 404}
	}
	return post, nil
}

func (m *mockBackend) CreatePost(ctx context.Context, req domain.PostRequest) (domain.BlogPost, error) {
	if m.createError != nil {
		return domain.BlogPost{}, m.createError
	}
	m.created = &req
	return domain.BlogPost{Id: "new-1", Title: req.Title, Status: req.Status, CreatedAt: time.Now()}, nil
}

func (m *mockBackend) Comments(ctx context.Context, postId string) ([]domain.Comment, error) {
	return m.comments[postId], nil
}

func newTestHandler(t *testing.T, backend *mockBackend, input string, loggedIn bool) (*Handler, *bytes.Buffer) {
	t.Helper()
	store := session.NewStoreAt(filepath.Join(t.TempDir(), "credentials.yaml"))
	if loggedIn {
		if err := store.Save(session.Credentials{Token: "tok", Username: "mira"}); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}
	sess, err := session.New(api.NewClient("http://localhost:0", time.Second), store)
	if err != nil {
		t.Fatalf("session.New() error: %v", err)
	}

	out := &bytes.Buffer{}
	conf := &util.AppConfig{}
	return NewHandler(strings.NewReader(input), out, backend, sess, conf), out
}

func TestFeedTextOutput(t *testing.T) {
	backend := &mockBackend{feed: []domain.BlogPost{
		{Id: "p1", Author: "mira", Title: "Hello", Content: "first post", CreatedAt: time.Now()},
		{Id: "p2", Author: "noor", Title: "Again", Content: "second post", CreatedAt: time.Now()},
	}}
	h, out := newTestHandler(t, backend, "", false)

	if err := h.Execute([]string{"feed"}); err != nil {
		t.Fatalf("Execute(feed) error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "@mira") || !strings.Contains(got, "Hello") {
		t.Errorf("feed output missing post data:\n%s", got)
	}
}

func TestFeedJSONOutput(t *testing.T) {
	backend := &mockBackend{feed: []domain.BlogPost{
		{Id: "p1", Author: "mira", Title: "Hello", Content: "first post", CreatedAt: time.Now()},
	}}
	h, out := newTestHandler(t, backend, "", false)

	if err := h.Execute([]string{"feed", "--json"}); err != nil {
		t.Fatalf("Execute(feed --json) error: %v", err)
	}

	var resp FeedResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if resp.Count != 1 || resp.Posts[0].Author != "mira" {
		t.Errorf("unexpected feed response: %+v", resp)
	}
}

func TestFeedLimitFlag(t *testing.T) {
	var feed []domain.BlogPost
	for i := 0; i < 30; i++ {
		feed = append(feed, domain.BlogPost{Id: "p", Title: "t", CreatedAt: time.Now()})
	}
	backend := &mockBackend{feed: feed}
	h, out := newTestHandler(t, backend, "", false)

	if err := h.Execute([]string{"feed", "-n", "3", "-j"}); err != nil {
		t.Fatalf("Execute(feed -n 3) error: %v", err)
	}
	var resp FeedResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if resp.Count != 3 {
		t.Errorf("expected 3 posts, got %d", resp.Count)
	}
}

func TestFeedQueryFilter(t *testing.T) {
	backend := &mockBackend{feed: []domain.BlogPost{
		{Id: "p1", Author: "mira", Title: "Morning pages", Content: "coffee", CreatedAt: time.Now()},
		{Id: "p2", Author: "noor", Title: "Evening walk", Content: "sunset", CreatedAt: time.Now()},
	}}
	h, out := newTestHandler(t, backend, "", false)

	if err := h.Execute([]string{"feed", "-q", "morning", "-j"}); err != nil {
		t.Fatalf("Execute(feed -q) error: %v", err)
	}
	var resp FeedResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if resp.Count != 1 || resp.Posts[0].ID != "p1" {
		t.Errorf("unexpected filtered feed: %+v", resp)
	}
}

func TestFeedInvalidLimit(t *testing.T) {
	h, _ := newTestHandler(t, &mockBackend{}, "", false)
	if err := h.Execute([]string{"feed", "-n", "abc"}); err == nil {
		t.Error("expected error for invalid -n value")
	}
}

func TestCapsulesRequiresLogin(t *testing.T) {
	h, _ := newTestHandler(t, &mockBackend{}, "", false)
	if err := h.Execute([]string{"capsules"}); err == nil {
		t.Error("expected error when not logged in")
	}
}

func TestCapsulesShowsSealedState(t *testing.T) {
	future := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	backend := &mockBackend{capsules: []domain.BlogPost{
		{Id: "c1", Title: "Future me", Status: domain.StatusScheduled, PublishAt: future, CreatedAt: time.Now()},
	}}
	h, out := newTestHandler(t, backend, "", true)

	if err := h.Execute([]string{"capsules", "-j"}); err != nil {
		t.Fatalf("Execute(capsules) error: %v", err)
	}
	var resp CapsulesResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("expected 1 capsule, got %d", resp.Count)
	}
	if resp.Capsules[0].Open {
		t.Error("capsule with future publishAt reported open")
	}
	if resp.Capsules[0].OpensIn == "" {
		t.Error("expected a countdown for sealed capsule")
	}
}

func TestReadSealedCapsuleHidesContent(t *testing.T) {
	future := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	backend := &mockBackend{posts: map[string]domain.BlogPost{
		"c1": {Id: "c1", Title: "Sealed", Content: "secret", Author: "mira",
			Status: domain.StatusScheduled, PublishAt: future, CreatedAt: time.Now()},
	}}
	h, out := newTestHandler(t, backend, "", false)

	if err := h.Execute([]string{"read", "c1", "-j"}); err != nil {
		t.Fatalf("Execute(read) error: %v", err)
	}
	var resp ReadResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if resp.Content != "" {
		t.Error("sealed capsule content leaked into output")
	}
	if resp.Visibility != "Sealed" {
		t.Errorf("visibility = %q, want Sealed", resp.Visibility)
	}
}

func TestReadMissingPost(t *testing.T) {
	h, _ := newTestHandler(t, &mockBackend{posts: map[string]domain.BlogPost{}}, "", false)
	err := h.Execute([]string{"read", "nope"})
	if !errors.Is(err, api.ErrNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestPublishFromStdin(t *testing.T) {
	backend := &mockBackend{}
	h, out := newTestHandler(t, backend, "dear future me, hello\n", true)

	if err := h.Execute([]string{"publish", "Time", "capsule", "-"}); err != nil {
		t.Fatalf("Execute(publish) error: %v", err)
	}
	if backend.created == nil {
		t.Fatal("CreatePost was not called")
	}
	if backend.created.Title != "Time capsule" {
		t.Errorf("title = %q, want %q", backend.created.Title, "Time capsule")
	}
	if backend.created.Content != "dear future me, hello" {
		t.Errorf("content = %q", backend.created.Content)
	}
	if !strings.Contains(out.String(), "Published: new-1") {
		t.Errorf("missing confirmation:\n%s", out.String())
	}
}

func TestPublishValidatesTitle(t *testing.T) {
	h, _ := newTestHandler(t, &mockBackend{}, "some content\n", true)
	if err := h.Execute([]string{"publish", "ab", "-"}); err == nil {
		t.Error("expected validation error for 2-char title")
	}
}

func TestWhoamiLoggedOut(t *testing.T) {
	h, out := newTestHandler(t, &mockBackend{}, "", false)
	if err := h.Execute([]string{"whoami", "-j"}); err != nil {
		t.Fatalf("Execute(whoami) error: %v", err)
	}
	var resp WhoamiResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if resp.LoggedIn {
		t.Error("expected logged_in false")
	}
}

func TestWhoamiLoggedIn(t *testing.T) {
	h, out := newTestHandler(t, &mockBackend{}, "", true)
	if err := h.Execute([]string{"whoami"}); err != nil {
		t.Fatalf("Execute(whoami) error: %v", err)
	}
	if !strings.Contains(out.String(), "@mira") {
		t.Errorf("whoami output missing username:\n%s", out.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	h, out := newTestHandler(t, &mockBackend{}, "", false)
	if err := h.Execute([]string{"frobnicate"}); err == nil {
		t.Error("expected error for unknown command")
	}
	if !strings.Contains(out.String(), "unknown command") {
		t.Errorf("missing error message:\n%s", out.String())
	}
}

func TestHelpJSON(t *testing.T) {
	h, out := newTestHandler(t, &mockBackend{}, "", false)
	if err := h.Execute([]string{"help", "--json"}); err != nil {
		t.Fatalf("Execute(help) error: %v", err)
	}
	var resp HelpResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(resp.Commands) == 0 {
		t.Error("help lists no commands")
	}
}
