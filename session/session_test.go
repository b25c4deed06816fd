package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"miniverse/api"
	"miniverse/domain"
)

func newTestSession(t *testing.T, handler http.HandlerFunc) (*Session, *Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := NewStoreAt(filepath.Join(t.TempDir(), "credentials.yaml"))
	client := api.NewClient(srv.URL, 5*time.Second)
	sess, err := New(client, store)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return sess, store
}

func TestLoginPersistsCredentials(t *testing.T) {
	sess, store := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.AuthResponse{Token: "tok-1", Username: "mira"})
	})

	err := sess.Login(context.Background(), domain.LoginRequest{Email: "m@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if !sess.LoggedIn() {
		t.Error("expected LoggedIn() after login")
	}
	if got := sess.Username(); got != "mira" {
		t.Errorf("Username() = %q, want %q", got, "mira")
	}

	creds, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if creds.Token != "tok-1" || creds.Username != "mira" {
		t.Errorf("persisted credentials = %+v, want token tok-1 / username mira", creds)
	}
}

func TestRejectedTokenClearsSession(t *testing.T) {
	sess, store := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			json.NewEncoder(w).Encode(domain.AuthResponse{Token: "tok-1", Username: "mira"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	if err := sess.Login(context.Background(), domain.LoginRequest{Email: "m@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	// Any authenticated call failing with 401 must log out implicitly and
	// still surface the failure to the caller.
	_, err := sess.client.CurrentProfile(context.Background())
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if sess.LoggedIn() {
		t.Error("session still logged in after rejected token")
	}
	creds, _ := store.Load()
	if creds.Token != "" {
		t.Error("credentials file not cleared after rejected token")
	}
}

func TestLogoutClearsStore(t *testing.T) {
	sess, store := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.AuthResponse{Token: "tok-1", Username: "mira"})
	})

	if err := sess.Login(context.Background(), domain.LoginRequest{Email: "m@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if err := sess.Logout(); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if sess.LoggedIn() {
		t.Error("still logged in after Logout()")
	}
	creds, _ := store.Load()
	if creds.Token != "" {
		t.Error("credentials survived Logout()")
	}
}

func TestSessionRestoredFromStore(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "credentials.yaml"))
	if err := store.Save(Credentials{Token: "tok-9", Username: "noor"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	client := api.NewClient("http://localhost:0", time.Second)
	sess, err := New(client, store)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !sess.LoggedIn() {
		t.Error("expected session restored from store")
	}
	if got := sess.Username(); got != "noor" {
		t.Errorf("Username() = %q, want %q", got, "noor")
	}
}

func TestStoreFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	store := NewStoreAt(path)
	if err := store.Save(Credentials{Token: "tok", Username: "u"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("credentials file mode = %o, want 0600", perm)
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	claims := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"exp":%d,"sub":"mira"}`, exp)))
	token := header + "." + claims + ".sig"

	store := NewStoreAt(filepath.Join(t.TempDir(), "credentials.yaml"))
	if err := store.Save(Credentials{Token: token, Username: "mira"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	client := api.NewClient("http://localhost:0", time.Second)
	sess, err := New(client, store)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	got := sess.TokenExpiry()
	if got.Unix() != exp {
		t.Errorf("TokenExpiry() = %v, want unix %d", got, exp)
	}

	// Opaque tokens must not break anything.
	if err := store.Save(Credentials{Token: "not-a-jwt", Username: "mira"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	sess2, _ := New(client, store)
	if !sess2.TokenExpiry().IsZero() {
		t.Error("expected zero expiry for opaque token")
	}
}
