package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"miniverse/api"
	"miniverse/domain"
)

// Session owns the authentication state: the current token and username,
// persisted through a Store. It subscribes to the api client's unauthorized
// hook so a rejected credential logs the user out everywhere at once.
type Session struct {
	mu       sync.RWMutex
	client   *api.Client
	store    *Store
	token    string
	username string
}

// New wires a session to the client and loads any saved credentials. The
// client's token source and 401 hook are installed here; callers never touch
// tokens directly.
func New(client *api.Client, store *Store) (*Session, error) {
	s := &Session{client: client, store: store}

	creds, err := store.Load()
	if err != nil {
		return nil, err
	}
	s.token = creds.Token
	s.username = creds.Username

	client.SetTokenSource(s.Token)
	client.OnUnauthorized(s.HandleUnauthorized)
	return s, nil
}

// Client returns the api client this session is wired to.
func (s *Session) Client() *api.Client {
	return s.client
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Username returns the logged-in username, empty when logged out.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// LoggedIn reports whether a credential is present. It does not verify the
// token; a stale one is discovered on first use and handled like any 401.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// Login authenticates and persists the returned credential.
func (s *Session) Login(ctx context.Context, req domain.LoginRequest) error {
	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return err
	}
	return s.accept(resp)
}

// Register creates an account and logs in with the returned credential.
func (s *Session) Register(ctx context.Context, req domain.RegisterRequest) error {
	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return err
	}
	return s.accept(resp)
}

func (s *Session) accept(resp domain.AuthResponse) error {
	s.mu.Lock()
	s.token = resp.Token
	s.username = resp.Username
	s.mu.Unlock()
	return s.store.Save(Credentials{Token: resp.Token, Username: resp.Username})
}

// Logout clears state and the persisted credential.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.username = ""
	s.mu.Unlock()
	return s.store.Clear()
}

// HandleUnauthorized is the implicit-logout path, invoked by the api client
// whenever the backend answers 401. The request that triggered it still
// fails; the caller sees the error while the session is already cleared.
func (s *Session) HandleUnauthorized() {
	s.mu.Lock()
	wasLoggedIn := s.token != ""
	s.token = ""
	s.username = ""
	s.mu.Unlock()

	if wasLoggedIn {
		if err := s.store.Clear(); err != nil {
			log.Printf("Error clearing credentials after rejected token: %v", err)
		}
	}
}

// TokenExpiry returns the exp claim of the stored token, without verifying
// the signature (the backend owns the key). Zero time when absent.
func (s *Session) TokenExpiry() time.Time {
	token := s.Token()
	if token == "" {
		return time.Time{}
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
