package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"miniverse/util"
)

const credentialsFileName = "credentials.yaml"

// Credentials is what survives a restart: the bearer token and the username
// it belongs to. Everything else is re-fetched from the backend.
type Credentials struct {
	Token    string `yaml:"token"`
	Username string `yaml:"username"`
}

// Store persists credentials as a 0600 YAML file in the user config dir.
type Store struct {
	path string
}

// NewStore creates a store rooted in the miniverse config directory.
func NewStore() (*Store, error) {
	dir, err := util.GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return &Store{path: filepath.Join(dir, credentialsFileName)}, nil
}

// NewStoreAt creates a store at an explicit path. Used by tests and by the
// SSH server, which keeps per-user credential files apart.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Load reads saved credentials. A missing file is not an error; it returns
// empty credentials, meaning "not logged in".
func (s *Store) Load() (Credentials, error) {
	var creds Credentials
	buf, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return creds, nil
		}
		return creds, fmt.Errorf("read credentials: %w", err)
	}
	if err := yaml.Unmarshal(buf, &creds); err != nil {
		return Credentials{}, fmt.Errorf("in credentials file: %w", err)
	}
	return creds, nil
}

// Save writes credentials with owner-only permissions.
func (s *Store) Save(creds Credentials) error {
	buf, err := yaml.Marshal(creds)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, buf, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear removes the credentials file. Clearing an absent file is a no-op.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
