package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

var ErrLoginRequired = errors.New("login required")

// Session holds the admin bearer token for one user of the client. It is
// backed by a small JSON file so it survives between runs until Logout.
type Session struct {
	mu    sync.RWMutex
	path  string
	token string
}

type sessionFile struct {
	Token string `json:"token"`
}

// DefaultSessionPath is the per-user session file location.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locate config dir")
	}
	return filepath.Join(dir, "resultctl", "session.json"), nil
}

// OpenSession loads the session stored at path. A missing file is an empty,
// unauthenticated session.
func OpenSession(path string) (*Session, error) {
	s := &Session{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read session")
	}
	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse session")
	}
	s.token = f.Token
	return s, nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Login stores token in memory and on disk.
func (s *Session) Login(token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "create session dir")
	}
	data, err := json.Marshal(sessionFile{Token: token})
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(err, "write session")
	}
	s.token = token
	return nil
}

// Logout forgets the token and removes the session file.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove session")
	}
	return nil
}

// Require guards admin-only actions.
func (s *Session) Require() error {
	if !s.IsAuthenticated() {
		return ErrLoginRequired
	}
	return nil
}
