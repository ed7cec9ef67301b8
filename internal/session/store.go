// Package session holds the authenticated identity and tokens for the current
// user, persisted to a JSON file so a login survives process restarts.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/quizdeck/quizdeck/internal/api"
)

type Credentials struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type state struct {
	User        *api.User   `json:"user,omitempty"`
	Credentials Credentials `json:"credentials"`
}

// Store is the client-side session: nullable identity plus access/refresh
// tokens. All mutations re-persist; the durable file is read exactly once, at
// Open. A corrupt or unreadable file yields a logged-out store, never an error.
type Store struct {
	mu   sync.Mutex
	path string
	st   state
}

func Open(path string) *Store {
	s := &Store{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var st state
	if err := json.Unmarshal(raw, &st); err != nil {
		// Corrupt session data: discard it and start logged out.
		_ = os.Remove(path)
		return s
	}
	s.st = st
	return s
}

func (s *Store) Login(u api.User, creds Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := u
	s.st.User = &user
	s.st.Credentials = creds
	s.persist()
}

func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = state{}
	_ = os.Remove(s.path)
}

func (s *Store) UpdateUser(u api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := u
	s.st.User = &user
	s.persist()
}

// Current returns the stored identity, or false when logged out.
func (s *Store) Current() (api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.User == nil {
		return api.User{}, false
	}
	return *s.st.User, true
}

func (s *Store) Authenticated() bool {
	_, ok := s.Current()
	return ok
}

// Credential surface consumed by the API client.

func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Credentials.AccessToken
}

func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Credentials.RefreshToken
}

func (s *Store) SetAccessToken(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Credentials.AccessToken = tok
	s.persist()
}

// Clear drops identity and both tokens. Used on irrecoverable refresh failure.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = state{}
	_ = os.Remove(s.path)
}

// persist writes the session file with owner-only permissions. Callers hold mu.
func (s *Store) persist() {
	raw, err := json.MarshalIndent(s.st, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o700)
	_ = os.WriteFile(s.path, raw, 0o600)
}
