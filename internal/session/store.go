// Package session persists the bearer token across restarts. It is the
// durable local storage of the client: one fixed key, one opaque credential.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// TokenKey is the fixed key the credential is stored under.
const TokenKey = "token"

const stateFile = "session.json"

// Store holds the session token in memory and mirrors it to disk. The token
// is read by every authenticated call and written only by login and logout,
// so the lock is effectively uncontended.
type Store struct {
	mu     sync.RWMutex
	path   string
	token  string
	logger zerolog.Logger
}

// NewStore opens the session store under dir, loading a previously saved
// token if one exists. The directory is created if missing.
func NewStore(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	s := &Store{
		path:   filepath.Join(dir, stateFile),
		logger: logger.With().Str("component", "session-store").Logger(),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session file: %w", err)
	}

	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		// A corrupt session file is treated as logged out rather than
		// blocking startup.
		s.logger.Warn().Err(err).Str("path", s.path).Msg("discarding unreadable session file")
		return nil
	}

	s.token = data[TokenKey]
	if s.token != "" {
		s.logger.Debug().Msg("restored session token")
	}
	return nil
}

// Token returns the current bearer token. The second return is false when
// no session exists; callers route protected actions to login in that case.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Authenticated reports whether a session token is present.
func (s *Store) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// Save stores a new token and persists it. Called on successful login or
// registration.
func (s *Store) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	if err := s.persist(map[string]string{TokenKey: token}); err != nil {
		return err
	}

	s.logger.Info().Msg("session token saved")
	return nil
}

// Clear removes the token from memory and disk. Called on logout.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}

	s.logger.Info().Msg("session cleared")
	return nil
}

// persist writes atomically so a crash mid-write cannot corrupt the stored
// session.
func (s *Store) persist(data map[string]string) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
