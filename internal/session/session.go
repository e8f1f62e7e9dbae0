package session

import (
	"sync"

	"github.com/rs/zerolog"
)

const (
	// TokenKey is the storage key of the auth token.
	TokenKey = "Token"

	legacyTokenKey = "token"
)

// Session exposes the auth token held in a Storage. It is created once at
// startup and shared by the API client, the auth flow and the route guard.
type Session struct {
	mu      sync.RWMutex
	storage Storage
	logger  zerolog.Logger
}

// New returns a Session backed by storage.
func New(storage Storage, logger zerolog.Logger) *Session {
	return &Session{
		storage: storage,
		logger:  logger,
	}
}

// GetToken returns the stored token, if any.
func (s *Session) GetToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storage.Get(TokenKey)
}

// Token returns the stored token or an empty string.
func (s *Session) Token() string {
	t, _ := s.GetToken()
	return t
}

// SetToken overwrites the stored token. Storage failures are logged only.
func (s *Session) SetToken(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Set(TokenKey, value); err != nil {
		s.logger.Error().Err(err).Msg("unable to persist token")
	}
}

// ClearToken removes the stored token. Safe to call when no token is stored.
func (s *Session) ClearToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Remove(TokenKey); err != nil {
		s.logger.Error().Err(err).Msg("unable to remove token")
	}
}

// IsAuthenticated reports whether a non-empty token is stored.
func (s *Session) IsAuthenticated() bool {
	t, ok := s.GetToken()
	return ok && t != ""
}
