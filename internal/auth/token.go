package auth

import (
	"sync"

	"golang.org/x/oauth2"
)

// TokenStore holds the session token. Access is mutex-guarded so readers
// never observe a partially written token. It does not make the manager's
// probe-then-login sequence atomic.
type TokenStore struct {
	mu    sync.RWMutex
	token *oauth2.Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns a copy of the current token, or nil.
func (s *TokenStore) Get() *oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == nil {
		return nil
	}

	token := *s.token

	return &token
}

// Set replaces the current token with a copy of token.
func (s *TokenStore) Set(token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == nil {
		s.token = nil

		return
	}

	stored := *token
	s.token = &stored
}

// Clear removes the current token.
func (s *TokenStore) Clear() {
	s.Set(nil)
}

// AccessToken returns the current access token, or "".
func (s *TokenStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == nil {
		return ""
	}

	return s.token.AccessToken
}
