package api

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

type tokenStore struct {
	issued map[string]time.Time
	mu     sync.RWMutex
}

func newTokenStore() *tokenStore {
	return &tokenStore{
		issued: make(map[string]time.Time),
	}
}

// generateToken generates a random 32-byte hex string
func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *tokenStore) issue() (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[token] = time.Now()
	return token, nil
}

func (s *tokenStore) valid(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.issued[token]
	return ok
}
