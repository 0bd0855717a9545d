package auth

import (
	"sync"

	"github.com/google/uuid"
)

// Sessions maps opaque bearer tokens to signed-in users.
type Sessions struct {
	mu     sync.RWMutex
	tokens map[string]*User
}

func NewSessions() *Sessions {
	return &Sessions{tokens: make(map[string]*User)}
}

func (s *Sessions) Create(user *User) string {
	token := uuid.NewString()

	s.mu.Lock()
	s.tokens[token] = user
	s.mu.Unlock()

	return token
}

func (s *Sessions) Get(token string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.tokens[token]
	return user, ok
}

func (s *Sessions) Delete(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// Active reports whether any session still belongs to the user id.
func (s *Sessions) Active(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.tokens {
		if user.ID == userID {
			return true
		}
	}
	return false
}
