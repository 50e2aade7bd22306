package memory

import (
	"context"
	"sync"

	"vehiclepass/internal/auth"
)

// UserStore is an in-memory credential backend for tests and dev.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]auth.User
}

func NewUserStore(users ...auth.User) *UserStore {
	m := make(map[string]auth.User, len(users))
	for _, u := range users {
		m[u.Username] = u
	}
	return &UserStore{users: m}
}

func (s *UserStore) Lookup(_ context.Context, username string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return auth.User{}, auth.ErrUnknownUser
	}
	return u, nil
}
