package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"faas/contexts/identity-access/identity-service/domain/entities"
	domainerrors "faas/contexts/identity-access/identity-service/domain/errors"
)

type Store struct {
	mu sync.RWMutex

	byID       map[string]entities.User
	byUsername map[string]string
}

func NewStore(seed []entities.User) *Store {
	store := &Store{
		byID:       make(map[string]entities.User, len(seed)),
		byUsername: make(map[string]string, len(seed)),
	}
	for _, user := range seed {
		store.byID[user.UserID] = user
		store.byUsername[strings.ToLower(user.Username)] = user.UserID
	}
	return store
}

func (s *Store) GetUserByID(_ context.Context, userID string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.byID[strings.TrimSpace(userID)]
	if !exists {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, exists := s.byUsername[strings.ToLower(strings.TrimSpace(username))]
	if !exists {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return s.byID[userID], nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
