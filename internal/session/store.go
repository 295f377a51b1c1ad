// Package session keeps track of logged-in users.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session id is unknown or was revoked
var ErrNotFound = errors.New("session not found")

// Store maps session ids to user ids
type Store interface {
	Save(ctx context.Context, sessionID string, userID uuid.UUID) error
	Get(ctx context.Context, sessionID string) (uuid.UUID, error)
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps sessions for the lifetime of the process
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]uuid.UUID
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]uuid.UUID)}
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = userID
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.sessions[sessionID]
	if !ok {
		return uuid.Nil, ErrNotFound
	}
	return userID, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
