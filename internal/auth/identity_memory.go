package auth

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryIdentityStore keeps identities in process memory. Used by tests and
// database-less deployments.
type MemoryIdentityStore struct {
	mu        sync.RWMutex
	byUser    map[string]Identity
	bySubject map[string]string // subject -> user_id
}

func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{
		byUser:    make(map[string]Identity),
		bySubject: make(map[string]string),
	}
}

func (s *MemoryIdentityStore) Get(_ context.Context, userID string) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUser[userID]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (s *MemoryIdentityStore) GetBySubject(_ context.Context, subject string) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.bySubject[subject]
	if !ok {
		return nil, nil
	}
	id, ok := s.byUser[userID]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (s *MemoryIdentityStore) Upsert(_ context.Context, id Identity) error {
	if id.UserID == "" || id.Subject == "" {
		return fmt.Errorf("identity: missing user_id or subject")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byUser[id.UserID]; ok {
		if prev.Subject != id.Subject {
			delete(s.bySubject, prev.Subject)
		}
		id.CreatedAt = prev.CreatedAt // creation time survives profile updates
	} else if id.CreatedAt.IsZero() {
		id.CreatedAt = time.Now()
	}
	id.UpdatedAt = time.Now()

	s.byUser[id.UserID] = id
	s.bySubject[id.Subject] = id.UserID
	return nil
}
