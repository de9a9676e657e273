package token

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps token records in process memory. Used by tests and
// single-instance deployments without a database.
type MemoryStore struct {
	mu        sync.RWMutex
	byUser    map[string]Record
	bySubject map[string]string // subject -> user_id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byUser:    make(map[string]Record),
		bySubject: make(map[string]string),
	}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byUser[userID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *MemoryStore) GetBySubject(_ context.Context, subject string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.bySubject[subject]
	if !ok {
		return nil, nil
	}
	r, ok := s.byUser[userID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *MemoryStore) Upsert(_ context.Context, r Record) error {
	if r.UserID == "" || r.AccessToken == "" {
		return fmt.Errorf("token: missing user_id or access_token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byUser[r.UserID]; ok && prev.Subject != r.Subject {
		delete(s.bySubject, prev.Subject)
	}
	s.byUser[r.UserID] = r
	if r.Subject != "" {
		s.bySubject[r.Subject] = r.UserID
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.byUser[userID]; ok {
		delete(s.bySubject, r.Subject)
		delete(s.byUser, userID)
	}
	return nil
}
