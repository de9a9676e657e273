package state

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps pending login states in process memory with a background
// reaper for expired entries. Suitable for tests and single-instance runs;
// multi-instance deployments should use the Redis store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]LoginState
	stop    chan struct{}
	once    sync.Once
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]LoginState),
		stop:    make(chan struct{}),
	}
	go s.reap()
	return s
}

func (s *MemoryStore) Create(_ context.Context, ls LoginState) error {
	if ls.Token == "" || ls.UserID == "" {
		return fmt.Errorf("state: missing token or user_id")
	}
	if !ls.ExpiresAt.After(time.Now()) {
		return fmt.Errorf("state: expires_at must be in the future")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[ls.Token] = ls
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, token string) (*LoginState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ls, ok := s.entries[token]
	if !ok {
		return nil, nil
	}
	delete(s.entries, token)

	if !ls.ExpiresAt.After(time.Now()) {
		return nil, nil // expired before consumption
	}
	return &ls, nil
}

// Close stops the reaper goroutine.
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *MemoryStore) reap() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for token, ls := range s.entries {
				if !ls.ExpiresAt.After(now) {
					delete(s.entries, token)
				}
			}
			s.mu.Unlock()
		}
	}
}
