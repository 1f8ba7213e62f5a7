package store

import (
	"context"
	"sync"
	"time"

	"github.com/stepup-labs/certauth/core"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of the ChallengeStore
// interface, suitable for single-instance deployments and tests.
type MemoryStore struct {
	challenges map[string]entry
	mu         sync.Mutex
}

// NewMemoryStore creates a new in-memory challenge store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		challenges: make(map[string]entry),
	}
}

// Put stores a challenge for a user, replacing any outstanding one. The
// replaced entry is gone for good; only the most recent challenge verifies.
func (s *MemoryStore) Put(ctx context.Context, userID, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := time.Now().Add(ttl)
	s.challenges[userID] = entry{value: value, expiresAt: expiresAt}

	// Scheduled removal if the entry is not consumed first
	go func() {
		time.Sleep(ttl)

		s.mu.Lock()
		defer s.mu.Unlock()

		// Only delete if this exact issuance is still the live one
		if e, exists := s.challenges[userID]; exists && e.value == value && !e.expiresAt.After(expiresAt) {
			delete(s.challenges, userID)
		}
	}()

	return nil
}

// Take retrieves and removes the challenge for a user in one critical
// section, so two racing verification attempts cannot both observe it.
func (s *MemoryStore) Take(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.challenges[userID]
	if !exists {
		return "", core.ErrChallengeMissingOrExpired
	}

	delete(s.challenges, userID)

	// The sweep goroutine may not have fired yet; a stale entry is still gone
	if time.Now().After(e.expiresAt) {
		return "", core.ErrChallengeMissingOrExpired
	}

	return e.value, nil
}
