package auth

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	userID    uint
	expiresAt time.Time
}

// MemoryBlacklist is an in-process RevocationStore. It backs tests and
// single-node deployments that run without Postgres.
type MemoryBlacklist struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryBlacklist creates an empty in-memory revocation store
func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{
		entries: make(map[string]memoryEntry),
	}
}

// Record revokes a token; re-recording an already revoked token is a no-op
func (m *MemoryBlacklist) Record(ctx context.Context, token string, userID uint, expiresAt time.Time, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[token]; exists {
		return nil
	}
	m.entries[token] = memoryEntry{userID: userID, expiresAt: expiresAt}
	return nil
}

// IsRevoked reports whether the token has a live blacklist entry
func (m *MemoryBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, exists := m.entries[token]
	if !exists {
		return false, nil
	}
	return entry.expiresAt.After(time.Now()), nil
}

// SweepExpired drops entries whose expiry has passed
func (m *MemoryBlacklist) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for token, entry := range m.entries {
		if entry.expiresAt.Before(now) {
			delete(m.entries, token)
			deleted++
		}
	}
	return deleted, nil
}
