package directory

import (
	"context"
	"sync"

	"github.com/stepup-labs/certauth/core"
)

// MemoryDirectory is an in-memory identity directory, seedable for tests
// and single-instance runs where the user store is loaded at startup.
type MemoryDirectory struct {
	identities map[string]core.Identity
	mu         sync.RWMutex
}

// NewMemoryDirectory creates a directory pre-populated with the given records.
func NewMemoryDirectory(seed ...core.Identity) *MemoryDirectory {
	identities := make(map[string]core.Identity, len(seed))
	for _, id := range seed {
		identities[id.UserID] = id
	}

	return &MemoryDirectory{identities: identities}
}

// Add inserts or replaces a record.
func (d *MemoryDirectory) Add(identity core.Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.identities[identity.UserID] = identity
}

// Lookup returns the record for a user. A record without a certificate is
// treated as absent; it cannot take part in challenge-response login.
func (d *MemoryDirectory) Lookup(ctx context.Context, userID string) (*core.Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	identity, exists := d.identities[userID]
	if !exists || identity.CertificatePEM == "" {
		return nil, core.ErrIdentityNotFound
	}

	return &identity, nil
}
