package ports

import (
	"context"

	"github.com/stepup-labs/certauth/core"
)

// IdentityDirectory resolves a user identifier to its enrolled identity
// record. Implementations backed by a network store should respect ctx
// deadlines; a lookup must fail rather than hang.
type IdentityDirectory interface {
	// Lookup returns core.ErrIdentityNotFound when the user is unknown or
	// has no certificate on record.
	Lookup(ctx context.Context, userID string) (*core.Identity, error)
}
