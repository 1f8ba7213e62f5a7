package ports

import (
	"context"
	"time"
)

// ChallengeStore holds at most one outstanding challenge per user.
type ChallengeStore interface {
	// Put stores a challenge value for a user, replacing any unconsumed
	// entry for the same user. The entry disappears after ttl.
	Put(ctx context.Context, userID, value string, ttl time.Duration) error

	// Take atomically retrieves and removes the entry for a user. Returns
	// core.ErrChallengeMissingOrExpired when there is no live entry,
	// whether it was never issued, already consumed or timed out.
	Take(ctx context.Context, userID string) (string, error)
}
