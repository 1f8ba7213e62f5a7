package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stepup-labs/certauth/core"
	"github.com/stepup-labs/certauth/ports"
)

// RedisStore is a Redis implementation of the ChallengeStore interface,
// for deployments running more than one instance behind a balancer.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis challenge store
func NewRedisStore(client *redis.Client) ports.ChallengeStore {
	return &RedisStore{
		client: client,
		prefix: "certauth:challenge:",
	}
}

// Put stores a challenge with expiration. SET replaces atomically, which
// carries the one-live-challenge-per-user invariant.
func (s *RedisStore) Put(ctx context.Context, userID, value string, ttl time.Duration) error {
	key := s.prefix + userID

	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}

	return nil
}

// Take retrieves and removes the challenge in a single round trip. GETDEL
// is atomic on the server, so concurrent takers get at most one winner.
func (s *RedisStore) Take(ctx context.Context, userID string) (string, error) {
	key := s.prefix + userID

	value, err := s.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", core.ErrChallengeMissingOrExpired
		}
		return "", fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}

	return value, nil
}
