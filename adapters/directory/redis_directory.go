package directory

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/stepup-labs/certauth/core"
	"github.com/stepup-labs/certauth/ports"
)

// RedisDirectory reads identity records from Redis hashes maintained by the
// enrollment side. Strictly read-only here.
type RedisDirectory struct {
	client *redis.Client
	prefix string
}

// NewRedisDirectory creates a new Redis-backed identity directory
func NewRedisDirectory(client *redis.Client) ports.IdentityDirectory {
	return &RedisDirectory{
		client: client,
		prefix: "certauth:identity:",
	}
}

// Lookup fetches the hash for a user. An empty hash or a record without a
// certificate both count as not found.
func (d *RedisDirectory) Lookup(ctx context.Context, userID string) (*core.Identity, error) {
	key := d.prefix + userID

	fields, err := d.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}

	if len(fields) == 0 || fields["certificate"] == "" {
		return nil, core.ErrIdentityNotFound
	}

	return &core.Identity{
		UserID:         userID,
		FirstName:      fields["firstName"],
		LastName:       fields["lastName"],
		Email:          fields["email"],
		CertificatePEM: fields["certificate"],
	}, nil
}
