package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DenylistRepo tracks revoked access-token IDs (jti claims) in Redis.
// Each revoked jti is stored with a TTL equal to the token's remaining
// lifetime, so entries expire on their own once the token would have
// expired anyway.  Keeping the set in Redis instead of process memory
// survives restarts and is shared by every server instance.
type DenylistRepo struct {
	rdb    *redis.Client
	prefix string
}

// NewDenylistRepo returns a DenylistRepo bound to the given client.
// A nil client is allowed; revocation then becomes a no-op and
// IsRevoked always reports false.
func NewDenylistRepo(rdb *redis.Client) *DenylistRepo {
	return &DenylistRepo{rdb: rdb, prefix: "denylist:jti:"}
}

// Revoke records a token ID until ttl elapses.  Non-positive TTLs are
// ignored because the token is already expired.
func (r *DenylistRepo) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if r.rdb == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, r.prefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether the token ID has been revoked.  Redis
// errors are swallowed and reported as not revoked so that an outage
// does not lock every user out.
func (r *DenylistRepo) IsRevoked(ctx context.Context, jti string) bool {
	if r.rdb == nil || jti == "" {
		return false
	}
	n, err := r.rdb.Exists(ctx, r.prefix+jti).Result()
	if err != nil {
		return false
	}
	return n > 0
}
