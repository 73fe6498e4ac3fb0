package repo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tazhibayda/club-service/internal/log"
	"github.com/tazhibayda/club-service/internal/metrics"
)

// TokenStore keeps revoked access-token jtis in Redis until the token would
// have expired on its own. A failed revoke is logged and dropped: the token
// self-expires, so losing the marker only widens the window, never breaks auth.
type TokenStore struct {
	rds *Redis
}

func NewTokenStore(rds *Redis) *TokenStore { return &TokenStore{rds: rds} }

const revokedPrefix = "revoked:"

var revokeBackoff = []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}

func (t *TokenStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl < time.Second {
		ttl = time.Second
	}

	var err error
	for i := 0; i < len(revokeBackoff); i++ {
		if err = t.rds.C.Set(ctx, revokedPrefix+jti, "1", ttl).Err(); err == nil {
			metrics.TokenRevocations.Inc()
			return
		}
		// no point sleeping once the last attempt has failed
		if i < len(revokeBackoff)-1 {
			time.Sleep(revokeBackoff[i])
		}
	}
	log.FromContext(ctx).Warn("token revoke failed, token will self-expire",
		zap.String("jti", jti), zap.Error(err))
}

// ForceRevoke is the admin path: single best-effort attempt, no retry loop.
func (t *TokenStore) ForceRevoke(ctx context.Context, jti string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl < time.Second {
		ttl = time.Second
	}
	if err := t.rds.C.Set(ctx, revokedPrefix+jti, "1", ttl).Err(); err != nil {
		log.FromContext(ctx).Warn("force revoke failed", zap.String("jti", jti), zap.Error(err))
		return
	}
	metrics.TokenRevocations.Inc()
}

// IsRevoked fails open: a Redis outage must not lock every user out, the
// cryptographic and expiry checks still apply.
func (t *TokenStore) IsRevoked(ctx context.Context, jti string) bool {
	n, err := t.rds.C.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		log.FromContext(ctx).Warn("revocation check unavailable, treating as not revoked",
			zap.String("jti", jti), zap.Error(err))
		return false
	}
	return n > 0
}
