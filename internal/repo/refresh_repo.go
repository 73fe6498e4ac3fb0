package repo

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/tazhibayda/club-service/internal/log"
)

// RefreshRegistry holds the single active refresh token per user. Each refresh
// overwrites the record, which implicitly invalidates the previous token;
// explicit removal only happens at logout. Only a sha256 hash is stored.
type RefreshRegistry struct {
	rds *Redis
}

func NewRefreshRegistry(rds *Redis) *RefreshRegistry { return &RefreshRegistry{rds: rds} }

const refreshPrefix = "refresh:"

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func (r *RefreshRegistry) Store(ctx context.Context, userID, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl < time.Second {
		ttl = time.Second
	}
	return r.rds.C.Set(ctx, refreshPrefix+userID, hashToken(token), ttl).Err()
}

func (r *RefreshRegistry) Get(ctx context.Context, userID string) (string, bool, error) {
	v, err := r.rds.C.Get(ctx, refreshPrefix+userID).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// IsValid requires an exact match against the stored hash; there is no grace
// window for rotated-out tokens. Store errors count as invalid.
func (r *RefreshRegistry) IsValid(ctx context.Context, userID, token string) bool {
	stored, ok, err := r.Get(ctx, userID)
	if err != nil {
		log.FromContext(ctx).Warn("refresh registry unavailable", zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(hashToken(token))) == 1
}

func (r *RefreshRegistry) Revoke(ctx context.Context, userID string) error {
	return r.rds.C.Del(ctx, refreshPrefix+userID).Err()
}
