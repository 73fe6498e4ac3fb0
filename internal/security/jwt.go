package security

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Distinct parse failures: callers use ErrTokenExpired to decide "refresh and
// retry" and everything else to reject outright.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
)

type Claims struct {
	UID         string   `json:"uid"`
	Email       string   `json:"email"`
	Authorities []string `json:"authorities,omitempty"`
	jwt.RegisteredClaims
}

// RevocationChecker reports whether a jti has been revoked. Implementations
// are expected to fail open on store outages.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) bool
}

func MakeAccess(secret, uid, email string, authorities []string, ttl time.Duration) (string, error) {
	c := Claims{
		UID: uid, Email: email, Authorities: authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			Subject:   uid,
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}

// MakeRefresh issues a refresh token: fresh jti, no authorities.
func MakeRefresh(secret, uid string, ttl time.Duration) (string, error) {
	c := Claims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			Subject:   uid,
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}

func Parse(secret, token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrTokenMalformed
	}
	return c, nil
}

// ParseAllowExpired verifies the signature but skips lifetime validation, so
// logout can still revoke a token that expired moments ago. A bad signature is
// still rejected.
func ParseAllowExpired(secret, token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, ErrTokenMalformed
	}
	c, ok := t.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenMalformed
	}
	return c, nil
}

// Validate fails closed on signature, expiry and subject mismatch, and defers
// to the checker for jti revocation (which fails open on store outages).
func Validate(ctx context.Context, secret, token, expectedSubject string, revoked RevocationChecker) bool {
	c, err := Parse(secret, token)
	if err != nil {
		return false
	}
	if expectedSubject != "" && c.Subject != expectedSubject {
		return false
	}
	if revoked != nil && c.ID != "" && revoked.IsRevoked(ctx, c.ID) {
		return false
	}
	return true
}

// parseUnverifiedClaims extracts claims without signature or lifetime checks;
// logout needs the jti and expiry of an access token that may already be stale.
func parseUnverifiedClaims(token string) (*Claims, error) {
	c := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, c); err != nil {
		return nil, ErrTokenMalformed
	}
	return c, nil
}

func ExtractJTI(token string) (string, error) {
	c, err := parseUnverifiedClaims(token)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

func ExtractSubject(token string) (string, error) {
	c, err := parseUnverifiedClaims(token)
	if err != nil {
		return "", err
	}
	return c.Subject, nil
}

func ExtractExpiry(token string) (time.Time, error) {
	c, err := parseUnverifiedClaims(token)
	if err != nil {
		return time.Time{}, err
	}
	if c.ExpiresAt == nil {
		return time.Time{}, ErrTokenMalformed
	}
	return c.ExpiresAt.Time, nil
}
