package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tazhibayda/club-service/internal/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mapChecker map[string]bool

func (m mapChecker) IsRevoked(_ context.Context, jti string) bool { return m[jti] }

func authRouter(secret string, revoked security.RevocationChecker) *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthJWT(secret, revoked), func(c *gin.Context) {
		c.JSON(200, gin.H{"uid": c.GetString(ctxUID), "email": c.GetString(ctxEmail)})
	})
	return r
}

func TestAuthJWT_ValidToken(t *testing.T) {
	token, err := security.MakeAccess("secret", "u1", "u1@example.com", nil, time.Minute)
	require.NoError(t, err)

	r := authRouter("secret", mapChecker{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":"u1"`)
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	r := authRouter("secret", mapChecker{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))
	assert.Equal(t, 401, w.Code)
}

func TestAuthJWT_ExpiredTokenSignalsRefresh(t *testing.T) {
	token, err := security.MakeAccess("secret", "u1", "u1@example.com", nil, -time.Minute)
	require.NoError(t, err)

	r := authRouter("secret", mapChecker{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"token_expired"`)
}

func TestAuthJWT_RevokedToken(t *testing.T) {
	token, err := security.MakeAccess("secret", "u1", "u1@example.com", nil, time.Minute)
	require.NoError(t, err)
	jti, err := security.ExtractJTI(token)
	require.NoError(t, err)

	r := authRouter("secret", mapChecker{jti: true})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "revoked")
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	token, err := security.MakeAccess("other", "u1", "u1@example.com", nil, time.Minute)
	require.NoError(t, err)

	r := authRouter("secret", mapChecker{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "request %d within the limit", i+1)
	}
	assert.False(t, rl.Allow("1.2.3.4"))

	// other clients have their own buckets
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	time.Sleep(15 * time.Millisecond)
	assert.True(t, rl.Allow("1.2.3.4"))
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(204) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.NotEmpty(t, w.Header().Get(headerReqID))

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(headerReqID, "req-42")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(headerReqID))
}
