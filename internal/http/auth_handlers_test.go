package http

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tazhibayda/club-service/internal/security"
)

func logoutRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.POST("/api/auth/logout", h.Logout)
	return r
}

// A token signed with someone else's key must not trigger any revocation;
// the handler rejects it before touching the token or refresh stores.
func TestLogout_ForgedTokenRejected(t *testing.T) {
	forged, err := security.MakeAccess("attacker-secret", "victim-uid", "victim@example.com", nil, time.Minute)
	require.NoError(t, err)

	h := &Handler{JWTSecret: "server-secret"}
	r := logoutRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/logout", strings.NewReader(`{"access":"`+forged+`","refresh":""}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestLogout_MissingAccessToken(t *testing.T) {
	h := &Handler{JWTSecret: "server-secret"}
	r := logoutRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/logout", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}
