package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tazhibayda/club-service/internal/domain"
	"github.com/tazhibayda/club-service/internal/log"
	"github.com/tazhibayda/club-service/internal/queue"
	"github.com/tazhibayda/club-service/internal/security"
	"github.com/tazhibayda/club-service/internal/service"
)

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register godoc
// @Summary Register user
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerReq true "register"
// @Success 201
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !strings.Contains(email, "@") || len(in.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email or weak password"})
		return
	}
	if u, _ := h.Store.FindUserByEmail(c.Request.Context(), email); u != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
		return
	}
	u := &domain.User{Email: email, PasswordHash: hash, Name: strings.TrimSpace(in.Name)}
	if err := h.Store.CreateUser(c.Request.Context(), u); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}

	if h.Events != nil {
		go h.Events.Publish(context.Background(), h.EventExchange, queue.KeyUserRegistered,
			queue.UserRegistered{UserID: u.ID.Hex(), Email: u.Email, Name: u.Name},
			service.RequestIDFrom(c.Request.Context()))
	}
	c.Status(http.StatusCreated)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type tokenPairResp struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginReq true "login"
// @Success 200 {object} tokenPairResp
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	u, err := h.Store.FindUserByEmail(c.Request.Context(), email)
	if err != nil || u == nil || !security.CheckPassword(u.PasswordHash, in.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	pair, err := h.issueTokens(c, u.ID.Hex(), u.Email, u.Roles)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

// issueTokens mints an access/refresh pair and registers the refresh token as
// the user's single active one, overwriting whatever was stored before.
func (h *Handler) issueTokens(c *gin.Context, uid, email string, roles []string) (*tokenPairResp, error) {
	access, err := security.MakeAccess(h.JWTSecret, uid, email, roles, h.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := security.MakeRefresh(h.JWTSecret, uid, h.RefreshTTL)
	if err != nil {
		return nil, err
	}
	if err := h.Refresh.Store(c.Request.Context(), uid, refresh, time.Now().Add(h.RefreshTTL)); err != nil {
		return nil, err
	}
	return &tokenPairResp{Access: access, Refresh: refresh}, nil
}

type refreshReq struct {
	Refresh string `json:"refresh"`
}

// RefreshTokens godoc
// @Summary Rotate the token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body refreshReq true "refresh token"
// @Success 200 {object} tokenPairResp
// @Failure 401 {object} map[string]string
// @Router /api/auth/refresh [post]
func (h *Handler) RefreshTokens(c *gin.Context) {
	var in refreshReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Refresh == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	claims, err := security.Parse(h.JWTSecret, in.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh"})
		return
	}
	uid := claims.Subject
	// exact-match against the registry: a rotated-out token is simply invalid
	if !h.Refresh.IsValid(c.Request.Context(), uid, in.Refresh) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh"})
		return
	}
	u, err := h.Store.FindUserByID(c.Request.Context(), userID)
	if err != nil || u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	pair, err := h.issueTokens(c, uid, u.Email, u.Roles)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

type logoutReq struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Logout godoc
// @Summary Logout
// @Tags auth
// @Accept json
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	var in logoutReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Access == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	// the token proves ownership of the session being revoked, so the
	// signature must check out even when the token already expired
	claims, err := security.ParseAllowExpired(h.JWTSecret, in.Access)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	// revoke the access jti for its remaining lifetime; from here logout
	// always succeeds
	if claims.ID != "" && claims.ExpiresAt != nil {
		h.Tokens.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time)
	} else {
		log.FromContext(c.Request.Context()).Warn("logout token without jti or expiry")
	}

	if uid := claims.Subject; uid != "" {
		if err := h.Refresh.Revoke(c.Request.Context(), uid); err != nil {
			log.FromContext(c.Request.Context()).Warn("refresh revoke failed", zap.Error(err))
		}
	}
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /api/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	uid, ok := currentUID(c)
	if !ok {
		return
	}
	u, err := h.Store.FindUserByID(c.Request.Context(), uid)
	if err != nil || u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": u.ID.Hex(), "email": u.Email, "name": u.Name, "roles": u.Roles})
}
