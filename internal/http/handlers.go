package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/club-service/internal/payment"
	"github.com/tazhibayda/club-service/internal/queue"
	"github.com/tazhibayda/club-service/internal/repo"
	"github.com/tazhibayda/club-service/internal/service"
	"github.com/tazhibayda/club-service/internal/uploads"
	"github.com/tazhibayda/club-service/internal/ws"
)

type Handler struct {
	Store   *repo.Store
	Tokens  *repo.TokenStore
	Refresh *repo.RefreshRegistry

	Comments *service.Comments
	Likes    *service.Likes
	Notifs   *service.Notifications

	Hub      *ws.Hub
	Uploads  *uploads.Service
	Payments *payment.Client

	Events        queue.Publisher
	EventExchange string

	JWTSecret       string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	RateLimitPerMin int
}

// fail maps the service error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is an upstream failure and stays a 500.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func objectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func currentUID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(ctxUID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid uid"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
