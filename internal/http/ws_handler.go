package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tazhibayda/club-service/internal/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// same-origin policy is enforced upstream; the socket itself is JWT-gated
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Connect godoc
// @Summary Open the live push channel
// @Tags ws
// @Security BearerAuth
// @Router /ws [get]
func (h *Handler) Connect(c *gin.Context) {
	uid, ok := currentUID(c)
	if !ok {
		return
	}
	email := c.GetString(ctxEmail)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no email in token"})
		return
	}

	clubIDs, err := h.Store.ClubIDsForUser(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	rooms := make([]string, 0, len(clubIDs))
	for _, id := range clubIDs {
		rooms = append(rooms, id.Hex())
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.FromContext(c.Request.Context()).Warn("ws upgrade failed", zap.Error(err))
		return
	}
	// blocks until the connection dies; gin handler goroutine is the read pump
	h.Hub.Register(email, rooms, conn)
}
