package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MyNotifications godoc
// @Summary List my notifications, newest first
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Notification
// @Router /api/notifications [get]
func (h *Handler) MyNotifications(c *gin.Context) {
	uid, ok := currentUID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	unreadOnly := c.Query("unread") == "true"

	out, err := h.Notifs.GetMyNotifications(c.Request.Context(), uid, unreadOnly, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// LatestNotifications godoc
// @Summary Latest notifications for the badge dropdown
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Notification
// @Router /api/notifications/latest [get]
func (h *Handler) LatestNotifications(c *gin.Context) {
	uid, ok := currentUID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	unreadOnly := c.Query("unread") == "true"

	out, err := h.Notifs.GetLatest(c.Request.Context(), uid, unreadOnly, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// UnreadCount godoc
// @Summary Unread notification count
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]int64
// @Router /api/notifications/unread-count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	uid, ok := currentUID(c)
	if !ok {
		return
	}
	count, err := h.Notifs.CountUnread(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkNotificationRead godoc
// @Summary Mark one notification read
// @Tags notifications
// @Security BearerAuth
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/notifications/{id}/read [post]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	uid, ok := currentUID(c)
	if !ok {
		return
	}
	notifID, ok := objectID(c, "id")
	if !ok {
		return
	}
	if err := h.Notifs.MarkAsRead(c.Request.Context(), uid, notifID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllNotificationsRead godoc
// @Summary Mark all notifications read
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]int64
// @Router /api/notifications/read-all [post]
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	uid, ok := currentUID(c)
	if !ok {
		return
	}
	count, err := h.Notifs.MarkAllAsRead(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": count})
}
