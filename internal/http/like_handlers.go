package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ToggleLike godoc
// @Summary Like or unlike a post
// @Tags likes
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string
// @Router /api/posts/{id}/like [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	postID, ok := objectID(c, "id")
	if !ok {
		return
	}
	uid, ok := currentUID(c)
	if !ok {
		return
	}
	liked, err := h.Likes.Toggle(c.Request.Context(), postID, uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// PostLikes godoc
// @Summary Like count and caller's like state
// @Tags likes
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/posts/{id}/likes [get]
func (h *Handler) PostLikes(c *gin.Context) {
	postID, ok := objectID(c, "id")
	if !ok {
		return
	}
	uid, ok := currentUID(c)
	if !ok {
		return
	}

	count, err := h.Likes.Count(c.Request.Context(), postID)
	if err != nil {
		fail(c, err)
		return
	}
	liked, err := h.Likes.IsLikedByUser(c.Request.Context(), postID, uid)
	if err != nil {
		fail(c, err)
		return
	}

	if c.Query("list") == "true" {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
		likes, err := h.Likes.ListLikes(c.Request.Context(), postID, page, 50)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count, "liked": liked, "likes": likes})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "liked": liked})
}
