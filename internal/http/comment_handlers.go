package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createCommentReq struct {
	Content  string `json:"content"`
	ParentID string `json:"parent_id,omitempty"`
}

// CreateComment godoc
// @Summary Comment on a post, optionally as a reply
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body createCommentReq true "comment"
// @Success 201 {object} domain.Comment
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/posts/{id}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	postID, ok := objectID(c, "id")
	if !ok {
		return
	}
	uid, ok := currentUID(c)
	if !ok {
		return
	}
	var in createCommentReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	var parentID *primitive.ObjectID
	if in.ParentID != "" {
		pid, err := primitive.ObjectIDFromHex(in.ParentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parent_id"})
			return
		}
		parentID = &pid
	}

	comment, err := h.Comments.Create(c.Request.Context(), postID, uid, in.Content, parentID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

type editCommentReq struct {
	Content string `json:"content"`
}

// EditComment godoc
// @Summary Edit own comment
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body editCommentReq true "new content"
// @Success 200 {object} domain.Comment
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/comments/{id} [put]
func (h *Handler) EditComment(c *gin.Context) {
	commentID, ok := objectID(c, "id")
	if !ok {
		return
	}
	uid, ok := currentUID(c)
	if !ok {
		return
	}
	var in editCommentReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	comment, err := h.Comments.Edit(c.Request.Context(), commentID, uid, in.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DeleteComment godoc
// @Summary Soft-delete a comment and its replies
// @Tags comments
// @Security BearerAuth
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/comments/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	commentID, ok := objectID(c, "id")
	if !ok {
		return
	}
	uid, ok := currentUID(c)
	if !ok {
		return
	}
	if err := h.Comments.SoftDelete(c.Request.Context(), commentID, uid); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListComments godoc
// @Summary List top-level comments of a post
// @Tags comments
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Comment
// @Router /api/posts/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	postID, ok := objectID(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	if c.Query("flat") == "true" {
		out, err := h.Comments.ListAllFlat(c.Request.Context(), postID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
		return
	}

	out, err := h.Comments.ListTopLevel(c.Request.Context(), postID, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListReplies godoc
// @Summary List the flat reply thread of a top-level comment
// @Tags comments
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Comment
// @Router /api/comments/{id}/replies [get]
func (h *Handler) ListReplies(c *gin.Context) {
	rootID, ok := objectID(c, "id")
	if !ok {
		return
	}
	out, err := h.Comments.ListReplies(c.Request.Context(), rootID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
