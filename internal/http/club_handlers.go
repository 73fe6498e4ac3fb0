package http

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tazhibayda/club-service/internal/domain"
	"github.com/tazhibayda/club-service/internal/payment"
	"github.com/tazhibayda/club-service/internal/uploads"
)

type createClubReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateClub godoc
// @Summary Create club
// @Tags clubs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body createClubReq true "club"
// @Success 201 {object} map[string]any
// @Router /api/clubs [post]
func (h *Handler) CreateClub(c *gin.Context) {
	var in createClubReq
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	uid, ok := currentUID(c)
	if !ok {
		return
	}
	club := &domain.Club{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		OwnerID:     uid,
	}
	if err := h.Store.CreateClub(c.Request.Context(), club); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": club.ID.Hex()})
}

// JoinClub godoc
// @Summary Join club
// @Tags clubs
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/clubs/{id}/join [post]
func (h *Handler) JoinClub(c *gin.Context) {
	clubID, ok := objectID(c, "id")
	if !ok {
		return
	}
	uid, ok := currentUID(c)
	if !ok {
		return
	}
	if err := h.Store.AddClubMember(c.Request.Context(), clubID, uid); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "club not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

type createPostReq struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	ImageURLs []string `json:"image_urls"`
}

// CreatePost godoc
// @Summary Create post in a club
// @Tags posts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body createPostReq true "post"
// @Success 201 {object} map[string]any
// @Router /api/clubs/{id}/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	clubID, ok := objectID(c, "id")
	if !ok {
		return
	}
	uid, ok := currentUID(c)
	if !ok {
		return
	}
	var in createPostReq
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content required"})
		return
	}

	club, err := h.Store.FindClubByID(c.Request.Context(), clubID)
	if err != nil || club == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "club not found"})
		return
	}

	post := &domain.Post{
		ClubID:    &clubID,
		AuthorID:  uid,
		Title:     strings.TrimSpace(in.Title),
		Content:   strings.TrimSpace(in.Content),
		ImageURLs: in.ImageURLs,
	}
	if err := h.Store.CreatePost(c.Request.Context(), post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": post.ID.Hex()})
}

// ListClubPosts godoc
// @Summary List club posts
// @Tags posts
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Post
// @Router /api/clubs/{id}/posts [get]
func (h *Handler) ListClubPosts(c *gin.Context) {
	clubID, ok := objectID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	posts, err := h.Store.ListPostsByClub(c.Request.Context(), clubID, limit, skip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, posts)
}

// UploadImages godoc
// @Summary Upload images in parallel
// @Tags uploads
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /api/uploads [post]
func (h *Handler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no images"})
		return
	}

	items := make([]uploads.Item, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file: " + fh.Filename})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file: " + fh.Filename})
			return
		}
		items = append(items, uploads.Item{
			Key:         uploads.StorageKey("images"),
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	results := h.Uploads.UploadAll(c.Request.Context(), items)
	urls := make([]string, 0, len(results))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		urls = append(urls, r.URL)
	}
	c.JSON(http.StatusOK, gin.H{"urls": urls, "failed": failed})
}

type checkoutReq struct {
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

// CreateCheckout godoc
// @Summary Create a payment checkout link
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body checkoutReq true "checkout"
// @Success 200 {object} payment.CheckoutResponse
// @Failure 502 {object} map[string]string
// @Router /api/payments/checkout [post]
func (h *Handler) CreateCheckout(c *gin.Context) {
	var in checkoutReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Amount <= 0 || in.Currency == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount and currency required"})
		return
	}
	out, err := h.Payments.CreateCheckout(c.Request.Context(), payment.CheckoutRequest{
		OrderID:     in.OrderID,
		Amount:      in.Amount,
		Currency:    in.Currency,
		Description: in.Description,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
		return
	}
	c.JSON(http.StatusOK, out)
}
