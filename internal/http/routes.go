package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	rl := NewRateLimiter(h.RateLimitPerMin, time.Minute)

	auth := r.Group("/api/auth")
	auth.Use(RateLimit(rl))
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshTokens)
		auth.POST("/logout", h.Logout)
	}

	api := r.Group("/api")
	api.Use(AuthJWT(h.JWTSecret, h.Tokens))
	{
		api.GET("/auth/me", h.Me)

		api.POST("/clubs", h.CreateClub)
		api.POST("/clubs/:id/join", h.JoinClub)
		api.POST("/clubs/:id/posts", h.CreatePost)
		api.GET("/clubs/:id/posts", h.ListClubPosts)

		api.POST("/posts/:id/comments", h.CreateComment)
		api.GET("/posts/:id/comments", h.ListComments)
		api.PUT("/comments/:id", h.EditComment)
		api.DELETE("/comments/:id", h.DeleteComment)
		api.GET("/comments/:id/replies", h.ListReplies)

		api.POST("/posts/:id/like", h.ToggleLike)
		api.GET("/posts/:id/likes", h.PostLikes)

		api.GET("/notifications", h.MyNotifications)
		api.GET("/notifications/latest", h.LatestNotifications)
		api.GET("/notifications/unread-count", h.UnreadCount)
		api.POST("/notifications/:id/read", h.MarkNotificationRead)
		api.POST("/notifications/read-all", h.MarkAllNotificationsRead)

		api.POST("/uploads", h.UploadImages)
		api.POST("/payments/checkout", h.CreateCheckout)
	}

	ws := r.Group("/ws")
	ws.Use(AuthJWT(h.JWTSecret, h.Tokens))
	ws.GET("", h.Connect)

	return r
}
