// SPDX-License-Identifier: AGPL-3.0-only
package api

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/safetweet/safetweet/internal/api/handlers"
	"github.com/safetweet/safetweet/internal/authhelp"
	"github.com/safetweet/safetweet/internal/middleware"
)

const (
	sessionName   = "safetweet_session"
	sessionMaxAge = 7 * 24 * 60 * 60
)

func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.SecurityHeadersMiddleware())

	store := cookie.NewStore(h.Config.SessionSecret, authhelp.DeriveKey(h.Config.SessionSecret, "session"))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		Secure:   h.Config.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/health", h.HealthCheckHandler)

	auth := r.Group("/api/auth")
	auth.POST("/register", h.RegisterHandler)
	auth.POST("/login", h.LoginHandler)
	auth.POST("/login/2fa", h.LoginTwoFactorHandler)
	auth.POST("/logout", h.LogoutHandler)
	auth.POST("/password/reset", h.PasswordResetRequestHandler)
	auth.POST("/password/reset/confirm", h.PasswordResetConfirmHandler)

	api := r.Group("/api", middleware.AuthMiddleware(h.DB))
	{
		api.GET("/auth/me", h.MeHandler)
		api.POST("/auth/password", h.ChangePasswordHandler)
		api.GET("/auth/2fa/setup", h.TwoFASetupHandler)
		api.POST("/auth/2fa/enable", h.TwoFAEnableHandler)
		api.POST("/auth/2fa/disable", h.TwoFADisableHandler)

		api.GET("/profiles/search", h.SearchProfilesHandler)
		api.GET("/profiles/:id", h.GetProfileHandler)
		api.GET("/profiles/:id/posts", h.AuthorPostsHandler)
		api.GET("/profiles/:id/stats", h.StatsHandler)
		api.GET("/profiles/:id/photo", h.AvatarHandler)
		api.PATCH("/profiles/me", h.UpdateProfileHandler)
		api.PUT("/profiles/me/photo", h.SetPhotoHandler)
		api.DELETE("/profiles/me/photo", h.DeletePhotoHandler)
		api.PUT("/profiles/me/banner", h.SetBannerHandler)
		api.DELETE("/profiles/me/banner", h.DeleteBannerHandler)

		api.GET("/posts", h.FeedHandler)
		api.POST("/posts", h.CreatePostHandler)
		api.GET("/posts/:id", h.GetPostHandler)
		api.DELETE("/posts/:id", h.DeletePostHandler)
		api.GET("/posts/:id/comments", h.ListCommentsHandler)
		api.POST("/posts/:id/comments", h.AddCommentHandler)
		api.DELETE("/posts/:id/comments/:commentId", h.DeleteCommentHandler)
		api.POST("/posts/:id/like/toggle", h.ToggleLikeHandler)
		api.PUT("/posts/:id/like", h.LikeHandler)
		api.DELETE("/posts/:id/like", h.UnlikeHandler)

		api.GET("/notifications", h.NotificationsHandler)
		api.GET("/notifications/unread-count", h.UnreadCountHandler)
		api.POST("/notifications/read-all", h.MarkAllNotificationsReadHandler)
		api.POST("/notifications/:id/read", h.MarkNotificationReadHandler)

		api.GET("/exports/posts.csv", h.ExportPostsHandler)
		api.GET("/ws", h.WebSocketHandler)
	}

	return r
}
