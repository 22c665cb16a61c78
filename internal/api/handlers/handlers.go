// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/safetweet/safetweet/internal/config"
	"github.com/safetweet/safetweet/internal/realtime"
	"github.com/safetweet/safetweet/internal/social"
)

const (
	sessionUserKey      = "user_id"
	sessionPendingKey   = "2fa_pending_user_id"
	sessionTOTPSetupKey = "2fa_setup_secret"
)

// Store is what the handlers need from the database besides the domain service.
type Store interface {
	social.Store
	Ping(ctx context.Context) error
}

type Handler struct {
	DB       Store
	Social   *social.Service
	Hub      *realtime.Hub
	Upgrader *websocket.Upgrader
	Config   *config.AppConfig
}

func NewHandler(db Store, svc *social.Service, hub *realtime.Hub, cfg *config.AppConfig) *Handler {
	return &Handler{
		DB:       db,
		Social:   svc,
		Hub:      hub,
		Upgrader: realtime.NewUpgrader(cfg.WSAllowedOrigins),
		Config:   cfg,
	}
}

// CurrentUserID returns the id AuthMiddleware stored on the context.
func CurrentUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(sessionUserKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// pathID parses a uuid route parameter. "me" resolves to the caller.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Param(name)
	if raw == "me" {
		return CurrentUserID(c), true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, social.ErrInvalidInput), errors.Is(err, social.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, social.ErrInvalidCredentials), errors.Is(err, social.ErrTwoFactorRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, social.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, social.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, social.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("Handler error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
