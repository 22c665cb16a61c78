// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) RegisterHandler(c *gin.Context) {
	var req credentials
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.Social.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserKey, user.ID.String())
	if err := session.Save(); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *Handler) LoginHandler(c *gin.Context) {
	var req credentials
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.Social.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Clear()

	if user.TwoFactorEnabled {
		session.Set(sessionPendingKey, user.ID.String())
		if err := session.Save(); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"two_factor_required": true})
		return
	}

	session.Set(sessionUserKey, user.ID.String())
	if err := session.Save(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "two_factor_required": false})
}

func (h *Handler) LoginTwoFactorHandler(c *gin.Context) {
	session := sessions.Default(c)
	pending, ok := session.Get(sessionPendingKey).(string)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no login awaiting a second factor"})
		return
	}
	userID, err := uuid.Parse(pending)
	if err != nil {
		session.Clear()
		session.Save()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no login awaiting a second factor"})
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Social.VerifyTwoFactor(c.Request.Context(), userID, req.Code); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.Social.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	session.Delete(sessionPendingKey)
	session.Set(sessionUserKey, user.ID.String())
	if err := session.Save(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) LogoutHandler(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	session.Save()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) MeHandler(c *gin.Context) {
	ctx := c.Request.Context()
	userID := CurrentUserID(c)

	user, err := h.Social.GetUser(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	profile, err := h.Social.GetProfile(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	unread, err := h.Social.UnreadCount(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "profile": profile, "unread_notifications": unread})
}

func (h *Handler) ChangePasswordHandler(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Social.ChangePassword(c.Request.Context(), CurrentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
