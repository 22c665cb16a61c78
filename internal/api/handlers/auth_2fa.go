package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type codeRequest struct {
	Code string `json:"code"`
}

func (h *Handler) TwoFASetupHandler(c *gin.Context) {
	secret, qrCode, err := h.Social.BeginTwoFactorSetup(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(sessionTOTPSetupKey, secret)
	if err := session.Save(); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"secret":  secret,
		"qr_code": "data:image/png;base64," + qrCode,
	})
}

func (h *Handler) TwoFAEnableHandler(c *gin.Context) {
	var req codeRequest
	if !bindJSON(c, &req) {
		return
	}

	session := sessions.Default(c)
	secret, _ := session.Get(sessionTOTPSetupKey).(string)
	if secret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start two-factor setup first"})
		return
	}

	if err := h.Social.EnableTwoFactor(c.Request.Context(), CurrentUserID(c), secret, req.Code); err != nil {
		respondError(c, err)
		return
	}

	session.Delete(sessionTOTPSetupKey)
	session.Save()
	c.JSON(http.StatusOK, gin.H{"two_factor_enabled": true})
}

func (h *Handler) TwoFADisableHandler(c *gin.Context) {
	var req codeRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Social.DisableTwoFactor(c.Request.Context(), CurrentUserID(c), req.Code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"two_factor_enabled": false})
}
