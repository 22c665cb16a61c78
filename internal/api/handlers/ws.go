package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/safetweet/safetweet/internal/realtime"
)

func (h *Handler) WebSocketHandler(c *gin.Context) {
	realtime.ServeWS(h.Hub, h.Upgrader, c.Writer, c.Request, CurrentUserID(c))
}
