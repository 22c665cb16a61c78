package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safetweet/safetweet/internal/stats"
)

// statsResponse drops the unread counter unless the caller owns the stats.
type statsResponse struct {
	stats.UserStats
	UnreadNotifications *int64 `json:"unread_notifications,omitempty"`
}

func (h *Handler) StatsHandler(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := h.Social.GetUser(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	result, err := stats.GetStats(c.Request.Context(), h.DB, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := statsResponse{UserStats: result}
	if userID == CurrentUserID(c) {
		resp.UnreadNotifications = &result.UnreadNotifications
	}
	c.JSON(http.StatusOK, resp)
}
