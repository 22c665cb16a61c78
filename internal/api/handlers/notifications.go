package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) NotificationsHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.Social.Notifications(c.Request.Context(), CurrentUserID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *Handler) UnreadCountHandler(c *gin.Context) {
	count, err := h.Social.UnreadCount(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h *Handler) MarkNotificationReadHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Social.MarkNotificationRead(c.Request.Context(), CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) MarkAllNotificationsReadHandler(c *gin.Context) {
	n, err := h.Social.MarkAllNotificationsRead(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": n})
}
