package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safetweet/safetweet/internal/social"
)

func (h *Handler) likeAction(c *gin.Context, fn func(ctx context.Context, userID, postID uuid.UUID) (social.LikeState, error)) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	state, err := fn(c.Request.Context(), CurrentUserID(c), postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) ToggleLikeHandler(c *gin.Context) {
	h.likeAction(c, h.Social.ToggleLike)
}

func (h *Handler) LikeHandler(c *gin.Context) {
	h.likeAction(c, h.Social.Like)
}

func (h *Handler) UnlikeHandler(c *gin.Context) {
	h.likeAction(c, h.Social.Unlike)
}
