package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safetweet/safetweet/internal/social"
)

func (h *Handler) ListCommentsHandler(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	threads, err := h.Social.Comments(c.Request.Context(), CurrentUserID(c), postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": threads})
}

func (h *Handler) AddCommentHandler(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req social.NewComment
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.Social.AddComment(c.Request.Context(), CurrentUserID(c), postID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) DeleteCommentHandler(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	if err := h.Social.DeleteComment(c.Request.Context(), CurrentUserID(c), postID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
