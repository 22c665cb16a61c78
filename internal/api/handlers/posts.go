// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safetweet/safetweet/internal/social"
)

// feedQuery reads ?before=<RFC3339>&limit=<n>.
func feedQuery(c *gin.Context) (social.FeedQuery, bool) {
	var q social.FeedQuery
	if raw := c.Query("before"); raw != "" {
		before, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "before must be an RFC 3339 timestamp"})
			return q, false
		}
		q.Before = before.UTC()
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return q, false
		}
		q.Limit = limit
	}
	return q, true
}

func (h *Handler) FeedHandler(c *gin.Context) {
	q, ok := feedQuery(c)
	if !ok {
		return
	}

	page, err := h.Social.Feed(c.Request.Context(), CurrentUserID(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) AuthorPostsHandler(c *gin.Context) {
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	q, ok := feedQuery(c)
	if !ok {
		return
	}

	page, err := h.Social.AuthorPosts(c.Request.Context(), CurrentUserID(c), authorID, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) CreatePostHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes(h.Config.MaxMediaBytes))

	var req social.NewPost
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.Social.CreatePost(c.Request.Context(), CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *Handler) GetPostHandler(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.Social.GetPost(c.Request.Context(), CurrentUserID(c), postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) DeletePostHandler(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Social.DeletePost(c.Request.Context(), CurrentUserID(c), postID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// maxBodyBytes leaves room for base64 expansion and the JSON around it.
func maxBodyBytes(maxMedia int) int64 {
	return int64(maxMedia)*4/3 + 64<<10
}
