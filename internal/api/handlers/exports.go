package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safetweet/safetweet/internal/exports"
)

func (h *Handler) ExportPostsHandler(c *gin.Context) {
	userID := CurrentUserID(c)

	var buf bytes.Buffer
	if err := exports.WritePostsCSV(c.Request.Context(), h.DB, userID, &buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exports.Filename(userID, time.Now().UTC())+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
