// SPDX-License-Identifier: AGPL-3.0-only
package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safetweet/safetweet/internal/database"
)

type UserLookup interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error)
}

// AuthMiddleware rejects requests without a session for an existing user and
// stores the caller's id on the context under "user_id".
func AuthMiddleware(db UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		userIDStr, ok := session.Get("user_id").(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			session.Clear()
			_ = session.Save()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if _, err := db.GetUserByID(c.Request.Context(), userID); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				log.Printf("Auth: failed to load user %s: %v", userID, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
			session.Clear()
			_ = session.Save()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
