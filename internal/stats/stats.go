package stats

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/safetweet/safetweet/internal/database"
)

type Store interface {
	GetUserStats(ctx context.Context, authorID uuid.UUID) (database.GetUserStatsRow, error)
	CountUnreadNotifications(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type UserStats struct {
	UserID              uuid.UUID `json:"user_id"`
	Posts               int64     `json:"posts"`
	PublicPosts         int64     `json:"public_posts"`
	LikesReceived       int64     `json:"likes_received"`
	CommentsReceived    int64     `json:"comments_received"`
	UnreadNotifications int64     `json:"unread_notifications"`
}

// GetStats sums a user's activity. Comments the user left on their own posts
// are not counted as received.
func GetStats(ctx context.Context, store Store, userID uuid.UUID) (UserStats, error) {
	row, err := store.GetUserStats(ctx, userID)
	if err != nil {
		return UserStats{}, fmt.Errorf("failed to load stats: %w", err)
	}

	unread, err := store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return UserStats{}, fmt.Errorf("failed to count notifications: %w", err)
	}

	return UserStats{
		UserID:              userID,
		Posts:               row.Posts,
		PublicPosts:         row.PublicPosts,
		LikesReceived:       row.LikesReceived,
		CommentsReceived:    row.CommentsReceived,
		UnreadNotifications: unread,
	}, nil
}
