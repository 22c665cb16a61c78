package exports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/safetweet/safetweet/internal/database"
)

type PostLister interface {
	ListAllPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]database.ListAllPostsByAuthorRow, error)
}

// WritePostsCSV writes every post of the user, private ones included, newest first.
func WritePostsCSV(ctx context.Context, store PostLister, userID uuid.UUID, w io.Writer) error {
	posts, err := store.ListAllPostsByAuthor(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch posts for export: %w", err)
	}

	writer := csv.NewWriter(w)

	if err := writer.Write([]string{
		"id",
		"created_at",
		"visibility",
		"content",
		"media_type",
		"likes",
		"comments",
	}); err != nil {
		return err
	}

	for _, r := range posts {
		mediaType := ""
		if r.MediaType.Valid {
			mediaType = r.MediaType.String
		}

		record := []string{
			r.ID.String(),
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.Visibility,
			r.Content,
			mediaType,
			strconv.FormatInt(int64(r.LikesCount), 10),
			strconv.FormatInt(r.CommentsCount, 10),
		}

		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func Filename(userID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("export_%s_posts_%s.csv", userID.String(), now.Format("20060102_150405"))
}
