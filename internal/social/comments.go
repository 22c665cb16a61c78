package social

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/safetweet/safetweet/internal/database"
	"github.com/safetweet/safetweet/internal/realtime"
)

const notificationSnippetLength = 100

func (s *Service) Comments(ctx context.Context, viewerID, postID uuid.UUID) ([]CommentThread, error) {
	if _, err := s.visiblePost(ctx, s.store, viewerID, postID); err != nil {
		return nil, err
	}

	rows, err := s.store.ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, c := range rows {
		ids = append(ids, c.AuthorID)
	}
	profiles, err := s.loadProfiles(ctx, s.store, ids)
	if err != nil {
		return nil, err
	}

	views := make([]Comment, 0, len(rows))
	for _, c := range rows {
		views = append(views, toComment(c, profiles))
	}
	return BuildCommentTree(views), nil
}

// AddComment stores the comment and its notifications in one transaction.
// A reply notifies the parent's author; the post owner is told about the
// comment unless that reply notice already went to them. Nobody is
// notified about their own activity.
func (s *Service) AddComment(ctx context.Context, userID, postID uuid.UUID, nc NewComment) (Comment, error) {
	content := sanitizeText(nc.Content)
	if n := runeLen(content); n == 0 || n > s.limits.MaxCommentLength {
		return Comment{}, invalidf("comment must be between 1 and %d characters", s.limits.MaxCommentLength)
	}

	author, err := s.GetProfile(ctx, userID)
	if err != nil {
		return Comment{}, err
	}

	var (
		post    database.Post
		created database.Comment
		notices []database.Notification
	)
	now := s.now()
	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		var err error
		post, err = s.visiblePost(ctx, q, userID, postID)
		if err != nil {
			return err
		}

		var parent database.Comment
		if nc.ParentID != nil {
			parent, err = q.GetCommentByID(ctx, *nc.ParentID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return ErrCommentNotFound
				}
				return fmt.Errorf("failed to load parent comment: %w", err)
			}
			if parent.PostID != post.ID {
				return invalidf("parent comment belongs to another post")
			}
		}

		created, err = q.CreateComment(ctx, database.CreateCommentParams{
			ID:          uuid.New(),
			PostID:      post.ID,
			AuthorID:    userID,
			AuthorName:  author.Name,
			AuthorPhoto: sql.NullString{String: author.Photo, Valid: author.Photo != ""},
			Content:     content,
			ParentID:    uuid.NullUUID{UUID: parent.ID, Valid: nc.ParentID != nil},
			CreatedAt:   now,
		})
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrPostNotFound
			}
			return fmt.Errorf("failed to create comment: %w", err)
		}

		notify := func(recipient uuid.UUID, kind string) error {
			n, err := q.CreateNotification(ctx, database.CreateNotificationParams{
				ID:          uuid.New(),
				RecipientID: recipient,
				SenderID:    userID,
				Type:        kind,
				PostID:      post.ID,
				CommentID:   uuid.NullUUID{UUID: created.ID, Valid: true},
				Content:     snippet(content, notificationSnippetLength),
				CreatedAt:   now,
			})
			if err != nil {
				return fmt.Errorf("failed to create notification: %w", err)
			}
			notices = append(notices, n)
			return nil
		}

		repliedTo := uuid.Nil
		if nc.ParentID != nil && parent.AuthorID != userID {
			if err := notify(parent.AuthorID, NotificationReply); err != nil {
				return err
			}
			repliedTo = parent.AuthorID
		}
		if post.AuthorID != userID && post.AuthorID != repliedTo {
			if err := notify(post.AuthorID, NotificationComment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Comment{}, err
	}

	view := toComment(created, nil)

	s.publishPost(realtime.EventCommentCreated, post, view)
	s.announce(ctx, notices, view.Author)

	return view, nil
}

func (s *Service) DeleteComment(ctx context.Context, userID, postID, commentID uuid.UUID) error {
	post, err := s.visiblePost(ctx, s.store, userID, postID)
	if err != nil {
		return err
	}

	c, err := s.store.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if c.PostID != post.ID {
		return ErrCommentNotFound
	}
	if c.AuthorID != userID && post.AuthorID != userID {
		return ErrForbidden
	}

	// Replies and their notifications go with the comment.
	var recipients []uuid.UUID
	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		ids, err := q.ListUnreadRecipientsForComment(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("failed to list notified users: %w", err)
		}
		recipients = ids
		if err := q.DeleteComment(ctx, c.ID); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishPost(realtime.EventCommentDeleted, post, map[string]any{
		"id":      c.ID,
		"post_id": post.ID,
	})
	for _, r := range recipients {
		s.publishUnread(ctx, r)
	}
	return nil
}
