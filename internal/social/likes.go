package social

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/safetweet/safetweet/internal/database"
	"github.com/safetweet/safetweet/internal/realtime"
)

type likeOp int

const (
	likeToggle likeOp = iota
	likeSet
	likeClear
)

func (s *Service) ToggleLike(ctx context.Context, userID, postID uuid.UUID) (LikeState, error) {
	return s.changeLike(ctx, userID, postID, likeToggle)
}

// Like is idempotent: liking twice keeps one like.
func (s *Service) Like(ctx context.Context, userID, postID uuid.UUID) (LikeState, error) {
	return s.changeLike(ctx, userID, postID, likeSet)
}

func (s *Service) Unlike(ctx context.Context, userID, postID uuid.UUID) (LikeState, error) {
	return s.changeLike(ctx, userID, postID, likeClear)
}

// changeLike updates the like row and the post counter in one transaction
// so the two cannot disagree.
func (s *Service) changeLike(ctx context.Context, userID, postID uuid.UUID, op likeOp) (LikeState, error) {
	var (
		post    database.Post
		state   LikeState
		changed bool
		notices []database.Notification
	)
	now := s.now()

	err := s.store.ExecTx(ctx, func(q database.Querier) error {
		var err error
		post, err = s.visiblePost(ctx, q, userID, postID)
		if err != nil {
			return err
		}
		state = LikeState{PostID: post.ID, Likes: post.LikesCount}

		removed := int64(0)
		if op != likeSet {
			removed, err = q.DeleteLike(ctx, database.DeleteLikeParams{PostID: post.ID, UserID: userID})
			if err != nil {
				return fmt.Errorf("failed to remove like: %w", err)
			}
		}
		if removed > 0 {
			state.Likes, err = q.DecrementPostLikes(ctx, post.ID)
			if err != nil {
				return fmt.Errorf("failed to update like count: %w", err)
			}
			state.Liked = false
			changed = true
			return nil
		}
		if op == likeClear {
			state.Liked = false
			return nil
		}

		added, err := q.CreateLike(ctx, database.CreateLikeParams{PostID: post.ID, UserID: userID, CreatedAt: now})
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrPostNotFound
			}
			return fmt.Errorf("failed to add like: %w", err)
		}
		state.Liked = true
		if added == 0 {
			return nil
		}

		state.Likes, err = q.IncrementPostLikes(ctx, post.ID)
		if err != nil {
			return fmt.Errorf("failed to update like count: %w", err)
		}
		changed = true

		if post.AuthorID != userID {
			n, err := q.CreateNotification(ctx, database.CreateNotificationParams{
				ID:          uuid.New(),
				RecipientID: post.AuthorID,
				SenderID:    userID,
				Type:        NotificationLike,
				PostID:      post.ID,
				CreatedAt:   now,
			})
			if err != nil {
				return fmt.Errorf("failed to create notification: %w", err)
			}
			notices = append(notices, n)
		}
		return nil
	})
	if err != nil {
		return LikeState{}, err
	}

	if changed {
		s.publishPost(realtime.EventPostLikes, post, map[string]any{
			"post_id": post.ID,
			"likes":   state.Likes,
		})
	}
	if len(notices) > 0 {
		sender := Author{ID: userID, Name: defaultDisplayName}
		if p, err := s.GetProfile(ctx, userID); err == nil {
			sender = Author{ID: userID, Name: p.Name, Photo: p.Photo}
		}
		s.announce(ctx, notices, sender)
	}

	return state, nil
}
