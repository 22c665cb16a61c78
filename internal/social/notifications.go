package social

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/safetweet/safetweet/internal/database"
	"github.com/safetweet/safetweet/internal/realtime"
)

func toNotificationView(n database.Notification, sender Author) NotificationView {
	v := NotificationView{
		ID:        n.ID,
		Type:      n.Type,
		PostID:    n.PostID,
		Sender:    sender,
		Content:   n.Content,
		Read:      n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.CommentID.Valid {
		id := n.CommentID.UUID
		v.CommentID = &id
	}
	return v
}

// announce pushes freshly committed notifications and the recipients' new
// unread counts.
func (s *Service) announce(ctx context.Context, notices []database.Notification, sender Author) {
	for _, n := range notices {
		s.publisher.Publish(realtime.Event{
			Type: realtime.EventNotificationCreated,
			Data: toNotificationView(n, sender),
		}, n.RecipientID)
		s.publishUnread(ctx, n.RecipientID)
	}
}

func (s *Service) publishUnread(ctx context.Context, userID uuid.UUID) {
	count, err := s.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		log.Printf("Social: failed to count unread notifications for %s: %v", userID, err)
		return
	}
	s.publisher.Publish(realtime.Event{
		Type: realtime.EventUnreadCount,
		Data: map[string]int64{"unread": count},
	}, userID)
}

// Notifications lists the newest notifications with their senders resolved
// from current profiles.
func (s *Service) Notifications(ctx context.Context, userID uuid.UUID, limit int) ([]NotificationView, error) {
	if limit <= 0 || limit > maxNotificationPage {
		limit = maxNotificationPage
	}

	rows, err := s.store.ListNotificationsForUser(ctx, database.ListNotificationsForUserParams{
		RecipientID: userID,
		Limit:       int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	senders := make([]uuid.UUID, 0, len(rows))
	for _, n := range rows {
		senders = append(senders, n.SenderID)
	}
	profiles, err := s.loadProfiles(ctx, s.store, senders)
	if err != nil {
		return nil, err
	}

	out := make([]NotificationView, 0, len(rows))
	for _, n := range rows {
		sender := Author{ID: n.SenderID, Name: defaultDisplayName}
		if p, ok := profiles[n.SenderID]; ok {
			if p.Name != "" {
				sender.Name = p.Name
			}
			sender.Photo = p.Photo.String
		}
		out = append(out, toNotificationView(n, sender))
	}
	return out, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

func (s *Service) MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	n, err := s.store.MarkNotificationRead(ctx, database.MarkNotificationReadParams{
		ID:          notificationID,
		RecipientID: userID,
	})
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if n == 0 {
		// Also covers notifications that belong to someone else.
		return ErrNotificationNotFound
	}
	s.publishUnread(ctx, userID)
	return nil
}

func (s *Service) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.store.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	s.publishUnread(ctx, userID)
	return n, nil
}
