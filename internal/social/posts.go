package social

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/safetweet/safetweet/internal/database"
	"github.com/safetweet/safetweet/internal/linkpreview"
	"github.com/safetweet/safetweet/internal/media"
	"github.com/safetweet/safetweet/internal/realtime"
)

const (
	postImageMaxEdge      = 1600
	maxMediaDescription   = 500
	feedCursorUnsetOffset = 24 * time.Hour
)

// prepareMedia turns the submitted payload into the stored data URI.
func (s *Service) prepareMedia(p NewPost) (sql.NullString, sql.NullString, error) {
	raw := strings.TrimSpace(p.Media)
	if raw == "" {
		return sql.NullString{}, sql.NullString{}, nil
	}

	var (
		d   media.DataURI
		err error
	)
	if strings.HasPrefix(raw, "data:") {
		d, err = media.ParseDataURI(raw)
	} else {
		d, err = media.FromBase64(strings.ToLower(strings.TrimSpace(p.MediaType)), raw)
	}
	if err != nil {
		return sql.NullString{}, sql.NullString{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(d.Data) > s.limits.MaxMediaBytes {
		return sql.NullString{}, sql.NullString{}, invalidf("media exceeds %d bytes", s.limits.MaxMediaBytes)
	}

	switch d.Kind() {
	case media.KindImage:
		d, err = media.NormalizeImage(d.Data, postImageMaxEdge, postImageMaxEdge)
		if err != nil {
			return sql.NullString{}, sql.NullString{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	case media.KindVideo:
	default:
		return sql.NullString{}, sql.NullString{}, invalidf("only images and videos can be attached")
	}

	return sql.NullString{String: d.String(), Valid: true}, sql.NullString{String: d.Kind(), Valid: true}, nil
}

func (s *Service) CreatePost(ctx context.Context, authorID uuid.UUID, p NewPost) (FeedItem, error) {
	content := sanitizeText(p.Content)
	if runeLen(content) > s.limits.MaxPostLength {
		return FeedItem{}, invalidf("post must be at most %d characters", s.limits.MaxPostLength)
	}

	visibility := strings.ToLower(strings.TrimSpace(p.Visibility))
	if visibility == "" {
		visibility = VisibilityPublic
	}
	if visibility != VisibilityPublic && visibility != VisibilityPrivate {
		return FeedItem{}, invalidf("visibility must be public or private")
	}

	mediaURI, mediaType, err := s.prepareMedia(p)
	if err != nil {
		return FeedItem{}, err
	}
	if content == "" && !mediaURI.Valid {
		return FeedItem{}, invalidf("a post needs text or media")
	}

	description := ""
	if mediaURI.Valid {
		description = sanitizeText(p.MediaDescription)
		if runeLen(description) > maxMediaDescription {
			return FeedItem{}, invalidf("media description must be at most %d characters", maxMediaDescription)
		}
	}

	author, err := s.GetProfile(ctx, authorID)
	if err != nil {
		return FeedItem{}, err
	}

	post, err := s.store.CreatePost(ctx, database.CreatePostParams{
		ID:               uuid.New(),
		AuthorID:         authorID,
		AuthorName:       author.Name,
		AuthorPhoto:      sql.NullString{String: author.Photo, Valid: author.Photo != ""},
		Content:          content,
		Media:            mediaURI,
		MediaType:        mediaType,
		MediaDescription: description,
		Visibility:       visibility,
		CreatedAt:        s.now(),
	})
	if err != nil {
		return FeedItem{}, fmt.Errorf("failed to create post: %w", err)
	}

	items, err := s.assemble(ctx, authorID, []database.Post{post})
	if err != nil {
		return FeedItem{}, err
	}
	item := items[0]

	s.publishPost(realtime.EventPostCreated, post, item)

	if s.previewer != nil {
		if link := linkpreview.FirstURL(content); link != "" {
			s.inflight.Add(1)
			go s.attachPreview(post, link)
		}
	}

	return item, nil
}

// publishPost sends public posts to everyone and private ones to the author.
func (s *Service) publishPost(eventType string, post database.Post, data any) {
	ev := realtime.Event{Type: eventType, Data: data}
	if post.Visibility == VisibilityPublic {
		s.publisher.Broadcast(ev)
		return
	}
	s.publisher.Publish(ev, post.AuthorID)
}

func (s *Service) attachPreview(post database.Post, link string) {
	defer s.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), previewFetchTimeout)
	defer cancel()

	pv, err := s.previewer.Fetch(ctx, link)
	if err != nil {
		if !errors.Is(err, linkpreview.ErrNoPreview) {
			log.Printf("Social: link preview for post %s failed: %v", post.ID, err)
		}
		return
	}

	updated, err := s.store.UpdatePostPreview(ctx, database.UpdatePostPreviewParams{
		ID:                 post.ID,
		PreviewUrl:         sql.NullString{String: pv.URL, Valid: true},
		PreviewTitle:       sql.NullString{String: pv.Title, Valid: pv.Title != ""},
		PreviewDescription: sql.NullString{String: pv.Description, Valid: pv.Description != ""},
		PreviewImage:       sql.NullString{String: pv.Image, Valid: pv.Image != ""},
		UpdatedAt:          s.now(),
	})
	if err != nil {
		// The post may have been deleted meanwhile.
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("Social: failed to store link preview for post %s: %v", post.ID, err)
		}
		return
	}

	s.publishPost(realtime.EventPostUpdated, updated, map[string]any{
		"id":      updated.ID,
		"preview": previewOf(updated),
	})
}

func previewOf(p database.Post) *linkpreview.Preview {
	if !p.PreviewUrl.Valid {
		return nil
	}
	return &linkpreview.Preview{
		URL:         p.PreviewUrl.String,
		Title:       p.PreviewTitle.String,
		Description: p.PreviewDescription.String,
		Image:       p.PreviewImage.String,
	}
}

// visiblePost loads a post, hiding other users' private posts.
func (s *Service) visiblePost(ctx context.Context, q database.Querier, viewerID, postID uuid.UUID) (database.Post, error) {
	post, err := q.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.Post{}, ErrPostNotFound
		}
		return database.Post{}, fmt.Errorf("failed to load post: %w", err)
	}
	if post.Visibility != VisibilityPublic && post.AuthorID != viewerID {
		return database.Post{}, ErrPostNotFound
	}
	return post, nil
}

func (s *Service) GetPost(ctx context.Context, viewerID, postID uuid.UUID) (FeedItem, error) {
	post, err := s.visiblePost(ctx, s.store, viewerID, postID)
	if err != nil {
		return FeedItem{}, err
	}
	items, err := s.assemble(ctx, viewerID, []database.Post{post})
	if err != nil {
		return FeedItem{}, err
	}
	return items[0], nil
}

func (s *Service) pageBounds(q FeedQuery) (time.Time, int) {
	limit := q.Limit
	if limit <= 0 {
		limit = s.limits.FeedPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	// created_at is stored without a zone, as UTC.
	before := q.Before.UTC()
	if q.Before.IsZero() {
		before = s.now().Add(feedCursorUnsetOffset)
	}
	return before, limit
}

func (s *Service) page(ctx context.Context, viewerID uuid.UUID, posts []database.Post, limit int) (FeedPage, error) {
	items, err := s.assemble(ctx, viewerID, posts)
	if err != nil {
		return FeedPage{}, err
	}
	page := FeedPage{Items: items}
	if len(posts) == limit && limit > 0 {
		next := posts[len(posts)-1].CreatedAt
		page.NextBefore = &next
	}
	return page, nil
}

// Feed lists public posts and the viewer's private ones, newest first.
func (s *Service) Feed(ctx context.Context, viewerID uuid.UUID, q FeedQuery) (FeedPage, error) {
	before, limit := s.pageBounds(q)
	posts, err := s.store.ListFeedPosts(ctx, database.ListFeedPostsParams{
		ViewerID:   viewerID,
		Before:     before,
		MaxResults: int32(limit),
	})
	if err != nil {
		return FeedPage{}, fmt.Errorf("failed to list feed: %w", err)
	}
	return s.page(ctx, viewerID, posts, limit)
}

func (s *Service) AuthorPosts(ctx context.Context, viewerID, authorID uuid.UUID, q FeedQuery) (FeedPage, error) {
	if _, err := s.loadUser(ctx, authorID); err != nil {
		return FeedPage{}, err
	}
	before, limit := s.pageBounds(q)
	posts, err := s.store.ListPostsByAuthor(ctx, database.ListPostsByAuthorParams{
		AuthorID:   authorID,
		ViewerID:   viewerID,
		Before:     before,
		MaxResults: int32(limit),
	})
	if err != nil {
		return FeedPage{}, fmt.Errorf("failed to list posts: %w", err)
	}
	return s.page(ctx, viewerID, posts, limit)
}

// assemble joins posts with their authors, the viewer's likes and a
// preview of each comment tree, using one query per concern.
func (s *Service) assemble(ctx context.Context, viewerID uuid.UUID, posts []database.Post) ([]FeedItem, error) {
	items := make([]FeedItem, 0, len(posts))
	if len(posts) == 0 {
		return items, nil
	}

	postIDs := make([]uuid.UUID, 0, len(posts))
	userIDs := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		userIDs = append(userIDs, p.AuthorID)
	}

	liked, err := s.store.ListLikedPostIDs(ctx, database.ListLikedPostIDsParams{
		UserID:  viewerID,
		PostIds: postIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}
	likedSet := make(map[uuid.UUID]bool, len(liked))
	for _, id := range liked {
		likedSet[id] = true
	}

	comments, err := s.store.ListCommentsByPosts(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	byPost := make(map[uuid.UUID][]database.Comment, len(posts))
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
		userIDs = append(userIDs, c.AuthorID)
	}

	profiles, err := s.loadProfiles(ctx, s.store, userIDs)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		postComments := byPost[p.ID]
		views := make([]Comment, 0, len(postComments))
		for _, c := range postComments {
			views = append(views, toComment(c, profiles))
		}
		threads := BuildCommentTree(views)
		if len(threads) > s.limits.FeedCommentPreview {
			threads = threads[:s.limits.FeedCommentPreview]
		}

		items = append(items, FeedItem{
			ID:               p.ID,
			Author:           resolveAuthor(p.AuthorID, p.AuthorName, p.AuthorPhoto, profiles),
			Content:          p.Content,
			Media:            p.Media.String,
			MediaType:        p.MediaType.String,
			MediaDescription: p.MediaDescription,
			Visibility:       p.Visibility,
			Likes:            p.LikesCount,
			LikedByMe:        likedSet[p.ID],
			CommentCount:     len(postComments),
			Comments:         threads,
			Preview:          previewOf(p),
			CreatedAt:        p.CreatedAt,
		})
	}

	return items, nil
}

func (s *Service) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.visiblePost(ctx, s.store, userID, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return ErrForbidden
	}
	var recipients []uuid.UUID
	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		ids, err := q.ListUnreadRecipientsForPost(ctx, post.ID)
		if err != nil {
			return fmt.Errorf("failed to list notified users: %w", err)
		}
		recipients = ids
		if err := q.DeletePost(ctx, post.ID); err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishPost(realtime.EventPostDeleted, post, map[string]any{"id": post.ID})
	for _, r := range recipients {
		s.publishUnread(ctx, r)
	}
	return nil
}
