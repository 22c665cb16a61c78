// Package memstore is an in-memory database.Querier used by tests that
// exercise the domain and HTTP layers without a Postgres instance. It mirrors
// the SQL semantics of the generated queries, including cascading deletes and
// unique violations reported as *pq.Error.
package memstore

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/safetweet/safetweet/internal/database"
)

type likeKey struct {
	PostID uuid.UUID
	UserID uuid.UUID
}

type state struct {
	users         map[uuid.UUID]database.User
	profiles      map[uuid.UUID]database.Profile
	posts         map[uuid.UUID]database.Post
	comments      map[uuid.UUID]database.Comment
	likes         map[likeKey]database.Like
	notifications map[uuid.UUID]database.Notification
	resets        map[uuid.UUID]database.PasswordReset
}

func newState() state {
	return state{
		users:         map[uuid.UUID]database.User{},
		profiles:      map[uuid.UUID]database.Profile{},
		posts:         map[uuid.UUID]database.Post{},
		comments:      map[uuid.UUID]database.Comment{},
		likes:         map[likeKey]database.Like{},
		notifications: map[uuid.UUID]database.Notification{},
		resets:        map[uuid.UUID]database.PasswordReset{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.posts {
		c.posts[k] = v
	}
	for k, v := range s.comments {
		c.comments[k] = v
	}
	for k, v := range s.likes {
		c.likes[k] = v
	}
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	for k, v := range s.resets {
		c.resets[k] = v
	}
	return c
}

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   state

	// PingErr is returned by Ping when set.
	PingErr error
}

var _ database.Querier = (*Store)(nil)

func New() *Store {
	return &Store{st: newState()}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.PingErr
}

// ExecTx serialises transactions and restores the previous state when fn fails.
func (s *Store) ExecTx(ctx context.Context, fn func(database.Querier) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// SetLikesCount overwrites a post's counter so tests can simulate drift.
func (s *Store) SetLikesCount(postID uuid.UUID, n int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.st.posts[postID]; ok {
		p.LikesCount = n
		s.st.posts[postID] = p
	}
}

func uniqueViolation(constraint string) error {
	return &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint", Constraint: constraint}
}

func foreignKeyViolation(constraint string) error {
	return &pq.Error{Code: "23503", Message: "insert or update violates foreign key constraint", Constraint: constraint}
}

// users

func (s *Store) CreateUser(ctx context.Context, arg database.CreateUserParams) (database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.st.users {
		if u.Email == arg.Email {
			return database.User{}, uniqueViolation("users_email_key")
		}
	}
	if _, ok := s.st.users[arg.ID]; ok {
		return database.User{}, uniqueViolation("users_pkey")
	}
	u := database.User{
		ID:           arg.ID,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		CreatedAt:    arg.CreatedAt,
		UpdatedAt:    arg.UpdatedAt,
	}
	s.st.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.st.users[id]
	if !ok {
		return database.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.st.users {
		if u.Email == email {
			return u, nil
		}
	}
	return database.User{}, sql.ErrNoRows
}

func (s *Store) UpdateUserPassword(ctx context.Context, arg database.UpdateUserPasswordParams) (database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.st.users[arg.ID]
	if !ok {
		return database.User{}, sql.ErrNoRows
	}
	u.PasswordHash = arg.PasswordHash
	u.UpdatedAt = time.Now()
	s.st.users[u.ID] = u
	return u, nil
}

func (s *Store) UpdateUserTOTP(ctx context.Context, arg database.UpdateUserTOTPParams) (database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.st.users[arg.ID]
	if !ok {
		return database.User{}, sql.ErrNoRows
	}
	u.TotpSecret = arg.TotpSecret
	u.TotpEnabled = arg.TotpEnabled
	u.UpdatedAt = time.Now()
	s.st.users[u.ID] = u
	return u, nil
}

// profiles

func (s *Store) EnsureProfile(ctx context.Context, arg database.EnsureProfileParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.users[arg.UserID]; !ok {
		return foreignKeyViolation("profiles_user_id_fkey")
	}
	if _, ok := s.st.profiles[arg.UserID]; ok {
		return nil
	}
	s.st.profiles[arg.UserID] = database.Profile{
		UserID:    arg.UserID,
		Email:     arg.Email,
		CreatedAt: arg.CreatedAt,
		UpdatedAt: arg.CreatedAt,
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (database.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.profiles[userID]
	if !ok {
		return database.Profile{}, sql.ErrNoRows
	}
	return p, nil
}

func (s *Store) GetProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]database.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []database.Profile
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := s.st.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) UpdateProfile(ctx context.Context, arg database.UpdateProfileParams) (database.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.profiles[arg.UserID]
	if !ok {
		return database.Profile{}, sql.ErrNoRows
	}
	if arg.Name.Valid {
		p.Name = arg.Name.String
	}
	if arg.Username.Valid {
		p.Username = arg.Username.String
	}
	if arg.Bio.Valid {
		p.Bio = arg.Bio.String
	}
	if arg.Age.Valid {
		p.Age = arg.Age
	}
	if arg.Gender.Valid {
		p.Gender = arg.Gender.String
	}
	if arg.Location.Valid {
		p.Location = arg.Location.String
	}
	p.UpdatedAt = arg.UpdatedAt
	s.st.profiles[p.UserID] = p
	return p, nil
}

func (s *Store) UpdateProfilePhoto(ctx context.Context, arg database.UpdateProfilePhotoParams) (database.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.profiles[arg.UserID]
	if !ok {
		return database.Profile{}, sql.ErrNoRows
	}
	p.Photo = arg.Photo
	p.UpdatedAt = arg.UpdatedAt
	s.st.profiles[p.UserID] = p
	return p, nil
}

func (s *Store) UpdateProfileBanner(ctx context.Context, arg database.UpdateProfileBannerParams) (database.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.profiles[arg.UserID]
	if !ok {
		return database.Profile{}, sql.ErrNoRows
	}
	p.Banner = arg.Banner
	p.UpdatedAt = arg.UpdatedAt
	s.st.profiles[p.UserID] = p
	return p, nil
}

// ilikeContains matches a pattern escaped for LIKE with the default
// backslash escape, the way the SQL query does.
func ilikeContains(value, pattern string) bool {
	var literal strings.Builder
	escaped := false
	for _, r := range pattern {
		if escaped {
			literal.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		literal.WriteRune(r)
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(literal.String()))
}

func (s *Store) SearchProfilesByName(ctx context.Context, arg database.SearchProfilesByNameParams) ([]database.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []database.Profile
	for _, p := range s.st.profiles {
		if p.Name != "" && ilikeContains(p.Name, arg.Pattern) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if li != lj {
			return li < lj
		}
		return out[i].UserID.String() < out[j].UserID.String()
	})
	if int(arg.MaxResults) < len(out) {
		out = out[:arg.MaxResults]
	}
	return out, nil
}

// posts

func (s *Store) CreatePost(ctx context.Context, arg database.CreatePostParams) (database.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.users[arg.AuthorID]; !ok {
		return database.Post{}, foreignKeyViolation("posts_author_id_fkey")
	}
	p := database.Post{
		ID:               arg.ID,
		AuthorID:         arg.AuthorID,
		AuthorName:       arg.AuthorName,
		AuthorPhoto:      arg.AuthorPhoto,
		Content:          arg.Content,
		Media:            arg.Media,
		MediaType:        arg.MediaType,
		MediaDescription: arg.MediaDescription,
		Visibility:       arg.Visibility,
		CreatedAt:        arg.CreatedAt,
		UpdatedAt:        arg.CreatedAt,
	}
	s.st.posts[p.ID] = p
	return p, nil
}

func (s *Store) GetPostByID(ctx context.Context, id uuid.UUID) (database.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.posts[id]
	if !ok {
		return database.Post{}, sql.ErrNoRows
	}
	return p, nil
}

func (s *Store) DeletePost(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.st.posts, id)
	for cid, c := range s.st.comments {
		if c.PostID == id {
			delete(s.st.comments, cid)
		}
	}
	for k := range s.st.likes {
		if k.PostID == id {
			delete(s.st.likes, k)
		}
	}
	for nid, n := range s.st.notifications {
		if n.PostID == id {
			delete(s.st.notifications, nid)
		}
	}
	return nil
}

func sortPostsDesc(posts []database.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID.String() > posts[j].ID.String()
	})
}

func (s *Store) ListFeedPosts(ctx context.Context, arg database.ListFeedPostsParams) ([]database.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []database.Post
	for _, p := range s.st.posts {
		if (p.Visibility == "public" || p.AuthorID == arg.ViewerID) && p.CreatedAt.Before(arg.Before) {
			out = append(out, p)
		}
	}
	sortPostsDesc(out)
	if int(arg.MaxResults) < len(out) {
		out = out[:arg.MaxResults]
	}
	return out, nil
}

func (s *Store) ListPostsByAuthor(ctx context.Context, arg database.ListPostsByAuthorParams) ([]database.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []database.Post
	for _, p := range s.st.posts {
		if p.AuthorID != arg.AuthorID {
			continue
		}
		if (p.Visibility == "public" || p.AuthorID == arg.ViewerID) && p.CreatedAt.Before(arg.Before) {
			out = append(out, p)
		}
	}
	sortPostsDesc(out)
	if int(arg.MaxResults) < len(out) {
		out = out[:arg.MaxResults]
	}
	return out, nil
}

func (s *Store) ListAllPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]database.ListAllPostsByAuthorRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var posts []database.Post
	for _, p := range s.st.posts {
		if p.AuthorID == authorID {
			posts = append(posts, p)
		}
	}
	sortPostsDesc(posts)
	var out []database.ListAllPostsByAuthorRow
	for _, p := range posts {
		var n int64
		for _, c := range s.st.comments {
			if c.PostID == p.ID {
				n++
			}
		}
		out = append(out, database.ListAllPostsByAuthorRow{
			ID:            p.ID,
			CreatedAt:     p.CreatedAt,
			Visibility:    p.Visibility,
			Content:       p.Content,
			MediaType:     p.MediaType,
			LikesCount:    p.LikesCount,
			CommentsCount: n,
		})
	}
	return out, nil
}

func (s *Store) IncrementPostLikes(ctx context.Context, id uuid.UUID) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.posts[id]
	if !ok {
		return 0, sql.ErrNoRows
	}
	p.LikesCount++
	s.st.posts[id] = p
	return p.LikesCount, nil
}

func (s *Store) DecrementPostLikes(ctx context.Context, id uuid.UUID) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.posts[id]
	if !ok {
		return 0, sql.ErrNoRows
	}
	if p.LikesCount > 0 {
		p.LikesCount--
	}
	s.st.posts[id] = p
	return p.LikesCount, nil
}

func (s *Store) UpdatePostPreview(ctx context.Context, arg database.UpdatePostPreviewParams) (database.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.posts[arg.ID]
	if !ok {
		return database.Post{}, sql.ErrNoRows
	}
	p.PreviewUrl = arg.PreviewUrl
	p.PreviewTitle = arg.PreviewTitle
	p.PreviewDescription = arg.PreviewDescription
	p.PreviewImage = arg.PreviewImage
	p.UpdatedAt = arg.UpdatedAt
	s.st.posts[p.ID] = p
	return p, nil
}

func (s *Store) ReconcileLikeCounts(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[uuid.UUID]int32{}
	for k := range s.st.likes {
		counts[k.PostID]++
	}
	var changed int64
	for id, p := range s.st.posts {
		if p.LikesCount != counts[id] {
			p.LikesCount = counts[id]
			s.st.posts[id] = p
			changed++
		}
	}
	return changed, nil
}

// comments

func (s *Store) CreateComment(ctx context.Context, arg database.CreateCommentParams) (database.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.posts[arg.PostID]; !ok {
		return database.Comment{}, foreignKeyViolation("comments_post_id_fkey")
	}
	if arg.ParentID.Valid {
		if _, ok := s.st.comments[arg.ParentID.UUID]; !ok {
			return database.Comment{}, foreignKeyViolation("comments_parent_id_fkey")
		}
	}
	c := database.Comment{
		ID:          arg.ID,
		PostID:      arg.PostID,
		AuthorID:    arg.AuthorID,
		AuthorName:  arg.AuthorName,
		AuthorPhoto: arg.AuthorPhoto,
		Content:     arg.Content,
		ParentID:    arg.ParentID,
		CreatedAt:   arg.CreatedAt,
	}
	s.st.comments[c.ID] = c
	return c, nil
}

func (s *Store) GetCommentByID(ctx context.Context, id uuid.UUID) (database.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.st.comments[id]
	if !ok {
		return database.Comment{}, sql.ErrNoRows
	}
	return c, nil
}

func (s *Store) DeleteComment(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCommentLocked(id)
	return nil
}

func (s *Store) deleteCommentLocked(id uuid.UUID) {
	if _, ok := s.st.comments[id]; !ok {
		return
	}
	delete(s.st.comments, id)
	for nid, n := range s.st.notifications {
		if n.CommentID.Valid && n.CommentID.UUID == id {
			delete(s.st.notifications, nid)
		}
	}
	for cid, c := range s.st.comments {
		if c.ParentID.Valid && c.ParentID.UUID == id {
			s.deleteCommentLocked(cid)
		}
	}
}

// commentSubtreeLocked returns id and every comment below it.
func (s *Store) commentSubtreeLocked(id uuid.UUID) map[uuid.UUID]bool {
	ids := map[uuid.UUID]bool{}
	if _, ok := s.st.comments[id]; !ok {
		return ids
	}
	queue := []uuid.UUID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if ids[cur] {
			continue
		}
		ids[cur] = true
		for cid, c := range s.st.comments {
			if c.ParentID.Valid && c.ParentID.UUID == cur {
				queue = append(queue, cid)
			}
		}
	}
	return ids
}

func sortCommentsAsc(comments []database.Comment) {
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID.String() < comments[j].ID.String()
	})
}

func (s *Store) ListCommentsByPost(ctx context.Context, postID uuid.UUID) ([]database.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []database.Comment
	for _, c := range s.st.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sortCommentsAsc(out)
	return out, nil
}

func (s *Store) ListCommentsByPosts(ctx context.Context, postIds []uuid.UUID) ([]database.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := map[uuid.UUID]bool{}
	for _, id := range postIds {
		wanted[id] = true
	}
	var out []database.Comment
	for _, c := range s.st.comments {
		if wanted[c.PostID] {
			out = append(out, c)
		}
	}
	sortCommentsAsc(out)
	return out, nil
}

// likes

func (s *Store) CreateLike(ctx context.Context, arg database.CreateLikeParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.posts[arg.PostID]; !ok {
		return 0, foreignKeyViolation("likes_post_id_fkey")
	}
	k := likeKey{PostID: arg.PostID, UserID: arg.UserID}
	if _, ok := s.st.likes[k]; ok {
		return 0, nil
	}
	s.st.likes[k] = database.Like{PostID: arg.PostID, UserID: arg.UserID, CreatedAt: arg.CreatedAt}
	return 1, nil
}

func (s *Store) DeleteLike(ctx context.Context, arg database.DeleteLikeParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := likeKey{PostID: arg.PostID, UserID: arg.UserID}
	if _, ok := s.st.likes[k]; !ok {
		return 0, nil
	}
	delete(s.st.likes, k)
	return 1, nil
}

func (s *Store) ListLikedPostIDs(ctx context.Context, arg database.ListLikedPostIDsParams) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []uuid.UUID
	for _, id := range arg.PostIds {
		if _, ok := s.st.likes[likeKey{PostID: id, UserID: arg.UserID}]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

// notifications

func (s *Store) CreateNotification(ctx context.Context, arg database.CreateNotificationParams) (database.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := database.Notification{
		ID:          arg.ID,
		RecipientID: arg.RecipientID,
		SenderID:    arg.SenderID,
		Type:        arg.Type,
		PostID:      arg.PostID,
		CommentID:   arg.CommentID,
		Content:     arg.Content,
		CreatedAt:   arg.CreatedAt,
	}
	s.st.notifications[n.ID] = n
	return n, nil
}

func (s *Store) ListNotificationsForUser(ctx context.Context, arg database.ListNotificationsForUserParams) ([]database.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []database.Notification
	for _, n := range s.st.notifications {
		if n.RecipientID == arg.RecipientID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	if int(arg.Limit) < len(out) {
		out = out[:arg.Limit]
	}
	return out, nil
}

func (s *Store) CountUnreadNotifications(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, notif := range s.st.notifications {
		if notif.RecipientID == recipientID && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, arg database.MarkNotificationReadParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.st.notifications[arg.ID]
	if !ok || n.RecipientID != arg.RecipientID {
		return 0, nil
	}
	n.IsRead = true
	s.st.notifications[n.ID] = n
	return 1, nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var changed int64
	for id, n := range s.st.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			s.st.notifications[id] = n
			changed++
		}
	}
	return changed, nil
}

func (s *Store) DeleteReadNotificationsBefore(ctx context.Context, createdAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for id, n := range s.st.notifications {
		if n.IsRead && n.CreatedAt.Before(createdAt) {
			delete(s.st.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}

// stats

func (s *Store) GetUserStats(ctx context.Context, authorID uuid.UUID) (database.GetUserStatsRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var row database.GetUserStatsRow
	for _, p := range s.st.posts {
		if p.AuthorID != authorID {
			continue
		}
		row.Posts++
		if p.Visibility == "public" {
			row.PublicPosts++
		}
		row.LikesReceived += int64(p.LikesCount)
	}
	for _, c := range s.st.comments {
		p, ok := s.st.posts[c.PostID]
		if ok && p.AuthorID == authorID && c.AuthorID != authorID {
			row.CommentsReceived++
		}
	}
	return row, nil
}

func (s *Store) unreadRecipientsLocked(match func(database.Notification) bool) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	var out []uuid.UUID
	for _, n := range s.st.notifications {
		if n.IsRead || !match(n) || seen[n.RecipientID] {
			continue
		}
		seen[n.RecipientID] = true
		out = append(out, n.RecipientID)
	}
	return out
}

func (s *Store) ListUnreadRecipientsForPost(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unreadRecipientsLocked(func(n database.Notification) bool {
		return n.PostID == postID
	}), nil
}

func (s *Store) ListUnreadRecipientsForComment(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subtree := s.commentSubtreeLocked(id)
	return s.unreadRecipientsLocked(func(n database.Notification) bool {
		return n.CommentID.Valid && subtree[n.CommentID.UUID]
	}), nil
}

// password resets

func (s *Store) CreatePasswordReset(ctx context.Context, arg database.CreatePasswordResetParams) (database.PasswordReset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.users[arg.UserID]; !ok {
		return database.PasswordReset{}, foreignKeyViolation("password_resets_user_id_fkey")
	}
	for _, r := range s.st.resets {
		if r.TokenHash == arg.TokenHash {
			return database.PasswordReset{}, uniqueViolation("password_resets_token_hash_key")
		}
	}
	r := database.PasswordReset{
		ID:        arg.ID,
		UserID:    arg.UserID,
		TokenHash: arg.TokenHash,
		ExpiresAt: arg.ExpiresAt,
		CreatedAt: arg.CreatedAt,
	}
	s.st.resets[r.ID] = r
	return r, nil
}

func (s *Store) GetPasswordResetByTokenHash(ctx context.Context, tokenHash string) (database.PasswordReset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.st.resets {
		if r.TokenHash == tokenHash {
			return r, nil
		}
	}
	return database.PasswordReset{}, sql.ErrNoRows
}

func (s *Store) UsePasswordReset(ctx context.Context, arg database.UsePasswordResetParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.st.resets[arg.ID]
	if !ok || r.UsedAt.Valid {
		return 0, nil
	}
	r.UsedAt = arg.UsedAt
	s.st.resets[r.ID] = r
	return 1, nil
}

func (s *Store) DeleteUnusedPasswordResets(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.st.resets {
		if r.UserID == userID && !r.UsedAt.Valid {
			delete(s.st.resets, id)
		}
	}
	return nil
}

func (s *Store) DeleteExpiredPasswordResets(ctx context.Context, expiresAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, r := range s.st.resets {
		if r.ExpiresAt.Before(expiresAt) {
			delete(s.st.resets, id)
			n++
		}
	}
	return n, nil
}
