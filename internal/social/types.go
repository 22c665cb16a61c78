package social

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/safetweet/safetweet/internal/database"
	"github.com/safetweet/safetweet/internal/linkpreview"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"

	NotificationComment = "comment"
	NotificationReply   = "reply"
	NotificationLike    = "like"
)

type User struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
}

func toUser(u database.User) User {
	return User{
		ID:               u.ID,
		Email:            u.Email,
		TwoFactorEnabled: u.TotpEnabled,
		CreatedAt:        u.CreatedAt,
	}
}

type Profile struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio"`
	Age       *int32    `json:"age,omitempty"`
	Gender    string    `json:"gender"`
	Location  string    `json:"location"`
	Photo     string    `json:"photo,omitempty"`
	Banner    string    `json:"banner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toProfile(p database.Profile) Profile {
	out := Profile{
		UserID:    p.UserID,
		Email:     p.Email,
		Name:      p.Name,
		Username:  p.Username,
		Bio:       p.Bio,
		Gender:    p.Gender,
		Location:  p.Location,
		Photo:     p.Photo.String,
		Banner:    p.Banner.String,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Age.Valid {
		age := p.Age.Int32
		out.Age = &age
	}
	if out.Name == "" {
		out.Name = defaultDisplayName
	}
	if out.Bio == "" {
		out.Bio = defaultBio
	}
	return out
}

// ProfileUpdate carries the fields to change; nil fields are left alone.
type ProfileUpdate struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
	Age      *int32  `json:"age"`
	Gender   *string `json:"gender"`
	Location *string `json:"location"`
}

type ProfileSummary struct {
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	Username string    `json:"username,omitempty"`
	Photo    string    `json:"photo,omitempty"`
}

type Author struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Photo string    `json:"photo,omitempty"`
}

// resolveAuthor prefers the author's current profile over the snapshot
// stored with the post or comment.
func resolveAuthor(id uuid.UUID, snapshotName string, snapshotPhoto sql.NullString, profiles map[uuid.UUID]database.Profile) Author {
	a := Author{ID: id, Name: snapshotName, Photo: snapshotPhoto.String}
	if p, ok := profiles[id]; ok {
		if p.Name != "" {
			a.Name = p.Name
		}
		if p.Photo.Valid && p.Photo.String != "" {
			a.Photo = p.Photo.String
		}
	}
	if a.Name == "" {
		a.Name = defaultDisplayName
	}
	return a
}

type NewPost struct {
	Content          string `json:"content"`
	Media            string `json:"media"`
	MediaType        string `json:"media_type"`
	MediaDescription string `json:"media_description"`
	Visibility       string `json:"visibility"`
}

type FeedItem struct {
	ID               uuid.UUID            `json:"id"`
	Author           Author               `json:"author"`
	Content          string               `json:"content"`
	Media            string               `json:"media,omitempty"`
	MediaType        string               `json:"media_type,omitempty"`
	MediaDescription string               `json:"media_description,omitempty"`
	Visibility       string               `json:"visibility"`
	Likes            int32                `json:"likes"`
	LikedByMe        bool                 `json:"liked_by_me"`
	CommentCount     int                  `json:"comment_count"`
	Comments         []CommentThread      `json:"comments"`
	Preview          *linkpreview.Preview `json:"preview,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

type FeedQuery struct {
	Before time.Time
	Limit  int
}

type FeedPage struct {
	Items      []FeedItem `json:"items"`
	NextBefore *time.Time `json:"next_before,omitempty"`
}

type NewComment struct {
	Content  string     `json:"content"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type Comment struct {
	ID        uuid.UUID  `json:"id"`
	PostID    uuid.UUID  `json:"post_id"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Author    Author     `json:"author"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
}

func toComment(c database.Comment, profiles map[uuid.UUID]database.Profile) Comment {
	out := Comment{
		ID:        c.ID,
		PostID:    c.PostID,
		Author:    resolveAuthor(c.AuthorID, c.AuthorName, c.AuthorPhoto, profiles),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
	if c.ParentID.Valid {
		parent := c.ParentID.UUID
		out.ParentID = &parent
	}
	return out
}

type CommentThread struct {
	Comment
	Replies []Comment `json:"replies"`
}

type LikeState struct {
	PostID uuid.UUID `json:"post_id"`
	Liked  bool      `json:"liked"`
	Likes  int32     `json:"likes"`
}

type NotificationView struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	PostID    uuid.UUID  `json:"post_id"`
	CommentID *uuid.UUID `json:"comment_id,omitempty"`
	Sender    Author     `json:"sender"`
	Content   string     `json:"content,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"created_at"`
}
