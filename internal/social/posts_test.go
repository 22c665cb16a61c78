package social

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/safetweet/safetweet/internal/linkpreview"
	"github.com/safetweet/safetweet/internal/realtime"
)

type fakePreviewer struct {
	mu   sync.Mutex
	urls []string
}

func (p *fakePreviewer) Fetch(ctx context.Context, rawURL string) (linkpreview.Preview, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.urls = append(p.urls, rawURL)
	return linkpreview.Preview{URL: rawURL, Title: "Example"}, nil
}

func TestCreatePostValidation(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ana@example.com")

	tests := []struct {
		name string
		in   NewPost
	}{
		{"empty", NewPost{Content: "   "}},
		{"markup only", NewPost{Content: "<p></p>"}},
		{"too long", NewPost{Content: strings.Repeat("x", 281)}},
		{"bad visibility", NewPost{Content: "hi", Visibility: "friends"}},
		{"bad media", NewPost{Media: "data:image/png;base64,!!!"}},
		{"unsupported media", NewPost{Media: "data:text/plain;base64,aGk="}},
		{"unknown bare type", NewPost{Media: "aGk=", MediaType: "audio"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreatePost(context.Background(), u.ID, tt.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("CreatePost() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCreatePost(t *testing.T) {
	f := newFixture(t)
	ana := f.named(t, "ana@example.com", "Ana")

	item := f.post(t, ana.ID, "  hello <b>world</b> ", "")
	if item.Content != "hello world" || item.Visibility != VisibilityPublic {
		t.Fatalf("unexpected post: %+v", item)
	}
	if item.Author.Name != "Ana" || item.Likes != 0 || item.CommentCount != 0 {
		t.Fatalf("unexpected feed fields: %+v", item)
	}

	created := f.pub.ofType(realtime.EventPostCreated)
	if len(created) != 1 || !created[0].broadcast {
		t.Fatalf("public post should be broadcast, got %+v", created)
	}

	private := f.post(t, ana.ID, "just me", VisibilityPrivate)
	created = f.pub.ofType(realtime.EventPostCreated)
	if len(created) != 2 || created[1].broadcast || created[1].to[0] != ana.ID {
		t.Fatalf("private post should only reach the author, got %+v", created[1])
	}
	if private.Visibility != VisibilityPrivate {
		t.Fatalf("visibility = %q", private.Visibility)
	}
}

func TestCreatePostWithMedia(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ana@example.com")

	item, err := f.svc.CreatePost(context.Background(), u.ID, NewPost{
		Media:            pngDataURI(t, 32, 16),
		MediaDescription: "gradient",
	})
	if err != nil {
		t.Fatalf("CreatePost() failed: %v", err)
	}
	if item.MediaType != "image" || !strings.HasPrefix(item.Media, "data:image/webp;base64,") {
		t.Fatalf("image not normalised: type=%q", item.MediaType)
	}
	if item.MediaDescription != "gradient" {
		t.Fatalf("description = %q", item.MediaDescription)
	}

	video, err := f.svc.CreatePost(context.Background(), u.ID, NewPost{Media: "AAAAIGZ0eXA=", MediaType: "video"})
	if err != nil {
		t.Fatalf("CreatePost() with bare video failed: %v", err)
	}
	if video.MediaType != "video" || !strings.HasPrefix(video.Media, "data:video/mp4;base64,") {
		t.Fatalf("video stored as %q / %q", video.MediaType, video.Media)
	}

	f.svc.limits.MaxMediaBytes = 8
	if _, err := f.svc.CreatePost(context.Background(), u.ID, NewPost{Media: "AAAAIGZ0eXBpc29t", MediaType: "video"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("oversized media error = %v, want ErrInvalidInput", err)
	}
}

func TestPrivatePostsHiddenFromOthers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	bob := f.register(t, "bob@example.com")

	secret := f.post(t, ana.ID, "secret", VisibilityPrivate)
	f.post(t, ana.ID, "hello", VisibilityPublic)

	if _, err := f.svc.GetPost(ctx, bob.ID, secret.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("GetPost() by stranger error = %v, want ErrPostNotFound", err)
	}
	if _, err := f.svc.GetPost(ctx, ana.ID, secret.ID); err != nil {
		t.Fatalf("GetPost() by author failed: %v", err)
	}

	page, err := f.svc.Feed(ctx, bob.ID, FeedQuery{})
	if err != nil {
		t.Fatalf("Feed() failed: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Content != "hello" {
		t.Fatalf("bob's feed = %+v", page.Items)
	}

	page, err = f.svc.Feed(ctx, ana.ID, FeedQuery{})
	if err != nil {
		t.Fatalf("Feed() failed: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("ana should see her private post, got %d items", len(page.Items))
	}

	byAuthor, err := f.svc.AuthorPosts(ctx, bob.ID, ana.ID, FeedQuery{})
	if err != nil {
		t.Fatalf("AuthorPosts() failed: %v", err)
	}
	if len(byAuthor.Items) != 1 {
		t.Fatalf("AuthorPosts() for stranger = %d items, want 1", len(byAuthor.Items))
	}
	if _, err := f.svc.AuthorPosts(ctx, bob.ID, uuid.New(), FeedQuery{}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("AuthorPosts() for unknown user error = %v", err)
	}
}

func TestFeedPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "ana@example.com")
	for _, c := range []string{"one", "two", "three", "four", "five"} {
		f.post(t, u.ID, c, "")
	}

	var seen []string
	q := FeedQuery{Limit: 2}
	for i := 0; i < 5; i++ {
		page, err := f.svc.Feed(ctx, u.ID, q)
		if err != nil {
			t.Fatalf("Feed() failed: %v", err)
		}
		for _, it := range page.Items {
			seen = append(seen, it.Content)
		}
		if page.NextBefore == nil {
			break
		}
		q.Before = *page.NextBefore
	}

	if got := strings.Join(seen, ","); got != "five,four,three,two,one" {
		t.Fatalf("pages = %s", got)
	}
}

func TestFeedCursorWithZoneOffset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "ana@example.com")
	for _, c := range []string{"one", "two", "three"} {
		f.post(t, u.ID, c, "")
	}

	first, err := f.svc.Feed(ctx, u.ID, FeedQuery{Limit: 1})
	if err != nil || first.NextBefore == nil {
		t.Fatalf("Feed() = %+v, %v", first, err)
	}

	cursor := first.NextBefore.In(time.FixedZone("CEST", 2*60*60))
	before, _ := f.svc.pageBounds(FeedQuery{Before: cursor})
	if before.Location() != time.UTC || !before.Equal(*first.NextBefore) {
		t.Fatalf("pageBounds(%v) = %v, want the same instant in UTC", cursor, before)
	}

	next, err := f.svc.Feed(ctx, u.ID, FeedQuery{Before: cursor, Limit: 1})
	if err != nil {
		t.Fatalf("Feed() failed: %v", err)
	}
	if len(next.Items) != 1 || next.Items[0].Content != "two" {
		t.Fatalf("second page = %+v, want \"two\"", next.Items)
	}
}

func TestFeedAssembly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	bob := f.named(t, "bob@example.com", "Bob")

	post := f.post(t, ana.ID, "hello", "")
	if post.Author.Name != "User" {
		t.Fatalf("author without a name should read as User, got %q", post.Author.Name)
	}

	if _, err := f.svc.UpdateProfile(ctx, ana.ID, ProfileUpdate{Name: ptr("Ana")}); err != nil {
		t.Fatalf("UpdateProfile() failed: %v", err)
	}
	if _, err := f.svc.Like(ctx, bob.ID, post.ID); err != nil {
		t.Fatalf("Like() failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := f.svc.AddComment(ctx, bob.ID, post.ID, NewComment{Content: "c"}); err != nil {
			t.Fatalf("AddComment() failed: %v", err)
		}
	}

	page, err := f.svc.Feed(ctx, bob.ID, FeedQuery{})
	if err != nil {
		t.Fatalf("Feed() failed: %v", err)
	}
	item := page.Items[0]
	if item.Author.Name != "Ana" {
		t.Fatalf("author name = %q, want current profile name", item.Author.Name)
	}
	if !item.LikedByMe || item.Likes != 1 {
		t.Fatalf("like state = %v/%d", item.LikedByMe, item.Likes)
	}
	if item.CommentCount != 5 || len(item.Comments) != 3 {
		t.Fatalf("comments = %d (preview %d), want 5 (preview 3)", item.CommentCount, len(item.Comments))
	}
	if item.Comments[0].Author.Name != "Bob" {
		t.Fatalf("comment author = %q", item.Comments[0].Author.Name)
	}

	f.svc.limits.FeedCommentPreview = 0
	page, err = f.svc.Feed(ctx, bob.ID, FeedQuery{})
	if err != nil {
		t.Fatalf("Feed() failed: %v", err)
	}
	if got := page.Items[0]; got.CommentCount != 5 || len(got.Comments) != 0 {
		t.Fatalf("preview disabled: comments = %d (preview %d), want 5 (preview 0)", got.CommentCount, len(got.Comments))
	}
	f.svc.limits.FeedCommentPreview = 3

	page, err = f.svc.Feed(ctx, ana.ID, FeedQuery{})
	if err != nil {
		t.Fatalf("Feed() failed: %v", err)
	}
	if page.Items[0].LikedByMe {
		t.Fatalf("LikedByMe leaked across viewers")
	}
}

func TestDeletePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	bob := f.register(t, "bob@example.com")
	post := f.post(t, ana.ID, "bye", "")

	if err := f.svc.DeletePost(ctx, bob.ID, post.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("DeletePost() by stranger error = %v, want ErrForbidden", err)
	}
	if err := f.svc.DeletePost(ctx, ana.ID, post.ID); err != nil {
		t.Fatalf("DeletePost() failed: %v", err)
	}
	if _, err := f.svc.GetPost(ctx, ana.ID, post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("deleted post still readable: %v", err)
	}
	if n := len(f.pub.ofType(realtime.EventPostDeleted)); n != 1 {
		t.Fatalf("post.deleted events = %d", n)
	}
}

func TestLinkPreviewAttached(t *testing.T) {
	f := newFixture(t)
	pv := &fakePreviewer{}
	f.svc.previewer = pv
	u := f.register(t, "ana@example.com")

	post := f.post(t, u.ID, "look at https://example.com/page, neat", "")
	f.svc.Wait()

	if len(pv.urls) != 1 || pv.urls[0] != "https://example.com/page" {
		t.Fatalf("previewer called with %v", pv.urls)
	}
	got, err := f.svc.GetPost(context.Background(), u.ID, post.ID)
	if err != nil {
		t.Fatalf("GetPost() failed: %v", err)
	}
	if got.Preview == nil || got.Preview.Title != "Example" {
		t.Fatalf("preview = %+v", got.Preview)
	}
	if n := len(f.pub.ofType(realtime.EventPostUpdated)); n != 1 {
		t.Fatalf("post.updated events = %d", n)
	}
}
