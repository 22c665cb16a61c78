package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/safetweet/safetweet/internal/database"
	"github.com/safetweet/safetweet/internal/database/memstore"
)

type flakyStore struct {
	mu        sync.Mutex
	failures  int
	calls     int
	cutoff    time.Time
	block     chan struct{}
	reconcile int64
}

func (s *flakyStore) ReconcileLikeCounts(ctx context.Context) (int64, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return 0, errors.New("connection reset")
	}
	return s.reconcile, nil
}

func (s *flakyStore) DeleteReadNotificationsBefore(ctx context.Context, createdAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoff = createdAt
	return 4, nil
}

func (s *flakyStore) DeleteExpiredPasswordResets(ctx context.Context, expiresAt time.Time) (int64, error) {
	return 0, nil
}

func fastWorker(store Store) *Worker {
	w := NewWorker(store, 24*time.Hour)
	w.baseDelay = time.Millisecond
	w.maxDelay = 2 * time.Millisecond
	return w
}

func TestBackoffWithJitter(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := backoffWithJitter(attempt, 10*time.Second, 15*time.Minute)
		limit := 10 * time.Second * (1 << attempt)
		if limit > 15*time.Minute {
			limit = 15 * time.Minute
		}
		if d < 0 || d >= limit {
			t.Fatalf("attempt %d: delay %v outside [0, %v)", attempt, d, limit)
		}
	}
	if d := backoffWithJitter(3, 0, 0); d != 0 {
		t.Fatalf("zero delays should give zero, got %v", d)
	}
}

func TestRunMaintenanceRepairsDrift(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	now := time.Now().UTC()

	author, liker := uuid.New(), uuid.New()
	for _, id := range []uuid.UUID{author, liker} {
		if _, err := store.CreateUser(ctx, database.CreateUserParams{ID: id, Email: id.String() + "@example.com", PasswordHash: "x", CreatedAt: now, UpdatedAt: now}); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	post, err := store.CreatePost(ctx, database.CreatePostParams{ID: uuid.New(), AuthorID: author, AuthorName: "A", Content: "hi", Visibility: "public", CreatedAt: now})
	if err != nil {
		t.Fatalf("CreatePost() failed: %v", err)
	}
	if _, err := store.CreateLike(ctx, database.CreateLikeParams{PostID: post.ID, UserID: liker, CreatedAt: now}); err != nil {
		t.Fatalf("CreateLike() failed: %v", err)
	}
	store.SetLikesCount(post.ID, 7)

	old, err := store.CreateNotification(ctx, database.CreateNotificationParams{ID: uuid.New(), RecipientID: author, SenderID: liker, Type: "like", PostID: post.ID, CreatedAt: now.Add(-72 * time.Hour)})
	if err != nil {
		t.Fatalf("CreateNotification() failed: %v", err)
	}
	if _, err := store.MarkNotificationRead(ctx, database.MarkNotificationReadParams{ID: old.ID, RecipientID: author}); err != nil {
		t.Fatalf("MarkNotificationRead() failed: %v", err)
	}
	if _, err := store.CreateNotification(ctx, database.CreateNotificationParams{ID: uuid.New(), RecipientID: author, SenderID: liker, Type: "like", PostID: post.ID, CreatedAt: now.Add(-72 * time.Hour)}); err != nil {
		t.Fatalf("CreateNotification() failed: %v", err)
	}

	for _, expires := range []time.Time{now.Add(-time.Hour), now.Add(time.Hour)} {
		if _, err := store.CreatePasswordReset(ctx, database.CreatePasswordResetParams{ID: uuid.New(), UserID: author, TokenHash: uuid.NewString(), ExpiresAt: expires, CreatedAt: now}); err != nil {
			t.Fatalf("CreatePasswordReset() failed: %v", err)
		}
	}

	w := fastWorker(store)
	report, ran := w.RunMaintenance(ctx)
	if !ran {
		t.Fatalf("RunMaintenance() skipped")
	}
	if len(report.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	if report.LikeCountsRepaired != 1 || report.NotificationsDeleted != 1 || report.ResetsDeleted != 1 {
		t.Fatalf("report = %+v", report)
	}

	got, _ := store.GetPostByID(ctx, post.ID)
	if got.LikesCount != 1 {
		t.Fatalf("likes_count = %d, want 1", got.LikesCount)
	}
	if unread, _ := store.CountUnreadNotifications(ctx, author); unread != 1 {
		t.Fatalf("unread notification was pruned")
	}
}

func TestRunMaintenanceRetries(t *testing.T) {
	store := &flakyStore{failures: 2, reconcile: 3}
	w := fastWorker(store)
	fixed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	report, _ := w.RunMaintenance(context.Background())
	if len(report.Errors) != 0 || report.LikeCountsRepaired != 3 {
		t.Fatalf("report = %+v", report)
	}
	if store.calls != 3 {
		t.Fatalf("reconcile calls = %d, want 3", store.calls)
	}
	if !store.cutoff.Equal(fixed.Add(-24 * time.Hour)) {
		t.Fatalf("cutoff = %v", store.cutoff)
	}
}

func TestRunMaintenanceGivesUp(t *testing.T) {
	store := &flakyStore{failures: 100}
	w := fastWorker(store)
	w.maxRetries = 2

	report, _ := w.RunMaintenance(context.Background())
	if len(report.Errors) != 1 {
		t.Fatalf("errors = %v, want one", report.Errors)
	}
	if store.calls != 3 {
		t.Fatalf("reconcile calls = %d, want 3", store.calls)
	}
	if report.NotificationsDeleted != 4 {
		t.Fatalf("cleanup should still run after a failed job, report = %+v", report)
	}
}

func TestRunMaintenanceSkipsOverlap(t *testing.T) {
	store := &flakyStore{block: make(chan struct{})}
	w := fastWorker(store)

	done := make(chan struct{})
	go func() {
		w.RunMaintenance(context.Background())
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		w.mu.Lock()
		running := w.running
		w.mu.Unlock()
		if running {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("first run never started")
		}
		time.Sleep(time.Millisecond)
	}

	if _, ran := w.RunMaintenance(context.Background()); ran {
		t.Fatalf("overlapping run was not skipped")
	}
	close(store.block)
	<-done
}

func TestStartStop(t *testing.T) {
	w := fastWorker(&flakyStore{})

	w.Start(time.Hour)
	if !w.IsActive() {
		t.Fatalf("worker not active after Start")
	}
	w.Restart(time.Hour)
	if !w.IsActive() {
		t.Fatalf("worker not active after Restart")
	}
	w.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for w.IsActive() {
		if time.Now().After(deadline) {
			t.Fatalf("worker still active after Stop")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRetentionCutoffIsUTC(t *testing.T) {
	store := &flakyStore{}
	w := fastWorker(store)
	local := time.Date(2025, 6, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	w.now = func() time.Time { return local }

	if _, ran := w.RunMaintenance(context.Background()); !ran {
		t.Fatalf("RunMaintenance() did not run")
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	want := time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)
	if store.cutoff.Location() != time.UTC || !store.cutoff.Equal(want) {
		t.Fatalf("cutoff = %v, want %v", store.cutoff, want)
	}
}
