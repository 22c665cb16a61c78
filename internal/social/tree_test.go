package social

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBuildCommentTree(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	root1 := Comment{ID: uuid.New(), Content: "root1", CreatedAt: at(1)}
	root2 := Comment{ID: uuid.New(), Content: "root2", CreatedAt: at(2)}
	reply1 := Comment{ID: uuid.New(), ParentID: &root1.ID, Content: "reply1", CreatedAt: at(3)}
	nested := Comment{ID: uuid.New(), ParentID: &reply1.ID, Content: "nested", CreatedAt: at(4)}
	missing := uuid.New()
	orphan := Comment{ID: uuid.New(), ParentID: &missing, Content: "orphan", CreatedAt: at(5)}

	// Input order is scrambled on purpose.
	threads := BuildCommentTree([]Comment{orphan, nested, root2, reply1, root1})

	if len(threads) != 3 {
		t.Fatalf("got %d threads, want 3", len(threads))
	}
	order := []string{threads[0].Content, threads[1].Content, threads[2].Content}
	if order[0] != "root1" || order[1] != "root2" || order[2] != "orphan" {
		t.Fatalf("root order = %v", order)
	}
	if len(threads[0].Replies) != 2 || threads[0].Replies[0].Content != "reply1" || threads[0].Replies[1].Content != "nested" {
		t.Fatalf("root1 replies = %+v", threads[0].Replies)
	}
	if len(threads[1].Replies) != 0 || threads[1].Replies == nil {
		t.Fatalf("root2 should have an empty, non-nil reply list")
	}
}

func TestBuildCommentTreeEmpty(t *testing.T) {
	if got := BuildCommentTree(nil); len(got) != 0 {
		t.Fatalf("BuildCommentTree(nil) = %v", got)
	}
}

func TestBuildCommentTreeCycle(t *testing.T) {
	a := Comment{ID: uuid.New(), CreatedAt: time.Unix(1, 0)}
	b := Comment{ID: uuid.New(), CreatedAt: time.Unix(2, 0)}
	a.ParentID, b.ParentID = &b.ID, &a.ID

	threads := BuildCommentTree([]Comment{a, b})

	total := 0
	for _, th := range threads {
		total += 1 + len(th.Replies)
	}
	if total != 2 {
		t.Fatalf("cycle lost comments: %d of 2 kept", total)
	}
}
