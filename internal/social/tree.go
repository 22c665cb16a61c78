package social

import (
	"sort"

	"github.com/google/uuid"
)

// BuildCommentTree groups a post's comments into root threads, oldest first.
// Replies to replies hang off the root of their chain, so threads are one
// level deep. A comment whose parent is missing becomes a root.
func BuildCommentTree(comments []Comment) []CommentThread {
	sorted := make([]Comment, len(comments))
	copy(sorted, comments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	byID := make(map[uuid.UUID]Comment, len(sorted))
	for _, c := range sorted {
		byID[c.ID] = c
	}

	rootOf := func(c Comment) uuid.UUID {
		cur := c
		// Bounded walk so a malformed cycle cannot loop forever.
		for range len(byID) {
			if cur.ParentID == nil {
				return cur.ID
			}
			parent, ok := byID[*cur.ParentID]
			if !ok {
				return cur.ID
			}
			cur = parent
		}
		return c.ID
	}

	threads := make([]CommentThread, 0, len(sorted))
	index := make(map[uuid.UUID]int, len(sorted))
	var replies []Comment
	for _, c := range sorted {
		if rootOf(c) == c.ID {
			index[c.ID] = len(threads)
			threads = append(threads, CommentThread{Comment: c, Replies: []Comment{}})
			continue
		}
		replies = append(replies, c)
	}

	for _, c := range replies {
		root := rootOf(c)
		i, ok := index[root]
		if !ok {
			index[c.ID] = len(threads)
			threads = append(threads, CommentThread{Comment: c, Replies: []Comment{}})
			continue
		}
		threads[i].Replies = append(threads[i].Replies, c)
	}

	return threads
}
