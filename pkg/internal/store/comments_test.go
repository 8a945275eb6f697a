package store

import (
	"context"
	"testing"
	"time"

	"github.com/socialconnect/feedsync/pkg/internal/models"
)

func TestAppendCommentKeepsArrivalOrder(t *testing.T) {
	s, _ := newTestStore()

	later := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	// Timestamps deliberately disagree with arrival order.
	c1 := models.Comment{ID: "c1", UserID: "alice", Text: "first", Timestamp: later}
	c2 := models.Comment{ID: "c2", UserID: "bob", Text: "second", Timestamp: later.Add(-time.Hour)}
	c3 := models.Comment{ID: "c3", UserID: "carol", Text: "pushed third", Timestamp: later.Add(-2 * time.Hour)}

	s.AppendComment("p1", c1)
	s.AppendComment("p1", c2)
	NewMerger(s).ApplyCommentUpdate("p1", c3)

	post, _ := s.Get("p1")
	if len(post.Comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(post.Comments))
	}
	for i, want := range []string{"c1", "c2", "c3"} {
		if post.Comments[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, post.Comments[i].ID)
		}
	}
}

func TestAppendCommentSkipsDuplicates(t *testing.T) {
	s, _ := newTestStore()

	comment := models.Comment{ID: "c1", UserID: "alice", Text: "once"}
	if !s.AppendComment("p1", comment) {
		t.Fatalf("first append should succeed")
	}
	if s.AppendComment("p1", comment) {
		t.Fatalf("duplicate id should be skipped")
	}

	post, _ := s.Get("p1")
	if len(post.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(post.Comments))
	}
}

func TestAppendCommentUnknownPostIsNoop(t *testing.T) {
	s, _ := newTestStore()

	if s.AppendComment("nonexistent", models.Comment{ID: "c1"}) {
		t.Fatalf("append on an unknown post reported as applied")
	}
}

func TestComposeComment(t *testing.T) {
	s, gw := newTestStore()

	comment, receipt := s.ComposeComment(context.Background(), "p2", "alice", "hello there")
	if !receipt.Applied {
		t.Fatalf("compose on a known post did not apply")
	}
	if len(comment.ID) == 0 {
		t.Fatalf("composed comment has no id")
	}

	post, _ := s.Get("p2")
	if len(post.Comments) != 1 || post.Comments[0].ID != comment.ID {
		t.Fatalf("composed comment missing from the post")
	}

	if err := <-receipt.Confirmed(); err != nil {
		t.Fatalf("confirmation failed: %v", err)
	}

	gw.mu.Lock()
	defer gw.mu.Unlock()
	if len(gw.comments) != 1 || gw.comments[0].ID != comment.ID {
		t.Fatalf("gateway did not receive the composed comment")
	}
}

func TestComposeCommentUnknownPost(t *testing.T) {
	s, gw := newTestStore()

	_, receipt := s.ComposeComment(context.Background(), "nonexistent", "alice", "into the void")
	if receipt.Applied {
		t.Fatalf("compose on an unknown post reported as applied")
	}

	gw.mu.Lock()
	defer gw.mu.Unlock()
	if len(gw.comments) != 0 {
		t.Fatalf("gateway should not be called for an unknown post")
	}
}
