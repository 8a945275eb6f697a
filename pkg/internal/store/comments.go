package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/socialconnect/feedsync/pkg/internal/models"
)

// AppendComment puts a comment at the end of a post's sequence, preserving
// arrival order. A comment id already present on the post is skipped, so
// at-least-once push delivery stays harmless. Unknown posts are a no-op.
func (s *FeedStore) AppendComment(postId string, comment models.Comment) bool {
	s.mu.Lock()
	idx := s.indexOf(postId)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	if len(comment.ID) > 0 && s.posts[idx].HasComment(comment.ID) {
		s.mu.Unlock()
		return false
	}
	s.posts[idx].Comments = append(s.posts[idx].Comments, comment)
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeComment, PostID: postId})
	return true
}

// ComposeComment mints a comment for the acting user, appends it
// optimistically and confirms it with the backend in the background. The
// returned comment carries the id the backend will store it under.
func (s *FeedStore) ComposeComment(ctx context.Context, postId, userId, text string) (models.Comment, *Receipt) {
	comment := models.Comment{
		ID:        uuid.NewString(),
		UserID:    userId,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}

	if len(userId) == 0 || !s.AppendComment(postId, comment) {
		return comment, noopReceipt()
	}

	receipt := &Receipt{Applied: true, confirm: make(chan error, 1)}
	go func() {
		err := s.gateway.CreateComment(ctx, postId, comment)
		if err != nil {
			log.Warn().Err(err).
				Str("post", postId).
				Str("comment", comment.ID).
				Msg("Failed to confirm comment, keeping optimistic state...")
		}
		receipt.confirm <- err
		close(receipt.confirm)
	}()

	return comment, receipt
}
