package store

import (
	"github.com/samber/lo"

	"github.com/socialconnect/feedsync/pkg/internal/models"
)

// Merger applies push-delivered snapshots to the feed store. The backend is
// the authority for aggregate reaction state, so snapshots overwrite local
// state whole; whichever event lands last wins. Events for posts the store
// does not hold are dropped, not queued.
type Merger struct {
	store *FeedStore
}

func NewMerger(store *FeedStore) *Merger {
	return &Merger{store: store}
}

// ApplyLikeUpdate replaces both reaction sets of a post with the server's
// view. The sets are sanitized on ingest so the disjointness of likedBy and
// unlikedBy holds no matter what arrived.
func (m *Merger) ApplyLikeUpdate(postId string, likedBy, unlikedBy []string) bool {
	liked := lo.Uniq(likedBy)
	unliked := lo.Filter(lo.Uniq(unlikedBy), func(item string, _ int) bool {
		return !lo.Contains(liked, item)
	})

	s := m.store
	s.mu.Lock()
	idx := s.indexOf(postId)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.posts[idx].LikedBy = liked
	s.posts[idx].UnlikedBy = unliked
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeReaction, PostID: postId})
	return true
}

// ApplyCommentUpdate appends a push-delivered comment, sharing AppendComment's
// contract including the duplicate-id skip.
func (m *Merger) ApplyCommentUpdate(postId string, comment models.Comment) bool {
	return m.store.AppendComment(postId, comment)
}

// ApplyPostCreated admits a post created elsewhere into the feed.
func (m *Merger) ApplyPostCreated(post models.Post) {
	m.store.Upsert(post)
}

// ApplyPostDeleted drops a post removed on the server.
func (m *Merger) ApplyPostDeleted(postId string) {
	m.store.Remove(postId)
}
