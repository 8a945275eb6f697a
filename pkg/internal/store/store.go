package store

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/socialconnect/feedsync/pkg/internal/models"
)

// RemoteGateway is the slice of the backend client the store confirms its
// optimistic mutations against.
type RemoteGateway interface {
	SendReaction(ctx context.Context, postId, userId string, action models.ReactionAction) error
	CreateComment(ctx context.Context, postId string, comment models.Comment) error
}

type ChangeKind string

const (
	ChangeReplace  = ChangeKind("replace")
	ChangeReaction = ChangeKind("reaction")
	ChangeComment  = ChangeKind("comment")
	ChangeUpsert   = ChangeKind("upsert")
	ChangeRemove   = ChangeKind("remove")
)

type Change struct {
	Kind   ChangeKind `json:"kind"`
	PostID string     `json:"postId,omitempty"`
}

// FeedStore owns the client-side view of the feed for the active session.
// All post mutations go through its methods; mutations are serialized, so
// each one runs to completion before the next is observed.
type FeedStore struct {
	mu      sync.Mutex
	posts   []models.Post
	gateway RemoteGateway

	subMu sync.Mutex
	subs  map[int]chan Change
	subId int
}

func New(gateway RemoteGateway) *FeedStore {
	return &FeedStore{
		gateway: gateway,
		subs:    make(map[int]chan Change),
	}
}

// ReplaceAll swaps the whole feed for a freshly fetched one. No merge happens:
// optimistic state not reflected in the new list is gone afterwards.
func (s *FeedStore) ReplaceAll(posts []models.Post) {
	s.mu.Lock()
	s.posts = make([]models.Post, len(posts))
	copy(s.posts, posts)
	sort.SliceStable(s.posts, func(i, j int) bool {
		return s.posts[i].Timestamp.After(s.posts[j].Timestamp)
	})
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeReplace})
}

// Upsert inserts a post delivered out-of-band, or replaces it if already held.
func (s *FeedStore) Upsert(post models.Post) {
	s.mu.Lock()
	if idx := s.indexOf(post.ID); idx >= 0 {
		s.posts[idx] = post
	} else {
		s.posts = append(s.posts, post)
	}
	sort.SliceStable(s.posts, func(i, j int) bool {
		return s.posts[i].Timestamp.After(s.posts[j].Timestamp)
	})
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeUpsert, PostID: post.ID})
}

// Remove drops a post after a confirmed server-side delete. Unknown ids are
// ignored.
func (s *FeedStore) Remove(postId string) {
	s.mu.Lock()
	before := len(s.posts)
	s.posts = lo.Filter(s.posts, func(item models.Post, _ int) bool {
		return item.ID != postId
	})
	removed := len(s.posts) < before
	s.mu.Unlock()

	if removed {
		s.notify(Change{Kind: ChangeRemove, PostID: postId})
	}
}

// List returns a snapshot of the feed, newest first. Callers get their own
// copy and cannot reach the store's state through it.
func (s *FeedStore) List() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.Map(s.posts, func(item models.Post, _ int) models.Post {
		return clonePost(item)
	})
}

func (s *FeedStore) Get(postId string) (models.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(postId); idx >= 0 {
		return clonePost(s.posts[idx]), true
	}
	return models.Post{}, false
}

func (s *FeedStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

// SubscribeChanges hands out a channel of change events for a UI layer to
// follow the store. Slow consumers miss events rather than block mutations.
func (s *FeedStore) SubscribeChanges() (<-chan Change, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.subId++
	id := s.subId
	ch := make(chan Change, 16)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (s *FeedStore) notify(change Change) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, sub := range s.subs {
		select {
		case sub <- change:
		default:
		}
	}
}

// indexOf must run under mu.
func (s *FeedStore) indexOf(postId string) int {
	for idx := range s.posts {
		if s.posts[idx].ID == postId {
			return idx
		}
	}
	return -1
}

func clonePost(post models.Post) models.Post {
	out := post
	out.Images = append([]string(nil), post.Images...)
	out.LikedBy = append([]string(nil), post.LikedBy...)
	out.UnlikedBy = append([]string(nil), post.UnlikedBy...)
	out.Comments = append([]models.Comment(nil), post.Comments...)
	out.Author = cloneUser(post.Author)
	for idx := range out.Comments {
		out.Comments[idx].Author = cloneUser(out.Comments[idx].Author)
	}
	return out
}

func cloneUser(user *models.User) *models.User {
	if user == nil {
		return nil
	}
	out := *user
	return &out
}
