package store

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/socialconnect/feedsync/pkg/internal/models"
)

// Receipt reports what an optimistic mutation did locally and, once the
// backend answered, whether the confirmation went through. Callers are free
// to ignore it; failures are logged either way and never rolled back.
type Receipt struct {
	Applied bool
	Action  models.ReactionAction

	confirm chan error
}

// Confirmed yields the confirmation result and is closed afterwards. For a
// mutation that never applied locally the channel is closed right away.
func (r *Receipt) Confirmed() <-chan error {
	return r.confirm
}

func noopReceipt() *Receipt {
	r := &Receipt{confirm: make(chan error)}
	close(r.confirm)
	return r
}

// ReactToPost toggles the given axis for a user on a post. The local state
// change is applied synchronously before the network confirmation is even
// issued; the emitted action describes only the axis that was acted on, the
// opposite axis is cleared locally and left to the next likeUpdate snapshot.
//
// Unknown posts and empty user ids are no-ops. This method never fails the
// caller.
func (s *FeedStore) ReactToPost(ctx context.Context, postId, userId string, axis models.ReactionAxis) *Receipt {
	if len(userId) == 0 {
		log.Debug().Str("post", postId).Msg("Dropped a reaction with an empty user id...")
		return noopReceipt()
	}

	s.mu.Lock()
	idx := s.indexOf(postId)
	if idx < 0 {
		s.mu.Unlock()
		return noopReceipt()
	}

	post := &s.posts[idx]
	var action models.ReactionAction

	switch axis {
	case models.AxisLike:
		if lo.Contains(post.LikedBy, userId) {
			post.LikedBy = dropUser(post.LikedBy, userId)
			action = models.ReactionLikeRemove
		} else {
			post.LikedBy = append(post.LikedBy, userId)
			post.UnlikedBy = dropUser(post.UnlikedBy, userId)
			action = models.ReactionLikeAdd
		}
	case models.AxisUnlike:
		if lo.Contains(post.UnlikedBy, userId) {
			post.UnlikedBy = dropUser(post.UnlikedBy, userId)
			action = models.ReactionUnlikeRemove
		} else {
			post.UnlikedBy = append(post.UnlikedBy, userId)
			post.LikedBy = dropUser(post.LikedBy, userId)
			action = models.ReactionUnlikeAdd
		}
	default:
		s.mu.Unlock()
		log.Warn().Str("axis", string(axis)).Msg("Dropped a reaction with an unknown axis...")
		return noopReceipt()
	}
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeReaction, PostID: postId})

	receipt := &Receipt{Applied: true, Action: action, confirm: make(chan error, 1)}
	go func() {
		err := s.gateway.SendReaction(ctx, postId, userId, action)
		if err != nil {
			log.Warn().Err(err).
				Str("post", postId).
				Str("action", string(action)).
				Msg("Failed to confirm reaction, keeping optimistic state...")
		}
		receipt.confirm <- err
		close(receipt.confirm)
	}()

	return receipt
}

func dropUser(list []string, userId string) []string {
	return lo.Filter(list, func(item string, _ int) bool {
		return item != userId
	})
}
