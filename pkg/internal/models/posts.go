package models

import (
	"time"

	"github.com/samber/lo"
)

// ReactionAxis is the toggle dimension a user acts on. Each post tracks the
// two axes independently, but a user id may live on at most one of them.
type ReactionAxis string

const (
	AxisLike   = ReactionAxis("like")
	AxisUnlike = ReactionAxis("unlike")
)

// ReactionAction is the wire-level transition reported to the gateway.
// Only the axis the user acted on is reported; clearing the opposite axis
// happens locally and is reconciled by the next likeUpdate snapshot.
type ReactionAction string

const (
	ReactionLikeAdd      = ReactionAction("like_add")
	ReactionLikeRemove   = ReactionAction("like_remove")
	ReactionUnlikeAdd    = ReactionAction("unlike_add")
	ReactionUnlikeRemove = ReactionAction("unlike_remove")
)

type Comment struct {
	ID        string    `json:"id" validate:"required"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	Author *User `json:"user,omitempty"`
}

type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	Images    []string  `json:"images"`
	LikedBy   []string  `json:"likedBy"`
	UnlikedBy []string  `json:"unlikedBy"`
	Comments  []Comment `json:"comments"`
	Timestamp time.Time `json:"timestamp"`

	Author *User `json:"user,omitempty"`
}

func (p Post) IsLikedBy(userId string) bool {
	return lo.Contains(p.LikedBy, userId)
}

func (p Post) IsUnlikedBy(userId string) bool {
	return lo.Contains(p.UnlikedBy, userId)
}

func (p Post) HasComment(commentId string) bool {
	return lo.ContainsBy(p.Comments, func(item Comment) bool {
		return item.ID == commentId
	})
}
