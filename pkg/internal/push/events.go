package push

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/socialconnect/feedsync/pkg/internal/models"
)

const (
	EventLikeUpdate    = "likeUpdate"
	EventCommentUpdate = "commentUpdate"
	EventPostCreated   = "postCreated"
	EventPostDeleted   = "postDeleted"
)

type EventEnvelope struct {
	Event   string              `json:"event" validate:"required"`
	Payload jsoniter.RawMessage `json:"payload" validate:"required"`
}

type LikeUpdatePayload struct {
	PostID    string   `json:"postId" validate:"required"`
	LikedBy   []string `json:"likedBy"`
	UnlikedBy []string `json:"unlikedBy"`
}

type CommentUpdatePayload struct {
	PostID  string         `json:"postId" validate:"required"`
	Comment models.Comment `json:"comment" validate:"required"`
}

type PostCreatedPayload struct {
	Post models.Post `json:"post" validate:"required"`
}

type PostDeletedPayload struct {
	PostID string `json:"postId" validate:"required"`
}
