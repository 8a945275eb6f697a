package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/socialconnect/feedsync/pkg/internal/models"
)

// SendReaction reports a single-axis reaction transition for a post. The
// backend treats the two axes as independent counters, so only the axis the
// user acted on is reported; no response body is expected.
func (v *Client) SendReaction(ctx context.Context, postId, userId string, action models.ReactionAction) error {
	status, raw, err := v.do(ctx, http.MethodPatch, "/post-reaction/"+postId, fiber.Map{
		"userId": userId,
		"action": action,
	})
	if err != nil {
		return fmt.Errorf("failed to send reaction: %v", err)
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("unexpected status code: %d, response: %s", status, raw)
	}

	return nil
}

// CreateComment submits a client-composed comment. The comment id is minted
// client-side so the optimistic copy and the stored one agree.
func (v *Client) CreateComment(ctx context.Context, postId string, comment models.Comment) error {
	status, raw, err := v.do(ctx, http.MethodPost, "/comment/"+postId, fiber.Map{
		"id":        comment.ID,
		"userId":    comment.UserID,
		"text":      comment.Text,
		"timestamp": comment.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to create comment: %v", err)
	}
	if status != fiber.StatusCreated {
		return fmt.Errorf("unexpected status code: %d, response: %s", status, raw)
	}

	return nil
}
