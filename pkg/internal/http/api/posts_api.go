package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/socialconnect/feedsync/pkg/internal/http/exts"
)

func (v *controller) createPost(c *fiber.Ctx) error {
	if !v.Session.IsSignedIn() {
		return fiber.NewError(fiber.StatusUnauthorized, "sign in before posting")
	}

	var data struct {
		Text   string   `json:"text" validate:"required_without=Images,max=4096"`
		Images []string `json:"images" validate:"dive,url"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := v.Gateway.CreatePost(c.UserContext(), v.Session.UserID(), data.Text, data.Images); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	if err := v.Refresh(c.UserContext()); err != nil {
		log.Warn().Err(err).Msg("Unable to refresh the feed after creating a post...")
	}

	return c.SendStatus(fiber.StatusCreated)
}

func (v *controller) editPost(c *fiber.Ctx) error {
	if !v.Session.IsSignedIn() {
		return fiber.NewError(fiber.StatusUnauthorized, "sign in before editing posts")
	}

	postId := c.Params("postId")
	if item, ok := v.Store.Get(postId); ok && item.UserID != v.Session.UserID() {
		return fiber.NewError(fiber.StatusForbidden, "cannot edit someone else's post")
	}

	var data struct {
		Text   string   `json:"text" validate:"required_without=Images,max=4096"`
		Images []string `json:"images" validate:"dive,url"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := v.Gateway.UpdatePost(c.UserContext(), postId, data.Text, data.Images); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	if err := v.Refresh(c.UserContext()); err != nil {
		log.Warn().Err(err).Msg("Unable to refresh the feed after editing a post...")
	}

	return c.SendStatus(fiber.StatusOK)
}

// deletePost removes a post locally only after the backend confirmed the
// delete; there is no optimistic path for removals.
func (v *controller) deletePost(c *fiber.Ctx) error {
	if !v.Session.IsSignedIn() {
		return fiber.NewError(fiber.StatusUnauthorized, "sign in before deleting posts")
	}

	postId := c.Params("postId")
	if item, ok := v.Store.Get(postId); ok && item.UserID != v.Session.UserID() {
		return fiber.NewError(fiber.StatusForbidden, "cannot delete someone else's post")
	}

	if err := v.Gateway.DeletePost(c.UserContext(), postId); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	v.Store.Remove(postId)

	return c.SendStatus(fiber.StatusNoContent)
}
